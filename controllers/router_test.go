package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emotisync/backend/database"
	"github.com/emotisync/backend/middleware"
	"github.com/emotisync/backend/models"
	"github.com/emotisync/backend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type testEnv struct {
	router  *gin.Engine
	users   *memUserStore
	rooms   *memRoomStore
	journal *memJournalStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh-secret")

	gin.SetMode(gin.TestMode)
	users := newMemUserStore()
	rooms := newMemRoomStore()
	journal := newMemJournalStore()

	r := gin.New()

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", Register(users))
		auth.POST("/login", Login(users))
		auth.POST("/refresh", Refresh(users))
		auth.POST("/logout", Logout(users))
	}

	protected := r.Group("/api/protected")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/me", Me(users))
	}

	room := r.Group("/api/room")
	room.Use(middleware.AuthMiddleware())
	{
		room.POST("", CreateRoom(users, rooms))
		room.GET("", GetTherapistRooms(rooms))
		room.GET("/my", GetMyRoom(rooms))
		room.GET("/:id", GetRoom(rooms))

		room.POST("/:id/journal", AddSharedEntry(rooms))
		room.GET("/:id/journal", GetSharedJournal(rooms))
		room.POST("/:id/messages", AddMessage(rooms))
		room.GET("/:id/messages", GetMessages(rooms))
		room.POST("/:id/session-notes", AddSessionNote(rooms))
		room.GET("/:id/session-notes", GetSessionNotes(rooms))
		room.POST("/:id/session-notes/:noteId/comments", AddNoteComment(rooms))
		room.POST("/:id/checkins", AddCheckIn(rooms))
		room.GET("/:id/checkins", GetCheckIns(rooms))
		room.POST("/:id/resources", AddResource(rooms))
		room.GET("/:id/resources", GetResources(rooms))
		room.POST("/:id/therapist-notes", AddTherapistNote(rooms))
		room.GET("/:id/therapist-notes", GetTherapistNotes(rooms))
	}

	journalGroup := r.Group("/api/journal")
	journalGroup.Use(middleware.AuthMiddleware())
	{
		journalGroup.POST("", CreateJournalEntry(journal))
		journalGroup.GET("", GetJournalEntries(journal))
		journalGroup.POST("/:id/share", ShareJournalEntry(journal, rooms))
	}

	return &testEnv{router: r, users: users, rooms: rooms, journal: journal}
}

// seedUser inserts a user directly and returns it with a valid bearer token.
func (e *testEnv) seedUser(t *testing.T, username, email string, role models.Role) (models.User, string) {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	user := models.User{
		ID:           bson.NewObjectID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.users.Insert(t.Context(), user); err != nil {
		t.Fatal(err)
	}
	token, err := utils.GenerateAccessToken(user.ID.Hex(), string(role), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return user, token
}

// seedRoom inserts a room directly, bypassing the handler.
func (e *testEnv) seedRoom(t *testing.T, therapistID, clientID bson.ObjectID) models.Room {
	t.Helper()
	now := time.Now().UTC()
	room := models.Room{
		ID:             bson.NewObjectID(),
		TherapistID:    therapistID,
		ClientID:       clientID,
		Resources:      []models.Resource{},
		Messages:       []models.Message{},
		SharedJournal:  []models.SharedEntry{},
		SessionNotes:   []models.SessionNote{},
		CheckIns:       []models.CheckIn{},
		TherapistNotes: []models.TherapistNote{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.rooms.Insert(t.Context(), room); err != nil {
		t.Fatal(err)
	}
	return room
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// doWithCookie POSTs to path with the given refresh cookie attached.
func (e *testEnv) doWithCookie(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if cookie != nil {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func bytesContains(b []byte, needle string) bool {
	return bytes.Contains(b, []byte(needle))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}

var _ database.UserStore = (*memUserStore)(nil)
var _ database.RoomStore = (*memRoomStore)(nil)
var _ database.JournalStore = (*memJournalStore)(nil)
