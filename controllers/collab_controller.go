package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/emotisync/backend/database"
	"github.com/emotisync/backend/dto"
	"github.com/emotisync/backend/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// newestFirst returns a reversed copy; sub-sequences are stored in insertion
// order and listed newest-first.
func newestFirst[T any](entries []T) []T {
	out := make([]T, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

func pushEntry(c *gin.Context, rooms database.RoomStore, roomID bson.ObjectID, field string, entry any, now time.Time) bool {
	err := rooms.Push(c.Request.Context(), roomID, field, entry, now)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save entry"})
		return false
	}
	return true
}

// POST /api/room/:id/journal — clients only.
func AddSharedEntry(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}
		if p.Role != models.RoleClient {
			c.JSON(http.StatusForbidden, gin.H{"error": "only clients can create journal entries"})
			return
		}

		var body dto.CreateSharedEntryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content := strings.TrimSpace(body.Content)
		if content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}
		title := strings.TrimSpace(body.Title)
		if title == "" {
			title = "Untitled"
		}

		now := time.Now().UTC()
		entry := models.SharedEntry{
			ID:        bson.NewObjectID(),
			AuthorID:  p.UserID,
			Title:     title,
			Content:   content,
			CreatedAt: now,
		}
		if !pushEntry(c, rooms, room.ID, database.FieldSharedJournal, entry, now) {
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

// GET /api/room/:id/journal
func GetSharedJournal(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, newestFirst(room.SharedJournal))
	}
}

// POST /api/room/:id/messages — either member.
func AddMessage(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}

		var body dto.CreateMessageDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content := strings.TrimSpace(body.Content)
		if content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}

		now := time.Now().UTC()
		msg := models.Message{
			ID:        bson.NewObjectID(),
			SenderID:  p.UserID,
			Content:   content,
			CreatedAt: now,
		}
		if !pushEntry(c, rooms, room.ID, database.FieldMessages, msg, now) {
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}

// GET /api/room/:id/messages
func GetMessages(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, newestFirst(room.Messages))
	}
}

// POST /api/room/:id/session-notes — therapists only.
func AddSessionNote(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}
		if p.Role != models.RoleTherapist {
			c.JSON(http.StatusForbidden, gin.H{"error": "only therapists can create session notes"})
			return
		}

		var body dto.CreateSessionNoteDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content := strings.TrimSpace(body.Content)
		if content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}

		now := time.Now().UTC()
		note := models.SessionNote{
			ID:        bson.NewObjectID(),
			AuthorID:  p.UserID,
			Content:   content,
			Comments:  []models.NoteComment{},
			CreatedAt: now,
		}
		if !pushEntry(c, rooms, room.ID, database.FieldSessionNotes, note, now) {
			return
		}
		c.JSON(http.StatusCreated, note)
	}
}

// GET /api/room/:id/session-notes
func GetSessionNotes(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, newestFirst(room.SessionNotes))
	}
}

// POST /api/room/:id/session-notes/:noteId/comments — either member.
func AddNoteComment(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}

		noteID, err := bson.ObjectIDFromHex(c.Param("noteId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
			return
		}

		var body dto.CreateNoteCommentDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content := strings.TrimSpace(body.Content)
		if content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}

		now := time.Now().UTC()
		comment := models.NoteComment{
			ID:        bson.NewObjectID(),
			AuthorID:  p.UserID,
			Content:   content,
			CreatedAt: now,
		}
		if err := rooms.PushNoteComment(c.Request.Context(), room.ID, noteID, comment, now); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "session note not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save comment"})
			return
		}
		c.JSON(http.StatusCreated, comment)
	}
}

// POST /api/room/:id/checkins — clients only.
func AddCheckIn(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}
		if p.Role != models.RoleClient {
			c.JSON(http.StatusForbidden, gin.H{"error": "only clients can check in"})
			return
		}

		var body dto.CreateCheckInDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		mood := strings.TrimSpace(body.Mood)
		if mood == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mood is required"})
			return
		}

		now := time.Now().UTC()
		checkIn := models.CheckIn{
			ID:        bson.NewObjectID(),
			AuthorID:  p.UserID,
			Mood:      mood,
			Note:      strings.TrimSpace(body.Note),
			CreatedAt: now,
		}
		if !pushEntry(c, rooms, room.ID, database.FieldCheckIns, checkIn, now) {
			return
		}
		c.JSON(http.StatusCreated, checkIn)
	}
}

// GET /api/room/:id/checkins
func GetCheckIns(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, newestFirst(room.CheckIns))
	}
}

// POST /api/room/:id/resources — therapists only. Resources are URL
// references; no file storage.
func AddResource(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}
		if p.Role != models.RoleTherapist {
			c.JSON(http.StatusForbidden, gin.H{"error": "only therapists can share resources"})
			return
		}

		var body dto.CreateResourceDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		title := strings.TrimSpace(body.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}

		now := time.Now().UTC()
		resource := models.Resource{
			ID:         bson.NewObjectID(),
			UploaderID: p.UserID,
			Title:      title,
			URL:        body.URL,
			CreatedAt:  now,
		}
		if !pushEntry(c, rooms, room.ID, database.FieldResources, resource, now) {
			return
		}
		c.JSON(http.StatusCreated, resource)
	}
}

// GET /api/room/:id/resources
func GetResources(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, newestFirst(room.Resources))
	}
}

// POST /api/room/:id/therapist-notes — therapist only, write and read.
func AddTherapistNote(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}
		if p.Role != models.RoleTherapist {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		var body dto.CreateTherapistNoteDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content := strings.TrimSpace(body.Content)
		if content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
			return
		}

		now := time.Now().UTC()
		note := models.TherapistNote{
			ID:        bson.NewObjectID(),
			AuthorID:  p.UserID,
			Content:   content,
			CreatedAt: now,
		}
		if !pushEntry(c, rooms, room.ID, database.FieldTherapistNotes, note, now) {
			return
		}
		c.JSON(http.StatusCreated, note)
	}
}

// GET /api/room/:id/therapist-notes
func GetTherapistNotes(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}
		if p.Role != models.RoleTherapist {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.JSON(http.StatusOK, newestFirst(room.TherapistNotes))
	}
}
