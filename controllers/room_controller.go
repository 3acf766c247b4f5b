package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/emotisync/backend/database"
	"github.com/emotisync/backend/dto"
	"github.com/emotisync/backend/middleware"
	"github.com/emotisync/backend/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func requirePrincipal(c *gin.Context) (middleware.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
	}
	return p, ok
}

// loadMemberRoom resolves the :id room and enforces membership: 404 when the
// room is absent, 403 when the caller is not one of the two parties.
func loadMemberRoom(c *gin.Context, rooms database.RoomStore, p middleware.Principal) (*models.Room, bool) {
	roomID, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return nil, false
	}

	room, err := rooms.FindByID(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch room"})
		return nil, false
	}

	if !room.IsMember(p.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return room, true
}

// POST /api/room
func CreateRoom(users database.UserStore, rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		if p.Role != models.RoleTherapist {
			c.JSON(http.StatusForbidden, gin.H{"error": "only therapists can create rooms"})
			return
		}

		var body dto.CreateRoomDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		clientID, err := bson.ObjectIDFromHex(body.ClientID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
			return
		}

		ctx := c.Request.Context()
		client, err := users.FindByID(ctx, clientID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client not found"})
			return
		}
		if client.Role != models.RoleClient {
			c.JSON(http.StatusBadRequest, gin.H{"error": "clientId must reference a client"})
			return
		}

		if _, err := rooms.FindByPair(ctx, p.UserID, clientID); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "room already exists"})
			return
		}

		now := time.Now().UTC()
		room := models.Room{
			ID:             bson.NewObjectID(),
			TherapistID:    p.UserID,
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

		if err := rooms.Insert(ctx, room); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				// Lost the race against a concurrent create for the same pair.
				c.JSON(http.StatusConflict, gin.H{"error": "room already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
			return
		}

		c.JSON(http.StatusCreated, room)
	}
}

// GET /api/room — therapist's rooms, newest-updated first.
func GetTherapistRooms(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		if p.Role != models.RoleTherapist {
			c.JSON(http.StatusForbidden, gin.H{"error": "only therapists can view all rooms"})
			return
		}

		list, err := rooms.FindByTherapist(c.Request.Context(), p.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch rooms"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /api/room/my — the client's single room.
func GetMyRoom(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		if p.Role != models.RoleClient {
			c.JSON(http.StatusForbidden, gin.H{"error": "only clients can use this endpoint"})
			return
		}

		room, err := rooms.FindByClient(c.Request.Context(), p.UserID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no room found for this client"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch room"})
			return
		}

		room.TherapistNotes = nil
		c.JSON(http.StatusOK, room)
	}
}

// GET /api/room/:id
func GetRoom(rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}
		room, ok := loadMemberRoom(c, rooms, p)
		if !ok {
			return
		}

		// Therapist-private notes never leave the room for clients.
		if p.Role != models.RoleTherapist {
			room.TherapistNotes = nil
		}
		c.JSON(http.StatusOK, room)
	}
}
