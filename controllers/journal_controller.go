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

// POST /api/journal — private entry, any authenticated user.
func CreateJournalEntry(journal database.JournalStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}

		var body dto.CreateJournalEntryDTO
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
		entry := models.JournalEntry{
			ID:        bson.NewObjectID(),
			UserID:    p.UserID,
			Title:     strings.TrimSpace(body.Title),
			Content:   content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := journal.Insert(c.Request.Context(), entry); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create journal entry"})
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

// GET /api/journal — the caller's entries, newest-first.
func GetJournalEntries(journal database.JournalStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}

		entries, err := journal.FindByUser(c.Request.Context(), p.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch journal entries"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// POST /api/journal/:id/share — copy a private entry into the caller's
// room's shared journal. The room ledger is canonical; the source entry only
// keeps a pointer.
func ShareJournalEntry(journal database.JournalStore, rooms database.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := requirePrincipal(c)
		if !ok {
			return
		}

		entryID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid journal entry id"})
			return
		}

		var body dto.ShareJournalEntryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		roomID, err := bson.ObjectIDFromHex(body.RoomID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
			return
		}

		ctx := c.Request.Context()
		entry, err := journal.FindOwned(ctx, entryID, p.UserID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "journal entry not found"})
			return
		}

		room, err := rooms.FindByID(ctx, roomID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		if !room.IsMember(p.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if p.Role != models.RoleClient {
			c.JSON(http.StatusForbidden, gin.H{"error": "only clients can share journal entries"})
			return
		}

		now := time.Now().UTC()
		shared := models.SharedEntry{
			ID:        bson.NewObjectID(),
			AuthorID:  p.UserID,
			Title:     entry.Title,
			Content:   entry.Content,
			CreatedAt: now,
		}
		if err := rooms.Push(ctx, room.ID, database.FieldSharedJournal, shared, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to share journal entry"})
			return
		}
		if err := journal.MarkShared(ctx, entry.ID, room.ID, now); err != nil && !errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to share journal entry"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "journal entry shared with therapist", "entry": shared})
	}
}
