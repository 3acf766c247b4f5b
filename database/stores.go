package database

import (
	"context"
	"errors"
	"time"

	"github.com/emotisync/backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

// UserStore persists User records and the per-user refresh reference.
type UserStore interface {
	Insert(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	SetRefreshToken(ctx context.Context, id bson.ObjectID, token string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, id bson.ObjectID) error
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// RoomStore persists rooms and their embedded sub-sequences. Appends must be
// atomic on the room document: two concurrent pushes both survive.
type RoomStore interface {
	Insert(ctx context.Context, room models.Room) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Room, error)
	FindByPair(ctx context.Context, therapistID, clientID bson.ObjectID) (*models.Room, error)
	FindByTherapist(ctx context.Context, therapistID bson.ObjectID) ([]models.Room, error)
	FindByClient(ctx context.Context, clientID bson.ObjectID) (*models.Room, error)
	Push(ctx context.Context, roomID bson.ObjectID, field string, entry any, now time.Time) error
	PushNoteComment(ctx context.Context, roomID, noteID bson.ObjectID, comment models.NoteComment, now time.Time) error
}

// JournalStore persists the private journal collection.
type JournalStore interface {
	Insert(ctx context.Context, entry models.JournalEntry) error
	FindByUser(ctx context.Context, userID bson.ObjectID) ([]models.JournalEntry, error)
	FindOwned(ctx context.Context, id, userID bson.ObjectID) (*models.JournalEntry, error)
	MarkShared(ctx context.Context, id, roomID bson.ObjectID, now time.Time) error
}

// Room sub-sequence field names, shared by the Mongo and in-memory stores.
const (
	FieldResources      = "resources"
	FieldMessages       = "messages"
	FieldSharedJournal  = "sharedJournal"
	FieldSessionNotes   = "sessionNotes"
	FieldCheckIns       = "checkIns"
	FieldTherapistNotes = "therapistNotes"
)
