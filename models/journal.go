package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// JournalEntry is a private entry owned by a single user. The shared ledger
// lives on Room.SharedJournal; sharing an entry copies it there and stamps
// RoomID/IsShared on the source as a pointer, which is never read back as
// the shared ledger itself.
type JournalEntry struct {
	ID      bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  bson.ObjectID `bson:"userId" json:"userId"`
	Title   string        `bson:"title" json:"title"`
	Content string        `bson:"content" json:"content"`

	RoomID   *bson.ObjectID `bson:"roomId,omitempty" json:"roomId,omitempty"`
	IsShared bool           `bson:"isShared" json:"isShared"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
