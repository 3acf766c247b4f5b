package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Room pairs exactly one therapist with one client and owns the
// collaborative sub-sequences by composition. Sub-sequences are append-only;
// entries are never edited or removed.
type Room struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	TherapistID bson.ObjectID `bson:"therapistId" json:"therapistId"`
	ClientID    bson.ObjectID `bson:"clientId" json:"clientId"`

	Resources      []Resource      `bson:"resources" json:"resources"`
	Messages       []Message       `bson:"messages" json:"messages"`
	SharedJournal  []SharedEntry   `bson:"sharedJournal" json:"sharedJournal"`
	SessionNotes   []SessionNote   `bson:"sessionNotes" json:"sessionNotes"`
	CheckIns       []CheckIn       `bson:"checkIns" json:"checkIns"`
	TherapistNotes []TherapistNote `bson:"therapistNotes" json:"therapistNotes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsMember reports whether userID is one of the two parties. Identity
// comparison only; roles are checked separately.
func (r Room) IsMember(userID bson.ObjectID) bool {
	return r.TherapistID == userID || r.ClientID == userID
}

type Resource struct {
	ID         bson.ObjectID `bson:"_id" json:"id"`
	UploaderID bson.ObjectID `bson:"uploaderId" json:"uploaderId"`
	Title      string        `bson:"title" json:"title"`
	URL        string        `bson:"url" json:"url"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
}

type Message struct {
	ID        bson.ObjectID `bson:"_id" json:"id"`
	SenderID  bson.ObjectID `bson:"senderId" json:"senderId"`
	Content   string        `bson:"content" json:"content"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type SharedEntry struct {
	ID        bson.ObjectID `bson:"_id" json:"id"`
	AuthorID  bson.ObjectID `bson:"authorId" json:"authorId"`
	Title     string        `bson:"title" json:"title"`
	Content   string        `bson:"content" json:"content"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type SessionNote struct {
	ID        bson.ObjectID `bson:"_id" json:"id"`
	AuthorID  bson.ObjectID `bson:"authorId" json:"authorId"`
	Content   string        `bson:"content" json:"content"`
	Comments  []NoteComment `bson:"comments" json:"comments"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type NoteComment struct {
	ID        bson.ObjectID `bson:"_id" json:"id"`
	AuthorID  bson.ObjectID `bson:"authorId" json:"authorId"`
	Content   string        `bson:"content" json:"content"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type CheckIn struct {
	ID        bson.ObjectID `bson:"_id" json:"id"`
	AuthorID  bson.ObjectID `bson:"authorId" json:"authorId"`
	Mood      string        `bson:"mood" json:"mood"`
	Note      string        `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type TherapistNote struct {
	ID        bson.ObjectID `bson:"_id" json:"id"`
	AuthorID  bson.ObjectID `bson:"authorId" json:"authorId"`
	Content   string        `bson:"content" json:"content"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}
