package controllers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/emotisync/backend/database"
	"github.com/emotisync/backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// In-memory stores mirroring the Mongo implementations, including the
// uniqueness guarantees the real unique indexes provide.

type memUserStore struct {
	mu      sync.Mutex
	byID    map[bson.ObjectID]models.User
	byEmail map[string]bson.ObjectID
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		byID:    map[bson.ObjectID]models.User{},
		byEmail: map[string]bson.ObjectID{},
	}
}

func (s *memUserStore) Insert(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return database.ErrDuplicate
	}
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *memUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, database.ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *memUserStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &u, nil
}

func (s *memUserStore) SetRefreshToken(ctx context.Context, id bson.ObjectID, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return database.ErrNotFound
	}
	u.RefreshToken = &token
	u.RefreshExpiresAt = &expiresAt
	s.byID[id] = u
	return nil
}

func (s *memUserStore) ClearRefreshToken(ctx context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil
	}
	u.RefreshToken = nil
	u.RefreshExpiresAt = nil
	s.byID[id] = u
	return nil
}

func (s *memUserStore) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, u := range s.byID {
		if u.RefreshExpiresAt != nil && u.RefreshExpiresAt.Before(now) {
			u.RefreshToken = nil
			u.RefreshExpiresAt = nil
			s.byID[id] = u
			n++
		}
	}
	return n, nil
}

type memRoomStore struct {
	mu sync.Mutex
	m  map[bson.ObjectID]models.Room
}

func newMemRoomStore() *memRoomStore {
	return &memRoomStore{m: map[bson.ObjectID]models.Room{}}
}

func (s *memRoomStore) Insert(ctx context.Context, room models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.m {
		if r.TherapistID == room.TherapistID && r.ClientID == room.ClientID {
			return database.ErrDuplicate
		}
	}
	s.m[room.ID] = room
	return nil
}

func (s *memRoomStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.m[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &r, nil
}

func (s *memRoomStore) FindByPair(ctx context.Context, therapistID, clientID bson.ObjectID) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.m {
		if r.TherapistID == therapistID && r.ClientID == clientID {
			room := r
			return &room, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *memRoomStore) FindByTherapist(ctx context.Context, therapistID bson.ObjectID) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]models.Room, 0)
	for _, r := range s.m {
		if r.TherapistID == therapistID {
			rooms = append(rooms, r)
		}
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].UpdatedAt.After(rooms[j].UpdatedAt)
	})
	return rooms, nil
}

func (s *memRoomStore) FindByClient(ctx context.Context, clientID bson.ObjectID) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.m {
		if r.ClientID == clientID {
			room := r
			return &room, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *memRoomStore) Push(ctx context.Context, roomID bson.ObjectID, field string, entry any, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.m[roomID]
	if !ok {
		return database.ErrNotFound
	}
	switch field {
	case database.FieldResources:
		r.Resources = append(r.Resources, entry.(models.Resource))
	case database.FieldMessages:
		r.Messages = append(r.Messages, entry.(models.Message))
	case database.FieldSharedJournal:
		r.SharedJournal = append(r.SharedJournal, entry.(models.SharedEntry))
	case database.FieldSessionNotes:
		r.SessionNotes = append(r.SessionNotes, entry.(models.SessionNote))
	case database.FieldCheckIns:
		r.CheckIns = append(r.CheckIns, entry.(models.CheckIn))
	case database.FieldTherapistNotes:
		r.TherapistNotes = append(r.TherapistNotes, entry.(models.TherapistNote))
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	r.UpdatedAt = now
	s.m[roomID] = r
	return nil
}

func (s *memRoomStore) PushNoteComment(ctx context.Context, roomID, noteID bson.ObjectID, comment models.NoteComment, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.m[roomID]
	if !ok {
		return database.ErrNotFound
	}
	for i := range r.SessionNotes {
		if r.SessionNotes[i].ID == noteID {
			r.SessionNotes[i].Comments = append(r.SessionNotes[i].Comments, comment)
			r.UpdatedAt = now
			s.m[roomID] = r
			return nil
		}
	}
	return database.ErrNotFound
}

type memJournalStore struct {
	mu sync.Mutex
	m  map[bson.ObjectID]models.JournalEntry
}

func newMemJournalStore() *memJournalStore {
	return &memJournalStore{m: map[bson.ObjectID]models.JournalEntry{}}
}

func (s *memJournalStore) Insert(ctx context.Context, entry models.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[entry.ID] = entry
	return nil
}

func (s *memJournalStore) FindByUser(ctx context.Context, userID bson.ObjectID) ([]models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]models.JournalEntry, 0)
	for _, e := range s.m {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s *memJournalStore) FindOwned(ctx context.Context, id, userID bson.ObjectID) (*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok || e.UserID != userID {
		return nil, database.ErrNotFound
	}
	return &e, nil
}

func (s *memJournalStore) MarkShared(ctx context.Context, id, roomID bson.ObjectID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		return database.ErrNotFound
	}
	e.RoomID = &roomID
	e.IsShared = true
	e.UpdatedAt = now
	s.m[id] = e
	return nil
}
