package database

import (
	"context"
	"errors"
	"time"

	"github.com/emotisync/backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type mongoJournalStore struct {
	col *mongo.Collection
}

func NewJournalStore() JournalStore {
	return &mongoJournalStore{col: OpenCollection("journal_entries")}
}

func (s *mongoJournalStore) Insert(ctx context.Context, entry models.JournalEntry) error {
	_, err := s.col.InsertOne(ctx, entry)
	return err
}

func (s *mongoJournalStore) FindByUser(ctx context.Context, userID bson.ObjectID) ([]models.JournalEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	entries := make([]models.JournalEntry, 0)
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *mongoJournalStore) FindOwned(ctx context.Context, id, userID bson.ObjectID) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := s.col.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *mongoJournalStore) MarkShared(ctx context.Context, id, roomID bson.ObjectID, now time.Time) error {
	res, err := s.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"roomId": roomID, "isShared": true, "updatedAt": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
