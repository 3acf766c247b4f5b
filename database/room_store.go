package database

import (
	"context"
	"errors"
	"time"

	"github.com/emotisync/backend/models"
	"github.com/emotisync/backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type mongoRoomStore struct {
	col *mongo.Collection
}

func NewRoomStore() RoomStore {
	return &mongoRoomStore{col: OpenCollection("rooms")}
}

func (s *mongoRoomStore) Insert(ctx context.Context, room models.Room) error {
	_, err := s.col.InsertOne(ctx, room)
	if err != nil && utils.IsDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

func (s *mongoRoomStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Room, error) {
	var room models.Room
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *mongoRoomStore) FindByPair(ctx context.Context, therapistID, clientID bson.ObjectID) (*models.Room, error) {
	var room models.Room
	err := s.col.FindOne(ctx, bson.M{"therapistId": therapistID, "clientId": clientID}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *mongoRoomStore) FindByTherapist(ctx context.Context, therapistID bson.ObjectID) ([]models.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"therapistId": therapistID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	rooms := make([]models.Room, 0)
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *mongoRoomStore) FindByClient(ctx context.Context, clientID bson.ObjectID) (*models.Room, error) {
	var room models.Room
	err := s.col.FindOne(ctx, bson.M{"clientId": clientID}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Push appends one entry to the named sub-sequence and bumps updatedAt in a
// single atomic document update.
func (s *mongoRoomStore) Push(ctx context.Context, roomID bson.ObjectID, field string, entry any, now time.Time) error {
	res, err := s.col.UpdateByID(ctx, roomID, bson.M{
		"$push": bson.M{field: entry},
		"$set":  bson.M{"updatedAt": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoRoomStore) PushNoteComment(ctx context.Context, roomID, noteID bson.ObjectID, comment models.NoteComment, now time.Time) error {
	res, err := s.col.UpdateOne(ctx, bson.M{
		"_id":              roomID,
		"sessionNotes._id": noteID,
	}, bson.M{
		"$push": bson.M{"sessionNotes.$.comments": comment},
		"$set":  bson.M{"updatedAt": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
