package database

import (
	"context"
	"errors"
	"time"

	"github.com/emotisync/backend/models"
	"github.com/emotisync/backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoUserStore struct {
	col *mongo.Collection
}

func NewUserStore() UserStore {
	return &mongoUserStore{col: OpenCollection("users")}
}

func (s *mongoUserStore) Insert(ctx context.Context, user models.User) error {
	_, err := s.col.InsertOne(ctx, user)
	if err != nil && utils.IsDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

func (s *mongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUserStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUserStore) SetRefreshToken(ctx context.Context, id bson.ObjectID, token string, expiresAt time.Time) error {
	res, err := s.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"refreshToken":     token,
			"refreshExpiresAt": expiresAt,
			"updatedAt":        time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUserStore) ClearRefreshToken(ctx context.Context, id bson.ObjectID) error {
	// Idempotent: clearing an already-clear reference is not an error.
	_, err := s.col.UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{"refreshToken": "", "refreshExpiresAt": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	})
	return err
}

func (s *mongoUserStore) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.col.UpdateMany(ctx, bson.M{
		"refreshExpiresAt": bson.M{"$lt": now},
	}, bson.M{
		"$unset": bson.M{"refreshToken": "", "refreshExpiresAt": ""},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
