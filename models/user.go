package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleClient    Role = "client"
	RoleTherapist Role = "therapist"
)

// ParseRole rejects anything outside the two known roles so stringly-typed
// role values never survive past the boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient:
		return RoleClient, nil
	case RoleTherapist:
		return RoleTherapist, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string        `bson:"username" json:"username"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"` // never expose
	Role         Role          `bson:"role" json:"role"`

	// Persisted refresh reference. At most one live refresh token per user:
	// login overwrites, logout clears.
	RefreshToken     *string    `bson:"refreshToken,omitempty" json:"-"`
	RefreshExpiresAt *time.Time `bson:"refreshExpiresAt,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// UserView is the sanitized shape returned to clients: no digest, no
// refresh reference.
type UserView struct {
	ID       bson.ObjectID `json:"id"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Role     Role          `json:"role"`
}

func (u User) View() UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
