package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email"         json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"` // empty for OAuth-only accounts
	Provider     string             `bson:"provider"      json:"provider"`    // "local" | "google" | "github"
	ExternalID   string             `bson:"external_id"   json:"external_id"` // provider-scoped subject id
	CreatedAt    time.Time          `bson:"created_at"    json:"created_at"`
}

// Local reports whether the account can be verified by password.
func (u *User) Local() bool { return u.PasswordHash != "" }
