package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User mirrors the account document. Password holds the bcrypt hash and
// never serializes to JSON.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Avatar   string             `bson:"avatar" json:"avatar"`
	Status   string             `bson:"status" json:"status"`
	LastSeen time.Time          `bson:"last_seen" json:"lastSeen"`
}

const Collection = "users"
