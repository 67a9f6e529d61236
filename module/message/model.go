package message

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Model is one durable direct message, keyed by the unordered pair of
// participants (the users array) like the history queries expect.
type Model struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Users     []string           `bson:"users" json:"users"`
	Sender    string             `bson:"sender" json:"sender"`
	Content   string             `bson:"content" json:"content"`
	Kind      string             `bson:"kind" json:"kind"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

const Collection = "messages"
