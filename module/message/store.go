package message

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists and fetches direct-message history. It is the durable
// collaborator of the relay core: the gateway calls Save before routing,
// and history is recovered through Between regardless of whether the live
// relay ever happened.
type Store struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(Collection)}
}

// Save appends one message. Implements the gateway's MessageStore.
func (s *Store) Save(ctx context.Context, from, to, content, kind string) error {
	m := Model{
		Users:     []string{from, to},
		Sender:    from,
		Content:   content,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	_, err := s.coll.InsertOne(ctx, m)
	return errors.Wrap(err, "insert message")
}

// Between returns every message exchanged by the pair, oldest first.
func (s *Store) Between(ctx context.Context, a, b string) ([]Model, error) {
	filter := bson.M{"users": bson.M{"$all": []string{a, b}}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find messages")
	}
	defer cur.Close(ctx)

	var out []Model
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode messages")
	}
	return out, nil
}
