package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Config for the redis-backed presence mirror.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Mirror reflects the in-process presence registry into redis so sibling
// processes (or an ops shell) can observe liveness. Key per user:
// im:presence:<user>, value is this gateway's ID, TTL bounds staleness if a
// process dies without cleaning up. The registry stays authoritative.
type Mirror struct {
	rdb  *redis.Client
	gwID string
	ttl  time.Duration
}

func NewMirror(c Config, gwID string, ttl time.Duration) (*Mirror, error) {
	rdb := redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "redis ping")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Mirror{rdb: rdb, gwID: gwID, ttl: ttl}, nil
}

func presenceKey(user string) string { return "im:presence:" + user }

// Online marks the user live and renews the TTL.
func (m *Mirror) Online(ctx context.Context, userID string) error {
	return errors.Wrap(m.rdb.Set(ctx, presenceKey(userID), m.gwID, m.ttl).Err(), "presence online")
}

// Offline removes the key.
func (m *Mirror) Offline(ctx context.Context, userID string) error {
	return errors.Wrap(m.rdb.Del(ctx, presenceKey(userID)).Err(), "presence offline")
}

// Lookup reports whether the user has a live mirror entry and which gateway
// owns it.
func (m *Mirror) Lookup(ctx context.Context, userID string) (gwID string, online bool, err error) {
	val, err := m.rdb.Get(ctx, presenceKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "presence lookup")
	}
	return val, true, nil
}

func (m *Mirror) Close() error { return m.rdb.Close() }
