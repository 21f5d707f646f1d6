package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Cache on a redis instance. Entries are stored as a JSON
// envelope carrying the write timestamp; TTL expiry is delegated to redis.
// Online is a Ping against the server.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis cache around an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Make sure we conform to the interface
var _ Cache = (*Redis)(nil)

// Put stores value under key with the given TTL.
func (r *Redis) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	envelope, err := json.Marshal(Entry{Value: raw, Timestamp: time.Now()})
	if err != nil {
		return err
	}

	return r.client.Set(ctx, key, envelope, ttl).Err()
}

// Get unmarshals the cached value for key into dest.
func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	entry, err := r.GetEntry(ctx, key)
	if err != nil || entry == nil {
		return false, err
	}
	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return false, err
	}
	return true, nil
}

// GetEntry returns the raw cached entry, or nil when absent.
func (r *Redis) GetEntry(ctx context.Context, key string) (*Entry, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Online reports whether the redis server answers a ping.
func (r *Redis) Online(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}
