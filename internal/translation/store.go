package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store persists whole cache snapshots.
type Store interface {
	Load(ctx context.Context) (map[string]Entry, error)
	Save(ctx context.Context, snapshot map[string]Entry) error
}

// MemoryStore keeps the last snapshot in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	snapshot []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(context.Context) (map[string]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeSnapshot(s.snapshot)
}

func (s *MemoryStore) Save(_ context.Context, snapshot map[string]Entry) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshot = raw
	s.mu.Unlock()
	return nil
}

// RedisStore keeps the snapshot as one JSON string under key.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = "translation_cache"
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (map[string]Entry, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return map[string]Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return decodeSnapshot(raw)
}

func (s *RedisStore) Save(ctx context.Context, snapshot map[string]Entry) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// decodeSnapshot loads an empty or corrupt snapshot as an empty map.
func decodeSnapshot(raw []byte) (map[string]Entry, error) {
	out := map[string]Entry{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]Entry{}, nil
	}
	return out, nil
}
