package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	"childcare-assistant/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	store := NewRedisStore(client, "test:translations")

	c, err := Open(ctx, time.Hour, store, logger.NewTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "good morning", "buenos días", "es", "en"))

	assert.True(t, mr.Exists("test:translations"))
	ttl := mr.TTL("test:translations")
	assert.Zero(t, ttl, "snapshot key never expires on its own")

	reopened, err := Open(ctx, time.Hour, store, logger.NewTestLogger(t))
	require.NoError(t, err)
	got, ok := reopened.Get("good morning", "es", "en")
	assert.True(t, ok)
	assert.Equal(t, "buenos días", got)
}

func TestRedisStore_SaveFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()

	c := NewCache(time.Hour, NewRedisStore(client, ""), logger.NewTestLogger(t))
	mr.Close()

	err := c.Set(context.Background(), "a", "b", "fr", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save translation cache")

	// The in-memory entry survives a failed write.
	_, ok := c.Get("a", "fr", "")
	assert.True(t, ok)
}

func TestRedisStore_Load(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock redismock.ClientMock)
		wantLen   int
		wantErr   bool
	}{
		{
			name: "missing key is empty",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectGet("translation_cache").RedisNil()
			},
		},
		{
			name: "corrupt snapshot is empty",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectGet("translation_cache").SetVal("{not json")
			},
		},
		{
			name: "valid snapshot",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectGet("translation_cache").SetVal(`{"auto-fr-aGk=":{"translatedText":"salut","createdAt":1,"ttl":1000}}`)
			},
			wantLen: 1,
		},
		{
			name: "redis error",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectGet("translation_cache").SetErr(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			tt.setupMock(mock)

			snapshot, err := NewRedisStore(client, "").Load(context.Background())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, snapshot, tt.wantLen)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
