package integration

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"ai-retrieval-be/pkg/retrieval"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisSessionStore(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opt)

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		t.Fatalf("Redis not reachable: %v", err)
	}

	const maxMessages = 5
	ttl := 2 * time.Minute
	store := retrieval.NewRedisSessionStore(rdb, ttl, maxMessages, log.New(io.Discard, "", 0))

	userId := "integration-" + uuid.New().String()
	defer store.Clear(ctx, userId)

	record := func(query string) retrieval.Record {
		return retrieval.Record{
			Timestamp:     time.Now().UTC(),
			Query:         query,
			StrategyUsed:  "local",
			DocumentCount: 1,
			KeyPoints:     []string{"From test: " + query},
		}
	}

	t.Run("Empty History", func(t *testing.T) {
		history := store.History(ctx, userId)
		assert.Empty(t, history)
	})

	t.Run("Append And Read Back Chronologically", func(t *testing.T) {
		store.Append(ctx, userId, record("first"))
		store.Append(ctx, userId, record("second"))
		store.Append(ctx, userId, record("third"))

		history := store.History(ctx, userId)
		if assert.Len(t, history, 3) {
			assert.Equal(t, "first", history[0].Query)
			assert.Equal(t, "second", history[1].Query)
			assert.Equal(t, "third", history[2].Query)
		}
	})

	t.Run("TTL Is Set", func(t *testing.T) {
		remaining, err := rdb.TTL(ctx, "session:"+userId).Result()
		assert.NoError(t, err)
		assert.Greater(t, remaining, time.Duration(0))
		assert.LessOrEqual(t, remaining, ttl)
	})

	t.Run("Evicts Oldest Beyond Cap", func(t *testing.T) {
		store.Append(ctx, userId, record("fourth"))
		store.Append(ctx, userId, record("fifth"))
		store.Append(ctx, userId, record("sixth"))

		history := store.History(ctx, userId)
		if assert.Len(t, history, maxMessages) {
			assert.Equal(t, "second", history[0].Query, "oldest record should be evicted")
			assert.Equal(t, "sixth", history[maxMessages-1].Query)
		}
	})

	t.Run("Clear Is Idempotent", func(t *testing.T) {
		assert.NoError(t, store.Clear(ctx, userId))
		assert.Empty(t, store.History(ctx, userId))
		assert.NoError(t, store.Clear(ctx, userId), "clearing an absent session is not an error")
	})
}
