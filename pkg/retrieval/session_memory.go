package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Record is one stored interaction. Records are immutable once appended.
type Record struct {
	Timestamp     time.Time `json:"timestamp"`
	Query         string    `json:"query"`
	StrategyUsed  Strategy  `json:"strategy_used"`
	DocumentCount int       `json:"document_count"`
	Reasoning     string    `json:"reasoning"`
	KeyPoints     []string  `json:"key_points"`
}

// SessionStore is the bounded, expiring per-user conversation history.
//
// Reads and writes fail closed: a missing, expired, or unreachable session
// reads as empty, and a failed append degrades to a logged no-op. Retrieval
// must keep working when the memory backend is down.
type SessionStore interface {
	// History returns the user's records oldest first.
	History(ctx context.Context, userId string) []Record
	// Append adds a record, evicts the oldest beyond the message cap and
	// refreshes the TTL window.
	Append(ctx context.Context, userId string, record Record)
	// Clear drops the user's history. Clearing an absent session is not an
	// error.
	Clear(ctx context.Context, userId string) error
}

func sessionKey(userId string) string {
	return "session:" + userId
}

// RedisSessionStore keeps each session as a Redis list, newest record first.
// LPUSH, LTRIM and EXPIRE run in one transaction so the cap and the TTL
// cannot drift from the content under concurrent appends.
type RedisSessionStore struct {
	client      *redis.Client
	ttl         time.Duration
	maxMessages int
	logger      *log.Logger
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration, maxMessages int, logger *log.Logger) *RedisSessionStore {
	return &RedisSessionStore{
		client:      client,
		ttl:         ttl,
		maxMessages: maxMessages,
		logger:      logger,
	}
}

func (s *RedisSessionStore) History(ctx context.Context, userId string) []Record {
	raw, err := s.client.LRange(ctx, sessionKey(userId), 0, -1).Result()
	if err != nil {
		s.logger.Printf("[SESSION] History read failed for user %s, returning empty: %v", userId, err)
		return nil
	}

	records := make([]Record, 0, len(raw))
	// The list stores newest first, walk backwards for chronological order
	for i := len(raw) - 1; i >= 0; i-- {
		var record Record
		if err := json.Unmarshal([]byte(raw[i]), &record); err != nil {
			s.logger.Printf("[SESSION] Skipping unreadable record for user %s: %v", userId, err)
			continue
		}
		records = append(records, record)
	}
	return records
}

func (s *RedisSessionStore) Append(ctx context.Context, userId string, record Record) {
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.Printf("[SESSION] Append skipped for user %s, record not serializable: %v", userId, err)
		return
	}

	key := sessionKey(userId)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, int64(s.maxMessages-1))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Printf("[SESSION] Append failed for user %s: %v", userId, err)
	}
}

func (s *RedisSessionStore) Clear(ctx context.Context, userId string) error {
	if err := s.client.Del(ctx, sessionKey(userId)).Err(); err != nil {
		return fmt.Errorf("failed to clear session for user %s: %w", userId, err)
	}
	return nil
}

// MemorySessionStore is the in-process fallback used when no Redis URL is
// configured, and the workhorse of the test suite. A store-wide mutex
// serializes the read-trim-write cycle in Append.
type MemorySessionStore struct {
	cache       *cache.Cache
	ttl         time.Duration
	maxMessages int
	mu          sync.Mutex
}

func NewMemorySessionStore(ttl time.Duration, maxMessages int) *MemorySessionStore {
	// Purge expired sessions every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &MemorySessionStore{
		cache:       c,
		ttl:         ttl,
		maxMessages: maxMessages,
	}
}

func (s *MemorySessionStore) History(ctx context.Context, userId string) []Record {
	if x, found := s.cache.Get(sessionKey(userId)); found {
		records := x.([]Record)
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}
	return nil
}

func (s *MemorySessionStore) Append(ctx context.Context, userId string, record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(userId)
	var records []Record
	if x, found := s.cache.Get(key); found {
		records = x.([]Record)
	}
	records = append(records, record)
	if len(records) > s.maxMessages {
		records = records[len(records)-s.maxMessages:]
	}
	// Set refreshes the TTL window for the whole session
	s.cache.Set(key, records, s.ttl)
}

func (s *MemorySessionStore) Clear(ctx context.Context, userId string) error {
	s.cache.Delete(sessionKey(userId))
	return nil
}
