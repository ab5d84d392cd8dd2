package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"ai-retrieval-be/internal/config"
	"ai-retrieval-be/pkg/retrieval"

	"github.com/redis/go-redis/v9"
)

// Dumps the raw Redis state and the parsed view of one user's session.
// Usage: go run ./cmd/inspect_session <user_id>
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: inspect_session <user_id>")
		os.Exit(1)
	}
	userId := os.Args[1]

	cfg := config.Load()
	ctx := context.Background()

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Fatalf("Invalid Redis URL %q: %v", cfg.App.RedisURL, err)
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Redis unreachable: %v", err)
	}

	key := "session:" + userId
	fmt.Printf("=== RAW STATE: %s ===\n", key)

	ttl, err := rdb.TTL(ctx, key).Result()
	if err != nil {
		log.Fatalf("TTL failed: %v", err)
	}
	if ttl < 0 {
		fmt.Println("Key does not exist (or has no expiry). Nothing stored for this user.")
	} else {
		fmt.Printf("TTL remaining: %s\n", ttl)
	}

	entries, err := rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		log.Fatalf("LRANGE failed: %v", err)
	}
	fmt.Printf("Entries (newest first): %d\n", len(entries))
	for i, entry := range entries {
		preview := entry
		if len(preview) > 160 {
			preview = preview[:160] + "..."
		}
		fmt.Printf("  [%d] %s\n", i, preview)
	}

	// Parsed view, the way the pipeline reads it
	store := retrieval.NewRedisSessionStore(rdb, cfg.Retrieval.SessionTTL, cfg.Retrieval.MaxSessionMessages, log.New(os.Stdout, "", log.LstdFlags))
	history := store.History(ctx, userId)

	fmt.Printf("\n=== PARSED HISTORY (chronological): %d records ===\n", len(history))
	for i, record := range history {
		fmt.Printf("%d. [%s] %q\n", i+1, record.Timestamp.Format(time.RFC3339), record.Query)
		fmt.Printf("   strategy=%s docs=%d\n", record.StrategyUsed, record.DocumentCount)
		if record.Reasoning != "" {
			fmt.Printf("   reasoning: %s\n", record.Reasoning)
		}
		for _, kp := range record.KeyPoints {
			fmt.Printf("   - %s\n", kp)
		}
	}
}
