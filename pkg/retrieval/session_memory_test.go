package retrieval

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func testRecord(query string, documentCount int) Record {
	return Record{
		Timestamp:     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Query:         query,
		StrategyUsed:  StrategyLocal,
		DocumentCount: documentCount,
		Reasoning:     "test reasoning",
		KeyPoints:     []string{"From docs: point one", "From docs: point two"},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore(time.Minute, 10)
	ctx := context.Background()

	want := testRecord("what is pgvector", 3)
	store.Append(ctx, "user-1", want)

	history := store.History(ctx, "user-1")
	if len(history) != 1 {
		t.Fatalf("History length = %d, want 1", len(history))
	}

	got := history[0]
	if got.Query != want.Query {
		t.Errorf("Query = %q, want %q", got.Query, want.Query)
	}
	if got.StrategyUsed != want.StrategyUsed {
		t.Errorf("StrategyUsed = %q, want %q", got.StrategyUsed, want.StrategyUsed)
	}
	if got.DocumentCount != want.DocumentCount {
		t.Errorf("DocumentCount = %d, want %d", got.DocumentCount, want.DocumentCount)
	}
	if got.Reasoning != want.Reasoning {
		t.Errorf("Reasoning = %q, want %q", got.Reasoning, want.Reasoning)
	}
	if len(got.KeyPoints) != len(want.KeyPoints) {
		t.Fatalf("KeyPoints length = %d, want %d", len(got.KeyPoints), len(want.KeyPoints))
	}
	for i := range want.KeyPoints {
		if got.KeyPoints[i] != want.KeyPoints[i] {
			t.Errorf("KeyPoints[%d] = %q, want %q", i, got.KeyPoints[i], want.KeyPoints[i])
		}
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, want.Timestamp)
	}
}

func TestMemoryStoreEvictsOldestBeyondCap(t *testing.T) {
	const maxMessages = 10
	store := NewMemorySessionStore(time.Minute, maxMessages)
	ctx := context.Background()

	for i := 1; i <= maxMessages+2; i++ {
		store.Append(ctx, "user-1", testRecord(fmt.Sprintf("query-%d", i), i))
	}

	history := store.History(ctx, "user-1")
	if len(history) != maxMessages {
		t.Fatalf("History length = %d, want %d", len(history), maxMessages)
	}

	// The two oldest records are gone, the rest remain in order
	for i, record := range history {
		want := fmt.Sprintf("query-%d", i+3)
		if record.Query != want {
			t.Errorf("history[%d].Query = %q, want %q", i, record.Query, want)
		}
	}
}

func TestMemoryStoreExpiresAfterTTL(t *testing.T) {
	store := NewMemorySessionStore(30*time.Millisecond, 10)
	ctx := context.Background()

	store.Append(ctx, "user-1", testRecord("short lived", 1))

	if got := len(store.History(ctx, "user-1")); got != 1 {
		t.Fatalf("History length before expiry = %d, want 1", got)
	}

	time.Sleep(60 * time.Millisecond)

	if got := len(store.History(ctx, "user-1")); got != 0 {
		t.Errorf("History length after expiry = %d, want 0", got)
	}
}

func TestMemoryStoreAppendRefreshesTTL(t *testing.T) {
	store := NewMemorySessionStore(250*time.Millisecond, 10)
	ctx := context.Background()

	store.Append(ctx, "user-1", testRecord("first", 1))
	time.Sleep(150 * time.Millisecond)
	store.Append(ctx, "user-1", testRecord("second", 1))
	time.Sleep(150 * time.Millisecond)

	// 300ms after the first append the original window is long gone; the
	// session survives because the second append reset it
	history := store.History(ctx, "user-1")
	if len(history) != 2 {
		t.Errorf("History length = %d, want 2", len(history))
	}
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	store := NewMemorySessionStore(time.Minute, 10)
	ctx := context.Background()

	store.Append(ctx, "user-1", testRecord("about go", 1))
	store.Append(ctx, "user-2", testRecord("about rust", 2))

	historyOne := store.History(ctx, "user-1")
	historyTwo := store.History(ctx, "user-2")

	if len(historyOne) != 1 || historyOne[0].Query != "about go" {
		t.Errorf("user-1 history = %+v, want single 'about go' record", historyOne)
	}
	if len(historyTwo) != 1 || historyTwo[0].Query != "about rust" {
		t.Errorf("user-2 history = %+v, want single 'about rust' record", historyTwo)
	}

	if err := store.Clear(ctx, "user-1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := len(store.History(ctx, "user-1")); got != 0 {
		t.Errorf("user-1 history after clear = %d records, want 0", got)
	}
	if got := len(store.History(ctx, "user-2")); got != 1 {
		t.Errorf("user-2 history after clearing user-1 = %d records, want 1", got)
	}
}

func TestMemoryStoreClearIsIdempotent(t *testing.T) {
	store := NewMemorySessionStore(time.Minute, 10)
	ctx := context.Background()

	if err := store.Clear(ctx, "never-seen"); err != nil {
		t.Errorf("Clear of absent session returned error: %v", err)
	}

	store.Append(ctx, "user-1", testRecord("something", 1))
	if err := store.Clear(ctx, "user-1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := store.Clear(ctx, "user-1"); err != nil {
		t.Errorf("second Clear returned error: %v", err)
	}
}

func TestMemoryStoreHistoryReturnsCopy(t *testing.T) {
	store := NewMemorySessionStore(time.Minute, 10)
	ctx := context.Background()

	store.Append(ctx, "user-1", testRecord("original", 1))

	history := store.History(ctx, "user-1")
	history[0].Query = "mutated"

	fresh := store.History(ctx, "user-1")
	if fresh[0].Query != "original" {
		t.Errorf("stored record mutated through returned slice: Query = %q", fresh[0].Query)
	}
}
