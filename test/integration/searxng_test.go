package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-retrieval-be/pkg/websearch"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestSearxngSearch(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	baseURL := os.Getenv("SEARXNG_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: SEARXNG_BASE_URL not set")
	}

	client := websearch.NewClient(baseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results, err := client.Search(ctx, "golang concurrency patterns", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	assert.LessOrEqual(t, len(results), 3, "limit should cap the result count")
	if len(results) == 0 {
		t.Log("⚠️ SearXNG returned no results, engine config may be restrictive")
		return
	}

	for i, res := range results {
		assert.Equal(t, i+1, res.Rank, "ranks should start at 1 and ascend")
		assert.NotEmpty(t, res.URL)
		t.Logf("%d. %s (%s)", res.Rank, res.Title, res.URL)
	}
}
