package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-retrieval-be/internal/entity"
	"ai-retrieval-be/internal/repository/implementation"
	"ai-retrieval-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	documentRepo := implementation.NewDocumentRepository(gormDB)
	logRepo := implementation.NewRetrievalLogRepository(gormDB)

	assert.NotNil(t, documentRepo)
	assert.NotNil(t, logRepo)

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	ctx := context.Background()

	// Verify Data Access (implies columns exist)
	t.Run("Check Document Repository", func(t *testing.T) {
		count, err := documentRepo.Count(ctx)
		assert.NoError(t, err)
		t.Logf("Document count: %d", count)
	})

	t.Run("Check Retrieval Log Repository", func(t *testing.T) {
		count, err := logRepo.Count(ctx)
		assert.NoError(t, err)
		t.Logf("RetrievalLog count: %d", count)
	})

	t.Run("Document Vector Round Trip", func(t *testing.T) {
		doc := &entity.Document{
			Id:      uuid.New(),
			Content: "integration test document about database backups",
			Source:  "test/integration",
		}
		err := documentRepo.Create(ctx, doc)
		assert.NoError(t, err)
		defer documentRepo.Delete(ctx, doc.Id)

		// Unit vector, so searching with it gives cosine similarity 1.0
		vector := make([]float32, 768)
		vector[0] = 1.0

		err = documentRepo.UpdateEmbedding(ctx, doc.Id, vector)
		assert.NoError(t, err)

		stored, err := documentRepo.FindById(ctx, doc.Id)
		assert.NoError(t, err)
		if assert.NotNil(t, stored) {
			assert.NotNil(t, stored.Embedding, "embedding column should be populated")
		}

		scored, err := documentRepo.SearchSimilarWithScore(ctx, vector, 10, 0.9)
		assert.NoError(t, err)

		found := false
		for _, res := range scored {
			assert.GreaterOrEqual(t, res.Similarity, 0.9, "threshold should filter low scores")
			if res.Document.Id == doc.Id {
				found = true
				assert.Greater(t, res.Similarity, 0.99, "identical vector should score ~1.0")
			}
		}
		assert.True(t, found, "the just-indexed document should be retrievable")
	})

	t.Run("Retrieval Log Round Trip", func(t *testing.T) {
		userId := "integration-" + uuid.New().String()
		entry := &entity.RetrievalLog{
			Id:            uuid.New(),
			UserId:        userId,
			Query:         "how do backups work?",
			Strategy:      "local",
			Confidence:    0.87,
			DocumentCount: 2,
			ContextUsed:   true,
		}
		err := logRepo.Create(ctx, entry)
		assert.NoError(t, err)

		recent, err := logRepo.FindRecentByUserId(ctx, userId, 10)
		assert.NoError(t, err)
		if assert.Len(t, recent, 1) {
			assert.Equal(t, entry.Query, recent[0].Query)
			assert.Equal(t, "local", recent[0].Strategy)
			assert.True(t, recent[0].ContextUsed)
		}
	})
}
