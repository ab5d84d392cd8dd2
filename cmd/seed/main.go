package main

import (
	"context"
	"log"

	"ai-retrieval-be/internal/config"
	"ai-retrieval-be/internal/entity"
	"ai-retrieval-be/pkg/database"
	"ai-retrieval-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
		log.Printf("Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else {
		provider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Println("Using Embedding Provider: GEMINI")
	}

	log.Println("Seeding Sample Documents...")

	// Small knowledge base so local search has something to match against.
	documents := []entity.Document{
		{
			Content: "Our deployment pipeline runs on GitLab CI. Every merge to main triggers build, test and staging deploy stages. Production deploys require a manual approval step from the on-call engineer.",
			Source:  "handbook/deployment.md",
		},
		{
			Content: "Database backups run nightly at 02:00 UTC using pg_dump. Backups are retained for 30 days in the encrypted S3 bucket. Restore procedures are documented in the disaster recovery runbook.",
			Source:  "handbook/backups.md",
		},
		{
			Content: "The vacation policy grants 25 days of paid leave per year. Requests should be submitted at least two weeks in advance through the HR portal. Unused days can be carried over until March of the following year.",
			Source:  "handbook/vacation-policy.md",
		},
		{
			Content: "API authentication uses short-lived JWT access tokens with a 15 minute expiry and rotating refresh tokens. Service-to-service calls authenticate with mTLS certificates issued by the internal CA.",
			Source:  "handbook/api-auth.md",
		},
		{
			Content: "Incident severity levels: SEV1 means customer-facing outage, page the on-call immediately. SEV2 is degraded service, respond within 30 minutes. SEV3 covers internal tooling issues handled during business hours.",
			Source:  "handbook/incident-response.md",
		},
		{
			Content: "Code review guidelines: every pull request needs one approval, two for changes touching billing or authentication. Keep PRs under 400 lines where possible and include test coverage for new behavior.",
			Source:  "handbook/code-review.md",
		},
	}

	ctx := context.Background()
	created := 0

	for _, d := range documents {
		// Check if a document from this source already exists
		var existing entity.Document
		if err := db.Where("source = ?", d.Source).First(&existing).Error; err == nil {
			log.Printf("Document '%s' already exists, skipping...", d.Source)
			continue
		}

		// Embed synchronously so seeded rows are searchable right away,
		// without waiting for the indexing worker.
		res, err := provider.Generate(ctx, d.Content, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("Error embedding document '%s': %v", d.Source, err)
			continue
		}

		vec := pgvector.NewVector(res.Embedding.Values)
		d.Id = uuid.New()
		d.Embedding = &vec

		if err := db.Create(&d).Error; err != nil {
			log.Printf("Error creating document '%s': %v", d.Source, err)
			continue
		}

		log.Printf("Created document: %s (%d dimensions)", d.Source, len(res.Embedding.Values))
		created++
	}

	log.Printf("Document seeding completed! (%d created)", created)
}
