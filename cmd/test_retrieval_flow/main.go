package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"ai-retrieval-be/internal/config"
	"ai-retrieval-be/internal/repository/implementation"
	"ai-retrieval-be/pkg/database"
	"ai-retrieval-be/pkg/embedding"
	"ai-retrieval-be/pkg/llm/factory"
	"ai-retrieval-be/pkg/retrieval"
	"ai-retrieval-be/pkg/websearch"
)

const testUserId = "flow-test-user"

// Runs the full pipeline against live dependencies (DB, LLM, SearXNG),
// bypassing the HTTP layer. Useful to isolate pipeline problems from
// transport problems.
func main() {
	fmt.Println("=== LIVE TEST: FULL RETRIEVAL FLOW ===")

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	documentRepo := implementation.NewDocumentRepository(db)

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiApiKey,
		cfg.Ai.HuggingFaceApiKey,
	)
	if err != nil {
		log.Fatalf("LLM Provider failed: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	// In-memory session store keeps this run isolated from Redis state
	sessionStore := retrieval.NewMemorySessionStore(cfg.Retrieval.SessionTTL, cfg.Retrieval.MaxSessionMessages)

	orchestrator := retrieval.NewOrchestrator(
		retrieval.Config{
			MaxDocs:             cfg.Retrieval.MaxDocs,
			SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
			WebSearchMaxResults: cfg.Retrieval.WebSearchMaxResults,
			SessionTTL:          cfg.Retrieval.SessionTTL,
			MaxSessionMessages:  cfg.Retrieval.MaxSessionMessages,
		},
		sessionStore,
		retrieval.NewStrategyClassifier(llmProvider, logger),
		retrieval.NewLocalSearch(embeddingProvider, documentRepo, cfg.Retrieval.SimilarityThreshold, logger),
		retrieval.NewWebSearch(websearch.NewClient(cfg.Search.SearxngBaseURL), logger),
		logger,
	)

	// Turn 1: cold session
	runTurn(orchestrator, "what is our incident response process for a SEV1?")

	// Turn 2: the classifier now sees turn 1 in the session summary
	runTurn(orchestrator, "and who should I page first?")

	// Show what the session recorded
	history := sessionStore.History(context.Background(), testUserId)
	fmt.Printf("\n=== SESSION RECORDS: %d ===\n", len(history))
	for i, record := range history {
		fmt.Printf("%d. [%s] %q -> %s (%d docs)\n",
			i+1, record.Timestamp.Format(time.RFC3339), record.Query, record.StrategyUsed, record.DocumentCount)
		for _, kp := range record.KeyPoints {
			fmt.Printf("     %s\n", kp)
		}
	}
}

func runTurn(orchestrator *retrieval.Orchestrator, query string) {
	fmt.Printf("\n>>> QUERY: %q\n", query)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	start := time.Now()
	result, err := orchestrator.Retrieve(ctx, query, testUserId)
	if err != nil {
		log.Printf("Retrieve failed: %v", err)
		return
	}

	fmt.Printf("strategy=%s confidence=%.2f context_used=%v docs=%d conversation_length=%d [%s]\n",
		result.StrategyUsed, result.Confidence, result.ContextUsed,
		result.DocumentCount, result.ConversationLength, time.Since(start))
	fmt.Printf("reasoning: %s\n", result.Reasoning)

	for i, doc := range result.Documents {
		preview := doc.Content
		if len(preview) > 120 {
			preview = preview[:120] + "..."
		}
		fmt.Printf("  %d. [%s] score=%.4f source=%s\n     %s\n", i+1, doc.Origin, doc.Score, doc.Source, preview)
	}
}
