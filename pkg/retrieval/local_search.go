package retrieval

import (
	"context"
	"fmt"
	"log"

	"ai-retrieval-be/internal/repository/contract"
	"ai-retrieval-be/pkg/embedding"
)

// SearchAdapter is the contract both retrieval backends implement. An empty
// result is a valid outcome; an error means the backend itself failed.
type SearchAdapter interface {
	Search(ctx context.Context, query string, limit int) ([]Document, error)
}

// LocalSearch retrieves from the vector document store: embed the query, ask
// the store for nearest neighbours, keep the ones above the similarity
// threshold.
type LocalSearch struct {
	embeddingProvider embedding.EmbeddingProvider
	documents         contract.DocumentRepository
	threshold         float64
	logger            *log.Logger
}

var _ SearchAdapter = (*LocalSearch)(nil)

func NewLocalSearch(embeddingProvider embedding.EmbeddingProvider, documents contract.DocumentRepository, threshold float64, logger *log.Logger) *LocalSearch {
	return &LocalSearch{
		embeddingProvider: embeddingProvider,
		documents:         documents,
		threshold:         threshold,
		logger:            logger,
	}
}

func (l *LocalSearch) Search(ctx context.Context, query string, limit int) ([]Document, error) {
	embeddingRes, err := l.embeddingProvider.Generate(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, &RetrievalError{Source: OriginLocal, Err: fmt.Errorf("query embedding failed: %w", err)}
	}

	// Fetch unfiltered from the store and apply the threshold here, so a
	// near-miss set logs as "found but below threshold" rather than "empty".
	scored, err := l.documents.SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, limit, 0.0)
	if err != nil {
		return nil, &RetrievalError{Source: OriginLocal, Err: fmt.Errorf("vector search failed: %w", err)}
	}

	documents := make([]Document, 0, len(scored))
	for _, res := range scored {
		if res.Similarity < l.threshold {
			l.logger.Printf("[LOCAL] Dropping document %s: similarity %.3f below threshold %.2f",
				res.Document.Id, res.Similarity, l.threshold)
			continue
		}
		source := res.Document.Source
		if source == "" {
			source = "local"
		}
		documents = append(documents, Document{
			Content: res.Document.Content,
			Source:  source,
			Score:   res.Similarity,
			Origin:  OriginLocal,
		})
	}

	l.logger.Printf("[LOCAL] Query matched %d/%d documents (threshold %.2f)",
		len(documents), len(scored), l.threshold)

	return documents, nil
}
