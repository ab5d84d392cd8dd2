package contract

import (
	"context"

	"ai-retrieval-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredDocument wraps a Document with its cosine similarity score
type ScoredDocument struct {
	Document   *entity.Document
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	// SearchSimilarWithScore returns indexed documents with similarity scores,
	// filtered by threshold. Rows without an embedding are never candidates.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredDocument, error)
}
