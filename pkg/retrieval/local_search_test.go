package retrieval

import (
	"context"
	"errors"
	"testing"

	"ai-retrieval-be/internal/entity"
	"ai-retrieval-be/internal/repository/contract"
	"ai-retrieval-be/pkg/embedding"

	"github.com/google/uuid"
)

type fakeEmbedder struct {
	values []float32
	err    error
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	res := &embedding.EmbeddingResponse{}
	res.Embedding.Values = f.values
	return res, nil
}

// fakeDocumentRepository serves canned scored documents; the write-side
// methods are unused in these tests.
type fakeDocumentRepository struct {
	scored    []*contract.ScoredDocument
	err       error
	lastLimit int
}

func (f *fakeDocumentRepository) Create(ctx context.Context, document *entity.Document) error {
	return nil
}

func (f *fakeDocumentRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	return nil, nil
}

func (f *fakeDocumentRepository) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	return nil
}

func (f *fakeDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeDocumentRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(f.scored)), nil
}

func (f *fakeDocumentRepository) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredDocument, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.scored, nil
}

func scoredDoc(content, source string, similarity float64) *contract.ScoredDocument {
	return &contract.ScoredDocument{
		Document: &entity.Document{
			Id:      uuid.New(),
			Content: content,
			Source:  source,
		},
		Similarity: similarity,
	}
}

func TestLocalSearchFiltersByThreshold(t *testing.T) {
	repo := &fakeDocumentRepository{
		scored: []*contract.ScoredDocument{
			scoredDoc("strong match", "notes.md", 0.91),
			scoredDoc("decent match", "wiki", 0.73),
			scoredDoc("weak match", "misc", 0.42),
		},
	}
	search := NewLocalSearch(&fakeEmbedder{values: []float32{0.1, 0.2}}, repo, 0.7, testLogger())

	documents, err := search.Search(context.Background(), "test", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(documents) != 2 {
		t.Fatalf("document count = %d, want 2", len(documents))
	}
	if documents[0].Content != "strong match" || documents[1].Content != "decent match" {
		t.Errorf("unexpected documents kept: %+v", documents)
	}
	for _, doc := range documents {
		if doc.Origin != OriginLocal {
			t.Errorf("Origin = %q, want %q", doc.Origin, OriginLocal)
		}
	}
	if documents[0].Score != 0.91 {
		t.Errorf("Score = %v, want 0.91", documents[0].Score)
	}
	if repo.lastLimit != 5 {
		t.Errorf("store queried with limit %d, want 5", repo.lastLimit)
	}
}

func TestLocalSearchEmptyResultIsNotAnError(t *testing.T) {
	repo := &fakeDocumentRepository{
		scored: []*contract.ScoredDocument{
			scoredDoc("below", "misc", 0.2),
		},
	}
	search := NewLocalSearch(&fakeEmbedder{values: []float32{0.1}}, repo, 0.7, testLogger())

	documents, err := search.Search(context.Background(), "test", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(documents) != 0 {
		t.Errorf("document count = %d, want 0", len(documents))
	}
}

func TestLocalSearchDefaultsEmptySource(t *testing.T) {
	repo := &fakeDocumentRepository{
		scored: []*contract.ScoredDocument{
			scoredDoc("content", "", 0.9),
		},
	}
	search := NewLocalSearch(&fakeEmbedder{values: []float32{0.1}}, repo, 0.7, testLogger())

	documents, err := search.Search(context.Background(), "test", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if documents[0].Source != "local" {
		t.Errorf("Source = %q, want %q", documents[0].Source, "local")
	}
}

func TestLocalSearchStoreFailure(t *testing.T) {
	repo := &fakeDocumentRepository{err: errors.New("connection refused")}
	search := NewLocalSearch(&fakeEmbedder{values: []float32{0.1}}, repo, 0.7, testLogger())

	_, err := search.Search(context.Background(), "test", 5)
	if err == nil {
		t.Fatal("expected error when store is unreachable")
	}

	var retrievalErr *RetrievalError
	if !errors.As(err, &retrievalErr) {
		t.Fatalf("error type = %T, want *RetrievalError", err)
	}
	if retrievalErr.Source != OriginLocal {
		t.Errorf("Source = %q, want %q", retrievalErr.Source, OriginLocal)
	}
}

func TestLocalSearchEmbeddingFailure(t *testing.T) {
	search := NewLocalSearch(&fakeEmbedder{err: errors.New("model not loaded")}, &fakeDocumentRepository{}, 0.7, testLogger())

	_, err := search.Search(context.Background(), "test", 5)

	var retrievalErr *RetrievalError
	if !errors.As(err, &retrievalErr) {
		t.Fatalf("error type = %T, want *RetrievalError", err)
	}
	if retrievalErr.Source != OriginLocal {
		t.Errorf("Source = %q, want %q", retrievalErr.Source, OriginLocal)
	}
}
