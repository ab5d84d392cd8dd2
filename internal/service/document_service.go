package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-retrieval-be/internal/dto"
	"ai-retrieval-be/internal/entity"
	"ai-retrieval-be/internal/events"
	"ai-retrieval-be/internal/repository/contract"
	"ai-retrieval-be/pkg/embedding"
	"ai-retrieval-be/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IDocumentService interface {
	Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Search(ctx context.Context, query string, limit int) ([]*dto.DocumentSearchResponse, error)
}

type documentService struct {
	documents           contract.DocumentRepository
	publisherService    IPublisherService
	embeddingProvider   embedding.EmbeddingProvider
	eventPublisher      events.Publisher
	similarityThreshold float64
}

func NewDocumentService(
	documents contract.DocumentRepository,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher events.Publisher,
	similarityThreshold float64,
) IDocumentService {
	return &documentService{
		documents:           documents,
		publisherService:    publisherService,
		embeddingProvider:   embeddingProvider,
		eventPublisher:      eventPublisher,
		similarityThreshold: similarityThreshold,
	}
}

// Create stores the document and queues it for embedding. Long content is
// split into overlapping chunks, one row per chunk, so each embedding stays
// within the model's effective window. Rows are searchable once the indexing
// worker has processed them.
func (s *documentService) Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	// ChunkSize: 1500 chars (approx 375 tokens) - Ultra safe for context limits
	// Overlap: 200 chars
	chunks := utils.SplitText(req.Content, 1500, 200)

	firstId := uuid.Nil
	for i, chunk := range chunks {
		document := entity.Document{
			Id:        uuid.New(),
			Content:   chunk,
			Source:    req.Source,
			CreatedAt: time.Now(),
		}
		if firstId == uuid.Nil {
			firstId = document.Id
		}

		metadata := req.Metadata
		if len(chunks) > 1 {
			metadata = make(map[string]interface{}, len(req.Metadata)+2)
			for k, v := range req.Metadata {
				metadata[k] = v
			}
			metadata["chunk_index"] = i
			metadata["chunk_count"] = len(chunks)
		}
		if metadata != nil {
			metadataJson, err := json.Marshal(metadata)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal metadata: %w", err)
			}
			document.Metadata = datatypes.JSON(metadataJson)
		}

		if err := s.documents.Create(ctx, &document); err != nil {
			return nil, err
		}

		msgPayload := dto.PublishEmbedDocumentMessage{
			DocumentId: document.Id,
		}
		msgJson, err := json.Marshal(msgPayload)
		if err != nil {
			return nil, err
		}

		if err := s.publisherService.Publish(ctx, msgJson); err != nil {
			return nil, err
		}
	}

	s.eventPublisher.PublishDocumentIngested(ctx, firstId, req.Source, len(req.Content))

	return &dto.CreateDocumentResponse{
		Id:         firstId,
		ChunkCount: len(chunks),
	}, nil
}

// Search runs a direct semantic search over the store, bypassing the
// strategy pipeline.
func (s *documentService) Search(ctx context.Context, query string, limit int) ([]*dto.DocumentSearchResponse, error) {
	embeddingRes, err := s.embeddingProvider.Generate(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored, err := s.documents.SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, limit, s.similarityThreshold)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.DocumentSearchResponse, 0, len(scored))
	for _, res := range scored {
		response = append(response, &dto.DocumentSearchResponse{
			Id:         res.Document.Id,
			Content:    res.Document.Content,
			Source:     res.Document.Source,
			Similarity: res.Similarity,
			CreatedAt:  res.Document.CreatedAt,
		})
	}
	return response, nil
}
