package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Content  string                 `json:"content" validate:"required"`
	Source   string                 `json:"source"`
	Metadata map[string]interface{} `json:"metadata"`
}

type CreateDocumentResponse struct {
	Id         uuid.UUID `json:"id"`
	ChunkCount int       `json:"chunk_count"`
}

type DocumentSearchResponse struct {
	Id         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	Source     string    `json:"source"`
	Similarity float64   `json:"similarity"`
	CreatedAt  time.Time `json:"created_at"`
}

// PublishEmbedDocumentMessage is the payload queued for the indexing worker.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
