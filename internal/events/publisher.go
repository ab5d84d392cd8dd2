package events

import (
	"context"
	"time"

	"ai-retrieval-be/internal/pkg/logger"
	pkgEvents "ai-retrieval-be/pkg/events"
	pktNats "ai-retrieval-be/pkg/nats"

	"github.com/google/uuid"
)

// Event types emitted by the retrieval system.
const (
	TypeRetrievalCompleted = "RETRIEVAL_COMPLETED"
	TypeSessionCleared     = "SESSION_CLEARED"
	TypeDocumentIngested   = "DOCUMENT_INGESTED"
)

// Publisher abstracts event publishing for retrieval operations. All methods
// are fire-and-forget: an event that cannot be published is logged, never
// surfaced to the caller.
type Publisher interface {
	PublishRetrievalCompleted(ctx context.Context, userId, query, strategy string, confidence float64, documentCount int, contextUsed bool)
	PublishSessionCleared(ctx context.Context, userId string)
	PublishDocumentIngested(ctx context.Context, documentId uuid.UUID, source string, contentLength int)
}

// NatsPublisher implements Publisher using NATS.
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishRetrievalCompleted emits RETRIEVAL_COMPLETED after a finished
// retrieval pass; the audit consumer persists these.
func (p *NatsPublisher) PublishRetrievalCompleted(ctx context.Context, userId, query, strategy string, confidence float64, documentCount int, contextUsed bool) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: TypeRetrievalCompleted,
		Data: map[string]interface{}{
			"user_id":        userId,
			"query":          query,
			"strategy":       strategy,
			"confidence":     confidence,
			"document_count": documentCount,
			"context_used":   contextUsed,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("RETRIEVAL", "Failed to publish RETRIEVAL_COMPLETED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishSessionCleared emits SESSION_CLEARED when a user drops their history.
func (p *NatsPublisher) PublishSessionCleared(ctx context.Context, userId string) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: TypeSessionCleared,
		Data: map[string]interface{}{
			"user_id": userId,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("RETRIEVAL", "Failed to publish SESSION_CLEARED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishDocumentIngested emits DOCUMENT_INGESTED when a document enters the
// store, before its embedding exists.
func (p *NatsPublisher) PublishDocumentIngested(ctx context.Context, documentId uuid.UUID, source string, contentLength int) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"document_id":    documentId.String(),
			"source":         source,
			"content_length": contentLength,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("DOCUMENT", "Failed to publish DOCUMENT_INGESTED event", map[string]interface{}{"error": err.Error()})
	}
}
