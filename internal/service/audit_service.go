package service

import (
	"context"
	"fmt"
	"time"

	"ai-retrieval-be/internal/entity"
	"ai-retrieval-be/internal/events"
	"ai-retrieval-be/internal/pkg/logger"
	"ai-retrieval-be/internal/repository/contract"
	pkgEvents "ai-retrieval-be/pkg/events"
	pktNats "ai-retrieval-be/pkg/nats"

	"github.com/google/uuid"
)

// AuditService persists completed retrievals into retrieval_logs. It consumes
// the event bus instead of sitting in the request path, so auditing never adds
// latency to a retrieval.
type AuditService struct {
	logRepository contract.RetrievalLogRepository
	subscriber    *pktNats.Subscriber
	logger        logger.ILogger
}

func NewAuditService(logRepository contract.RetrievalLogRepository, subscriber *pktNats.Subscriber, log logger.ILogger) *AuditService {
	return &AuditService{
		logRepository: logRepository,
		subscriber:    subscriber,
		logger:        log,
	}
}

// Start begins listening for completed retrievals with a durable consumer.
func (s *AuditService) Start() {
	subject := pktNats.Subject(events.TypeRetrievalCompleted)
	err := s.subscriber.Subscribe(subject, "retrieval-audit-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("AuditService", "Failed to start audit subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("AuditService", fmt.Sprintf("Audit service started, listening to %s", subject), nil)
}

func (s *AuditService) handleEvent(ctx context.Context, event pkgEvents.Event) error {
	payload := event.Payload()

	userId, ok := payload["user_id"].(string)
	if !ok || userId == "" {
		// Malformed event, retrying will not fix it
		s.logger.Warn("AuditService", "Dropping retrieval event without user_id", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	query, _ := payload["query"].(string)
	strategy, _ := payload["strategy"].(string)
	confidence, _ := payload["confidence"].(float64)
	contextUsed, _ := payload["context_used"].(bool)

	// JSON numbers arrive as float64
	documentCount := 0
	if count, ok := payload["document_count"].(float64); ok {
		documentCount = int(count)
	}

	createdAt := event.Timestamp()
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	entry := entity.RetrievalLog{
		Id:            uuid.New(),
		UserId:        userId,
		Query:         query,
		Strategy:      strategy,
		Confidence:    confidence,
		DocumentCount: documentCount,
		ContextUsed:   contextUsed,
		CreatedAt:     createdAt,
	}

	if err := s.logRepository.Create(ctx, &entry); err != nil {
		s.logger.Error("AuditService", "Failed to persist retrieval log", map[string]interface{}{
			"error":   err,
			"user_id": userId,
		})
		return err // NATS will redeliver
	}

	return nil
}
