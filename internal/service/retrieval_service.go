package service

import (
	"context"

	"ai-retrieval-be/internal/dto"
	"ai-retrieval-be/internal/events"
	"ai-retrieval-be/internal/pkg/logger"
	"ai-retrieval-be/internal/repository/contract"
	"ai-retrieval-be/pkg/retrieval"
)

type IRetrievalService interface {
	Retrieve(ctx context.Context, req *dto.RetrieveRequest) (*dto.RetrieveResponse, error)
	Conversation(ctx context.Context, userId string) (*dto.ConversationResponse, error)
	ClearSession(ctx context.Context, userId string) (*dto.ClearSessionResponse, error)
	Logs(ctx context.Context, userId string, limit int) ([]*dto.RetrievalLogResponse, error)
}

type retrievalService struct {
	orchestrator   *retrieval.Orchestrator
	logRepository  contract.RetrievalLogRepository
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewRetrievalService(
	orchestrator *retrieval.Orchestrator,
	logRepository contract.RetrievalLogRepository,
	eventPublisher events.Publisher,
	logger logger.ILogger,
) IRetrievalService {
	return &retrievalService{
		orchestrator:   orchestrator,
		logRepository:  logRepository,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *retrievalService) Retrieve(ctx context.Context, req *dto.RetrieveRequest) (*dto.RetrieveResponse, error) {
	result, err := s.orchestrator.Retrieve(ctx, req.Query, req.UserId)
	if err != nil {
		return nil, err
	}

	s.logger.Info("RETRIEVAL", "Retrieval completed", map[string]interface{}{
		"user_id":        result.UserId,
		"strategy":       string(result.StrategyUsed),
		"confidence":     result.Confidence,
		"document_count": result.DocumentCount,
		"context_used":   result.ContextUsed,
	})

	// Auxiliary: the audit consumer persists these into retrieval_logs
	s.eventPublisher.PublishRetrievalCompleted(ctx,
		result.UserId, result.Query, string(result.StrategyUsed),
		result.Confidence, result.DocumentCount, result.ContextUsed)

	return toRetrieveResponse(result), nil
}

func (s *retrievalService) Conversation(ctx context.Context, userId string) (*dto.ConversationResponse, error) {
	records := s.orchestrator.Conversation(ctx, userId)

	response := &dto.ConversationResponse{
		UserId:  userId,
		Records: make([]dto.SessionRecordResponse, 0, len(records)),
	}
	for _, record := range records {
		response.Records = append(response.Records, dto.SessionRecordResponse{
			Timestamp:     record.Timestamp,
			Query:         record.Query,
			StrategyUsed:  string(record.StrategyUsed),
			DocumentCount: record.DocumentCount,
			Reasoning:     record.Reasoning,
			KeyPoints:     record.KeyPoints,
		})
	}
	return response, nil
}

func (s *retrievalService) ClearSession(ctx context.Context, userId string) (*dto.ClearSessionResponse, error) {
	if err := s.orchestrator.ClearSession(ctx, userId); err != nil {
		return nil, err
	}

	s.eventPublisher.PublishSessionCleared(ctx, userId)

	return &dto.ClearSessionResponse{
		UserId:  userId,
		Cleared: true,
	}, nil
}

func (s *retrievalService) Logs(ctx context.Context, userId string, limit int) ([]*dto.RetrievalLogResponse, error) {
	logs, err := s.logRepository.FindRecentByUserId(ctx, userId, limit)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.RetrievalLogResponse, 0, len(logs))
	for _, entry := range logs {
		response = append(response, &dto.RetrievalLogResponse{
			Id:            entry.Id.String(),
			UserId:        entry.UserId,
			Query:         entry.Query,
			Strategy:      entry.Strategy,
			Confidence:    entry.Confidence,
			DocumentCount: entry.DocumentCount,
			ContextUsed:   entry.ContextUsed,
			CreatedAt:     entry.CreatedAt,
		})
	}
	return response, nil
}

func toRetrieveResponse(result *retrieval.Result) *dto.RetrieveResponse {
	documents := make([]dto.RetrievedDocument, 0, len(result.Documents))
	for _, document := range result.Documents {
		documents = append(documents, dto.RetrievedDocument{
			Content: document.Content,
			Source:  document.Source,
			Score:   document.Score,
			Origin:  string(document.Origin),
		})
	}

	return &dto.RetrieveResponse{
		Query:              result.Query,
		UserId:             result.UserId,
		Documents:          documents,
		StrategyUsed:       string(result.StrategyUsed),
		Confidence:         result.Confidence,
		Reasoning:          result.Reasoning,
		ContextUsed:        result.ContextUsed,
		DocumentCount:      result.DocumentCount,
		ConversationLength: result.ConversationLength,
	}
}
