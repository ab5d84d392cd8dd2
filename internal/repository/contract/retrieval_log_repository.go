package contract

import (
	"context"

	"ai-retrieval-be/internal/entity"
)

type RetrievalLogRepository interface {
	Create(ctx context.Context, log *entity.RetrievalLog) error
	FindRecentByUserId(ctx context.Context, userId string, limit int) ([]*entity.RetrievalLog, error)
	Count(ctx context.Context) (int64, error)
}
