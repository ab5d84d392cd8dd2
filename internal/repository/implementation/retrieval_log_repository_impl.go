package implementation

import (
	"context"

	"ai-retrieval-be/internal/entity"
	"ai-retrieval-be/internal/repository/contract"

	"gorm.io/gorm"
)

type RetrievalLogRepositoryImpl struct {
	db *gorm.DB
}

func NewRetrievalLogRepository(db *gorm.DB) contract.RetrievalLogRepository {
	return &RetrievalLogRepositoryImpl{
		db: db,
	}
}

func (r *RetrievalLogRepositoryImpl) Create(ctx context.Context, log *entity.RetrievalLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *RetrievalLogRepositoryImpl) FindRecentByUserId(ctx context.Context, userId string, limit int) ([]*entity.RetrievalLog, error) {
	if limit <= 0 {
		limit = 20
	}

	var logs []*entity.RetrievalLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *RetrievalLogRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.RetrievalLog{}).Count(&count).Error
	return count, err
}
