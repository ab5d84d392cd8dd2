package entity

import (
	"time"

	"github.com/google/uuid"
)

// RetrievalLog is the durable audit record of one retrieval call,
// written by the audit consumer from RETRIEVAL_COMPLETED events.
type RetrievalLog struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        string    `gorm:"type:varchar(255);not null;index"`
	Query         string    `gorm:"type:text;not null"`
	Strategy      string    `gorm:"type:varchar(16);not null"`
	Confidence    float64
	DocumentCount int
	ContextUsed   bool
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (RetrievalLog) TableName() string {
	return "retrieval_logs"
}
