package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Document struct {
	Id        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content   string           `gorm:"type:text;not null"`
	Metadata  datatypes.JSON   `gorm:"type:jsonb"`
	Embedding *pgvector.Vector `gorm:"type:vector(768)"` // nil until the indexer has processed the row
	Source    string           `gorm:"type:varchar(255)"`
	CreatedAt time.Time        `gorm:"autoCreateTime"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
