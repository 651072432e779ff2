package entity

import (
	"time"

	"github.com/google/uuid"
)

type UrgencyRule struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkspaceId uuid.UUID `gorm:"type:uuid;index"`
	RuleText    string
	Embedding   []float32
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
