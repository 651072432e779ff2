package entity

import (
	"time"

	"github.com/google/uuid"
)

// QueryLog is the audit record of one processed query: the raw text, the
// outcome and the full rail debug trace.
type QueryLog struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	QueryId      uuid.UUID `gorm:"type:uuid;index"`
	WorkspaceId  uuid.UUID `gorm:"type:uuid;index"`
	SessionId    string
	QueryText    string
	ResponseText string
	ErrorKind    string
	DebugInfo    map[string]interface{}
	CreatedAt    time.Time
}
