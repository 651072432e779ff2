package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QueryLog struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	QueryId      uuid.UUID      `gorm:"type:uuid;index"`
	WorkspaceId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	SessionId    string         `gorm:"type:text;index"`
	QueryText    string         `gorm:"type:text"`
	ResponseText string         `gorm:"type:text"`
	ErrorKind    string         `gorm:"type:text"`
	DebugInfo    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (QueryLog) TableName() string {
	return "query_logs"
}
