package dto

import (
	"ai-helpdesk-be/pkg/schema"

	"github.com/google/uuid"
)

type DetectUrgencyRequest struct {
	Message     string    `json:"message" validate:"required"`
	WorkspaceId uuid.UUID `json:"workspace_id" validate:"required"`
}

type DetectUrgencyResponse struct {
	Classifier string                `json:"classifier"`
	Result     *schema.UrgencyResult `json:"result"`
}

// UrgencyAlertMessage is the payload carried on the internal alert topic
// between the detection service and the mail consumer.
type UrgencyAlertMessage struct {
	WorkspaceId  uuid.UUID `json:"workspace_id"`
	Message      string    `json:"message"`
	MatchedRules []string  `json:"matched_rules"`
}
