package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IAlertConsumerService interface {
	Consume(ctx context.Context) error
}

type alertConsumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
	alertEmail   string
}

func NewAlertConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	alertEmail string,
) IAlertConsumerService {
	return &alertConsumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
		alertEmail:   alertEmail,
	}
}

func (cs *alertConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *alertConsumerService) processMessage(msg *message.Message) {
	var payload dto.UrgencyAlertMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal alert message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if cs.alertEmail == "" {
		log.Printf("[WARN] No alert email configured, dropping alert for workspace %s", payload.WorkspaceId)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Sending urgency alert for workspace %s (%d matched rules)", payload.WorkspaceId, len(payload.MatchedRules))

	if err := cs.emailService.SendUrgencyAlert(cs.alertEmail, payload.WorkspaceId.String(), payload.Message, payload.MatchedRules); err != nil {
		log.Printf("[ERROR] Failed to send urgency alert: %v", err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
