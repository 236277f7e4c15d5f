package service

import (
	"context"

	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/internal/pkg/mailer"
	"techno-ai-be/pkg/events"
	pktNats "techno-ai-be/pkg/nats"
)

const (
	activitySubject = "events.>"
	activityDurable = "activity-worker"
)

// ActivityConsumer records every domain event in the activity log and sends
// the welcome email for new accounts.
type ActivityConsumer struct {
	subscriber  *pktNats.Subscriber
	activityLog logger.ILogger
	mail        mailer.IEmailService
	logger      logger.ILogger
}

func NewActivityConsumer(subscriber *pktNats.Subscriber, activityLog logger.ILogger, mail mailer.IEmailService, logger logger.ILogger) *ActivityConsumer {
	return &ActivityConsumer{
		subscriber:  subscriber,
		activityLog: activityLog,
		mail:        mail,
		logger:      logger,
	}
}

func (c *ActivityConsumer) Start() error {
	return c.subscriber.Subscribe(activitySubject, activityDurable, c.Handle)
}

func (c *ActivityConsumer) Handle(ctx context.Context, event events.Event) error {
	details := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["occurred_at"] = event.Timestamp()
	c.activityLog.Info("Activity", event.EventType(), details)

	if event.EventType() != events.UserRegistered {
		return nil
	}

	email := events.String(event, "email")
	if email == "" {
		return nil
	}
	if err := c.mail.SendWelcome(email, events.String(event, "full_name")); err != nil {
		c.logger.Warn("ActivityConsumer", "Failed to send welcome email", map[string]interface{}{
			"user_id": events.String(event, "user_id"),
			"error":   err.Error(),
		})
		return err
	}
	return nil
}
