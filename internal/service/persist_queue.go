package service

import (
	"context"
	"encoding/json"

	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/pkg/conversation"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const persistLogModule = "PersistQueue"

type persistPayload struct {
	UserID   string                 `json:"user_id"`
	Messages []conversation.Message `json:"messages"`
}

// NewPersistPubSub builds the event bus for a PersistQueue. Publish returns
// only after the consumer has acked, so a batch is stored before the next
// read, rename or delete reaches the wrapped store.
func NewPersistPubSub(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, logger)
}

// PersistQueue is a conversation.Store whose writes are handed to a
// background consumer. Reads go straight to the wrapped store. A failed
// write is logged and dropped.
type PersistQueue struct {
	pubSub   *gochannel.GoChannel
	topic    string
	store    conversation.Store
	notifier conversation.Notifier
	logger   logger.ILogger
}

func NewPersistQueue(pubSub *gochannel.GoChannel, topic string, store conversation.Store, notifier conversation.Notifier, logger logger.ILogger) *PersistQueue {
	return &PersistQueue{
		pubSub:   pubSub,
		topic:    topic,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

func (q *PersistQueue) AppendBatch(ctx context.Context, userID string, messages []conversation.Message) error {
	payload, err := json.Marshal(persistPayload{UserID: userID, Messages: messages})
	if err != nil {
		return err
	}
	return q.pubSub.Publish(q.topic, message.NewMessage(watermill.NewUUID(), payload))
}

func (q *PersistQueue) ListConversationSummaries(ctx context.Context, userID string) ([]conversation.Summary, error) {
	return q.store.ListConversationSummaries(ctx, userID)
}

func (q *PersistQueue) ListMessages(ctx context.Context, userID, title string) ([]conversation.Message, error) {
	return q.store.ListMessages(ctx, userID, title)
}

func (q *PersistQueue) RenameConversation(ctx context.Context, userID, oldTitle, newTitle string) error {
	return q.store.RenameConversation(ctx, userID, oldTitle, newTitle)
}

func (q *PersistQueue) DeleteConversation(ctx context.Context, userID, title string) (int64, error) {
	return q.store.DeleteConversation(ctx, userID, title)
}

// Consume starts the writer. It stops when ctx is cancelled.
func (q *PersistQueue) Consume(ctx context.Context) error {
	messages, err := q.pubSub.Subscribe(ctx, q.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			q.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (q *PersistQueue) processMessage(ctx context.Context, msg *message.Message) {
	var payload persistPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		q.logger.Error(persistLogModule, "Failed to unmarshal batch", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}
	if len(payload.Messages) == 0 {
		msg.Ack()
		return
	}

	title := payload.Messages[0].ConversationTitle
	if err := q.store.AppendBatch(ctx, payload.UserID, payload.Messages); err != nil {
		q.logger.Error(persistLogModule, "Failed to persist messages", map[string]interface{}{
			"user_id": payload.UserID,
			"title":   title,
			"count":   len(payload.Messages),
			"error":   err.Error(),
		})
		msg.Ack()
		return
	}

	q.logger.Debug(persistLogModule, "Messages persisted", map[string]interface{}{
		"user_id": payload.UserID,
		"title":   title,
		"count":   len(payload.Messages),
	})
	if q.notifier != nil {
		q.notifier.Notify(ctx, payload.UserID, conversation.Event{
			Type:  conversation.EventConversationsChanged,
			Title: title,
		})
	}
	msg.Ack()
}
