package service

import (
	"context"
	"testing"
	"time"

	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/pkg/conversation"
	"techno-ai-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) *int { return &n }

func at(minute int) *time.Time {
	t := time.Date(2026, 3, 1, 10, minute, 0, 0, time.UTC)
	return &t
}

func TestMessageServiceCreateValidation(t *testing.T) {
	svc := NewMessageService(newTestFactory(t), nil, logger.NewNopLogger())
	owner := uuid.New()

	tests := []struct {
		name string
		req  dto.CreateMessageRequest
		want error
	}{
		{"missing title", dto.CreateMessageRequest{Sender: "bot", Content: "hi", Sequence: seq(1)}, ErrMissingMessageFields},
		{"missing content", dto.CreateMessageRequest{ChatTitle: "Chat 1", Sender: "bot", Sequence: seq(1)}, ErrMissingMessageFields},
		{"missing sequence", dto.CreateMessageRequest{ChatTitle: "Chat 1", Sender: "bot", Content: "hi"}, ErrMissingMessageFields},
		{"foreign sender", dto.CreateMessageRequest{ChatTitle: "Chat 1", Sender: uuid.NewString(), Content: "hi", Sequence: seq(1)}, ErrInvalidSender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), owner, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMessageServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewMessageService(newTestFactory(t), pub, logger.NewNopLogger())
	owner := uuid.New()
	other := uuid.New()

	created, err := svc.Create(ctx, owner, &dto.CreateMessageRequest{
		ChatTitle: " Chat 1 ", Sender: owner.String(), Content: "hello", Sequence: seq(1), Timestamp: at(1),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.Id)
	assert.Equal(t, "Chat 1", created.ChatTitle)

	batch, err := svc.CreateBatch(ctx, owner, &dto.CreateMessagesBatchRequest{Messages: []dto.CreateMessageRequest{
		{ChatTitle: "Chat 1", Sender: "bot", Content: "```go\nfmt.Println()\n```", HasCode: true, Sequence: seq(2), Timestamp: at(2)},
		{ChatTitle: "Chat 2", Sender: owner.String(), Content: "later", Sequence: seq(1), Timestamp: at(5)},
	}})
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	_, err = svc.Create(ctx, other, &dto.CreateMessageRequest{
		ChatTitle: "Chat 1", Sender: other.String(), Content: "not yours", Sequence: seq(1), Timestamp: at(9),
	})
	require.NoError(t, err)

	summaries, err := svc.Summaries(ctx, owner)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Chat 2", summaries[0].Title)
	assert.Equal(t, "Chat 1", summaries[1].Title)
	assert.True(t, summaries[1].LastMessageAt.Equal(*at(2)))

	msgs, err := svc.Messages(ctx, owner, "Chat 1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, 1, msgs[0].Sequence)
	assert.True(t, msgs[1].HasCode)

	renamed, err := svc.Rename(ctx, owner, "Chat 1", &dto.RenameConversationRequest{NewTitle: "Go questions"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, renamed.UpdatedCount)

	theirs, err := svc.Messages(ctx, other, "Chat 1")
	require.NoError(t, err)
	assert.Len(t, theirs, 1, "rename is scoped to the owner")

	deleted, err := svc.Delete(ctx, owner, "Go questions")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted.DeletedCount)

	missing, err := svc.Delete(ctx, owner, "nothing here")
	require.NoError(t, err)
	assert.EqualValues(t, 0, missing.DeletedCount)

	assert.Equal(t, []string{
		events.MessagesPersisted,
		events.ConversationRenamed,
		events.ConversationDeleted,
		events.ConversationDeleted,
	}, pub.types())
}

func TestMessageServiceBatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc := NewMessageService(newTestFactory(t), nil, logger.NewNopLogger())
	owner := uuid.New()

	_, err := svc.CreateBatch(ctx, owner, &dto.CreateMessagesBatchRequest{})
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = svc.CreateBatch(ctx, owner, &dto.CreateMessagesBatchRequest{Messages: []dto.CreateMessageRequest{
		{ChatTitle: "Chat 1", Sender: "bot", Content: "ok", Sequence: seq(1)},
		{ChatTitle: "Chat 1", Sender: "bot", Sequence: seq(2)},
	}})
	assert.ErrorIs(t, err, ErrMissingBatchFields)

	summaries, err := svc.Summaries(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestMessageServiceRenameRequiresTitles(t *testing.T) {
	svc := NewMessageService(newTestFactory(t), nil, logger.NewNopLogger())
	_, err := svc.Rename(context.Background(), uuid.New(), "Chat 1", &dto.RenameConversationRequest{NewTitle: "  "})
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = svc.Messages(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, ErrMissingTitle)
}

func TestMessageStore(t *testing.T) {
	ctx := context.Background()
	store := NewMessageStore(newTestFactory(t))
	owner := uuid.NewString()

	err := store.AppendBatch(ctx, owner, []conversation.Message{
		{ConversationTitle: "Chat 1", Sender: owner, Content: "hi", Sequence: 1, Timestamp: *at(1)},
		{ConversationTitle: "Chat 1", Sender: conversation.BotSender, Content: "hello", Sequence: 2, Timestamp: *at(1)},
	})
	require.NoError(t, err)

	msgs, err := store.ListMessages(ctx, owner, "Chat 1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.True(t, msgs[1].IsBot())

	require.NoError(t, store.RenameConversation(ctx, owner, "Chat 1", "Greetings"))
	summaries, err := store.ListConversationSummaries(ctx, owner)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Greetings", summaries[0].Title)

	n, err := store.DeleteConversation(ctx, owner, "Greetings")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	assert.Error(t, store.AppendBatch(ctx, "not-a-uuid", nil))
	_, err = store.ListMessages(ctx, "not-a-uuid", "x")
	assert.Error(t, err)
}
