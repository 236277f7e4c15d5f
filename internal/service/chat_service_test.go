package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"techno-ai-be/internal/config"
	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/repository/memory"
	"techno-ai-be/pkg/conversation"
	"techno-ai-be/pkg/title"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completerFunc func(ctx context.Context, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

var plainRenderer = conversation.RendererFunc(func(raw, _ string) string { return "<p>" + raw + "</p>" })

type chatFixture struct {
	svc      IChatService
	users    IUserService
	sessions *memory.SessionRepository
	notifier *recordingNotifier
	userID   uuid.UUID
}

func newChatFixture(t *testing.T, completer conversation.Completer) *chatFixture {
	factory := newTestFactory(t)
	sessions := memory.NewSessionRepository(time.Hour)
	notifier := &recordingNotifier{}
	user := seedUser(t, factory, "dana@example.com")

	svc := NewChatService(factory, sessions, completer, NewMessageStore(factory), plainRenderer, notifier,
		logger.NewNopLogger(), config.AIConfig{RoleName: "Techno.ai", Audience: "student", CompletionTimeout: time.Second})

	return &chatFixture{
		svc:      svc,
		users:    NewUserService(factory, sessions),
		sessions: sessions,
		notifier: notifier,
		userID:   user.Id,
	}
}

func TestChatServiceSend(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, completerFunc(func(context.Context, string) (string, error) {
		return "A loop repeats a block.", nil
	}))

	state, err := f.svc.State(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, conversation.DefaultTitle, state.Title)
	assert.True(t, state.Untitled)
	assert.Equal(t, 1, f.sessions.Count())

	res, err := f.svc.Send(ctx, f.userID, &dto.SendChatRequest{Message: "How do loops work in Go?"})
	require.NoError(t, err)
	assert.False(t, res.Turn.Failed)
	assert.Equal(t, 1, res.Turn.User.Sequence)
	assert.Equal(t, 2, res.Turn.Reply.Sequence)
	assert.Equal(t, "<p>A loop repeats a block.</p>", res.Turn.Reply.Markup)
	assert.Equal(t, title.Short("How do loops work in Go?"), res.State.Title)
	assert.Equal(t, 2, res.State.Current)

	conversations, err := f.svc.Conversations(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, res.State.Title, conversations[0].Title)

	_, err = f.svc.Send(ctx, f.userID, &dto.SendChatRequest{Message: "   "})
	code, _ := serverutils.StatusFor(err)
	assert.Equal(t, 400, code)
}

func TestChatServiceFailedTurn(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, completerFunc(func(context.Context, string) (string, error) {
		return "", errors.New("boom")
	}))

	res, err := f.svc.Send(ctx, f.userID, &dto.SendChatRequest{Message: "hello there"})
	require.NoError(t, err)
	assert.True(t, res.Turn.Failed)
	assert.True(t, res.Turn.Reply.IsError)
	assert.Equal(t, conversation.StateIdle, res.State.State)
}

func TestChatServiceBusy(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	f := newChatFixture(t, completerFunc(func(context.Context, string) (string, error) {
		once.Do(func() { close(started) })
		<-release
		return "done", nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Send(ctx, f.userID, &dto.SendChatRequest{Message: "first question"})
		done <- err
	}()
	<-started

	_, err := f.svc.Send(ctx, f.userID, &dto.SendChatRequest{Message: "second question"})
	code, _ := serverutils.StatusFor(err)
	assert.Equal(t, 409, code)

	_, err = f.svc.NewConversation(ctx, f.userID)
	code, _ = serverutils.StatusFor(err)
	assert.Equal(t, 409, code)

	close(release)
	require.NoError(t, <-done)
}

func TestChatServiceConversationLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, completerFunc(func(context.Context, string) (string, error) {
		return "answer", nil
	}))

	first, err := f.svc.Send(ctx, f.userID, &dto.SendChatRequest{Message: "What is a pointer?"})
	require.NoError(t, err)
	firstTitle := first.State.Title

	fresh, err := f.svc.NewConversation(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Messages)
	assert.Equal(t, 0, fresh.Current)

	switched, err := f.svc.Switch(ctx, f.userID, &dto.SwitchConversationRequest{Title: firstTitle})
	require.NoError(t, err)
	assert.Len(t, switched.Messages, 2)
	assert.Equal(t, 2, switched.Current)

	renamed, err := f.svc.Rename(ctx, f.userID, &dto.RenameChatRequest{OldTitle: firstTitle, NewTitle: "Pointers"})
	require.NoError(t, err)
	assert.Equal(t, "Pointers", renamed.Title)

	_, err = f.svc.Rename(ctx, f.userID, &dto.RenameChatRequest{OldTitle: "Pointers", NewTitle: " "})
	code, _ := serverutils.StatusFor(err)
	assert.Equal(t, 400, code)

	deleted, err := f.svc.Delete(ctx, f.userID, "Pointers")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted.DeletedCount)

	state, err := f.svc.State(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, state.Messages)
}

func TestChatServiceUnknownUser(t *testing.T) {
	f := newChatFixture(t, completerFunc(func(context.Context, string) (string, error) { return "x", nil }))
	_, err := f.svc.State(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChatServiceFormat(t *testing.T) {
	f := newChatFixture(t, completerFunc(func(context.Context, string) (string, error) { return "x", nil }))
	res := f.svc.Format(&dto.FormatRequest{Content: "hi"})
	assert.Equal(t, "<p>hi</p>", res.Html)
}

func TestUserServicePreferences(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, completerFunc(func(context.Context, string) (string, error) { return "x", nil }))

	profile, err := f.users.GetProfile(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "light", profile.Preferences.Theme)
	assert.False(t, profile.Preferences.SidebarCollapsed)

	// Open a live session so the update reaches it.
	_, err = f.svc.State(ctx, f.userID)
	require.NoError(t, err)

	collapsed := true
	prefs, err := f.users.UpdatePreferences(ctx, f.userID, &dto.UpdatePreferencesRequest{Theme: "dark", SidebarCollapsed: &collapsed})
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs.Theme)
	assert.True(t, prefs.SidebarCollapsed)

	state, err := f.svc.State(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "dark", state.Preferences.Theme)
	assert.True(t, state.Preferences.SidebarCollapsed)

	prefs, err = f.users.UpdatePreferences(ctx, f.userID, &dto.UpdatePreferencesRequest{})
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs.Theme, "empty fields keep stored values")

	_, err = f.users.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
