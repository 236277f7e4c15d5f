// Package conversation implements the per-user chat session: the active
// conversation, its sequence counter and the request/response cycle with the
// completion service.
package conversation

import (
	"context"
	"errors"
	"time"
)

type State string

const (
	StateIdle     State = "idle"
	StateAwaiting State = "awaiting_response"
	StateError    State = "error"
)

// BotSender marks messages produced by the assistant.
const BotSender = "bot"

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrEmptyTitle   = errors.New("conversation title is empty")
	ErrBusy         = errors.New("a response is still pending")
)

type Message struct {
	ConversationTitle string    `json:"chat_title"`
	Sender            string    `json:"sender"`
	Content           string    `json:"content"`
	HasCode           bool      `json:"has_code"`
	Sequence          int       `json:"sequence"`
	Timestamp         time.Time `json:"timestamp"`

	// Markup is the rendered form of a bot message. Never persisted.
	Markup  string `json:"markup,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
}

func (m Message) IsBot() bool {
	return m.Sender == BotSender
}

type Summary struct {
	Title         string    `json:"title"`
	LastMessageAt time.Time `json:"last_message_at"`
}

type Preferences struct {
	Theme            string `json:"theme"`
	SidebarCollapsed bool   `json:"sidebar_collapsed"`
}

// Turn is the outcome of one Submit.
type Turn struct {
	User   Message `json:"user"`
	Reply  Message `json:"reply"`
	Failed bool    `json:"failed"`
	Reason string  `json:"reason,omitempty"`
}

// View is a consistent copy of the session for display.
type View struct {
	Title       string      `json:"title"`
	State       State       `json:"state"`
	Current     int         `json:"current"`
	Untitled    bool        `json:"untitled"`
	Messages    []Message   `json:"messages"`
	Preferences Preferences `json:"preferences"`
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Store is the persistence collaborator. Sequence numbers are assigned by
// the Manager and trusted by the store.
type Store interface {
	AppendBatch(ctx context.Context, userID string, messages []Message) error
	ListConversationSummaries(ctx context.Context, userID string) ([]Summary, error)
	ListMessages(ctx context.Context, userID, title string) ([]Message, error)
	RenameConversation(ctx context.Context, userID, oldTitle, newTitle string) error
	DeleteConversation(ctx context.Context, userID, title string) (int64, error)
}

type Renderer interface {
	Format(raw, question string) string
}

type RendererFunc func(raw, question string) string

func (f RendererFunc) Format(raw, question string) string {
	return f(raw, question)
}

type EventType string

const (
	EventPending              EventType = "chat.pending"
	EventReply                EventType = "chat.reply"
	EventError                EventType = "chat.error"
	EventConversationsChanged EventType = "chat.conversations_changed"
)

type Event struct {
	Type    EventType `json:"type"`
	Title   string    `json:"title"`
	Message *Message  `json:"message,omitempty"`
	Reason  string    `json:"reason,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, userID string, event Event)
}

// Logger receives persistence failures, which never reach the caller.
type Logger interface {
	Error(module, message string, details map[string]interface{})
}
