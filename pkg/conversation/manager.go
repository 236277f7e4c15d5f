package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"techno-ai-be/pkg/codeblock"
	"techno-ai-be/pkg/llm"
	"techno-ai-be/pkg/prompt"
	"techno-ai-be/pkg/title"
)

const (
	DefaultTitle             = "New Chat"
	DefaultCompletionTimeout = 60 * time.Second

	logModule = "ConversationManager"
)

type Config struct {
	UserID            string
	Prompt            prompt.Options
	CompletionTimeout time.Duration
	Preferences       Preferences
	Now               func() time.Time
}

type Manager struct {
	cfg       Config
	completer Completer
	store     Store
	renderer  Renderer
	notifier  Notifier
	logger    Logger

	mu       sync.Mutex
	state    State
	busy     bool // a store mutation holds the manager
	title    string
	untitled bool
	current  int
	messages []Message
	prefs    Preferences
}

func NewManager(cfg Config, completer Completer, store Store, renderer Renderer, notifier Notifier, logger Logger) *Manager {
	if cfg.CompletionTimeout <= 0 {
		cfg.CompletionTimeout = DefaultCompletionTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Prompt = cfg.Prompt.WithDefaults()

	return &Manager{
		cfg:       cfg,
		completer: completer,
		store:     store,
		renderer:  renderer,
		notifier:  notifier,
		logger:    logger,
		state:     StateIdle,
		title:     DefaultTitle,
		untitled:  true,
		prefs:     cfg.Preferences,
	}
}

func (m *Manager) UserID() string {
	return m.cfg.UserID
}

// Submit runs one user turn. Only one turn may be in flight.
func (m *Manager) Submit(ctx context.Context, text string) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmptyMessage
	}

	m.mu.Lock()
	if m.state != StateIdle || m.busy {
		m.mu.Unlock()
		return Turn{}, ErrBusy
	}
	if m.untitled {
		m.title = title.Short(text)
		m.untitled = false
	}
	user := Message{
		ConversationTitle: m.title,
		Sender:            m.cfg.UserID,
		Content:           text,
		HasCode:           codeblock.HasCode(text),
		Sequence:          m.current + 1,
		Timestamp:         m.cfg.Now(),
	}
	m.messages = append(m.messages, user)
	m.state = StateAwaiting
	m.mu.Unlock()

	m.notify(ctx, Event{Type: EventPending, Title: user.ConversationTitle, Message: &user})

	raw, err := m.complete(ctx, text)
	if err != nil {
		return m.fail(ctx, user, err), nil
	}

	bot := Message{
		ConversationTitle: user.ConversationTitle,
		Sender:            BotSender,
		Content:           raw,
		HasCode:           codeblock.HasCode(raw),
		Sequence:          user.Sequence + 1,
		Timestamp:         m.cfg.Now(),
		Markup:            m.renderer.Format(raw, text),
	}

	m.mu.Lock()
	m.messages = append(m.messages, bot)
	m.current += 2
	m.mu.Unlock()

	// The batch is stored before the manager accepts the next operation.
	m.persist(ctx, []Message{user, bot})

	m.mu.Lock()
	m.state = StateIdle
	m.mu.Unlock()

	m.notify(ctx, Event{Type: EventReply, Title: bot.ConversationTitle, Message: &bot})
	m.notify(ctx, Event{Type: EventConversationsChanged, Title: bot.ConversationTitle})

	return Turn{User: user, Reply: bot}, nil
}

func (m *Manager) complete(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	opts := m.cfg.Prompt
	m.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, m.cfg.CompletionTimeout)
	defer cancel()

	raw, err := m.completer.Complete(cctx, prompt.Enhance(text, opts))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: empty completion", llm.ErrMalformedResponse)
	}
	return raw, nil
}

// fail records an unsequenced error reply. Only the user message is stored.
func (m *Manager) fail(ctx context.Context, user Message, cause error) Turn {
	reason := llm.Reason(cause)
	description := llm.Describe(cause)
	reply := Message{
		ConversationTitle: user.ConversationTitle,
		Sender:            BotSender,
		Content:           description,
		Timestamp:         m.cfg.Now(),
		Markup:            `<div class="error-message">` + codeblock.EscapeHTML(description) + `</div>`,
		IsError:           true,
	}

	m.mu.Lock()
	m.state = StateError
	m.messages = append(m.messages, reply)
	m.current++
	m.mu.Unlock()

	m.persist(ctx, []Message{user})
	m.notify(ctx, Event{Type: EventError, Title: user.ConversationTitle, Message: &reply, Reason: reason})

	m.mu.Lock()
	m.state = StateIdle
	m.mu.Unlock()

	m.notify(ctx, Event{Type: EventConversationsChanged, Title: user.ConversationTitle})

	return Turn{User: user, Reply: reply, Failed: true, Reason: reason}
}

func (m *Manager) persist(ctx context.Context, batch []Message) {
	if err := m.store.AppendBatch(context.WithoutCancel(ctx), m.cfg.UserID, batch); err != nil {
		m.logError("failed to persist messages", err, map[string]interface{}{
			"title": batch[0].ConversationTitle,
			"count": len(batch),
		})
	}
}

// NewConversation starts an empty conversation with a default title that
// does not collide with a stored one.
func (m *Manager) NewConversation(ctx context.Context) (View, error) {
	if err := m.begin(""); err != nil {
		return View{}, err
	}
	defer m.end()

	fresh := m.freshTitle(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset(fresh)
	return m.snapshotLocked(), nil
}

// Switch loads a stored conversation and makes it active.
func (m *Manager) Switch(ctx context.Context, conversationTitle string) (View, error) {
	if strings.TrimSpace(conversationTitle) == "" {
		return View{}, ErrEmptyTitle
	}
	if err := m.begin(""); err != nil {
		return View{}, err
	}
	defer m.end()

	stored, err := m.store.ListMessages(ctx, m.cfg.UserID, conversationTitle)
	if err != nil {
		return View{}, fmt.Errorf("load conversation: %w", err)
	}

	messages := m.render(stored)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = conversationTitle
	m.untitled = false
	m.messages = messages
	m.current = len(messages)
	return m.snapshotLocked(), nil
}

// Rename changes a conversation's title in the store and, when it is the
// active conversation, in memory.
func (m *Manager) Rename(ctx context.Context, oldTitle, newTitle string) error {
	newTitle = strings.TrimSpace(newTitle)
	if strings.TrimSpace(oldTitle) == "" || newTitle == "" {
		return ErrEmptyTitle
	}
	if err := m.begin(oldTitle); err != nil {
		return err
	}
	defer m.end()

	if err := m.store.RenameConversation(ctx, m.cfg.UserID, oldTitle, newTitle); err != nil {
		return fmt.Errorf("rename conversation: %w", err)
	}

	m.mu.Lock()
	if m.title == oldTitle {
		m.title = newTitle
		m.untitled = false
		for i := range m.messages {
			m.messages[i].ConversationTitle = newTitle
		}
	}
	m.mu.Unlock()

	m.notify(ctx, Event{Type: EventConversationsChanged, Title: newTitle})
	return nil
}

// Delete removes every stored message of the conversation. Deleting the
// active conversation starts a fresh one.
func (m *Manager) Delete(ctx context.Context, conversationTitle string) (int64, error) {
	if strings.TrimSpace(conversationTitle) == "" {
		return 0, ErrEmptyTitle
	}
	if err := m.begin(conversationTitle); err != nil {
		return 0, err
	}
	defer m.end()

	deleted, err := m.store.DeleteConversation(ctx, m.cfg.UserID, conversationTitle)
	if err != nil {
		return 0, fmt.Errorf("delete conversation: %w", err)
	}

	m.mu.Lock()
	active := m.title == conversationTitle
	m.mu.Unlock()

	if active {
		fresh := m.freshTitle(ctx)
		m.mu.Lock()
		m.reset(fresh)
		m.mu.Unlock()
	}

	m.notify(ctx, Event{Type: EventConversationsChanged, Title: conversationTitle})
	return deleted, nil
}

func (m *Manager) Summaries(ctx context.Context) ([]Summary, error) {
	return m.store.ListConversationSummaries(ctx, m.cfg.UserID)
}

func (m *Manager) Snapshot() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) SetPreferences(p Preferences) {
	m.mu.Lock()
	m.prefs = p
	m.mu.Unlock()
}

func (m *Manager) SetPromptOptions(opts prompt.Options) {
	m.mu.Lock()
	m.cfg.Prompt = opts.WithDefaults()
	m.mu.Unlock()
}

func (m *Manager) snapshotLocked() View {
	messages := make([]Message, len(m.messages))
	copy(messages, m.messages)
	return View{
		Title:       m.title,
		State:       m.state,
		Current:     m.current,
		Untitled:    m.untitled,
		Messages:    messages,
		Preferences: m.prefs,
	}
}

func (m *Manager) reset(t string) {
	m.title = t
	m.untitled = true
	m.current = 0
	m.messages = nil
}

// begin holds the manager for a store mutation until end. Submit and other
// mutations get ErrBusy meanwhile. An empty target means the active
// conversation; while a reply is pending only other conversations may change.
func (m *Manager) begin(target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return ErrBusy
	}
	if m.state != StateIdle && (target == "" || target == m.title) {
		return ErrBusy
	}
	m.busy = true
	return nil
}

func (m *Manager) end() {
	m.mu.Lock()
	m.busy = false
	m.mu.Unlock()
}

func (m *Manager) freshTitle(ctx context.Context) string {
	taken := map[string]bool{}
	summaries, err := m.store.ListConversationSummaries(ctx, m.cfg.UserID)
	if err != nil {
		m.logError("failed to list conversations", err, nil)
	}
	for _, s := range summaries {
		taken[s.Title] = true
	}
	return NextDefaultTitle(taken)
}

// NextDefaultTitle returns "New Chat", "New Chat 2", ... skipping taken titles.
func NextDefaultTitle(taken map[string]bool) string {
	if !taken[DefaultTitle] {
		return DefaultTitle
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s %d", DefaultTitle, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// render recomputes bot markup. A bot message answers the nearest
// preceding user message.
func (m *Manager) render(stored []Message) []Message {
	out := make([]Message, len(stored))
	question := ""
	for i, msg := range stored {
		out[i] = msg
		if !msg.IsBot() {
			question = msg.Content
			continue
		}
		out[i].Markup = m.renderer.Format(msg.Content, question)
	}
	return out
}

func (m *Manager) notify(ctx context.Context, e Event) {
	if m.notifier != nil {
		m.notifier.Notify(ctx, m.cfg.UserID, e)
	}
}

func (m *Manager) logError(msg string, err error, details map[string]interface{}) {
	if m.logger == nil {
		return
	}
	if details == nil {
		details = map[string]interface{}{}
	}
	details["user_id"] = m.cfg.UserID
	details["error"] = err.Error()
	m.logger.Error(logModule, msg, details)
}
