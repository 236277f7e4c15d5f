package service

import (
	"context"
	"sync"
	"testing"

	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/model"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/repository/unitofwork"
	"techno-ai-be/pkg/conversation"
	"techno-ai-be/pkg/events"
	"techno-ai-be/pkg/llm"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()
	serverutils.ConfigureJwt("service-test-secret", 0)

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.UserProvider{}, &model.Message{}))
	return unitofwork.NewRepositoryFactory(db)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []conversation.Event
}

func (n *recordingNotifier) Notify(_ context.Context, _ string, e conversation.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

// fakeProvider implements llm.LLMProvider.
type fakeProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
	opts    []llm.Options
}

func (p *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.Generate(ctx, history[len(history)-1].Content, options...)
}

func (p *fakeProvider) Generate(_ context.Context, prompt string, options ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	p.opts = append(p.opts, llm.Apply(llm.Options{}, options...))
	return p.reply, p.err
}

func seedUser(t *testing.T, factory unitofwork.RepositoryFactory, email string) *entity.User {
	t.Helper()
	user := &entity.User{
		FullName:      "Dana Lopez",
		Email:         email,
		Method:        entity.AuthMethodEmail,
		Role:          entity.UserRoleUser,
		AgreedToTerms: true,
	}
	require.NoError(t, factory.NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), user))
	return user
}

type logEntry struct {
	level   string
	module  string
	message string
	details map[string]interface{}
}

// recordingLogger implements logger.ILogger.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level, module, message, details})
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.add("debug", module, message, details)
}

func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.add("info", module, message, details)
}

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.add("warn", module, message, details)
}

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.add("error", module, message, details)
}

func (l *recordingLogger) Sync() error { return nil }

func (l *recordingLogger) levels(level string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}
