package memory

import (
	"sync"
	"time"

	"techno-ai-be/pkg/conversation"

	"github.com/patrickmn/go-cache"
)

const DefaultSessionTTL = time.Hour

// SessionRepository keeps one live conversation manager per user. Entries
// expire after the TTL without access.
type SessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SessionRepository) GetOrCreate(userID string, build func() *conversation.Manager) *conversation.Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(userID); found {
		manager := x.(*conversation.Manager)
		r.cache.Set(userID, manager, cache.DefaultExpiration)
		return manager
	}

	manager := build()
	r.cache.Set(userID, manager, cache.DefaultExpiration)
	return manager
}

func (r *SessionRepository) Get(userID string) (*conversation.Manager, bool) {
	if x, found := r.cache.Get(userID); found {
		return x.(*conversation.Manager), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(userID string) {
	r.cache.Delete(userID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
