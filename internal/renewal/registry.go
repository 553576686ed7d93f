package renewal

import (
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultSessionTTL is how long an idle renewal session survives.
	DefaultSessionTTL = 30 * time.Minute

	// evictInterval is how often the registry sweeps idle sessions.
	evictInterval = time.Minute
)

// Registry hands out one Lookup coordinator per browsing session and
// evicts coordinators that have gone quiet.
type Registry struct {
	api    LookupAPI
	ttl    time.Duration
	opts   []Option
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
	stopChan chan struct{}
}

type session struct {
	lookup   *Lookup
	lastSeen time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSessionTTL overrides the idle session lifetime.
func WithSessionTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) { r.ttl = ttl }
}

// WithLookupOptions passes options through to every created Lookup.
func WithLookupOptions(opts ...Option) RegistryOption {
	return func(r *Registry) { r.opts = opts }
}

// WithRegistryLogger sets the logger.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry creates a registry over api and starts its eviction loop.
func NewRegistry(api LookupAPI, opts ...RegistryOption) *Registry {
	r := &Registry{
		api:      api,
		ttl:      DefaultSessionTTL,
		logger:   slog.Default(),
		sessions: make(map[string]*session),
		stopChan: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	go r.evictLoop()

	return r
}

// Get returns the coordinator for the session, creating it on first use.
func (r *Registry) Get(sessionID string) *Lookup {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		s = &session{lookup: NewLookup(r.api, r.opts...)}
		r.sessions[sessionID] = s
	}
	s.lastSeen = time.Now()

	return s.lookup
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Close stops the eviction loop and closes every coordinator.
func (r *Registry) Close() {
	close(r.stopChan)

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		s.lookup.Close()
		delete(r.sessions, id)
	}
}

func (r *Registry) evictLoop() {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

func (r *Registry) evictIdle() {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			s.lookup.Close()
			delete(r.sessions, id)
			evicted++
		}
	}

	if evicted > 0 {
		r.logger.Debug("evicted idle renewal sessions", "count", evicted)
	}
}
