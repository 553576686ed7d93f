// Package settings holds the locally persisted display configuration and
// notifies live readers when it changes.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mapleleads/directory-web/internal/domain"
)

// ErrNoSettings is returned by a Repository when nothing has been stored yet.
var ErrNoSettings = errors.New("no settings stored")

// Repository persists the raw settings payload.
type Repository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
}

// Store is the read-shared settings store. Writers go through Put, which
// broadcasts a payload-less invalidation; readers re-fetch via Get on
// every notification rather than trusting an embedded payload.
type Store struct {
	repo   Repository
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewStore creates a settings store over repo.
func NewStore(repo Repository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		repo:   repo,
		logger: logger,
		subs:   make(map[int]func()),
	}
}

// Get returns the stored display configuration. A missing or malformed
// payload degrades to the defaults; parse failures are logged, never
// raised.
func (s *Store) Get(ctx context.Context) domain.SearchSettings {
	raw, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSettings) {
			s.logger.Warn("failed to load settings, using defaults", "error", err)
		}
		return domain.DefaultSettings()
	}

	var stored domain.SearchSettings
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Warn("malformed stored settings, using defaults", "error", err)
		return domain.DefaultSettings()
	}

	if stored.SearchTitle == "" {
		stored.SearchTitle = domain.DefaultSearchTitle
	}

	return stored
}

// Put persists the display configuration and notifies every subscriber.
func (s *Store) Put(ctx context.Context, settings domain.SearchSettings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := s.repo.Save(ctx, payload); err != nil {
		return err
	}

	s.broadcast()

	return nil
}

// Subscribe registers fn to run on every settings change and returns the
// matching unsubscribe. Callers subscribe on construction and must
// unsubscribe on teardown.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) broadcast() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
