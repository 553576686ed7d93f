// Package renewal coordinates the business-renewal funnel: a debounced,
// de-duplicated lookup of a single business by industry and phone, and the
// tiered plan offers unlocked by a match.
package renewal

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mapleleads/directory-web/internal/directory"
	"github.com/mapleleads/directory-web/internal/domain"
)

// State is the lookup progress visible to the rendering layer.
type State int

const (
	// StateIdle means no lookup is pending and nothing has been searched
	// for the current input.
	StateIdle State = iota

	// StatePending means qualifying input is waiting out the debounce
	// window.
	StatePending

	// StateSearching means a remote lookup is in flight.
	StateSearching

	// StateFound means the last lookup matched a record.
	StateFound

	// StateNotFound means the last lookup completed without a match.
	// Failures land here too: the user cannot tell a transport error from
	// a genuine miss.
	StateNotFound
)

// MarshalJSON renders the state by its wire name.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a wire name back into a state.
func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	switch name {
	case "pending":
		*s = StatePending
	case "searching":
		*s = StateSearching
	case "found":
		*s = StateFound
	case "not_found":
		*s = StateNotFound
	default:
		*s = StateIdle
	}

	return nil
}

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSearching:
		return "searching"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not_found"
	default:
		return "idle"
	}
}

const (
	// DebounceDelay is how long input must be stable before a lookup fires.
	DebounceDelay = time.Second

	// MinPhoneLen is the minimum phone input length that qualifies for a
	// lookup.
	MinPhoneLen = 10

	// lookupTimeout bounds a single remote lookup.
	lookupTimeout = 15 * time.Second
)

// LookupAPI is the remote lookup consumed by the coordinator.
type LookupAPI interface {
	Lookup(ctx context.Context, industry, phone string) (*domain.BusinessRecord, error)
}

// searchKey identifies one lookup attempt. Identical keys are never
// searched twice after a success.
type searchKey struct {
	industry string
	phone    string
}

// Snapshot is the coordinator state handed to the rendering layer.
type Snapshot struct {
	State           State                  `json:"state"`
	IsSearching     bool                   `json:"isSearching"`
	SearchAttempted bool                   `json:"searchAttempted"`
	Record          *domain.BusinessRecord `json:"record,omitempty"`
}

// Lookup coordinates one debounced business search. All methods are safe
// for concurrent use; at most one debounce timer is live at any time and
// at most one completed result is promoted per settled input pair.
type Lookup struct {
	api    LookupAPI
	delay  time.Duration
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	record    *domain.BusinessRecord
	timer     *time.Timer
	pending   searchKey
	completed *searchKey
	closed    bool
}

// Option configures a Lookup.
type Option func(*Lookup)

// WithDelay overrides the debounce delay. Used by tests.
func WithDelay(d time.Duration) Option {
	return func(l *Lookup) { l.delay = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lookup) { l.logger = logger }
}

// NewLookup creates an idle coordinator over api.
func NewLookup(api LookupAPI, opts ...Option) *Lookup {
	l := &Lookup{
		api:    api,
		delay:  DebounceDelay,
		logger: slog.Default(),
		state:  StateIdle,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// SetInput feeds the current industry and phone input. Input below the
// minimum constraints drops the coordinator back to idle, clearing any
// found record and pending timer. Qualifying input that differs from the
// last successfully completed pair (re)arms the debounce timer; a pair
// that already matched is never searched again.
func (l *Lookup) SetInput(industry, phone string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	industry = strings.TrimSpace(industry)
	phone = strings.TrimSpace(phone)

	if industry == "" || len([]rune(phone)) < MinPhoneLen {
		l.cancelTimerLocked()
		l.state = StateIdle
		l.record = nil
		l.pending = searchKey{}
		return
	}

	key := searchKey{industry: industry, phone: phone}

	if l.completed != nil && *l.completed == key {
		// Already matched; nothing to reschedule. A timer armed for an
		// intermediate pair is now superseded and must not fire, and the
		// found state is restored for the held record.
		l.cancelTimerLocked()
		l.pending = searchKey{}
		if l.record != nil {
			l.state = StateFound
		} else {
			l.state = StateIdle
		}
		return
	}

	// Last-write-wins debounce: any change cancels the live timer before
	// arming a new one.
	l.cancelTimerLocked()
	l.state = StatePending
	l.pending = key
	l.timer = time.AfterFunc(l.delay, func() { l.fire(key) })
}

// fire runs when the debounce window settles. The key is re-checked under
// the lock so a stale timer can never start a lookup.
func (l *Lookup) fire(key searchKey) {
	l.mu.Lock()
	if l.closed || l.state != StatePending || l.pending != key {
		l.mu.Unlock()
		return
	}
	l.state = StateSearching
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	record, err := l.api.Lookup(ctx, key.industry, key.phone)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Still-relevant check: the input may have changed, become invalid,
	// or the coordinator may have been closed while the request was in
	// flight. A superseded result is dropped silently.
	if l.closed || l.state != StateSearching || l.pending != key {
		return
	}

	if err != nil {
		if !errors.Is(err, directory.ErrNotFound) {
			l.logger.Warn("business lookup failed", "industry", key.industry, "error", err)
		}
		l.state = StateNotFound
		l.record = nil
		return
	}

	l.state = StateFound
	l.record = record
	completed := key
	l.completed = &completed
}

// Snapshot returns the current visible state.
func (l *Lookup) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := Snapshot{
		State:           l.state,
		IsSearching:     l.state == StateSearching,
		SearchAttempted: l.state == StateFound || l.state == StateNotFound,
	}

	if l.record != nil {
		record := *l.record
		snap.Record = &record
	}

	return snap
}

// Close cancels any pending timer and drops the coordinator to idle. Late
// in-flight results are never promoted after Close.
func (l *Lookup) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	l.cancelTimerLocked()
	l.state = StateIdle
	l.record = nil
}

func (l *Lookup) cancelTimerLocked() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}
