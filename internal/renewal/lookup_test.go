package renewal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleleads/directory-web/internal/directory"
	"github.com/mapleleads/directory-web/internal/domain"
)

const testDelay = 20 * time.Millisecond

// settle waits long enough for a debounce window plus the fake lookup to
// complete.
func settle() { time.Sleep(6 * testDelay) }

type call struct {
	industry string
	phone    string
}

type fakeAPI struct {
	mu      sync.Mutex
	calls   []call
	record  *domain.BusinessRecord
	err     error
	block   chan struct{} // when set, Lookup waits on it before returning
	blockMu sync.Mutex
}

func (a *fakeAPI) Lookup(_ context.Context, industry, phone string) (*domain.BusinessRecord, error) {
	a.mu.Lock()
	a.calls = append(a.calls, call{industry: industry, phone: phone})
	a.mu.Unlock()

	a.blockMu.Lock()
	block := a.block
	a.blockMu.Unlock()
	if block != nil {
		<-block
	}

	if a.err != nil {
		return nil, a.err
	}
	return a.record, nil
}

func (a *fakeAPI) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func (a *fakeAPI) lastCall() call {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[len(a.calls)-1]
}

func newRecord() *domain.BusinessRecord {
	return &domain.BusinessRecord{
		ID:          "b1",
		CompanyName: "Acme Plumbing",
		Industry:    "Plumbing",
		Phone:       "4165551234",
		City:        "Toronto",
		Rating:      4.6,
	}
}

func TestShortPhoneNeverSchedules(t *testing.T) {
	api := &fakeAPI{record: newRecord()}
	l := NewLookup(api, WithDelay(testDelay))
	defer l.Close()

	l.SetInput("Plumbing", "416555")
	settle()

	assert.Zero(t, api.callCount())
	snap := l.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, snap.SearchAttempted)
	assert.Nil(t, snap.Record)
}

func TestEmptyIndustryNeverSchedules(t *testing.T) {
	api := &fakeAPI{record: newRecord()}
	l := NewLookup(api, WithDelay(testDelay))
	defer l.Close()

	l.SetInput("", "4165551234")
	settle()

	assert.Zero(t, api.callCount())
	assert.Equal(t, StateIdle, l.Snapshot().State)
}

func TestDebouncedLookupFound(t *testing.T) {
	api := &fakeAPI{record: newRecord()}
	l := NewLookup(api, WithDelay(testDelay))
	defer l.Close()

	l.SetInput("Plumbing", "4165551234")
	assert.Equal(t, StatePending, l.Snapshot().State)

	settle()

	snap := l.Snapshot()
	assert.Equal(t, StateFound, snap.State)
	assert.True(t, snap.SearchAttempted)
	assert.False(t, snap.IsSearching)
	require.NotNil(t, snap.Record)
	assert.Equal(t, "Acme Plumbing", snap.Record.CompanyName)
	assert.Equal(t, 1, api.callCount())
}

func TestDebounceLastWriteWins(t *testing.T) {
	api := &fakeAPI{record: newRecord()}
	l := NewLookup(api, WithDelay(testDelay))
	defer l.Close()

	// Keystrokes arriving faster than the debounce window: only the final
	// pair may reach the network.
	l.SetInput("Plumbing", "4165551111")
	time.Sleep(testDelay / 4)
	l.SetInput("Plumbing", "4165552222")
	time.Sleep(testDelay / 4)
	l.SetInput("Plumbing", "4165551234")

	settle()

	require.Equal(t, 1, api.callCount())
	assert.Equal(t, call{industry: "Plumbing", phone: "4165551234"}, api.lastCall())
}

func TestCompletedKeyNotResearched(t *testing.T) {
	api := &fakeAPI{record: newRecord()}
	l := NewLookup(api, WithDelay(testDelay))
	defer l.Close()

	l.SetInput("Plumbing", "4165551234")
	settle()
	require.Equal(t, 1, api.callCount())

	// Identical resubmission is skipped outright.
	l.SetInput("Plumbing", "4165551234")
	settle()

	assert.Equal(t, 1, api.callCount())
	assert.Equal(t, StateFound, l.Snapshot().State)
}

func TestRevertToMatchedPairCancelsStaleTimer(t *testing.T) {
	api := &fakeAPI{record: newRecord()}
	l := NewLookup(api, WithDelay(testDelay))
	defer l.Close()

	l.SetInput("Plumbing", "4165551234")
	settle()
	require.Equal(t, 1, api.callCount())

	// Edit to an intermediate pair, then revert to the matched pair while
	// the intermediate debounce timer is still live. The superseded timer
	// must not fire and no new request may go out.
	l.SetInput("Plumbing", "4165559999")
	l.SetInput("Plumbing", "4165551234")
	settle()

	assert.Equal(t, 1, api.callCount())
	snap := l.Snapshot()
	assert.Equal(t, StateFound, snap.State)
	require.NotNil(t, snap.Record)
	assert.Equal(t, "Acme Plumbing", snap.Record.CompanyName)
}

func TestNotFoundDistinctFromIdle(t *testing.T) {
	api := &fakeAPI{err: directory.ErrNotFound}
	l := NewLookup(api, WithDelay(testDelay))
	defer l.Close()

	l.SetInput("Plumbing", "4165551234")
	settle()

	snap := l.Snapshot()
	assert.Equal(t, StateNotFound, snap.State)
	assert.True(t, snap.SearchAttempted, "not-found renders a message, idle renders nothing")
	assert.Nil(t, snap.Record)
}

func TestLookupFailureMapsToNotFound(t *testing.T) {
	api := &fakeAPI{err: assert.AnError}
	l := NewLookup(api, WithDelay(testDelay))
	defer l.Close()

	l.SetInput("Plumbing", "4165551234")
	settle()

	snap := l.Snapshot()
	assert.Equal(t, StateNotFound, snap.State)
	assert.Nil(t, snap.Record)

	// A failed key is not marked completed: new qualifying input for the
	// same pair retries.
	l.SetInput("Plumbing", "4165559999")
	l.SetInput("Plumbing", "4165551234")
	settle()
	assert.Equal(t, 2, api.callCount())
}

func TestInvalidInputClearsFoundRecord(t *testing.T) {
	api := &fakeAPI{record: newRecord()}
	l := NewLookup(api, WithDelay(testDelay))
	defer l.Close()

	l.SetInput("Plumbing", "4165551234")
	settle()
	require.NotNil(t, l.Snapshot().Record)

	l.SetInput("Plumbing", "416")

	snap := l.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Nil(t, snap.Record)
	assert.False(t, snap.SearchAttempted)
}

func TestLateResultNotPromotedAfterClear(t *testing.T) {
	api := &fakeAPI{record: newRecord(), block: make(chan struct{})}
	l := NewLookup(api, WithDelay(testDelay))
	defer l.Close()

	l.SetInput("Plumbing", "4165551234")

	// Wait for the request to be in flight, then invalidate the input
	// while the response is still blocked.
	deadline := time.Now().Add(time.Second)
	for api.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, 1, api.callCount())

	l.SetInput("Plumbing", "")

	close(api.block)
	settle()

	snap := l.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Nil(t, snap.Record, "a response arriving after the phone was cleared must not surface")
}

func TestLateResultNotPromotedAfterClose(t *testing.T) {
	api := &fakeAPI{record: newRecord(), block: make(chan struct{})}
	l := NewLookup(api, WithDelay(testDelay))

	l.SetInput("Plumbing", "4165551234")

	deadline := time.Now().Add(time.Second)
	for api.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, 1, api.callCount())

	l.Close()
	close(api.block)
	settle()

	assert.Nil(t, l.Snapshot().Record)
}

func TestCloseCancelsPendingTimer(t *testing.T) {
	api := &fakeAPI{record: newRecord()}
	l := NewLookup(api, WithDelay(testDelay))

	l.SetInput("Plumbing", "4165551234")
	l.Close()
	settle()

	assert.Zero(t, api.callCount())
}

func TestRegistryReusesAndEvicts(t *testing.T) {
	api := &fakeAPI{record: newRecord()}
	r := NewRegistry(api, WithSessionTTL(time.Hour), WithLookupOptions(WithDelay(testDelay)))
	defer r.Close()

	a := r.Get("session-a")
	assert.Same(t, a, r.Get("session-a"))
	assert.NotSame(t, a, r.Get("session-b"))
	assert.Equal(t, 2, r.Len())

	r.evictIdle()
	assert.Equal(t, 2, r.Len(), "fresh sessions survive the sweep")
}
