// Package panel holds the editable filter state behind the directory's
// search panel: a local buffer one-way synced from the externally
// controlled filters, propagating every edit outward immediately.
package panel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mapleleads/directory-web/internal/domain"
	"github.com/mapleleads/directory-web/internal/settings"
)

// ChangeFunc receives the fully formed, page-reset filter object on every
// edit. Propagation is synchronous per edit; there is no debounce here.
type ChangeFunc func(domain.SearchFilters)

// Panel is the filter panel state. External filter updates always
// overwrite the local buffer; local edits always propagate outward through
// the change callback, so there is no feedback loop.
type Panel struct {
	onChange       ChangeFunc
	store          *settings.Store
	unsubscribe    func()
	minRatingFloor float64
	logger         *slog.Logger

	mu      sync.Mutex
	filters domain.SearchFilters
	title   string
}

// Option configures a Panel.
type Option func(*Panel)

// WithMinRatingFloor sets the surface's minimum-rating floor. The general
// surface keeps the default floor of zero; the renewal surface uses one.
func WithMinRatingFloor(floor float64) Option {
	return func(p *Panel) { p.minRatingFloor = floor }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Panel) { p.logger = logger }
}

// New creates a panel seeded with the caller's filters. The display title
// is read from the settings store once here and again on every settings
// invalidation until Close.
func New(initial domain.SearchFilters, store *settings.Store, onChange ChangeFunc, opts ...Option) *Panel {
	p := &Panel{
		onChange:       onChange,
		store:          store,
		minRatingFloor: domain.MinRatingFloorGeneral,
		logger:         slog.Default(),
		filters:        initial,
	}

	for _, opt := range opts {
		opt(p)
	}

	if store != nil {
		p.reloadTitle()
		p.unsubscribe = store.Subscribe(p.reloadTitle)
	} else {
		p.title = domain.DefaultSearchTitle
	}

	return p
}

// Sync resynchronizes the local buffer from the externally controlled
// filters. External state wins over any pending local edit; no callback
// fires.
func (p *Panel) Sync(external domain.SearchFilters) {
	p.mu.Lock()
	p.filters = external
	p.mu.Unlock()
}

// Filters returns the current buffer contents.
func (p *Panel) Filters() domain.SearchFilters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters
}

// Title returns the current display heading.
func (p *Panel) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// FormattedMinRating returns the slider value formatted to one decimal.
func (p *Panel) FormattedMinRating() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("%.1f", p.filters.MinRating)
}

// SetQuery edits the free-text query.
func (p *Panel) SetQuery(q string) {
	p.apply(func(f domain.SearchFilters) domain.SearchFilters { return f.WithQuery(q) })
}

// SetIndustry edits the industry; the "All" sentinel clears it.
func (p *Panel) SetIndustry(industry string) {
	p.apply(func(f domain.SearchFilters) domain.SearchFilters { return f.WithIndustry(industry) })
}

// SetCity edits the city; the "All" sentinel clears it.
func (p *Panel) SetCity(city string) {
	p.apply(func(f domain.SearchFilters) domain.SearchFilters { return f.WithCity(city) })
}

// SetPostalCode edits the postal code, normalizing the raw input.
func (p *Panel) SetPostalCode(raw string) {
	p.apply(func(f domain.SearchFilters) domain.SearchFilters { return f.WithPostalCode(raw) })
}

// SetMinRating edits the minimum rating, clamped to this surface's floor.
func (p *Panel) SetMinRating(rating float64) {
	p.apply(func(f domain.SearchFilters) domain.SearchFilters {
		return f.WithMinRating(rating, p.minRatingFloor)
	})
}

// SetCompanyName edits the company name.
func (p *Panel) SetCompanyName(name string) {
	p.apply(func(f domain.SearchFilters) domain.SearchFilters { return f.WithCompanyName(name) })
}

// SetPhone edits the phone.
func (p *Panel) SetPhone(phone string) {
	p.apply(func(f domain.SearchFilters) domain.SearchFilters { return f.WithPhone(phone) })
}

// ClearAll resets every field to the schema defaults in one atomic update
// and emits it through the same callback as any other edit.
func (p *Panel) ClearAll() {
	p.apply(func(domain.SearchFilters) domain.SearchFilters {
		f := domain.DefaultFilters()
		f.MinRating = p.minRatingFloor
		return f
	})
}

// Close releases the settings subscription.
func (p *Panel) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// apply runs one edit: compute the next filter object, store it locally,
// and hand it outward synchronously.
func (p *Panel) apply(edit func(domain.SearchFilters) domain.SearchFilters) {
	p.mu.Lock()
	next := edit(p.filters)
	p.filters = next
	p.mu.Unlock()

	if p.onChange != nil {
		p.onChange(next)
	}
}

func (p *Panel) reloadTitle() {
	title := p.store.Get(context.Background()).SearchTitle

	p.mu.Lock()
	p.title = title
	p.mu.Unlock()
}
