package engine

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrStale is returned when a fetch result arrives after a newer fetch was started.
var ErrStale = errors.New("stale fetch result: a newer fetch was started")

// Ticket identifies one fetch. Seq orders fetches; ID correlates log lines.
type Ticket struct {
	Seq uint64    `json:"seq"`
	ID  uuid.UUID `json:"id"`
}

// Snapshot is a consistent copy of the pipeline's visible state.
type Snapshot struct {
	Seq        uint64     `json:"seq"`
	Listings   []Listing  `json:"listings"`
	Total      int        `json:"total"`
	Thresholds Thresholds `json:"thresholds"`
	Ranges     []Range    `json:"ranges,omitempty"`
	Filtering  bool       `json:"filtering"`
	Sort       SortState  `json:"sort"`
	Premium    bool       `json:"premium"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Pipeline owns the listing collection ("data") and its filtered, sorted view.
// Every mutation replaces whole slices; the last started fetch wins.
type Pipeline struct {
	mu sync.Mutex

	names NameResolver
	coll  Collator
	now   func() time.Time

	issued  uint64 // latest ticket handed out
	applied uint64 // ticket whose data is current

	raw      []RouteListing // nil after Import
	data     []Listing
	filtered []Listing

	thresholds Thresholds
	ranges     []Range
	filtering  bool // false after ResetFilters: the view is all of data
	sort       SortState
	premium    bool
	updatedAt  time.Time
}

// NewPipeline creates an empty pipeline resolving names with names and
// collating text columns for locale.
func NewPipeline(names NameResolver, locale string) *Pipeline {
	return &Pipeline{
		names:    names,
		coll:     NewCollator(locale),
		now:      time.Now,
		sort:     DefaultSortState(),
		data:     []Listing{},
		filtered: []Listing{},
	}
}

// SetClock replaces the time source used for relative dates.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
}

// Restore loads persisted settings and recomputes the view.
func (p *Pipeline) Restore(th Thresholds, sort SortState, premium bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !IsSortField(sort.Field) {
		sort = DefaultSortState()
	}
	p.thresholds = th
	p.sort = sort
	if premium != p.premium {
		p.premium = premium
		p.rederive()
	}
	p.refresh()
}

// Begin issues a ticket for a new fetch, superseding any fetch in flight.
func (p *Pipeline) Begin() Ticket {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return Ticket{Seq: p.issued, ID: uuid.New()}
}

// Latest reports whether t is the most recently issued ticket.
func (p *Pipeline) Latest(t Ticket) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return t.Seq == p.issued
}

// Apply replaces the collection with raw if t is still the latest ticket.
// Saved thresholds and the current sort are re-applied. A superseded ticket
// returns ErrStale and changes nothing.
func (p *Pipeline) Apply(t Ticket, raw []RouteListing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t.Seq != p.issued {
		return ErrStale
	}
	p.raw = raw
	p.data = Enrich(raw, DefaultTax(p.premium), p.names, p.now())
	p.applied = t.Seq
	p.filtering = true
	p.updatedAt = p.now()
	p.refresh()
	return nil
}

// Import replaces the collection with already enriched listings, for example an
// earlier export. It supersedes any fetch in flight. Premium changes do not
// recompute imported listings.
func (p *Pipeline) Import(listings []Listing) Ticket {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	t := Ticket{Seq: p.issued, ID: uuid.New()}
	p.raw = nil
	p.data = slices.Clone(listings)
	p.applied = t.Seq
	p.filtering = true
	p.updatedAt = p.now()
	p.refresh()
	return t
}

// SetPremium switches the sales tax rate and recomputes profit from the
// retained raw listings.
func (p *Pipeline) SetPremium(premium bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if premium == p.premium {
		return
	}
	p.premium = premium
	p.rederive()
	p.refresh()
}

// Premium reports the current tax mode.
func (p *Pipeline) Premium() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.premium
}

// ApplyFilters stores new thresholds and optional ranges and re-filters the full collection.
func (p *Pipeline) ApplyFilters(th Thresholds, ranges []Range) []Listing {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.thresholds = th
	p.ranges = slices.Clone(ranges)
	p.filtering = true
	p.refresh()
	return slices.Clone(p.filtered)
}

// ResetFilters clears every threshold and range and shows the whole collection,
// including listings with negative profit, until the next filter or fetch.
func (p *Pipeline) ResetFilters() []Listing {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.thresholds = Thresholds{}
	p.ranges = nil
	p.filtering = false
	p.refresh()
	return slices.Clone(p.filtered)
}

// Sort applies a header click on field. Unknown fields leave the state unchanged.
func (p *Pipeline) Sort(field string) SortState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !IsSortField(field) {
		return p.sort
	}
	p.sort = p.sort.Toggle(field)
	p.filtered = p.sort.Apply(p.filtered, p.coll)
	return p.sort
}

// Rank scores the current filtered view.
func (p *Pipeline) Rank() []ScoredListing {
	p.mu.Lock()
	filtered := slices.Clone(p.filtered)
	p.mu.Unlock()
	return Rank(filtered)
}

// Filtered returns a copy of the current view.
func (p *Pipeline) Filtered() []Listing {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.filtered)
}

// Snapshot returns a copy of the visible state.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Seq:        p.applied,
		Listings:   slices.Clone(p.filtered),
		Total:      len(p.data),
		Thresholds: p.thresholds,
		Ranges:     slices.Clone(p.ranges),
		Filtering:  p.filtering,
		Sort:       p.sort,
		Premium:    p.premium,
		UpdatedAt:  p.updatedAt,
	}
}

// rederive recomputes data from raw with the current tax mode. Caller holds mu.
func (p *Pipeline) rederive() {
	if p.raw == nil {
		return
	}
	p.data = Enrich(p.raw, DefaultTax(p.premium), p.names, p.now())
}

// refresh rebuilds filtered from data. Caller holds mu.
func (p *Pipeline) refresh() {
	view := p.data
	if p.filtering {
		view = Filter(p.data, p.thresholds)
		if len(p.ranges) > 0 {
			view = FilterRanges(view, p.ranges)
		}
	}
	p.filtered = p.sort.Apply(view, p.coll)
}
