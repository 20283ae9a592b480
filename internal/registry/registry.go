package registry

import (
	"sync"
	"time"

	"github.com/xxxsen/locshare/internal/model"
	appErr "github.com/xxxsen/locshare/internal/pkg/errors"
	"github.com/xxxsen/locshare/internal/pkg/timeutil"
)

// Lookup is the three-way result of a registry read. Missing and Expired are
// both absence, but only the read that evicts an entry can tell them apart;
// callers upstream decide how much of that distinction to expose.
type Lookup int

const (
	LookupFound Lookup = iota
	LookupMissing
	LookupExpired
)

// Registry is an in-process store of share records with per-record expiry.
// Expired entries are evicted lazily by the read that discovers them; the
// optional sweep only bounds memory growth and is never needed for
// correctness.
type Registry struct {
	mu      sync.Mutex
	records map[string]*model.ShareRecord
	now     func() time.Time
}

type Option func(*Registry)

// WithClock replaces the wall clock, for tests that advance time.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{
		records: make(map[string]*model.ShareRecord),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Put inserts a record under its id. An already-present id means the
// generator collided; the insert is rejected rather than overwriting.
func (r *Registry) Put(rec *model.ShareRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[rec.ID]; exists {
		return appErr.ErrConflict
	}
	r.records[rec.ID] = rec
	return nil
}

// Get returns the live record for id, or reports why it is absent. The
// expiry check and the eviction it triggers happen under one lock, so a
// concurrent reader sees the record either live or gone, never in between.
func (r *Registry) Get(id string) (*model.ShareRecord, Lookup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, LookupMissing
	}
	if !rec.Live(timeutil.ToMillis(r.now())) {
		delete(r.records, id)
		return nil, LookupExpired
	}
	return rec, LookupFound
}

// SweepExpired removes every expired entry and returns how many were removed.
func (r *Registry) SweepExpired() int {
	nowMs := timeutil.ToMillis(r.now())
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, rec := range r.records {
		if !rec.Live(nowMs) {
			delete(r.records, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
