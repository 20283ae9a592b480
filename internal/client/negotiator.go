package client

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/locshare/internal/geo"
	"github.com/xxxsen/locshare/internal/model"
	"github.com/xxxsen/locshare/internal/pkg/timeutil"
	"github.com/xxxsen/locshare/internal/service"
)

// State tracks a single share attempt through the dual-backend write.
type State int

const (
	StateIdle State = iota
	StateLocating
	StateSavingDurable
	StateSavingFallback
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLocating:
		return "locating"
	case StateSavingDurable:
		return "saving_durable"
	case StateSavingFallback:
		return "saving_fallback"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DurableStore is the write half of the remote multi-record collection.
type DurableStore interface {
	Insert(ctx context.Context, loc *model.Location) error
}

// ShareCreator is the ephemeral fallback path.
type ShareCreator interface {
	CreateShare(ctx context.Context, req CreateShareRequest) (*CreateShareResponse, error)
}

// DurableOutcome is the typed result of the durable step; fallback is a
// branch on this value, not exception flow.
type DurableOutcome struct {
	Saved *model.Location
	Err   error
}

func (o DurableOutcome) Succeeded() bool {
	return o.Err == nil && o.Saved != nil
}

// Attempt is the full record of one share attempt.
type Attempt struct {
	State    State
	Position *geo.Position
	Durable  DurableOutcome
	Share    *CreateShareResponse
	Err      error
}

type ShareOptions struct {
	Label      string
	TTLMinutes *float64
}

// Negotiator performs the best-effort-then-degrade write: durable store
// first, ephemeral share service when that fails. Nothing is retried; a
// failed attempt ends with the user re-invoking sharing.
type Negotiator struct {
	geo        geo.Provider
	store      DurableStore // nil when the durable path is not configured
	shares     ShareCreator
	owner      string
	geoTimeout time.Duration
	newID      func() string
	now        func() time.Time
}

type NegotiatorOption func(*Negotiator)

func WithGeoTimeout(d time.Duration) NegotiatorOption {
	return func(n *Negotiator) {
		n.geoTimeout = d
	}
}

func WithIDGenerator(newID func() string) NegotiatorOption {
	return func(n *Negotiator) {
		n.newID = newID
	}
}

func WithClock(now func() time.Time) NegotiatorOption {
	return func(n *Negotiator) {
		n.now = now
	}
}

func NewNegotiator(provider geo.Provider, store DurableStore, shares ShareCreator, owner string, opts ...NegotiatorOption) *Negotiator {
	n := &Negotiator{
		geo:        provider,
		store:      store,
		shares:     shares,
		owner:      owner,
		geoTimeout: geo.DefaultAcquireTimeout,
		newID:      service.NewShareID,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Share runs one attempt. The returned Attempt always describes how far it
// got; Err is set only when the attempt as a whole failed.
func (n *Negotiator) Share(ctx context.Context, opts ShareOptions) *Attempt {
	attempt := &Attempt{State: StateLocating}
	logger := logutil.GetLogger(ctx)

	pos, err := geo.Acquire(ctx, n.geo, n.geoTimeout)
	if err != nil {
		attempt.State = StateFailed
		attempt.Err = err
		return attempt
	}
	attempt.Position = pos

	attempt.State = StateSavingDurable
	attempt.Durable = n.saveDurable(ctx, pos)
	if attempt.Durable.Succeeded() {
		attempt.State = StateSucceeded
		return attempt
	}
	if attempt.Durable.Err != nil {
		// deliberate best-effort policy: a durable failure degrades to the
		// ephemeral path instead of surfacing
		logger.Warn("durable save failed, falling back to ephemeral share", zap.Error(attempt.Durable.Err))
	}

	attempt.State = StateSavingFallback
	share, err := n.shares.CreateShare(ctx, CreateShareRequest{
		Lat:        pos.Lat,
		Lng:        pos.Lng,
		Label:      opts.Label,
		TTLMinutes: opts.TTLMinutes,
	})
	if err != nil {
		attempt.State = StateFailed
		attempt.Err = err
		return attempt
	}
	attempt.Share = share
	attempt.State = StateSucceeded
	return attempt
}

func (n *Negotiator) saveDurable(ctx context.Context, pos *geo.Position) DurableOutcome {
	if n.store == nil {
		return DurableOutcome{}
	}
	loc := &model.Location{
		ID:        n.newID(),
		Owner:     n.owner,
		Lat:       pos.Lat,
		Lng:       pos.Lng,
		Accuracy:  pos.Accuracy,
		CreatedAt: timeutil.ToMillis(n.now()),
	}
	if err := n.store.Insert(ctx, loc); err != nil {
		return DurableOutcome{Err: err}
	}
	return DurableOutcome{Saved: loc}
}
