package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/locshare/internal/model"
	appErr "github.com/xxxsen/locshare/internal/pkg/errors"
	"github.com/xxxsen/locshare/internal/pkg/timeutil"
	"github.com/xxxsen/locshare/internal/registry"
)

const (
	MsgCoordsNotNumbers = "lat and lng must be numbers"
	MsgCoordsOutOfRange = "lat and lng out of range"
)

type ShareService struct {
	reg   *registry.Registry
	newID func() string
	now   func() time.Time
}

type ShareOption func(*ShareService)

func WithIDGenerator(newID func() string) ShareOption {
	return func(s *ShareService) {
		s.newID = newID
	}
}

func WithClock(now func() time.Time) ShareOption {
	return func(s *ShareService) {
		s.now = now
	}
}

func NewShareService(reg *registry.Registry, opts ...ShareOption) *ShareService {
	s := &ShareService{
		reg:   reg,
		newID: NewShareID,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateInput struct {
	Lat        *float64
	Lng        *float64
	Label      string
	TTLMinutes *float64
	// BaseURL is the externally visible address of this service, without a
	// trailing slash; the handler derives it from the request unless the
	// deployment overrides it.
	BaseURL string
}

type CreateResult struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	ExpiresAt *int64 `json:"expiresAt"`
}

// Create validates the coordinates, registers a new share record and returns
// its identifier, absolute URL and expiry. Validation failures leave the
// registry untouched.
func (s *ShareService) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if input.Lat == nil || input.Lng == nil {
		return nil, fmt.Errorf("%w: %s", appErr.ErrInvalid, MsgCoordsNotNumbers)
	}
	lat, lng := *input.Lat, *input.Lng
	if !validCoords(lat, lng) {
		return nil, fmt.Errorf("%w: %s", appErr.ErrInvalid, MsgCoordsOutOfRange)
	}

	createdAt := timeutil.ToMillis(s.now())
	var expiresAt *int64
	if input.TTLMinutes != nil && *input.TTLMinutes > 0 {
		v := createdAt + int64(math.Round(*input.TTLMinutes*60000))
		expiresAt = &v
	}

	rec := &model.ShareRecord{
		ID:        s.newID(),
		Lat:       lat,
		Lng:       lng,
		Label:     input.Label,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}
	if err := s.reg.Put(rec); err != nil {
		// generator collision, should never happen; fail this operation
		// instead of overwriting the existing record
		logutil.GetLogger(ctx).Error("share id collision", zap.String("id", rec.ID), zap.Error(err))
		return nil, appErr.ErrInternal
	}
	logutil.GetLogger(ctx).Info("share created",
		zap.String("id", rec.ID),
		zap.Float64("lat", rec.Lat),
		zap.Float64("lng", rec.Lng),
		zap.Bool("has_ttl", expiresAt != nil),
	)
	return &CreateResult{
		ID:        rec.ID,
		URL:       strings.TrimSuffix(input.BaseURL, "/") + "/share/" + rec.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// Get returns the live record for id. Absence comes back as ErrNotFound or
// ErrExpired; the latter is only observable on the read that evicts the
// record, so most callers see the two as the same thing.
func (s *ShareService) Get(ctx context.Context, id string) (*model.ShareRecord, error) {
	rec, lookup := s.reg.Get(id)
	switch lookup {
	case registry.LookupFound:
		return rec, nil
	case registry.LookupExpired:
		return nil, appErr.ErrExpired
	default:
		return nil, appErr.ErrNotFound
	}
}

func validCoords(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
