package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/locshare/internal/pkg/errors"
	"github.com/xxxsen/locshare/internal/registry"
)

func f64(v float64) *float64 {
	return &v
}

func newTestService(now *time.Time) *ShareService {
	clock := func() time.Time { return *now }
	reg := registry.New(registry.WithClock(clock))
	return NewShareService(reg, WithClock(clock))
}

func TestShareServiceRoundTrip(t *testing.T) {
	now := time.Now()
	svc := newTestService(&now)

	res, err := svc.Create(context.Background(), CreateInput{
		Lat:        f64(-6.2),
		Lng:        f64(106.8),
		Label:      "Jakarta",
		TTLMinutes: f64(1),
		BaseURL:    "http://localhost:3000",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.ID)
	require.Equal(t, "http://localhost:3000/share/"+res.ID, res.URL)
	require.NotNil(t, res.ExpiresAt)
	require.Equal(t, now.UnixMilli()+60000, *res.ExpiresAt)

	rec, err := svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	require.Equal(t, -6.2, rec.Lat)
	require.Equal(t, 106.8, rec.Lng)
	require.Equal(t, "Jakarta", rec.Label)
	require.Equal(t, now.UnixMilli(), rec.CreatedAt)
}

func TestShareServiceTTLEnforcement(t *testing.T) {
	base := time.Now()
	now := base
	svc := newTestService(&now)

	res, err := svc.Create(context.Background(), CreateInput{
		Lat: f64(1), Lng: f64(2), TTLMinutes: f64(1), BaseURL: "http://x",
	})
	require.NoError(t, err)

	now = base.Add(time.Minute - time.Millisecond)
	_, err = svc.Get(context.Background(), res.ID)
	require.NoError(t, err)

	now = base.Add(time.Minute + time.Millisecond)
	_, err = svc.Get(context.Background(), res.ID)
	require.ErrorIs(t, err, appErr.ErrExpired)

	// the evicting read consumed the expired branch
	_, err = svc.Get(context.Background(), res.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestShareServiceNoTTL(t *testing.T) {
	base := time.Now()
	now := base
	svc := newTestService(&now)

	res, err := svc.Create(context.Background(), CreateInput{
		Lat: f64(1), Lng: f64(2), BaseURL: "http://x",
	})
	require.NoError(t, err)
	require.Nil(t, res.ExpiresAt)

	now = base.Add(1000 * 24 * time.Hour)
	_, err = svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
}

func TestShareServiceValidation(t *testing.T) {
	now := time.Now()
	reg := registry.New()
	svc := NewShareService(reg, WithClock(func() time.Time { return now }))

	cases := []CreateInput{
		{Lng: f64(2)},
		{Lat: f64(1)},
		{},
		{Lat: f64(91), Lng: f64(0)},
		{Lat: f64(0), Lng: f64(-181)},
	}
	for _, input := range cases {
		input.BaseURL = "http://x"
		_, err := svc.Create(context.Background(), input)
		require.ErrorIs(t, err, appErr.ErrInvalid)
	}
	require.Equal(t, 0, reg.Len())
}

func TestShareServiceIDCollisionRejected(t *testing.T) {
	reg := registry.New()
	svc := NewShareService(reg, WithIDGenerator(func() string { return "fixed" }))

	_, err := svc.Create(context.Background(), CreateInput{Lat: f64(1), Lng: f64(2), BaseURL: "http://x"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Lat: f64(3), Lng: f64(4), BaseURL: "http://x"})
	require.ErrorIs(t, err, appErr.ErrInternal)

	rec, err := svc.Get(context.Background(), "fixed")
	require.NoError(t, err)
	require.Equal(t, 1.0, rec.Lat)
}

func TestNewShareIDUniqueness(t *testing.T) {
	const n = 100000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewShareID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
