package render

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/locshare/internal/model"
)

type fakeSurface struct {
	nextRef   MarkerRef
	live      map[MarkerRef]Marker
	view      *[3]float64
	bounds    *Bounds
	setViews  int
	fitCalls  int
	addCalls  int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{live: make(map[MarkerRef]Marker)}
}

func (f *fakeSurface) AddMarker(m Marker) MarkerRef {
	f.nextRef++
	f.addCalls++
	f.live[f.nextRef] = m
	return f.nextRef
}

func (f *fakeSurface) RemoveMarker(ref MarkerRef) {
	delete(f.live, ref)
}

func (f *fakeSurface) SetView(lat, lng float64, zoom int) {
	f.setViews++
	f.view = &[3]float64{lat, lng, float64(zoom)}
}

func (f *fakeSurface) FitBounds(b Bounds) {
	f.fitCalls++
	f.bounds = &b
}

func loc(id string, lat, lng float64) model.Location {
	return model.Location{ID: id, Owner: "user-1", Lat: lat, Lng: lng, CreatedAt: 1700000000000}
}

func TestFeedReconcileReplaceAll(t *testing.T) {
	surface := newFakeSurface()
	feed := NewFeed(surface)

	feed.Reconcile(context.Background(), []model.Location{loc("a", 1, 1), loc("b", 2, 2)}, ReconcileOptions{})
	require.Len(t, surface.live, 2)

	feed.Reconcile(context.Background(), []model.Location{loc("c", 3, 3)}, ReconcileOptions{})
	require.Len(t, surface.live, 1)
	for _, m := range surface.live {
		require.Equal(t, 3.0, m.Lat)
	}
}

func TestFeedReconcileIdempotent(t *testing.T) {
	surface := newFakeSurface()
	feed := NewFeed(surface)
	records := []model.Location{loc("a", 1, 1), loc("b", 2, 2)}

	feed.Reconcile(context.Background(), records, ReconcileOptions{})
	feed.Reconcile(context.Background(), records, ReconcileOptions{})
	require.Len(t, surface.live, 2)
}

func TestFeedReconcileSkipsInvalidCoords(t *testing.T) {
	surface := newFakeSurface()
	feed := NewFeed(surface)

	feed.Reconcile(context.Background(), []model.Location{
		loc("ok", 1, 1),
		loc("nan", math.NaN(), 1),
		loc("range", 91, 0),
		loc("inf", 0, math.Inf(1)),
	}, ReconcileOptions{})
	require.Len(t, surface.live, 1)
}

func TestFeedReconcileCenterLatest(t *testing.T) {
	surface := newFakeSurface()
	feed := NewFeed(surface)

	feed.Reconcile(context.Background(), []model.Location{loc("newest", 5, 6), loc("older", 1, 1)}, ReconcileOptions{CenterLatest: true})
	require.Equal(t, 1, surface.setViews)
	require.Equal(t, 0, surface.fitCalls)
	require.Equal(t, [3]float64{5, 6, centerZoom}, *surface.view)
}

func TestFeedReconcileFitsBoundsForMultiple(t *testing.T) {
	surface := newFakeSurface()
	feed := NewFeed(surface)

	feed.Reconcile(context.Background(), []model.Location{loc("a", -1, -2), loc("b", 3, 4)}, ReconcileOptions{})
	require.Equal(t, 1, surface.fitCalls)
	require.Equal(t, Bounds{MinLat: -1, MinLng: -2, MaxLat: 3, MaxLng: 4}, *surface.bounds)

	// a single rendered marker moves nothing
	surface2 := newFakeSurface()
	feed2 := NewFeed(surface2)
	feed2.Reconcile(context.Background(), []model.Location{loc("a", 1, 1)}, ReconcileOptions{})
	require.Equal(t, 0, surface2.fitCalls)
	require.Equal(t, 0, surface2.setViews)
}

func TestFeedReconcileEmptyList(t *testing.T) {
	surface := newFakeSurface()
	feed := NewFeed(surface)

	feed.Reconcile(context.Background(), []model.Location{loc("a", 1, 1)}, ReconcileOptions{})
	feed.Reconcile(context.Background(), nil, ReconcileOptions{CenterLatest: true})
	require.Empty(t, surface.live)
	require.Equal(t, 0, surface.setViews)
}

func TestPopupIncludesAccuracy(t *testing.T) {
	acc := 12.0
	rec := loc("a", 1.23456789, 2.3456789)
	rec.Accuracy = &acc
	text := popupText(rec)
	require.Contains(t, text, "1.23457, 2.34568")
	require.Contains(t, text, "±12m")
	require.Contains(t, text, "user-1")
}
