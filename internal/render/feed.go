package render

import (
	"context"
	"fmt"
	"math"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/locshare/internal/model"
	"github.com/xxxsen/locshare/internal/pkg/timeutil"
)

const centerZoom = 15

// Feed reconciles the durable location list onto a surface by replacing the
// whole marker layer each time, so rendering the same list twice leaves the
// same markers, not duplicates.
type Feed struct {
	surface Surface
	markers []MarkerRef
}

func NewFeed(surface Surface) *Feed {
	return &Feed{surface: surface}
}

type ReconcileOptions struct {
	// CenterLatest centers on the first record; callers pass newest-first
	// lists so that is the most recent entry.
	CenterLatest bool
}

// Reconcile replaces the rendered set with the given records. Records with
// unusable coordinates are skipped, not errors; the view centers on the
// latest entry or fits all rendered markers.
func (f *Feed) Reconcile(ctx context.Context, records []model.Location, opts ReconcileOptions) {
	for _, ref := range f.markers {
		f.surface.RemoveMarker(ref)
	}
	f.markers = f.markers[:0]

	var rendered []model.Location
	for _, rec := range records {
		if !usableCoords(rec.Lat, rec.Lng) {
			logutil.GetLogger(ctx).Debug("skipping record with unusable coordinates", zap.String("id", rec.ID))
			continue
		}
		ref := f.surface.AddMarker(Marker{
			Lat:   rec.Lat,
			Lng:   rec.Lng,
			Popup: popupText(rec),
		})
		f.markers = append(f.markers, ref)
		rendered = append(rendered, rec)
	}

	if len(rendered) == 0 {
		return
	}
	if opts.CenterLatest {
		f.surface.SetView(rendered[0].Lat, rendered[0].Lng, centerZoom)
		return
	}
	if len(rendered) > 1 {
		f.surface.FitBounds(boundsOf(rendered))
	}
}

func popupText(rec model.Location) string {
	text := fmt.Sprintf("%s (%s)\n%.5f, %.5f", rec.ID, rec.Owner, rec.Lat, rec.Lng)
	if rec.Accuracy != nil {
		text += fmt.Sprintf("\n±%.0fm", *rec.Accuracy)
	}
	return text + "\n" + timeutil.FromMillis(rec.CreatedAt).Format("2006-01-02 15:04:05")
}

func usableCoords(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func boundsOf(records []model.Location) Bounds {
	b := Bounds{
		MinLat: records[0].Lat, MaxLat: records[0].Lat,
		MinLng: records[0].Lng, MaxLng: records[0].Lng,
	}
	for _, rec := range records[1:] {
		b.MinLat = math.Min(b.MinLat, rec.Lat)
		b.MaxLat = math.Max(b.MaxLat, rec.Lat)
		b.MinLng = math.Min(b.MinLng, rec.Lng)
		b.MaxLng = math.Max(b.MaxLng, rec.Lng)
	}
	return b
}
