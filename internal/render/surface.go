package render

// MarkerRef identifies a rendered marker so it can be removed later.
type MarkerRef int

type Marker struct {
	Lat   float64
	Lng   float64
	Popup string
}

type Bounds struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
}

// Surface is the map the feed draws on. Implementations own the actual
// rendering primitives; the feed only adds, removes and moves the viewport.
type Surface interface {
	AddMarker(m Marker) MarkerRef
	RemoveMarker(ref MarkerRef)
	SetView(lat, lng float64, zoom int)
	FitBounds(b Bounds)
}
