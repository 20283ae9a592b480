package render

import (
	"fmt"
	"io"
	"strings"
)

// Console is a Surface that writes marker state to a writer, for the CLI
// feed command.
type Console struct {
	out     io.Writer
	nextRef MarkerRef
	live    map[MarkerRef]Marker
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out, live: make(map[MarkerRef]Marker)}
}

func (c *Console) AddMarker(m Marker) MarkerRef {
	c.nextRef++
	c.live[c.nextRef] = m
	fmt.Fprintf(c.out, "marker %s\n", strings.ReplaceAll(m.Popup, "\n", " | "))
	return c.nextRef
}

func (c *Console) RemoveMarker(ref MarkerRef) {
	delete(c.live, ref)
}

func (c *Console) SetView(lat, lng float64, zoom int) {
	fmt.Fprintf(c.out, "view %.5f,%.5f @%d\n", lat, lng, zoom)
}

func (c *Console) FitBounds(b Bounds) {
	fmt.Fprintf(c.out, "bounds %.5f,%.5f .. %.5f,%.5f\n", b.MinLat, b.MinLng, b.MaxLat, b.MaxLng)
}
