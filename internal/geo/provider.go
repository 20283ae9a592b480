package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultAcquireTimeout bounds how long a share attempt waits for a position.
const DefaultAcquireTimeout = 10 * time.Second

type Position struct {
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
	Accuracy         *float64 `json:"accuracy,omitempty"`
	Altitude         *float64 `json:"altitude,omitempty"`
	AltitudeAccuracy *float64 `json:"altitudeAccuracy,omitempty"`
}

// Provider yields the current position or an error with a message fit to show
// the user verbatim.
type Provider interface {
	Current(ctx context.Context) (*Position, error)
}

// Acquire wraps a provider call with the wait ceiling. Past the ceiling the
// attempt fails; there is no automatic retry.
func Acquire(ctx context.Context, p Provider, timeout time.Duration) (*Position, error) {
	if timeout <= 0 {
		timeout = DefaultAcquireTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pos, err := p.Current(ctx)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("geolocation timed out after %s", timeout)
		}
		return nil, fmt.Errorf("geolocation failed: %w", err)
	}
	return pos, nil
}

// Static returns a fixed position, for callers that already know where they
// are (explicit CLI coordinates, tests).
type Static struct {
	Position Position
}

func (s Static) Current(ctx context.Context) (*Position, error) {
	pos := s.Position
	return &pos, nil
}

// HTTPProvider resolves a coarse position from a JSON geolocation endpoint
// (ip-api style: {"lat": ..., "lon": ...}).
type HTTPProvider struct {
	Endpoint string
	Client   *http.Client
}

func (p *HTTPProvider) Current(ctx context.Context) (*Position, error) {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation endpoint answered %d", resp.StatusCode)
	}
	var payload struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &Position{Lat: payload.Lat, Lng: payload.Lon}, nil
}
