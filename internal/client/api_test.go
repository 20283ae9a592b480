package client_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/locshare/internal/client"
	"github.com/xxxsen/locshare/internal/handler"
	appErr "github.com/xxxsen/locshare/internal/pkg/errors"
	"github.com/xxxsen/locshare/internal/registry"
	"github.com/xxxsen/locshare/internal/service"
)

func newTestServer(t *testing.T, now *time.Time) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clock := func() time.Time { return *now }
	reg := registry.New(registry.WithClock(clock))
	shares := service.NewShareService(reg, service.WithClock(clock))
	router := handler.NewRouter(handler.RouterDeps{
		Shares: handler.NewShareHandler(shares, ""),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestAPIRoundTrip(t *testing.T) {
	base := time.Now()
	now := base
	srv := newTestServer(t, &now)
	api := client.NewAPI(srv.URL, srv.Client())

	ttl := 1.0
	created, err := api.CreateShare(context.Background(), client.CreateShareRequest{
		Lat: -6.2, Lng: 106.8, Label: "Jakarta", TTLMinutes: &ttl,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, srv.URL+"/share/"+created.ID, created.URL)

	rec, err := api.GetShare(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Jakarta", rec.Label)

	now = base.Add(2 * time.Minute)
	_, err = api.GetShare(context.Background(), created.ID)
	require.ErrorIs(t, err, appErr.ErrExpired)

	_, err = api.GetShare(context.Background(), created.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestAPICreateShareRejectsServerError(t *testing.T) {
	now := time.Now()
	srv := newTestServer(t, &now)
	api := client.NewAPI(srv.URL, srv.Client())

	_, err := api.CreateShare(context.Background(), client.CreateShareRequest{Lat: 91, Lng: 0})
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of range")
}
