package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/xxxsen/locshare/internal/model"
	appErr "github.com/xxxsen/locshare/internal/pkg/errors"
)

// API talks to the share service's JSON surface.
type API struct {
	base   string
	client *http.Client
}

func NewAPI(base string, client *http.Client) *API {
	if client == nil {
		client = http.DefaultClient
	}
	return &API{base: strings.TrimSuffix(base, "/"), client: client}
}

type CreateShareRequest struct {
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Label      string   `json:"label,omitempty"`
	TTLMinutes *float64 `json:"ttlMinutes,omitempty"`
}

type CreateShareResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	ExpiresAt *int64 `json:"expiresAt"`
}

func (a *API) CreateShare(ctx context.Context, req CreateShareRequest) (*CreateShareResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/api/share", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("create share: %s", readError(resp))
	}
	var out CreateShareResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) GetShare(ctx context.Context, id string) (*model.ShareRecord, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+"/api/share/"+id, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, appErr.ErrNotFound
	case http.StatusGone:
		return nil, appErr.ErrExpired
	default:
		return nil, fmt.Errorf("get share: %s", readError(resp))
	}
	var rec model.ShareRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func readError(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return resp.Status
}
