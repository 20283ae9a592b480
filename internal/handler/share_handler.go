package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/locshare/internal/pkg/response"
	"github.com/xxxsen/locshare/internal/service"
)

type ShareHandler struct {
	shares *service.ShareService
	// baseURL overrides request-derived addresses when the deployment sits
	// behind a proxy that hides the public host.
	baseURL string
}

func NewShareHandler(shares *service.ShareService, baseURL string) *ShareHandler {
	return &ShareHandler{shares: shares, baseURL: baseURL}
}

type createShareRequest struct {
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Label      string   `json:"label"`
	TTLMinutes *float64 `json:"ttlMinutes"`
}

func (h *ShareHandler) Create(c *gin.Context) {
	var req createShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, service.MsgCoordsNotNumbers)
		return
	}
	res, err := h.shares.Create(c.Request.Context(), service.CreateInput{
		Lat:        req.Lat,
		Lng:        req.Lng,
		Label:      req.Label,
		TTLMinutes: req.TTLMinutes,
		BaseURL:    h.base(c),
	})
	if err != nil {
		handleShareError(c, err)
		return
	}
	response.JSON(c, res)
}

func (h *ShareHandler) Get(c *gin.Context) {
	rec, err := h.shares.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleShareError(c, err)
		return
	}
	response.JSON(c, rec)
}

func (h *ShareHandler) base(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
