package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/xxxsen/locshare/internal/pkg/errors"
	"github.com/xxxsen/locshare/internal/pkg/response"
)

// handleShareError maps service errors to the wire format the shell expects.
// Expired and NotFound are both absence; 410 vs 404 is the only place the
// distinction survives, and only on the read that evicted the record.
func handleShareError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case appErr.IsExpired(err):
		response.Error(c, http.StatusGone, "Expired")
	case appErr.IsNotFound(err):
		response.Error(c, http.StatusNotFound, "Not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, invalidMessage(err))
	default:
		requestID, _ := c.Get("request_id")
		logutil.GetLogger(c.Request.Context()).Error("request failed",
			zap.Any("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "internal error")
	}
}

// invalidMessage strips the sentinel prefix so clients see only the
// human-readable part of a validation error.
func invalidMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), appErr.ErrInvalid.Error()+": ")
	if msg == "" {
		return "invalid request"
	}
	return msg
}
