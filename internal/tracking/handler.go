package tracking

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	httperr "github.com/zmarties-lab/storefront-api/internal/core/errors"
)

// RegisterRoutes registers the tracking routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/actions", s.RecordHandler)
}

// recordPayload is the JSON body of POST /v1/actions. The client IP is
// never taken from the body; it comes from the connection and the proxy
// headers.
type recordPayload struct {
	Action     string           `json:"action" binding:"required"`
	ProductID  string           `json:"product_id"`
	Quantity   int              `json:"quantity"`
	TotalPrice *decimal.Decimal `json:"total_price"`
}

// RecordHandler handles HTTP POST requests for action tracking.
func (s *Service) RecordHandler(c *gin.Context) {
	var payload recordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		slog.Warn("Invalid tracking body received", "error", err)
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid JSON body",
		})
		return
	}

	if payload.Quantity < 0 {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "quantity must be positive",
		})
		return
	}

	req := RecordRequest{
		Action:     payload.Action,
		ProductID:  payload.ProductID,
		Quantity:   payload.Quantity,
		TotalPrice: payload.TotalPrice,
		IPAddress:  ClientIP(c),
	}

	record, err := s.Record(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrRecordingFailed) {
			c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
				ErrorType: httperr.HttpRecordingFailedError,
				Message:   "Failed to record user action",
			})
			return
		}

		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      record.ID,
	})
}

// ClientIP extracts the client address, preferring the usual proxy
// headers over the socket address, in the same precedence the edge
// configures them. Falls back to the "unknown" sentinel.
func ClientIP(c *gin.Context) string {
	var ip string

	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		// X-Forwarded-For may hold a chain; the first hop is the client.
		ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	} else if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		ip = strings.TrimSpace(realIP)
	} else if cfIP := c.GetHeader("CF-Connecting-IP"); cfIP != "" {
		ip = strings.TrimSpace(cfIP)
	} else {
		ip = c.ClientIP()
	}

	ip = strings.TrimPrefix(ip, "::ffff:")

	if ip == "" {
		return "unknown"
	}
	return ip
}
