package reporting

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httperr "github.com/zmarties-lab/storefront-api/internal/core/errors"
)

// RegisterRoutes registers the admin read endpoints on the given router.
// Callers are expected to wrap r with the auth middleware.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/stats", s.StatsHandler)

	// Canonical listing: grouped by IP.
	r.GET("/actions", s.GroupedActionsHandler)

	// Flat record listing for exports and debugging.
	r.GET("/actions/flat", s.FlatActionsHandler)
}

// StatsHandler handles GET /v1/admin/stats.
func (s *Service) StatsHandler(c *gin.Context) {
	stats, err := s.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpReadFailedError,
			Message:   "Failed to load stats",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GroupedActionsHandler handles GET /v1/admin/actions.
// Query parameters: page, limit (both optional).
func (s *Service) GroupedActionsHandler(c *gin.Context) {
	page, limit := pagingParams(c)

	resp, err := s.ListGroupedActions(c.Request.Context(), page, limit)
	if err != nil {
		s.writeReadError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FlatActionsHandler handles GET /v1/admin/actions/flat.
func (s *Service) FlatActionsHandler(c *gin.Context) {
	page, limit := pagingParams(c)

	resp, err := s.ListActions(c.Request.Context(), page, limit)
	if err != nil {
		s.writeReadError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Service) writeReadError(c *gin.Context, err error) {
	if errors.Is(err, ErrReadFailed) {
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpReadFailedError,
			Message:   "Failed to read actions",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   "Internal error",
		Details:   err.Error(),
	})
}

// pagingParams reads page and limit from the query string. Unparseable
// values fall back to the defaults rather than erroring; out-of-range
// pages surface as empty results downstream.
func pagingParams(c *gin.Context) (int, int) {
	page := defaultPage
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	return page, limit
}
