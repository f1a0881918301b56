package reporting

import (
	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
	"github.com/zmarties-lab/storefront-api/internal/core/analytics"
)

// StatsView is the dashboard summary. All four counters are distinct-IP
// counts, not raw record counts: one visitor hammering checkout ten times
// still counts once.
type StatsView struct {
	TotalCheckouts int `json:"totalCheckouts"`
	TotalBuyNows   int `json:"totalBuyNows"`
	TodayCheckouts int `json:"todayCheckouts"`
	TodayBuyNows   int `json:"todayBuyNows"`

	// RecentActionsGrouped holds the newest recentWindow records grouped
	// by IP, truncated to the topGroups most recently active groups.
	RecentActionsGrouped []analytics.IPGroup `json:"recentActionsGrouped"`
}

// GroupedActionsResponse is one page of the grouped action listing.
// Pagination addresses groups, not raw records; TotalCount still reports
// raw records so clients can show both numbers.
type GroupedActionsResponse struct {
	ActionsGrouped []analytics.IPGroup `json:"actions_grouped"`
	TotalCount     int                 `json:"total_count"`
	TotalGroups    int                 `json:"total_groups"`
	TotalPages     int                 `json:"total_pages"`
	CurrentPage    int                 `json:"current_page"`
}

// FlatActionsResponse is one page of the ungrouped action log.
type FlatActionsResponse struct {
	Actions     []v1.ActionRecord `json:"actions"`
	TotalCount  int               `json:"total_count"`
	TotalPages  int               `json:"total_pages"`
	CurrentPage int               `json:"current_page"`
}
