// Package analytics contains the pure data-shaping core of the user-action
// reporting path: IP normalization, grouping, distinct counting, and
// pagination over groups. Everything here is a deterministic function of
// its input; nothing reads the clock or touches storage.
package analytics

import (
	"sort"
	"time"

	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
)

// IPGroup is the derived, read-time aggregation of records sharing an IP.
// Groups are recomputed on every read and have no persistence or identity.
type IPGroup struct {
	// IPAddress is the normalized group key. The UnknownIP sentinel is a
	// legitimate key, distinct from any literal address.
	IPAddress string `json:"ip_address"`

	// Country is taken from the most recent record in the group. Records
	// with diverging countries under one IP are not merged or recomputed;
	// the newest one wins.
	Country string `json:"country,omitempty"`

	// ActionCount is the number of records in the group.
	ActionCount int `json:"action_count"`

	// Actions holds the group's records, newest first.
	Actions []v1.ActionRecord `json:"actions"`

	// LatestAction equals Actions[0].CreatedAt.
	LatestAction time.Time `json:"latest_action"`
}

// NormalizeIP maps an absent client address to the UnknownIP sentinel.
// Grouping by IP is an approximation of "unique user" (NAT, shared and
// dynamic addresses collapse); that is documented behavior, not a bug.
func NormalizeIP(ip string) string {
	if ip == "" {
		return v1.UnknownIP
	}
	return ip
}

// GroupByIP buckets records by normalized IP address.
//
// The input must already be ordered newest-first (CreatedAt descending,
// insertion order for equal timestamps); storage delivers it that way.
// Group order is LatestAction descending. Because the newest record of
// each group is encountered first, first-appearance order already matches
// that; the stable sort only reorders nothing and keeps equal-timestamp
// groups in first-appearance order.
func GroupByIP(records []v1.ActionRecord) []IPGroup {
	byIP := make(map[string]int, len(records))
	groups := make([]IPGroup, 0, len(records))

	for _, rec := range records {
		key := NormalizeIP(rec.IPAddress)

		idx, ok := byIP[key]
		if !ok {
			byIP[key] = len(groups)
			groups = append(groups, IPGroup{
				IPAddress:    key,
				Country:      rec.Country,
				ActionCount:  1,
				Actions:      []v1.ActionRecord{rec},
				LatestAction: rec.CreatedAt,
			})
			continue
		}

		groups[idx].Actions = append(groups[idx].Actions, rec)
		groups[idx].ActionCount++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].LatestAction.After(groups[j].LatestAction)
	})

	return groups
}

// DistinctIPs counts unique normalized IP values across records.
// All records without an address collapse into the one UnknownIP value.
func DistinctIPs(records []v1.ActionRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		seen[NormalizeIP(rec.IPAddress)] = struct{}{}
	}
	return len(seen)
}

// TakeRecent returns the first n records of a newest-first slice.
// Returns the input unchanged when it is already short enough.
func TakeRecent(records []v1.ActionRecord, n int) []v1.ActionRecord {
	if n < 0 {
		n = 0
	}
	if len(records) <= n {
		return records
	}
	return records[:n]
}

// TakeTop returns the first n groups of an already-sorted group list.
func TakeTop(groups []IPGroup, n int) []IPGroup {
	if n < 0 {
		n = 0
	}
	if len(groups) <= n {
		return groups
	}
	return groups[:n]
}

// GroupPage is one page of a paginated group listing.
type GroupPage struct {
	// Groups is the page slice. Empty (never nil) when page lies beyond
	// the last page; an out-of-range page is a normal empty result, not
	// an error.
	Groups []IPGroup

	// TotalGroups is the number of distinct IP values in the full input.
	TotalGroups int

	// TotalPages is ceil(TotalGroups / limit).
	TotalPages int

	// CurrentPage echoes the requested page, unclamped.
	CurrentPage int
}

// PageGroups paginates over groups, not raw records. page is 1-indexed.
func PageGroups(groups []IPGroup, page, limit int) GroupPage {
	if limit < 1 {
		limit = 1
	}

	totalPages := (len(groups) + limit - 1) / limit

	result := GroupPage{
		Groups:      []IPGroup{},
		TotalGroups: len(groups),
		TotalPages:  totalPages,
		CurrentPage: page,
	}

	if page < 1 {
		return result
	}

	start := (page - 1) * limit
	if start >= len(groups) {
		return result
	}

	end := start + limit
	if end > len(groups) {
		end = len(groups)
	}

	result.Groups = groups[start:end]
	return result
}
