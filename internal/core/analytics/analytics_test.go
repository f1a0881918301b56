package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
)

func rec(id, action, ip string, t time.Time) v1.ActionRecord {
	return v1.ActionRecord{
		ID:        id,
		Action:    action,
		Quantity:  1,
		IPAddress: ip,
		CreatedAt: t,
	}
}

// newestFirst mirrors the storage ordering contract: CreatedAt descending,
// earlier-inserted first for equal timestamps.
func newestFirst(records ...v1.ActionRecord) []v1.ActionRecord {
	out := make([]v1.ActionRecord, len(records))
	copy(out, records)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

func TestNormalizeIP(t *testing.T) {
	require.Equal(t, "unknown", NormalizeIP(""))
	require.Equal(t, "203.0.113.7", NormalizeIP("203.0.113.7"))
	// The literal string "unknown" is already the sentinel.
	require.Equal(t, "unknown", NormalizeIP("unknown"))
}

func TestGroupByIP_WorkedExample(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := newestFirst(
		rec("a", v1.ActionCheckout, "1.1.1.1", base.Add(10*time.Second)),
		rec("b", v1.ActionCheckout, "1.1.1.1", base.Add(20*time.Second)),
		rec("c", v1.ActionBuyNow, "2.2.2.2", base.Add(15*time.Second)),
	)

	groups := GroupByIP(records)
	require.Len(t, groups, 2)

	require.Equal(t, "1.1.1.1", groups[0].IPAddress)
	require.Equal(t, 2, groups[0].ActionCount)
	require.Equal(t, base.Add(20*time.Second), groups[0].LatestAction)
	require.Equal(t, "b", groups[0].Actions[0].ID)
	require.Equal(t, "a", groups[0].Actions[1].ID)

	require.Equal(t, "2.2.2.2", groups[1].IPAddress)
	require.Equal(t, 1, groups[1].ActionCount)
	require.Equal(t, base.Add(15*time.Second), groups[1].LatestAction)
}

func TestGroupByIP_LatestActionMatchesFirstRecord(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := newestFirst(
		rec("a", v1.ActionCheckout, "5.5.5.5", base),
		rec("b", v1.ActionBuyNow, "5.5.5.5", base.Add(time.Hour)),
	)

	groups := GroupByIP(records)
	require.Len(t, groups, 1)
	require.Equal(t, groups[0].Actions[0].CreatedAt, groups[0].LatestAction)
}

func TestGroupByIP_CountryFromMostRecentRecord(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	older := rec("a", v1.ActionCheckout, "5.5.5.5", base)
	older.Country = "France"
	newer := rec("b", v1.ActionBuyNow, "5.5.5.5", base.Add(time.Minute))
	newer.Country = "Belgium"

	groups := GroupByIP(newestFirst(older, newer))
	require.Len(t, groups, 1)
	require.Equal(t, "Belgium", groups[0].Country)
}

func TestGroupByIP_UnknownSentinelIsDistinct(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := newestFirst(
		rec("a", v1.ActionCheckout, "", base.Add(3*time.Second)),
		rec("b", v1.ActionCheckout, "", base.Add(2*time.Second)),
		rec("c", v1.ActionCheckout, "9.9.9.9", base.Add(time.Second)),
	)

	groups := GroupByIP(records)
	require.Len(t, groups, 2)
	require.Equal(t, "unknown", groups[0].IPAddress)
	require.Equal(t, 2, groups[0].ActionCount)
	require.Equal(t, "9.9.9.9", groups[1].IPAddress)
}

func TestGroupByIP_Deterministic(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// Two groups with identical latest timestamps: order must follow first
	// appearance in the input, and repeated runs must agree exactly.
	records := []v1.ActionRecord{
		rec("a", v1.ActionCheckout, "1.1.1.1", base.Add(time.Minute)),
		rec("b", v1.ActionBuyNow, "2.2.2.2", base.Add(time.Minute)),
		rec("c", v1.ActionCheckout, "2.2.2.2", base),
		rec("d", v1.ActionCheckout, "1.1.1.1", base),
	}

	first := GroupByIP(records)
	second := GroupByIP(records)

	require.Equal(t, first, second)
	require.Equal(t, "1.1.1.1", first[0].IPAddress)
	require.Equal(t, "2.2.2.2", first[1].IPAddress)
	for _, g := range first {
		for i := 1; i < len(g.Actions); i++ {
			require.False(t, g.Actions[i].CreatedAt.After(g.Actions[i-1].CreatedAt))
		}
	}
}

func TestDistinctIPs(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	records := []v1.ActionRecord{
		rec("a", v1.ActionCheckout, "1.1.1.1", base),
		rec("b", v1.ActionCheckout, "1.1.1.1", base.Add(time.Second)),
		rec("c", v1.ActionCheckout, "", base.Add(2*time.Second)),
		rec("d", v1.ActionCheckout, "", base.Add(3*time.Second)),
		rec("e", v1.ActionCheckout, "2.2.2.2", base.Add(4*time.Second)),
	}

	// 5 records, 3 distinct values: 1.1.1.1, unknown, 2.2.2.2.
	require.Equal(t, 3, DistinctIPs(records))
	require.Equal(t, 0, DistinctIPs(nil))
}

func TestTakeRecent(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	records := newestFirst(
		rec("a", v1.ActionCheckout, "1.1.1.1", base),
		rec("b", v1.ActionCheckout, "1.1.1.1", base.Add(time.Second)),
		rec("c", v1.ActionCheckout, "1.1.1.1", base.Add(2*time.Second)),
	)

	require.Len(t, TakeRecent(records, 2), 2)
	require.Equal(t, "c", TakeRecent(records, 2)[0].ID)
	require.Len(t, TakeRecent(records, 10), 3)
	require.Len(t, TakeRecent(records, 0), 0)
}

func TestPageGroups(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	var records []v1.ActionRecord
	for i := 0; i < 7; i++ {
		records = append(records, rec(
			string(rune('a'+i)),
			v1.ActionCheckout,
			// 7 distinct addresses, newest first.
			"10.0.0."+string(rune('1'+i)),
			base.Add(-time.Duration(i)*time.Minute),
		))
	}
	groups := GroupByIP(records)
	require.Len(t, groups, 7)

	tests := []struct {
		name       string
		page       int
		limit      int
		wantLen    int
		wantPages  int
		wantFirst  string
		emptyGroup bool
	}{
		{name: "first page", page: 1, limit: 3, wantLen: 3, wantPages: 3, wantFirst: groups[0].IPAddress},
		{name: "middle page", page: 2, limit: 3, wantLen: 3, wantPages: 3, wantFirst: groups[3].IPAddress},
		{name: "last partial page", page: 3, limit: 3, wantLen: 1, wantPages: 3, wantFirst: groups[6].IPAddress},
		{name: "page beyond range", page: 4, limit: 3, wantPages: 3, emptyGroup: true},
		{name: "zero page", page: 0, limit: 3, wantPages: 3, emptyGroup: true},
		{name: "exact division", page: 1, limit: 7, wantLen: 7, wantPages: 1, wantFirst: groups[0].IPAddress},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page := PageGroups(groups, tc.page, tc.limit)
			require.Equal(t, 7, page.TotalGroups)
			require.Equal(t, tc.wantPages, page.TotalPages)
			require.Equal(t, tc.page, page.CurrentPage)

			if tc.emptyGroup {
				require.NotNil(t, page.Groups)
				require.Empty(t, page.Groups)
				return
			}

			require.Len(t, page.Groups, tc.wantLen)
			require.Equal(t, tc.wantFirst, page.Groups[0].IPAddress)
		})
	}
}

// Concatenating all pages in order must reproduce the full sorted group
// list exactly once each.
func TestPageGroups_PagesCoverAllGroupsOnce(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	var records []v1.ActionRecord
	for i := 0; i < 10; i++ {
		records = append(records, rec(
			string(rune('a'+i)),
			v1.ActionBuyNow,
			"198.51.100."+string(rune('1'+i)),
			base.Add(-time.Duration(i)*time.Second),
		))
	}
	groups := GroupByIP(records)

	const limit = 3
	var joined []IPGroup
	full := PageGroups(groups, 1, limit)
	for p := 1; p <= full.TotalPages; p++ {
		joined = append(joined, PageGroups(groups, p, limit).Groups...)
	}

	require.Equal(t, groups, joined)
}
