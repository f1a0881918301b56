package reporting

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
	"github.com/zmarties-lab/storefront-api/internal/core/storage"
)

func seedRecord(t *testing.T, store *storage.MemoryActionStore, action, ip, country string, createdAt time.Time) {
	t.Helper()

	rec := v1.ActionRecord{
		ID:        fmt.Sprintf("act-%s-%d", ip, createdAt.UnixNano()),
		Action:    action,
		Quantity:  1,
		IPAddress: ip,
		Country:   country,
		CreatedAt: createdAt,
	}
	require.NoError(t, store.SaveAction(context.Background(), &rec))
}

func TestGetStats_DistinctIPCounting(t *testing.T) {
	store := storage.NewMemoryActionStore()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Five checkout records across three distinct addresses. The two
	// address-less records collapse into the one "unknown" value.
	seedRecord(t, store, v1.ActionCheckout, "1.1.1.1", "Germany", base)
	seedRecord(t, store, v1.ActionCheckout, "1.1.1.1", "Germany", base.Add(time.Minute))
	seedRecord(t, store, v1.ActionCheckout, "2.2.2.2", "France", base.Add(2*time.Minute))
	seedRecord(t, store, v1.ActionCheckout, "", "", base.Add(3*time.Minute))
	seedRecord(t, store, v1.ActionCheckout, "", "", base.Add(4*time.Minute))

	seedRecord(t, store, v1.ActionBuyNow, "1.1.1.1", "Germany", base.Add(5*time.Minute))

	svc := NewService(store)
	svc.nowFn = func() time.Time { return base.Add(time.Hour) }

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, stats.TotalCheckouts)
	require.Equal(t, 1, stats.TotalBuyNows)
}

func TestGetStats_TodayBoundary(t *testing.T) {
	store := storage.NewMemoryActionStore()
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	midnight := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	// Exactly midnight counts as today.
	seedRecord(t, store, v1.ActionCheckout, "1.1.1.1", "Germany", midnight)
	// One millisecond before midnight is yesterday.
	seedRecord(t, store, v1.ActionCheckout, "2.2.2.2", "France", midnight.Add(-time.Millisecond))
	seedRecord(t, store, v1.ActionBuyNow, "3.3.3.3", "Spain", now.Add(-time.Hour))

	svc := NewService(store)
	svc.nowFn = func() time.Time { return now }

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, stats.TotalCheckouts)
	require.Equal(t, 1, stats.TodayCheckouts)
	require.Equal(t, 1, stats.TodayBuyNows)
}

func TestGetStats_GroupsRecentRecords(t *testing.T) {
	store := storage.NewMemoryActionStore()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	seedRecord(t, store, v1.ActionCheckout, "1.1.1.1", "Germany", base)
	seedRecord(t, store, v1.ActionBuyNow, "2.2.2.2", "France", base.Add(time.Minute))
	seedRecord(t, store, v1.ActionCheckout, "1.1.1.1", "Germany", base.Add(2*time.Minute))

	svc := NewService(store)
	svc.nowFn = func() time.Time { return base.Add(time.Hour) }

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.RecentActionsGrouped, 2)
	require.Equal(t, "1.1.1.1", stats.RecentActionsGrouped[0].IPAddress)
	require.Equal(t, 2, stats.RecentActionsGrouped[0].ActionCount)
	require.Equal(t, "2.2.2.2", stats.RecentActionsGrouped[1].IPAddress)
}

func TestGetStats_TruncatesToTopGroups(t *testing.T) {
	store := storage.NewMemoryActionStore()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < topGroups+5; i++ {
		ip := fmt.Sprintf("10.0.0.%d", i)
		seedRecord(t, store, v1.ActionCheckout, ip, "", base.Add(time.Duration(i)*time.Second))
	}

	svc := NewService(store)
	svc.nowFn = func() time.Time { return base.Add(time.Hour) }

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.RecentActionsGrouped, topGroups)
	// Most recently active group first.
	require.Equal(t, fmt.Sprintf("10.0.0.%d", topGroups+4), stats.RecentActionsGrouped[0].IPAddress)
}

func TestGetStats_StoreFailure(t *testing.T) {
	store := storage.NewMemoryActionStore()
	store.FailWith(errors.New("connection refused"))

	svc := NewService(store)

	_, err := svc.GetStats(context.Background())
	require.ErrorIs(t, err, ErrReadFailed)
}

func TestListGroupedActions_Pagination(t *testing.T) {
	store := storage.NewMemoryActionStore()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Five groups, seven raw records.
	for i := 0; i < 5; i++ {
		ip := fmt.Sprintf("10.0.0.%d", i)
		seedRecord(t, store, v1.ActionCheckout, ip, "", base.Add(time.Duration(i)*time.Minute))
	}
	seedRecord(t, store, v1.ActionBuyNow, "10.0.0.0", "", base.Add(10*time.Minute))
	seedRecord(t, store, v1.ActionBuyNow, "10.0.0.1", "", base.Add(11*time.Minute))

	svc := NewService(store)

	first, err := svc.ListGroupedActions(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, 7, first.TotalCount)
	require.Equal(t, 5, first.TotalGroups)
	require.Equal(t, 3, first.TotalPages)
	require.Equal(t, 1, first.CurrentPage)
	require.Len(t, first.ActionsGrouped, 2)
	require.Equal(t, "10.0.0.1", first.ActionsGrouped[0].IPAddress)
	require.Equal(t, "10.0.0.0", first.ActionsGrouped[1].IPAddress)

	// Concatenated pages reproduce the full group order exactly once.
	var seen []string
	for page := 1; page <= first.TotalPages; page++ {
		resp, err := svc.ListGroupedActions(context.Background(), page, 2)
		require.NoError(t, err)
		for _, group := range resp.ActionsGrouped {
			seen = append(seen, group.IPAddress)
		}
	}
	require.Equal(t, []string{"10.0.0.1", "10.0.0.0", "10.0.0.4", "10.0.0.3", "10.0.0.2"}, seen)
}

func TestListGroupedActions_PageBeyondRange(t *testing.T) {
	store := storage.NewMemoryActionStore()
	seedRecord(t, store, v1.ActionCheckout, "1.1.1.1", "", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	svc := NewService(store)

	resp, err := svc.ListGroupedActions(context.Background(), 99, 50)
	require.NoError(t, err)
	require.NotNil(t, resp.ActionsGrouped)
	require.Empty(t, resp.ActionsGrouped)
	require.Equal(t, 99, resp.CurrentPage)
	require.Equal(t, 1, resp.TotalPages)
}

func TestListGroupedActions_EmptyLog(t *testing.T) {
	svc := NewService(storage.NewMemoryActionStore())

	resp, err := svc.ListGroupedActions(context.Background(), 1, 50)
	require.NoError(t, err)
	require.NotNil(t, resp.ActionsGrouped)
	require.Empty(t, resp.ActionsGrouped)
	require.Equal(t, 0, resp.TotalCount)
	require.Equal(t, 0, resp.TotalPages)
}

func TestListActions_FlatPagination(t *testing.T) {
	store := storage.NewMemoryActionStore()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		seedRecord(t, store, v1.ActionCheckout, "1.1.1.1", "", base.Add(time.Duration(i)*time.Minute))
	}

	svc := NewService(store)

	resp, err := svc.ListActions(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Equal(t, 5, resp.TotalCount)
	require.Equal(t, 3, resp.TotalPages)
	require.Equal(t, 2, resp.CurrentPage)
	require.Len(t, resp.Actions, 2)
	// Newest first: page 2 of limit 2 holds the third and fourth newest.
	require.Equal(t, base.Add(2*time.Minute), resp.Actions[0].CreatedAt)
	require.Equal(t, base.Add(1*time.Minute), resp.Actions[1].CreatedAt)
}

func TestListActions_LimitClamped(t *testing.T) {
	store := storage.NewMemoryActionStore()
	seedRecord(t, store, v1.ActionCheckout, "1.1.1.1", "", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	svc := NewService(store)

	resp, err := svc.ListActions(context.Background(), 1, maxLimit+500)
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalPages)
}
