package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
	"github.com/zmarties-lab/storefront-api/internal/core/analytics"
	"github.com/zmarties-lab/storefront-api/internal/core/storage"
)

const (
	// recentWindow bounds the stats view to the newest records; the full
	// log is only walked by the listing endpoints.
	recentWindow = 100

	// topGroups caps the grouped preview on the stats view.
	topGroups = 20

	defaultPage  = 1
	defaultLimit = 50
	maxLimit     = 200
)

// ErrReadFailed marks storage read errors that should return HTTP 500.
var ErrReadFailed = errors.New("failed to read actions")

// Service implements the admin read path over the action log. All views
// are recomputed from stored records on every call; nothing derived is
// persisted.
type Service struct {
	store storage.ActionStore
	nowFn func() time.Time
}

// NewService creates the reporting service.
func NewService(store storage.ActionStore) *Service {
	if store == nil {
		panic("reporting: store must not be nil")
	}
	return &Service{
		store: store,
		nowFn: time.Now,
	}
}

// GetStats assembles the dashboard summary. The five store reads run
// concurrently and are not snapshot-consistent; counts taken milliseconds
// apart may disagree by in-flight writes, which is acceptable for a
// dashboard.
func (s *Service) GetStats(ctx context.Context) (*StatsView, error) {
	startOfDay := s.startOfToday()

	var (
		stats  StatsView
		recent []v1.ActionRecord
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.store.CountDistinctIPs(gctx, v1.ActionCheckout)
		stats.TotalCheckouts = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountDistinctIPs(gctx, v1.ActionBuyNow)
		stats.TotalBuyNows = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountDistinctIPsSince(gctx, v1.ActionCheckout, startOfDay)
		stats.TodayCheckouts = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.CountDistinctIPsSince(gctx, v1.ActionBuyNow, startOfDay)
		stats.TodayBuyNows = n
		return err
	})
	g.Go(func() error {
		records, err := s.store.RecentActions(gctx, recentWindow)
		recent = records
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, readFailedf("load stats: %v", err)
	}

	stats.RecentActionsGrouped = analytics.TakeTop(analytics.GroupByIP(recent), topGroups)

	return &stats, nil
}

// ListGroupedActions returns one page of the grouped view. Grouping runs
// over the entire log so that a group's action count and latest-action
// timestamp are exact regardless of which page it lands on.
func (s *Service) ListGroupedActions(ctx context.Context, page, limit int) (*GroupedActionsResponse, error) {
	page, limit = normalizePaging(page, limit)

	records, err := s.store.ListActions(ctx)
	if err != nil {
		return nil, readFailedf("list actions: %v", err)
	}

	groups := analytics.GroupByIP(records)
	paged := analytics.PageGroups(groups, page, limit)

	return &GroupedActionsResponse{
		ActionsGrouped: paged.Groups,
		TotalCount:     len(records),
		TotalGroups:    paged.TotalGroups,
		TotalPages:     paged.TotalPages,
		CurrentPage:    paged.CurrentPage,
	}, nil
}

// ListActions returns one flat page of raw records, newest first.
// Pagination here addresses records, not groups.
func (s *Service) ListActions(ctx context.Context, page, limit int) (*FlatActionsResponse, error) {
	page, limit = normalizePaging(page, limit)

	total, err := s.store.CountActions(ctx)
	if err != nil {
		return nil, readFailedf("count actions: %v", err)
	}

	records := []v1.ActionRecord{}
	if page >= 1 {
		fetched, err := s.store.ListActionsPage(ctx, (page-1)*limit, limit)
		if err != nil {
			return nil, readFailedf("list actions page: %v", err)
		}
		if fetched != nil {
			records = fetched
		}
	}

	return &FlatActionsResponse{
		Actions:     records,
		TotalCount:  total,
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
	}, nil
}

// startOfToday returns local midnight. "Today" follows the server's
// timezone, so the boundary moves with the deployment's location.
func (s *Service) startOfToday() time.Time {
	now := s.nowFn()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func normalizePaging(page, limit int) (int, int) {
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if page == 0 {
		page = defaultPage
	}
	return page, limit
}

func readFailedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrReadFailed, fmt.Sprintf(format, args...))
}
