// Package tracking implements the user-action write path: a checkout or
// buy-now event arrives over HTTP, gets its country resolved once, and is
// appended to the immutable action log.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
	"github.com/zmarties-lab/storefront-api/internal/core/storage"
	"github.com/zmarties-lab/storefront-api/internal/geo"
)

// ErrRecordingFailed is returned when the action log write fails. The
// operation is all-or-nothing: no partial persistence, no retry.
var ErrRecordingFailed = errors.New("failed to record user action")

const geoResolveTimeout = 5 * time.Second

// StalenessMarker is notified after every successful write so cached
// admin-dashboard views can be refreshed.
type StalenessMarker interface {
	MarkStatsStale()
}

// NopStalenessMarker satisfies StalenessMarker when no dashboard cache
// exists; the reporting layer recomputes on every read anyway.
type NopStalenessMarker struct{}

func (NopStalenessMarker) MarkStatsStale() {}

// RecordRequest is the typed, boundary-validated form of one tracking
// call. Handlers construct it from the HTTP payload; nothing downstream
// parses dynamic fields.
type RecordRequest struct {
	Action     string
	ProductID  string
	Quantity   int
	TotalPrice *decimal.Decimal
	IPAddress  string
}

// Service records user actions.
type Service struct {
	store     storage.ActionStore
	resolver  geo.Resolver
	staleness StalenessMarker
	nowFn     func() time.Time
	idFn      func() string
}

// NewService wires the recorder's dependencies.
func NewService(store storage.ActionStore, resolver geo.Resolver, staleness StalenessMarker) *Service {
	if store == nil {
		panic("tracking: store must not be nil")
	}
	if resolver == nil {
		panic("tracking: resolver must not be nil")
	}
	if staleness == nil {
		staleness = NopStalenessMarker{}
	}
	return &Service{
		store:     store,
		resolver:  resolver,
		staleness: staleness,
		nowFn:     time.Now,
		idFn:      func() string { return uuid.New().String() },
	}
}

// Record validates the request, resolves the country once, and appends a
// record. Geolocation failure degrades to an empty country; the write
// still succeeds. A persistence failure returns ErrRecordingFailed.
func (s *Service) Record(ctx context.Context, req RecordRequest) (*v1.ActionRecord, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	record := &v1.ActionRecord{
		ID:         s.idFn(),
		Action:     req.Action,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		TotalPrice: req.TotalPrice,
		IPAddress:  req.IPAddress,
		CreatedAt:  s.nowFn(),
	}

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("invalid action record: %w", err)
	}

	// Country is resolved exactly once, here. The stored value is frozen;
	// later lookups for the same address never rewrite it.
	record.Country = s.resolveCountry(ctx, record.IPAddress)

	if err := s.store.SaveAction(ctx, record); err != nil {
		slog.Error("Failed to persist user action", "error", err, "action", record.Action)
		return nil, fmt.Errorf("%w: %v", ErrRecordingFailed, err)
	}

	slog.Info("Recorded user action",
		"action_id", record.ID,
		"action", record.Action,
		"quantity", record.Quantity,
		"ip", record.IPAddress,
		"country", record.Country)

	s.staleness.MarkStatsStale()

	return record, nil
}

func (s *Service) resolveCountry(ctx context.Context, ip string) string {
	if ip == "" || ip == v1.UnknownIP {
		return ""
	}

	resolveCtx, cancel := context.WithTimeout(ctx, geoResolveTimeout)
	defer cancel()

	country, err := s.resolver.Resolve(resolveCtx, ip)
	if err != nil {
		// Degraded condition, never a failure of the write.
		slog.Warn("Geolocation unavailable", "ip", ip, "error", err)
		return ""
	}
	return country
}
