package v1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Supported user actions. The storefront only distinguishes two funnel
// events: a cart checkout submission and a direct buy-now click.
const (
	ActionCheckout = "checkout"
	ActionBuyNow   = "buy_now"
)

// UnknownIP is the sentinel group key used when a request carried no
// resolvable client address. It participates in distinct-IP counting as
// one ordinary value.
const UnknownIP = "unknown"

// ActionRecord is one immutable entry in the user-action log.
// Records are append-only: nothing in the system updates or deletes them
// after creation.
type ActionRecord struct {
	// ID is the unique identifier, assigned by the server at creation.
	ID string `json:"id"`

	// Action is either ActionCheckout or ActionBuyNow.
	Action string `json:"action"`

	// ProductID optionally references the product involved. Existence is
	// not enforced; the analytics path never joins against the catalog.
	ProductID string `json:"product_id,omitempty"`

	// Quantity is the number of items involved. Always >= 1.
	Quantity int `json:"quantity"`

	// TotalPrice is the order total at the time of the action, if known.
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`

	// IPAddress is the client address as observed at the edge. Empty when
	// the address could not be determined; readers normalize that to the
	// UnknownIP sentinel.
	IPAddress string `json:"ip_address,omitempty"`

	// Country is resolved from IPAddress exactly once, when the record is
	// created. It is frozen thereafter and never re-resolved, even if a
	// later lookup for the same address would return something else.
	Country string `json:"country,omitempty"`

	// CreatedAt is the server-assigned timestamp. It is the sole ordering
	// key for "latest" determination.
	CreatedAt time.Time `json:"created_at"`

	// Seq is a monotonic sequence assigned by the database (BIGSERIAL).
	// It breaks ties between records with identical CreatedAt: on
	// descending reads, the earlier-inserted record sorts first.
	// Not exposed in the public API.
	Seq int64 `json:"-"`
}

// ValidAction reports whether s is a recognized action name.
func ValidAction(s string) bool {
	return s == ActionCheckout || s == ActionBuyNow
}

// Validate ensures the record satisfies the append-only log's invariants.
func (r *ActionRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}

	if !ValidAction(r.Action) {
		return fmt.Errorf("invalid action %q (must be %s or %s)", r.Action, ActionCheckout, ActionBuyNow)
	}

	if r.Quantity < 1 {
		return fmt.Errorf("quantity must be >= 1, got %d", r.Quantity)
	}

	if r.TotalPrice != nil && r.TotalPrice.IsNegative() {
		return fmt.Errorf("total_price must not be negative, got %s", r.TotalPrice)
	}

	if r.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is required")
	}

	return nil
}
