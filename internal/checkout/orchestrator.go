// Package checkout turns a non-empty cart into an immutable order: it
// validates the shipping input, snapshots the cart lines and totals, assigns
// the order identifier and hands the order to the order book and the ledger
// in an all-or-nothing fashion.
package checkout

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tradeport/internal/domain"
	"tradeport/internal/tracking"
)

type cartLedger interface {
	Items() []domain.CartItem
	Summary() domain.OrderTotals
	CommitCheckout(ctx context.Context, order domain.Order) error
}

type orderBook interface {
	Append(ctx context.Context, order domain.Order) error
	Delete(ctx context.Context, id string) error
}

// Notifier is told about successfully placed orders. Delivery is
// best-effort; failures never fail the checkout.
type Notifier interface {
	OrderPlaced(ctx context.Context, email string, order domain.Order) error
}

// Input is one checkout request. The idempotency key guards against
// double-submission: a repeated non-empty key returns the order created the
// first time instead of a duplicate.
type Input struct {
	Owner           string
	Email           string
	ShippingAddress domain.Address
	PaymentMethod   string
	IdempotencyKey  string
}

// maxAcceptedKeys bounds the idempotency window. Keys are evicted oldest
// first; a duplicate submit arriving after eviction creates a fresh order,
// which matches the guarantees of a restart.
const maxAcceptedKeys = 1024

type Orchestrator struct {
	book     orderBook
	notify   Notifier
	logger   *log.Logger
	now      func() time.Time
	mu       sync.Mutex
	accepted map[string]domain.Order
	keyOrder []string
}

func New(book orderBook, notify Notifier, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		book:     book,
		notify:   notify,
		logger:   logger,
		now:      time.Now,
		accepted: make(map[string]domain.Order),
	}
}

// Checkout creates an order from the ledger's current cart. On any failure
// the cart is left untouched and no order exists afterwards.
func (o *Orchestrator) Checkout(ctx context.Context, ledger cartLedger, in Input) (domain.Order, error) {
	if key := o.dedupeKey(in); key != "" {
		o.mu.Lock()
		prior, ok := o.accepted[key]
		o.mu.Unlock()
		if ok {
			return prior, nil
		}
	}

	items := ledger.Items()
	if len(items) == 0 {
		return domain.Order{}, domain.Invalid("cart is empty")
	}
	if strings.TrimSpace(in.ShippingAddress.Street) == "" {
		return domain.Order{}, domain.Invalid("shipping street is required")
	}

	now := o.now().UTC()
	order := domain.Order{
		ID:              newOrderID(now),
		Owner:           in.Owner,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		Totals:          ledger.Summary(),
		Status:          string(tracking.StatusProcessing),
		CreatedAt:       now,
	}

	if err := o.book.Append(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("record order: %w", err)
	}
	if err := ledger.CommitCheckout(ctx, order); err != nil {
		if delErr := o.book.Delete(ctx, order.ID); delErr != nil {
			o.logger.Printf("rollback of order %s failed: %v", order.ID, delErr)
		}
		return domain.Order{}, fmt.Errorf("commit checkout: %w", err)
	}

	if key := o.dedupeKey(in); key != "" {
		o.recordAccepted(key, order)
	}

	if o.notify != nil && in.Email != "" {
		if err := o.notify.OrderPlaced(ctx, in.Email, order); err != nil {
			o.logger.Printf("order %s confirmation email failed: %v", order.ID, err)
		}
	}
	return order, nil
}

func (o *Orchestrator) recordAccepted(key string, order domain.Order) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.accepted[key]; !exists {
		if len(o.keyOrder) >= maxAcceptedKeys {
			delete(o.accepted, o.keyOrder[0])
			o.keyOrder = o.keyOrder[1:]
		}
		o.keyOrder = append(o.keyOrder, key)
	}
	o.accepted[key] = order
}

func (o *Orchestrator) dedupeKey(in Input) string {
	if strings.TrimSpace(in.IdempotencyKey) == "" {
		return ""
	}
	return in.Owner + "\x00" + in.IdempotencyKey
}

// newOrderID builds a time-based identifier with a random suffix so two
// checkouts in the same millisecond cannot collide.
func newOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
