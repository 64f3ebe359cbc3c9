// Package cart implements the cart ledger: active line items, the
// saved-for-later list and the shopper's recent orders, with snapshot pricing
// and synchronous persistence through the KV port.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"tradeport/internal/domain"
	"tradeport/internal/kv"
)

// KV keys, named after the original client's local-storage entries.
const (
	cartKey   = "cart"
	savedKey  = "savedForLater"
	ordersKey = "recentOrders"
)

type productFinder interface {
	FindByID(id string) (domain.Product, error)
}

// Ledger holds one owner's cart state. Mutations follow a persist-then-commit
// discipline: the updated collections are written to the KV store first and
// the in-memory state only changes when the write succeeded, so a failed
// write never leaves memory and storage disagreeing in the caller's favor.
type Ledger struct {
	mu      sync.Mutex
	store   kv.Store
	catalog productFinder

	items  []domain.CartItem
	saved  []domain.CartItem
	orders []domain.Order
}

func NewLedger(store kv.Store, catalog productFinder) *Ledger {
	return &Ledger{store: store, catalog: catalog}
}

// Hydrate loads persisted state. Absent keys mean empty collections.
func (l *Ledger) Hydrate(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := loadJSON(ctx, l.store, cartKey, &l.items); err != nil {
		return err
	}
	if err := loadJSON(ctx, l.store, savedKey, &l.saved); err != nil {
		return err
	}
	return loadJSON(ctx, l.store, ordersKey, &l.orders)
}

// AddItem adds quantity of the product (optionally a specific variant) to the
// active cart. An unknown product or variant is a silent no-op. An existing
// line with the same product/variant key absorbs the quantity instead of a
// second line being created. Unit price and image are snapshotted at add time.
func (l *Ledger) AddItem(ctx context.Context, productID string, quantity int, variantID string) error {
	if quantity < 1 {
		quantity = 1
	}
	product, err := l.catalog.FindByID(productID)
	if err != nil {
		return nil
	}

	item := domain.CartItem{
		ProductID:  productID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		Image:      product.FirstImage(),
		Quantity:   quantity,
	}
	if variantID != "" {
		variant, ok := product.FindVariant(variantID)
		if !ok {
			return nil
		}
		item.Variant = &variant
		item.PriceCents = variant.PriceCents
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	next := mergeLine(l.items, item)
	if err := l.persist(ctx, cartKey, next); err != nil {
		return err
	}
	l.items = next
	return nil
}

// UpdateQuantity replaces the quantity of the matching line. Quantities below
// one are rejected; reaching zero must go through RemoveItem.
func (l *Ledger) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return domain.Invalid("quantity must be at least 1")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]domain.CartItem, len(l.items))
	copy(next, l.items)
	changed := false
	for i := range next {
		if next[i].ProductID == productID {
			next[i].Quantity = quantity
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := l.persist(ctx, cartKey, next); err != nil {
		return err
	}
	l.items = next
	return nil
}

// RemoveItem deletes the matching line from the active cart.
func (l *Ledger) RemoveItem(ctx context.Context, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := withoutProduct(l.items, productID)
	if len(next) == len(l.items) {
		return nil
	}
	if err := l.persist(ctx, cartKey, next); err != nil {
		return err
	}
	l.items = next
	return nil
}

// SaveForLater moves the line from the active cart to the saved list,
// preserving quantity and variant. The line stops counting toward totals
// immediately.
func (l *Ledger) SaveForLater(ctx context.Context, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	item, ok := findProduct(l.items, productID)
	if !ok {
		return nil
	}
	nextSaved := append(copyItems(l.saved), item)
	nextCart := withoutProduct(l.items, productID)
	if err := l.persist(ctx, savedKey, nextSaved); err != nil {
		return err
	}
	if err := l.persist(ctx, cartKey, nextCart); err != nil {
		// Undo the saved-list write so storage does not hold the item twice.
		l.revert(ctx, savedKey, l.saved)
		return err
	}
	l.saved = nextSaved
	l.items = nextCart
	return nil
}

// MoveToCart moves a saved line back into the active cart through the same
// merge logic AddItem uses, so an equivalent active line absorbs the quantity.
// The saved snapshot price is kept; the catalog is not consulted again.
func (l *Ledger) MoveToCart(ctx context.Context, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	item, ok := findProduct(l.saved, productID)
	if !ok {
		return nil
	}
	nextCart := mergeLine(l.items, item)
	nextSaved := withoutProduct(l.saved, productID)
	if err := l.persist(ctx, cartKey, nextCart); err != nil {
		return err
	}
	if err := l.persist(ctx, savedKey, nextSaved); err != nil {
		l.revert(ctx, cartKey, l.items)
		return err
	}
	l.items = nextCart
	l.saved = nextSaved
	return nil
}

// Clear empties the active cart. Saved items are untouched.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := []domain.CartItem{}
	if err := l.persist(ctx, cartKey, next); err != nil {
		return err
	}
	l.items = next
	return nil
}

// Summary prices the current active lines. It is pure: no state changes and
// repeated calls without mutation return identical totals.
func (l *Ledger) Summary() domain.OrderTotals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.ComputeTotals(l.items)
}

func (l *Ledger) Items() []domain.CartItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyItems(l.items)
}

func (l *Ledger) SavedItems() []domain.CartItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyItems(l.saved)
}

func (l *Ledger) RecentOrders() []domain.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// CommitCheckout atomically records the order (most recent first) and clears
// the active cart. On any persistence failure the in-memory cart is left
// untouched so the caller sees checkout as all-or-nothing.
func (l *Ledger) CommitCheckout(ctx context.Context, order domain.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	nextOrders := append([]domain.Order{order}, l.orders...)
	emptyCart := []domain.CartItem{}
	if err := l.persist(ctx, ordersKey, nextOrders); err != nil {
		return err
	}
	if err := l.persist(ctx, cartKey, emptyCart); err != nil {
		l.revert(ctx, ordersKey, l.orders)
		return err
	}
	l.orders = nextOrders
	l.items = emptyCart
	return nil
}

// revert restores a key to its committed value after a multi-key mutation
// failed partway, so a later Hydrate does not see the half-applied move.
// Best-effort: a store broken enough to fail the restore too will keep
// failing reads as well.
func (l *Ledger) revert(ctx context.Context, key string, value interface{}) {
	_ = l.persist(ctx, key, value)
}

func (l *Ledger) persist(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := l.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func loadJSON(ctx context.Context, store kv.Store, key string, out interface{}) error {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// mergeLine folds item into lines by merge key, incrementing the quantity of
// an existing line or appending a new one.
func mergeLine(lines []domain.CartItem, item domain.CartItem) []domain.CartItem {
	next := copyItems(lines)
	for i := range next {
		if next[i].MergeKey() == item.MergeKey() {
			next[i].Quantity += item.Quantity
			return next
		}
	}
	return append(next, item)
}

func findProduct(lines []domain.CartItem, productID string) (domain.CartItem, bool) {
	for _, item := range lines {
		if item.ProductID == productID {
			return item, true
		}
	}
	return domain.CartItem{}, false
}

func withoutProduct(lines []domain.CartItem, productID string) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(lines))
	for _, item := range lines {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

func copyItems(lines []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(lines))
	copy(out, lines)
	return out
}
