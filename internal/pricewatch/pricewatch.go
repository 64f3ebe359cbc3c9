// Package pricewatch manages per-product price alerts: a shopper asks to be
// told when a product drops below a target price. Preferences persist in the
// KV store under one key per product, namespaced per owner so one shopper's
// alerts are invisible to another.
package pricewatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tradeport/internal/domain"
	"tradeport/internal/kv"
)

const keyPrefix = "priceTrack_"

type productFinder interface {
	FindByID(id string) (domain.Product, error)
}

// Alert is a stored tracking preference. History carries the prices observed
// each time the owner touched the alert, most recent last.
type Alert struct {
	ProductID   string       `json:"productId"`
	TargetCents int64        `json:"targetCents"`
	CreatedAt   time.Time    `json:"createdAt"`
	History     []PricePoint `json:"history,omitempty"`
}

type Watcher struct {
	store   kv.Store
	catalog productFinder
	now     func() time.Time
}

func NewWatcher(store kv.Store, catalog productFinder) *Watcher {
	return &Watcher{store: store, catalog: catalog, now: time.Now}
}

func (w *Watcher) forOwner(owner string) kv.Store {
	return kv.Namespaced(w.store, owner)
}

// Track registers an alert for the owner. The target must be positive and
// strictly below the product's current price; anything else is rejected
// without mutation. Re-tracking keeps the accumulated price history.
func (w *Watcher) Track(ctx context.Context, owner, productID string, targetCents int64) (Alert, error) {
	product, err := w.catalog.FindByID(productID)
	if err != nil {
		return Alert{}, err
	}
	if targetCents <= 0 {
		return Alert{}, domain.Invalid("target price must be positive")
	}
	if targetCents >= product.PriceCents {
		return Alert{}, domain.Invalid("target price must be below the current price")
	}

	store := w.forOwner(owner)
	now := w.now().UTC()

	prior, _, err := w.load(ctx, store, productID)
	if err != nil {
		return Alert{}, err
	}
	alert := Alert{
		ProductID:   productID,
		TargetCents: targetCents,
		CreatedAt:   now,
		History: append(prior.History, PricePoint{
			Date:       now.Format("2006-01-02"),
			PriceCents: product.PriceCents,
		}),
	}
	raw, err := json.Marshal(alert)
	if err != nil {
		return Alert{}, fmt.Errorf("encode alert: %w", err)
	}
	if err := store.Set(ctx, keyPrefix+productID, raw); err != nil {
		return Alert{}, fmt.Errorf("persist alert: %w", err)
	}
	return alert, nil
}

// Stop removes the owner's alert for the product, if any.
func (w *Watcher) Stop(ctx context.Context, owner, productID string) error {
	return w.forOwner(owner).Remove(ctx, keyPrefix+productID)
}

// Status returns the owner's stored alert for the product.
func (w *Watcher) Status(ctx context.Context, owner, productID string) (Alert, bool, error) {
	return w.load(ctx, w.forOwner(owner), productID)
}

func (w *Watcher) load(ctx context.Context, store kv.Store, productID string) (Alert, bool, error) {
	raw, ok, err := store.Get(ctx, keyPrefix+productID)
	if err != nil {
		return Alert{}, false, fmt.Errorf("load alert: %w", err)
	}
	if !ok {
		return Alert{}, false, nil
	}
	var alert Alert
	if err := json.Unmarshal(raw, &alert); err != nil {
		return Alert{}, false, fmt.Errorf("decode alert: %w", err)
	}
	return alert, true, nil
}

// PricePoint is one observation in a product's price history.
type PricePoint struct {
	Date       string `json:"date"`
	PriceCents int64  `json:"priceCents"`
}

// HistorySummary reports the lowest and highest observed prices.
func HistorySummary(points []PricePoint) (lowest, highest int64) {
	for i, p := range points {
		if i == 0 || p.PriceCents < lowest {
			lowest = p.PriceCents
		}
		if p.PriceCents > highest {
			highest = p.PriceCents
		}
	}
	return lowest, highest
}
