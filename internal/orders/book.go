// Package orders keeps the order book: every order placed through checkout,
// queryable per owner and mutable only in its status field, which the admin
// side advances under the tracking state machine's rules.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"tradeport/internal/domain"
	"tradeport/internal/kv"
	"tradeport/internal/tracking"
)

// BookKey is the KV key the order book is persisted under.
const BookKey = "orders"

type Book struct {
	mu     sync.Mutex
	store  kv.Store
	policy tracking.Policy
}

func NewBook(store kv.Store, policy tracking.Policy) *Book {
	return &Book{store: store, policy: policy}
}

// Append records a new order.
func (b *Book) Append(ctx context.Context, order domain.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	all, err := b.load(ctx)
	if err != nil {
		return err
	}
	return b.save(ctx, append([]domain.Order{order}, all...))
}

// Delete removes the order entirely. Admin path only.
func (b *Book) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	all, err := b.load(ctx)
	if err != nil {
		return err
	}
	next := all[:0]
	found := false
	for _, o := range all {
		if o.ID == id {
			found = true
			continue
		}
		next = append(next, o)
	}
	if !found {
		return domain.ErrNotFound
	}
	return b.save(ctx, next)
}

// Get returns the order with the given identifier.
func (b *Book) Get(ctx context.Context, id string) (domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	all, err := b.load(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	for _, o := range all {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, domain.ErrNotFound
}

// ForOwner returns the owner's orders, most recent first.
func (b *Book) ForOwner(ctx context.Context, owner string) ([]domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	all, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Order
	for _, o := range all {
		if o.Owner == owner {
			out = append(out, o)
		}
	}
	return out, nil
}

// All returns every order, most recent first. Admin path only.
func (b *Book) All(ctx context.Context) ([]domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load(ctx)
}

// UpdateStatus advances an order's status. The transition must be legal under
// the configured cancel policy; anything else is a conflict.
func (b *Book) UpdateStatus(ctx context.Context, id, status string) (domain.Order, error) {
	to, ok := tracking.Parse(status)
	if !ok {
		return domain.Order{}, domain.Invalid("unknown status %q", status)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	all, err := b.load(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	for i, o := range all {
		if o.ID != id {
			continue
		}
		from, ok := tracking.Parse(o.Status)
		if !ok {
			return domain.Order{}, fmt.Errorf("order %s has unknown status %q", id, o.Status)
		}
		if !b.policy.CanTransition(from, to) {
			return domain.Order{}, fmt.Errorf("%w: cannot move order %s from %s to %s", domain.ErrConflict, id, from, to)
		}
		all[i].Status = string(to)
		if err := b.save(ctx, all); err != nil {
			return domain.Order{}, err
		}
		return all[i], nil
	}
	return domain.Order{}, domain.ErrNotFound
}

func (b *Book) load(ctx context.Context) ([]domain.Order, error) {
	raw, ok, err := b.store.Get(ctx, BookKey)
	if err != nil {
		return nil, fmt.Errorf("load order book: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var all []domain.Order
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("decode order book: %w", err)
	}
	return all, nil
}

func (b *Book) save(ctx context.Context, all []domain.Order) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode order book: %w", err)
	}
	if err := b.store.Set(ctx, BookKey, raw); err != nil {
		return fmt.Errorf("persist order book: %w", err)
	}
	return nil
}
