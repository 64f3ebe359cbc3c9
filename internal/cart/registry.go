package cart

import (
	"context"
	"sync"

	"tradeport/internal/kv"
)

// Registry hands out one hydrated Ledger per owner, namespacing each owner's
// KV keys under their identifier.
type Registry struct {
	mu      sync.Mutex
	store   kv.Store
	catalog productFinder
	ledgers map[string]*Ledger
}

func NewRegistry(store kv.Store, catalog productFinder) *Registry {
	return &Registry{
		store:   store,
		catalog: catalog,
		ledgers: make(map[string]*Ledger),
	}
}

// ForOwner returns the owner's ledger, hydrating it from the KV store on
// first use.
func (r *Registry) ForOwner(ctx context.Context, owner string) (*Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ledger, ok := r.ledgers[owner]; ok {
		return ledger, nil
	}
	ledger := NewLedger(kv.Namespaced(r.store, owner), r.catalog)
	if err := ledger.Hydrate(ctx); err != nil {
		return nil, err
	}
	r.ledgers[owner] = ledger
	return ledger, nil
}
