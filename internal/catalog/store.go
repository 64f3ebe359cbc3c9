// Package catalog holds the normalized product catalog and the read queries
// the storefront core consumes: lookup, related products, suggestions and
// filtering. The catalog itself is a snapshot loaded from the KV store or an
// upstream feed; it is not the system of record.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tradeport/internal/domain"
	"tradeport/internal/kv"
)

// StoreKey is the KV key the catalog snapshot is persisted under.
const StoreKey = "catalog"

// SuggestLimit caps the number of search suggestions returned.
const SuggestLimit = 5

// relatedPriceBand is the ±fraction of the reference price used by the final
// related-products pass.
const relatedPriceBand = 0.2

type Store struct {
	mu       sync.RWMutex
	products []domain.Product
	byID     map[string]int
}

func NewStore() *Store {
	return &Store{byID: make(map[string]int)}
}

// Replace swaps in a new catalog snapshot, keeping insertion order.
func (s *Store) Replace(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make([]domain.Product, len(products))
	copy(s.products, products)
	s.byID = make(map[string]int, len(products))
	for i, p := range s.products {
		s.byID[p.ID] = i
	}
}

// Hydrate loads the catalog snapshot persisted by the seeder or importer.
// An absent key leaves the store empty.
func (s *Store) Hydrate(ctx context.Context, store kv.Store) error {
	raw, ok, err := store.Get(ctx, StoreKey)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if !ok {
		return nil
	}
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	s.Replace(products)
	return nil
}

// Persist writes the current snapshot back to the KV store.
func (s *Store) Persist(ctx context.Context, store kv.Store) error {
	s.mu.RLock()
	products := s.products
	s.mu.RUnlock()
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return store.Set(ctx, StoreKey, raw)
}

func (s *Store) FindByID(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return s.products[i], nil
}

// All returns the catalog in insertion order.
func (s *Store) All() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Categories returns the distinct categories present, sorted.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// ByCategory returns products in the given category, case-insensitively.
func (s *Store) ByCategory(category string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Product
	for _, p := range s.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Related picks up to limit products related to p: same category first, then
// same brand, then anything within ±20% of its price, without duplicates.
func (s *Store) Related(p domain.Product, limit int) []domain.Product {
	if limit <= 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	picked := make(map[string]struct{}, limit)
	picked[p.ID] = struct{}{}
	var out []domain.Product

	take := func(match func(domain.Product) bool) {
		for _, cand := range s.products {
			if _, ok := picked[cand.ID]; ok {
				continue
			}
			if match(cand) {
				picked[cand.ID] = struct{}{}
				out = append(out, cand)
			}
		}
	}

	take(func(c domain.Product) bool { return c.Category == p.Category })
	if len(out) < limit {
		take(func(c domain.Product) bool { return c.Brand != "" && c.Brand == p.Brand })
	}
	if len(out) < limit {
		min := int64(float64(p.PriceCents) * (1 - relatedPriceBand))
		max := int64(float64(p.PriceCents) * (1 + relatedPriceBand))
		take(func(c domain.Product) bool { return c.PriceCents >= min && c.PriceCents <= max })
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Suggest returns up to five products whose name, brand, category or tags
// contain the term, case-insensitively, in catalog order.
func (s *Store) Suggest(term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Product
	for _, p := range s.products {
		if matchesTerm(p, term) {
			out = append(out, p)
			if len(out) == SuggestLimit {
				break
			}
		}
	}
	return out
}

func matchesTerm(p domain.Product, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Brand), term) ||
		strings.Contains(strings.ToLower(p.Category), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Filter narrows the catalog by the given criteria; zero values mean "any".
type Filter struct {
	Category      string
	MinPriceCents int64
	MaxPriceCents int64
	Brands        []string
	InStock       bool
	MinRating     float64
	Search        string
}

func (s *Store) FilterProducts(f Filter) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []domain.Product
	for _, p := range s.products {
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.MinPriceCents > 0 && p.PriceCents < f.MinPriceCents {
			continue
		}
		if f.MaxPriceCents > 0 && p.PriceCents > f.MaxPriceCents {
			continue
		}
		if len(f.Brands) > 0 && !containsFold(f.Brands, p.Brand) {
			continue
		}
		if f.InStock && !p.InStock() {
			continue
		}
		if f.MinRating > 0 && p.AverageRating() < f.MinRating {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// matchesSearch extends matchesTerm with the description field, mirroring the
// wider match used by filtering as opposed to suggestions.
func matchesSearch(p domain.Product, term string) bool {
	return matchesTerm(p, term) || strings.Contains(strings.ToLower(p.Description), term)
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
