package catalog

import (
	"sync"

	"tradeport/internal/domain"
)

// recentlyViewedCap bounds the recently-viewed list.
const recentlyViewedCap = 10

// Activity tracks a shopper's browsing state: recently viewed products and
// the wishlist. Both are session-scoped, most-recent-first and deduplicated.
type Activity struct {
	mu       sync.Mutex
	viewed   []domain.Product
	wishlist []string
}

func NewActivity() *Activity {
	return &Activity{}
}

// MarkViewed moves the product to the front of the recently-viewed list.
func (a *Activity) MarkViewed(p domain.Product) {
	a.mu.Lock()
	defer a.mu.Unlock()
	filtered := a.viewed[:0]
	for _, v := range a.viewed {
		if v.ID != p.ID {
			filtered = append(filtered, v)
		}
	}
	a.viewed = append([]domain.Product{p}, filtered...)
	if len(a.viewed) > recentlyViewedCap {
		a.viewed = a.viewed[:recentlyViewedCap]
	}
}

func (a *Activity) RecentlyViewed() []domain.Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.Product, len(a.viewed))
	copy(out, a.viewed)
	return out
}

// ToggleWishlist adds the product to the wishlist, or removes it when already
// present. It reports whether the product is wishlisted afterwards.
func (a *Activity) ToggleWishlist(productID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, id := range a.wishlist {
		if id == productID {
			a.wishlist = append(a.wishlist[:i], a.wishlist[i+1:]...)
			return false
		}
	}
	a.wishlist = append(a.wishlist, productID)
	return true
}

func (a *Activity) Wishlist() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.wishlist))
	copy(out, a.wishlist)
	return out
}
