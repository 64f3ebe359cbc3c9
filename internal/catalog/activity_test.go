package catalog

import (
	"fmt"
	"testing"

	"tradeport/internal/domain"
)

func TestMarkViewedDedupeAndOrder(t *testing.T) {
	a := NewActivity()
	a.MarkViewed(domain.Product{ID: "tv"})
	a.MarkViewed(domain.Product{ID: "phone"})
	a.MarkViewed(domain.Product{ID: "tv"})

	got := a.RecentlyViewed()
	if len(got) != 2 || got[0].ID != "tv" || got[1].ID != "phone" {
		t.Fatalf("expected re-view to move to front, got %+v", got)
	}
}

func TestMarkViewedCap(t *testing.T) {
	a := NewActivity()
	for i := 0; i < recentlyViewedCap+3; i++ {
		a.MarkViewed(domain.Product{ID: fmt.Sprintf("p%d", i)})
	}
	got := a.RecentlyViewed()
	if len(got) != recentlyViewedCap {
		t.Fatalf("expected %d viewed, got %d", recentlyViewedCap, len(got))
	}
	if got[0].ID != fmt.Sprintf("p%d", recentlyViewedCap+2) {
		t.Fatalf("expected most recent first, got %v", got[0].ID)
	}
}

func TestToggleWishlist(t *testing.T) {
	a := NewActivity()
	if !a.ToggleWishlist("tv") {
		t.Fatalf("expected first toggle to add")
	}
	if !a.ToggleWishlist("phone") {
		t.Fatalf("expected first toggle to add")
	}
	if a.ToggleWishlist("tv") {
		t.Fatalf("expected second toggle to remove")
	}
	got := a.Wishlist()
	if len(got) != 1 || got[0] != "phone" {
		t.Fatalf("unexpected wishlist: %v", got)
	}
}
