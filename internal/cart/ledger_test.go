package cart

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"tradeport/internal/domain"
	"tradeport/internal/kv"
)

type stubCatalog struct {
	products map[string]domain.Product
}

func (s *stubCatalog) FindByID(id string) (domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func testCatalog() *stubCatalog {
	return &stubCatalog{products: map[string]domain.Product{
		"tv": {
			ID:         "tv",
			Name:       "4K TV",
			PriceCents: 699_99,
			Images:     []string{"tv-front.jpg", "tv-side.jpg"},
		},
		"headphones": {
			ID:         "headphones",
			Name:       "Headphones",
			PriceCents: 249_99,
			Variants: []domain.Variant{
				{ID: "silver", Name: "Silver", PriceCents: 259_99, Stock: 5},
			},
		},
	}}
}

func newTestLedger(t *testing.T) (*Ledger, *kv.Memory) {
	t.Helper()
	store := kv.NewMemory()
	ledger := NewLedger(store, testCatalog())
	if err := ledger.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	return ledger, store
}

func TestAddItemMergesQuantities(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	for _, qty := range []int{1, 2, 3} {
		if err := ledger.AddItem(ctx, "tv", qty, ""); err != nil {
			t.Fatalf("add item: %v", err)
		}
	}

	items := ledger.Items()
	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", items[0].Quantity)
	}
	if items[0].PriceCents != 699_99 {
		t.Fatalf("expected snapshot price, got %d", items[0].PriceCents)
	}
	if items[0].Image != "tv-front.jpg" {
		t.Fatalf("expected first image, got %q", items[0].Image)
	}
}

func TestAddItemVariantLinesStaySeparate(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	if err := ledger.AddItem(ctx, "headphones", 1, ""); err != nil {
		t.Fatalf("add base: %v", err)
	}
	if err := ledger.AddItem(ctx, "headphones", 1, "silver"); err != nil {
		t.Fatalf("add variant: %v", err)
	}

	items := ledger.Items()
	if len(items) != 2 {
		t.Fatalf("expected separate lines for base and variant, got %d", len(items))
	}
	var variantLine domain.CartItem
	for _, item := range items {
		if item.Variant != nil {
			variantLine = item
		}
	}
	if variantLine.Variant == nil || variantLine.PriceCents != 259_99 {
		t.Fatalf("expected variant price snapshot, got %+v", variantLine)
	}
}

func TestAddItemUnknownProductIsNoop(t *testing.T) {
	ledger, store := newTestLedger(t)
	if err := ledger.AddItem(context.Background(), "missing", 1, ""); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if len(ledger.Items()) != 0 {
		t.Fatalf("cart should stay empty")
	}
	if store.Len() != 0 {
		t.Fatalf("nothing should have been persisted")
	}
}

func TestAddItemUnknownVariantIsNoop(t *testing.T) {
	ledger, _ := newTestLedger(t)
	if err := ledger.AddItem(context.Background(), "headphones", 1, "gold"); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if len(ledger.Items()) != 0 {
		t.Fatalf("cart should stay empty")
	}
}

func TestUpdateQuantityRejectsBelowOne(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	if err := ledger.AddItem(ctx, "tv", 2, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}

	err := ledger.UpdateQuantity(ctx, "tv", 0)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := ledger.Items()[0].Quantity; got != 2 {
		t.Fatalf("quantity must be unchanged after rejected update, got %d", got)
	}

	if err := ledger.UpdateQuantity(ctx, "tv", 5); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := ledger.Items()[0].Quantity; got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}
}

func TestRemoveItem(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	if err := ledger.AddItem(ctx, "tv", 1, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := ledger.RemoveItem(ctx, "tv"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(ledger.Items()) != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestSaveForLaterRoundTrip(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	if err := ledger.AddItem(ctx, "tv", 3, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	before := ledger.Items()

	if err := ledger.SaveForLater(ctx, "tv"); err != nil {
		t.Fatalf("save for later: %v", err)
	}
	if len(ledger.Items()) != 0 {
		t.Fatalf("item should have left the active cart")
	}
	if len(ledger.SavedItems()) != 1 || ledger.SavedItems()[0].Quantity != 3 {
		t.Fatalf("saved item should preserve quantity: %+v", ledger.SavedItems())
	}
	if got := ledger.Summary().SubtotalCents; got != 0 {
		t.Fatalf("saved items must not count toward totals, got %d", got)
	}

	if err := ledger.MoveToCart(ctx, "tv"); err != nil {
		t.Fatalf("move to cart: %v", err)
	}
	if len(ledger.SavedItems()) != 0 {
		t.Fatalf("saved list should be empty after move")
	}
	if !reflect.DeepEqual(ledger.Items(), before) {
		t.Fatalf("round trip should restore the cart: got %+v want %+v", ledger.Items(), before)
	}
}

func TestMoveToCartMergesWithExistingLine(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	if err := ledger.AddItem(ctx, "tv", 2, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := ledger.SaveForLater(ctx, "tv"); err != nil {
		t.Fatalf("save for later: %v", err)
	}
	if err := ledger.AddItem(ctx, "tv", 1, ""); err != nil {
		t.Fatalf("re-add item: %v", err)
	}
	if err := ledger.MoveToCart(ctx, "tv"); err != nil {
		t.Fatalf("move to cart: %v", err)
	}

	items := ledger.Items()
	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", items[0].Quantity)
	}
}

func TestClearLeavesSavedItems(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	if err := ledger.AddItem(ctx, "tv", 1, ""); err != nil {
		t.Fatalf("add tv: %v", err)
	}
	if err := ledger.SaveForLater(ctx, "tv"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := ledger.AddItem(ctx, "headphones", 1, ""); err != nil {
		t.Fatalf("add headphones: %v", err)
	}

	if err := ledger.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(ledger.Items()) != 0 {
		t.Fatalf("expected empty cart")
	}
	if len(ledger.SavedItems()) != 1 {
		t.Fatalf("saved items must survive clear")
	}
}

func TestSummaryIsPure(t *testing.T) {
	ledger, _ := newTestLedger(t)
	if err := ledger.AddItem(context.Background(), "tv", 2, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	first := ledger.Summary()
	second := ledger.Summary()
	if first != second {
		t.Fatalf("summary must be idempotent: %+v vs %+v", first, second)
	}
}

func TestMutationsAreRejectedWhenPersistenceFails(t *testing.T) {
	store := kv.NewMemory()
	ledger := NewLedger(store, testCatalog())
	ctx := context.Background()
	if err := ledger.AddItem(ctx, "tv", 2, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}

	store.FailWrites = errors.New("disk full")
	if err := ledger.AddItem(ctx, "headphones", 1, ""); err == nil {
		t.Fatalf("expected persistence error")
	}
	if len(ledger.Items()) != 1 {
		t.Fatalf("failed write must not change memory, got %+v", ledger.Items())
	}
	if err := ledger.UpdateQuantity(ctx, "tv", 9); err == nil {
		t.Fatalf("expected persistence error")
	}
	if got := ledger.Items()[0].Quantity; got != 2 {
		t.Fatalf("quantity must be unchanged, got %d", got)
	}
}

// failKeyStore fails writes to one key, letting tests break the second write
// of a two-key mutation.
type failKeyStore struct {
	*kv.Memory
	failKey string
}

func (s *failKeyStore) Set(ctx context.Context, key string, value []byte) error {
	if key == s.failKey {
		return errors.New("write rejected")
	}
	return s.Memory.Set(ctx, key, value)
}

func TestSaveForLaterPartialWriteFailureRollsBack(t *testing.T) {
	store := &failKeyStore{Memory: kv.NewMemory()}
	ledger := NewLedger(store, testCatalog())
	ctx := context.Background()
	if err := ledger.AddItem(ctx, "tv", 2, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}

	// The saved-list write lands, the cart write fails.
	store.failKey = cartKey
	if err := ledger.SaveForLater(ctx, "tv"); err == nil {
		t.Fatalf("expected persistence error")
	}
	store.failKey = ""

	if len(ledger.Items()) != 1 || len(ledger.SavedItems()) != 0 {
		t.Fatalf("memory must be unchanged, items=%d saved=%d", len(ledger.Items()), len(ledger.SavedItems()))
	}

	// A rehydrated ledger must not see the item in both collections.
	fresh := NewLedger(store, testCatalog())
	if err := fresh.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if len(fresh.Items()) != 1 || fresh.Items()[0].Quantity != 2 {
		t.Fatalf("unexpected cart after hydrate: %+v", fresh.Items())
	}
	if len(fresh.SavedItems()) != 0 {
		t.Fatalf("saved list must be rolled back, got %+v", fresh.SavedItems())
	}
}

func TestMoveToCartPartialWriteFailureRollsBack(t *testing.T) {
	store := &failKeyStore{Memory: kv.NewMemory()}
	ledger := NewLedger(store, testCatalog())
	ctx := context.Background()
	if err := ledger.AddItem(ctx, "tv", 2, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := ledger.SaveForLater(ctx, "tv"); err != nil {
		t.Fatalf("save: %v", err)
	}

	store.failKey = savedKey
	if err := ledger.MoveToCart(ctx, "tv"); err == nil {
		t.Fatalf("expected persistence error")
	}
	store.failKey = ""

	fresh := NewLedger(store, testCatalog())
	if err := fresh.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if len(fresh.Items()) != 0 {
		t.Fatalf("cart write must be rolled back, got %+v", fresh.Items())
	}
	if len(fresh.SavedItems()) != 1 {
		t.Fatalf("item must remain saved, got %+v", fresh.SavedItems())
	}
}

func TestCommitCheckoutPartialWriteFailureRollsBack(t *testing.T) {
	store := &failKeyStore{Memory: kv.NewMemory()}
	ledger := NewLedger(store, testCatalog())
	ctx := context.Background()
	if err := ledger.AddItem(ctx, "tv", 1, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}

	store.failKey = cartKey
	if err := ledger.CommitCheckout(ctx, domain.Order{ID: "ORD-1"}); err == nil {
		t.Fatalf("expected commit failure")
	}
	store.failKey = ""

	fresh := NewLedger(store, testCatalog())
	if err := fresh.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if len(fresh.RecentOrders()) != 0 {
		t.Fatalf("order write must be rolled back, got %+v", fresh.RecentOrders())
	}
	if len(fresh.Items()) != 1 {
		t.Fatalf("cart must survive the failed commit, got %+v", fresh.Items())
	}
}

func TestHydrateRestoresState(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()

	first := NewLedger(store, testCatalog())
	if err := first.AddItem(ctx, "tv", 2, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := first.SaveForLater(ctx, "tv"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.AddItem(ctx, "headphones", 1, ""); err != nil {
		t.Fatalf("add headphones: %v", err)
	}

	second := NewLedger(store, testCatalog())
	if err := second.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !reflect.DeepEqual(second.Items(), first.Items()) {
		t.Fatalf("cart mismatch after hydrate")
	}
	if !reflect.DeepEqual(second.SavedItems(), first.SavedItems()) {
		t.Fatalf("saved items mismatch after hydrate")
	}
}

func TestCommitCheckoutAllOrNothing(t *testing.T) {
	store := kv.NewMemory()
	ledger := NewLedger(store, testCatalog())
	ctx := context.Background()
	if err := ledger.AddItem(ctx, "tv", 1, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}

	store.FailWrites = errors.New("boom")
	order := domain.Order{ID: "ORD-1", Items: ledger.Items()}
	if err := ledger.CommitCheckout(ctx, order); err == nil {
		t.Fatalf("expected commit failure")
	}
	if len(ledger.Items()) != 1 {
		t.Fatalf("cart must be untouched after failed commit")
	}
	if len(ledger.RecentOrders()) != 0 {
		t.Fatalf("no order must be recorded after failed commit")
	}

	store.FailWrites = nil
	if err := ledger.CommitCheckout(ctx, order); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(ledger.Items()) != 0 {
		t.Fatalf("cart must be cleared after commit")
	}
	if got := ledger.RecentOrders(); len(got) != 1 || got[0].ID != "ORD-1" {
		t.Fatalf("expected recorded order, got %+v", got)
	}
}

func TestRegistryIsolatesOwners(t *testing.T) {
	store := kv.NewMemory()
	registry := NewRegistry(store, testCatalog())
	ctx := context.Background()

	alice, err := registry.ForOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("alice ledger: %v", err)
	}
	bob, err := registry.ForOwner(ctx, "bob")
	if err != nil {
		t.Fatalf("bob ledger: %v", err)
	}

	if err := alice.AddItem(ctx, "tv", 1, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(bob.Items()) != 0 {
		t.Fatalf("owners must not share carts")
	}

	again, err := registry.ForOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("alice again: %v", err)
	}
	if again != alice {
		t.Fatalf("registry must reuse the same ledger per owner")
	}
}
