package domain

import "testing"

func TestComputeTotalsFreeShipping(t *testing.T) {
	items := []CartItem{{ProductID: "p1", PriceCents: 60_00, Quantity: 2}}
	totals := ComputeTotals(items)

	if totals.SubtotalCents != 120_00 {
		t.Fatalf("expected subtotal 12000, got %d", totals.SubtotalCents)
	}
	if totals.ShippingCents != 0 {
		t.Fatalf("expected free shipping above threshold, got %d", totals.ShippingCents)
	}
	if totals.TaxCents != 12_00 {
		t.Fatalf("expected tax 1200, got %d", totals.TaxCents)
	}
	if totals.TotalCents != 132_00 {
		t.Fatalf("expected total 13200, got %d", totals.TotalCents)
	}
	if totals.ItemCount != 2 {
		t.Fatalf("expected item count 2, got %d", totals.ItemCount)
	}
}

func TestComputeTotalsFlatShipping(t *testing.T) {
	items := []CartItem{{ProductID: "p1", PriceCents: 30_00, Quantity: 1}}
	totals := ComputeTotals(items)

	if totals.SubtotalCents != 30_00 {
		t.Fatalf("expected subtotal 3000, got %d", totals.SubtotalCents)
	}
	if totals.ShippingCents != 10_00 {
		t.Fatalf("expected flat shipping, got %d", totals.ShippingCents)
	}
	if totals.TaxCents != 3_00 {
		t.Fatalf("expected tax 300, got %d", totals.TaxCents)
	}
	if totals.TotalCents != 43_00 {
		t.Fatalf("expected total 4300, got %d", totals.TotalCents)
	}
}

func TestComputeTotalsThresholdIsExclusive(t *testing.T) {
	// A subtotal of exactly 100.00 still pays shipping.
	items := []CartItem{{ProductID: "p1", PriceCents: 100_00, Quantity: 1}}
	totals := ComputeTotals(items)
	if totals.ShippingCents != FlatShippingCents {
		t.Fatalf("expected flat shipping at exactly the threshold, got %d", totals.ShippingCents)
	}

	items[0].PriceCents = 100_01
	totals = ComputeTotals(items)
	if totals.ShippingCents != 0 {
		t.Fatalf("expected free shipping just above the threshold, got %d", totals.ShippingCents)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)
	if totals.SubtotalCents != 0 || totals.TaxCents != 0 || totals.ItemCount != 0 {
		t.Fatalf("unexpected totals for empty cart: %+v", totals)
	}
	if totals.ShippingCents != FlatShippingCents {
		t.Fatalf("expected flat shipping for empty subtotal, got %d", totals.ShippingCents)
	}
}

func TestComputeTotalsTaxRounding(t *testing.T) {
	// 1.05 subtotal -> 10.5 cents of tax, rounded half up to 11.
	items := []CartItem{{ProductID: "p1", PriceCents: 105, Quantity: 1}}
	totals := ComputeTotals(items)
	if totals.TaxCents != 11 {
		t.Fatalf("expected tax rounded to 11 cents, got %d", totals.TaxCents)
	}
}

func TestAverageRating(t *testing.T) {
	p := Product{}
	if got := p.AverageRating(); got != 0 {
		t.Fatalf("expected 0 for no ratings, got %v", got)
	}

	p.Ratings = []Rating{{Value: 4}, {Value: 5}, {Value: 4}}
	if got := p.AverageRating(); got != 4.3 {
		t.Fatalf("expected 4.3, got %v", got)
	}
}

func TestMergeKey(t *testing.T) {
	plain := CartItem{ProductID: "p1"}
	withVariant := CartItem{ProductID: "p1", Variant: &Variant{ID: "v1"}}
	if plain.MergeKey() == withVariant.MergeKey() {
		t.Fatalf("variant lines must not merge with plain lines")
	}

	same := CartItem{ProductID: "p1", Variant: &Variant{ID: "v1"}}
	if withVariant.MergeKey() != same.MergeKey() {
		t.Fatalf("same product/variant must share a merge key")
	}
}

func TestFormatCents(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		10_50:  "10.50",
		132_00: "132.00",
		-3_25:  "-3.25",
	}
	for cents, want := range cases {
		if got := FormatCents(cents); got != want {
			t.Fatalf("FormatCents(%d) = %q, want %q", cents, got, want)
		}
	}
}

func TestParseCents(t *testing.T) {
	got, err := ParseCents("19.99")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 19_99 {
		t.Fatalf("expected 1999, got %d", got)
	}

	if _, err := ParseCents("not-a-price"); err == nil {
		t.Fatalf("expected parse error")
	}
}
