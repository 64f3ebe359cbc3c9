package domain

import "time"

const (
	// FreeShippingThresholdCents is the subtotal above which shipping is waived.
	FreeShippingThresholdCents int64 = 100_00
	// FlatShippingCents is charged below the free-shipping threshold.
	FlatShippingCents int64 = 10_00
	// TaxRateBasisPoints is the flat tax rate applied to the subtotal (10%).
	TaxRateBasisPoints int64 = 1000
)

// OrderTotals is the priced summary of a set of cart lines.
type OrderTotals struct {
	SubtotalCents int64 `json:"subtotalCents"`
	ShippingCents int64 `json:"shippingCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`
	ItemCount     int   `json:"itemCount"`
}

// ComputeTotals prices the given lines: subtotal is the sum of extended line
// prices, shipping is waived strictly above the threshold, tax is a flat 10%
// of the subtotal rounded half up to the cent.
func ComputeTotals(items []CartItem) OrderTotals {
	var t OrderTotals
	for _, item := range items {
		t.SubtotalCents += item.LineTotalCents()
		t.ItemCount += item.Quantity
	}
	if t.SubtotalCents <= FreeShippingThresholdCents {
		t.ShippingCents = FlatShippingCents
	}
	t.TaxCents = (t.SubtotalCents*TaxRateBasisPoints + 5000) / 10000
	t.TotalCents = t.SubtotalCents + t.ShippingCents + t.TaxCents
	return t
}

// Address is the shipping destination captured at checkout. Only the street
// is validated here; full schema validation belongs to the calling layer.
type Address struct {
	Name    string `json:"name,omitempty"`
	Street  string `json:"street"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// Order is created once at checkout and immutable afterwards except for
// Status, which is advanced by the admin/backend side.
type Order struct {
	ID              string      `json:"orderId"`
	Owner           string      `json:"owner,omitempty"`
	Items           []CartItem  `json:"items"`
	ShippingAddress Address     `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	Totals          OrderTotals `json:"totals"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"date"`
}
