package domain

// CartItem is a line item in the active cart or the saved-for-later list.
// Name, price and image are snapshots taken when the item was added; later
// catalog changes do not flow back into existing lines.
type CartItem struct {
	ProductID  string   `json:"productId"`
	Name       string   `json:"name"`
	PriceCents int64    `json:"priceCents"`
	Image      string   `json:"image,omitempty"`
	Quantity   int      `json:"quantity"`
	Variant    *Variant `json:"variant,omitempty"`
}

// MergeKey identifies a line for quantity merging: the same product with the
// same variant (or no variant) always lands on one line.
func (i CartItem) MergeKey() string {
	if i.Variant == nil {
		return i.ProductID
	}
	return i.ProductID + "\x00" + i.Variant.ID
}

// LineTotalCents is the extended price of the line.
func (i CartItem) LineTotalCents() int64 {
	return i.PriceCents * int64(i.Quantity)
}
