package domain

import "math"

// Product is the canonical catalog record. Upstream feeds arrive in looser
// shapes and are normalized into this struct at the catalog boundary.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand,omitempty"`
	Model       string    `json:"model,omitempty"`
	Stock       int       `json:"stock"`
	Variants    []Variant `json:"variants,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Ratings     []Rating  `json:"ratings,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

type Variant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Stock      int    `json:"stock"`
}

type Rating struct {
	Value int `json:"value"`
}

// AverageRating is the mean of all rating values rounded to one decimal,
// or 0 when the product has no ratings.
func (p Product) AverageRating() float64 {
	if len(p.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range p.Ratings {
		sum += r.Value
	}
	mean := float64(sum) / float64(len(p.Ratings))
	return math.Round(mean*10) / 10
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// FirstImage returns the lead image URL, empty when the product has none.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// AvailableVariants returns only variants with stock remaining.
func (p Product) AvailableVariants() []Variant {
	var out []Variant
	for _, v := range p.Variants {
		if v.Stock > 0 {
			out = append(out, v)
		}
	}
	return out
}

// FindVariant looks up a variant by its identifier.
func (p Product) FindVariant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}
