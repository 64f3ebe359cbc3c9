package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"tradeport/internal/domain"
)

// Upstream product feeds are loosely shaped: some use "title" for "name",
// a single "image" instead of an "images" list, and prices arrive as decimal
// numbers or strings. Normalize maps any of those shapes into the canonical
// domain.Product and rejects records it cannot make sense of.

type rawProduct struct {
	ID          json.RawMessage  `json:"id"`
	Name        string           `json:"name"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       json.RawMessage  `json:"price"`
	Category    string           `json:"category"`
	ProductType string           `json:"productType"`
	Brand       string           `json:"brand"`
	Model       string           `json:"model"`
	Stock       int              `json:"stock"`
	Image       string           `json:"image"`
	Images      []string         `json:"images"`
	Variants    []rawVariant     `json:"variants"`
	Ratings     []domain.Rating  `json:"ratings"`
	Tags        []string         `json:"tags"`
}

type rawVariant struct {
	ID    json.RawMessage `json:"id"`
	Name  string          `json:"name"`
	Price json.RawMessage `json:"price"`
	Stock int             `json:"stock"`
}

// Normalize converts one upstream record into a canonical product.
func Normalize(raw json.RawMessage) (domain.Product, error) {
	var in rawProduct
	if err := json.Unmarshal(raw, &in); err != nil {
		return domain.Product{}, fmt.Errorf("decode product: %w", err)
	}

	id := rawString(in.ID)
	if id == "" {
		return domain.Product{}, fmt.Errorf("product record has no id")
	}
	name := in.Name
	if name == "" {
		name = in.Title
	}
	if name == "" {
		return domain.Product{}, fmt.Errorf("product %s has no name", id)
	}
	price, err := rawCents(in.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, err)
	}
	if price < 0 {
		return domain.Product{}, fmt.Errorf("product %s has negative price", id)
	}
	category := in.Category
	if category == "" {
		category = in.ProductType
	}

	images := in.Images
	if len(images) == 0 && in.Image != "" {
		images = []string{in.Image}
	}

	var variants []domain.Variant
	for _, v := range in.Variants {
		vid := rawString(v.ID)
		if vid == "" {
			continue
		}
		vprice, err := rawCents(v.Price)
		if err != nil || vprice < 0 {
			continue
		}
		variants = append(variants, domain.Variant{
			ID:         vid,
			Name:       v.Name,
			PriceCents: vprice,
			Stock:      v.Stock,
		})
	}

	return domain.Product{
		ID:          id,
		Name:        name,
		Description: in.Description,
		PriceCents:  price,
		Category:    category,
		Brand:       in.Brand,
		Model:       in.Model,
		Stock:       in.Stock,
		Variants:    variants,
		Images:      images,
		Ratings:     in.Ratings,
		Tags:        in.Tags,
	}, nil
}

// NormalizeAll converts a batch, logging and skipping records that fail.
func NormalizeAll(raws []json.RawMessage, logger *log.Logger) []domain.Product {
	out := make([]domain.Product, 0, len(raws))
	for _, raw := range raws {
		p, err := Normalize(raw)
		if err != nil {
			if logger != nil {
				logger.Printf("skipping catalog record: %v", err)
			}
			continue
		}
		out = append(out, p)
	}
	return out
}

// rawString accepts string or numeric JSON identifiers.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// rawCents accepts decimal numbers or numeric strings and converts to cents.
func rawCents(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return domain.CentsFromDecimal(f), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("unparseable price %q", s)
		}
		return domain.CentsFromDecimal(f), nil
	}
	return 0, fmt.Errorf("unparseable price %s", string(raw))
}
