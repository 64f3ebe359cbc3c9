// Package seed loads the embedded sample catalog into the KV store so a
// fresh install has something to browse. Re-running replaces the snapshot,
// which makes it idempotent.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"tradeport/internal/catalog"
	"tradeport/internal/domain"
	"tradeport/internal/kv"
)

//go:embed catalog.yaml
var catalogYAML []byte

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Price       float64       `yaml:"price"`
	Category    string        `yaml:"category"`
	Brand       string        `yaml:"brand"`
	Stock       int           `yaml:"stock"`
	Images      []string      `yaml:"images"`
	Tags        []string      `yaml:"tags"`
	Variants    []seedVariant `yaml:"variants"`
}

type seedVariant struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
	Stock int     `yaml:"stock"`
}

// Products parses the embedded catalog.
func Products() ([]domain.Product, error) {
	var file seedFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	out := make([]domain.Product, 0, len(file.Products))
	for _, p := range file.Products {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("seed product missing id or name: %+v", p)
		}
		product := domain.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			PriceCents:  domain.CentsFromDecimal(p.Price),
			Category:    p.Category,
			Brand:       p.Brand,
			Stock:       p.Stock,
			Images:      p.Images,
			Tags:        p.Tags,
		}
		for _, v := range p.Variants {
			product.Variants = append(product.Variants, domain.Variant{
				ID:         v.ID,
				Name:       v.Name,
				PriceCents: domain.CentsFromDecimal(v.Price),
				Stock:      v.Stock,
			})
		}
		out = append(out, product)
	}
	return out, nil
}

// Apply writes the sample catalog snapshot to the KV store.
func Apply(ctx context.Context, store kv.Store) (int, error) {
	products, err := Products()
	if err != nil {
		return 0, err
	}
	snapshot := catalog.NewStore()
	snapshot.Replace(products)
	if err := snapshot.Persist(ctx, store); err != nil {
		return 0, fmt.Errorf("persist seed catalog: %w", err)
	}
	return len(products), nil
}
