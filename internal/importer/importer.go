// Package importer reads catalog CSV exports and folds them into the stored
// catalog snapshot. Rows carry one product each except image continuation
// rows, which extend the preceding product's image list.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"tradeport/internal/catalog"
	"tradeport/internal/domain"
	"tradeport/internal/kv"
)

// CSVImporter parses storefront catalog exports into canonical products.
type CSVImporter struct {
	reader *csv.Reader
	logger *log.Logger
}

func NewCSVImporter(r io.Reader, logger *log.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, logger: logger}
}

type csvRow struct {
	ID        string
	Name      string
	Desc      string
	Category  string
	Brand     string
	Cents     int64
	Stock     int
	Tags      []string
	ImageURLs []string
}

// Run parses the CSV and returns the products it describes. Rows missing an
// id or name are logged and skipped.
func (i *CSVImporter) Run(_ context.Context) ([]domain.Product, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		products []domain.Product
	)

	flush := func() {
		if current == nil {
			return
		}
		p, err := current.toProduct()
		if err != nil {
			if i.logger != nil {
				i.logger.Printf("skipping import row: %v", err)
			}
		} else {
			products = append(products, p)
		}
		current = nil
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return products, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.ID != "" {
			flush()
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil && len(row.ImageURLs) > 0 {
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
		}
	}
	flush()

	return products, nil
}

// Import parses the CSV and merges the result into the stored catalog
// snapshot, replacing products with matching identifiers. It returns the
// number of imported products.
func Import(ctx context.Context, r io.Reader, store kv.Store, logger *log.Logger) (int, error) {
	imported, err := NewCSVImporter(r, logger).Run(ctx)
	if err != nil {
		return 0, err
	}

	snapshot := catalog.NewStore()
	if err := snapshot.Hydrate(ctx, store); err != nil {
		return 0, err
	}
	merged := mergeProducts(snapshot.All(), imported)
	snapshot.Replace(merged)
	if err := snapshot.Persist(ctx, store); err != nil {
		return 0, err
	}
	return len(imported), nil
}

func mergeProducts(existing, imported []domain.Product) []domain.Product {
	byID := make(map[string]int, len(existing))
	out := make([]domain.Product, len(existing))
	copy(out, existing)
	for i, p := range out {
		byID[p.ID] = i
	}
	for _, p := range imported {
		if i, ok := byID[p.ID]; ok {
			out[i] = p
			continue
		}
		byID[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

func (r *csvRow) toProduct() (domain.Product, error) {
	if r.ID == "" || r.Name == "" {
		return domain.Product{}, fmt.Errorf("product row missing id or name (id %q)", r.ID)
	}
	if r.Cents < 0 {
		return domain.Product{}, fmt.Errorf("product %q has negative price", r.ID)
	}
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Desc,
		PriceCents:  r.Cents,
		Category:    r.Category,
		Brand:       r.Brand,
		Stock:       r.Stock,
		Tags:        r.Tags,
		Images:      r.ImageURLs,
	}, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	id := pick(record, index, "id")
	name := pick(record, index, "name")
	if name == "" {
		name = pick(record, index, "title")
	}
	imageURL := pick(record, index, "image")

	if id == "" && imageURL == "" {
		return nil
	}

	var cents int64
	if priceStr := pick(record, index, "price"); priceStr != "" {
		cents, _ = domain.ParseCents(priceStr)
	}
	var stock int
	if stockStr := pick(record, index, "stock"); stockStr != "" {
		stock, _ = strconv.Atoi(stockStr)
	}
	var tags []string
	if tagStr := pick(record, index, "tags"); tagStr != "" {
		for _, tag := range strings.Split(tagStr, "|") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	row := &csvRow{
		ID:       id,
		Name:     name,
		Desc:     pick(record, index, "description"),
		Category: pick(record, index, "category"),
		Brand:    pick(record, index, "brand"),
		Cents:    cents,
		Stock:    stock,
		Tags:     tags,
	}
	if imageURL != "" {
		row.ImageURLs = []string{imageURL}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
