package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pawpals/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

// CSVImporter reads a product catalog CSV and inserts/updates products by name.
// Expected headers: name, description, price, stock, image_url, category, rating.
// Only name and price are required.
type CSVImporter struct {
	reader       *csv.Reader
	productRepo  ProductWriter
	categoryRepo CategoryWriter
	categories   map[string]int64
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:       csvr,
		productRepo:  products,
		categoryRepo: categories,
		categories:   map[string]int64{},
	}
}

// Run upserts every data row and returns the number of products written.
// Blank lines are skipped; the first invalid row stops the import.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("missing name column")
	}
	if _, ok := index["price"]; !ok {
		return 0, errors.New("missing price column")
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		p, category, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		if category != "" {
			id, err := i.categoryID(ctx, category)
			if err != nil {
				return imported, fmt.Errorf("row %d: %w", line, err)
			}
			p.CategoryID = &id
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
		imported++
	}
	return imported, nil
}

func (i *CSVImporter) categoryID(ctx context.Context, name string) (int64, error) {
	key := strings.ToLower(name)
	if id, ok := i.categories[key]; ok {
		return id, nil
	}
	if i.categoryRepo == nil {
		return 0, fmt.Errorf("category %q given but no category store configured", name)
	}
	c, err := i.categoryRepo.Upsert(ctx, domain.Category{Name: name})
	if err != nil {
		return 0, fmt.Errorf("upsert category %q: %w", name, err)
	}
	i.categories[key] = c.ID
	return c.ID, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, string, error) {
	p := domain.Product{
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		ImageURL:    pick(record, index, "image_url"),
	}
	if p.Name == "" {
		return p, "", errors.New("name is required")
	}

	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil || price.IsNegative() {
		return p, "", fmt.Errorf("invalid price for %q", p.Name)
	}
	p.Price = price

	if raw := pick(record, index, "stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return p, "", fmt.Errorf("invalid stock for %q", p.Name)
		}
		p.Stock = stock
	}
	if raw := pick(record, index, "rating"); raw != "" {
		rating, err := decimal.NewFromString(raw)
		if err != nil || rating.IsNegative() || rating.GreaterThan(decimal.NewFromInt(5)) {
			return p, "", fmt.Errorf("invalid rating for %q", p.Name)
		}
		p.Rating = rating
	}
	return p, pick(record, index, "category"), nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
