package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"temo/internal/domain"
)

type CategoryWriter interface {
	UpsertByName(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type ProductWriter interface {
	UpsertByName(ctx context.Context, p domain.Product) (*domain.Product, error)
}

// Result counts what an import touched.
type Result struct {
	Categories int
	Products   int
}

// CSVImporter reads a menu sheet and upserts categories and products by
// their Arabic name. Required columns: kind, category, name, price.
type CSVImporter struct {
	reader     *csv.Reader
	categories CategoryWriter
	products   ProductWriter
	logger     *zap.Logger

	// category ids keyed by kind and name, filled as rows are read
	seen map[string]string
}

func NewCSVImporter(r io.Reader, categories CategoryWriter, products ProductWriter, logger *zap.Logger) *CSVImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:     csvr,
		categories: categories,
		products:   products,
		logger:     logger,
		seen:       make(map[string]string),
	}
}

type csvRow struct {
	Line            int
	Kind            domain.Kind
	Category        string
	Name            string
	Description     string
	Price           decimal.Decimal
	Available       bool
	Featured        bool
	DisplayOrder    int
	IngredientsAr   string
	IngredientsEn   string
	PreparationTime int
	Size            string
	ImageURL        string
}

// Run imports every row and stops at the first invalid one.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"kind", "category", "name", "price"} {
		if _, ok := index[required]; !ok {
			return res, fmt.Errorf("missing column %q", required)
		}
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		row, err := parseRow(record, index, line)
		if err != nil {
			return res, err
		}
		created, err := i.ensureCategory(ctx, row)
		if err != nil {
			return res, err
		}
		if created {
			res.Categories++
		}
		if err := i.saveProduct(ctx, row); err != nil {
			return res, err
		}
		res.Products++
	}

	i.logger.Info("import finished", zap.Int("categories", res.Categories), zap.Int("products", res.Products))
	return res, nil
}

func (i *CSVImporter) ensureCategory(ctx context.Context, row *csvRow) (bool, error) {
	key := string(row.Kind) + "/" + row.Category
	if _, ok := i.seen[key]; ok {
		return false, nil
	}
	c, err := i.categories.UpsertByName(ctx, domain.Category{
		Kind:     row.Kind,
		NameAr:   row.Category,
		IsActive: true,
	})
	if err != nil {
		return false, fmt.Errorf("row %d: upsert category %q: %w", row.Line, row.Category, err)
	}
	i.seen[key] = c.ID
	return true, nil
}

func (i *CSVImporter) saveProduct(ctx context.Context, row *csvRow) error {
	p := domain.Product{
		Kind:          row.Kind,
		CategoryID:    i.seen[string(row.Kind)+"/"+row.Category],
		NameAr:        row.Name,
		DescriptionAr: row.Description,
		Price:         row.Price,
		IsAvailable:   row.Available,
		IsFeatured:    row.Featured,
		DisplayOrder:  row.DisplayOrder,
		ImageURL:      row.ImageURL,
	}
	switch row.Kind {
	case domain.KindFood:
		p.IngredientsAr = row.IngredientsAr
		p.IngredientsEn = row.IngredientsEn
		p.PreparationTime = row.PreparationTime
	case domain.KindDrink:
		p.Size = row.Size
	}
	if _, err := i.products.UpsertByName(ctx, p); err != nil {
		return fmt.Errorf("row %d: upsert product %q: %w", row.Line, row.Name, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	kind, ok := domain.ParseKind(pick(record, index, "kind"))
	if !ok {
		return nil, fmt.Errorf("row %d: %w: unknown kind %q", line, domain.ErrInvalidInput, pick(record, index, "kind"))
	}
	row := &csvRow{
		Line:          line,
		Kind:          kind,
		Category:      pick(record, index, "category"),
		Name:          pick(record, index, "name"),
		Description:   pick(record, index, "description"),
		IngredientsAr: pick(record, index, "ingredients_ar"),
		IngredientsEn: pick(record, index, "ingredients_en"),
		Size:          pick(record, index, "size"),
		ImageURL:      pick(record, index, "image_url"),
	}
	if row.Category == "" || row.Name == "" {
		return nil, fmt.Errorf("row %d: %w: category and name are required", line, domain.ErrInvalidInput)
	}

	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil || price.IsNegative() {
		return nil, fmt.Errorf("row %d: %w: invalid price %q", line, domain.ErrInvalidInput, pick(record, index, "price"))
	}
	row.Price = price.Round(2)

	if row.Available, err = boolOr(pick(record, index, "available"), true); err != nil {
		return nil, fmt.Errorf("row %d: available: %w", line, err)
	}
	if row.Featured, err = boolOr(pick(record, index, "featured"), false); err != nil {
		return nil, fmt.Errorf("row %d: featured: %w", line, err)
	}
	if row.DisplayOrder, err = cast.ToIntE(orZero(pick(record, index, "display_order"))); err != nil {
		return nil, fmt.Errorf("row %d: display_order: %w", line, err)
	}
	if row.PreparationTime, err = cast.ToIntE(orZero(pick(record, index, "preparation_time"))); err != nil {
		return nil, fmt.Errorf("row %d: preparation_time: %w", line, err)
	}
	return row, nil
}

func boolOr(raw string, def bool) (bool, error) {
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(raw) {
	case "yes", "y", "نعم":
		return true, nil
	case "no", "n", "لا":
		return false, nil
	}
	return cast.ToBoolE(raw)
}

func orZero(raw string) string {
	if raw == "" {
		return "0"
	}
	return raw
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
