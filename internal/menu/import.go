package menu

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/appetiteclub/pos/internal/apperr"
	"github.com/xuri/excelize/v2"
)

// ImportColumns lists the header names ImportItems understands.
var ImportColumns = []string{"title", "description", "price", "category", "type", "discount", "available"}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportItems reads menu items from the first sheet of an xlsx workbook. The
// first row is a header; rows that fail validation are skipped and reported.
func (s *Service) ImportItems(ctx context.Context, r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, apperr.Validation("cannot read workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return ImportResult{}, apperr.Validation("cannot read sheet: %v", err)
	}
	if len(rows) == 0 {
		return ImportResult{}, apperr.Validation("workbook is empty")
	}

	columns := headerIndex(rows[0])
	if _, ok := columns["title"]; !ok {
		return ImportResult{}, apperr.Validation("missing title column")
	}
	if _, ok := columns["price"]; !ok {
		return ImportResult{}, apperr.Validation("missing price column")
	}

	categories, err := s.categories.Load(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	var (
		result ImportResult
		items  []MenuItem
	)
	now := s.now()

	for n, row := range rows[1:] {
		line := n + 2
		if blank(row) {
			continue
		}

		req, err := parseRow(row, columns)
		if err == nil {
			req.Category = resolveCategory(categories, req.Category)
			if errs := ValidateCreateItem(ctx, req); len(errs) > 0 {
				err = fmt.Errorf("%s", strings.Join(errs, "; "))
			}
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		items = append(items, newMenuItem(req, now))
	}

	if len(items) > 0 {
		err = s.items.Mutate(ctx, func(current []MenuItem) ([]MenuItem, error) {
			return append(current, items...), nil
		})
		if err != nil {
			return ImportResult{}, err
		}
	}

	result.Imported = len(items)
	s.logger.Info("menu items imported", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// resolveCategory maps a category name from the sheet onto its id.
func resolveCategory(categories []Category, value string) string {
	for _, c := range categories {
		if c.ID == value || strings.EqualFold(c.Name, value) {
			return c.ID
		}
	}
	return value
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key != "" {
			idx[key] = i
		}
	}
	return idx
}

func parseRow(row []string, columns map[string]int) (ItemRequest, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	req := ItemRequest{
		Title:       cell("title"),
		Description: cell("description"),
		Category:    cell("category"),
		Type:        cell("type"),
	}
	if req.Type == "" {
		req.Type = TypeVeg
	}

	price, err := strconv.ParseFloat(cell("price"), 64)
	if err != nil {
		return ItemRequest{}, fmt.Errorf("invalid price %q", cell("price"))
	}
	req.Price = price

	if raw := cell("discount"); raw != "" {
		discount, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if err != nil {
			return ItemRequest{}, fmt.Errorf("invalid discount %q", raw)
		}
		req.Discount = &discount
	}

	if raw := cell("available"); raw != "" {
		available, err := parseBool(raw)
		if err != nil {
			return ItemRequest{}, err
		}
		req.Available = &available
	}

	return req, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid available %q", raw)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
