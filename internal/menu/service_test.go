package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/appetiteclub/pos/internal/apperr"
	"github.com/appetiteclub/pos/internal/kv"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	store := kv.NewMemory()

	categories := []Category{
		{ID: "cat1", Name: "All", Icon: "Grid"},
		{ID: "cat2", Name: "Breakfast", Icon: "Coffee"},
		{ID: "cat6", Name: "Burgers", Icon: "Sandwich"},
	}
	items := []MenuItem{
		{ID: "item1", Title: "Vegetable Salad", Price: 17.99, Category: "cat2", Type: TypeVeg, Available: true},
		{ID: "item2", Title: "Meat Burger", Price: 23.99, Category: "cat6", Type: TypeNonVeg, Available: true},
		{ID: "item4", Title: "Orange Juice", Price: 12.99, Category: "cat2", Type: TypeVeg, Available: false},
	}
	if err := kv.NewCollection[Category](store, kv.MenuCategories).Save(ctx, categories); err != nil {
		t.Fatalf("seed categories: %v", err)
	}
	if err := kv.NewCollection[MenuItem](store, kv.MenuItems).Save(ctx, items); err != nil {
		t.Fatalf("seed items: %v", err)
	}
	return NewService(store, nil)
}

func TestServiceListItems(t *testing.T) {
	tests := []struct {
		name     string
		category string
		wantIDs  []string
	}{
		{name: "emptyCategoryReturnsAll", category: "", wantIDs: []string{"item1", "item2", "item4"}},
		{name: "allCategoryByID", category: "cat1", wantIDs: []string{"item1", "item2", "item4"}},
		{name: "allCategoryByName", category: "all", wantIDs: []string{"item1", "item2", "item4"}},
		{name: "byCategoryID", category: "cat2", wantIDs: []string{"item1", "item4"}},
		{name: "byCategoryName", category: "Burgers", wantIDs: []string{"item2"}},
		{name: "unknownCategory", category: "cat9", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)

			items, err := s.ListItems(context.Background(), tt.category)
			if err != nil {
				t.Fatalf("ListItems() error = %v", err)
			}
			if len(items) != len(tt.wantIDs) {
				t.Fatalf("ListItems() returned %d items, want %d", len(items), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if items[i].ID != id {
					t.Errorf("ListItems()[%d].ID = %q, want %q", i, items[i].ID, id)
				}
			}
		})
	}
}

func TestServiceCreateItem(t *testing.T) {
	tests := []struct {
		name    string
		req     ItemRequest
		wantErr error
	}{
		{
			name: "validItem",
			req:  ItemRequest{Title: "Tomato Soup", Price: 6.5, Category: "cat3", Type: TypeVeg},
		},
		{
			name:    "missingTitle",
			req:     ItemRequest{Title: "  ", Price: 6.5, Category: "cat3", Type: TypeVeg},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "negativePrice",
			req:     ItemRequest{Title: "Soup", Price: -1, Category: "cat3", Type: TypeVeg},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "unknownType",
			req:     ItemRequest{Title: "Soup", Price: 1, Category: "cat3", Type: "Vegan"},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "discountOutOfRange",
			req:     ItemRequest{Title: "Soup", Price: 1, Category: "cat3", Type: TypeVeg, Discount: floatPtr(120)},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)

			item, err := s.CreateItem(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateItem() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateItem() error = %v", err)
			}
			if item.ID == "" || !item.Available || item.Image != PlaceholderImage {
				t.Errorf("CreateItem() defaults not applied: %+v", item)
			}

			got, err := s.GetItem(context.Background(), item.ID)
			if err != nil || got.Title != tt.req.Title {
				t.Errorf("GetItem() = %+v, %v", got, err)
			}
		})
	}
}

func TestServiceUpdateItemIsPartial(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	price := 19.5
	available := false
	item, err := s.UpdateItem(ctx, "item1", ItemUpdate{Price: &price, Available: &available})
	if err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}

	if item.Price != 19.5 || item.Available {
		t.Errorf("UpdateItem() did not apply fields: %+v", item)
	}
	if item.Title != "Vegetable Salad" || item.Category != "cat2" || item.Type != TypeVeg {
		t.Errorf("UpdateItem() changed untouched fields: %+v", item)
	}
}

func TestServiceUpdateItemErrors(t *testing.T) {
	blank := " "
	badType := "Fish"

	tests := []struct {
		name    string
		id      string
		update  ItemUpdate
		wantErr error
	}{
		{name: "unknownItem", id: "item99", update: ItemUpdate{}, wantErr: apperr.ErrNotFound},
		{name: "blankTitle", id: "item1", update: ItemUpdate{Title: &blank}, wantErr: apperr.ErrValidation},
		{name: "badType", id: "item1", update: ItemUpdate{Type: &badType}, wantErr: apperr.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)
			if _, err := s.UpdateItem(context.Background(), tt.id, tt.update); !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateItem() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestServiceDeleteItem(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if err := s.DeleteItem(ctx, "item2"); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	if _, err := s.GetItem(ctx, "item2"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetItem() after delete error = %v, want not found", err)
	}
	if err := s.DeleteItem(ctx, "item2"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second DeleteItem() error = %v, want not found", err)
	}

	items, _ := s.ListItems(ctx, "")
	if len(items) != 2 {
		t.Errorf("ListItems() after delete = %d items, want 2", len(items))
	}
}

func TestServiceCreateCategory(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	category, err := s.CreateCategory(ctx, CategoryRequest{Name: "Desserts"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if category.Icon != DefaultIcon {
		t.Errorf("CreateCategory() Icon = %q, want %q", category.Icon, DefaultIcon)
	}

	if _, err := s.CreateCategory(ctx, CategoryRequest{Name: "breakfast"}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("duplicate CreateCategory() error = %v, want validation", err)
	}

	categories, _ := s.ListCategories(ctx)
	if len(categories) != 4 {
		t.Errorf("ListCategories() = %d, want 4", len(categories))
	}
}

func TestServiceLookup(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		wantTitle string
		wantPrice float64
		wantErr   error
	}{
		{name: "availableItem", id: "item2", wantTitle: "Meat Burger", wantPrice: 23.99},
		{name: "unavailableItem", id: "item4", wantErr: apperr.ErrValidation},
		{name: "unknownItem", id: "item99", wantErr: apperr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)

			title, price, err := s.Lookup(context.Background(), tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Lookup() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if title != tt.wantTitle || price != tt.wantPrice {
				t.Errorf("Lookup() = %q, %v; want %q, %v", title, price, tt.wantTitle, tt.wantPrice)
			}
		})
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
