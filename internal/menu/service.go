package menu

import (
	"context"
	"strings"
	"time"

	"github.com/appetiteclub/pos/internal/apperr"
	"github.com/appetiteclub/pos/internal/kv"
	"github.com/aquamarinepk/aqm"
)

// Service manages the menu catalog.
type Service struct {
	items      *kv.Collection[MenuItem]
	categories *kv.Collection[Category]
	logger     aqm.Logger
	now        func() time.Time
}

func NewService(store kv.Store, logger aqm.Logger) *Service {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Service{
		items:      kv.NewCollection[MenuItem](store, kv.MenuItems),
		categories: kv.NewCollection[Category](store, kv.MenuCategories),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateItem(ctx context.Context, req ItemRequest) (*MenuItem, error) {
	if errs := ValidateCreateItem(ctx, req); len(errs) > 0 {
		return nil, apperr.Validation("%s", strings.Join(errs, "; "))
	}

	item := newMenuItem(req, s.now())
	err := s.items.Mutate(ctx, func(items []MenuItem) ([]MenuItem, error) {
		return append(items, item), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("menu item created", "id", item.ID, "title", item.Title)
	return &item, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (*MenuItem, error) {
	items, err := s.items.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, apperr.NotFound("menu item %s", id)
}

// ListItems returns the items of a category, matched by id or name. An empty
// category or the "All" category returns every item.
func (s *Service) ListItems(ctx context.Context, category string) ([]MenuItem, error) {
	items, err := s.items.Load(ctx)
	if err != nil {
		return nil, err
	}

	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, AllCategoryName) {
		return items, nil
	}

	categories, err := s.categories.Load(ctx)
	if err != nil {
		return nil, err
	}

	id := category
	for _, c := range categories {
		if c.ID == category || strings.EqualFold(c.Name, category) {
			if strings.EqualFold(c.Name, AllCategoryName) {
				return items, nil
			}
			id = c.ID
			break
		}
	}

	filtered := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if item.Category == id {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *Service) UpdateItem(ctx context.Context, id string, u ItemUpdate) (*MenuItem, error) {
	if errs := ValidateUpdateItem(ctx, u); len(errs) > 0 {
		return nil, apperr.Validation("%s", strings.Join(errs, "; "))
	}

	var updated MenuItem
	err := s.items.Mutate(ctx, func(items []MenuItem) ([]MenuItem, error) {
		for i := range items {
			if items[i].ID == id {
				items[i].apply(u, s.now())
				updated = items[i]
				return items, nil
			}
		}
		return nil, apperr.NotFound("menu item %s", id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	return s.items.Mutate(ctx, func(items []MenuItem) ([]MenuItem, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, apperr.NotFound("menu item %s", id)
	})
}

func (s *Service) CreateCategory(ctx context.Context, req CategoryRequest) (*Category, error) {
	if errs := ValidateCreateCategory(ctx, req); len(errs) > 0 {
		return nil, apperr.Validation("%s", strings.Join(errs, "; "))
	}

	category := Category{
		ID:   aqm.GenerateNewID().String(),
		Name: strings.TrimSpace(req.Name),
		Icon: req.Icon,
	}
	if category.Icon == "" {
		category.Icon = DefaultIcon
	}

	err := s.categories.Mutate(ctx, func(categories []Category) ([]Category, error) {
		for _, c := range categories {
			if strings.EqualFold(c.Name, category.Name) {
				return nil, apperr.Validation("category %q already exists", category.Name)
			}
		}
		return append(categories, category), nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.categories.Load(ctx)
}

// Lookup resolves the title and price an order line snapshots.
func (s *Service) Lookup(ctx context.Context, id string) (string, float64, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return "", 0, err
	}
	if !item.Available {
		return "", 0, apperr.Validation("menu item %s is not available", id)
	}
	return item.Title, item.Price, nil
}
