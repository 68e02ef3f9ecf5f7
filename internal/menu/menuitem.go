package menu

import (
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
)

const (
	TypeVeg    = "Veg"
	TypeNonVeg = "Non Veg"
)

const (
	PlaceholderImage = "/placeholder.svg?height=200&width=200"
	DefaultIcon      = "Grid"
	// AllCategoryName is the pseudo category that lists every item.
	AllCategoryName = "All"
)

// MenuItem is an orderable dish or drink. Discount is informational and never
// applied to order prices.
type MenuItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Type        string    `json:"type"`
	Discount    *float64  `json:"discount,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func validType(t string) bool {
	return t == TypeVeg || t == TypeNonVeg
}

// ItemRequest creates a menu item.
type ItemRequest struct {
	Title       string   `json:"title" validate:"required,max=120"`
	Description string   `json:"description" validate:"max=500"`
	Price       float64  `json:"price" validate:"gte=0"`
	Category    string   `json:"category" validate:"required"`
	Image       string   `json:"image"`
	Type        string   `json:"type" validate:"required"`
	Discount    *float64 `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Available   *bool    `json:"available,omitempty"`
}

// ItemUpdate carries a partial update; nil fields keep the stored value.
type ItemUpdate struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,max=120"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category    *string  `json:"category,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Discount    *float64 `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Available   *bool    `json:"available,omitempty"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=60"`
	Icon string `json:"icon" validate:"max=60"`
}

func newMenuItem(req ItemRequest, now time.Time) MenuItem {
	item := MenuItem{
		ID:          aqm.GenerateNewID().String(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Type:        req.Type,
		Discount:    req.Discount,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.Image == "" {
		item.Image = PlaceholderImage
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	return item
}

func (m *MenuItem) apply(u ItemUpdate, now time.Time) {
	if u.Title != nil {
		m.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Price != nil {
		m.Price = *u.Price
	}
	if u.Category != nil {
		m.Category = *u.Category
	}
	if u.Image != nil {
		m.Image = *u.Image
	}
	if u.Type != nil {
		m.Type = *u.Type
	}
	if u.Discount != nil {
		m.Discount = u.Discount
	}
	if u.Available != nil {
		m.Available = *u.Available
	}
	m.UpdatedAt = now
}
