package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/appetiteclub/pos/internal/validation"
)

func ValidateCreateItem(ctx context.Context, req ItemRequest) []string {
	req.Title = strings.TrimSpace(req.Title)
	errs := validation.Struct(req)
	if req.Type != "" && !validType(req.Type) {
		errs = append(errs, fmt.Sprintf("type must be %q or %q", TypeVeg, TypeNonVeg))
	}
	return errs
}

func ValidateUpdateItem(ctx context.Context, u ItemUpdate) []string {
	errs := validation.Struct(u)
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Category != nil && strings.TrimSpace(*u.Category) == "" {
		errs = append(errs, "category cannot be empty")
	}
	if u.Type != nil && !validType(*u.Type) {
		errs = append(errs, fmt.Sprintf("type must be %q or %q", TypeVeg, TypeNonVeg))
	}
	return errs
}

func ValidateCreateCategory(ctx context.Context, req CategoryRequest) []string {
	return validation.Struct(req)
}
