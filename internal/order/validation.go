package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/appetiteclub/pos/internal/validation"
)

// ValidatePlaceOrder checks the request shape. Lines are reported with their
// 1-based position. resolvable reports whether a missing title or price can
// come from the catalog.
func ValidatePlaceOrder(ctx context.Context, req PlaceOrderRequest, resolvable bool) []string {
	errs := validation.Struct(req)

	mode, ok := ParseDiningMode(req.DiningMode)
	if !ok {
		errs = append(errs, fmt.Sprintf("unknown dining mode %q", req.DiningMode))
	}
	if mode == DiningDineIn && strings.TrimSpace(req.TableNumber) == "" {
		errs = append(errs, "tableNumber is required for dine in orders")
	}

	if len(req.Items) == 0 {
		return append(errs, "empty cart")
	}

	for i, line := range req.Items {
		n := i + 1
		canResolve := resolvable && line.MenuItemID != ""

		if line.Quantity <= 0 {
			errs = append(errs, fmt.Sprintf("quantity must be greater than 0 (item %d)", n))
		}
		if line.Price == nil && !canResolve {
			errs = append(errs, fmt.Sprintf("price is required (item %d)", n))
		}
		if line.Price != nil && *line.Price < 0 {
			errs = append(errs, fmt.Sprintf("price cannot be negative (item %d)", n))
		}
		if strings.TrimSpace(line.Title) == "" && !canResolve {
			errs = append(errs, fmt.Sprintf("title is required (item %d)", n))
		}
	}

	return errs
}

func ValidateStatusUpdate(ctx context.Context, req StatusUpdateRequest) []string {
	errs := validation.Struct(req)
	if req.Status != "" && !ValidStatus(req.Status) {
		errs = append(errs, fmt.Sprintf("unknown status %q", req.Status))
	}
	return errs
}
