package tables

import (
	"context"
	"strings"

	"github.com/appetiteclub/pos/internal/validation"
)

type TableCreateRequest struct {
	Number   string `json:"number" validate:"required,max=16"`
	Capacity int    `json:"capacity" validate:"gte=0,lte=100"`
}

func ValidateTableCreate(ctx context.Context, req TableCreateRequest) []string {
	req.Number = strings.TrimSpace(req.Number)
	return validation.Struct(req)
}
