package command

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidCommand = errors.New("invalid command")

var validate = validator.New()

func validateCommand(cmd any) error {
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	return nil
}

// Session Commands
type LoadProducts struct {
	SessionID string `json:"session_id" validate:"required"`
}

type ResetSession struct {
	SessionID string `json:"session_id" validate:"required"`
}

type EndSession struct {
	SessionID string `json:"session_id" validate:"required"`
}

// Filter Commands
type SetCategoryFilter struct {
	SessionID  string   `json:"session_id" validate:"required"`
	Categories []string `json:"categories" validate:"dive,required"`
}

type SetBrandFilter struct {
	SessionID string   `json:"session_id" validate:"required"`
	Brands    []string `json:"brands" validate:"dive,required"`
}

type SetPriceFilter struct {
	SessionID string `json:"session_id" validate:"required"`
	Min       int    `json:"min" validate:"gte=0"`
	Max       int    `json:"max" validate:"gtefield=Min,lte=200000"` // catalog.MaxPriceCeiling
}

type SetInStockOnly struct {
	SessionID   string `json:"session_id" validate:"required"`
	InStockOnly bool   `json:"in_stock_only"`
}

type ClearFilters struct {
	SessionID string `json:"session_id" validate:"required"`
}

// Sort Commands
type SetSortKey struct {
	SessionID string `json:"session_id" validate:"required"`
	SortBy    string `json:"sort_by" validate:"required"`
}

// Comparison Commands
type AddToComparison struct {
	SessionID string `json:"session_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
}

type RemoveFromComparison struct {
	SessionID string `json:"session_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
}

type ClearComparison struct {
	SessionID string `json:"session_id" validate:"required"`
}

type ToggleComparisonView struct {
	SessionID string `json:"session_id" validate:"required"`
}
