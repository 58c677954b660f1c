package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
)

const (
	// MaxOrderLines caps the number of lines in one order.
	MaxOrderLines = 50
	// MaxLineQuantity caps the quantity of a single line.
	MaxLineQuantity = 50
)

// PriceTolerance is the largest accepted difference between a claimed and a catalog unit price.
var PriceTolerance = decimal.New(1, -2)

// CartLine is one requested line of an order, with the unit price the client believes it pays.
type CartLine struct {
	ProductID uuid.UUID
	Quantity  int
	Size      string
	Price     decimal.Decimal
}

// ProductLookup returns an orderable product, or an error wrapping
// apperrors.ErrProductUnavailable when there is none.
type ProductLookup func(ctx context.Context, id uuid.UUID) (*model.Product, error)

// PriceLines checks every line against the catalog and returns the priced items
// and the order total. The total is built from catalog prices only; claimed
// prices are compared but never used.
func PriceLines(ctx context.Context, lines []CartLine, lookup ProductLookup) ([]model.OrderItem, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, apperrors.ErrEmptyOrder
	}
	if len(lines) > MaxOrderLines {
		return nil, decimal.Zero, apperrors.ErrTooManyLines
	}

	items := make([]model.OrderItem, 0, len(lines))
	total := decimal.Zero

	for i, line := range lines {
		if line.Quantity < 1 || line.Quantity > MaxLineQuantity {
			return nil, decimal.Zero, fmt.Errorf("item %d: %w", i+1, apperrors.ErrInvalidQuantity)
		}

		product, err := lookup(ctx, line.ProductID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("item %d: %w", i+1, err)
		}

		price, err := authoritativePrice(product, line.Size)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("item %d (%s): %w", i+1, product.Name, err)
		}

		if line.Price.Sub(price).Abs().GreaterThan(PriceTolerance) {
			return nil, decimal.Zero, fmt.Errorf("item %d (%s): %w: expected %s, got %s",
				i+1, product.Name, apperrors.ErrPriceMismatch, price.StringFixed(2), line.Price.String())
		}

		lineTotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)

		items = append(items, model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   price,
			LineTotal:   lineTotal.Round(2),
		})
	}

	return items, total.Round(2), nil
}

// authoritativePrice resolves the catalog price for a product and optional size.
// A named size must match a variant exactly, even when the product has no variants.
func authoritativePrice(product *model.Product, size string) (decimal.Decimal, error) {
	if size == "" {
		return product.Price, nil
	}
	variant, ok := product.FindSize(size)
	if !ok {
		return decimal.Zero, apperrors.ErrInvalidSize
	}
	return variant.Price, nil
}
