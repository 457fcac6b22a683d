package order

import (
	"context"
	"math"

	"wholesale-be/internal/catalog"
)

// ProductLocker resolves products for a checkout and holds them against
// concurrent writers until the surrounding transaction ends.
type ProductLocker interface {
	LockProducts(ctx context.Context, productIDs []string) (map[string]catalog.Product, error)
}

// ValidateStock resolves every line against the locked catalog rows. Existence
// is checked for all lines first, then availability, then price. Quantities of
// repeated product ids are summed before comparing with stock.
func ValidateStock(ctx context.Context, locker ProductLocker, lines []CheckoutLine) (map[string]catalog.Product, error) {
	products, err := locker.LockProducts(ctx, productIDs(lines))
	if err != nil {
		return nil, err
	}

	for _, l := range lines {
		if _, ok := products[l.ProductID]; !ok {
			return nil, ErrProductNotFound.With("productId", l.ProductID)
		}
	}

	requested := make(map[string]int, len(products))
	for _, l := range lines {
		if l.Quantity < 0 {
			return nil, ErrInvalidQuantity.
				With("productId", l.ProductID).
				With("quantity", l.Quantity)
		}
		requested[l.ProductID] = addQuantity(requested[l.ProductID], l.Quantity)
	}
	for _, id := range productIDs(lines) {
		p := products[id]
		if requested[id] > p.Quantity {
			return nil, ErrInsufficientStock.
				With("productId", p.ID).
				With("name", p.Name).
				With("available", p.Quantity).
				With("requested", requested[id])
		}
	}

	for _, l := range lines {
		p := products[l.ProductID]
		if !l.UnitPrice.Equal(p.Price) {
			return nil, ErrPriceMismatch.
				With("productId", p.ID).
				With("name", p.Name).
				With("currentPrice", p.Price.StringFixed(2)).
				With("submittedPrice", l.UnitPrice.String())
		}
	}

	return products, nil
}

// addQuantity sums two non-negative quantities, saturating at math.MaxInt so
// an oversized total can never wrap below the available stock.
func addQuantity(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// productIDs returns the distinct ids in first-seen order.
func productIDs(lines []CheckoutLine) []string {
	seen := make(map[string]bool, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true
		ids = append(ids, l.ProductID)
	}
	return ids
}
