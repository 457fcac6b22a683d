package order

import (
	"time"

	"wholesale-be/internal/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// mergeLines collapses repeated product ids into one line, keeping the
// position of the first occurrence.
func mergeLines(lines []CheckoutLine) []CheckoutLine {
	index := make(map[string]int, len(lines))
	merged := make([]CheckoutLine, 0, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ProductID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged
}

// SplitByDistributor groups validated lines by the distributor that owns each
// product. Groups come back in the order their distributor first appears.
func SplitByDistributor(lines []CheckoutLine, products map[string]catalog.Product) [][]CheckoutLine {
	index := map[string]int{}
	var groups [][]CheckoutLine
	for _, l := range lines {
		owner := products[l.ProductID].DistributorID
		i, ok := index[owner]
		if !ok {
			i = len(groups)
			index[owner] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], l)
	}
	return groups
}

// buildOrders turns each distributor group into a PENDING order. Prices and
// snapshots come from the locked catalog rows, never from the request.
func buildOrders(outletID string, groups [][]CheckoutLine, products map[string]catalog.Product, now time.Time) []Order {
	orders := make([]Order, 0, len(groups))
	for _, group := range groups {
		o := Order{
			ID:            uuid.New().String(),
			OutletID:      outletID,
			DistributorID: products[group[0].ProductID].DistributorID,
			Total:         decimal.Zero,
			Status:        StatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
			Items:         make([]LineItem, 0, len(group)),
		}

		for _, l := range group {
			p := products[l.ProductID]
			productID := p.ID
			item := LineItem{
				ID:        uuid.New().String(),
				OrderID:   o.ID,
				ProductID: &productID,
				Quantity:  l.Quantity,
				UnitPrice: p.Price,
				Snapshot: Snapshot{
					Name:          p.Name,
					Description:   p.Description,
					ImageURL:      p.ImageURL,
					DistributorID: p.DistributorID,
				},
				Reorderable: true,
			}
			o.Total = o.Total.Add(item.Total())
			o.Items = append(o.Items, item)
		}

		orders = append(orders, o)
	}
	return orders
}
