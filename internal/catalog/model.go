package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a distributor-owned catalog entry. Quantity is the available stock;
// checkout decrements it, the owning distributor may set it directly.
type Product struct {
	ID            string          `json:"id"`
	DistributorID string          `json:"distributorId"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	ImageURL      *string         `json:"imageUrl,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string         `json:"imageUrl" validate:"omitempty,url"`
	Price       decimal.Decimal `json:"price" validate:"gte=0.01"`
	Quantity    int             `json:"quantity" validate:"gte=0,lte=2147483647"`
}
