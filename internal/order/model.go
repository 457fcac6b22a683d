package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusShipped   Status = "SHIPPED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order belongs to exactly one outlet and one distributor. Total is fixed at
// creation.
type Order struct {
	ID            string          `json:"id"`
	OutletID      string          `json:"outletId"`
	DistributorID string          `json:"distributorId"`
	Total         decimal.Decimal `json:"total"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Items         []LineItem      `json:"items"`
}

// Snapshot is the product data as it was when the order was placed.
type Snapshot struct {
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	ImageURL      *string `json:"imageUrl,omitempty"`
	DistributorID string  `json:"distributorId"`
}

type LineItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	ProductID *string         `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Snapshot  Snapshot        `json:"product"`

	// Reorderable reports whether the referenced product still exists.
	Reorderable bool `json:"reorderable"`
}

func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// CheckoutLine is one requested line of a checkout, priced as the caller saw it.
type CheckoutLine struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// MaxLineQuantity bounds a single checkout line. It stays well inside the
// int4 quantity column.
const MaxLineQuantity = 1000000

type PlaceOrderItem struct {
	ProductID string          `json:"productId" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"gt=0,lte=1000000"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"gt=0"`
}

type PlaceOrderRequest struct {
	Items []PlaceOrderItem `json:"items" validate:"required,min=1,max=100,dive"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required"`
}

type Filter struct {
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Page     int
}

type Summary struct {
	TotalOrders int             `json:"totalOrders"`
	Pending     int             `json:"pending"`
	Completed   int             `json:"completed"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	LastOrderAt *time.Time      `json:"lastOrderAt"`
}

// Caller identifies who is reading an order.
type Caller struct {
	UserID   string
	Role     string
	OutletID string
}
