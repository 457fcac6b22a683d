package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"wholesale-be/internal/catalog"
)

// memStore is an in-memory Repository. Transactions are serialized by a single
// mutex and restore the previous state when fn fails.
type memStore struct {
	mu       sync.Mutex
	products map[string]catalog.Product
	orders   map[string]Order
	seq      []string

	failInsertAt int
	inserts      int
}

var errInjected = errors.New("injected write failure")

func newMemStore(products ...catalog.Product) *memStore {
	m := &memStore{
		products: make(map[string]catalog.Product),
		orders:   make(map[string]Order),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx TxRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	products := make(map[string]catalog.Product, len(m.products))
	for k, v := range m.products {
		products[k] = v
	}
	orders := make(map[string]Order, len(m.orders))
	for k, v := range m.orders {
		orders[k] = v
	}
	seq := append([]string(nil), m.seq...)

	if err := fn(&memTx{m: m}); err != nil {
		m.products, m.orders, m.seq = products, orders, seq
		return err
	}
	return nil
}

func (m *memStore) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o = m.withReorderable(o)
	return &o, nil
}

func (m *memStore) ListByOutlet(ctx context.Context, outletID string) ([]Order, error) {
	return m.list(func(o Order) bool { return o.OutletID == outletID }), nil
}

func (m *memStore) ListByDistributor(ctx context.Context, distributorID string, filter Filter) ([]Order, error) {
	return m.list(func(o Order) bool {
		return o.DistributorID == distributorID && (filter.Status == nil || o.Status == *filter.Status)
	}), nil
}

func (m *memStore) OutletSummary(ctx context.Context, outletID string) (*Summary, error) {
	s := &Summary{}
	for _, o := range m.list(func(o Order) bool { return o.OutletID == outletID }) {
		s.TotalOrders++
		switch o.Status {
		case StatusPending:
			s.Pending++
		case StatusCompleted:
			s.Completed++
		}
		if o.Status != StatusCancelled {
			s.TotalValue = s.TotalValue.Add(o.Total)
		}
		if s.LastOrderAt == nil || o.CreatedAt.After(*s.LastOrderAt) {
			t := o.CreatedAt
			s.LastOrderAt = &t
		}
	}
	return s, nil
}

func (m *memStore) list(keep func(Order) bool) []Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Order{}
	for i := len(m.seq) - 1; i >= 0; i-- {
		o := m.orders[m.seq[i]]
		if keep(o) {
			out = append(out, m.withReorderable(o))
		}
	}
	return out
}

func (m *memStore) withReorderable(o Order) Order {
	items := make([]LineItem, len(o.Items))
	for i, item := range o.Items {
		item.Reorderable = false
		if item.ProductID != nil {
			_, item.Reorderable = m.products[*item.ProductID]
		}
		items[i] = item
	}
	o.Items = items
	return o
}

// deleteProduct mirrors ON DELETE SET NULL on order_items.product_id.
func (m *memStore) deleteProduct(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.products, id)
	for k, o := range m.orders {
		items := make([]LineItem, len(o.Items))
		for i, item := range o.Items {
			if item.ProductID != nil && *item.ProductID == id {
				item.ProductID = nil
			}
			items[i] = item
		}
		o.Items = items
		m.orders[k] = o
	}
}

func (m *memStore) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Quantity
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type memTx struct {
	m *memStore
}

func (t *memTx) LockProducts(ctx context.Context, productIDs []string) (map[string]catalog.Product, error) {
	ids := append([]string(nil), productIDs...)
	sort.Strings(ids)

	out := make(map[string]catalog.Product, len(ids))
	for _, id := range ids {
		if p, ok := t.m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (t *memTx) InsertOrder(ctx context.Context, o *Order) error {
	t.m.inserts++
	if t.m.failInsertAt > 0 && t.m.inserts == t.m.failInsertAt {
		return errInjected
	}
	t.m.orders[o.ID] = *o
	t.m.seq = append(t.m.seq, o.ID)
	return nil
}

func (t *memTx) DecrementStock(ctx context.Context, productID string, qty int) error {
	p, ok := t.m.products[productID]
	if !ok || p.Quantity < qty {
		return ErrInsufficientStock.With("productId", productID)
	}
	p.Quantity -= qty
	t.m.products[productID] = p
	return nil
}

func (t *memTx) LockOrder(ctx context.Context, orderID string) (*Order, error) {
	o, ok := t.m.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (t *memTx) UpdateStatus(ctx context.Context, orderID string, status Status, at time.Time) error {
	o := t.m.orders[orderID]
	o.Status = status
	o.UpdatedAt = at
	t.m.orders[orderID] = o
	return nil
}
