// Package memory implements an in-memory order repository.
package memory

import (
	"context"
	"sync"

	"orderkit/pkg/order"
)

// Repository provides an in-memory implementation of order.Repository.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]order.Order
	ids    []string // creation order
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{orders: make(map[string]order.Order)}
}

// Create stores the order. The order must carry an id not already in use.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	id, ok := o.ID()
	if !ok {
		return order.ErrMissingID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[id]; exists {
		return order.ErrDuplicate
	}
	r.orders[id] = o
	r.ids = append(r.ids, id)
	return nil
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return o, nil
}

// List returns all orders in the order they were created.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Order, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.orders[id])
	}
	return out, nil
}
