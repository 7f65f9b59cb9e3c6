package customers

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory customer repository for tests and early
// development. Entries are stored as deep copies so callers never share the
// variable map with the store.
type MemoryRepo struct {
	mu        sync.Mutex
	customers map[string]Customer
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{customers: map[string]Customer{}}
}

func (r *MemoryRepo) Save(ctx context.Context, customer Customer) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.CustomerID] = customer.clone()
	return nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, customerID string) (Customer, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[customerID]
	if !ok {
		return Customer{}, false, nil
	}
	return c.clone(), true, nil
}

func (r *MemoryRepo) FindAll(ctx context.Context) ([]Customer, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, c.clone())
	}
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, customerID string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.customers, customerID)
	return nil
}
