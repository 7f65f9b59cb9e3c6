package calls

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory call repository for tests and early development.
//
// NOTE: Not intended for production; the Postgres implementation is the real
// store.
type MemoryRepo struct {
	mu    sync.Mutex
	calls map[string]Call
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{calls: map[string]Call{}}
}

func (r *MemoryRepo) Save(ctx context.Context, call Call) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[call.CallID] = call
	return nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, callID string) (Call, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.calls[callID]
	return c, ok, nil
}

func (r *MemoryRepo) FindAll(ctx context.Context) ([]Call, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c)
	}
	return out, nil
}

func (r *MemoryRepo) FindAllByCustomerID(ctx context.Context, customerID string) ([]Call, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, 0)
	for _, c := range r.calls {
		if c.CustomerID == customerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, callID string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.calls, callID)
	return nil
}
