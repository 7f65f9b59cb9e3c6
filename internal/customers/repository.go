package customers

import "context"

// Repository abstracts customer persistence.
//
// Contract:
// - Save is an idempotent upsert keyed by CustomerID. The variable set is
//   replaced wholesale (delete-all-then-insert) in the same transaction as
//   the customer row write; either both are visible or neither is.
// - FindByID signals absence via ok=false, never via an error.
// - Delete of an absent id is a no-op. Variables are removed with their
//   customer (schema-level cascade); calls are not — that is the delete
//   use case's job.
type Repository interface {
	Save(ctx context.Context, customer Customer) error
	FindByID(ctx context.Context, customerID string) (Customer, bool, error)
	FindAll(ctx context.Context) ([]Customer, error)
	Delete(ctx context.Context, customerID string) error
}
