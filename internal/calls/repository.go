package calls

import "context"

// Repository abstracts call persistence.
//
// Contract:
// - Save is an idempotent upsert keyed by CallID; mutable fields (status and
//   the timestamp/duration columns) are fully overwritten on conflict.
// - FindByID signals absence via ok=false, never via an error.
// - Delete of an absent id is a no-op.
// - FindAllByCustomerID returns an empty slice when the customer has no
//   calls; it never distinguishes "unknown customer" from "no calls".
type Repository interface {
	Save(ctx context.Context, call Call) error
	FindByID(ctx context.Context, callID string) (Call, bool, error)
	FindAll(ctx context.Context) ([]Call, error)
	FindAllByCustomerID(ctx context.Context, customerID string) ([]Call, error)
	Delete(ctx context.Context, callID string) error
}
