package domain

import (
	"context"
)

//go:generate mockgen -source internal/domain/repo.go -destination=internal/service/repo_mock_test.go -package=service

// OrderRepository is the durable store behind the cache. Every filter
// carries the scope predicate (branch_id within scope); lookups that match
// nothing return ErrNotFound, deletes report whether a row went away.
type OrderRepository interface {
	Find(ctx context.Context, scope Scope, onlyPending bool) ([]Order, error)
	FindOne(ctx context.Context, scope Scope, billNo int, onlyPending bool) (*Order, error)

	// FindLatestByBranch returns the order with the highest bill number in
	// a branch, or ErrNotFound when the branch has no orders yet.
	FindLatestByBranch(ctx context.Context, branchID string) (*Order, error)

	// Insert stores a new order with its pre-assigned bill number. A
	// duplicate (branch, billNo) pair fails with ErrConflict.
	Insert(ctx context.Context, order *Order) error

	// UpdateOne applies the patch to the scoped order inside one
	// transaction, recomputing derived fields, and returns the new state.
	// With onlyPending the row is selected under the pending predicate, so
	// an order completed by a concurrent writer comes back ErrNotFound
	// instead of being patched again.
	UpdateOne(ctx context.Context, scope Scope, billNo int, patch OrderPatch, onlyPending bool) (*Order, error)

	DeleteOne(ctx context.Context, scope Scope, billNo int) (bool, error)
}
