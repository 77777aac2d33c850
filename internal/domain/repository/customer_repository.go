package repository

import (
	"context"

	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
)

type CustomerFilter struct {
	Search       string
	CustomerType entity.CustomerType
	AgentID      string
}

// CustomerRepository reads and writes customers narrowed to the caller's scope.
// Rows outside the scope behave exactly like missing rows.
type CustomerRepository interface {
	List(ctx context.Context, id scope.Identity, filter CustomerFilter, page Page) ([]entity.Customer, int, error)
	Get(ctx context.Context, id scope.Identity, customerID string) (*entity.Customer, error)
	// Create inserts c; c.AgentID must already be resolved.
	Create(ctx context.Context, c *entity.Customer) (*entity.Customer, error)
	Update(ctx context.Context, id scope.Identity, customerID string, patch entity.CustomerPatch) (*entity.Customer, error)
	// Delete soft-deletes (status=inactive) unless a live property references the customer.
	Delete(ctx context.Context, id scope.Identity, customerID string) error
	Reactivate(ctx context.Context, id scope.Identity, customerID string) (*entity.Customer, error)
	// Purge hard-deletes an inactive customer that no live property references.
	Purge(ctx context.Context, customerID string) error
}
