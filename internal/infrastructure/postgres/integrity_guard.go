package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-realty-backend/internal/domain"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
)

// Both halves of the customer <-> property relationship live here:
// a customer referenced by a live property cannot be removed, and a property
// may only reference active customers visible to the writer. The row locks
// (FOR UPDATE on the customer side, FOR SHARE on the property side) serialise
// a concurrent delete against a concurrent link.

const customerReferencedSQL = `SELECT EXISTS (
	SELECT 1 FROM properties
	WHERE (owner_customer_id = $1 OR buyer_customer_id = $1) AND status <> 'deleted'
)`

func customerReferenced(ctx context.Context, q rowQuerier, customerID string) (bool, error) {
	var referenced bool
	if err := q.QueryRow(ctx, customerReferencedSQL, customerID).Scan(&referenced); err != nil {
		return false, err
	}
	return referenced, nil
}

// guardCustomerRemoval fails with ErrCustomerReferenced when a live property still points at the customer.
func guardCustomerRemoval(ctx context.Context, q rowQuerier, customerID string) error {
	referenced, err := customerReferenced(ctx, q, customerID)
	if err != nil {
		return domain.Internal(err)
	}
	if referenced {
		return domain.ErrCustomerReferenced
	}
	return nil
}

// lockCustomerRef checks that customerID is an active customer within id's scope and share-locks it.
func lockCustomerRef(ctx context.Context, q rowQuerier, id scope.Identity, field, customerID string) error {
	b := &builder{}
	b.Where("c.id = ?", customerID)
	b.Where("c.status = 'active'")
	customerScope.Restrict(b, id)

	var found string
	err := q.QueryRow(ctx, "SELECT c.id FROM customers c"+b.WhereSQL()+" FOR SHARE", b.args...).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == codeInvalidText {
		return domain.Validation(field + " does not reference an active customer")
	}
	if err != nil {
		return domain.Internal(err)
	}
	return nil
}
