package repository

import (
	"context"

	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
)

type PropertyFilter struct {
	Search       string
	PropertyType entity.PropertyType
	Status       entity.PropertyStatus
	City         string
	AgentID      string
}

// PropertyRepository reads and writes listings narrowed to the caller's scope.
// Soft-deleted listings are invisible to every operation.
type PropertyRepository interface {
	List(ctx context.Context, id scope.Identity, filter PropertyFilter, page Page) ([]entity.Property, int, error)
	Get(ctx context.Context, id scope.Identity, propertyID string) (*entity.Property, error)
	// Create inserts p; p.AgentID must already be resolved. Customer references are checked against id's scope.
	Create(ctx context.Context, id scope.Identity, p *entity.Property) (*entity.Property, error)
	// Update returns the merged listing and the status it had before the update.
	Update(ctx context.Context, id scope.Identity, propertyID string, patch entity.PropertyPatch) (*entity.Property, entity.PropertyStatus, error)
	Delete(ctx context.Context, id scope.Identity, propertyID string) (*entity.Property, error)
	AddImage(ctx context.Context, id scope.Identity, propertyID, url string) (*entity.Property, error)
}
