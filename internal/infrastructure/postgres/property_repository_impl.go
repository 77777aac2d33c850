package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-realty-backend/internal/domain"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	"github.com/oksasatya/go-realty-backend/internal/domain/repository"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
)

var propertyScope scope.Restrictor = scope.OwnerColumn("p.agent_id")

const propertyColumns = `p.id, p.title, p.description, p.property_type, p.status, p.price,
	p.bedrooms, p.bathrooms, p.area, p.address, p.district, p.city,
	p.agent_id, u.username,
	p.owner_customer_id, oc.first_name || ' ' || oc.last_name,
	p.buyer_customer_id, bc.first_name || ' ' || bc.last_name,
	p.images, p.created_at, p.updated_at`

const propertyJoins = ` JOIN users u ON u.id = p.agent_id
	LEFT JOIN customers oc ON oc.id = p.owner_customer_id
	LEFT JOIN customers bc ON bc.id = p.buyer_customer_id`

const propertySelect = `SELECT ` + propertyColumns + ` FROM properties p` + propertyJoins

func propertyReturning(stmt string) string {
	return `WITH changed AS (` + stmt + ` RETURNING p.*) SELECT ` + propertyColumns + ` FROM changed p` + propertyJoins
}

type PropertyRepository struct {
	db DB
}

func NewPropertyRepository(db DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func scanProperty(row scanner) (*entity.Property, error) {
	p := &entity.Property{}
	var propertyType, status string
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &propertyType, &status, &p.Price,
		&p.Bedrooms, &p.Bathrooms, &p.Area, &p.Address, &p.District, &p.City,
		&p.AgentID, &p.AgentUsername,
		&p.OwnerCustomerID, &p.OwnerCustomerName,
		&p.BuyerCustomerID, &p.BuyerCustomerName,
		&p.Images, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.PropertyType = entity.PropertyType(propertyType)
	p.Status = entity.PropertyStatus(status)
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

// visible narrows b to non-deleted listings within id's scope.
func visible(b *builder, id scope.Identity, propertyID string) {
	b.Where("p.id = ?", propertyID)
	b.Where("p.status <> 'deleted'")
	propertyScope.Restrict(b, id)
}

func (r *PropertyRepository) List(ctx context.Context, id scope.Identity, f repository.PropertyFilter, page repository.Page) ([]entity.Property, int, error) {
	b := &builder{}
	b.Where("p.status <> 'deleted'")
	propertyScope.Restrict(b, id)
	if f.Search != "" {
		s := containsPattern(f.Search)
		b.Where("(p.title ILIKE ? OR p.description ILIKE ? OR p.address ILIKE ?)", s, s, s)
	}
	if f.PropertyType != "" {
		b.Where("p.property_type = ?", string(f.PropertyType))
	}
	if f.Status != "" {
		b.Where("p.status = ?", string(f.Status))
	}
	if f.City != "" {
		b.Where("p.city ILIKE ?", containsPattern(f.City))
	}
	if agentID := id.ListAgentFilter(f.AgentID); agentID != "" {
		b.Where("p.agent_id = ?", agentID)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM properties p"+b.WhereSQL(), b.args...).Scan(&total); err != nil {
		return nil, 0, domain.Internal(err)
	}
	out := make([]entity.Property, 0, page.Limit)
	if total == 0 || page.Offset() >= total {
		return out, total, nil
	}

	sql := propertySelect + b.WhereSQL() + " ORDER BY p.created_at DESC, p.id DESC" + b.Paginate(page.Limit, page.Offset())
	rows, err := r.db.Query(ctx, sql, b.args...)
	if err != nil {
		return nil, 0, domain.Internal(err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, domain.Internal(err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.Internal(err)
	}
	return out, total, nil
}

func (r *PropertyRepository) Get(ctx context.Context, id scope.Identity, propertyID string) (*entity.Property, error) {
	b := &builder{}
	visible(b, id, propertyID)
	p, err := scanProperty(r.db.QueryRow(ctx, propertySelect+b.WhereSQL(), b.args...))
	if err != nil {
		return nil, translate(err, domain.ErrPropertyNotFound, nil)
	}
	return p, nil
}

func (r *PropertyRepository) Create(ctx context.Context, id scope.Identity, p *entity.Property) (*entity.Property, error) {
	var created *entity.Property
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		if p.OwnerCustomerID != nil {
			if err := lockCustomerRef(ctx, tx, id, "owner_customer_id", *p.OwnerCustomerID); err != nil {
				return err
			}
		}
		if p.BuyerCustomerID != nil {
			if err := lockCustomerRef(ctx, tx, id, "buyer_customer_id", *p.BuyerCustomerID); err != nil {
				return err
			}
		}
		stmt := `INSERT INTO properties AS p (title, description, property_type, status, price, bedrooms, bathrooms, area,
			address, district, city, agent_id, owner_customer_id, buyer_customer_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
		row := tx.QueryRow(ctx, propertyReturning(stmt),
			p.Title, p.Description, string(p.PropertyType), string(p.Status), p.Price, p.Bedrooms, p.Bathrooms, p.Area,
			p.Address, p.District, p.City, p.AgentID, p.OwnerCustomerID, p.BuyerCustomerID)
		var err error
		created, err = scanProperty(row)
		if err != nil {
			if pgCode(err) == codeForeignKeyViolation {
				return domain.Validation("listing agent does not exist")
			}
			return translate(err, domain.ErrPropertyNotFound, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update locks the listing under scope, checks the status transition and customer links, then merges patch.
func (r *PropertyRepository) Update(ctx context.Context, id scope.Identity, propertyID string, patch entity.PropertyPatch) (*entity.Property, entity.PropertyStatus, error) {
	var updated *entity.Property
	var previous entity.PropertyStatus
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		lock := &builder{}
		visible(lock, id, propertyID)
		var current string
		if err := tx.QueryRow(ctx, "SELECT p.status FROM properties p"+lock.WhereSQL()+" FOR UPDATE", lock.args...).Scan(&current); err != nil {
			return translate(err, domain.ErrPropertyNotFound, nil)
		}
		previous = entity.PropertyStatus(current)

		b := &builder{}
		if patch.Status != nil {
			from := previous
			if !from.CanTransition(*patch.Status) {
				return domain.Validation(fmt.Sprintf("cannot change status from %s to %s", from, *patch.Status))
			}
			b.Set("status", string(*patch.Status))
		}
		if err := r.setCustomerRef(ctx, tx, id, b, "owner_customer_id", patch.OwnerCustomerID); err != nil {
			return err
		}
		if err := r.setCustomerRef(ctx, tx, id, b, "buyer_customer_id", patch.BuyerCustomerID); err != nil {
			return err
		}
		setPropertyFields(b, patch)
		if patch.AgentID != nil && id.IsAdmin() {
			b.Set("agent_id", *patch.AgentID)
		}

		if b.HasSets() {
			stmt := "UPDATE properties SET " + b.SetSQL() + ", updated_at = now() WHERE id = " + b.Arg(propertyID)
			if _, err := tx.Exec(ctx, stmt, b.args...); err != nil {
				if pgCode(err) == codeForeignKeyViolation {
					return domain.Validation("listing agent does not exist")
				}
				return translate(err, domain.ErrPropertyNotFound, nil)
			}
		}

		var err error
		updated, err = scanProperty(tx.QueryRow(ctx, propertySelect+" WHERE p.id = $1", propertyID))
		if err != nil {
			return translate(err, domain.ErrPropertyNotFound, nil)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return updated, previous, nil
}

func (r *PropertyRepository) setCustomerRef(ctx context.Context, tx pgx.Tx, id scope.Identity, b *builder, column string, ref *string) error {
	switch {
	case ref == nil:
		return nil
	case *ref == "":
		b.SetNull(column)
		return nil
	}
	if err := lockCustomerRef(ctx, tx, id, column, *ref); err != nil {
		return err
	}
	b.Set(column, *ref)
	return nil
}

func setPropertyFields(b *builder, patch entity.PropertyPatch) {
	if patch.Title != nil {
		b.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		b.Set("description", *patch.Description)
	}
	if patch.PropertyType != nil {
		b.Set("property_type", string(*patch.PropertyType))
	}
	if patch.Price != nil {
		b.Set("price", *patch.Price)
	}
	if patch.Bedrooms != nil {
		b.Set("bedrooms", *patch.Bedrooms)
	}
	if patch.Bathrooms != nil {
		b.Set("bathrooms", *patch.Bathrooms)
	}
	if patch.Area != nil {
		b.Set("area", *patch.Area)
	}
	if patch.Address != nil {
		b.Set("address", *patch.Address)
	}
	if patch.District != nil {
		b.Set("district", *patch.District)
	}
	if patch.City != nil {
		b.Set("city", *patch.City)
	}
}

// Delete soft-deletes in one conditional statement and returns the final row.
func (r *PropertyRepository) Delete(ctx context.Context, id scope.Identity, propertyID string) (*entity.Property, error) {
	b := &builder{}
	visible(b, id, propertyID)
	stmt := "UPDATE properties p SET status = 'deleted', updated_at = now()" + b.WhereSQL()
	p, err := scanProperty(r.db.QueryRow(ctx, propertyReturning(stmt), b.args...))
	if err != nil {
		return nil, translate(err, domain.ErrPropertyNotFound, nil)
	}
	return p, nil
}

func (r *PropertyRepository) AddImage(ctx context.Context, id scope.Identity, propertyID, url string) (*entity.Property, error) {
	b := &builder{}
	urlArg := b.Arg(url)
	visible(b, id, propertyID)
	stmt := "UPDATE properties p SET images = array_append(p.images, " + urlArg + "), updated_at = now()" + b.WhereSQL()
	p, err := scanProperty(r.db.QueryRow(ctx, propertyReturning(stmt), b.args...))
	if err != nil {
		return nil, translate(err, domain.ErrPropertyNotFound, nil)
	}
	return p, nil
}

var _ repository.PropertyRepository = (*PropertyRepository)(nil)
