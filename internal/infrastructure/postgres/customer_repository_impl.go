package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-realty-backend/internal/domain"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	"github.com/oksasatya/go-realty-backend/internal/domain/repository"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
)

var customerScope scope.Restrictor = scope.OwnerColumn("c.agent_id")

const customerColumns = `c.id, c.first_name, c.last_name, c.email, c.phone, c.customer_type,
	c.budget_min, c.budget_max, c.notes, c.status, c.agent_id, u.username, c.created_at, c.updated_at`

const customerSelect = `SELECT ` + customerColumns + ` FROM customers c JOIN users u ON u.id = c.agent_id`

// customerReturning wraps a data-modifying statement that RETURNs customer rows
// so the agent username can be joined in the same round trip.
func customerReturning(stmt string) string {
	return `WITH changed AS (` + stmt + ` RETURNING c.*) SELECT ` + customerColumns +
		` FROM changed c JOIN users u ON u.id = c.agent_id`
}

type CustomerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func scanCustomer(row scanner) (*entity.Customer, error) {
	c := &entity.Customer{}
	var customerType, status string
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &customerType,
		&c.BudgetMin, &c.BudgetMax, &c.Notes, &status, &c.AgentID, &c.AgentUsername,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.CustomerType = entity.CustomerType(customerType)
	c.Status = entity.CustomerStatus(status)
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context, id scope.Identity, f repository.CustomerFilter, page repository.Page) ([]entity.Customer, int, error) {
	b := &builder{}
	b.Where("c.status = 'active'")
	customerScope.Restrict(b, id)
	if f.Search != "" {
		p := containsPattern(f.Search)
		b.Where("(c.first_name ILIKE ? OR c.last_name ILIKE ? OR (c.first_name || ' ' || c.last_name) ILIKE ? OR c.email ILIKE ?)", p, p, p, p)
	}
	if f.CustomerType != "" {
		b.Where("c.customer_type = ?", string(f.CustomerType))
	}
	if agentID := id.ListAgentFilter(f.AgentID); agentID != "" {
		b.Where("c.agent_id = ?", agentID)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM customers c"+b.WhereSQL(), b.args...).Scan(&total); err != nil {
		return nil, 0, domain.Internal(err)
	}
	out := make([]entity.Customer, 0, page.Limit)
	if total == 0 || page.Offset() >= total {
		return out, total, nil
	}

	sql := customerSelect + b.WhereSQL() + " ORDER BY c.created_at DESC, c.id DESC" + b.Paginate(page.Limit, page.Offset())
	rows, err := r.db.Query(ctx, sql, b.args...)
	if err != nil {
		return nil, 0, domain.Internal(err)
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, domain.Internal(err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.Internal(err)
	}
	return out, total, nil
}

func (r *CustomerRepository) Get(ctx context.Context, id scope.Identity, customerID string) (*entity.Customer, error) {
	b := &builder{}
	b.Where("c.id = ?", customerID)
	b.Where("c.status = 'active'")
	customerScope.Restrict(b, id)

	c, err := scanCustomer(r.db.QueryRow(ctx, customerSelect+b.WhereSQL(), b.args...))
	if err != nil {
		return nil, translate(err, domain.ErrCustomerNotFound, nil)
	}
	return c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) (*entity.Customer, error) {
	stmt := `INSERT INTO customers AS c (first_name, last_name, email, phone, customer_type, budget_min, budget_max, notes, agent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	created, err := scanCustomer(r.db.QueryRow(ctx, customerReturning(stmt),
		c.FirstName, c.LastName, c.Email, c.Phone, string(c.CustomerType), c.BudgetMin, c.BudgetMax, c.Notes, c.AgentID))
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return nil, domain.Validation("assigned agent does not exist")
		}
		return nil, translate(err, domain.ErrCustomerNotFound, domain.ErrDuplicateCustomer)
	}
	return created, nil
}

// Update applies patch in one conditional statement, so the scope check and the write cannot interleave with a delete.
func (r *CustomerRepository) Update(ctx context.Context, id scope.Identity, customerID string, patch entity.CustomerPatch) (*entity.Customer, error) {
	b := &builder{}
	if patch.FirstName != nil {
		b.Set("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		b.Set("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		b.Set("email", *patch.Email)
	}
	if patch.Phone != nil {
		b.Set("phone", *patch.Phone)
	}
	if patch.CustomerType != nil {
		b.Set("customer_type", string(*patch.CustomerType))
	}
	if patch.BudgetMin != nil {
		b.Set("budget_min", *patch.BudgetMin)
	}
	if patch.BudgetMax != nil {
		b.Set("budget_max", *patch.BudgetMax)
	}
	if patch.Notes != nil {
		b.Set("notes", *patch.Notes)
	}
	if patch.AgentID != nil && id.IsAdmin() {
		b.Set("agent_id", *patch.AgentID)
	}
	if !b.HasSets() {
		return r.Get(ctx, id, customerID)
	}

	b.Where("c.id = ?", customerID)
	b.Where("c.status = 'active'")
	customerScope.Restrict(b, id)

	stmt := "UPDATE customers c SET " + b.SetSQL() + ", updated_at = now()" + b.WhereSQL()
	c, err := scanCustomer(r.db.QueryRow(ctx, customerReturning(stmt), b.args...))
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return nil, domain.Validation("assigned agent does not exist")
		}
		return nil, translate(err, domain.ErrCustomerNotFound, domain.ErrDuplicateCustomer)
	}
	return c, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id scope.Identity, customerID string) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		b := &builder{}
		b.Where("c.id = ?", customerID)
		b.Where("c.status = 'active'")
		customerScope.Restrict(b, id)

		var locked string
		if err := tx.QueryRow(ctx, "SELECT c.id FROM customers c"+b.WhereSQL()+" FOR UPDATE", b.args...).Scan(&locked); err != nil {
			return translate(err, domain.ErrCustomerNotFound, nil)
		}
		if err := guardCustomerRemoval(ctx, tx, locked); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE customers SET status = 'inactive', updated_at = now() WHERE id = $1`, locked); err != nil {
			return domain.Internal(err)
		}
		return nil
	})
}

func (r *CustomerRepository) Reactivate(ctx context.Context, id scope.Identity, customerID string) (*entity.Customer, error) {
	b := &builder{}
	b.Where("c.id = ?", customerID)
	b.Where("c.status = 'inactive'")
	customerScope.Restrict(b, id)

	stmt := "UPDATE customers c SET status = 'active', updated_at = now()" + b.WhereSQL()
	c, err := scanCustomer(r.db.QueryRow(ctx, customerReturning(stmt), b.args...))
	if err != nil {
		return nil, translate(err, domain.ErrCustomerNotFound, domain.ErrDuplicateCustomer)
	}
	return c, nil
}

// Purge is the hard-delete path; it is only reachable from the admin CLI.
func (r *CustomerRepository) Purge(ctx context.Context, customerID string) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		var status string
		if err := tx.QueryRow(ctx, `SELECT status FROM customers WHERE id = $1 FOR UPDATE`, customerID).Scan(&status); err != nil {
			return translate(err, domain.ErrCustomerNotFound, nil)
		}
		if status == string(entity.CustomerActive) {
			return domain.Conflict("customer must be deleted before it can be purged")
		}
		if err := guardCustomerRemoval(ctx, tx, customerID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1`, customerID); err != nil {
			return domain.Internal(err)
		}
		return nil
	})
}

var _ repository.CustomerRepository = (*CustomerRepository)(nil)
