package postgres

import (
	"context"

	"github.com/oksasatya/go-realty-backend/internal/domain"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	"github.com/oksasatya/go-realty-backend/internal/domain/repository"
)

const userColumns = `id, username, email, password_hash, first_name, last_name, phone, role, status, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row scanner) (*entity.User, error) {
	u := &entity.User{}
	var role, status string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Phone, &role, &status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	u.Status = entity.UserStatus(status)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, phone, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, string(u.Role), string(u.Status))

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return translate(err, domain.ErrUserNotFound, domain.ErrDuplicateUser)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound, nil)
	}
	return u, nil
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(username) = lower($1) OR lower(email) = lower($1)
		LIMIT 1
	`, login))
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound, nil)
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, patch repository.UserProfilePatch) (*entity.User, error) {
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
	if !b.HasSets() {
		return r.GetByID(ctx, id)
	}
	sql := "UPDATE users SET " + b.SetSQL() + ", updated_at = now() WHERE id = " + b.Arg(id) + " RETURNING " + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, sql, b.args...))
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound, domain.ErrDuplicateUser)
	}
	return u, nil
}

func (r *UserRepository) SetStatus(ctx context.Context, id string, status entity.UserStatus) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`UPDATE users SET status = $1, updated_at = now() WHERE id = $2 RETURNING `+userColumns, string(status), id))
	if err != nil {
		return nil, translate(err, domain.ErrUserNotFound, nil)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, f repository.UserFilter, page repository.Page) ([]entity.User, int, error) {
	b := &builder{}
	if f.Role != "" {
		b.Where("role = ?", string(f.Role))
	}
	if f.Status != "" {
		b.Where("status = ?", string(f.Status))
	}
	if f.Search != "" {
		s := containsPattern(f.Search)
		b.Where("(username ILIKE ? OR email ILIKE ? OR (first_name || ' ' || last_name) ILIKE ?)", s, s, s)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users"+b.WhereSQL(), b.args...).Scan(&total); err != nil {
		return nil, 0, domain.Internal(err)
	}
	out := make([]entity.User, 0, page.Limit)
	if total == 0 || page.Offset() >= total {
		return out, total, nil
	}
	rows, err := r.db.Query(ctx, "SELECT "+userColumns+" FROM users"+b.WhereSQL()+
		" ORDER BY created_at DESC, id DESC"+b.Paginate(page.Limit, page.Offset()), b.args...)
	if err != nil {
		return nil, 0, domain.Internal(err)
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, domain.Internal(err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.Internal(err)
	}
	return out, total, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
