package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frahmantamala/timekeeping/internal/auth"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		db: db,
	}
}

const credentialColumns = `SELECT id, company_id, email, role, password_hash FROM employees`

func (r *Repository) FindByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	return r.get(ctx, credentialColumns+` WHERE email = ?`, email)
}

func (r *Repository) FindByID(ctx context.Context, employeeID int64) (*auth.Credentials, error) {
	return r.get(ctx, credentialColumns+` WHERE id = ?`, employeeID)
}

func (r *Repository) get(ctx context.Context, query string, arg interface{}) (*auth.Credentials, error) {
	var creds auth.Credentials
	if err := r.db.GetContext(ctx, &creds, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrCredentialsNotFound
		}
		return nil, err
	}
	return &creds, nil
}
