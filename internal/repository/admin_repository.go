package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/kwat0g/enrollment/internal/models"
)

// AdminRepository handles persistence of admin accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs the repository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByUsername returns an admin account by username.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	const query = `SELECT id, username, password FROM admins WHERE username = $1`
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, username); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID returns an admin account by id.
func (r *AdminRepository) FindByID(ctx context.Context, id int64) (*models.Admin, error) {
	const query = `SELECT id, username, password FROM admins WHERE id = $1`
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, err
	}
	return &admin, nil
}
