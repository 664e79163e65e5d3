package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

var _ ports.AdminRepository = (*AdminRepository)(nil)

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetAdminByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	return r.get(ctx, `SELECT id, username, password_hash FROM admins WHERE username = ?`, username)
}

func (r *AdminRepository) GetAdmin(ctx context.Context, id int64) (*entity.Admin, error) {
	return r.get(ctx, `SELECT id, username, password_hash FROM admins WHERE id = ?`, id)
}

func (r *AdminRepository) get(ctx context.Context, q string, arg any) (*entity.Admin, error) {
	var a entity.Admin
	err := r.db.QueryRowContext(ctx, q, arg).Scan(&a.ID, &a.Username, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: admin", entity.ErrNotFound)
	}
	if err != nil {
		return nil, entity.Persistence("get admin", err)
	}
	return &a, nil
}
