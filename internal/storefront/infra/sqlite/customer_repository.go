package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

type CustomerRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db, now: time.Now}
}

const customerColumns = `id, full_name, email, phone, address, created_at`

func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, entity.Persistence("list customers", err)
	}
	defer rows.Close()

	var out []entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.Persistence("list customers", err)
	}
	return out, nil
}

func (r *CustomerRepository) GetCustomer(ctx context.Context, id int64) (*entity.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCustomerNotFound
	}
	return c, err
}

func (r *CustomerRepository) GetCustomerByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCustomerNotFound
	}
	return c, err
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, c *entity.Customer) error {
	c.CreatedAt = r.now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (full_name, email, phone, address, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.FullName, c.Email, c.Phone, c.Address, formatTime(c.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: email %s is already registered", entity.ErrConflict, c.Email)
	}
	if err != nil {
		return entity.Persistence("create customer", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return entity.Persistence("create customer", err)
	}
	return nil
}

func (r *CustomerRepository) UpdateCustomer(ctx context.Context, c *entity.Customer) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET full_name = ?, email = ?, phone = ?, address = ? WHERE id = ?`,
		c.FullName, c.Email, c.Phone, c.Address, c.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: email %s is already registered", entity.ErrConflict, c.Email)
	}
	if err != nil {
		return entity.Persistence("update customer", err)
	}
	return mustAffect(res, entity.ErrCustomerNotFound)
}

// DeleteCustomer fails with a conflict while orders still reference the customer.
func (r *CustomerRepository) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: customer %d has orders", entity.ErrConflict, id)
	}
	if err != nil {
		return entity.Persistence("delete customer", err)
	}
	return mustAffect(res, entity.ErrCustomerNotFound)
}

// upsertCustomer keys on email: an existing row gets the new profile fields,
// otherwise a row is inserted. c.ID and c.CreatedAt are filled from the row.
func upsertCustomer(ctx context.Context, tx *sql.Tx, c *entity.Customer, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO customers (full_name, email, phone, address, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE
		SET full_name = excluded.full_name,
		    phone     = excluded.phone,
		    address   = excluded.address`,
		c.FullName, c.Email, c.Phone, c.Address, formatTime(now))
	if err != nil {
		return entity.Persistence("upsert customer", err)
	}

	var createdAt string
	err = tx.QueryRowContext(ctx, `SELECT id, created_at FROM customers WHERE email = ?`, c.Email).
		Scan(&c.ID, &createdAt)
	if err != nil {
		return entity.Persistence("upsert customer", err)
	}
	if c.CreatedAt, err = parseStamp(createdAt); err != nil {
		return entity.Persistence("upsert customer", err)
	}
	return nil
}

func scanCustomer(s scanner) (*entity.Customer, error) {
	var (
		c         entity.Customer
		createdAt string
	)
	if err := s.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Address, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, entity.Persistence("scan customer", err)
	}
	var err error
	if c.CreatedAt, err = parseStamp(createdAt); err != nil {
		return nil, entity.Persistence("scan customer", err)
	}
	return &c, nil
}
