package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

type CatalogRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db, now: time.Now}
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, entity.Persistence("list categories", err)
	}
	defer rows.Close()

	var out []entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.Persistence("list categories", err)
	}
	return out, nil
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description, created_at FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCategoryNotFound
	}
	return c, err
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *entity.Category) error {
	c.CreatedAt = r.now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, created_at) VALUES (?, ?, ?)`,
		c.Name, c.Description, formatTime(c.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: category %q already exists", entity.ErrConflict, c.Name)
	}
	if err != nil {
		return entity.Persistence("create category", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return entity.Persistence("create category", err)
	}
	return nil
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, c *entity.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		c.Name, c.Description, c.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: category %q already exists", entity.ErrConflict, c.Name)
	}
	if err != nil {
		return entity.Persistence("update category", err)
	}
	return mustAffect(res, entity.ErrCategoryNotFound)
}

// DeleteCategory refuses to remove a category that products still point to,
// including soft-deleted ones, since past orders reference those products.
func (r *CatalogRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: category %d still has products", entity.ErrConflict, id)
	}
	if err != nil {
		return entity.Persistence("delete category", err)
	}
	return mustAffect(res, entity.ErrCategoryNotFound)
}

const productColumns = `
	p.id, p.name, p.description, p.price, p.category_id, COALESCE(c.name, ''),
	p.image_url, p.is_featured, p.is_active, p.created_at, p.updated_at`

func (r *CatalogRepository) ListProducts(ctx context.Context, f entity.ProductFilter) ([]entity.Product, error) {
	var (
		where = []string{"p.is_active = 1"}
		args  []any
	)
	if f.CategoryID > 0 {
		where = append(where, "p.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.FeaturedOnly {
		where = append(where, "p.is_featured = 1")
	}

	q := `SELECT` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY p.is_featured DESC, p.name`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, entity.Persistence("list products", err)
	}
	defer rows.Close()

	var out []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.Persistence("list products", err)
	}
	return out, nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	q := `SELECT` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = ? AND p.is_active = 1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrProductNotFound
	}
	return p, err
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, p *entity.Product) error {
	now := r.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO products
			(name, description, price, category_id, image_url, is_featured, is_active, created_at, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Price.StringFixed(2), p.CategoryID, p.ImageURL,
		p.IsFeatured, p.IsActive, formatTime(now), formatTime(now))
	if isForeignKeyViolation(err) {
		return entity.ErrCategoryNotFound
	}
	if err != nil {
		return entity.Persistence("create product", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return entity.Persistence("create product", err)
	}
	return nil
}

// UpdateProduct overwrites every editable column. It also reaches inactive
// products so an admin can reactivate one.
func (r *CatalogRepository) UpdateProduct(ctx context.Context, p *entity.Product) error {
	p.UpdatedAt = r.now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, description = ?, price = ?, category_id = ?, image_url = ?,
		    is_featured = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Price.StringFixed(2), p.CategoryID, p.ImageURL,
		p.IsFeatured, p.IsActive, formatTime(p.UpdatedAt), p.ID)
	if isForeignKeyViolation(err) {
		return entity.ErrCategoryNotFound
	}
	if err != nil {
		return entity.Persistence("update product", err)
	}
	return mustAffect(res, entity.ErrProductNotFound)
}

func (r *CatalogRepository) DeactivateProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET is_active = 0, updated_at = ? WHERE id = ? AND is_active = 1`,
		formatTime(r.now()), id)
	if err != nil {
		return entity.Persistence("deactivate product", err)
	}
	return mustAffect(res, entity.ErrProductNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(s scanner) (*entity.Category, error) {
	var (
		c         entity.Category
		createdAt string
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Description, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, entity.Persistence("scan category", err)
	}
	var err error
	if c.CreatedAt, err = parseStamp(createdAt); err != nil {
		return nil, entity.Persistence("scan category", err)
	}
	return &c, nil
}

func scanProduct(s scanner) (*entity.Product, error) {
	var (
		p                    entity.Product
		createdAt, updatedAt string
	)
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.CategoryName,
		&p.ImageURL, &p.IsFeatured, &p.IsActive, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, entity.Persistence("scan product", err)
	}
	if p.CreatedAt, err = parseStamp(createdAt); err != nil {
		return nil, entity.Persistence("scan product", err)
	}
	if p.UpdatedAt, err = parseStamp(updatedAt); err != nil {
		return nil, entity.Persistence("scan product", err)
	}
	return &p, nil
}
