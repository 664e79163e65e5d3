package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

var _ ports.CartRepository = (*CartRepository)(nil)

type CartRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db, now: time.Now}
}

// AddItem merges into the (session, product) row: one row per product,
// quantities accumulate.
func (r *CartRepository) AddItem(ctx context.Context, sessionID string, productID int64, qty int) error {
	now := formatTime(r.now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (session_id, product_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity,
		    updated_at = excluded.updated_at`,
		sessionID, productID, qty, now, now)
	if isForeignKeyViolation(err) {
		return entity.ErrProductNotFound
	}
	if err != nil {
		return entity.Persistence("add cart item", err)
	}
	return nil
}

// SetQuantity overwrites a line's quantity. Zero or less removes the line.
func (r *CartRepository) SetQuantity(ctx context.Context, sessionID string, productID int64, qty int) error {
	if qty <= 0 {
		return r.RemoveItem(ctx, sessionID, productID)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = ?, updated_at = ? WHERE session_id = ? AND product_id = ?`,
		qty, formatTime(r.now()), sessionID, productID)
	if err != nil {
		return entity.Persistence("update cart item", err)
	}
	return mustAffect(res, fmt.Errorf("%w: product %d is not in the cart", entity.ErrNotFound, productID))
}

func (r *CartRepository) RemoveItem(ctx context.Context, sessionID string, productID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE session_id = ? AND product_id = ?`, sessionID, productID)
	if err != nil {
		return entity.Persistence("remove cart item", err)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE session_id = ?`, sessionID); err != nil {
		return entity.Persistence("clear cart", err)
	}
	return nil
}

// Items returns the session's lines newest first, priced at the current
// catalog price. Lines for deactivated products are hidden.
func (r *CartRepository) Items(ctx context.Context, sessionID string) ([]entity.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ci.session_id, ci.product_id, ci.quantity,
		       p.name, p.description, p.price, p.image_url,
		       ci.created_at, ci.updated_at
		FROM   cart_items ci
		JOIN   products p ON p.id = ci.product_id
		WHERE  ci.session_id = ? AND p.is_active = 1
		ORDER  BY ci.created_at DESC, ci.rowid DESC`, sessionID)
	if err != nil {
		return nil, entity.Persistence("list cart items", err)
	}
	defer rows.Close()

	items := []entity.CartItem{}
	for rows.Next() {
		var (
			it                   entity.CartItem
			createdAt, updatedAt string
		)
		if err := rows.Scan(&it.SessionID, &it.ProductID, &it.Quantity,
			&it.Name, &it.Description, &it.Price, &it.ImageURL,
			&createdAt, &updatedAt); err != nil {
			return nil, entity.Persistence("scan cart item", err)
		}
		if it.CreatedAt, err = parseStamp(createdAt); err != nil {
			return nil, entity.Persistence("scan cart item", err)
		}
		if it.UpdatedAt, err = parseStamp(updatedAt); err != nil {
			return nil, entity.Persistence("scan cart item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.Persistence("list cart items", err)
	}
	return items, nil
}
