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

var _ ports.OrderRepository = (*OrderRepository)(nil)

type OrderRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db, now: time.Now}
}

// PlaceOrder upserts the customer, inserts the order and all of its items in
// a single transaction. On error nothing is written and the IDs on customer,
// order and items are left zero.
func (r *OrderRepository) PlaceOrder(ctx context.Context, customer *entity.Customer, order *entity.Order) error {
	now := r.now().UTC()

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := upsertCustomer(ctx, tx, customer, now); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO orders
				(customer_id, order_number, total_amount, status, payment_method, payment_status, created_at, updated_at)
			VALUES
				(?, ?, ?, ?, ?, ?, ?, ?)`,
			customer.ID, order.OrderNumber, order.TotalAmount.StringFixed(2), string(order.Status),
			string(order.PaymentMethod), string(order.PaymentStatus), formatTime(now), formatTime(now))
		if err != nil {
			return entity.Persistence(fmt.Sprintf("insert order %s", order.OrderNumber), err)
		}
		orderID, err := res.LastInsertId()
		if err != nil {
			return entity.Persistence("insert order", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return entity.Persistence("prepare order item", err)
		}
		defer stmt.Close()

		for i := range order.Items {
			it := &order.Items[i]
			res, err := stmt.ExecContext(ctx, orderID, it.ProductID, it.Quantity,
				it.UnitPrice.StringFixed(2), it.TotalPrice.StringFixed(2), formatTime(now))
			if err != nil {
				return entity.Persistence(fmt.Sprintf("insert item for product %d", it.ProductID), err)
			}
			if it.ID, err = res.LastInsertId(); err != nil {
				return entity.Persistence("insert order item", err)
			}
			it.OrderID = orderID
			it.CreatedAt = now
		}

		order.ID = orderID
		return nil
	})
	if err != nil {
		customer.ID, order.ID = 0, 0
		for i := range order.Items {
			order.Items[i].ID, order.Items[i].OrderID = 0, 0
		}
		return err
	}

	order.CustomerID = customer.ID
	order.Customer = customer
	order.CreatedAt, order.UpdatedAt = now, now
	return nil
}

// AttachPayment stores the provider reference and the method's artifacts.
func (r *OrderRepository) AttachPayment(ctx context.Context, orderID int64, status entity.PaymentStatus, p entity.PaymentDetails) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_id = ?, payment_status = ?, pix_qr_code = ?, boleto_url = ?, boleto_barcode = ?,
		    payment_expires_at = ?, updated_at = ?
		WHERE id = ?`,
		p.ID, string(status), nullableString(p.PixQRCode), nullableString(p.BoletoURL),
		nullableString(p.BoletoBarcode), nullableTime(p.ExpiresAt), formatTime(r.now()), orderID)
	if err != nil {
		return entity.Persistence(fmt.Sprintf("attach payment to order %d", orderID), err)
	}
	return mustAffect(res, entity.ErrOrderNotFound)
}

const orderColumns = `
	o.id, o.customer_id, o.order_number, o.total_amount, o.status, o.payment_method, o.payment_status,
	COALESCE(o.payment_id, ''), COALESCE(o.pix_qr_code, ''), COALESCE(o.boleto_url, ''),
	COALESCE(o.boleto_barcode, ''), o.payment_expires_at, o.created_at, o.updated_at,
	c.id, c.full_name, c.email, c.phone, c.address, c.created_at`

// GetOrder loads the order with its customer and items.
func (r *OrderRepository) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+orderColumns+`
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrders returns every order newest first, with customers but without items.
func (r *OrderRepository) ListOrders(ctx context.Context) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT`+orderColumns+`
		FROM orders o JOIN customers c ON c.id = o.customer_id
		ORDER BY o.created_at DESC, o.id DESC`)
	if err != nil {
		return nil, entity.Persistence("list orders", err)
	}
	defer rows.Close()

	var out []entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.Persistence("list orders", err)
	}
	return out, nil
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(r.now()), id)
	if err != nil {
		return entity.Persistence(fmt.Sprintf("update status of order %d", id), err)
	}
	return mustAffect(res, entity.ErrOrderNotFound)
}

func (r *OrderRepository) SwapPaymentStatus(ctx context.Context, id int64, from, to entity.PaymentStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = ?, updated_at = ? WHERE id = ? AND payment_status = ?`,
		string(to), formatTime(r.now()), id, string(from))
	if err != nil {
		return false, entity.Persistence(fmt.Sprintf("update payment status of order %d", id), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, entity.Persistence("rows affected", err)
	}
	return n == 1, nil
}

func (r *OrderRepository) items(ctx context.Context, orderID int64) ([]entity.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, p.image_url,
		       oi.quantity, oi.unit_price, oi.total_price, oi.created_at
		FROM   order_items oi
		JOIN   products p ON p.id = oi.product_id
		WHERE  oi.order_id = ?
		ORDER  BY oi.id`, orderID)
	if err != nil {
		return nil, entity.Persistence("list order items", err)
	}
	defer rows.Close()

	var out []entity.OrderItem
	for rows.Next() {
		var (
			it        entity.OrderItem
			createdAt string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ImageURL,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &createdAt); err != nil {
			return nil, entity.Persistence("scan order item", err)
		}
		if it.CreatedAt, err = parseStamp(createdAt); err != nil {
			return nil, entity.Persistence("scan order item", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.Persistence("list order items", err)
	}
	return out, nil
}

func scanOrder(s scanner) (*entity.Order, error) {
	var (
		o                               entity.Order
		c                               entity.Customer
		status, method, paymentStatus   string
		expiresAt                       sql.NullString
		createdAt, updatedAt, custSince string
	)
	err := s.Scan(&o.ID, &o.CustomerID, &o.OrderNumber, &o.TotalAmount, &status, &method, &paymentStatus,
		&o.Payment.ID, &o.Payment.PixQRCode, &o.Payment.BoletoURL, &o.Payment.BoletoBarcode,
		&expiresAt, &createdAt, &updatedAt,
		&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Address, &custSince)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, entity.Persistence("scan order", err)
	}

	o.Status = entity.OrderStatus(status)
	o.PaymentMethod = entity.PaymentMethod(method)
	o.PaymentStatus = entity.PaymentStatus(paymentStatus)

	if o.Payment.ExpiresAt, err = parseNullTime(expiresAt); err != nil {
		return nil, entity.Persistence("scan order", err)
	}
	if o.CreatedAt, err = parseStamp(createdAt); err != nil {
		return nil, entity.Persistence("scan order", err)
	}
	if o.UpdatedAt, err = parseStamp(updatedAt); err != nil {
		return nil, entity.Persistence("scan order", err)
	}
	if c.CreatedAt, err = parseStamp(custSince); err != nil {
		return nil, entity.Persistence("scan order", err)
	}
	o.Customer = &c
	return &o, nil
}
