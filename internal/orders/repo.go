package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("a cart item exceeds available stock")
)

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `o.id, o.user_id, o.total_amount, o.status, o.payment_status,
	o.shipping_address, o.tracking_number, o.notes, o.created_at, o.updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentStatus,
		&o.ShippingAddress, &o.TrackingNumber, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// PlaceOrderTx turns the user's cart into an order in one transaction:
// lock the cart rows, snapshot them, write the order and its items, then
// delete exactly the rows that were snapshotted. Any failure rolls back
// all of it.
func (r *Repo) PlaceOrderTx(ctx context.Context, userID string, addr ShippingAddress, notes string) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT ci.id, p.id, p.name, p.price, ci.quantity, p.stock, p.is_active
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at DESC, ci.id
		FOR UPDATE OF ci`, userID)
	if err != nil {
		return Order{}, err
	}
	var lines []CartLine
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.CartItemID, &l.ProductID, &l.ProductName, &l.Price, &l.Quantity, &l.Stock, &l.Active); err != nil {
			rows.Close()
			return Order{}, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, err
	}
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}
	for _, l := range lines {
		if !l.Active || l.Quantity > l.Stock {
			return Order{}, fmt.Errorf("%s: %w", l.ProductName, ErrInsufficientStock)
		}
	}

	items, total := Snapshot(lines)

	var notesArg *string
	if notes != "" {
		notesArg = &notes
	}
	o, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders AS o (user_id, total_amount, status, payment_status, shipping_address, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+orderColumns,
		userID, total, StatusPending, PaymentPending, addr, notesArg))
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}

	for i := range items {
		it := &items[i]
		it.OrderID = o.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO order_items(order_id, position, product_id, product_name, product_price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			o.ID, i, it.ProductID, it.ProductName, it.ProductPrice, it.Quantity, it.Subtotal,
		).Scan(&it.ID); err != nil {
			return Order{}, fmt.Errorf("insert order item %d: %w", i, err)
		}
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.CartItemID)
	}
	ct, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return Order{}, fmt.Errorf("clear cart: %w", err)
	}
	if int(ct.RowsAffected()) != len(ids) {
		return Order{}, fmt.Errorf("clear cart: removed %d of %d rows", ct.RowsAffected(), len(ids))
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	o.Items = items
	return o, nil
}

// ListByUser returns the user's orders newest first, each with its items.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders o
		WHERE o.user_id = $1 ORDER BY o.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	out, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads one of the user's orders. Other users' orders read as not found.
func (r *Repo) Get(ctx context.Context, userID, orderID string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o
		WHERE o.id = $1 AND o.user_id = $2`, orderID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	one := []Order{o}
	if err := r.attachItems(ctx, one); err != nil {
		return Order{}, err
	}
	return one[0], nil
}

// UpdateStatus sets status and tracking number. An empty tracking number
// clears the column.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, status Status, tracking string) (Order, error) {
	var trackingArg *string
	if tracking != "" {
		trackingArg = &tracking
	}
	o, err := scanOrder(r.DB.QueryRow(ctx, `
		UPDATE orders AS o SET status = $2, tracking_number = $3, updated_at = now()
		WHERE o.id = $1
		RETURNING `+orderColumns, orderID, status, trackingArg))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// attachItems loads the items of every order in one query, in stored order.
func (r *Repo) attachItems(ctx context.Context, list []Order) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	idx := make(map[string]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
		idx[list[i].ID] = i
		list[i].Items = []OrderItem{}
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, product_name, product_price, quantity, subtotal
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY order_id, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductPrice, &it.Quantity, &it.Subtotal); err != nil {
			return err
		}
		i := idx[it.OrderID]
		list[i].Items = append(list[i].Items, it)
	}
	return rows.Err()
}
