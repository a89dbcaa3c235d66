// Package admin backs the admin console: dashboard numbers, the sales
// trend, and the joined order and user listings.
package admin

import (
	"context"
	"time"

	"github.com/ariefcatur/feelitbuy/internal/orders"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const RoleAdmin = "admin"

type Stats struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalOrders    int             `json:"total_orders"`
	ActiveProducts int             `json:"active_products"`
	TotalUsers     int             `json:"total_users"`
}

// OrderRow is an order as the admin table shows it.
type OrderRow struct {
	orders.Order
	CustomerName  *string `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone"`
	ItemCount     int     `json:"item_count"`
}

type User struct {
	ID        string    `json:"id"`
	FullName  *string   `json:"full_name"`
	Phone     *string   `json:"phone"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var ok bool
	err := r.DB.QueryRow(ctx, `SELECT has_role($1, $2)`, userID, role).Scan(&ok)
	return ok, err
}

func (r *Repo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.DB.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM products WHERE is_active),
			(SELECT COUNT(*) FROM profiles)`,
	).Scan(&s.TotalRevenue, &s.TotalOrders, &s.ActiveProducts, &s.TotalUsers)
	return s, err
}

// OrdersSince returns (created_at, total_amount) for orders at or after since.
func (r *Repo) OrdersSince(ctx context.Context, since time.Time) ([]OrderPoint, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT created_at, total_amount FROM orders
		WHERE created_at >= $1
		ORDER BY created_at`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderPoint
	for rows.Next() {
		var p OrderPoint
		if err := rows.Scan(&p.CreatedAt, &p.Amount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListOrders returns every order, newest first, with the customer's profile
// joined in the same query.
func (r *Repo) ListOrders(ctx context.Context) ([]OrderRow, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.user_id, o.total_amount, o.status, o.payment_status,
		       o.shipping_address, o.tracking_number, o.notes, o.created_at, o.updated_at,
		       pr.full_name, pr.phone,
		       (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id)
		FROM orders o
		LEFT JOIN profiles pr ON pr.id = o.user_id
		ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OrderRow{}
	for rows.Next() {
		var o OrderRow
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentStatus,
			&o.ShippingAddress, &o.TrackingNumber, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
			&o.CustomerName, &o.CustomerPhone, &o.ItemCount); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListUsers returns every profile with its roles aggregated in one query.
func (r *Repo) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT pr.id, pr.full_name, pr.phone, pr.created_at,
		       COALESCE(array_agg(ur.role ORDER BY ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')
		FROM profiles pr
		LEFT JOIN user_roles ur ON ur.user_id = pr.id
		GROUP BY pr.id
		ORDER BY pr.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Phone, &u.CreatedAt, &u.Roles); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
