package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// AddOne reconciles an "add one unit" request in a single statement: insert
// quantity 1, or bump the existing (user, product) row by one while it is
// below stock. The unique (user_id, product_id) constraint makes concurrent
// calls serialize on the row instead of inserting duplicates.
func (r *Repo) AddOne(ctx context.Context, userID, productID string) (Item, error) {
	var it Item
	err := r.DB.QueryRow(ctx, `
		WITH p AS (
			SELECT id, stock FROM products WHERE id = $2 AND is_active
		)
		INSERT INTO cart_items(user_id, product_id, quantity)
		SELECT $1::uuid, p.id, 1 FROM p WHERE p.stock > 0
		ON CONFLICT (user_id, product_id) DO UPDATE
			SET quantity = cart_items.quantity + 1
			WHERE cart_items.quantity < (SELECT stock FROM products WHERE id = EXCLUDED.product_id)
		RETURNING id, user_id, product_id, quantity, created_at`,
		userID, productID,
	).Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt)
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Item{}, err
	}
	return Item{}, r.explainRejectedAdd(ctx, productID)
}

// explainRejectedAdd runs only after AddOne wrote nothing.
func (r *Repo) explainRejectedAdd(ctx context.Context, productID string) error {
	var (
		active bool
		stock  int
	)
	err := r.DB.QueryRow(ctx, `SELECT is_active, stock FROM products WHERE id = $1`, productID).Scan(&active, &stock)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNoSuchProduct
	case err != nil:
		return err
	case !active:
		return ErrNoSuchProduct
	case stock <= 0:
		return ErrOutOfStock
	default:
		return ErrStockLimit
	}
}

// Step moves the quantity of one of the user's rows by delta (+1 or −1).
// Decrements floor at one, increments stop at the product's stock.
func (r *Repo) Step(ctx context.Context, userID, itemID string, delta int) (int, error) {
	var q int
	var err error
	if delta < 0 {
		err = r.DB.QueryRow(ctx, `
			UPDATE cart_items SET quantity = GREATEST(quantity + $3, 1)
			WHERE id = $1 AND user_id = $2
			RETURNING quantity`, itemID, userID, delta).Scan(&q)
	} else {
		err = r.DB.QueryRow(ctx, `
			UPDATE cart_items ci SET quantity = ci.quantity + $3
			FROM products p
			WHERE ci.id = $1 AND ci.user_id = $2 AND p.id = ci.product_id
			  AND ci.quantity + $3 <= p.stock
			RETURNING ci.quantity`, itemID, userID, delta).Scan(&q)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, r.missingOrLimited(ctx, userID, itemID)
	}
	return q, err
}

// SetQuantity writes q when 1 <= q <= stock.
func (r *Repo) SetQuantity(ctx context.Context, userID, itemID string, q int) error {
	if q < 1 {
		return ErrBadQuantity
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE cart_items ci SET quantity = $3
		FROM products p
		WHERE ci.id = $1 AND ci.user_id = $2 AND p.id = ci.product_id AND $3 <= p.stock`,
		itemID, userID, q)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return r.missingOrLimited(ctx, userID, itemID)
	}
	return nil
}

func (r *Repo) missingOrLimited(ctx context.Context, userID, itemID string) error {
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrStockLimit
}

func (r *Repo) Remove(ctx context.Context, userID, itemID string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the user's cart lines, newest first.
func (r *Repo) List(ctx context.Context, userID string) ([]Line, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ci.id, ci.quantity, p.id, p.slug, p.name, p.price, p.images, p.stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.Quantity, &l.Product.ID, &l.Product.Slug, &l.Product.Name,
			&l.Product.Price, &l.Product.Images, &l.Product.Stock); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM cart_items WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}
