package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

type Repo struct{ DB *pgxpool.Pool }

const productColumns = `
	p.id, p.slug, p.name, p.description, p.brand, p.price, p.original_price,
	p.images, p.specifications, p.stock, p.is_active, p.is_featured, p.created_at,
	c.id, c.name, c.slug`

const productFrom = `FROM products p LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p                      Product
		orig                   decimal.NullDecimal
		specs                  []byte
		catID, catName, catSlg *string
	)
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.Brand, &p.Price, &orig,
		&p.Images, &specs, &p.Stock, &p.IsActive, &p.IsFeatured, &p.CreatedAt,
		&catID, &catName, &catSlg)
	if err != nil {
		return Product{}, err
	}
	if orig.Valid {
		p.OriginalPrice = &orig.Decimal
	}
	if p.Specifications, err = decodeSpecifications(specs); err != nil {
		return Product{}, fmt.Errorf("product %s specifications: %w", p.ID, err)
	}
	if catID != nil {
		p.Category = &Category{ID: *catID, Name: deref(catName), Slug: deref(catSlg)}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

// decodeSpecifications accepts any scalar JSON values and renders them as text.
func decodeSpecifications(b []byte) (Specifications, error) {
	out := Specifications{}
	if len(b) == 0 {
		return out, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		switch x := v.(type) {
		case nil:
			continue
		case string:
			out[k] = x
		default:
			out[k] = fmt.Sprint(x)
		}
	}
	return out, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListProducts returns active products matching f, newest first.
func (r *Repo) ListProducts(ctx context.Context, f Filter) ([]Product, error) {
	where := []string{"p.is_active"}
	var args []any
	if f.FeaturedOnly {
		where = append(where, "p.is_featured")
	}
	if f.CategorySlug != "" {
		args = append(args, f.CategorySlug)
		where = append(where, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, containsPattern(s))
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.brand ILIKE $%d)", len(args), len(args)))
	}
	q := `SELECT ` + productColumns + ` ` + productFrom +
		` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY p.created_at DESC`
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere.
// Backslash is the default LIKE escape character.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// ListAll includes inactive products; admin only.
func (r *Repo) ListAll(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` `+productFrom+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productColumns+` `+productFrom+` WHERE p.slug = $1 AND p.is_active`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) ListReviews(ctx context.Context, productID string) ([]Review, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, user_id, rating, comment, created_at
		FROM reviews WHERE product_id = $1
		ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ToggleActive flips is_active and returns the product's slug and new state.
func (r *Repo) ToggleActive(ctx context.Context, id string) (slug string, active bool, err error) {
	err = r.DB.QueryRow(ctx, `
		UPDATE products SET is_active = NOT is_active, updated_at = now()
		WHERE id = $1
		RETURNING slug, is_active`, id).Scan(&slug, &active)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, ErrNotFound
	}
	return slug, active, err
}

// Delete removes the product. The delete cascades to cart and wishlist
// rows, so it also returns the users who held one, for cache invalidation.
func (r *Repo) Delete(ctx context.Context, id string) (string, []string, error) {
	var (
		slug  *string
		users []string
	)
	err := r.DB.QueryRow(ctx, `
		WITH holders AS (
			SELECT user_id FROM cart_items WHERE product_id = $1
			UNION
			SELECT user_id FROM wishlist_items WHERE product_id = $1
		), gone AS (
			DELETE FROM products WHERE id = $1 RETURNING slug
		)
		SELECT (SELECT slug FROM gone),
			COALESCE((SELECT array_agg(user_id::text ORDER BY user_id) FROM holders), '{}')`, id,
	).Scan(&slug, &users)
	if err != nil {
		return "", nil, err
	}
	if slug == nil {
		return "", nil, ErrNotFound
	}
	return *slug, users, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
