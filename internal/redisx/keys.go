package redisx

import (
	"fmt"
	"time"
)

const (
	// Product detail by slug: catalog:product:{slug} -> JSON
	KeyProduct = "catalog:product:%s"

	// Category list: catalog:categories -> JSON
	KeyCategories = "catalog:categories"

	// Counters shown in the navbar: cart:count:{user_id}, wishlist:count:{user_id}
	KeyCartCount     = "cart:count:%s"
	KeyWishlistCount = "wishlist:count:%s"

	// Order history per user: orders:user:{user_id} -> JSON
	KeyUserOrders = "orders:user:%s"

	// Signed-out tokens: session:revoked:{token_id}
	KeyRevokedToken = "session:revoked:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCatalog    = 5 * time.Minute
	TTLCounter    = 2 * time.Minute
	TTLUserOrders = 5 * time.Minute
	TTLDedup      = 48 * time.Hour
)

// UserKeys lists every per-user cache entry touched by a cart, wishlist or order change.
func UserKeys(userID string) []string {
	return []string{
		fmt.Sprintf(KeyCartCount, userID),
		fmt.Sprintf(KeyWishlistCount, userID),
		fmt.Sprintf(KeyUserOrders, userID),
	}
}
