// Package cartitems answers questions about the contents of a shopping cart.
package cartitems

import (
	"strings"

	"github.com/deCybercop/wp-calypso/internal/models"
)

// planSlugs are the plan products, without term suffixes
var planSlugs = map[string]bool{
	"personal-bundle":  true,
	"value_bundle":     true,
	"business-bundle":  true,
	"ecommerce-bundle": true,
	"blogger-bundle":   true,
	"jetpack_premium":  true,
	"jetpack_business": true,
	"jetpack_personal": true,
}

// termSuffixes are stripped before looking a slug up in planSlugs
var termSuffixes = []string{"_monthly", "-monthly", "-2y", "_2y"}

// Categories returns every category the item belongs to. An ecommerce plan
// is both a plan and an ecommerce plan.
func Categories(item models.CartItem) []models.ProductCategory {
	if item.Category != "" {
		if item.Category == models.CategoryEcommercePlan {
			return []models.ProductCategory{models.CategoryPlan, models.CategoryEcommercePlan}
		}
		return []models.ProductCategory{item.Category}
	}

	slug := strings.ToLower(item.ProductSlug)
	switch {
	case slug == "domain_map":
		return []models.ProductCategory{models.CategoryDomainMapping}
	case slug == "domain_transfer":
		return []models.ProductCategory{models.CategoryDomainTransfer}
	case item.IsDomainRegistration, slug == "domain_reg", strings.HasSuffix(slug, "_domain"):
		return []models.ProductCategory{models.CategoryDomainRegistration}
	case slug == "concierge-session":
		return []models.ProductCategory{models.CategoryConciergeSession}
	case slug == "gapps", slug == "gapps_unlimited", strings.HasPrefix(slug, "gsuite_"):
		return []models.ProductCategory{models.CategoryGoogleApps}
	}

	base := trimTerm(slug)
	if planSlugs[base] {
		if base == "ecommerce-bundle" {
			return []models.ProductCategory{models.CategoryPlan, models.CategoryEcommercePlan}
		}
		return []models.ProductCategory{models.CategoryPlan}
	}
	return []models.ProductCategory{models.CategoryOther}
}

func trimTerm(slug string) string {
	for _, suffix := range termSuffixes {
		if strings.HasSuffix(slug, suffix) {
			return strings.TrimSuffix(slug, suffix)
		}
	}
	return slug
}

// IsCategory reports whether the item belongs to category c
func IsCategory(item models.CartItem, c models.ProductCategory) bool {
	for _, got := range Categories(item) {
		if got == c {
			return true
		}
	}
	return false
}

// GetAllCartItems returns every item in the cart; a nil cart has none
func GetAllCartItems(cart *models.Cart) []models.CartItem {
	if cart == nil {
		return nil
	}
	return cart.Products
}

// itemsOf returns the cart items in category c, in cart order
func itemsOf(cart *models.Cart, c models.ProductCategory) []models.CartItem {
	var out []models.CartItem
	for _, item := range GetAllCartItems(cart) {
		if IsCategory(item, c) {
			out = append(out, item)
		}
	}
	return out
}

func has(cart *models.Cart, c models.ProductCategory) bool {
	for _, item := range GetAllCartItems(cart) {
		if IsCategory(item, c) {
			return true
		}
	}
	return false
}

func HasDomainMapping(cart *models.Cart) bool {
	return has(cart, models.CategoryDomainMapping)
}

func HasDomainRegistration(cart *models.Cart) bool {
	return has(cart, models.CategoryDomainRegistration)
}

func HasTransferProduct(cart *models.Cart) bool {
	return has(cart, models.CategoryDomainTransfer)
}

func HasPlan(cart *models.Cart) bool {
	return has(cart, models.CategoryPlan)
}

func HasConciergeSession(cart *models.Cart) bool {
	return has(cart, models.CategoryConciergeSession)
}

func HasEcommercePlan(cart *models.Cart) bool {
	return has(cart, models.CategoryEcommercePlan)
}

func HasGoogleApps(cart *models.Cart) bool {
	return has(cart, models.CategoryGoogleApps)
}

// GetGoogleApps returns the Google Apps items in cart order
func GetGoogleApps(cart *models.Cart) []models.CartItem {
	return itemsOf(cart, models.CategoryGoogleApps)
}

// Lookup walks a dotted path through nested maps in the item's extra data.
// Returns nil when any level is missing.
func Lookup(item models.CartItem, path ...string) any {
	var cur any = item.Extra
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok {
			return nil
		}
	}
	return cur
}

// Truthy reports whether a decoded JSON value is truthy: nil, false, zero,
// and the empty string are not.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case float32:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	case uint64:
		return x != 0
	}
	return true
}
