// Package pricing computes customized line prices for menu items.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/joescafe/storefront/models"
)

// SelectedAddOn pairs an add-on with the quantity chosen for it. Absence from
// a selection means quantity zero.
type SelectedAddOn struct {
	AddOn    models.AddOn
	Quantity int
}

// EffectiveUnitPrice resolves the discounted unit price for a menu item.
// An explicit discount (IsOnDiscount + DiscountPrice) takes precedence over
// an implicit one (server-computed EffectivePrice under BasePrice).
func EffectiveUnitPrice(menu models.Menu) decimal.Decimal {
	if menu.IsOnDiscount && menu.DiscountPrice != nil {
		return *menu.DiscountPrice
	}
	if menu.EffectivePrice != nil && menu.EffectivePrice.LessThan(menu.BasePrice) {
		return *menu.EffectivePrice
	}
	return menu.BasePrice
}

// LinePrice computes the unit price of one customized selection:
// effective price, plus the variation delta if any, plus price*quantity for
// each selected add-on. A negative result means bad catalog data (a variation
// delta below the item price); it is returned as an error rather than clamped
// so the upstream validation bug surfaces.
func LinePrice(menu models.Menu, variation *models.Variation, addOns []SelectedAddOn) (decimal.Decimal, error) {
	price := EffectiveUnitPrice(menu)
	if variation != nil {
		price = price.Add(variation.Price)
	}
	for _, sel := range addOns {
		if sel.Quantity <= 0 {
			continue
		}
		price = price.Add(sel.AddOn.Price.Mul(decimal.NewFromInt(int64(sel.Quantity))))
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative line price %s for menu %q", price.String(), menu.Name)
	}
	return price, nil
}

// DiscountPercent returns the rounded percentage shown on the sale badge,
// computed against the base price. The second return is false when the item
// has no discount or when BasePrice is zero (division guard).
func DiscountPercent(menu models.Menu) (int, bool) {
	if menu.BasePrice.IsZero() {
		return 0, false
	}
	discounted := EffectiveUnitPrice(menu)
	if !discounted.LessThan(menu.BasePrice) {
		return 0, false
	}
	pct := menu.BasePrice.Sub(discounted).
		Div(menu.BasePrice).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	return int(pct.IntPart()), true
}
