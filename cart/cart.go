// Package cart holds per-session shopping carts for the storefront.
package cart

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/joescafe/storefront/models"
	"github.com/joescafe/storefront/pricing"
)

// Line is one customized selection in the cart. UnitPrice is computed once
// when the line is added and never refreshed, so a catalog price change
// mid-session does not reprice items already in the cart.
type Line struct {
	ID            string                  `json:"id"`
	MenuID        uint                    `json:"menu_id"`
	MenuName      string                  `json:"menu_name"`
	VariationID   *uint                   `json:"variation_id,omitempty"`
	VariationName *string                 `json:"variation_name,omitempty"`
	AddOns        []pricing.SelectedAddOn `json:"add_ons,omitempty"`
	Quantity      int                     `json:"quantity"`
	UnitPrice     decimal.Decimal         `json:"unit_price"`
}

// Subtotal is UnitPrice * Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	mu    sync.Mutex
	lines []*Line
}

func New() *Cart {
	return &Cart{}
}

// lineKey derives the structural identity of a selection: menu id, variation
// id (or absence), and the sorted add-on id:quantity pairs. Two selections
// with the same key are the same line and merge on add.
func lineKey(menuID uint, variation *models.Variation, addOns []pricing.SelectedAddOn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", menuID)
	if variation != nil {
		fmt.Fprintf(&b, "|v%d", variation.ID)
	}
	pairs := make([]string, 0, len(addOns))
	for _, sel := range addOns {
		pairs = append(pairs, fmt.Sprintf("a%d:%d", sel.AddOn.ID, sel.Quantity))
	}
	sort.Strings(pairs)
	if len(pairs) > 0 {
		b.WriteString("|")
		b.WriteString(strings.Join(pairs, ","))
	}
	return b.String()
}

// normalizeAddOns drops zero/negative quantities and merges duplicate add-on
// ids so the structural key does not depend on selection order.
func normalizeAddOns(addOns []pricing.SelectedAddOn) []pricing.SelectedAddOn {
	merged := make(map[uint]pricing.SelectedAddOn)
	order := make([]uint, 0, len(addOns))
	for _, sel := range addOns {
		if sel.Quantity <= 0 {
			continue
		}
		if existing, ok := merged[sel.AddOn.ID]; ok {
			existing.Quantity += sel.Quantity
			merged[sel.AddOn.ID] = existing
			continue
		}
		merged[sel.AddOn.ID] = sel
		order = append(order, sel.AddOn.ID)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]pricing.SelectedAddOn, 0, len(merged))
	for _, id := range order {
		out = append(out, merged[id])
	}
	return out
}

// AddItem prices the selection and appends it, or bumps the quantity of an
// existing line with the identical combination. Availability and stock are
// deliberately not checked here; the order service enforces stock when the
// order is created.
func (c *Cart) AddItem(menu models.Menu, quantity int, variation *models.Variation, addOns []pricing.SelectedAddOn) (*Line, error) {
	if quantity < 1 {
		quantity = 1
	}
	addOns = normalizeAddOns(addOns)

	unitPrice, err := pricing.LinePrice(menu, variation, addOns)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := lineKey(menu.ID, variation, addOns)
	for _, line := range c.lines {
		if line.ID == key {
			line.Quantity += quantity
			return line, nil
		}
	}

	line := &Line{
		ID:        key,
		MenuID:    menu.ID,
		MenuName:  menu.Name,
		AddOns:    addOns,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	if variation != nil {
		id, name := variation.ID, variation.Name
		line.VariationID = &id
		line.VariationName = &name
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// UpdateQuantity sets a line's quantity exactly; zero or less removes the
// line. Unknown line ids are ignored.
func (c *Cart) UpdateQuantity(lineID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(lineID)
		return
	}
	for _, line := range c.lines {
		if line.ID == lineID {
			line.Quantity = quantity
			return
		}
	}
}

// RemoveItem removes a line unconditionally; no-op when not found.
func (c *Cart) RemoveItem(lineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(lineID)
}

func (c *Cart) removeLocked(lineID string) {
	for i, line := range c.lines {
		if line.ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// TotalPrice is the sum of line subtotals; zero for an empty cart.
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Lines returns a snapshot of the cart in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, *line)
	}
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}
