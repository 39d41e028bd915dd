package checkout

import (
	"fmt"
	"strings"

	"github.com/joescafe/storefront/models"
	"github.com/joescafe/storefront/utils"
)

// SummaryText renders the shareable order summary shown to the customer after
// a successful checkout.
func SummaryText(order *models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Joe's Cafe & Resto ORDER\n")
	fmt.Fprintf(&b, "Order Code: #%s\n", order.ShortCode())
	fmt.Fprintf(&b, "Name: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Contact: %s\n", order.ContactNumber)
	fmt.Fprintf(&b, "Service: %s\n", formatServiceType(order.ServiceType))

	switch order.ServiceType {
	case models.ServiceDelivery:
		if order.Address != nil {
			fmt.Fprintf(&b, "Address: %s\n", *order.Address)
		}
	case models.ServicePickup:
		if order.PickupTime != nil {
			fmt.Fprintf(&b, "Pickup: %s\n", *order.PickupTime)
		}
	case models.ServiceDineIn:
		if order.PartySize != nil {
			plural := ""
			if *order.PartySize != 1 {
				plural = "s"
			}
			fmt.Fprintf(&b, "Party Size: %d person%s\n", *order.PartySize, plural)
		}
		if order.DineInTime != nil {
			fmt.Fprintf(&b, "Preferred Time: %s\n", *order.DineInTime)
		}
	}

	fmt.Fprintf(&b, "Payment: %s\n", order.PaymentMethod)

	b.WriteString("Items:\n")
	for _, item := range order.OrderItems {
		fmt.Fprintf(&b, "  %dx %s", item.Quantity, item.MenuName)
		if item.VariationName != nil {
			fmt.Fprintf(&b, " (%s)", *item.VariationName)
		}
		for _, addOn := range item.AddOns {
			if addOn.Quantity > 1 {
				fmt.Fprintf(&b, " +%s x%d", addOn.Name, addOn.Quantity)
			} else {
				fmt.Fprintf(&b, " +%s", addOn.Name)
			}
		}
		fmt.Fprintf(&b, " - %s\n", utils.FormatCurrency(item.Subtotal))
	}

	fmt.Fprintf(&b, "Total: %s\n", utils.FormatCurrency(order.Total))
	if order.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", order.Notes)
	}
	return b.String()
}

func formatServiceType(serviceType string) string {
	s := strings.ReplaceAll(serviceType, "-", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
