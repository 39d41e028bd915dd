// Package checkout assembles validated order requests from a cart and the
// customer's checkout form, and sequences receipt upload with order creation.
package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joescafe/storefront/cart"
	"github.com/joescafe/storefront/models"
)

// CustomerFields is everything the checkout form collects. Which fields are
// required depends on the service type.
type CustomerFields struct {
	CustomerName  string `json:"customer_name"`
	ContactNumber string `json:"contact_number"`
	ServiceType   string `json:"service_type"`

	Address  string `json:"address"`
	Landmark string `json:"landmark"`

	PickupTime string `json:"pickup_time"`

	PartySize  int    `json:"party_size"`
	DineInTime string `json:"dine_in_time"`

	TableNumber string `json:"table_number"`

	PaymentMethod   string `json:"payment_method"`
	ReferenceNumber string `json:"reference_number"`
	Notes           string `json:"notes"`
}

// OrderRequest is the normalized payload handed to the persistence
// collaborator. Exactly one of the service-specific field groups is set,
// matching ServiceType.
type OrderRequest struct {
	CustomerName  string
	ContactNumber string
	ServiceType   string

	Address    *string
	PickupTime *string
	PartySize  *int
	DineInTime *string

	PaymentMethod   string
	ReferenceNumber string
	Notes           string
	ReceiptUrl      *string

	Total decimal.Decimal
	Items []cart.Line
}

// BuildOrderRequest validates the checkout form against the cart and returns
// the order-creation payload. Validation reports the first problem in fixed
// precedence: empty cart, then name, then contact, then the service-specific
// field. The cart's total at assembly time is the authoritative order total.
func BuildOrderRequest(c *cart.Cart, f CustomerFields) (*OrderRequest, error) {
	if c == nil || c.Len() == 0 {
		return nil, ErrEmptyCart
	}

	serviceType := strings.ToLower(strings.TrimSpace(f.ServiceType))

	// The counter flow identifies the customer by table number; it doubles
	// as the contact number when none was given.
	if serviceType == models.ServiceCounter && strings.TrimSpace(f.ContactNumber) == "" {
		f.ContactNumber = strings.TrimSpace(f.TableNumber)
	}

	if strings.TrimSpace(f.CustomerName) == "" {
		return nil, &ValidationError{Field: "customer_name", Message: "please enter your name"}
	}
	if strings.TrimSpace(f.ContactNumber) == "" {
		return nil, &ValidationError{Field: "contact_number", Message: "please enter a contact number"}
	}

	req := &OrderRequest{
		CustomerName:    strings.TrimSpace(f.CustomerName),
		ContactNumber:   strings.TrimSpace(f.ContactNumber),
		ServiceType:     serviceType,
		PaymentMethod:   f.PaymentMethod,
		ReferenceNumber: f.ReferenceNumber,
		Notes:           strings.TrimSpace(f.Notes),
		Total:           c.TotalPrice(),
		Items:           c.Lines(),
	}

	switch serviceType {
	case models.ServiceDelivery:
		addr := strings.TrimSpace(f.Address)
		if addr == "" {
			return nil, &ValidationError{Field: "address", Message: "please enter a delivery address"}
		}
		req.Address = &addr
		if landmark := strings.TrimSpace(f.Landmark); landmark != "" {
			req.Notes = mergeNotes(req.Notes, "Landmark: "+landmark)
		}
	case models.ServicePickup:
		pickup := strings.TrimSpace(f.PickupTime)
		if pickup == "" {
			return nil, &ValidationError{Field: "pickup_time", Message: "please choose a pickup time"}
		}
		req.PickupTime = &pickup
	case models.ServiceDineIn:
		if f.PartySize < 1 {
			return nil, &ValidationError{Field: "party_size", Message: "please enter your party size"}
		}
		dineIn := strings.TrimSpace(f.DineInTime)
		if dineIn == "" {
			return nil, &ValidationError{Field: "dine_in_time", Message: "please choose a preferred time"}
		}
		partySize := f.PartySize
		req.PartySize = &partySize
		req.DineInTime = &dineIn
	case models.ServiceCounter:
		table := strings.TrimSpace(f.TableNumber)
		if table == "" {
			return nil, &ValidationError{Field: "table_number", Message: "please enter a table number"}
		}
		// Table number leads the notes for counter orders.
		req.Notes = mergeNotes("Table: "+table, req.Notes)
	default:
		return nil, &ValidationError{Field: "service_type", Message: "unknown service type"}
	}

	return req, nil
}

// mergeNotes joins two note fragments with the fixed " | " separator,
// omitting the separator when either side is empty.
func mergeNotes(primary, secondary string) string {
	if primary == "" {
		return secondary
	}
	if secondary == "" {
		return primary
	}
	return primary + " | " + secondary
}
