package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service types a customer can check out with.
const (
	ServiceDineIn   = "dine-in"
	ServicePickup   = "pickup"
	ServiceDelivery = "delivery"
	ServiceCounter  = "counter"
)

// Order statuses. Progression is linear; cancelled is reachable from any
// non-terminal status.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var statusRank = map[string]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusCompleted: 4,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[strings.ToLower(s)]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
// Forward jumps along the chain are allowed (staff set statuses directly),
// backwards moves are not, and completed/cancelled are terminal.
func CanTransition(from, to string) bool {
	from = strings.ToLower(from)
	to = strings.ToLower(to)
	if from == StatusCompleted || from == StatusCancelled {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

type Order struct {
	ID            string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CustomerName  string  `gorm:"type:varchar(255);not null" json:"customer_name"`
	ContactNumber string  `gorm:"type:varchar(50);not null;index" json:"contact_number"`
	ServiceType   string  `gorm:"type:varchar(20);not null" json:"service_type"`
	Address       *string `gorm:"type:text" json:"address,omitempty"`
	PickupTime    *string `gorm:"type:varchar(100)" json:"pickup_time,omitempty"`
	PartySize     *int    `json:"party_size,omitempty"`
	DineInTime    *string `gorm:"type:varchar(100)" json:"dine_in_time,omitempty"`

	PaymentMethod   string  `gorm:"type:varchar(50);not null" json:"payment_method"`
	ReferenceNumber string  `gorm:"type:varchar(100)" json:"reference_number"`
	Notes           string  `gorm:"type:text" json:"notes"`
	ReceiptUrl      *string `gorm:"type:varchar(512)" json:"receipt_url,omitempty"`

	Total  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// ShortCode is the customer-facing order code, the last 8 characters of the
// order ID uppercased.
func (o *Order) ShortCode() string {
	id := o.ID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}
