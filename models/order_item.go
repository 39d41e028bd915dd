package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID string `gorm:"type:varchar(36);not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	MenuID uint `gorm:"not null" json:"menu_id"`
	Menu   Menu `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	// MenuName and prices are snapshots taken at order time; later catalog
	// edits must not rewrite history.
	MenuName      string  `gorm:"type:varchar(255);not null" json:"menu_name"`
	VariationID   *uint   `json:"variation_id,omitempty"`
	VariationName *string `gorm:"type:varchar(100)" json:"variation_name,omitempty"`

	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`

	AddOns []OrderItemAddOn `gorm:"foreignKey:OrderItemID" json:"add_ons,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type OrderItemAddOn struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderItemID uint      `gorm:"not null;index" json:"order_item_id"`
	OrderItem   OrderItem `gorm:"-" json:"-"`

	AddOnID  uint            `gorm:"not null" json:"add_on_id"`
	Name     string          `gorm:"type:varchar(100);not null" json:"name"`
	Quantity int             `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
