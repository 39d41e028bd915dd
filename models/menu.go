package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Menu struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	CategoryID uint         `gorm:"not null" json:"category_id"`
	Category   MenuCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`

	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	ImageUrl    *string `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	Popular     bool    `gorm:"not null;default:false" json:"popular"`
	Available   bool    `gorm:"not null;default:true" json:"available"`

	BasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	// DiscountPrice is the explicit sale price, only honored while IsOnDiscount is set.
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_price,omitempty"`
	IsOnDiscount  bool             `gorm:"not null;default:false" json:"is_on_discount"`
	// EffectivePrice is a server-computed price that may undercut BasePrice
	// independently of the explicit discount flag.
	EffectivePrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"effective_price,omitempty"`

	TrackInventory    bool `gorm:"not null;default:false" json:"track_inventory"`
	StockQuantity     int  `gorm:"not null;default:0" json:"stock_quantity"`
	LowStockThreshold int  `gorm:"not null;default:5" json:"low_stock_threshold"`

	Variations []Variation `gorm:"foreignKey:MenuID" json:"variations,omitempty"`
	AddOns     []AddOn     `gorm:"foreignKey:MenuID" json:"add_ons,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Variation is a size/option choice; Price is a signed delta on the
// menu's effective price (a smaller serving may be negative).
type Variation struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	MenuID    uint            `gorm:"not null;index" json:"menu_id"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

type AddOn struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	MenuID   uint            `gorm:"not null;index" json:"menu_id"`
	Name     string          `gorm:"type:varchar(100);not null" json:"name"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category string          `gorm:"type:varchar(50);not null" json:"category"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
