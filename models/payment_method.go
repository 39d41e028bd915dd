package models

import "time"

// PaymentMethod is a read-only catalog entry the storefront offers at
// checkout (gcash, maya, cash on pickup, ...). Actual payment processing
// happens outside this system.
type PaymentMethod struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"type:varchar(50);not null;unique" json:"code"`
	Label         string    `gorm:"type:varchar(100);not null" json:"label"`
	AccountName   string    `gorm:"type:varchar(100)" json:"account_name"`
	AccountNumber string    `gorm:"type:varchar(100)" json:"account_number"`
	Active        bool      `gorm:"not null;default:true" json:"active"`
	SortOrder     int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
