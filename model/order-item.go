package model

import "github.com/shopspring/decimal"

// OrderItem snapshots the menu price at add-time; Subtotal is always
// Price * Quantity.
type OrderItem struct {
	DTO
	OrderId  uint            `gorm:"not null;index" json:"orderId"`
	MenuId   uint            `gorm:"not null" json:"menuId"`
	Menu     *Menu           `gorm:"foreignKey:MenuId" json:"menu,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Subtotal decimal.Decimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	Notes    *string         `json:"notes,omitempty"`
}
