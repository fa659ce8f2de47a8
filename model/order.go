package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	DTO
	OrderNumber    string             `gorm:"unique;size:20" json:"orderNumber"` // YYYYMMDD + 4 digit daily sequence
	OrderSessionId uint               `gorm:"not null;index" json:"orderSessionId"`
	OrderSession   *OrderSession      `gorm:"foreignKey:OrderSessionId" json:"orderSession,omitempty"`
	WaiterId       uint               `json:"waiterId"`
	Waiter         *User              `gorm:"foreignKey:WaiterId" json:"waiter,omitempty"`
	CashierId      *uint              `json:"cashierId,omitempty"`
	Cashier        *User              `gorm:"foreignKey:CashierId" json:"cashier,omitempty"`
	Status         OrderStatus        `gorm:"default:open" json:"status"`
	PaymentStatus  OrderPaymentStatus `gorm:"default:unpaid" json:"paymentStatus"`
	Subtotal       decimal.Decimal    `gorm:"type:decimal(12,2)" json:"subtotal"`
	Tax            decimal.Decimal    `gorm:"type:decimal(12,2)" json:"tax"`
	Total          decimal.Decimal    `gorm:"type:decimal(12,2)" json:"total"`
	OpenedAt       time.Time          `json:"openedAt"`
	ClosedAt       *time.Time         `json:"closedAt,omitempty"`

	Items    []OrderItem `gorm:"foreignKey:OrderId" json:"items,omitempty"`
	Payments []Payment   `gorm:"foreignKey:OrderId" json:"payments,omitempty"`
}

type OpenOrderItemInput struct {
	MenuId   uint    `json:"menuId" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Notes    *string `json:"notes" validate:"omitempty,max=500"`
}

type OpenOrderInput struct {
	TableId      uint                 `json:"tableId" validate:"required,gt=0"`
	CustomerName string               `json:"customerName" validate:"required,max=100"`
	Items        []OpenOrderItemInput `json:"items" validate:"omitempty,dive"`
}

type AddItemInput struct {
	MenuId   uint    `json:"menuId" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Notes    *string `json:"notes" validate:"omitempty,max=500"`
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required,oneof=open preparing ready served closed cancelled"`
}
