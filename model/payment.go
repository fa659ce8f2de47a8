package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	DTO
	OrderId         uint            `gorm:"not null;index" json:"orderId"`
	Order           *Order          `gorm:"foreignKey:OrderId" json:"-"`
	PaymentMethod   PaymentMethod   `gorm:"size:10" json:"paymentMethod"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Status          PaymentStatus   `gorm:"default:pending" json:"status"`
	ReferenceNumber *string         `json:"referenceNumber,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
}

type CreatePaymentInput struct {
	PaymentMethod   string  `json:"paymentMethod" validate:"required,oneof=cash card qris gopay ovo dana"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	ReferenceNumber *string `json:"referenceNumber" validate:"omitempty,max=100"`
	Notes           *string `json:"notes" validate:"omitempty,max=500"`
}

type BulkPaymentInput struct {
	SessionId       uint    `json:"sessionId" validate:"required,gt=0"`
	PaymentMethod   string  `json:"paymentMethod" validate:"required,oneof=cash card qris gopay ovo dana"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	ReferenceNumber *string `json:"referenceNumber" validate:"omitempty,max=100"`
	Notes           *string `json:"notes" validate:"omitempty,max=500"`
}

type RefundInput struct {
	Reason string `json:"reason" validate:"required,max=500"`
}
