package model

import "time"

// OrderSession groups the sequential orders of one customer visit at one
// table. At most one active session is expected per (table, customer) pair.
type OrderSession struct {
	DTO
	TableId      uint          `gorm:"not null;index" json:"tableId"`
	Table        *Table        `gorm:"foreignKey:TableId" json:"table,omitempty"`
	CustomerName string        `gorm:"size:100" json:"customerName"`
	Status       SessionStatus `gorm:"default:active" json:"status"`
	StartedAt    time.Time     `json:"startedAt"`
	EndedAt      *time.Time    `json:"endedAt,omitempty"`

	Orders []Order `gorm:"foreignKey:OrderSessionId" json:"orders,omitempty"`
}
