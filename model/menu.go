package model

import "github.com/shopspring/decimal"

type Menu struct {
	DTO
	Name        string          `gorm:"size:100" json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Category    string          `gorm:"size:20" json:"category"` // makanan, minuman, snack, dessert
	Image       *string         `json:"image,omitempty"`
	IsAvailable bool            `gorm:"default:true" json:"isAvailable"`
}

type CreateMenuInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,oneof=makanan minuman snack dessert"`
	IsAvailable *bool   `json:"isAvailable"`
}

type UpdateMenuInput struct {
	Name        *string  `json:"name" validate:"omitempty,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    *string  `json:"category" validate:"omitempty,oneof=makanan minuman snack dessert"`
	IsAvailable *bool    `json:"isAvailable"`
}
