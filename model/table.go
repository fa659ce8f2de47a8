package model

type Table struct {
	DTO
	TableNumber string      `gorm:"unique;size:10" json:"tableNumber"`
	Capacity    int         `json:"capacity"`
	Status      TableStatus `gorm:"default:available" json:"status"`

	Sessions []OrderSession `gorm:"foreignKey:TableId" json:"sessions,omitempty"`
}

func (t *Table) IsAvailable() bool {
	return t.Status == TableAvailable
}

type CreateTableInput struct {
	TableNumber string `json:"tableNumber" validate:"required,max=10"`
	Capacity    int    `json:"capacity" validate:"required,min=1,max=50"`
}

type UpdateTableInput struct {
	TableNumber *string `json:"tableNumber" validate:"omitempty,max=10"`
	Capacity    *int    `json:"capacity" validate:"omitempty,min=1,max=50"`
	Status      *string `json:"status" validate:"omitempty,oneof=available occupied reserved"`
}
