package model

type User struct {
	DTO
	Username string `gorm:"unique;size:50" json:"username"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Role     string `json:"role"` // admin, pelayan, kasir
	Active   bool   `gorm:"default:true" json:"active"`
}
