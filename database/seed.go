package database

import (
	"fmt"
	"log"

	"resto_manager/config"
	"resto_manager/constants"
	"resto_manager/model"
	"resto_manager/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(config.ConfigDefault("SEED_PASSWORD", "password123")), 10)
	if err != nil {
		log.Println("failed to hash seed password:", err)
		return
	}
	hashed := string(bytes)

	users := []model.User{
		{Username: "admin", Password: hashed, Name: "Administrator", Role: constants.ROLE_ADMIN, Active: true},
		{Username: "budi", Password: hashed, Name: "Budi Santoso", Role: constants.ROLE_PELAYAN, Active: true},
		{Username: "siti", Password: hashed, Name: "Siti Rahma", Role: constants.ROLE_KASIR, Active: true},
	}
	for _, user := range users {
		if err := db.Where(model.User{Username: user.Username}).FirstOrCreate(&user).Error; err != nil {
			log.Println("failed to seed user:", user.Username, "error:", err)
		}
	}

	for i := 1; i <= config.TableCount(); i++ {
		table := model.Table{
			TableNumber: fmt.Sprintf("T%02d", i),
			Capacity:    4,
			Status:      model.TableAvailable,
		}
		if err := db.Where(model.Table{TableNumber: table.TableNumber}).FirstOrCreate(&table).Error; err != nil {
			log.Println("failed to seed table:", table.TableNumber, "error:", err)
		}
	}

	menus := []model.Menu{
		{Name: "Nasi Goreng Spesial", Description: utils.StringPtr("Nasi goreng dengan telur, ayam dan kerupuk"), Price: decimal.NewFromInt(25000), Category: "makanan", IsAvailable: true},
		{Name: "Mie Goreng", Price: decimal.NewFromInt(22000), Category: "makanan", IsAvailable: true},
		{Name: "Ayam Bakar", Description: utils.StringPtr("Ayam bakar bumbu kecap dengan lalapan"), Price: decimal.NewFromInt(30000), Category: "makanan", IsAvailable: true},
		{Name: "Es Teh Manis", Price: decimal.NewFromInt(8000), Category: "minuman", IsAvailable: true},
		{Name: "Es Jeruk", Price: decimal.NewFromInt(10000), Category: "minuman", IsAvailable: true},
		{Name: "Kentang Goreng", Price: decimal.NewFromInt(15000), Category: "snack", IsAvailable: true},
		{Name: "Pisang Goreng", Price: decimal.NewFromInt(12000), Category: "snack", IsAvailable: true},
		{Name: "Es Krim", Price: decimal.NewFromInt(14000), Category: "dessert", IsAvailable: true},
	}
	for _, menu := range menus {
		if err := db.Where(model.Menu{Name: menu.Name}).FirstOrCreate(&menu).Error; err != nil {
			log.Println("failed to seed menu:", menu.Name, "error:", err)
		}
	}
}
