package service

import (
	"resto_manager/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CalculateTotals computes subtotal, tax and total from the given line items.
// Pure and idempotent; tax is rounded to 2 decimal places.
func CalculateTotals(items []model.OrderItem, taxPercentage decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	tax = subtotal.Mul(taxPercentage).Div(decimal.NewFromInt(100)).Round(2)
	total = subtotal.Add(tax)
	return subtotal, tax, total
}

// recalculateTotals must run after every item mutation so persisted totals
// can never go stale.
func (s *Service) recalculateTotals(tx *gorm.DB, order *model.Order) error {
	var items []model.OrderItem
	if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return err
	}

	subtotal, tax, total := CalculateTotals(items, s.taxPercentage)
	order.Subtotal = subtotal
	order.Tax = tax
	order.Total = total

	return tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]any{
		"subtotal": subtotal,
		"tax":      tax,
		"total":    total,
	}).Error
}
