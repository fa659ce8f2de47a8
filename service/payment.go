package service

import (
	"errors"
	"fmt"

	"resto_manager/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PayResult struct {
	Payment          *model.Payment  `json:"payment"`
	Change           decimal.Decimal `json:"change"`
	SessionCompleted bool            `json:"sessionCompleted"`
}

type BulkPayResult struct {
	Payments    []model.Payment `json:"payments"`
	OrdersPaid  int             `json:"ordersPaid"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Change      decimal.Decimal `json:"change"`
}

// Pay settles a single order in full. When the owning session has no unpaid
// orders left the whole visit cascades: remaining orders close, the session
// completes and the table is released. Change is returned for cash only.
func (s *Service) Pay(orderId uint, input model.CreatePaymentInput, cashierId uint) (*PayResult, error) {
	result := &PayResult{Change: decimal.Zero}
	amount := decimal.NewFromFloat(input.Amount)
	method := model.PaymentMethod(input.PaymentMethod)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, orderId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "Order tidak ditemukan")
			}
			return err
		}
		if order.PaymentStatus == model.OrderPaid {
			return newError(KindAlreadyPaid, "Order sudah dibayar")
		}
		if order.Status == model.OrderCancelled {
			return newError(KindOrderCancelled, "Cannot add payment to cancelled order")
		}

		var itemCount int64
		if err := tx.Model(&model.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
			return err
		}
		if itemCount == 0 {
			return newError(KindEmptyOrder, "Cannot add payment to order without items")
		}

		if amount.LessThan(order.Total) {
			return newError(KindInsufficientAmount, "Payment amount must be at least %s", order.Total.StringFixed(2))
		}

		now := s.clock.Now()
		payment := model.Payment{
			OrderId:         order.ID,
			PaymentMethod:   method,
			Amount:          amount,
			Status:          model.PaymentCompleted,
			ReferenceNumber: input.ReferenceNumber,
			Notes:           input.Notes,
			PaidAt:          &now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		order.PaymentStatus = model.OrderPaid
		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).
			Update("payment_status", model.OrderPaid).Error; err != nil {
			return err
		}

		unpaid, err := s.hasUnpaidOrders(tx, order.OrderSessionId)
		if err != nil {
			return err
		}
		if !unpaid {
			var session model.OrderSession
			if err := tx.First(&session, order.OrderSessionId).Error; err != nil {
				return err
			}
			if err := s.completeSessionTx(tx, &session, cashierId); err != nil {
				return err
			}
			result.SessionCompleted = true
		}

		result.Payment = &payment
		if method == model.PayCash {
			result.Change = amount.Sub(order.Total)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PayBulk settles every unpaid, non-cancelled order of a session with one
// tendered amount. One payment row is written per order, each for that
// order's own total; the session always completes on this path.
func (s *Service) PayBulk(input model.BulkPaymentInput, cashierId uint) (*BulkPayResult, error) {
	result := &BulkPayResult{Change: decimal.Zero}
	amount := decimal.NewFromFloat(input.Amount)
	method := model.PaymentMethod(input.PaymentMethod)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session model.OrderSession
		if err := tx.First(&session, input.SessionId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "Session tidak ditemukan")
			}
			return err
		}

		var orders []model.Order
		if err := tx.Where("order_session_id = ? AND payment_status = ? AND status <> ?",
			session.ID, model.OrderUnpaid, model.OrderCancelled).
			Find(&orders).Error; err != nil {
			return err
		}
		if len(orders) == 0 {
			return newError(KindNothingToPay, "No unpaid orders found in this session")
		}

		totalAmount := decimal.Zero
		for _, order := range orders {
			totalAmount = totalAmount.Add(order.Total)
		}
		if amount.LessThan(totalAmount) {
			return newError(KindInsufficientAmount,
				"Payment amount must be at least %s (total from %d orders)",
				totalAmount.StringFixed(2), len(orders))
		}

		now := s.clock.Now()
		for i := range orders {
			payment := model.Payment{
				OrderId:         orders[i].ID,
				PaymentMethod:   method,
				Amount:          orders[i].Total,
				Status:          model.PaymentCompleted,
				ReferenceNumber: input.ReferenceNumber,
				Notes:           input.Notes,
				PaidAt:          &now,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
			if err := tx.Model(&orders[i]).Update("payment_status", model.OrderPaid).Error; err != nil {
				return err
			}
			result.Payments = append(result.Payments, payment)
		}

		if err := s.completeSessionTx(tx, &session, cashierId); err != nil {
			return err
		}

		result.OrdersPaid = len(orders)
		result.TotalAmount = totalAmount
		if method == model.PayCash {
			result.Change = amount.Sub(totalAmount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Refund marks a completed payment refunded and, when nothing completed
// remains against the order, reverts its payment status to unpaid. A session
// or table that already cascaded to completed/available is left untouched:
// once settled, the cascade is not walked backward.
func (s *Service) Refund(orderId uint, paymentId uint, reason string) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, orderId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "Order tidak ditemukan")
			}
			return err
		}

		if err := tx.First(&payment, paymentId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindPaymentNotFound, "Payment tidak ditemukan")
			}
			return err
		}
		if payment.OrderId != order.ID {
			return newError(KindPaymentNotFound, "Payment tidak ditemukan")
		}
		if payment.Status != model.PaymentCompleted {
			return newError(KindNotRefundable, "Hanya pembayaran completed yang bisa di-refund")
		}

		notes := fmt.Sprintf("Refund: %s", reason)
		if payment.Notes != nil && *payment.Notes != "" {
			notes = fmt.Sprintf("%s | %s", *payment.Notes, notes)
		}
		payment.Status = model.PaymentRefunded
		payment.Notes = &notes
		if err := tx.Model(&model.Payment{}).Where("id = ?", payment.ID).Updates(map[string]any{
			"status": model.PaymentRefunded,
			"notes":  notes,
		}).Error; err != nil {
			return err
		}

		var totalPaid decimal.NullDecimal
		if err := tx.Model(&model.Payment{}).
			Where("order_id = ? AND status = ?", order.ID, model.PaymentCompleted).
			Select("SUM(amount)").Scan(&totalPaid).Error; err != nil {
			return err
		}
		if !totalPaid.Valid || totalPaid.Decimal.IsZero() {
			return tx.Model(&model.Order{}).Where("id = ?", order.ID).
				Update("payment_status", model.OrderUnpaid).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
