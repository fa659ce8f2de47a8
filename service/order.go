package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"resto_manager/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NextOrderNumber derives the next date-prefixed order number. The sequence
// restarts at 1 each calendar day; lastNumber is the newest number issued
// today, or empty.
func NextOrderNumber(lastNumber string, now time.Time) string {
	sequence := 1
	if len(lastNumber) >= 4 {
		if n, err := strconv.Atoi(lastNumber[len(lastNumber)-4:]); err == nil {
			sequence = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", now.Format("20060102"), sequence)
}

func (s *Service) generateOrderNumber(tx *gorm.DB) (string, error) {
	now := s.clock.Now()
	var last model.Order
	err := tx.Where("created_at::date = ?", now.Format("2006-01-02")).
		Order("id desc").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NextOrderNumber("", now), nil
	}
	if err != nil {
		return "", err
	}
	return NextOrderNumber(last.OrderNumber, now), nil
}

// OpenOrder starts a new ordering round: resolves or creates the customer's
// session, gates on the latest order, issues an order number and occupies the
// table. The unique index on order_number backstops concurrent opens; on a
// conflict the whole transaction is retried.
func (s *Service) OpenOrder(input model.OpenOrderInput, waiterId uint) (*model.Order, error) {
	var order *model.Order

	for attempt := 0; attempt < 3; attempt++ {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var table model.Table
			if err := tx.First(&table, input.TableId).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return newError(KindNotFound, "Meja tidak ditemukan")
				}
				return err
			}

			session, err := s.openOrUseSession(tx, table.ID, input.CustomerName)
			if err != nil {
				return err
			}

			if err := s.canOpenNewOrder(tx, session.ID); err != nil {
				return err
			}

			number, err := s.generateOrderNumber(tx)
			if err != nil {
				return err
			}

			order = &model.Order{
				OrderNumber:    number,
				OrderSessionId: session.ID,
				WaiterId:       waiterId,
				Status:         model.OrderOpen,
				PaymentStatus:  model.OrderUnpaid,
				Subtotal:       decimal.Zero,
				Tax:            decimal.Zero,
				Total:          decimal.Zero,
				OpenedAt:       s.clock.Now(),
			}
			if err := tx.Create(order).Error; err != nil {
				return err
			}

			for _, in := range input.Items {
				var menu model.Menu
				if err := tx.First(&menu, in.MenuId).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return newError(KindNotFound, "Menu tidak ditemukan")
					}
					return err
				}
				item := model.OrderItem{
					OrderId:  order.ID,
					MenuId:   menu.ID,
					Quantity: in.Quantity,
					Price:    menu.Price,
					Subtotal: menu.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
					Notes:    in.Notes,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}
			if len(input.Items) > 0 {
				if err := s.recalculateTotals(tx, order); err != nil {
					return err
				}
			}

			return s.markOccupied(tx, &table)
		})
		if err == nil {
			return order, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue // lost the daily-sequence race, retry with a fresh number
		}
		return nil, err
	}
	return nil, fmt.Errorf("open order: exhausted retries on order number conflict")
}

// AddItem appends a menu item to an open/preparing order, merging with an
// existing line for the same menu instead of duplicating it.
func (s *Service) AddItem(orderId uint, input model.AddItemInput) (*model.OrderItem, error) {
	var item model.OrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, orderId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "Order tidak ditemukan")
			}
			return err
		}
		if !order.Status.Modifiable() {
			return newError(KindOrderNotModifiable, "Cannot add items to this order")
		}

		var menu model.Menu
		if err := tx.First(&menu, input.MenuId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "Menu tidak ditemukan")
			}
			return err
		}
		if !menu.IsAvailable {
			return newError(KindMenuUnavailable, "Menu item is not available")
		}

		err := tx.Where("order_id = ? AND menu_id = ?", order.ID, menu.ID).First(&item).Error
		switch {
		case err == nil:
			item.Quantity += input.Quantity
			item.Subtotal = item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			if err := tx.Model(&item).Updates(map[string]any{
				"quantity": item.Quantity,
				"subtotal": item.Subtotal,
			}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = model.OrderItem{
				OrderId:  order.ID,
				MenuId:   menu.ID,
				Quantity: input.Quantity,
				Price:    menu.Price,
				Subtotal: menu.Price.Mul(decimal.NewFromInt(int64(input.Quantity))),
				Notes:    input.Notes,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return s.recalculateTotals(tx, &order)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes a line from an open/preparing order.
func (s *Service) RemoveItem(orderId uint, itemId uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, orderId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "Order tidak ditemukan")
			}
			return err
		}
		if !order.Status.Modifiable() {
			return newError(KindOrderNotModifiable, "Cannot remove items from this order")
		}

		var item model.OrderItem
		if err := tx.First(&item, itemId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "Item tidak ditemukan")
			}
			return err
		}
		if item.OrderId != order.ID {
			return newError(KindItemMismatch, "Item does not belong to this order")
		}

		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return s.recalculateTotals(tx, &order)
	})
}

// CloseOrder ends a round. Only an open, non-empty, fully paid order may
// close; when it is the session's last outstanding order the session
// completes and the table is released.
func (s *Service) CloseOrder(orderId uint, cashierId uint) (*model.Order, error) {
	var order model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "Order tidak ditemukan")
			}
			return err
		}
		if order.Status != model.OrderOpen {
			return newError(KindAlreadyClosed, "Order is already closed")
		}

		var itemCount int64
		if err := tx.Model(&model.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
			return err
		}
		if itemCount == 0 {
			return newError(KindEmptyOrder, "Cannot close order without items")
		}
		if order.PaymentStatus != model.OrderPaid {
			return newError(KindPaymentIncomplete, "Cannot close order. Payment must be completed first")
		}

		now := s.clock.Now()
		order.Status = model.OrderClosed
		order.CashierId = &cashierId
		order.ClosedAt = &now
		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]any{
			"status":     model.OrderClosed,
			"cashier_id": cashierId,
			"closed_at":  now,
		}).Error; err != nil {
			return err
		}

		closed, err := s.allOrdersClosed(tx, order.OrderSessionId)
		if err != nil {
			return err
		}
		if closed {
			var session model.OrderSession
			if err := tx.First(&session, order.OrderSessionId).Error; err != nil {
				return err
			}
			return s.completeSessionTx(tx, &session, cashierId)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus moves an order along the kitchen flow. Legality is
// decided by the centralized transition table on OrderStatus.
func (s *Service) UpdateOrderStatus(orderId uint, next model.OrderStatus) (*model.Order, error) {
	var order model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "Order tidak ditemukan")
			}
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return newError(KindInvalidTransition, "Cannot update status of %s order", order.Status)
		}
		order.Status = next
		return tx.Model(&model.Order{}).Where("id = ?", order.ID).
			Update("status", next).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
