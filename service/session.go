package service

import (
	"errors"
	"fmt"

	"resto_manager/model"

	"gorm.io/gorm"
)

// openOrUseSession finds the active session for (table, customer) or creates
// one. The advisory lock serializes concurrent find-or-create attempts for
// the same key so duplicate active sessions cannot appear.
func (s *Service) openOrUseSession(tx *gorm.DB, tableId uint, customerName string) (*model.OrderSession, error) {
	lockKey := fmt.Sprintf("order_session:%d:%s", tableId, customerName)
	if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", lockKey).Error; err != nil {
		return nil, err
	}

	var session model.OrderSession
	err := tx.Where("table_id = ? AND customer_name = ? AND status = ?",
		tableId, customerName, model.SessionActive).First(&session).Error
	if err == nil {
		return &session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session = model.OrderSession{
		TableId:      tableId,
		CustomerName: customerName,
		Status:       model.SessionActive,
		StartedAt:    s.clock.Now(),
	}
	if err := tx.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// latestOrder returns the most recently created order of the session, or nil.
func (s *Service) latestOrder(tx *gorm.DB, sessionId uint) (*model.Order, error) {
	var order model.Order
	err := tx.Where("order_session_id = ?", sessionId).
		Order("created_at desc, id desc").First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// canOpenNewOrder gates new-order creation: the latest order must be at least
// ready before another round may start.
func (s *Service) canOpenNewOrder(tx *gorm.DB, sessionId uint) error {
	latest, err := s.latestOrder(tx, sessionId)
	if err != nil {
		return err
	}
	if latest != nil && (latest.Status == model.OrderOpen || latest.Status == model.OrderPreparing) {
		return newError(KindSessionBusy,
			"Cannot create new order. Latest order (%s) is still in %s status. Please wait until it is at least ready.",
			latest.OrderNumber, latest.Status)
	}
	return nil
}

func (s *Service) hasUnpaidOrders(tx *gorm.DB, sessionId uint) (bool, error) {
	var count int64
	err := tx.Model(&model.Order{}).
		Where("order_session_id = ? AND payment_status = ?", sessionId, model.OrderUnpaid).
		Count(&count).Error
	return count > 0, err
}

func (s *Service) allOrdersClosed(tx *gorm.DB, sessionId uint) (bool, error) {
	var count int64
	err := tx.Model(&model.Order{}).
		Where("order_session_id = ? AND status NOT IN ?", sessionId,
			[]model.OrderStatus{model.OrderClosed, model.OrderCancelled}).
		Count(&count).Error
	return count == 0, err
}

// completeSessionTx closes every non-terminal order (stamping the cashier),
// marks the session completed and releases the table. Shared by CompleteSession,
// Pay and PayBulk cascades; must run inside the caller's transaction.
func (s *Service) completeSessionTx(tx *gorm.DB, session *model.OrderSession, cashierId uint) error {
	now := s.clock.Now()

	var orders []model.Order
	if err := tx.Where("order_session_id = ? AND status NOT IN ?", session.ID,
		[]model.OrderStatus{model.OrderClosed, model.OrderCancelled}).
		Find(&orders).Error; err != nil {
		return err
	}
	for i := range orders {
		if err := tx.Model(&orders[i]).Updates(map[string]any{
			"status":     model.OrderClosed,
			"closed_at":  now,
			"cashier_id": cashierId,
		}).Error; err != nil {
			return err
		}
	}

	session.Status = model.SessionCompleted
	session.EndedAt = &now
	if err := tx.Model(&model.OrderSession{}).Where("id = ?", session.ID).Updates(map[string]any{
		"status":   model.SessionCompleted,
		"ended_at": now,
	}).Error; err != nil {
		return err
	}

	var table model.Table
	if err := tx.First(&table, session.TableId).Error; err != nil {
		return err
	}
	return s.markAvailable(tx, &table)
}

// CompleteSession settles a whole visit. Fails while any order is unpaid;
// completing an already-completed session is a no-op cascade.
func (s *Service) CompleteSession(sessionId uint, cashierId uint) (*model.OrderSession, error) {
	var session model.OrderSession
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, sessionId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "Session tidak ditemukan")
			}
			return err
		}

		if session.Status == model.SessionCompleted {
			return nil
		}

		unpaid, err := s.hasUnpaidOrders(tx, session.ID)
		if err != nil {
			return err
		}
		if unpaid {
			return newError(KindUnpaidOrdersExist, "Cannot complete session. All orders must be paid first.")
		}

		return s.completeSessionTx(tx, &session, cashierId)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}
