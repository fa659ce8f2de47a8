package service

import (
	"errors"

	"resto_manager/model"

	"gorm.io/gorm"
)

func (s *Service) markOccupied(tx *gorm.DB, table *model.Table) error {
	if table.Status == model.TableOccupied {
		return nil
	}
	table.Status = model.TableOccupied
	return tx.Model(&model.Table{}).Where("id = ?", table.ID).
		Update("status", model.TableOccupied).Error
}

// markAvailable releases a table only when no other active session still
// references it, so settling one customer never frees a table that is still
// serving another. Calling it on an already-available table is a no-op.
func (s *Service) markAvailable(tx *gorm.DB, table *model.Table) error {
	var active int64
	err := tx.Model(&model.OrderSession{}).
		Where("table_id = ? AND status = ?", table.ID, model.SessionActive).
		Count(&active).Error
	if err != nil {
		return err
	}
	if active > 0 || table.Status == model.TableAvailable {
		return nil
	}
	table.Status = model.TableAvailable
	return tx.Model(&model.Table{}).Where("id = ?", table.ID).
		Update("status", model.TableAvailable).Error
}

func (s *Service) IsAvailable(tableId uint) (bool, error) {
	var table model.Table
	if err := s.db.First(&table, tableId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, newError(KindNotFound, "Meja tidak ditemukan")
		}
		return false, err
	}
	return table.IsAvailable(), nil
}
