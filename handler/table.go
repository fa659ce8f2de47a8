package handler

import (
	"errors"
	"strconv"

	"resto_manager/database"
	"resto_manager/model"
	"resto_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

func GetTables(c *fiber.Ctx) error {
	query := database.DB.Model(&model.Table{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tables []model.Table
	if err := query.Order("table_number asc").Find(&tables).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal mengambil daftar meja", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, tables)
}

func GetTableById(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("tableId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID meja tidak valid", err)
	}

	var table model.Table
	if err := database.DB.
		Preload("Sessions", "status = ?", model.SessionActive).
		Preload("Sessions.Orders").
		First(&table, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Meja tidak ditemukan", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, table)
}

func CreateTable(c *fiber.Ctx) error {
	var input model.CreateTableInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Request tidak valid", err)
	}
	if err := validate.Struct(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validasi gagal", err)
	}

	table := model.Table{
		TableNumber: input.TableNumber,
		Capacity:    input.Capacity,
		Status:      model.TableAvailable,
	}
	if err := database.DB.Create(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Nomor meja sudah dipakai", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal menambahkan meja", err)
	}

	BroadcastTables()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Meja berhasil ditambahkan",
		"data":    table,
	})
}

func UpdateTable(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("tableId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID meja tidak valid", err)
	}

	var input model.UpdateTableInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Request tidak valid", err)
	}
	if err := validate.Struct(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validasi gagal", err)
	}

	var table model.Table
	if err := database.DB.First(&table, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Meja tidak ditemukan", err)
	}

	copier.CopyWithOption(&table, &input, copier.Option{IgnoreEmpty: true})
	if input.Status != nil {
		table.Status = model.TableStatus(*input.Status)
	}
	if err := database.DB.Save(&table).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal mengupdate meja", err)
	}

	BroadcastTables()
	return utils.SuccessResponse(c, fiber.StatusOK, table)
}

func DeleteTable(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("tableId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID meja tidak valid", err)
	}

	var table model.Table
	if err := database.DB.First(&table, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Meja tidak ditemukan", err)
	}
	if table.Status == model.TableOccupied {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Tidak bisa menghapus meja yang sedang digunakan", nil)
	}

	if err := database.DB.Delete(&table).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal menghapus meja", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Meja berhasil dihapus"})
}
