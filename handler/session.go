package handler

import (
	"strconv"

	"resto_manager/database"
	"resto_manager/model"
	"resto_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func GetSessions(c *fiber.Ctx) error {
	query := database.DB.Preload("Table").Preload("Orders")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if tableId := c.Query("table_id"); tableId != "" {
		query = query.Where("table_id = ?", tableId)
	}

	var sessions []model.OrderSession
	if err := query.Order("created_at desc").Find(&sessions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal mengambil daftar session", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, sessions)
}

func GetSessionById(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("sessionId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID session tidak valid", err)
	}

	var session model.OrderSession
	if err := database.DB.
		Preload("Table").
		Preload("Orders").
		Preload("Orders.Items").
		Preload("Orders.Items.Menu").
		Preload("Orders.Payments").
		First(&session, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Session tidak ditemukan", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, session)
}

func CompleteSession(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("sessionId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID session tidak valid", err)
	}

	claim := currentUser(c)
	session, err := svc.CompleteSession(uint(id), claim.UserId)
	if err != nil {
		return serviceError(c, err)
	}

	var loaded model.OrderSession
	if err := database.DB.Preload("Table").Preload("Orders").First(&loaded, session.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal memuat session", err)
	}

	BroadcastTables()
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "Session completed successfully",
		"session": loaded,
	})
}
