package handler

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"resto_manager/database"
	"resto_manager/model"
	"resto_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func orderPreloads() []string {
	return []string{"OrderSession", "OrderSession.Table", "Waiter", "Cashier", "Items", "Items.Menu", "Payments"}
}

func loadOrder(id uint) (*model.Order, error) {
	query := database.DB
	for _, preload := range orderPreloads() {
		query = query.Preload(preload)
	}
	var order model.Order
	if err := query.First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func GetOrders(c *fiber.Ctx) error {
	query := database.DB.
		Preload("OrderSession").
		Preload("OrderSession.Table").
		Preload("Waiter").
		Preload("Cashier").
		Preload("Items").
		Preload("Items.Menu")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if from := c.Query("from_date"); from != "" {
		query = query.Where("opened_at::date >= ?", from)
	}
	if to := c.Query("to_date"); to != "" {
		query = query.Where("opened_at::date <= ?", to)
	}

	var totalCount int64
	if err := query.Model(&model.Order{}).Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal mengambil daftar order", err)
	}

	var pagination model.Pagination
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		pagination.Limit = &limit
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		pagination.Page = &page
	}
	query = utils.ApplyPagination(query, pagination.Limit, pagination.Page)

	var orders []model.Order
	if err := query.Order("opened_at desc").Find(&orders).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal mengambil daftar order", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       orders,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	})
}

func GetOrderById(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("orderId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID order tidak valid", err)
	}

	order, err := loadOrder(uint(id))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Order tidak ditemukan", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func OpenOrder(c *fiber.Ctx) error {
	var input model.OpenOrderInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Request tidak valid", err)
	}
	if err := validate.Struct(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validasi gagal", err)
	}

	claim := currentUser(c)
	order, err := svc.OpenOrder(input, claim.UserId)
	if err != nil {
		return serviceError(c, err)
	}

	loaded, err := loadOrder(order.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal memuat order", err)
	}

	BroadcastTables()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Order opened successfully",
		"data":    loaded,
	})
}

func AddOrderItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("orderId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID order tidak valid", err)
	}

	var input model.AddItemInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Request tidak valid", err)
	}
	if err := validate.Struct(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validasi gagal", err)
	}

	item, err := svc.AddItem(uint(id), input)
	if err != nil {
		return serviceError(c, err)
	}

	var loaded model.OrderItem
	if err := database.DB.Preload("Menu").First(&loaded, item.ID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal memuat item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Item added to order successfully",
		"data":    loaded,
	})
}

func RemoveOrderItem(c *fiber.Ctx) error {
	orderId, err := strconv.Atoi(c.Params("orderId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID order tidak valid", err)
	}
	itemId, err := strconv.Atoi(c.Params("itemId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID item tidak valid", err)
	}

	if err := svc.RemoveItem(uint(orderId), uint(itemId)); err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "Item removed from order successfully",
	})
}

func CloseOrder(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("orderId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID order tidak valid", err)
	}

	claim := currentUser(c)
	order, err := svc.CloseOrder(uint(id), claim.UserId)
	if err != nil {
		return serviceError(c, err)
	}

	loaded, err := loadOrder(order.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal memuat order", err)
	}

	BroadcastTables()
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "Order closed successfully",
		"order":   loaded,
	})
}

func UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("orderId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID order tidak valid", err)
	}

	var input model.UpdateOrderStatusInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Request tidak valid", err)
	}
	if err := validate.Struct(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validasi gagal", err)
	}

	order, err := svc.UpdateOrderStatus(uint(id), model.OrderStatus(input.Status))
	if err != nil {
		return serviceError(c, err)
	}

	loaded, err := loadOrder(order.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal memuat order", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "Order status updated successfully",
		"order":   loaded,
	})
}

// GetOrderQris returns a QRIS payload QR for an unpaid order so the cashier
// can show it on a customer-facing screen.
func GetOrderQris(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("orderId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID order tidak valid", err)
	}

	var order model.Order
	if err := database.DB.First(&order, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Order tidak ditemukan", err)
	}
	if order.PaymentStatus == model.OrderPaid {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Order sudah dibayar", nil)
	}
	if order.Status == model.OrderCancelled {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Order sudah dibatalkan", nil)
	}

	payload := fmt.Sprintf("QRIS|%s|%s", order.OrderNumber, order.Total.StringFixed(2))
	qrBytes, err := utils.GenerateQRCode(payload, 400)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal membuat QR", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"orderNumber": order.OrderNumber,
		"total":       order.Total,
		"qrCode":      "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrBytes),
	})
}
