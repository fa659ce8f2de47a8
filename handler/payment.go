package handler

import (
	"strconv"

	"resto_manager/database"
	"resto_manager/model"
	"resto_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CreatePayment settles a single order in full
func CreatePayment(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("orderId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID order tidak valid", err)
	}

	var input model.CreatePaymentInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Request tidak valid", err)
	}
	if err := validate.Struct(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validasi gagal", err)
	}

	claim := currentUser(c)
	result, err := svc.Pay(uint(id), input, claim.UserId)
	if err != nil {
		return serviceError(c, err)
	}

	BroadcastTables()
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Pembayaran berhasil",
		"data":    result,
	})
}

// BulkPayment settles every unpaid order of a session at once
func BulkPayment(c *fiber.Ctx) error {
	var input model.BulkPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Request tidak valid", err)
	}
	if err := validate.Struct(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validasi gagal", err)
	}

	claim := currentUser(c)
	result, err := svc.PayBulk(input, claim.UserId)
	if err != nil {
		return serviceError(c, err)
	}

	BroadcastTables()
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fiber.Map{"text": "Pembayaran berhasil", "ordersPaid": result.OrdersPaid},
		"data":    result,
	})
}

// GetOrderPayments returns the payment history of one order
func GetOrderPayments(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("orderId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID order tidak valid", err)
	}

	var order model.Order
	if err := database.DB.First(&order, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Order tidak ditemukan", err)
	}

	var payments []model.Payment
	if err := database.DB.Where("order_id = ?", order.ID).Order("created_at desc").Find(&payments).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal mengambil pembayaran", err)
	}

	totalPaid := decimal.Zero
	for _, payment := range payments {
		if payment.Status == model.PaymentCompleted {
			totalPaid = totalPaid.Add(payment.Amount)
		}
	}
	remaining := order.Total.Sub(totalPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"payments":   payments,
		"totalPaid":  totalPaid,
		"remaining":  remaining,
		"orderTotal": order.Total,
	})
}

// GetPayments lists all payments grouped by session, with a summary block
func GetPayments(c *fiber.Ctx) error {
	query := database.DB.
		Preload("Order").
		Preload("Order.OrderSession").
		Preload("Order.OrderSession.Table").
		Preload("Order.Waiter")

	if date := c.Query("date"); date != "" {
		query = query.Where("created_at::date = ?", date)
	}
	if method := c.Query("payment_method"); method != "" {
		query = query.Where("payment_method = ?", method)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []model.Payment
	if err := query.Order("created_at desc").Find(&payments).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Gagal mengambil pembayaran", err)
	}

	type sessionGroup struct {
		SessionId    uint            `json:"sessionId"`
		CustomerName string          `json:"customerName"`
		TableNumber  string          `json:"tableNumber"`
		Status       string          `json:"sessionStatus"`
		TotalAmount  decimal.Decimal `json:"totalAmount"`
		Payments     []model.Payment `json:"payments"`
	}

	groups := map[uint]*sessionGroup{}
	order := []uint{}
	totalAmount := decimal.Zero
	for _, payment := range payments {
		totalAmount = totalAmount.Add(payment.Amount)
		if payment.Order == nil || payment.Order.OrderSession == nil {
			continue
		}
		session := payment.Order.OrderSession
		group, ok := groups[session.ID]
		if !ok {
			group = &sessionGroup{
				SessionId:    session.ID,
				CustomerName: session.CustomerName,
				Status:       string(session.Status),
				TotalAmount:  decimal.Zero,
			}
			if session.Table != nil {
				group.TableNumber = session.Table.TableNumber
			}
			groups[session.ID] = group
			order = append(order, session.ID)
		}
		group.TotalAmount = group.TotalAmount.Add(payment.Amount)
		group.Payments = append(group.Payments, payment)
	}

	rows := make([]*sessionGroup, 0, len(order))
	for _, id := range order {
		rows = append(rows, groups[id])
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   rows,
		"summary": fiber.Map{
			"totalAmount":   totalAmount,
			"totalSessions": len(rows),
			"totalPayments": len(payments),
		},
	})
}

// RefundPayment reverses one completed payment
func RefundPayment(c *fiber.Ctx) error {
	orderId, err := strconv.Atoi(c.Params("orderId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID order tidak valid", err)
	}
	paymentId, err := strconv.Atoi(c.Params("paymentId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "ID pembayaran tidak valid", err)
	}

	var input model.RefundInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Request tidak valid", err)
	}
	if err := validate.Struct(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validasi gagal", err)
	}

	payment, err := svc.Refund(uint(orderId), uint(paymentId), input.Reason)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "Refund berhasil",
		"payment": payment,
	})
}
