package router

import (
	"resto_manager/handler"
	"resto_manager/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	auth := v1.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/logout", middleware.Protected(), handler.Logout)
	auth.Get("/me", middleware.Protected(), handler.Me)

	menu := v1.Group("/menu", logger.New())
	menu.Get("/", middleware.Protected(), handler.GetMenus)
	menu.Get("/:menuId", middleware.Protected(), handler.GetMenuById)
	menu.Post("/", middleware.Protected(), handler.CreateMenu)
	menu.Put("/:menuId", middleware.Protected(), handler.UpdateMenu)
	menu.Post("/:menuId/image", middleware.Protected(), handler.UploadMenuImage)
	menu.Delete("/:menuId", middleware.Protected(), handler.DeleteMenu)

	table := v1.Group("/table", logger.New())
	table.Get("/", middleware.Protected(), handler.GetTables)
	table.Get("/:tableId", middleware.Protected(), handler.GetTableById)
	table.Post("/", middleware.Protected(), handler.CreateTable)
	table.Put("/:tableId", middleware.Protected(), handler.UpdateTable)
	table.Delete("/:tableId", middleware.Protected(), handler.DeleteTable)

	order := v1.Group("/order", logger.New())
	order.Get("/", middleware.Protected(), handler.GetOrders)
	order.Post("/open", middleware.Protected(), handler.OpenOrder)
	order.Get("/:orderId", middleware.Protected(), handler.GetOrderById)
	order.Post("/:orderId/items", middleware.Protected(), handler.AddOrderItem)
	order.Delete("/:orderId/items/:itemId", middleware.Protected(), handler.RemoveOrderItem)
	order.Post("/:orderId/close", middleware.Protected(), handler.CloseOrder)
	order.Patch("/:orderId/status", middleware.Protected(), handler.UpdateOrderStatus)
	order.Get("/:orderId/qris", middleware.Protected(), handler.GetOrderQris)
	order.Post("/:orderId/payments", middleware.Protected(), handler.CreatePayment)
	order.Get("/:orderId/payments", middleware.Protected(), handler.GetOrderPayments)
	order.Post("/:orderId/payments/:paymentId/refund", middleware.Protected(), handler.RefundPayment)

	session := v1.Group("/order-session", logger.New())
	session.Get("/", middleware.Protected(), handler.GetSessions)
	session.Get("/:sessionId", middleware.Protected(), handler.GetSessionById)
	session.Post("/:sessionId/complete", middleware.Protected(), handler.CompleteSession)

	payment := v1.Group("/payment", logger.New())
	payment.Get("/", middleware.Protected(), handler.GetPayments)
	payment.Post("/bulk", middleware.Protected(), handler.BulkPayment)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/tables", websocket.New(handler.TableWebsocket))
}
