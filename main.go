package main

import (
	"log"

	"resto_manager/config"
	"resto_manager/database"
	"resto_manager/handler"
	"resto_manager/router"
	"resto_manager/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jonboulle/clockwork"
)

func main() {
	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigDefault("CORS_ORIGIN", "http://localhost:5173"),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))

	database.ConnectDB()

	handler.InitService(service.New(database.DB, clockwork.NewRealClock(), config.TaxPercentage()))

	router.SetupRoutes(app)
	log.Fatal(app.Listen(":" + config.ConfigDefault("APP_PORT", "8002")))
}
