package main

import (
	"log"

	"pos_manager/config"
	"pos_manager/database"
	"pos_manager/handler"
	"pos_manager/helper"
	"pos_manager/router"
	"pos_manager/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
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

	inventoryService := service.NewInventoryService(database.DB)
	promotionService := service.NewPromotionService(database.DB)
	orderService := service.NewOrderService(database.DB, inventoryService, promotionService)

	handlers := &router.Handlers{
		Order:     handler.NewOrderHandler(orderService),
		Promotion: handler.NewPromotionHandler(promotionService),
		Table:     handler.NewTableHandler(database.DB),
		Menu:      handler.NewMenuHandler(database.DB, inventoryService),
	}

	helper.StartPromotionScheduler(database.DB)
	defer helper.StopPromotionScheduler()
	helper.StartOrderScheduler(database.DB)
	defer helper.StopOrderScheduler()

	router.SetupRoutes(app, handlers)

	log.Fatal(app.Listen(":" + config.ConfigDefault("PORT", "8002")))
}
