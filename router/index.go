package router

import (
	"pos_manager/handler"
	"pos_manager/middleware"
	"pos_manager/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

type Handlers struct {
	Order     *handler.OrderHandler
	Promotion *handler.PromotionHandler
	Table     *handler.TableHandler
	Menu      *handler.MenuHandler
}

func SetupRoutes(app *fiber.App, h *Handlers) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	order := v1.Group("/order", logger.New())
	order.Get("/", middleware.Protected(), h.Order.GetAll)
	order.Post("/", middleware.Protected(), validate.CreateOrder(), h.Order.Create)
	order.Get("/code/:orderCode", h.Order.GetByCode)
	order.Get("/:orderId", middleware.Protected(), validate.GetById("orderId"), h.Order.GetById)
	order.Post("/:orderId/items", middleware.Protected(), validate.GetById("orderId"), validate.AddItem(), h.Order.AddItem)
	order.Delete("/:orderId/items/:itemId", middleware.Protected(), validate.GetById("orderId"), h.Order.RemoveItem)
	order.Patch("/:orderId/items/:itemId/reduce", middleware.Protected(), validate.GetById("orderId"), validate.ReduceItem(), h.Order.ReduceItem)
	order.Post("/:orderId/confirm", middleware.Protected(), validate.GetById("orderId"), h.Order.Confirm)
	order.Post("/:orderId/send-to-kitchen", middleware.Protected(), validate.GetById("orderId"), h.Order.SendToKitchen)
	order.Post("/:orderId/transfer-table", middleware.Protected(), validate.GetById("orderId"), validate.TransferTable(), h.Order.TransferTable)
	order.Post("/:orderId/merge", middleware.Protected(), validate.GetById("orderId"), validate.MergeOrders(), h.Order.MergeOrders)
	order.Post("/:orderId/split", middleware.Protected(), validate.GetById("orderId"), validate.SplitOrder(), h.Order.SplitOrder)
	order.Post("/:orderId/checkout", middleware.Protected(), validate.GetById("orderId"), validate.Checkout(), h.Order.Checkout)
	order.Post("/:orderId/cancel", middleware.Protected(), validate.GetById("orderId"), validate.CancelOrder(), h.Order.Cancel)
	order.Post("/:orderId/promotion", middleware.Protected(), validate.GetById("orderId"), validate.ApplyPromotion(), h.Promotion.Apply)
	order.Delete("/:orderId/promotion/:promotionId", middleware.Protected(), validate.GetById("orderId"), h.Promotion.Unapply)
	order.Get("/:orderId/promotions", middleware.Protected(), validate.GetById("orderId"), h.Promotion.GetAvailable)

	orderItem := v1.Group("/order-item", logger.New())
	orderItem.Patch("/:itemId/status", middleware.Protected(), validate.GetById("itemId"), validate.UpdateItemStatus(), h.Order.UpdateItemStatus)

	promotion := v1.Group("/promotion", logger.New())
	promotion.Get("/", middleware.Protected(), h.Promotion.GetAll)
	promotion.Post("/", middleware.Protected(), validate.CreatePromotion(), h.Promotion.Create)
	promotion.Delete("/", middleware.Protected(), validate.Delete(), h.Promotion.Delete)
	promotion.Get("/:promotionId", middleware.Protected(), validate.GetById("promotionId"), h.Promotion.GetById)
	promotion.Put("/:promotionId", middleware.Protected(), validate.GetById("promotionId"), validate.EditPromotion(), h.Promotion.Edit)
	promotion.Get("/:promotionId/can-use", middleware.Protected(), validate.GetById("promotionId"), h.Promotion.CanUse)

	table := v1.Group("/table", logger.New())
	table.Get("/", middleware.Protected(), h.Table.GetAll)
	table.Get("/:tableId", middleware.Protected(), validate.GetById("tableId"), h.Table.GetById)

	menu := v1.Group("/menu", logger.New())
	menu.Get("/", middleware.OptionalJWT(), h.Menu.GetMenu)
	menu.Get("/combos", middleware.OptionalJWT(), h.Menu.GetCombos)
	menu.Get("/:menuItemId/recipe", middleware.Protected(), validate.GetById("menuItemId"), h.Menu.GetRecipe)

	// Màn hình bếp và màn hình tại bàn
	ws := v1.Group("/ws")
	ws.Get("/kitchen", websocket.New(handler.WebSocketKitchen))
	ws.Get("/table/:tableId", websocket.New(handler.WebSocketTable))
}
