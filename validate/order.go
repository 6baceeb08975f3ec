package validate

import (
	"fmt"

	"pos_manager/model"

	"github.com/gofiber/fiber/v2"
)

func bodyInput[T any](c *fiber.Ctx, key string) error {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Không thể phân tích yêu cầu: %s", err.Error()),
		})
	}

	// Validate input
	if err := validate.Struct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals(key, &input)
	return c.Next()
}

func CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return bodyInput[model.CreateOrderInput](c, "inputCreateOrder")
	}
}

func AddItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return bodyInput[model.AddItemInput](c, "inputAddItem")
	}
}

func ReduceItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return bodyInput[model.ReduceItemInput](c, "inputReduceItem")
	}
}

func UpdateItemStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return bodyInput[model.UpdateItemStatusInput](c, "inputItemStatus")
	}
}

func TransferTable() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return bodyInput[model.TransferTableInput](c, "inputTransferTable")
	}
}

func MergeOrders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return bodyInput[model.MergeOrdersInput](c, "inputMergeOrders")
	}
}

func SplitOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return bodyInput[model.SplitOrderInput](c, "inputSplitOrder")
	}
}

func Checkout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return bodyInput[model.CheckoutInput](c, "inputCheckout")
	}
}

func CancelOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return bodyInput[model.CancelOrderInput](c, "inputCancelOrder")
	}
}
