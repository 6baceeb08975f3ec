package validate

import (
	"pos_manager/model"

	"github.com/gofiber/fiber/v2"
)

func ApplyPromotion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return bodyInput[model.ApplyPromotionInput](c, "inputApplyPromotion")
	}
}

func CreatePromotion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return bodyInput[model.CreatePromotionInput](c, "inputCreatePromotion")
	}
}

func EditPromotion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return bodyInput[model.EditPromotionInput](c, "inputEditPromotion")
	}
}
