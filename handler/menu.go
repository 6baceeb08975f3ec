package handler

import (
	"pos_manager/model"
	"pos_manager/service"
	"pos_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MenuHandler struct {
	DB        *gorm.DB
	Inventory *service.InventoryService
}

func NewMenuHandler(db *gorm.DB, inventory *service.InventoryService) *MenuHandler {
	return &MenuHandler{DB: db, Inventory: inventory}
}

// GetMenu trả về thực đơn đang bán, nhóm theo danh mục
func (h *MenuHandler) GetMenu(c *fiber.Ctx) error {
	var categories []model.Category
	if err := h.DB.Where("deleted_at IS NULL AND is_active IS true").
		Order("name").Find(&categories).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn thực đơn", err)
	}

	var items model.MenuItems
	if err := h.DB.Where("deleted_at IS NULL AND is_sellable IS true").
		Order("category_id, name").Find(&items).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn thực đơn", err)
	}

	byCategory := make(map[uint]model.MenuItems)
	for _, it := range items {
		byCategory[it.CategoryID] = append(byCategory[it.CategoryID], it)
	}

	response := make([]fiber.Map, 0, len(categories))
	for _, cat := range categories {
		response = append(response, fiber.Map{
			"id":    cat.ID,
			"name":  cat.Name,
			"slug":  cat.Slug,
			"items": byCategory[cat.ID],
		})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

// GetRecipe trả về công thức nguyên liệu của một món pha chế
func (h *MenuHandler) GetRecipe(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)

	if _, err := h.Inventory.GetSellable(id); err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	recipe, err := h.Inventory.GetRecipe(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn công thức", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, recipe)
}

// GetCombos trả về các combo đang bán kèm món thành phần
func (h *MenuHandler) GetCombos(c *fiber.Ctx) error {
	var combos []model.Combo
	if err := h.DB.Preload("Items").Preload("Items.MenuItem").
		Where("deleted_at IS NULL AND is_sellable IS true").
		Order("name").Find(&combos).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn combo", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, combos)
}
