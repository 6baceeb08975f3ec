package handler

import (
	"errors"

	"pos_manager/constants"
	"pos_manager/model"
	"pos_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TableHandler struct {
	DB *gorm.DB
}

func NewTableHandler(db *gorm.DB) *TableHandler {
	return &TableHandler{DB: db}
}

// GetAll trả về sơ đồ bàn kèm trạng thái tính từ đơn đang mở
func (h *TableHandler) GetAll(c *fiber.Ctx) error {
	var tables []model.DiningTable
	if err := h.DB.Where("deleted_at IS NULL").Order("area, name").Find(&tables).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn bàn", err)
	}

	// Bàn có đơn chưa kết thúc là bàn đang dùng
	var occupiedIds []uint
	if err := h.DB.Model(&model.Order{}).
		Where("table_id IS NOT NULL AND status NOT IN ?",
			[]string{constants.OrderCompleted, constants.OrderCancelled}).
		Pluck("table_id", &occupiedIds).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn bàn", err)
	}
	occupied := make(map[uint]bool, len(occupiedIds))
	for _, id := range occupiedIds {
		occupied[id] = true
	}

	response := make([]fiber.Map, 0, len(tables))
	for _, t := range tables {
		status := constants.TableAvailable
		if !t.IsActive {
			status = constants.TableInactive
		} else if occupied[t.ID] {
			status = constants.TableOccupied
		}
		response = append(response, fiber.Map{
			"id":       t.ID,
			"name":     t.Name,
			"area":     t.Area,
			"capacity": t.Capacity,
			"status":   status,
		})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

func (h *TableHandler) GetById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)

	var table model.DiningTable
	if err := h.DB.Where("id = ? AND deleted_at IS NULL", id).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TABLE_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn bàn", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, table)
}
