package handler

import (
	"errors"
	"time"

	"pos_manager/constants"
	"pos_manager/helper"
	"pos_manager/model"
	"pos_manager/service"
	"pos_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PromotionHandler struct {
	Promotions *service.PromotionService
}

func NewPromotionHandler(promotions *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{Promotions: promotions}
}

// validatePromotionInput kiểm tra tham số theo từng loại khuyến mãi
func validatePromotionInput(input *model.CreatePromotionInput) string {
	switch input.Type {
	case constants.PromotionPercentage:
		if input.DiscountValue.LessThanOrEqual(decimal.Zero) || input.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return "Phần trăm giảm giá phải trong khoảng (0, 100]"
		}
	case constants.PromotionFixedAmount, constants.PromotionFixedPrice:
		if input.DiscountValue.LessThanOrEqual(decimal.Zero) {
			return "Giá trị giảm phải lớn hơn 0"
		}
	case constants.PromotionGift:
		if input.BuyQuantity < 1 || input.GetQuantity < 1 {
			return "Khuyến mãi quà tặng phải có số lượng mua và số lượng tặng"
		}
		if len(input.GiftItemIds) == 0 {
			return "Khuyến mãi quà tặng phải có danh mục quà"
		}
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return "Ngày kết thúc phải sau ngày bắt đầu"
	}
	return ""
}

func (h *PromotionHandler) Create(c *fiber.Ctx) error {
	input := c.Locals("inputCreatePromotion").(*model.CreatePromotionInput)

	if msg := validatePromotionInput(input); msg != "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, nil)
	}

	applyToWalkIn := true
	if input.ApplyToWalkIn != nil {
		applyToWalkIn = *input.ApplyToWalkIn
	}

	var created model.Promotion
	err := h.Promotions.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Promotion{}).Where("code = ?", input.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.New("DUPLICATE_CODE")
		}

		promo := model.Promotion{
			Code:                 input.Code,
			Name:                 input.Name,
			Slug:                 helper.GenerateUniquePromotionSlug(tx, input.Name),
			Description:          input.Description,
			Type:                 input.Type,
			DiscountValue:        input.DiscountValue,
			MinOrderValue:        input.MinOrderValue,
			MaxDiscount:          input.MaxDiscount,
			BuyQuantity:          input.BuyQuantity,
			GetQuantity:          input.GetQuantity,
			RequireSameItem:      input.RequireSameItem,
			StartDate:            input.StartDate,
			EndDate:              input.EndDate,
			MaxTotalUsage:        input.MaxTotalUsage,
			MaxUsagePerCustomer:  input.MaxUsagePerCustomer,
			ApplyToAllItems:      input.ApplyToAllItems,
			ApplyToAllCategories: input.ApplyToAllCategories,
			ApplyToAllCombos:     input.ApplyToAllCombos,
			ApplyToAllCustomers:  input.ApplyToAllCustomers,
			ApplyToWalkIn:        applyToWalkIn,
			IsActive:             true,
		}
		if err := tx.Create(&promo).Error; err != nil {
			return err
		}

		for _, id := range input.ItemIds {
			if err := tx.Create(&model.PromotionItem{PromotionID: promo.ID, MenuItemID: id}).Error; err != nil {
				return err
			}
		}
		for _, id := range input.CategoryIds {
			if err := tx.Create(&model.PromotionCategory{PromotionID: promo.ID, CategoryID: id}).Error; err != nil {
				return err
			}
		}
		for _, id := range input.ComboIds {
			if err := tx.Create(&model.PromotionCombo{PromotionID: promo.ID, ComboID: id}).Error; err != nil {
				return err
			}
		}
		for _, id := range input.CustomerIds {
			if err := tx.Create(&model.PromotionCustomer{PromotionID: promo.ID, CustomerID: id}).Error; err != nil {
				return err
			}
		}
		for _, id := range input.CustomerGroupIds {
			if err := tx.Create(&model.PromotionCustomerGroup{PromotionID: promo.ID, CustomerGroupID: id}).Error; err != nil {
				return err
			}
		}
		for _, id := range input.GiftItemIds {
			if err := tx.Create(&model.PromotionGiftItem{PromotionID: promo.ID, MenuItemID: id}).Error; err != nil {
				return err
			}
		}

		created = promo
		return nil
	})
	if err != nil {
		if err.Error() == "DUPLICATE_CODE" {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Mã khuyến mãi đã tồn tại", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi tạo khuyến mãi", err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, created)
}

func (h *PromotionHandler) Edit(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)
	input := c.Locals("inputEditPromotion").(*model.EditPromotionInput)

	var promo model.Promotion
	if err := h.Promotions.DB.First(&promo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.PROMOTION_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn khuyến mãi", err)
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.DiscountValue != nil {
		updates["discount_value"] = *input.DiscountValue
	}
	if input.MinOrderValue != nil {
		updates["min_order_value"] = *input.MinOrderValue
	}
	if input.MaxDiscount != nil {
		updates["max_discount"] = *input.MaxDiscount
	}
	if input.StartDate != nil {
		updates["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		updates["end_date"] = *input.EndDate
	}
	if input.MaxTotalUsage != nil {
		updates["max_total_usage"] = *input.MaxTotalUsage
	}
	if input.MaxUsagePerCustomer != nil {
		updates["max_usage_per_customer"] = *input.MaxUsagePerCustomer
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := h.Promotions.DB.Model(&promo).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi cập nhật khuyến mãi", err)
		}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, promo)
}

// Delete xóa mềm nhiều khuyến mãi, đồng thời ngừng kích hoạt
func (h *PromotionHandler) Delete(c *fiber.Ctx) error {
	input := c.Locals("deleteIds").(model.ArrayId)

	result := h.Promotions.DB.Model(&model.Promotion{}).
		Where("id IN ? AND deleted_at IS NULL", input.IDs).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"is_active":  false,
		})
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi xóa khuyến mãi", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.PROMOTION_NOT_FOUND, nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deletedCount": result.RowsAffected})
}

func (h *PromotionHandler) GetAll(c *fiber.Ctx) error {
	query := h.Promotions.DB.Model(&model.Promotion{}).
		Preload("Items").
		Preload("GiftItems").
		Where("deleted_at IS NULL").
		Order("created_at desc")

	if c.Query("active") == "1" {
		query = query.Where("is_active IS true")
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn khuyến mãi", err)
	}

	var limit, page *int
	if v := c.QueryInt("limit"); v > 0 {
		limit = &v
	}
	if v := c.QueryInt("page"); v > 0 {
		page = &v
	}

	var promos model.Promotions
	if err := utils.ApplyPagination(query, limit, page).Find(&promos).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn khuyến mãi", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       promos,
		Limit:      limit,
		Page:       page,
		TotalCount: totalCount,
	})
}

func (h *PromotionHandler) GetById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)

	var promo model.Promotion
	err := h.Promotions.DB.
		Preload("Items").
		Preload("Categories").
		Preload("Combos").
		Preload("Customers").
		Preload("CustomerGroups").
		Preload("GiftItems").
		First(&promo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.PROMOTION_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn khuyến mãi", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, promo)
}

// Apply gắn khuyến mãi vào đơn, toàn bộ điều kiện xét lại trong transaction
func (h *PromotionHandler) Apply(c *fiber.Ctx) error {
	orderId := c.Locals("inputId").(uint)
	input := c.Locals("inputApplyPromotion").(*model.ApplyPromotionInput)

	order, eval, err := h.Promotions.Apply(orderId, input.PromotionID, input.SelectedGifts)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"order":      order,
		"evaluation": eval,
	})
}

func (h *PromotionHandler) Unapply(c *fiber.Ctx) error {
	orderId := c.Locals("inputId").(uint)
	promotionId, err := paramUint(c, "promotionId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, err)
	}

	order, err := h.Promotions.Unapply(orderId, promotionId)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

// CanUse kiểm tra nhanh một khuyến mãi cho khách hàng, chưa cần đơn
func (h *PromotionHandler) CanUse(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)

	var customerId *uint
	if v := c.QueryInt("customerId"); v > 0 {
		cid := uint(v)
		customerId = &cid
	}

	result, err := h.Promotions.CanUse(id, customerId)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

// GetAvailable liệt kê khuyến mãi kèm kết quả xét trên một đơn cụ thể
func (h *PromotionHandler) GetAvailable(c *fiber.Ctx) error {
	orderId := c.Locals("inputId").(uint)

	var customerId *uint
	if v := c.QueryInt("customerId"); v > 0 {
		cid := uint(v)
		customerId = &cid
	}

	results, err := h.Promotions.GetAvailable(orderId, customerId)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, results)
}
