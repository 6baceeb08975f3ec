package service

import (
	"errors"
	"time"

	"pos_manager/constants"
	"pos_manager/errs"
	"pos_manager/model"
	"pos_manager/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PromotionService là sổ cái áp dụng khuyến mãi: xét điều kiện, ghi lượt
// dùng và cập nhật giảm giá trên đơn trong cùng một transaction. Bước
// kiểm tra trần lượt dùng khóa dòng khuyến mãi để hai lần thanh toán
// đồng thời không cùng vượt trần.
type PromotionService struct {
	DB *gorm.DB
}

func NewPromotionService(db *gorm.DB) *PromotionService {
	return &PromotionService{DB: db}
}

func promotionScopes(db *gorm.DB) *gorm.DB {
	return db.Preload("Items").
		Preload("Categories").
		Preload("Combos").
		Preload("Customers").
		Preload("CustomerGroups").
		Preload("GiftItems")
}

func loadPromotionLocked(tx *gorm.DB, promotionID uint) (*model.Promotion, error) {
	var promo model.Promotion
	err := promotionScopes(tx.Clauses(clause.Locking{Strength: "UPDATE"})).
		First(&promo, promotionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound(constants.PROMOTION_NOT_FOUND)
		}
		return nil, err
	}
	return &promo, nil
}

func loadCustomer(tx *gorm.DB, customerID *uint) (*model.Customer, error) {
	if customerID == nil {
		return nil, nil
	}
	var customer model.Customer
	err := tx.Where("id = ? AND deleted_at IS NULL", *customerID).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound(constants.CUSTOMER_NOT_FOUND)
		}
		return nil, err
	}
	return &customer, nil
}

// usageCounts đọc bộ đếm lượt dùng, gọi sau khi đã khóa dòng khuyến mãi
func usageCounts(tx *gorm.DB, promotionID uint, customerID *uint) (total, perCustomer int64, err error) {
	if err = tx.Model(&model.PromotionUsage{}).
		Where("promotion_id = ?", promotionID).
		Count(&total).Error; err != nil {
		return
	}
	if customerID != nil {
		err = tx.Model(&model.PromotionUsage{}).
			Where("promotion_id = ? AND customer_id = ?", promotionID, *customerID).
			Count(&perCustomer).Error
	}
	return
}

// validateGiftSelections đối chiếu quà khách chọn với danh mục quà và
// số lượng được tặng theo kết quả xét điều kiện.
func validateGiftSelections(promo *model.Promotion, eval *EvalResult, gifts []model.GiftSelection) error {
	if promo.Type != constants.PromotionGift {
		if len(gifts) > 0 {
			return errs.Validation("Khuyến mãi này không có quà tặng để chọn")
		}
		return nil
	}

	totalSelected := 0
	for _, g := range gifts {
		found := false
		for _, gi := range promo.GiftItems {
			if gi.MenuItemID == g.MenuItemID {
				found = true
				break
			}
		}
		if !found {
			return errs.Conflict("Món được chọn không nằm trong danh mục quà tặng")
		}
		totalSelected += g.Quantity
	}
	if totalSelected > eval.GiftEntitlement {
		return errs.Conflictf("Chọn %d quà nhưng chỉ được tặng %d", totalSelected, eval.GiftEntitlement)
	}
	return nil
}

// materializeGifts thêm các dòng quà tặng vào đơn và trả về tổng giá trị
// quà, phần này được bù lại nguyên vẹn trong DiscountAmount nên tổng
// tiền khách trả không đổi.
func materializeGifts(tx *gorm.DB, order *model.Order, gifts []model.GiftSelection) (decimal.Decimal, error) {
	giftValue := decimal.Zero
	for _, g := range gifts {
		var err error
		var item model.MenuItem
		if err = tx.Where("id = ? AND deleted_at IS NULL AND is_sellable IS true", g.MenuItemID).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return giftValue, errs.NotFound(constants.MENU_ITEM_NOT_FOUND)
			}
			return giftValue, err
		}

		line := model.OrderItem{
			OrderID:          order.ID,
			MenuItemID:       &item.ID,
			Quantity:         g.Quantity,
			OriginalQuantity: g.Quantity,
			UnitPrice:        item.SellingPrice,
			LineTotal:        utils.LineTotal(item.SellingPrice, g.Quantity),
			Status:           constants.ItemPending,
			Notes:            "Quà tặng khuyến mãi",
			IsGift:           true,
		}
		if err = tx.Create(&line).Error; err != nil {
			return giftValue, err
		}
		giftValue = giftValue.Add(line.LineTotal)
	}
	return giftValue, nil
}

// ApplyWithinTx xét lại toàn bộ điều kiện rồi ghi nhận khuyến mãi cho
// đơn, chạy trong transaction của thao tác gọi. Không tin kết quả xét
// trước đó để tránh dùng dữ liệu cũ khi có ghi đồng thời.
func (s *PromotionService) ApplyWithinTx(tx *gorm.DB, orderID, promotionID uint, gifts []model.GiftSelection) (*model.Order, *EvalResult, error) {
	order, err := loadOrder(tx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if isTerminalOrder(order.Status) {
		return nil, nil, errs.State("Đơn hàng đã hoàn tất hoặc đã hủy, không thể áp dụng khuyến mãi")
	}
	if order.AppliedPromotionID != nil {
		if *order.AppliedPromotionID == promotionID {
			return nil, nil, errs.Conflict("Khuyến mãi đã được áp dụng cho đơn này")
		}
		return nil, nil, errs.Conflict("Đơn hàng đang áp dụng một khuyến mãi khác")
	}

	promo, err := loadPromotionLocked(tx, promotionID)
	if err != nil {
		return nil, nil, err
	}
	customer, err := loadCustomer(tx, order.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	total, perCustomer, err := usageCounts(tx, promotionID, order.CustomerID)
	if err != nil {
		return nil, nil, err
	}

	eval := EvaluatePromotion(EvalInput{
		Promotion:     promo,
		Order:         order,
		Customer:      customer,
		TotalUsage:    total,
		CustomerUsage: perCustomer,
		Now:           time.Now(),
	})
	if !eval.Eligible {
		return nil, nil, errs.Conflict(eval.Reason)
	}

	if err := validateGiftSelections(promo, &eval, gifts); err != nil {
		return nil, nil, err
	}
	if promo.Type == constants.PromotionGift {
		giftValue, err := materializeGifts(tx, order, gifts)
		if err != nil {
			return nil, nil, err
		}
		eval.DiscountAmount = eval.DiscountAmount.Add(giftValue)
	}

	usage := model.PromotionUsage{
		PromotionID:    promo.ID,
		OrderID:        order.ID,
		CustomerID:     order.CustomerID,
		DiscountAmount: eval.DiscountAmount,
		AppliedAt:      time.Now(),
	}
	if err := tx.Create(&usage).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, errs.Conflict("Khuyến mãi đã được áp dụng cho đơn này")
		}
		return nil, nil, err
	}

	if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"applied_promotion_id": promo.ID,
		"discount_amount":      eval.DiscountAmount,
	}).Error; err != nil {
		return nil, nil, err
	}

	fresh, err := loadOrder(tx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	recomputeTotals(fresh)
	if err := saveOrderTotals(tx, fresh); err != nil {
		return nil, nil, err
	}
	return fresh, &eval, nil
}

// Apply áp dụng khuyến mãi cho đơn trong một transaction riêng
func (s *PromotionService) Apply(orderID, promotionID uint, gifts []model.GiftSelection) (*model.Order, *EvalResult, error) {
	var order *model.Order
	var eval *EvalResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		order, eval, err = s.ApplyWithinTx(tx, orderID, promotionID, gifts)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return order, eval, nil
}

// Unapply gỡ khuyến mãi: xóa dòng sổ lượt dùng, xóa dòng quà tặng và
// trả giảm giá của đơn về 0. Đơn đã hoàn tất thì giảm giá đã chốt.
func (s *PromotionService) Unapply(orderID, promotionID uint) (*model.Order, error) {
	var result *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status == constants.OrderCompleted {
			return errs.State("Đơn hàng đã hoàn tất, không thể gỡ khuyến mãi")
		}
		if order.AppliedPromotionID == nil || *order.AppliedPromotionID != promotionID {
			return errs.NotFound("Khuyến mãi chưa được áp dụng cho đơn này")
		}

		result2 := tx.Where("promotion_id = ? AND order_id = ?", promotionID, order.ID).
			Delete(&model.PromotionUsage{})
		if result2.Error != nil {
			return result2.Error
		}
		if result2.RowsAffected == 0 {
			return errs.NotFound("Khuyến mãi chưa được áp dụng cho đơn này")
		}

		if err := tx.Where("order_id = ? AND is_gift IS true", order.ID).
			Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"applied_promotion_id": nil,
			"discount_amount":      decimal.Zero,
		}).Error; err != nil {
			return err
		}

		fresh, err := loadOrder(tx, order.ID)
		if err != nil {
			return err
		}
		recomputeTotals(fresh)
		result = fresh
		return saveOrderTotals(tx, fresh)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReleaseUsageWithinTx thu hồi lượt dùng khi đơn bị hủy, trả lại suất
// cho khuyến mãi có trần lượt dùng. Dòng quà tặng đã bị hủy theo đơn
// nên giữ lại để đối soát.
func (s *PromotionService) ReleaseUsageWithinTx(tx *gorm.DB, order *model.Order) error {
	if order.AppliedPromotionID == nil {
		return nil
	}

	if err := tx.Where("promotion_id = ? AND order_id = ?", *order.AppliedPromotionID, order.ID).
		Delete(&model.PromotionUsage{}).Error; err != nil {
		return err
	}
	return tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"applied_promotion_id": nil,
		"discount_amount":      decimal.Zero,
	}).Error
}

// CanUseResult là kết quả kiểm tra nhanh cho màn hình thu ngân
type CanUseResult struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// CanUse chạy các bước kiểm tra không cần đơn hàng: khung thời gian,
// trạng thái, diện khách hàng và trần lượt dùng.
func (s *PromotionService) CanUse(promotionID uint, customerID *uint) (*CanUseResult, error) {
	var promo model.Promotion
	err := promotionScopes(s.DB).First(&promo, promotionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound(constants.PROMOTION_NOT_FOUND)
		}
		return nil, err
	}

	customer, err := loadCustomer(s.DB, customerID)
	if err != nil {
		return nil, err
	}
	total, perCustomer, err := usageCounts(s.DB, promotionID, customerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if r, ok := checkWindowAndActive(&promo, now); !ok {
		return &CanUseResult{Eligible: false, Reason: r.Reason}, nil
	}
	if r, ok := checkCustomerScope(&promo, customer); !ok {
		return &CanUseResult{Eligible: false, Reason: r.Reason}, nil
	}
	if r, ok := checkUsageCaps(&promo, total, perCustomer, customer != nil); !ok {
		return &CanUseResult{Eligible: false, Reason: r.Reason}, nil
	}
	return &CanUseResult{Eligible: true}, nil
}

// PromotionEligibility là một khuyến mãi kèm kết quả xét trên đơn cụ thể
type PromotionEligibility struct {
	Promotion model.Promotion `json:"promotion"`
	EvalResult
}

// GetAvailable liệt kê mọi khuyến mãi đang bật kèm kết quả xét điều
// kiện trên đơn hàng cho màn hình thu ngân chọn.
func (s *PromotionService) GetAvailable(orderID uint, customerID *uint) ([]PromotionEligibility, error) {
	order, err := loadOrder(s.DB, orderID)
	if err != nil {
		return nil, err
	}
	if customerID == nil {
		customerID = order.CustomerID
	}
	customer, err := loadCustomer(s.DB, customerID)
	if err != nil {
		return nil, err
	}

	var promos []model.Promotion
	if err := promotionScopes(s.DB).
		Where("is_active IS true AND deleted_at IS NULL").
		Order("id").
		Find(&promos).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	results := make([]PromotionEligibility, 0, len(promos))
	for i := range promos {
		total, perCustomer, err := usageCounts(s.DB, promos[i].ID, customerID)
		if err != nil {
			return nil, err
		}
		eval := EvaluatePromotion(EvalInput{
			Promotion:     &promos[i],
			Order:         order,
			Customer:      customer,
			TotalUsage:    total,
			CustomerUsage: perCustomer,
			Now:           now,
		})
		results = append(results, PromotionEligibility{Promotion: promos[i], EvalResult: eval})
	}
	return results, nil
}
