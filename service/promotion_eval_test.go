package service

import (
	"testing"
	"time"

	"pos_manager/constants"
	"pos_manager/model"
	"pos_manager/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func activePromotion(pType string) *model.Promotion {
	start := time.Now().Add(-24 * time.Hour)
	end := time.Now().Add(24 * time.Hour)
	return &model.Promotion{
		Code:            "TEST",
		Type:            pType,
		MinOrderValue:   decimal.Zero,
		StartDate:       &start,
		EndDate:         &end,
		ApplyToAllItems: true,
		ApplyToWalkIn:   true,
		IsActive:        true,
	}
}

func orderWithItems(items ...model.OrderItem) *model.Order {
	order := &model.Order{Items: items}
	subtotal := decimal.Zero
	for _, it := range items {
		if it.Status == constants.ItemCancelled {
			continue
		}
		subtotal = subtotal.Add(it.LineTotal)
	}
	order.Subtotal = subtotal
	return order
}

func line(menuItemID uint, qty int, unitPrice int64) model.OrderItem {
	id := menuItemID
	return model.OrderItem{
		MenuItemID: &id,
		Quantity:   qty,
		UnitPrice:  d(unitPrice),
		LineTotal:  utils.LineTotal(d(unitPrice), qty),
		Status:     constants.ItemPreparing,
	}
}

func TestEvaluatePercentageDiscount(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.DiscountValue = d(10)

	order := orderWithItems(line(1, 2, 50000))

	result := EvaluatePromotion(EvalInput{
		Promotion: promo,
		Order:     order,
		Now:       time.Now(),
	})

	assert.True(t, result.Eligible)
	assert.True(t, result.DiscountAmount.Equal(d(10000)),
		"giảm 10%% của 100.000 phải là 10.000, nhận %s", result.DiscountAmount)
}

func TestEvaluatePercentageRespectsMaxDiscount(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.DiscountValue = d(20)
	cap := d(15000)
	promo.MaxDiscount = &cap

	order := orderWithItems(line(1, 2, 50000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.True(t, result.Eligible)
	assert.True(t, result.DiscountAmount.Equal(d(15000)))
}

func TestEvaluateFixedAmountNeverExceedsQualifyingSubtotal(t *testing.T) {
	promo := activePromotion(constants.PromotionFixedAmount)
	promo.DiscountValue = d(50000)

	order := orderWithItems(line(1, 1, 30000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.True(t, result.Eligible)
	assert.True(t, result.DiscountAmount.Equal(d(30000)))
}

func TestEvaluateFixedPrice(t *testing.T) {
	promo := activePromotion(constants.PromotionFixedPrice)
	promo.DiscountValue = d(99000)

	order := orderWithItems(line(1, 3, 50000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.True(t, result.Eligible)
	// 150.000 về đồng giá 99.000 → giảm 51.000
	assert.True(t, result.DiscountAmount.Equal(d(51000)))
}

func TestEvaluateFixedPriceBelowFloorGivesZero(t *testing.T) {
	promo := activePromotion(constants.PromotionFixedPrice)
	promo.DiscountValue = d(99000)

	order := orderWithItems(line(1, 1, 50000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.True(t, result.Eligible)
	assert.True(t, result.DiscountAmount.IsZero())
}

func TestEvaluateGiftEntitlement(t *testing.T) {
	promo := activePromotion(constants.PromotionGift)
	promo.BuyQuantity = 2
	promo.GetQuantity = 1

	order := orderWithItems(line(1, 5, 35000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.True(t, result.Eligible)
	// 5 món, mua 2 tặng 1 → được 2 phần quà
	assert.Equal(t, 2, result.GiftEntitlement)
	assert.True(t, result.DiscountAmount.IsZero())
}

func TestEvaluateGiftRequireSameItemUsesMaxPerItem(t *testing.T) {
	promo := activePromotion(constants.PromotionGift)
	promo.BuyQuantity = 3
	promo.GetQuantity = 1
	promo.RequireSameItem = true

	// 2 + 2 cùng đơn nhưng khác món → không dòng nào đạt 3
	order := orderWithItems(line(1, 2, 35000), line(2, 2, 30000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.False(t, result.Eligible)
	assert.Equal(t, "Chưa đủ số lượng món để nhận quà tặng", result.Reason)
}

func TestEvaluateNotStarted(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.DiscountValue = d(10)
	future := time.Now().Add(48 * time.Hour)
	promo.StartDate = &future

	order := orderWithItems(line(1, 1, 50000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.False(t, result.Eligible)
	assert.Equal(t, "Khuyến mãi chưa bắt đầu", result.Reason)
}

func TestEvaluateEnded(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.DiscountValue = d(10)
	past := time.Now().Add(-time.Hour)
	promo.EndDate = &past

	order := orderWithItems(line(1, 1, 50000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.False(t, result.Eligible)
	assert.Equal(t, "Khuyến mãi đã kết thúc", result.Reason)
}

func TestEvaluateInactive(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.IsActive = false

	order := orderWithItems(line(1, 1, 50000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.False(t, result.Eligible)
	assert.Equal(t, "Khuyến mãi đang tạm ngưng", result.Reason)
}

func TestEvaluateWalkInExcluded(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.DiscountValue = d(10)
	promo.ApplyToWalkIn = false

	order := orderWithItems(line(1, 1, 50000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Customer: nil, Now: time.Now()})

	assert.False(t, result.Eligible)
	assert.Equal(t, "Khuyến mãi không áp dụng cho khách vãng lai", result.Reason)
}

func TestEvaluateCustomerScopeByGroup(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.DiscountValue = d(10)
	promo.CustomerGroups = []model.PromotionCustomerGroup{{CustomerGroupID: 7}}

	groupID := uint(7)
	customer := &model.Customer{GroupID: &groupID}
	customer.ID = 42

	order := orderWithItems(line(1, 1, 50000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Customer: customer, Now: time.Now()})
	assert.True(t, result.Eligible)

	otherGroup := uint(8)
	customer.GroupID = &otherGroup
	result = EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Customer: customer, Now: time.Now()})
	assert.False(t, result.Eligible)
	assert.Equal(t, "Khách hàng không thuộc diện áp dụng khuyến mãi", result.Reason)
}

func TestEvaluateTotalUsageCap(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.DiscountValue = d(10)
	cap := 100
	promo.MaxTotalUsage = &cap

	order := orderWithItems(line(1, 1, 50000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, TotalUsage: 100, Now: time.Now()})

	assert.False(t, result.Eligible)
	assert.Equal(t, "Khuyến mãi đã hết lượt sử dụng", result.Reason)
}

func TestEvaluatePerCustomerCap(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.DiscountValue = d(10)
	promo.ApplyToAllCustomers = true
	cap := 2
	promo.MaxUsagePerCustomer = &cap

	customer := &model.Customer{}
	customer.ID = 1

	order := orderWithItems(line(1, 1, 50000))

	result := EvaluatePromotion(EvalInput{
		Promotion: promo, Order: order, Customer: customer,
		CustomerUsage: 2, Now: time.Now(),
	})

	assert.False(t, result.Eligible)
	assert.Equal(t, "Khách hàng đã dùng hết lượt cho khuyến mãi này", result.Reason)
}

func TestEvaluateMinOrderValue(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.DiscountValue = d(10)
	promo.MinOrderValue = d(100000)

	order := orderWithItems(line(1, 1, 50000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.False(t, result.Eligible)
	assert.Equal(t, "Đơn hàng chưa đạt giá trị tối thiểu của khuyến mãi", result.Reason)
}

func TestEvaluateItemScope(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.DiscountValue = d(10)
	promo.ApplyToAllItems = false
	promo.Items = []model.PromotionItem{{MenuItemID: 1}}

	// Chỉ món 1 thuộc diện, món 2 không được tính vào phần giảm
	order := orderWithItems(line(1, 1, 50000), line(2, 1, 80000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.True(t, result.Eligible)
	assert.True(t, result.QualifyingSubtotal.Equal(d(50000)))
	assert.True(t, result.DiscountAmount.Equal(d(5000)))
}

func TestEvaluateSkipsCancelledAndGiftLines(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.DiscountValue = d(10)

	cancelled := line(1, 2, 50000)
	cancelled.Status = constants.ItemCancelled
	gift := line(2, 1, 35000)
	gift.IsGift = true

	order := orderWithItems(line(3, 1, 40000), cancelled, gift)

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.True(t, result.Eligible)
	assert.True(t, result.QualifyingSubtotal.Equal(d(40000)))
}

func TestEvaluateNoQualifyingItems(t *testing.T) {
	promo := activePromotion(constants.PromotionPercentage)
	promo.DiscountValue = d(10)
	promo.ApplyToAllItems = false
	promo.Items = []model.PromotionItem{{MenuItemID: 99}}

	order := orderWithItems(line(1, 1, 50000))

	result := EvaluatePromotion(EvalInput{Promotion: promo, Order: order, Now: time.Now()})

	assert.False(t, result.Eligible)
	assert.Equal(t, "Đơn hàng không có món thuộc diện khuyến mãi", result.Reason)
}

func TestValidateGiftSelections(t *testing.T) {
	promo := activePromotion(constants.PromotionGift)
	promo.GiftItems = []model.PromotionGiftItem{{MenuItemID: 3}}
	eval := &EvalResult{Eligible: true, GiftEntitlement: 2}

	// Chọn đúng món, đúng số lượng
	err := validateGiftSelections(promo, eval, []model.GiftSelection{{MenuItemID: 3, Quantity: 2}})
	assert.NoError(t, err)

	// Chọn quá số được tặng
	err = validateGiftSelections(promo, eval, []model.GiftSelection{{MenuItemID: 3, Quantity: 3}})
	assert.Error(t, err)

	// Chọn món ngoài danh mục quà
	err = validateGiftSelections(promo, eval, []model.GiftSelection{{MenuItemID: 9, Quantity: 1}})
	assert.Error(t, err)

	// Khuyến mãi không phải loại quà tặng thì không được gửi quà
	pct := activePromotion(constants.PromotionPercentage)
	err = validateGiftSelections(pct, eval, []model.GiftSelection{{MenuItemID: 3, Quantity: 1}})
	assert.Error(t, err)
	err = validateGiftSelections(pct, eval, nil)
	assert.NoError(t, err)
}
