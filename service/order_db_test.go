package service

import (
	"testing"
	"time"

	"pos_manager/constants"
	"pos_manager/database"
	"pos_manager/errs"
	"pos_manager/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	// DB trong bộ nhớ sống theo connection, giữ đúng một connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(db, NewInventoryService(db), NewPromotionService(db))
}

func seedTestTable(t *testing.T, db *gorm.DB, name string) *model.DiningTable {
	t.Helper()
	table := model.DiningTable{Name: name, IsActive: true}
	require.NoError(t, db.Create(&table).Error)
	return &table
}

func seedTestOrder(t *testing.T, db *gorm.DB, tableID uint) *model.Order {
	t.Helper()
	order := model.Order{
		PublicCode:     newOrderCode(),
		TableID:        &tableID,
		OrderType:      constants.OrderTypeDineIn,
		Status:         constants.OrderPending,
		PaymentStatus:  constants.PaymentUnpaid,
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.Zero,
		PaidAmount:     decimal.Zero,
		CreatedBy:      1,
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func seedTestLine(t *testing.T, db *gorm.DB, orderID, menuItemID uint, qty int, unitPrice int64) *model.OrderItem {
	t.Helper()
	item := line(menuItemID, qty, unitPrice)
	item.OrderID = orderID
	item.OriginalQuantity = qty
	item.Status = constants.ItemPending
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func refreshTotals(t *testing.T, db *gorm.DB, orderID uint) *model.Order {
	t.Helper()
	order, err := loadOrder(db, orderID)
	require.NoError(t, err)
	recomputeTotals(order)
	require.NoError(t, saveOrderTotals(db, order))
	return order
}

func TestSplitOrderRejectsDuplicateSpecEntries(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(db)
	source := seedTestOrder(t, db, seedTestTable(t, db, "Bàn 1").ID)
	item := seedTestLine(t, db, source.ID, 1, 3, 50000)
	refreshTotals(t, db, source.ID)
	target := seedTestTable(t, db, "Bàn 2")

	_, _, err := svc.SplitOrder(source.ID, &model.SplitOrderInput{
		NewTableID: target.ID,
		Items: []model.SplitItemSpec{
			{OrderItemID: item.ID, Quantity: 2},
			{OrderItemID: item.ID, Quantity: 2},
		},
	})

	assert.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	// Đơn nguồn phải nguyên vẹn, không dòng nào được tạo thêm
	var fresh model.OrderItem
	require.NoError(t, db.First(&fresh, item.ID).Error)
	assert.Equal(t, 3, fresh.Quantity)

	var count int64
	require.NoError(t, db.Model(&model.OrderItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSplitOrderConservesQuantities(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(db)
	source := seedTestOrder(t, db, seedTestTable(t, db, "Bàn 1").ID)
	item := seedTestLine(t, db, source.ID, 1, 3, 50000)
	refreshTotals(t, db, source.ID)
	target := seedTestTable(t, db, "Bàn 2")

	src, created, err := svc.SplitOrder(source.ID, &model.SplitOrderInput{
		NewTableID: target.ID,
		Items:      []model.SplitItemSpec{{OrderItemID: item.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.True(t, src.Subtotal.Equal(d(50000)))
	assert.True(t, created.Subtotal.Equal(d(100000)))

	totalQty := 0
	for _, it := range append(src.Items, created.Items...) {
		totalQty += it.Quantity
	}
	assert.Equal(t, 3, totalQty, "tách đơn không được sinh thêm hay mất món")
}

func TestReduceItemOmittedQuantityCancelsWholeLine(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(db)
	order := seedTestOrder(t, db, seedTestTable(t, db, "Bàn 1").ID)
	big := seedTestLine(t, db, order.ID, 1, 3, 50000)
	seedTestLine(t, db, order.ID, 2, 1, 30000)
	refreshTotals(t, db, order.ID)

	result, err := svc.ReduceItem(order.ID, big.ID, &model.ReduceItemInput{Reason: "Khách đổi ý"})
	require.NoError(t, err)

	// Subtotal giảm đúng trọn thành tiền của dòng bị hủy
	assert.True(t, result.Subtotal.Equal(d(30000)))

	cancelled := findItem(result, big.ID)
	require.NotNil(t, cancelled)
	assert.Equal(t, constants.ItemCancelled, cancelled.Status)
	assert.Equal(t, 3, cancelled.Quantity, "giữ số lượng để đối soát")
}

func TestGiftLineRejectsDirectRemoveAndReduce(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(db)
	order := seedTestOrder(t, db, seedTestTable(t, db, "Bàn 1").ID)
	seedTestLine(t, db, order.ID, 1, 2, 35000)
	gift := seedTestLine(t, db, order.ID, 2, 1, 35000)
	require.NoError(t, db.Model(&model.OrderItem{}).Where("id = ?", gift.ID).
		Update("is_gift", true).Error)
	require.NoError(t, db.Model(&model.Order{}).Where("id = ?", order.ID).
		Update("discount_amount", d(35000)).Error)
	refreshTotals(t, db, order.ID)

	_, err := svc.RemoveItem(order.ID, gift.ID)
	assert.Error(t, err)
	assert.Equal(t, errs.KindState, errs.KindOf(err))

	_, err = svc.ReduceItem(order.ID, gift.ID, &model.ReduceItemInput{Reason: "Khách không lấy quà"})
	assert.Error(t, err)
	assert.Equal(t, errs.KindState, errs.KindOf(err))

	// Khách vẫn trả đủ tiền phần món đã mua
	fresh, err := loadOrder(db, order.ID)
	require.NoError(t, err)
	assert.True(t, fresh.Subtotal.Equal(d(105000)))
	assert.True(t, fresh.DiscountAmount.Equal(d(35000)))
	assert.True(t, fresh.TotalAmount.Equal(d(70000)))
}

func TestCancelReleasesPromotionUsage(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(db)

	maxUsage := 1
	promo := model.Promotion{
		Code:            "GIAM10",
		Name:            "Giảm 10%",
		Slug:            "giam-10",
		Type:            constants.PromotionPercentage,
		DiscountValue:   d(10),
		MinOrderValue:   decimal.Zero,
		MaxTotalUsage:   &maxUsage,
		ApplyToAllItems: true,
		ApplyToWalkIn:   true,
		IsActive:        true,
	}
	require.NoError(t, db.Create(&promo).Error)

	order := seedTestOrder(t, db, seedTestTable(t, db, "Bàn 1").ID)
	seedTestLine(t, db, order.ID, 1, 2, 50000)
	require.NoError(t, db.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"applied_promotion_id": promo.ID,
		"discount_amount":      d(10000),
	}).Error)
	refreshTotals(t, db, order.ID)
	require.NoError(t, db.Create(&model.PromotionUsage{
		PromotionID:    promo.ID,
		OrderID:        order.ID,
		DiscountAmount: d(10000),
		AppliedAt:      time.Now(),
	}).Error)

	cancelled, err := svc.Cancel(order.ID, "Khách bỏ về")
	require.NoError(t, err)

	assert.Equal(t, constants.OrderCancelled, cancelled.Status)
	assert.Nil(t, cancelled.AppliedPromotionID)
	assert.True(t, cancelled.DiscountAmount.IsZero())
	assert.True(t, cancelled.Subtotal.IsZero())
	assert.True(t, cancelled.TotalAmount.IsZero())

	var usages int64
	require.NoError(t, db.Model(&model.PromotionUsage{}).
		Where("promotion_id = ?", promo.ID).Count(&usages).Error)
	assert.Equal(t, int64(0), usages, "lượt dùng phải được trả lại khi hủy đơn")

	// Suất duy nhất được giải phóng cho khách khác dùng
	canUse, err := svc.Promotions.CanUse(promo.ID, nil)
	require.NoError(t, err)
	assert.True(t, canUse.Eligible)
}

func TestMergeOrdersZeroesSourceTotals(t *testing.T) {
	db := newTestDB(t)
	svc := newTestOrderService(db)
	target := seedTestOrder(t, db, seedTestTable(t, db, "Bàn 1").ID)
	seedTestLine(t, db, target.ID, 1, 1, 40000)
	refreshTotals(t, db, target.ID)
	source := seedTestOrder(t, db, seedTestTable(t, db, "Bàn 2").ID)
	seedTestLine(t, db, source.ID, 2, 1, 30000)
	refreshTotals(t, db, source.ID)

	merged, err := svc.MergeOrders(target.ID, &model.MergeOrdersInput{SourceOrderID: source.ID})
	require.NoError(t, err)
	assert.True(t, merged.Subtotal.Equal(d(70000)))

	freshSource, err := loadOrder(db, source.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderCancelled, freshSource.Status)
	assert.Empty(t, freshSource.Items)
	assert.True(t, freshSource.Subtotal.IsZero())
	assert.True(t, freshSource.TotalAmount.IsZero())
}
