package service

import (
	"strings"
	"testing"

	"pos_manager/constants"
	"pos_manager/errs"
	"pos_manager/model"
	"pos_manager/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewOrderCodeFormat(t *testing.T) {
	code := newOrderCode()
	assert.True(t, strings.HasPrefix(code, "ORD-"))
	assert.Len(t, code, 12)
	assert.Equal(t, strings.ToUpper(code), code)
}

func TestRecomputeTotalsSkipsCancelledLines(t *testing.T) {
	cancelled := line(1, 2, 50000)
	cancelled.Status = constants.ItemCancelled

	order := &model.Order{
		DiscountAmount: d(10000),
		Items:          []model.OrderItem{line(2, 1, 40000), line(3, 2, 30000), cancelled},
	}

	recomputeTotals(order)

	assert.True(t, order.Subtotal.Equal(d(100000)))
	assert.True(t, order.TotalAmount.Equal(d(90000)))
}

func TestRecomputeTotalsNeverNegative(t *testing.T) {
	order := &model.Order{
		DiscountAmount: d(99000),
		Items:          []model.OrderItem{line(1, 1, 50000)},
	}

	recomputeTotals(order)

	assert.True(t, order.Subtotal.Equal(d(50000)))
	assert.True(t, order.TotalAmount.IsZero())
}

func TestRecomputeTotalsGiftLinesKeepTotalInvariant(t *testing.T) {
	// Dòng quà tặng cộng vào subtotal, giá trị quà được bù trong discount
	gift := line(2, 1, 35000)
	gift.IsGift = true

	order := &model.Order{
		DiscountAmount: d(35000),
		Items:          []model.OrderItem{line(1, 2, 35000), gift},
	}

	recomputeTotals(order)

	assert.True(t, order.Subtotal.Equal(d(105000)))
	assert.True(t, order.TotalAmount.Equal(d(70000)), "khách chỉ trả phần món đã mua")
}

func TestItemStatusRankMonotonic(t *testing.T) {
	assert.Less(t, itemStatusRank[constants.ItemPending], itemStatusRank[constants.ItemPreparing])
	assert.Less(t, itemStatusRank[constants.ItemPreparing], itemStatusRank[constants.ItemReady])
	assert.Less(t, itemStatusRank[constants.ItemReady], itemStatusRank[constants.ItemServed])
}

func TestIsTerminalOrder(t *testing.T) {
	assert.True(t, isTerminalOrder(constants.OrderCompleted))
	assert.True(t, isTerminalOrder(constants.OrderCancelled))
	assert.False(t, isTerminalOrder(constants.OrderPending))
	assert.False(t, isTerminalOrder(constants.OrderPreparing))
	assert.False(t, isTerminalOrder(constants.OrderReady))
}

func TestSameProduct(t *testing.T) {
	a, b := line(1, 1, 10000), line(1, 2, 10000)
	assert.True(t, sameProduct(&a, &b))

	c := line(2, 1, 10000)
	assert.False(t, sameProduct(&a, &c))

	comboID := uint(5)
	x := model.OrderItem{ComboID: &comboID}
	y := model.OrderItem{ComboID: &comboID}
	assert.True(t, sameProduct(&x, &y))
	assert.False(t, sameProduct(&a, &x))
}

func splitOrderFixture() *model.Order {
	items := []model.OrderItem{line(1, 3, 50000), line(2, 1, 30000)}
	items[0].ID = 11
	items[1].ID = 12
	return &model.Order{Items: items}
}

func TestValidateSplitSpecsOk(t *testing.T) {
	order := splitOrderFixture()
	err := validateSplitSpecs(order, []model.SplitItemSpec{
		{OrderItemID: 11, Quantity: 2},
		{OrderItemID: 12, Quantity: 1},
	})
	assert.NoError(t, err)
}

func TestValidateSplitSpecsOverflow(t *testing.T) {
	order := splitOrderFixture()
	err := validateSplitSpecs(order, []model.SplitItemSpec{{OrderItemID: 11, Quantity: 5}})

	assert.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	assert.Contains(t, err.Error(), "chỉ còn 3")
}

func TestValidateSplitSpecsUnknownItem(t *testing.T) {
	order := splitOrderFixture()
	err := validateSplitSpecs(order, []model.SplitItemSpec{{OrderItemID: 99, Quantity: 1}})

	assert.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestValidateSplitSpecsRejectsCancelledAndGift(t *testing.T) {
	order := splitOrderFixture()
	order.Items[0].Status = constants.ItemCancelled
	err := validateSplitSpecs(order, []model.SplitItemSpec{{OrderItemID: 11, Quantity: 1}})
	assert.Error(t, err)
	assert.Equal(t, errs.KindState, errs.KindOf(err))

	order = splitOrderFixture()
	order.Items[1].IsGift = true
	err = validateSplitSpecs(order, []model.SplitItemSpec{{OrderItemID: 12, Quantity: 1}})
	assert.Error(t, err)
	assert.Equal(t, errs.KindState, errs.KindOf(err))
}

func TestValidateSplitSpecsRejectsDuplicateEntries(t *testing.T) {
	// Hai dòng cùng món cộng dồn 4 > 3 còn lại, phải bị từ chối
	order := splitOrderFixture()
	err := validateSplitSpecs(order, []model.SplitItemSpec{
		{OrderItemID: 11, Quantity: 2},
		{OrderItemID: 11, Quantity: 2},
	})

	assert.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestReductionOutcome(t *testing.T) {
	remaining, cancelled, err := reductionOutcome(3, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, remaining)
	assert.False(t, cancelled)

	remaining, cancelled, err = reductionOutcome(3, 3)
	assert.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.True(t, cancelled)

	_, _, err = reductionOutcome(3, 4)
	assert.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestGuardNotGift(t *testing.T) {
	paid := line(1, 2, 35000)
	assert.NoError(t, guardNotGift(&paid))

	gift := line(2, 1, 35000)
	gift.IsGift = true
	err := guardNotGift(&gift)
	assert.Error(t, err)
	assert.Equal(t, errs.KindState, errs.KindOf(err))
}

func TestValidateToppingSpecsRejectsNestedToppings(t *testing.T) {
	id := uint(3)
	nested := model.OrderItemSpec{
		MenuItemID: &id,
		Quantity:   1,
		Toppings:   []model.OrderItemSpec{{MenuItemID: &id, Quantity: 1}},
	}
	err := validateToppingSpecs([]model.OrderItemSpec{nested})

	assert.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	comboID := uint(9)
	err = validateToppingSpecs([]model.OrderItemSpec{{ComboID: &comboID, Quantity: 1}})
	assert.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	assert.NoError(t, validateToppingSpecs([]model.OrderItemSpec{{MenuItemID: &id, Quantity: 1}}))
}

func TestFindItem(t *testing.T) {
	order := splitOrderFixture()

	found := findItem(order, 12)
	assert.NotNil(t, found)
	assert.Equal(t, uint(12), found.ID)

	assert.Nil(t, findItem(order, 99))
}

func TestItemLabelFallsBackToId(t *testing.T) {
	it := model.OrderItem{}
	it.ID = 7
	assert.Equal(t, "#7", itemLabel(&it))

	it.MenuItem = &model.MenuItem{Name: "Cà phê sữa đá"}
	assert.Equal(t, "Cà phê sữa đá", itemLabel(&it))
}

func TestLineTotalSnapshot(t *testing.T) {
	total := utils.LineTotal(decimal.NewFromInt(29000), 3)
	assert.True(t, total.Equal(d(87000)))
}
