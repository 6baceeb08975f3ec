package service

import (
	"errors"
	"strings"
	"time"

	"pos_manager/constants"
	"pos_manager/errs"
	"pos_manager/model"
	"pos_manager/utils"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService sở hữu vòng đời đơn hàng và món trong đơn. Mọi thao tác
// ghi chạy trong một transaction, lỗi ở bất kỳ bước nào rollback toàn bộ.
type OrderService struct {
	DB         *gorm.DB
	Inventory  *InventoryService
	Promotions *PromotionService
}

func NewOrderService(db *gorm.DB, inventory *InventoryService, promotions *PromotionService) *OrderService {
	return &OrderService{DB: db, Inventory: inventory, Promotions: promotions}
}

var itemStatusRank = map[string]int{
	constants.ItemPending:   0,
	constants.ItemPreparing: 1,
	constants.ItemReady:     2,
	constants.ItemServed:    3,
}

func isTerminalOrder(status string) bool {
	return status == constants.OrderCompleted || status == constants.OrderCancelled
}

func newOrderCode() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

// recomputeTotals tính lại subtotal từ các dòng chưa hủy và giữ bất biến
// total = subtotal − discount, không âm.
func recomputeTotals(order *model.Order) {
	subtotal := decimal.Zero
	for i := range order.Items {
		it := &order.Items[i]
		if it.Status == constants.ItemCancelled {
			continue
		}
		subtotal = subtotal.Add(it.LineTotal)
	}
	order.Subtotal = subtotal
	order.TotalAmount = utils.SubFloorZero(subtotal, order.DiscountAmount)
}

func loadOrder(tx *gorm.DB, orderID uint) (*model.Order, error) {
	var order model.Order
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Items.MenuItem").
		Preload("Items.Combo").
		Preload("Customer").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound(constants.ORDER_NOT_FOUND)
		}
		return nil, err
	}
	return &order, nil
}

func saveOrderTotals(tx *gorm.DB, order *model.Order) error {
	return tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"subtotal":        order.Subtotal,
		"discount_amount": order.DiscountAmount,
		"total_amount":    order.TotalAmount,
	}).Error
}

// tableOccupied kiểm tra bàn đang có đơn hoạt động khác hay không
func tableOccupied(tx *gorm.DB, tableID uint, excludeOrderID uint) (bool, error) {
	var count int64
	err := tx.Model(&model.Order{}).
		Where("table_id = ? AND status NOT IN ? AND id <> ?",
			tableID, []string{constants.OrderCompleted, constants.OrderCancelled}, excludeOrderID).
		Count(&count).Error
	return count > 0, err
}

func (s *OrderService) findActiveTable(tableID uint) (*model.DiningTable, error) {
	var table model.DiningTable
	err := s.DB.Where("id = ? AND deleted_at IS NULL AND is_active IS true", tableID).
		First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound(constants.TABLE_NOT_FOUND)
		}
		return nil, err
	}
	return &table, nil
}

// buildItem dựng một dòng món từ spec, chốt đơn giá tại thời điểm gọi
func (s *OrderService) buildItem(spec *model.OrderItemSpec) (*model.OrderItem, error) {
	if (spec.MenuItemID == nil) == (spec.ComboID == nil) {
		return nil, errs.Validation("Mỗi dòng món phải chọn đúng một món lẻ hoặc một combo")
	}
	if spec.Quantity < 1 {
		return nil, errs.Validation("Số lượng món phải lớn hơn 0")
	}

	var item model.OrderItem
	if err := copier.Copy(&item, spec); err != nil {
		return nil, err
	}

	var unitPrice decimal.Decimal
	if spec.MenuItemID != nil {
		menuItem, err := s.Inventory.GetSellable(*spec.MenuItemID)
		if err != nil {
			return nil, err
		}
		unitPrice = menuItem.SellingPrice
	} else {
		combo, err := s.Inventory.GetCombo(*spec.ComboID)
		if err != nil {
			return nil, err
		}
		unitPrice = combo.Price
	}

	item.OriginalQuantity = spec.Quantity
	item.UnitPrice = unitPrice
	item.LineTotal = utils.LineTotal(unitPrice, spec.Quantity)
	item.Status = constants.ItemPending
	return &item, nil
}

// validateToppingSpecs kiểm tra danh sách topping: phải là món lẻ và
// chỉ một cấp, topping không được kèm topping con.
func validateToppingSpecs(specs []model.OrderItemSpec) error {
	for i := range specs {
		if specs[i].MenuItemID == nil {
			return errs.Validation("Topping phải là món lẻ")
		}
		if len(specs[i].Toppings) > 0 {
			return errs.Validation("Topping không được kèm topping con")
		}
	}
	return nil
}

// buildItemWithToppings dựng món chính kèm các dòng topping con. Topping
// có giá riêng, độc lập với giá món chính.
func (s *OrderService) buildItemWithToppings(spec *model.OrderItemSpec) (*model.OrderItem, []model.OrderItem, error) {
	if err := validateToppingSpecs(spec.Toppings); err != nil {
		return nil, nil, err
	}

	host, err := s.buildItem(spec)
	if err != nil {
		return nil, nil, err
	}

	var toppings []model.OrderItem
	for i := range spec.Toppings {
		topping, err := s.buildItem(&spec.Toppings[i])
		if err != nil {
			return nil, nil, err
		}
		toppings = append(toppings, *topping)
	}
	return host, toppings, nil
}

// Create tạo đơn hàng mới với danh sách món ban đầu
func (s *OrderService) Create(input *model.CreateOrderInput, staffID uint) (*model.Order, error) {
	if input.OrderType == constants.OrderTypeDineIn {
		if input.TableID == nil {
			return nil, errs.Validation("Đơn tại bàn phải chọn bàn")
		}
		if _, err := s.findActiveTable(*input.TableID); err != nil {
			return nil, err
		}
	} else {
		input.TableID = nil
	}

	if input.CustomerID != nil {
		var count int64
		if err := s.DB.Model(&model.Customer{}).
			Where("id = ? AND deleted_at IS NULL", *input.CustomerID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, errs.NotFound(constants.CUSTOMER_NOT_FOUND)
		}
	}

	order := model.Order{
		PublicCode:     newOrderCode(),
		TableID:        input.TableID,
		OrderType:      input.OrderType,
		Status:         constants.OrderPending,
		PaymentStatus:  constants.PaymentUnpaid,
		CustomerID:     input.CustomerID,
		Notes:          input.Notes,
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.Zero,
		PaidAmount:     decimal.Zero,
		CreatedBy:      staffID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if input.TableID != nil {
			occupied, err := tableOccupied(tx, *input.TableID, 0)
			if err != nil {
				return err
			}
			if occupied {
				return errs.Conflict("Bàn đang có đơn hàng khác chưa thanh toán")
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range input.Items {
			host, toppings, err := s.buildItemWithToppings(&input.Items[i])
			if err != nil {
				return err
			}
			host.OrderID = order.ID
			if err := tx.Create(host).Error; err != nil {
				return err
			}
			for j := range toppings {
				toppings[j].OrderID = order.ID
				toppings[j].ParentItemID = &host.ID
				if err := tx.Create(&toppings[j]).Error; err != nil {
					return err
				}
			}
		}

		fresh, err := loadOrder(tx, order.ID)
		if err != nil {
			return err
		}
		recomputeTotals(fresh)
		order = *fresh
		return saveOrderTotals(tx, fresh)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByID đọc đơn hàng kèm toàn bộ món
func (s *OrderService) GetByID(orderID uint) (*model.Order, error) {
	return loadOrder(s.DB, orderID)
}

// AddItem thêm món vào đơn, chốt lại giá tại thời điểm thêm
func (s *OrderService) AddItem(orderID uint, input *model.AddItemInput) (*model.Order, error) {
	var result *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if isTerminalOrder(order.Status) {
			return errs.State("Đơn hàng đã hoàn tất hoặc đã hủy, không thể thêm món")
		}

		host, toppings, err := s.buildItemWithToppings(&input.Item)
		if err != nil {
			return err
		}
		host.OrderID = order.ID
		if err := tx.Create(host).Error; err != nil {
			return err
		}
		for j := range toppings {
			toppings[j].OrderID = order.ID
			toppings[j].ParentItemID = &host.ID
			if err := tx.Create(&toppings[j]).Error; err != nil {
				return err
			}
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

func findItem(order *model.Order, itemID uint) *model.OrderItem {
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			return &order.Items[i]
		}
	}
	return nil
}

// RemoveItem xóa hẳn một dòng món, chỉ khi món chưa gửi bếp
func (s *OrderService) RemoveItem(orderID, itemID uint) (*model.Order, error) {
	var result *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if isTerminalOrder(order.Status) {
			return errs.State("Đơn hàng đã hoàn tất hoặc đã hủy, không thể xóa món")
		}

		item := findItem(order, itemID)
		if item == nil {
			return errs.NotFound(constants.ORDER_ITEM_NOT_FOUND)
		}
		if err := guardNotGift(item); err != nil {
			return err
		}
		if item.Status != constants.ItemPending {
			return errs.State("Món đã gửi bếp, chỉ có thể giảm số lượng kèm lý do")
		}

		// Xóa cả các topping gắn vào món này
		if err := tx.Where("parent_item_id = ?", item.ID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.OrderItem{}, item.ID).Error; err != nil {
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

// guardNotGift chặn thao tác trực tiếp lên dòng quà tặng. Giá trị quà
// được bù trong discount của đơn nên xóa hay giảm trực tiếp sẽ làm
// total = subtotal − discount lệch đi đúng giá trị quà.
func guardNotGift(item *model.OrderItem) error {
	if item.IsGift {
		return errs.State("Dòng quà tặng thuộc khuyến mãi đang áp dụng, hãy gỡ khuyến mãi khỏi đơn")
	}
	return nil
}

// reductionOutcome tính phần còn lại khi giảm món: về 0 là hủy cả dòng,
// còn dư thì giữ dòng với số lượng mới.
func reductionOutcome(current, reduceBy int) (remaining int, cancelled bool, err error) {
	if reduceBy > current {
		return 0, false, errs.Validationf("Số lượng giảm (%d) vượt quá số lượng hiện tại (%d)", reduceBy, current)
	}
	remaining = current - reduceBy
	return remaining, remaining == 0, nil
}

// applyReduction giảm số lượng một dòng món. Về 0 thì chuyển CANCELLED và
// giữ nguyên số lượng hiện tại để đối soát, phần còn lại giữ trạng thái
// chế biến hiện hành với số lượng và thành tiền mới.
func applyReduction(tx *gorm.DB, item *model.OrderItem, reduceBy int, reason string) error {
	remaining, cancelled, err := reductionOutcome(item.Quantity, reduceBy)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"cancel_reason": reason,
	}
	if cancelled {
		updates["status"] = constants.ItemCancelled
	} else {
		updates["quantity"] = remaining
		updates["line_total"] = utils.LineTotal(item.UnitPrice, remaining)
	}
	return tx.Model(&model.OrderItem{}).Where("id = ?", item.ID).Updates(updates).Error
}

// ReduceItem giảm số lượng món kèm lý do bắt buộc. Bỏ trống số lượng
// nghĩa là hủy toàn bộ phần còn lại của dòng món.
func (s *OrderService) ReduceItem(orderID, itemID uint, input *model.ReduceItemInput) (*model.Order, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, errs.Validation("Giảm món phải có lý do")
	}

	var result *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if isTerminalOrder(order.Status) {
			return errs.State("Đơn hàng đã hoàn tất hoặc đã hủy, không thể giảm món")
		}

		item := findItem(order, itemID)
		if item == nil {
			return errs.NotFound(constants.ORDER_ITEM_NOT_FOUND)
		}
		if err := guardNotGift(item); err != nil {
			return err
		}
		if item.Status == constants.ItemCancelled {
			return errs.State("Món đã bị hủy trước đó")
		}

		reduceBy := item.Quantity
		if input.Quantity != nil {
			reduceBy = *input.Quantity
		}
		if err := applyReduction(tx, item, reduceBy, input.Reason); err != nil {
			return err
		}

		// Hủy hết món chính thì hủy luôn topping đi kèm
		if reduceBy == item.Quantity {
			if err := tx.Model(&model.OrderItem{}).
				Where("parent_item_id = ? AND status <> ?", item.ID, constants.ItemCancelled).
				Updates(map[string]interface{}{
					"status":        constants.ItemCancelled,
					"cancel_reason": input.Reason,
				}).Error; err != nil {
				return err
			}
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

// Confirm xác nhận đơn với khách trước khi gửi bếp
func (s *OrderService) Confirm(orderID uint) (*model.Order, error) {
	var result *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != constants.OrderPending {
			return errs.Statef("Chỉ xác nhận được đơn đang chờ, đơn hiện tại %s", order.Status)
		}

		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).
			Update("status", constants.OrderConfirmed).Error; err != nil {
			return err
		}

		result, err = loadOrder(tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SendToKitchen chuyển toàn bộ món PENDING sang PREPARING
func (s *OrderService) SendToKitchen(orderID uint) (*model.Order, error) {
	var result *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if isTerminalOrder(order.Status) {
			return errs.State("Đơn hàng đã hoàn tất hoặc đã hủy")
		}

		active, pending := 0, 0
		for i := range order.Items {
			switch order.Items[i].Status {
			case constants.ItemCancelled:
			case constants.ItemPending:
				active++
				pending++
			default:
				active++
			}
		}
		if active == 0 {
			return errs.State("Đơn hàng không có món để gửi bếp")
		}
		if pending == 0 {
			return errs.State("Không có món mới để gửi bếp")
		}

		if err := tx.Model(&model.OrderItem{}).
			Where("order_id = ? AND status = ?", order.ID, constants.ItemPending).
			Update("status", constants.ItemPreparing).Error; err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{"status": constants.OrderPreparing}
		if order.SentToKitchenAt == nil {
			updates["sent_to_kitchen_at"] = now
		}
		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}

		result, err = loadOrder(tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// sameProduct so khớp hai dòng cùng một món/combo
func sameProduct(a, b *model.OrderItem) bool {
	if a.MenuItemID != nil && b.MenuItemID != nil {
		return *a.MenuItemID == *b.MenuItemID
	}
	if a.ComboID != nil && b.ComboID != nil {
		return *a.ComboID == *b.ComboID
	}
	return false
}

// UpdateItemStatus tiến trạng thái một món, hoặc mọi dòng cùng món trong
// đơn khi all = true. Chỉ cho tiến, không cho lùi.
func (s *OrderService) UpdateItemStatus(itemID uint, input *model.UpdateItemStatusInput) ([]model.OrderItem, error) {
	targetRank, ok := itemStatusRank[input.Status]
	if !ok {
		return nil, errs.Validation("Trạng thái món không hợp lệ")
	}

	var updated []model.OrderItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var item model.OrderItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound(constants.ORDER_ITEM_NOT_FOUND)
			}
			return err
		}

		order, err := loadOrder(tx, item.OrderID)
		if err != nil {
			return err
		}
		if isTerminalOrder(order.Status) {
			return errs.State("Đơn hàng đã hoàn tất hoặc đã hủy")
		}
		if item.Status == constants.ItemCancelled {
			return errs.State("Món đã bị hủy, không thể đổi trạng thái")
		}
		if itemStatusRank[item.Status] > targetRank {
			return errs.Statef("Không thể lùi trạng thái món từ %s về %s", item.Status, input.Status)
		}

		targets := []*model.OrderItem{&item}
		if input.All {
			targets = targets[:0]
			for i := range order.Items {
				it := &order.Items[i]
				if it.Status == constants.ItemCancelled {
					continue
				}
				if it.ID == item.ID || (sameProduct(it, &item) && itemStatusRank[it.Status] <= targetRank) {
					targets = append(targets, it)
				}
			}
		}

		ids := make([]uint, 0, len(targets))
		for _, t := range targets {
			ids = append(ids, t.ID)
		}
		if err := tx.Model(&model.OrderItem{}).
			Where("id IN ?", ids).
			Update("status", input.Status).Error; err != nil {
			return err
		}

		// Mọi món hoạt động đã sẵn sàng thì đơn chuyển READY
		fresh, err := loadOrder(tx, order.ID)
		if err != nil {
			return err
		}
		allReady := true
		for i := range fresh.Items {
			it := &fresh.Items[i]
			if it.Status == constants.ItemCancelled {
				continue
			}
			if itemStatusRank[it.Status] < itemStatusRank[constants.ItemReady] {
				allReady = false
				break
			}
		}
		if allReady && fresh.Status == constants.OrderPreparing {
			if err := tx.Model(&model.Order{}).Where("id = ?", fresh.ID).
				Update("status", constants.OrderReady).Error; err != nil {
				return err
			}
		}

		return tx.Where("id IN ?", ids).Find(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel hủy đơn từ bất kỳ trạng thái chưa kết thúc nào. Không trừ kho
// vì chưa có tiêu hao. Gọi lần hai trả lỗi trạng thái sạch, không ghi gì.
func (s *OrderService) Cancel(orderID uint, reason string) (*model.Order, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, errs.Validation("Hủy đơn phải có lý do")
	}

	var result *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status == constants.OrderCancelled {
			return errs.State("Đơn hàng đã được hủy trước đó")
		}
		if order.Status == constants.OrderCompleted {
			return errs.State("Đơn hàng đã hoàn tất, không thể hủy")
		}

		now := time.Now()
		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":        constants.OrderCancelled,
			"cancel_reason": reason,
			"cancelled_at":  now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.OrderItem{}).
			Where("order_id = ? AND status <> ?", order.ID, constants.ItemCancelled).
			Updates(map[string]interface{}{
				"status":        constants.ItemCancelled,
				"cancel_reason": reason,
			}).Error; err != nil {
			return err
		}

		// Khuyến mãi chưa được tiêu dùng, trả lại lượt cho khách khác
		if err := s.Promotions.ReleaseUsageWithinTx(tx, order); err != nil {
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
