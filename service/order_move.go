package service

import (
	"fmt"
	"time"

	"pos_manager/constants"
	"pos_manager/errs"
	"pos_manager/model"
	"pos_manager/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransferTable chuyển đơn sang bàn khác, bàn đích phải đang trống
func (s *OrderService) TransferTable(orderID uint, input *model.TransferTableInput) (*model.Order, error) {
	if _, err := s.findActiveTable(input.NewTableID); err != nil {
		return nil, err
	}

	var result *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if isTerminalOrder(order.Status) {
			return errs.State("Đơn hàng đã hoàn tất hoặc đã hủy, không thể chuyển bàn")
		}
		if order.TableID != nil && *order.TableID == input.NewTableID {
			return errs.Validation("Đơn hàng đang ở chính bàn này")
		}

		occupied, err := tableOccupied(tx, input.NewTableID, order.ID)
		if err != nil {
			return err
		}
		if occupied {
			return errs.Conflict("Bàn đích đang có đơn hàng khác chưa thanh toán")
		}

		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"table_id":   input.NewTableID,
			"order_type": constants.OrderTypeDineIn,
		}).Error; err != nil {
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

// MergeOrders gộp toàn bộ món chưa hủy của đơn nguồn vào đơn đích. Hai
// đơn thuộc hai khách hàng khác nhau thì từ chối vì không rõ tính tiền
// cho ai; bên nào chưa gắn khách thì nhận khách của bên kia.
func (s *OrderService) MergeOrders(targetOrderID uint, input *model.MergeOrdersInput) (*model.Order, error) {
	if targetOrderID == input.SourceOrderID {
		return nil, errs.Validation("Không thể gộp một đơn vào chính nó")
	}

	var result *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		target, err := loadOrder(tx, targetOrderID)
		if err != nil {
			return err
		}
		source, err := loadOrder(tx, input.SourceOrderID)
		if err != nil {
			return err
		}
		if isTerminalOrder(target.Status) || isTerminalOrder(source.Status) {
			return errs.State("Chỉ gộp được hai đơn đang hoạt động")
		}
		if target.CustomerID != nil && source.CustomerID != nil && *target.CustomerID != *source.CustomerID {
			return errs.Conflict("Hai đơn thuộc hai khách hàng khác nhau, không thể gộp")
		}
		if source.AppliedPromotionID != nil || target.AppliedPromotionID != nil {
			return errs.Conflict("Hãy gỡ khuyến mãi khỏi hai đơn trước khi gộp")
		}

		// Chuyển các dòng chưa hủy, dòng đã hủy ở lại đơn nguồn để đối soát
		if err := tx.Model(&model.OrderItem{}).
			Where("order_id = ? AND status <> ?", source.ID, constants.ItemCancelled).
			Update("order_id", target.ID).Error; err != nil {
			return err
		}

		targetUpdates := map[string]interface{}{}
		if target.CustomerID == nil && source.CustomerID != nil {
			targetUpdates["customer_id"] = *source.CustomerID
		}

		// Món đã chuyển đi hết nên tổng tiền đơn nguồn về 0
		now := time.Now()
		reason := fmt.Sprintf("Đã gộp vào đơn %s", target.PublicCode)
		if err := tx.Model(&model.Order{}).Where("id = ?", source.ID).Updates(map[string]interface{}{
			"status":          constants.OrderCancelled,
			"cancel_reason":   reason,
			"cancelled_at":    now,
			"subtotal":        decimal.Zero,
			"discount_amount": decimal.Zero,
			"total_amount":    decimal.Zero,
		}).Error; err != nil {
			return err
		}

		if len(targetUpdates) > 0 {
			if err := tx.Model(&model.Order{}).Where("id = ?", target.ID).Updates(targetUpdates).Error; err != nil {
				return err
			}
		}

		fresh, err := loadOrder(tx, target.ID)
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

// validateSplitSpecs đối chiếu số lượng muốn tách với số còn lại trong
// đơn nguồn, dòng nào vượt quá là từ chối cả thao tác. Mỗi món chỉ được
// xuất hiện một lần, lặp lại sẽ cộng dồn vượt số còn lại mà từng dòng
// riêng lẻ không phát hiện được.
func validateSplitSpecs(order *model.Order, specs []model.SplitItemSpec) error {
	seen := make(map[uint]bool, len(specs))
	for _, sp := range specs {
		if seen[sp.OrderItemID] {
			return errs.Validation("Mỗi món chỉ được xuất hiện một lần trong yêu cầu tách")
		}
		seen[sp.OrderItemID] = true

		item := findItem(order, sp.OrderItemID)
		if item == nil {
			return errs.NotFound(constants.ORDER_ITEM_NOT_FOUND)
		}
		if item.Status == constants.ItemCancelled {
			return errs.State("Không thể tách món đã hủy")
		}
		if item.IsGift {
			return errs.State("Không thể tách dòng quà tặng khuyến mãi")
		}
		if sp.Quantity > item.Quantity {
			return errs.Conflictf("Món '%s' chỉ còn %d, không thể tách %d",
				itemLabel(item), item.Quantity, sp.Quantity)
		}
	}
	return nil
}

func itemLabel(it *model.OrderItem) string {
	if it.MenuItem != nil {
		return it.MenuItem.Name
	}
	if it.Combo != nil {
		return it.Combo.Name
	}
	return fmt.Sprintf("#%d", it.ID)
}

// SplitOrder tách một phần món sang đơn mới trên bàn khác, giữ nguyên
// giá đã chốt và trạng thái chế biến của từng dòng.
func (s *OrderService) SplitOrder(orderID uint, input *model.SplitOrderInput) (*model.Order, *model.Order, error) {
	if _, err := s.findActiveTable(input.NewTableID); err != nil {
		return nil, nil, err
	}

	var src, created *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		source, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if isTerminalOrder(source.Status) {
			return errs.State("Đơn hàng đã hoàn tất hoặc đã hủy, không thể tách")
		}
		if source.AppliedPromotionID != nil {
			return errs.Conflict("Hãy gỡ khuyến mãi khỏi đơn trước khi tách")
		}
		if err := validateSplitSpecs(source, input.Items); err != nil {
			return err
		}

		occupied, err := tableOccupied(tx, input.NewTableID, source.ID)
		if err != nil {
			return err
		}
		if occupied {
			return errs.Conflict("Bàn đích đang có đơn hàng khác chưa thanh toán")
		}

		newOrder := model.Order{
			PublicCode:      newOrderCode(),
			TableID:         &input.NewTableID,
			OrderType:       constants.OrderTypeDineIn,
			Status:          source.Status,
			PaymentStatus:   constants.PaymentUnpaid,
			CustomerID:      source.CustomerID,
			Subtotal:        decimal.Zero,
			DiscountAmount:  decimal.Zero,
			TotalAmount:     decimal.Zero,
			PaidAmount:      decimal.Zero,
			CreatedBy:       source.CreatedBy,
			SentToKitchenAt: source.SentToKitchenAt,
		}
		if err := tx.Create(&newOrder).Error; err != nil {
			return err
		}

		for _, sp := range input.Items {
			item := findItem(source, sp.OrderItemID)

			if sp.Quantity == item.Quantity {
				// Tách trọn dòng: chuyển cả dòng và topping đi kèm
				if err := tx.Model(&model.OrderItem{}).
					Where("id = ? OR parent_item_id = ?", item.ID, item.ID).
					Update("order_id", newOrder.ID).Error; err != nil {
					return err
				}
				continue
			}

			// Tách một phần: giảm dòng nguồn, tạo dòng mới cùng giá chốt
			remaining := item.Quantity - sp.Quantity
			if err := tx.Model(&model.OrderItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
				"quantity":   remaining,
				"line_total": utils.LineTotal(item.UnitPrice, remaining),
			}).Error; err != nil {
				return err
			}

			moved := model.OrderItem{
				OrderID:          newOrder.ID,
				MenuItemID:       item.MenuItemID,
				ComboID:          item.ComboID,
				Quantity:         sp.Quantity,
				OriginalQuantity: sp.Quantity,
				UnitPrice:        item.UnitPrice,
				LineTotal:        utils.LineTotal(item.UnitPrice, sp.Quantity),
				Customization:    item.Customization,
				Notes:            item.Notes,
				Status:           item.Status,
			}
			if err := tx.Create(&moved).Error; err != nil {
				return err
			}
		}

		freshSource, err := loadOrder(tx, source.ID)
		if err != nil {
			return err
		}
		recomputeTotals(freshSource)
		if err := saveOrderTotals(tx, freshSource); err != nil {
			return err
		}

		freshNew, err := loadOrder(tx, newOrder.ID)
		if err != nil {
			return err
		}
		recomputeTotals(freshNew)
		if err := saveOrderTotals(tx, freshNew); err != nil {
			return err
		}

		src, created = freshSource, freshNew
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return src, created, nil
}
