package service

import (
	"fmt"
	"time"

	"pos_manager/config"
	"pos_manager/constants"
	"pos_manager/errs"
	"pos_manager/model"
	"pos_manager/utils"

	"gorm.io/gorm"
)

// Checkout chốt đơn trong một transaction: áp khuyến mãi nếu được yêu
// cầu, trừ kho từng món rồi ghi nhận thanh toán. Trả thiếu vẫn chốt đơn
// với trạng thái thanh toán một phần.
func (s *OrderService) Checkout(orderID uint, input *model.CheckoutInput) (*model.Order, error) {
	var result *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if isTerminalOrder(order.Status) {
			return errs.State("Đơn hàng đã hoàn tất hoặc đã hủy, không thể thanh toán")
		}

		// Dòng quà tặng nằm ngoài luồng gửi bếp, không chặn thanh toán
		active := 0
		for _, it := range order.Items {
			if it.Status == constants.ItemCancelled {
				continue
			}
			active++
			if it.Status == constants.ItemPending && !it.IsGift {
				return errs.State("Còn món chưa gửi bếp, hãy gửi bếp hoặc hủy món trước khi thanh toán")
			}
		}
		if active == 0 {
			return errs.State("Đơn hàng không còn món nào để thanh toán")
		}

		if input.PromotionID != nil {
			order, _, err = s.Promotions.ApplyWithinTx(tx, order.ID, *input.PromotionID, input.SelectedGifts)
			if err != nil {
				return err
			}
		}

		if input.PaidAmount.IsNegative() {
			return errs.Validation("Số tiền thanh toán không được âm")
		}

		if err := s.Inventory.DeductForOrder(tx, order.Items); err != nil {
			return err
		}

		paymentStatus := constants.PaymentPartial
		if input.PaidAmount.GreaterThanOrEqual(order.TotalAmount) {
			paymentStatus = constants.PaymentPaid
		}

		now := time.Now()
		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":         constants.OrderCompleted,
			"payment_status": paymentStatus,
			"payment_method": input.PaymentMethod,
			"paid_amount":    input.PaidAmount,
			"completed_at":   now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.OrderItem{}).
			Where("order_id = ? AND status <> ?", order.ID, constants.ItemCancelled).
			Update("status", constants.ItemServed).Error; err != nil {
			return err
		}

		result, err = loadOrder(tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.sendReceipt(result)
	return result, nil
}

// sendReceipt gửi hóa đơn điện tử kèm mã QR tra cứu cho khách có email.
// Chạy sau commit, lỗi gửi mail không ảnh hưởng kết quả thanh toán.
func (s *OrderService) sendReceipt(order *model.Order) {
	if order == nil || order.Customer == nil || order.Customer.Email == "" {
		return
	}

	lines := make([]utils.ReceiptLine, 0, len(order.Items))
	for _, it := range order.Items {
		if it.Status == constants.ItemCancelled {
			continue
		}
		lines = append(lines, utils.ReceiptLine{
			Name:      itemLabel(&it),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
			IsGift:    it.IsGift,
		})
	}

	tableName := ""
	if order.Table != nil {
		tableName = order.Table.Name
	}

	data := utils.ReceiptData{
		OrderCode:      order.PublicCode,
		CustomerName:   order.Customer.Name,
		TableName:      tableName,
		Lines:          lines,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.TotalAmount,
		PaidAmount:     order.PaidAmount,
		PaymentMethod:  order.PaymentMethod,
		CompletedAt:    order.CompletedAt,
	}

	lookupURL := fmt.Sprintf("%s/orders/%s", config.ConfigDefault("RECEIPT_BASE_URL", "http://localhost:3000"), order.PublicCode)
	qr, err := utils.GenerateQRCode(lookupURL, 256)
	if err != nil {
		qr = nil
	}
	utils.SendReceiptEmail(order.Customer.Email, data, qr)
}
