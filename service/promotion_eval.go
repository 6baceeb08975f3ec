package service

import (
	"time"

	"pos_manager/constants"
	"pos_manager/model"
	"pos_manager/utils"

	"github.com/shopspring/decimal"
)

// EvalInput là ảnh chụp dữ liệu cần cho một lần xét khuyến mãi. Bộ đếm
// lượt dùng được tầng ledger đọc trong transaction rồi truyền vào đây,
// nhờ vậy phần xét điều kiện thuần túy không chạm database.
type EvalInput struct {
	Promotion     *model.Promotion
	Order         *model.Order // kèm Items và Items.MenuItem
	Customer      *model.Customer
	TotalUsage    int64
	CustomerUsage int64
	Now           time.Time
}

type EvalResult struct {
	Eligible           bool            `json:"eligible"`
	Reason             string          `json:"reason,omitempty"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	QualifyingSubtotal decimal.Decimal `json:"qualifyingSubtotal"`
	QualifyingQty      int             `json:"qualifyingQty"`
	GiftEntitlement    int             `json:"giftEntitlement"`
}

func ineligible(reason string) EvalResult {
	return EvalResult{Eligible: false, Reason: reason, DiscountAmount: decimal.Zero}
}

// checkWindowAndActive gộp bước 1-2: khung thời gian và trạng thái
func checkWindowAndActive(p *model.Promotion, now time.Time) (EvalResult, bool) {
	if !p.IsActive || p.DeletedAt != nil {
		return ineligible("Khuyến mãi đang tạm ngưng"), false
	}
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return ineligible("Khuyến mãi chưa bắt đầu"), false
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return ineligible("Khuyến mãi đã kết thúc"), false
	}
	return EvalResult{}, true
}

// checkCustomerScope xét bước 3: khách vãng lai và danh sách khách/nhóm
func checkCustomerScope(p *model.Promotion, customer *model.Customer) (EvalResult, bool) {
	if customer == nil {
		if !p.ApplyToWalkIn {
			return ineligible("Khuyến mãi không áp dụng cho khách vãng lai"), false
		}
		return EvalResult{}, true
	}
	if p.ApplyToAllCustomers {
		return EvalResult{}, true
	}
	for _, pc := range p.Customers {
		if pc.CustomerID == customer.ID {
			return EvalResult{}, true
		}
	}
	if customer.GroupID != nil {
		for _, pg := range p.CustomerGroups {
			if pg.CustomerGroupID == *customer.GroupID {
				return EvalResult{}, true
			}
		}
	}
	return ineligible("Khách hàng không thuộc diện áp dụng khuyến mãi"), false
}

// checkUsageCaps xét bước 4 trên bộ đếm đã đọc trong transaction
func checkUsageCaps(p *model.Promotion, totalUsage, customerUsage int64, hasCustomer bool) (EvalResult, bool) {
	if p.MaxTotalUsage != nil && totalUsage >= int64(*p.MaxTotalUsage) {
		return ineligible("Khuyến mãi đã hết lượt sử dụng"), false
	}
	if hasCustomer && p.MaxUsagePerCustomer != nil && customerUsage >= int64(*p.MaxUsagePerCustomer) {
		return ineligible("Khách hàng đã dùng hết lượt cho khuyến mãi này"), false
	}
	return EvalResult{}, true
}

// lineQualifies kiểm tra một dòng món có thuộc phạm vi khuyến mãi không.
// Cờ "áp dụng tất cả" phủ lên danh sách id tường minh của chiều đó.
func lineQualifies(p *model.Promotion, it *model.OrderItem) bool {
	if it.Status == constants.ItemCancelled || it.IsGift || it.Quantity <= 0 {
		return false
	}

	if it.ComboID != nil {
		if p.ApplyToAllCombos {
			return true
		}
		for _, pc := range p.Combos {
			if pc.ComboID == *it.ComboID {
				return true
			}
		}
		return false
	}

	if it.MenuItemID == nil {
		return false
	}
	if p.ApplyToAllItems {
		return true
	}
	for _, pi := range p.Items {
		if pi.MenuItemID == *it.MenuItemID {
			return true
		}
	}
	if p.ApplyToAllCategories {
		return true
	}
	if it.MenuItem != nil {
		for _, pc := range p.Categories {
			if pc.CategoryID == it.MenuItem.CategoryID {
				return true
			}
		}
	}
	return false
}

// EvaluatePromotion chạy toàn bộ chuỗi kiểm tra điều kiện của một
// khuyến mãi trên ảnh chụp đơn hàng và tính số tiền giảm. Mỗi bước rớt
// trả về lý do cụ thể, không bao giờ là lỗi chung chung.
func EvaluatePromotion(in EvalInput) EvalResult {
	p := in.Promotion

	if r, ok := checkWindowAndActive(p, in.Now); !ok {
		return r
	}
	if r, ok := checkCustomerScope(p, in.Customer); !ok {
		return r
	}
	if r, ok := checkUsageCaps(p, in.TotalUsage, in.CustomerUsage, in.Customer != nil); !ok {
		return r
	}

	if in.Order.Subtotal.LessThan(p.MinOrderValue) {
		return ineligible("Đơn hàng chưa đạt giá trị tối thiểu của khuyến mãi")
	}

	// Gom các dòng thuộc phạm vi áp dụng
	qualifyingSubtotal := decimal.Zero
	qualifyingQty := 0
	perItemQty := map[uint]int{}
	for i := range in.Order.Items {
		it := &in.Order.Items[i]
		if !lineQualifies(p, it) {
			continue
		}
		qualifyingSubtotal = qualifyingSubtotal.Add(it.LineTotal)
		qualifyingQty += it.Quantity
		if it.MenuItemID != nil {
			perItemQty[*it.MenuItemID] += it.Quantity
		}
	}

	if qualifyingQty == 0 {
		return ineligible("Đơn hàng không có món thuộc diện khuyến mãi")
	}

	result := EvalResult{
		Eligible:           true,
		QualifyingSubtotal: qualifyingSubtotal,
		QualifyingQty:      qualifyingQty,
		DiscountAmount:     decimal.Zero,
	}

	switch p.Type {
	case constants.PromotionPercentage:
		result.DiscountAmount = utils.CapMoney(
			utils.Percent(qualifyingSubtotal, p.DiscountValue), p.MaxDiscount)

	case constants.PromotionFixedAmount:
		result.DiscountAmount = utils.MinMoney(p.DiscountValue, qualifyingSubtotal)

	case constants.PromotionFixedPrice:
		// Đồng giá: toàn bộ dòng thuộc diện được tính chung một mức giá
		result.DiscountAmount = utils.SubFloorZero(qualifyingSubtotal, p.DiscountValue)

	case constants.PromotionGift:
		baseQty := qualifyingQty
		if p.RequireSameItem {
			baseQty = 0
			for _, q := range perItemQty {
				if q > baseQty {
					baseQty = q
				}
			}
		}
		if p.BuyQuantity <= 0 || baseQty < p.BuyQuantity {
			return ineligible("Chưa đủ số lượng món để nhận quà tặng")
		}
		result.GiftEntitlement = (baseQty / p.BuyQuantity) * p.GetQuantity
		result.QualifyingQty = baseQty
	}

	return result
}
