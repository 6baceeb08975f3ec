package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Promotion struct {
	DTO
	Code        string `gorm:"unique;not null" json:"code"`
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"unique" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	Type          string           `gorm:"not null" json:"type"` // PERCENTAGE, FIXED_AMOUNT, FIXED_PRICE, GIFT
	DiscountValue decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"discountValue"`
	MinOrderValue decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"minOrderValue"`
	MaxDiscount   *decimal.Decimal `gorm:"type:decimal(14,2)" json:"maxDiscount,omitempty"`

	// Tham số cho loại quà tặng (mua X tặng Y)
	BuyQuantity     int  `gorm:"default:0" json:"buyQuantity"`
	GetQuantity     int  `gorm:"default:0" json:"getQuantity"`
	RequireSameItem bool `gorm:"default:false" json:"requireSameItem"`

	// Khung thời gian hiệu lực, nil = không giới hạn
	StartDate *time.Time `gorm:"index" json:"startDate,omitempty"`
	EndDate   *time.Time `gorm:"index" json:"endDate,omitempty"`

	// Giới hạn lượt dùng, nil = không giới hạn
	MaxTotalUsage       *int `json:"maxTotalUsage,omitempty"`
	MaxUsagePerCustomer *int `json:"maxUsagePerCustomer,omitempty"`

	// Phạm vi áp dụng: cờ "tất cả" phủ lên danh sách id tường minh
	ApplyToAllItems      bool `gorm:"default:false" json:"applyToAllItems"`
	ApplyToAllCategories bool `gorm:"default:false" json:"applyToAllCategories"`
	ApplyToAllCombos     bool `gorm:"default:false" json:"applyToAllCombos"`
	ApplyToAllCustomers  bool `gorm:"default:false" json:"applyToAllCustomers"`
	ApplyToWalkIn        bool `gorm:"default:true" json:"applyToWalkIn"`

	Items          []PromotionItem          `gorm:"foreignKey:PromotionID;constraint:OnDelete:CASCADE" json:"items"`
	Categories     []PromotionCategory      `gorm:"foreignKey:PromotionID;constraint:OnDelete:CASCADE" json:"categories"`
	Combos         []PromotionCombo         `gorm:"foreignKey:PromotionID;constraint:OnDelete:CASCADE" json:"combos"`
	Customers      []PromotionCustomer      `gorm:"foreignKey:PromotionID;constraint:OnDelete:CASCADE" json:"customers"`
	CustomerGroups []PromotionCustomerGroup `gorm:"foreignKey:PromotionID;constraint:OnDelete:CASCADE" json:"customerGroups"`
	GiftItems      []PromotionGiftItem      `gorm:"foreignKey:PromotionID;constraint:OnDelete:CASCADE" json:"giftItems"`

	IsActive bool `gorm:"default:true;index" json:"isActive"`
}

type Promotions []Promotion

type PromotionItem struct {
	DTO
	PromotionID uint `gorm:"not null;index" json:"promotionId"`
	MenuItemID  uint `gorm:"not null;index" json:"menuItemId"`
}

type PromotionCategory struct {
	DTO
	PromotionID uint `gorm:"not null;index" json:"promotionId"`
	CategoryID  uint `gorm:"not null;index" json:"categoryId"`
}

type PromotionCombo struct {
	DTO
	PromotionID uint `gorm:"not null;index" json:"promotionId"`
	ComboID     uint `gorm:"not null;index" json:"comboId"`
}

type PromotionCustomer struct {
	DTO
	PromotionID uint `gorm:"not null;index" json:"promotionId"`
	CustomerID  uint `gorm:"not null;index" json:"customerId"`
}

type PromotionCustomerGroup struct {
	DTO
	PromotionID     uint `gorm:"not null;index" json:"promotionId"`
	CustomerGroupID uint `gorm:"not null;index" json:"customerGroupId"`
}

type PromotionGiftItem struct {
	DTO
	PromotionID uint `gorm:"not null;index" json:"promotionId"`
	MenuItemID  uint `gorm:"not null;index" json:"menuItemId"`
}

// PromotionUsage là sổ ghi nhận lượt dùng khuyến mãi, mỗi đơn chỉ một
// dòng cho một khuyến mãi.
type PromotionUsage struct {
	DTO
	PromotionID    uint            `gorm:"not null;index;uniqueIndex:idx_promotion_order" json:"promotionId"`
	OrderID        uint            `gorm:"not null;index;uniqueIndex:idx_promotion_order" json:"orderId"`
	CustomerID     *uint           `gorm:"index" json:"customerId,omitempty"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"discountAmount"`
	AppliedAt      time.Time       `gorm:"not null" json:"appliedAt"`
}

// ===== Input DTOs =====

type ApplyPromotionInput struct {
	PromotionID   uint            `validate:"required" json:"promotionId"`
	SelectedGifts []GiftSelection `validate:"omitempty,dive" json:"selectedGifts"`
}

type CreatePromotionInput struct {
	Code        string `validate:"required" json:"code"`
	Name        string `validate:"required" json:"name"`
	Description string `json:"description"`

	Type          string           `validate:"required,oneof=PERCENTAGE FIXED_AMOUNT FIXED_PRICE GIFT" json:"type"`
	DiscountValue decimal.Decimal  `json:"discountValue"`
	MinOrderValue decimal.Decimal  `json:"minOrderValue"`
	MaxDiscount   *decimal.Decimal `json:"maxDiscount"`

	BuyQuantity     int  `json:"buyQuantity"`
	GetQuantity     int  `json:"getQuantity"`
	RequireSameItem bool `json:"requireSameItem"`

	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`

	MaxTotalUsage       *int `json:"maxTotalUsage"`
	MaxUsagePerCustomer *int `json:"maxUsagePerCustomer"`

	ApplyToAllItems      bool  `json:"applyToAllItems"`
	ApplyToAllCategories bool  `json:"applyToAllCategories"`
	ApplyToAllCombos     bool  `json:"applyToAllCombos"`
	ApplyToAllCustomers  bool  `json:"applyToAllCustomers"`
	ApplyToWalkIn        *bool `json:"applyToWalkIn"` // Bỏ trống = true

	ItemIds          []uint `json:"itemIds"`
	CategoryIds      []uint `json:"categoryIds"`
	ComboIds         []uint `json:"comboIds"`
	CustomerIds      []uint `json:"customerIds"`
	CustomerGroupIds []uint `json:"customerGroupIds"`
	GiftItemIds      []uint `json:"giftItemIds"`
}

type EditPromotionInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`

	DiscountValue *decimal.Decimal `json:"discountValue"`
	MinOrderValue *decimal.Decimal `json:"minOrderValue"`
	MaxDiscount   *decimal.Decimal `json:"maxDiscount"`

	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`

	MaxTotalUsage       *int `json:"maxTotalUsage"`
	MaxUsagePerCustomer *int `json:"maxUsagePerCustomer"`

	IsActive *bool `json:"isActive"`
}
