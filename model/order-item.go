package model

import "github.com/shopspring/decimal"

// OrderItem là một dòng món trong đơn. Topping cũng là một OrderItem
// với ParentItemID trỏ về món chính.
type OrderItem struct {
	DTO
	OrderID uint `gorm:"not null;index" json:"orderId"`

	// Đúng một trong hai: món lẻ hoặc combo
	MenuItemID *uint     `gorm:"index" json:"menuItemId,omitempty"`
	MenuItem   *MenuItem `json:"menuItem,omitempty"`
	ComboID    *uint     `gorm:"index" json:"comboId,omitempty"`
	Combo      *Combo    `json:"combo,omitempty"`

	Quantity         int             `gorm:"not null" json:"quantity"`
	OriginalQuantity int             `gorm:"not null" json:"originalQuantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unitPrice"` // Chốt giá tại thời điểm thêm món
	LineTotal        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"lineTotal"`

	Customization string `gorm:"type:text" json:"customization"`
	Notes         string `json:"notes"`

	Status       string `gorm:"not null;default:'PENDING';index" json:"status"`
	CancelReason string `json:"cancelReason,omitempty"`

	ParentItemID *uint      `gorm:"index" json:"parentItemId,omitempty"`
	ParentItem   *OrderItem `gorm:"foreignKey:ParentItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"parentItem,omitempty"`

	IsGift bool `gorm:"default:false" json:"isGift"` // Dòng quà tặng từ khuyến mãi
}

type OrderItems []OrderItem
