package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	DTO
	PublicCode     string          `gorm:"unique;size:20" json:"publicCode"` // Mã đơn công khai (ORD-XXXXXX)
	TableID        *uint           `gorm:"index" json:"tableId,omitempty"`   // Null nếu mang về
	Table          *DiningTable    `json:"table,omitempty"`
	OrderType      string          `gorm:"not null" json:"orderType"` // DINE_IN, TAKEAWAY
	Status         string          `gorm:"not null;default:'PENDING';index" json:"status"`
	PaymentStatus  string          `gorm:"not null;default:'UNPAID'" json:"paymentStatus"`
	PaymentMethod  string          `json:"paymentMethod"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"discountAmount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"totalAmount"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"paidAmount"`

	AppliedPromotionID *uint      `gorm:"index" json:"appliedPromotionId,omitempty"`
	AppliedPromotion   *Promotion `json:"appliedPromotion,omitempty"`

	CustomerID *uint     `gorm:"index" json:"customerId,omitempty"` // Null nếu khách vãng lai
	Customer   *Customer `json:"customer,omitempty"`

	Notes        string `gorm:"type:text" json:"notes"`
	CancelReason string `json:"cancelReason,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	SentToKitchenAt *time.Time `json:"sentToKitchenAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`

	CreatedBy uint `json:"createdBy"`
}

type Orders []Order

// ===== Input DTOs =====

type OrderItemSpec struct {
	MenuItemID    *uint           `json:"menuItemId"`
	ComboID       *uint           `json:"comboId"`
	Quantity      int             `validate:"required,min=1" json:"quantity"`
	Customization string          `json:"customization"`
	Notes         string          `json:"notes"`
	Toppings      []OrderItemSpec `json:"toppings"`
}

type CreateOrderInput struct {
	TableID    *uint           `json:"tableId"`
	OrderType  string          `validate:"required,oneof=DINE_IN TAKEAWAY" json:"orderType"`
	Items      []OrderItemSpec `validate:"required,min=1,dive" json:"items"`
	CustomerID *uint           `json:"customerId"`
	Notes      string          `json:"notes"`
}

type AddItemInput struct {
	Item OrderItemSpec `validate:"required" json:"item"`
}

type ReduceItemInput struct {
	Quantity *int   `validate:"omitempty,min=1" json:"quantity"` // Bỏ trống = hủy toàn bộ phần còn lại
	Reason   string `validate:"required" json:"reason"`
}

type UpdateItemStatusInput struct {
	Status string `validate:"required,oneof=PENDING PREPARING READY SERVED" json:"status"`
	All    bool   `json:"all"` // Cập nhật mọi dòng cùng món trong đơn
}

type TransferTableInput struct {
	NewTableID uint `validate:"required" json:"newTableId"`
}

type MergeOrdersInput struct {
	SourceOrderID uint `validate:"required" json:"sourceOrderId"`
}

type SplitItemSpec struct {
	OrderItemID uint `validate:"required" json:"orderItemId"`
	Quantity    int  `validate:"required,min=1" json:"quantity"`
}

type SplitOrderInput struct {
	NewTableID uint            `validate:"required" json:"newTableId"`
	Items      []SplitItemSpec `validate:"required,min=1,dive" json:"items"`
}

type GiftSelection struct {
	MenuItemID uint `validate:"required" json:"menuItemId"`
	Quantity   int  `validate:"required,min=1" json:"quantity"`
}

type CheckoutInput struct {
	PaymentMethod string          `validate:"required,oneof=CASH CARD TRANSFER MOMO" json:"paymentMethod"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PromotionID   *uint           `json:"promotionId"`
	SelectedGifts []GiftSelection `validate:"omitempty,dive" json:"selectedGifts"`
}

type CancelOrderInput struct {
	Reason string `validate:"required" json:"reason"`
}
