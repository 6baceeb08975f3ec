package model

import "github.com/shopspring/decimal"

type Category struct {
	DTO
	Name     string `gorm:"not null" json:"name"`
	Slug     string `gorm:"unique" json:"slug"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

// MenuItem là món bán được. Món pha chế (IsComposite) trừ kho theo công
// thức nguyên liệu, món bán sẵn trừ thẳng Stock của chính nó.
type MenuItem struct {
	DTO
	Name         string          `gorm:"not null" json:"name"`
	Slug         string          `gorm:"unique" json:"slug"`
	CategoryID   uint            `gorm:"not null;index" json:"categoryId"`
	Category     Category        `json:"category"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"sellingPrice"`
	IsComposite  bool            `gorm:"default:false" json:"isComposite"`
	Stock        decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0" json:"stock"`
	IsSellable   bool            `gorm:"default:true" json:"isSellable"`

	Recipe []RecipeItem `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
}

type MenuItems []MenuItem

type Combo struct {
	DTO
	Name       string          `gorm:"not null" json:"name"`
	Slug       string          `gorm:"unique" json:"slug"`
	Price      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price"`
	IsSellable bool            `gorm:"default:true" json:"isSellable"`

	Items []ComboItem `gorm:"foreignKey:ComboID;constraint:OnDelete:CASCADE" json:"items"`
}

type ComboItem struct {
	DTO
	ComboID    uint     `gorm:"not null;index" json:"comboId"`
	MenuItemID uint     `gorm:"not null;index" json:"menuItemId"`
	MenuItem   MenuItem `json:"menuItem"`
	Quantity   int      `gorm:"not null;default:1" json:"quantity"`
}
