package model

import "github.com/shopspring/decimal"

type Ingredient struct {
	DTO
	Name  string          `gorm:"not null" json:"name"`
	Unit  string          `gorm:"not null" json:"unit"` // gram, ml, cái...
	Stock decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0" json:"stock"`
}

// RecipeItem là một dòng công thức: món pha chế cần bao nhiêu nguyên liệu
// cho một đơn vị món.
type RecipeItem struct {
	DTO
	MenuItemID   uint            `gorm:"not null;index" json:"menuItemId"`
	IngredientID uint            `gorm:"not null;index" json:"ingredientId"`
	Ingredient   Ingredient      `json:"ingredient"`
	Quantity     decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"quantity"`
}
