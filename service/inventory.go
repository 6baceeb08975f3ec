package service

import (
	"errors"
	"fmt"

	"pos_manager/constants"
	"pos_manager/errs"
	"pos_manager/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryService là cổng đọc kho cho máy tính giá và cổng trừ kho
// duy nhất tại thời điểm thanh toán.
type InventoryService struct {
	DB *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{DB: db}
}

// GetSellable trả về món đang bán, chưa xóa
func (s *InventoryService) GetSellable(menuItemID uint) (*model.MenuItem, error) {
	var item model.MenuItem
	err := s.DB.Where("id = ? AND deleted_at IS NULL AND is_sellable IS true", menuItemID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound(constants.MENU_ITEM_NOT_FOUND)
		}
		return nil, err
	}
	return &item, nil
}

// GetCombo trả về combo đang bán kèm các món thành phần
func (s *InventoryService) GetCombo(comboID uint) (*model.Combo, error) {
	var combo model.Combo
	err := s.DB.Preload("Items").Preload("Items.MenuItem").
		Where("id = ? AND deleted_at IS NULL AND is_sellable IS true", comboID).
		First(&combo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound(constants.COMBO_NOT_FOUND)
		}
		return nil, err
	}
	return &combo, nil
}

// GetRecipe trả về công thức nguyên liệu của món pha chế
func (s *InventoryService) GetRecipe(menuItemID uint) ([]model.RecipeItem, error) {
	var recipe []model.RecipeItem
	err := s.DB.Preload("Ingredient").
		Where("menu_item_id = ?", menuItemID).
		Find(&recipe).Error
	return recipe, err
}

// decrementMenuItemStock trừ kho món bán sẵn, chặn âm kho bằng điều kiện
// stock >= qty ngay trong câu UPDATE. Không trừ được là lỗi xung đột.
func decrementMenuItemStock(tx *gorm.DB, item *model.MenuItem, qty decimal.Decimal) error {
	result := tx.Model(&model.MenuItem{}).
		Where("id = ? AND stock >= ?", item.ID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.Conflictf("Món '%s' không đủ tồn kho", item.Name)
	}
	return nil
}

func decrementIngredientStock(tx *gorm.DB, ing *model.Ingredient, qty decimal.Decimal) error {
	result := tx.Model(&model.Ingredient{}).
		Where("id = ? AND stock >= ?", ing.ID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.Conflictf("Nguyên liệu '%s' không đủ tồn kho", ing.Name)
	}
	return nil
}

// deductMenuItem trừ kho cho một món với số lượng qty: món pha chế trừ
// nguyên liệu theo công thức, món bán sẵn trừ thẳng tồn của món.
func deductMenuItem(tx *gorm.DB, menuItemID uint, qty int) error {
	var item model.MenuItem
	if err := tx.Preload("Recipe").Preload("Recipe.Ingredient").
		First(&item, menuItemID).Error; err != nil {
		return fmt.Errorf("không đọc được món %d: %w", menuItemID, err)
	}

	quantity := decimal.NewFromInt(int64(qty))
	if !item.IsComposite {
		return decrementMenuItemStock(tx, &item, quantity)
	}

	for _, line := range item.Recipe {
		need := line.Quantity.Mul(quantity)
		if err := decrementIngredientStock(tx, &line.Ingredient, need); err != nil {
			return err
		}
	}
	return nil
}

// DeductForOrder trừ kho toàn bộ món chưa hủy của đơn, chạy bên trong
// transaction thanh toán. Bất kỳ dòng nào thiếu kho sẽ rollback cả đơn.
func (s *InventoryService) DeductForOrder(tx *gorm.DB, items []model.OrderItem) error {
	for _, it := range items {
		if it.Status == constants.ItemCancelled || it.Quantity <= 0 {
			continue
		}

		switch {
		case it.MenuItemID != nil:
			if err := deductMenuItem(tx, *it.MenuItemID, it.Quantity); err != nil {
				return err
			}
		case it.ComboID != nil:
			var comboItems []model.ComboItem
			if err := tx.Where("combo_id = ?", *it.ComboID).Find(&comboItems).Error; err != nil {
				return err
			}
			for _, ci := range comboItems {
				if err := deductMenuItem(tx, ci.MenuItemID, ci.Quantity*it.Quantity); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
