package database

import (
	"log"
	"time"

	"pos_manager/constants"
	"pos_manager/model"
	"pos_manager/utils"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedPrice(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func SeedData(db *gorm.DB) {
	tables := []model.DiningTable{
		{Name: "Bàn 1", Area: "Tầng trệt", Capacity: 4, IsActive: true},
		{Name: "Bàn 2", Area: "Tầng trệt", Capacity: 4, IsActive: true},
		{Name: "Bàn 3", Area: "Tầng trệt", Capacity: 2, IsActive: true},
		{Name: "Bàn 4", Area: "Tầng 1", Capacity: 6, IsActive: true},
		{Name: "Bàn 5", Area: "Tầng 1", Capacity: 8, IsActive: true},
		{Name: "Bàn sân vườn 1", Area: "Sân vườn", Capacity: 4, IsActive: true},
	}
	for _, table := range tables {
		if err := db.Where(model.DiningTable{Name: table.Name}).FirstOrCreate(&table).Error; err != nil {
			log.Println("failed to seed table:", table.Name, "error:", err)
		}
	}

	groups := []model.CustomerGroup{
		{Name: "Thành viên", Description: "Khách đăng ký thành viên"},
		{Name: "VIP", Description: "Khách chi tiêu trên 5 triệu/tháng"},
	}
	for _, group := range groups {
		if err := db.Where(model.CustomerGroup{Name: group.Name}).FirstOrCreate(&group).Error; err != nil {
			log.Println("failed to seed customer group:", group.Name, "error:", err)
		}
	}

	categories := []model.Category{
		{Name: "Cà phê", IsActive: true},
		{Name: "Trà sữa", IsActive: true},
		{Name: "Đồ ăn vặt", IsActive: true},
		{Name: "Topping", IsActive: true},
	}
	for _, cat := range categories {
		cat.Slug = slug.Make(cat.Name)
		if err := db.Where(model.Category{Name: cat.Name}).FirstOrCreate(&cat).Error; err != nil {
			log.Println("failed to seed category:", cat.Name, "error:", err)
		}
	}

	ingredients := []model.Ingredient{
		{Name: "Cà phê rang xay", Unit: "g", Stock: decimal.NewFromInt(5000)},
		{Name: "Sữa đặc", Unit: "ml", Stock: decimal.NewFromInt(10000)},
		{Name: "Trà đen", Unit: "g", Stock: decimal.NewFromInt(3000)},
		{Name: "Sữa tươi", Unit: "ml", Stock: decimal.NewFromInt(20000)},
		{Name: "Đường", Unit: "g", Stock: decimal.NewFromInt(8000)},
	}
	for _, ing := range ingredients {
		if err := db.Where(model.Ingredient{Name: ing.Name}).FirstOrCreate(&ing).Error; err != nil {
			log.Println("failed to seed ingredient:", ing.Name, "error:", err)
		}
	}

	var catCafe, catTraSua, catAnVat, catTopping model.Category
	db.Where("name = ?", "Cà phê").First(&catCafe)
	db.Where("name = ?", "Trà sữa").First(&catTraSua)
	db.Where("name = ?", "Đồ ăn vặt").First(&catAnVat)
	db.Where("name = ?", "Topping").First(&catTopping)

	menuItems := []model.MenuItem{
		{Name: "Cà phê sữa đá", CategoryID: catCafe.ID, SellingPrice: seedPrice(29000), IsComposite: true, IsSellable: true},
		{Name: "Cà phê đen", CategoryID: catCafe.ID, SellingPrice: seedPrice(25000), IsComposite: true, IsSellable: true},
		{Name: "Trà sữa truyền thống", CategoryID: catTraSua.ID, SellingPrice: seedPrice(35000), IsComposite: true, IsSellable: true},
		{Name: "Bánh tráng trộn", CategoryID: catAnVat.ID, SellingPrice: seedPrice(20000), Stock: decimal.NewFromInt(50), IsSellable: true},
		{Name: "Khô gà lá chanh", CategoryID: catAnVat.ID, SellingPrice: seedPrice(30000), Stock: decimal.NewFromInt(30), IsSellable: true},
		{Name: "Trân châu đen", CategoryID: catTopping.ID, SellingPrice: seedPrice(5000), Stock: decimal.NewFromInt(200), IsSellable: true},
		{Name: "Pudding trứng", CategoryID: catTopping.ID, SellingPrice: seedPrice(8000), Stock: decimal.NewFromInt(100), IsSellable: true},
	}
	for _, item := range menuItems {
		item.Slug = slug.Make(item.Name)
		if err := db.Where(model.MenuItem{Name: item.Name}).FirstOrCreate(&item).Error; err != nil {
			log.Println("failed to seed menu item:", item.Name, "error:", err)
		}
	}

	// Công thức cho món pha chế
	var cfSuaDa, traSua model.MenuItem
	var ingCafe, ingSuaDac, ingTraDen, ingSuaTuoi model.Ingredient
	db.Where("name = ?", "Cà phê sữa đá").First(&cfSuaDa)
	db.Where("name = ?", "Trà sữa truyền thống").First(&traSua)
	db.Where("name = ?", "Cà phê rang xay").First(&ingCafe)
	db.Where("name = ?", "Sữa đặc").First(&ingSuaDac)
	db.Where("name = ?", "Trà đen").First(&ingTraDen)
	db.Where("name = ?", "Sữa tươi").First(&ingSuaTuoi)

	recipes := []model.RecipeItem{
		{MenuItemID: cfSuaDa.ID, IngredientID: ingCafe.ID, Quantity: decimal.NewFromInt(25)},
		{MenuItemID: cfSuaDa.ID, IngredientID: ingSuaDac.ID, Quantity: decimal.NewFromInt(30)},
		{MenuItemID: traSua.ID, IngredientID: ingTraDen.ID, Quantity: decimal.NewFromInt(10)},
		{MenuItemID: traSua.ID, IngredientID: ingSuaTuoi.ID, Quantity: decimal.NewFromInt(150)},
	}
	for _, r := range recipes {
		if r.MenuItemID == 0 || r.IngredientID == 0 {
			continue
		}
		if err := db.Where(model.RecipeItem{MenuItemID: r.MenuItemID, IngredientID: r.IngredientID}).
			FirstOrCreate(&r).Error; err != nil {
			log.Println("failed to seed recipe:", r.MenuItemID, "error:", err)
		}
	}

	// Combo ăn vặt + nước
	var banhTrang model.MenuItem
	db.Where("name = ?", "Bánh tráng trộn").First(&banhTrang)
	if cfSuaDa.ID > 0 && banhTrang.ID > 0 {
		combo := model.Combo{
			Name:       "Combo chiều",
			Slug:       slug.Make("Combo chiều"),
			Price:      seedPrice(45000),
			IsSellable: true,
		}
		if err := db.Where(model.Combo{Name: combo.Name}).FirstOrCreate(&combo).Error; err != nil {
			log.Println("failed to seed combo:", combo.Name, "error:", err)
		} else {
			items := []model.ComboItem{
				{ComboID: combo.ID, MenuItemID: cfSuaDa.ID, Quantity: 1},
				{ComboID: combo.ID, MenuItemID: banhTrang.ID, Quantity: 1},
			}
			for _, ci := range items {
				if err := db.Where(model.ComboItem{ComboID: ci.ComboID, MenuItemID: ci.MenuItemID}).
					FirstOrCreate(&ci).Error; err != nil {
					log.Println("failed to seed combo item:", ci.MenuItemID, "error:", err)
				}
			}
		}
	}

	// Khuyến mãi mẫu, mỗi loại một chương trình
	start := time.Now().AddDate(0, -1, 0)
	end := time.Now().AddDate(0, 3, 0)
	promotions := []model.Promotion{
		{
			Code: "GIAM10", Name: "Giảm 10% toàn thực đơn",
			Type: constants.PromotionPercentage, DiscountValue: seedPrice(10),
			MinOrderValue: seedPrice(50000), MaxDiscount: utils.Ptr(seedPrice(30000)),
			StartDate: &start, EndDate: &end,
			ApplyToAllItems: true, ApplyToAllCombos: true, ApplyToWalkIn: true, IsActive: true,
		},
		{
			Code: "TRU20K", Name: "Giảm 20.000đ cho đơn từ 100.000đ",
			Type: constants.PromotionFixedAmount, DiscountValue: seedPrice(20000),
			MinOrderValue: seedPrice(100000),
			StartDate:     &start, EndDate: &end,
			ApplyToAllItems: true, ApplyToWalkIn: true, IsActive: true,
		},
		{
			Code: "DONGGIA25", Name: "Đồng giá cà phê 25.000đ",
			Type: constants.PromotionFixedPrice, DiscountValue: seedPrice(25000),
			MinOrderValue: decimal.Zero,
			StartDate:     &start, EndDate: &end,
			ApplyToAllCategories: true, ApplyToWalkIn: true, IsActive: true,
		},
		{
			Code: "MUA2TANG1", Name: "Mua 2 tặng 1 trà sữa",
			Type: constants.PromotionGift, DiscountValue: decimal.Zero,
			MinOrderValue: decimal.Zero,
			BuyQuantity:   2, GetQuantity: 1, RequireSameItem: true,
			StartDate: &start, EndDate: &end,
			ApplyToAllItems: true, ApplyToWalkIn: true, IsActive: true,
		},
	}
	for _, promo := range promotions {
		promo.Slug = slug.Make(promo.Name)
		if err := db.Where(model.Promotion{Code: promo.Code}).FirstOrCreate(&promo).Error; err != nil {
			log.Println("failed to seed promotion:", promo.Code, "error:", err)
			continue
		}
		if promo.Type == constants.PromotionGift && traSua.ID > 0 {
			gift := model.PromotionGiftItem{PromotionID: promo.ID, MenuItemID: traSua.ID}
			if err := db.Where(model.PromotionGiftItem{PromotionID: promo.ID, MenuItemID: traSua.ID}).
				FirstOrCreate(&gift).Error; err != nil {
				log.Println("failed to seed gift item:", promo.Code, "error:", err)
			}
		}
	}
}
