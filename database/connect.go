package database

import (
	"fmt"
	"strconv"

	"pos_manager/config"
	"pos_manager/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	p := config.Config("DB_PORT")
	port, err := strconv.ParseUint(p, 10, 32)

	if err != nil {
		panic("failed to parse database port")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", config.Config("DB_HOST"), port, config.Config("DB_USER"), config.Config("DB_PASSWORD"), config.Config("DB_NAME"))
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})

	if err != nil {
		panic("failed to connect database")
	}

	fmt.Println("Connection Opened to Database")
	Migrate(DB)
	fmt.Println("Database Migrated")

	// khởi tạo dữ liệu
	SeedData(DB)
}

// Migrate tạo/cập nhật schema theo đúng thứ tự phụ thuộc giữa các bảng
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.CustomerGroup{},
		&model.Customer{},
		&model.DiningTable{},
		&model.Category{},
		&model.Ingredient{},
		&model.MenuItem{},
		&model.RecipeItem{},
		&model.Combo{},
		&model.ComboItem{},
		&model.Promotion{},
		&model.PromotionItem{},
		&model.PromotionCategory{},
		&model.PromotionCombo{},
		&model.PromotionCustomer{},
		&model.PromotionCustomerGroup{},
		&model.PromotionGiftItem{},
		&model.PromotionUsage{},
		&model.Order{},
		&model.OrderItem{},
	)
}
