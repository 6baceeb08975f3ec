package helper

import (
	"log"
	"time"

	"pos_manager/model"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var promotionScheduler *cron.Cron

// StartPromotionScheduler tắt các khuyến mãi đã qua ngày kết thúc
func StartPromotionScheduler(db *gorm.DB) {
	promotionScheduler = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	// Chạy mỗi 5 phút (không cần mỗi phút)
	_, err := promotionScheduler.AddFunc("*/5 * * * *", func() {
		deactivateExpiredPromotions(db)
	})
	if err != nil {
		log.Printf("Lỗi khởi tạo scheduler khuyến mãi: %v", err)
		return
	}

	promotionScheduler.Start()
	log.Println("Scheduler khuyến mãi đã khởi động (mỗi 5 phút)")
}

func deactivateExpiredPromotions(db *gorm.DB) {
	now := time.Now()
	result := db.Model(&model.Promotion{}).
		Where("is_active IS true AND end_date IS NOT NULL AND end_date < ?", now).
		Update("is_active", false)

	if result.Error != nil {
		log.Printf("Lỗi tắt khuyến mãi hết hạn: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Đã tắt %d khuyến mãi hết hạn", result.RowsAffected)
	}
}

// StopPromotionScheduler dừng scheduler khi tắt server
func StopPromotionScheduler() {
	if promotionScheduler != nil {
		promotionScheduler.Stop()
		log.Println("Scheduler khuyến mãi đã dừng")
	}
}
