package helper

import (
	"log"
	"strconv"
	"time"

	"pos_manager/config"
	"pos_manager/constants"
	"pos_manager/model"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

var orderScheduler gocron.Scheduler

func staleOrderAge() time.Duration {
	hours, err := strconv.Atoi(config.ConfigDefault("ORDER_STALE_HOURS", "6"))
	if err != nil || hours < 1 {
		hours = 6
	}
	return time.Duration(hours) * time.Hour
}

// cancelStaleOrders hủy các đơn PENDING bỏ quên chưa gửi bếp
func cancelStaleOrders(db *gorm.DB) {
	log.Println("[CRON] cancelStaleOrders triggered")

	cutoff := time.Now().Add(-staleOrderAge())
	now := time.Now()

	var stale []model.Order
	if err := db.Where("status = ? AND created_at < ?", constants.OrderPending, cutoff).
		Find(&stale).Error; err != nil {
		log.Printf("Lỗi khi quét đơn treo: %v", err)
		return
	}

	for _, order := range stale {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
				"status":        constants.OrderCancelled,
				"cancel_reason": "Tự động hủy đơn treo quá hạn",
				"cancelled_at":  now,
			}).Error; err != nil {
				return err
			}
			return tx.Model(&model.OrderItem{}).
				Where("order_id = ? AND status <> ?", order.ID, constants.ItemCancelled).
				Updates(map[string]interface{}{
					"status":        constants.ItemCancelled,
					"cancel_reason": "Tự động hủy đơn treo",
				}).Error
		})
		if err != nil {
			log.Printf("Lỗi hủy đơn treo %s: %v", order.PublicCode, err)
		} else {
			log.Printf("Đã hủy đơn treo %s", order.PublicCode)
		}
	}
}

// StartOrderScheduler quét đơn treo mỗi 30 phút theo giờ Việt Nam
func StartOrderScheduler(db *gorm.DB) {
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.FixedZone("ICT", 7*3600)),
	)
	if err != nil {
		log.Fatal(err)
	}

	orderScheduler = s

	_, err = s.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(func() { cancelStaleOrders(db) }),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("✅ Order cleanup scheduler started (30 phút/lần)")
}

func StopOrderScheduler() {
	if orderScheduler != nil {
		_ = orderScheduler.Shutdown()
		log.Println("Scheduler đơn treo đã dừng")
	}
}
