package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"

	"pos_manager/config"
	"pos_manager/model"

	"github.com/gofiber/contrib/websocket"
	"github.com/redis/go-redis/v9"
)

const kitchenChannel = "kitchen:orders"

var (
	redisClient *redis.Client
	redisOnce   sync.Once

	clients = make(map[string]map[*websocket.Conn]bool)
	mu      sync.Mutex
)

func getRedis() *redis.Client {
	redisOnce.Do(func() {
		redisClient = redis.NewClient(&redis.Options{
			Addr: config.ConfigDefault("REDIS_ADDR", "localhost:6379"),
		})
	})
	return redisClient
}

func tableChannel(tableID uint) string {
	return fmt.Sprintf("table:%d", tableID)
}

// serveRoom giữ kết nối trong một room và chuyển tiếp message từ Redis
func serveRoom(c *websocket.Conn, room string) {
	// Khi WS disconnect → xoá client
	defer func() {
		mu.Lock()
		if clients[room] != nil {
			delete(clients[room], c)
		}
		mu.Unlock()
		c.Close()
	}()

	// Thêm client mới vào room
	mu.Lock()
	if clients[room] == nil {
		clients[room] = make(map[*websocket.Conn]bool)
	}
	clients[room][c] = true
	mu.Unlock()

	// Sub kênh Redis
	pubsub := getRedis().Subscribe(context.Background(), room)
	defer pubsub.Close()

	// Lắng nghe message từ Redis
	channel := pubsub.Channel()

	for msg := range channel {
		payload := []byte(msg.Payload)

		mu.Lock()
		for conn := range clients[room] {
			// Nếu client lỗi → xoá
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(clients[room], conn)
			}
		}
		mu.Unlock()
	}
}

// WebSocketKitchen đẩy mọi cập nhật đơn cho màn hình bếp
func WebSocketKitchen(c *websocket.Conn) {
	serveRoom(c, kitchenChannel)
}

// WebSocketTable đẩy cập nhật của riêng một bàn cho màn hình tại bàn
func WebSocketTable(c *websocket.Conn) {
	id64, _ := strconv.ParseUint(c.Params("tableId"), 10, 64)
	serveRoom(c, tableChannel(uint(id64)))
}

// BroadcastOrderUpdate đẩy trạng thái mới của đơn lên màn hình bếp và
// màn hình bàn của đơn đó.
func BroadcastOrderUpdate(event string, order *model.Order) {
	if order == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"event": event,
		"order": order,
	})
	if err != nil {
		log.Printf("Lỗi đóng gói sự kiện bếp: %v", err)
		return
	}

	ctx := context.Background()
	if err := getRedis().Publish(ctx, kitchenChannel, payload).Err(); err != nil {
		log.Printf("Lỗi publish sự kiện bếp: %v", err)
	}
	if order.TableID != nil {
		if err := getRedis().Publish(ctx, tableChannel(*order.TableID), payload).Err(); err != nil {
			log.Printf("Lỗi publish sự kiện bàn: %v", err)
		}
	}
}
