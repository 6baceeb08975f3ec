package helper

import (
	"pos_manager/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// GetInfoStaffFromToken đọc claim nhân viên từ token đã qua middleware
func GetInfoStaffFromToken(c *fiber.Ctx) model.TokenClaim {
	claim := model.TokenClaim{}

	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return claim
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return claim
	}

	if v, ok := claims["staffId"].(float64); ok {
		claim.StaffId = uint(v)
	}
	if v, ok := claims["username"].(string); ok {
		claim.Username = v
	}
	if v, ok := claims["role"].(string); ok {
		claim.Role = v
	}
	return claim
}
