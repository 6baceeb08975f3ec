package handler

import (
	"encoding/base64"
	"errors"
	"strconv"

	"pos_manager/constants"
	"pos_manager/helper"
	"pos_manager/model"
	"pos_manager/service"
	"pos_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderHandler struct {
	Orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

func paramUint(c *fiber.Ctx, key string) (uint, error) {
	v, err := strconv.Atoi(c.Params(key))
	if err != nil || v < 1 {
		return 0, errors.New("params invalid")
	}
	return uint(v), nil
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	input := c.Locals("inputCreateOrder").(*model.CreateOrderInput)
	claim := helper.GetInfoStaffFromToken(c)

	order, err := h.Orders.Create(input, claim.StaffId)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, order)
}

func (h *OrderHandler) GetById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)

	order, err := h.Orders.GetByID(id)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

// GetByCode tra cứu đơn theo mã công khai, dùng cho QR trên hóa đơn
func (h *OrderHandler) GetByCode(c *fiber.Ctx) error {
	code := c.Params("orderCode")

	var order model.Order
	err := h.Orders.DB.
		Preload("Items").
		Preload("Items.MenuItem").
		Preload("Items.Combo").
		Preload("Customer").
		Preload("Table").
		Where("public_code = ?", code).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn đơn hàng", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

// GetAll liệt kê đơn hàng, lọc theo trạng thái và bàn nếu có
func (h *OrderHandler) GetAll(c *fiber.Ctx) error {
	query := h.Orders.DB.Model(&model.Order{}).
		Preload("Items").
		Preload("Table").
		Preload("Customer").
		Order("created_at desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if tableId := c.QueryInt("tableId"); tableId > 0 {
		query = query.Where("table_id = ?", tableId)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn đơn hàng", err)
	}

	var limit, page *int
	if v := c.QueryInt("limit"); v > 0 {
		limit = &v
	}
	if v := c.QueryInt("page"); v > 0 {
		page = &v
	}

	var orders model.Orders
	if err := utils.ApplyPagination(query, limit, page).Find(&orders).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi truy vấn đơn hàng", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       orders,
		Limit:      limit,
		Page:       page,
		TotalCount: totalCount,
	})
}

func (h *OrderHandler) AddItem(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)
	input := c.Locals("inputAddItem").(*model.AddItemInput)

	order, err := h.Orders.AddItem(id, input)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func (h *OrderHandler) RemoveItem(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)
	itemId, err := paramUint(c, "itemId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, err)
	}

	order, err := h.Orders.RemoveItem(id, itemId)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func (h *OrderHandler) ReduceItem(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)
	itemId, err := paramUint(c, "itemId")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, err)
	}
	input := c.Locals("inputReduceItem").(*model.ReduceItemInput)

	order, err := h.Orders.ReduceItem(id, itemId, input)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	BroadcastOrderUpdate("order.item_reduced", order)
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)

	order, err := h.Orders.Confirm(id)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func (h *OrderHandler) SendToKitchen(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)

	order, err := h.Orders.SendToKitchen(id)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	BroadcastOrderUpdate("order.sent_to_kitchen", order)
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func (h *OrderHandler) UpdateItemStatus(c *fiber.Ctx) error {
	itemId := c.Locals("inputId").(uint)
	input := c.Locals("inputItemStatus").(*model.UpdateItemStatusInput)

	items, err := h.Orders.UpdateItemStatus(itemId, input)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	if len(items) > 0 {
		if order, err := h.Orders.GetByID(items[0].OrderID); err == nil {
			BroadcastOrderUpdate("order.item_status", order)
		}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, items)
}

func (h *OrderHandler) TransferTable(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)
	input := c.Locals("inputTransferTable").(*model.TransferTableInput)

	order, err := h.Orders.TransferTable(id, input)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	BroadcastOrderUpdate("order.transferred", order)
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func (h *OrderHandler) MergeOrders(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)
	input := c.Locals("inputMergeOrders").(*model.MergeOrdersInput)

	order, err := h.Orders.MergeOrders(id, input)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	BroadcastOrderUpdate("order.merged", order)
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func (h *OrderHandler) SplitOrder(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)
	input := c.Locals("inputSplitOrder").(*model.SplitOrderInput)

	source, created, err := h.Orders.SplitOrder(id, input)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	BroadcastOrderUpdate("order.split", created)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"sourceOrder": source,
		"newOrder":    created,
	})
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)
	input := c.Locals("inputCheckout").(*model.CheckoutInput)

	order, err := h.Orders.Checkout(id, input)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	BroadcastOrderUpdate("order.completed", order)

	// QR tra cứu đơn để in lại hóa đơn
	qrBase64 := ""
	if qrBytes, err := utils.GenerateQRCode(order.PublicCode, 400); err == nil {
		qrBase64 = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrBytes)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"order":  order,
		"qrCode": qrBase64,
	})
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id := c.Locals("inputId").(uint)
	input := c.Locals("inputCancelOrder").(*model.CancelOrderInput)

	order, err := h.Orders.Cancel(id, input.Reason)
	if err != nil {
		return utils.ServiceErrorResponse(c, err)
	}
	BroadcastOrderUpdate("order.cancelled", order)
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}
