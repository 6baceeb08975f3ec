package constants

// Trạng thái đơn hàng
const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderPreparing = "PREPARING"
	OrderReady     = "READY"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
)

// Trạng thái thanh toán
const (
	PaymentUnpaid   = "UNPAID"
	PaymentPartial  = "PARTIAL"
	PaymentPaid     = "PAID"
	PaymentRefunded = "REFUNDED"
)

// Trạng thái món trong đơn
const (
	ItemPending   = "PENDING"
	ItemPreparing = "PREPARING"
	ItemReady     = "READY"
	ItemServed    = "SERVED"
	ItemCancelled = "CANCELLED"
)

// Loại đơn hàng
const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeTakeaway = "TAKEAWAY"
)

// Phương thức thanh toán
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodMomo     = "MOMO"
)

// Loại khuyến mãi
const (
	PromotionPercentage  = "PERCENTAGE"
	PromotionFixedAmount = "FIXED_AMOUNT"
	PromotionFixedPrice  = "FIXED_PRICE" // Đồng giá
	PromotionGift        = "GIFT"        // Mua X tặng Y
)

// Trạng thái bàn
const (
	TableAvailable = "AVAILABLE"
	TableOccupied  = "OCCUPIED"
	TableInactive  = "INACTIVE"
)

// Thông báo dùng chung
const (
	ERROR_INPUT              = "Dữ liệu đầu vào không hợp lệ"
	DATA_INPUT_IS_NOT_NUMBER = "Tham số phải là số"
	NOT_PERMISSION           = "Bạn không có quyền thực hiện thao tác này"

	ORDER_NOT_FOUND      = "Đơn hàng không tồn tại"
	ORDER_ITEM_NOT_FOUND = "Món không tồn tại trong đơn hàng"
	PROMOTION_NOT_FOUND  = "Chương trình khuyến mãi không tồn tại"
	TABLE_NOT_FOUND      = "Bàn không tồn tại"
	MENU_ITEM_NOT_FOUND  = "Món không tồn tại hoặc đã ngừng bán"
	COMBO_NOT_FOUND      = "Combo không tồn tại hoặc đã ngừng bán"
	CUSTOMER_NOT_FOUND   = "Khách hàng không tồn tại"
)
