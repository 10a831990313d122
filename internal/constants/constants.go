package constants

// 订单状态常量
const (
	OrderStatusCreated             = "created"
	OrderStatusPendingVerification = "pending_verification"
	OrderStatusPaymentConfirmed    = "payment_confirmed"
	OrderStatusParcelPrepared      = "parcel_prepared"
	OrderStatusShipping            = "shipping"
	OrderStatusDelivered           = "delivered"
	OrderStatusCanceled            = "canceled"
)

// 发货单状态常量（与订单状态级联）
const (
	ShipmentStatusCreated          = "created"
	ShipmentStatusPaymentConfirmed = "payment_confirmed"
	ShipmentStatusParcelPrepared   = "parcel_prepared"
	ShipmentStatusShipping         = "shipping"
	ShipmentStatusDelivered        = "delivered"
	ShipmentStatusCanceled         = "canceled"
)

// 佣金层级常量
const (
	CommissionLevelDirect = "direct"
	CommissionLevelOne    = "level1"
	CommissionLevelTwo    = "level2"
	CommissionLevelThree  = "level3"
)

// 分销用户状态常量
const (
	AffiliateStatusActive   = "active"
	AffiliateStatusDisabled = "disabled"
)

// 二叉树占位常量
const (
	TreePositionLeft  = "left"
	TreePositionRight = "right"
)

// 供应商状态常量
const (
	VendorStatusActive   = "active"
	VendorStatusDisabled = "disabled"
)

// PlatformVendorID 平台自营商品的隐式供应商
const PlatformVendorID uint = 0

// 队列与任务常量
const (
	QueueDefault          = "default"
	TaskOrderStatusNotify = "order:status_notify"
)
