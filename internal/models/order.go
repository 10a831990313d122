package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo      string         `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	Status       string         `gorm:"index;not null" json:"status"`                              // 订单状态
	ReferralCode string         `gorm:"index" json:"referral_code,omitempty"`                      // 下单归因的分销码
	Currency     string         `gorm:"not null;default:'CNY'" json:"currency"`                    // 币种
	TotalAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单总额
	PaidAt       *time.Time     `gorm:"index" json:"paid_at"`                                      // 支付确认时间
	DeliveredAt  *time.Time     `gorm:"index" json:"delivered_at"`                                 // 送达时间
	CanceledAt   *time.Time     `gorm:"index" json:"canceled_at"`                                  // 取消时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`     // 订单项
	Shipments []Shipment  `gorm:"foreignKey:OrderID" json:"shipments,omitempty"` // 按供应商拆分的发货单
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
