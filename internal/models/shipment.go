package models

import (
	"time"

	"gorm.io/gorm"
)

// Shipment 发货单表：一个订单按供应商拆分出的履约单元
type Shipment struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                                // 主键
	OrderID    uint           `gorm:"not null;index;index:idx_shipment_order_vendor,unique" json:"order_id"` // 订单ID
	VendorID   uint           `gorm:"not null;index;index:idx_shipment_order_vendor,unique" json:"vendor_id"` // 供应商ID（0 表示平台自营）
	Status     string         `gorm:"index;not null" json:"status"`                                        // 发货单状态（随订单级联）
	CarrierName string        `gorm:"type:varchar(64)" json:"carrier_name,omitempty"`                      // 承运商名称
	TrackingNo string         `gorm:"type:varchar(64);index" json:"tracking_no,omitempty"`                 // 运单号
	DeliveredAt *time.Time    `gorm:"index" json:"delivered_at,omitempty"`                                 // 送达时间
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                             // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                                          // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                                      // 软删除时间

	Items []OrderItem `gorm:"foreignKey:ShipmentID" json:"items,omitempty"` // 本发货单覆盖的订单项
}

// TableName 指定表名
func (Shipment) TableName() string {
	return "shipments"
}
