package models

import (
	"time"

	"gorm.io/gorm"
)

// Vendor 供应商表：单层收益账户，无多级分佣
type Vendor struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	Name           string         `gorm:"not null" json:"name"`                                         // 名称
	Status         string         `gorm:"type:varchar(20);not null;index" json:"status"`                // 状态
	TotalEarnings  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_earnings"`  // 收益总计
	PendingBalance Money          `gorm:"type:decimal(20,2);not null;default:0" json:"pending_balance"` // 待结算余额
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                   // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间
}

// TableName 指定表名
func (Vendor) TableName() string {
	return "vendors"
}
