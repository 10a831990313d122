package models

import (
	"time"
)

// CommissionTransaction 佣金流水表：单次入账的不可变记录，也是逆向回滚的最小单位。
// (order_id, affiliate_id, level) 唯一索引即"该订单已入账"标记，
// 并发重入时由存储层兜底防止重复计佣。
type CommissionTransaction struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                                                 // 主键
	OrderID     uint      `gorm:"not null;index;index:idx_commission_txn_unique,unique" json:"order_id"`                // 订单ID
	AffiliateID uint      `gorm:"not null;index;index:idx_commission_txn_unique,unique" json:"affiliate_id"`            // 收益归属的分销用户ID
	Level       string    `gorm:"type:varchar(10);not null;index:idx_commission_txn_unique,unique" json:"level"`        // 佣金层级（direct/level1/level2/level3）
	Amount      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`                                  // 入账金额
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                                              // 创建时间

	Affiliate Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"` // 分销用户
	Order     Order     `gorm:"foreignKey:OrderID" json:"order,omitempty"`         // 关联订单
}

// TableName 指定表名
func (CommissionTransaction) TableName() string {
	return "commission_transactions"
}
