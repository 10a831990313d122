package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate 分销用户表：二叉树安置 + 四级收益计数 + 双余额
//
// 约束：TotalEarnings == DirectEarnings+Level1+Level2+Level3；
// PendingBalance+AvailableBalance <= TotalEarnings。
// 余额字段只允许通过仓储层的相对增量更新（见 AffiliateRepository）。
type Affiliate struct {
	ID           uint   `gorm:"primarykey" json:"id"`                                                    // 主键
	Name         string `gorm:"not null" json:"name"`                                                    // 名称
	Email        string `gorm:"index" json:"email,omitempty"`                                            // 邮箱
	ReferralCode string `gorm:"type:varchar(32);not null;uniqueIndex" json:"referral_code"`              // 分销码
	Status       string `gorm:"type:varchar(20);not null;index" json:"status"`                           // 状态
	ParentID     *uint  `gorm:"index;index:idx_affiliate_placement,unique" json:"parent_id,omitempty"`   // 二叉树父节点
	Position     string `gorm:"type:varchar(10);index:idx_affiliate_placement,unique" json:"position"`   // 占位（left/right）

	DirectEarnings Money `gorm:"type:decimal(20,2);not null;default:0" json:"direct_earnings"` // 直推收益累计
	Level1Earnings Money `gorm:"type:decimal(20,2);not null;default:0" json:"level1_earnings"` // 一级上线收益累计
	Level2Earnings Money `gorm:"type:decimal(20,2);not null;default:0" json:"level2_earnings"` // 二级上线收益累计
	Level3Earnings Money `gorm:"type:decimal(20,2);not null;default:0" json:"level3_earnings"` // 三级上线收益累计
	TotalEarnings  Money `gorm:"type:decimal(20,2);not null;default:0" json:"total_earnings"`  // 收益总计

	PendingBalance   Money `gorm:"type:decimal(20,2);not null;default:0" json:"pending_balance"`   // 待确认余额
	AvailableBalance Money `gorm:"type:decimal(20,2);not null;default:0" json:"available_balance"` // 可提现余额

	OrderCount  int64 `gorm:"not null;default:0" json:"order_count"`                       // 有效推广订单数
	SalesAmount Money `gorm:"type:decimal(20,2);not null;default:0" json:"sales_amount"` // 有效推广销售额

	CreatedAt time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`              // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间
}

// TableName 指定表名
func (Affiliate) TableName() string {
	return "affiliates"
}
