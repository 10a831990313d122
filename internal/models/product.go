package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                           // 主键
	VendorID         uint           `gorm:"index;not null;default:0" json:"vendor_id"`                      // 履约供应商ID（0 表示平台自营）
	Title            string         `gorm:"not null" json:"title"`                                          // 商品标题
	Unit             string         `gorm:"type:varchar(20)" json:"unit,omitempty"`                         // 计量单位
	PriceAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"`      // 售价
	CostAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cost_amount"`       // 成本价
	PackagingCost    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"packaging_cost"`    // 包装成本
	AffiliatePercent Money          `gorm:"type:decimal(10,2);not null;default:0" json:"affiliate_percent"` // 可分佣利润池比例（百分比，0 表示全额利润入池）
	IsActive         bool           `gorm:"default:true;index" json:"is_active"`                            // 是否上架
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                     // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"` // 供应商信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
