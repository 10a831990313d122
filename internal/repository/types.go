package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page         int
	PageSize     int
	Status       string
	OrderNo      string
	ReferralCode string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// AffiliateListFilter 查询分销用户列表的过滤条件
type AffiliateListFilter struct {
	Page     int
	PageSize int
	Status   string
	Keyword  string
}

// VendorListFilter 查询供应商列表的过滤条件
type VendorListFilter struct {
	Page     int
	PageSize int
	Status   string
	Keyword  string
}

// CommissionListFilter 查询佣金流水列表的过滤条件
type CommissionListFilter struct {
	Page        int
	PageSize    int
	OrderID     uint
	AffiliateID uint
	Level       string
}
