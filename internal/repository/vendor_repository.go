package repository

import (
	"errors"
	"strings"

	"github.com/fenxiao-mall/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VendorRepository 供应商数据访问接口
type VendorRepository interface {
	WithTx(tx *gorm.DB) VendorRepository

	Create(vendor *models.Vendor) error
	GetByID(id uint) (*models.Vendor, error)
	List(filter VendorListFilter) ([]models.Vendor, int64, error)

	CreditEarnings(vendorID uint, amount decimal.Decimal) error
	ReverseEarnings(vendorID uint, amount decimal.Decimal) error
}

// GormVendorRepository GORM 供应商仓储
type GormVendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository 创建供应商仓储
func NewVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVendorRepository) WithTx(tx *gorm.DB) VendorRepository {
	if tx == nil {
		return r
	}
	return &GormVendorRepository{db: tx}
}

// Create 创建供应商
func (r *GormVendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

// GetByID 按ID获取供应商
func (r *GormVendorRepository) GetByID(id uint) (*models.Vendor, error) {
	if id == 0 {
		return nil, nil
	}
	var vendor models.Vendor
	if err := r.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// List 分页查询供应商
func (r *GormVendorRepository) List(filter VendorListFilter) ([]models.Vendor, int64, error) {
	query := r.db.Model(&models.Vendor{})
	if strings.TrimSpace(filter.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(filter.Status))
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query.Order("id desc"), filter.Page, filter.PageSize)
	var rows []models.Vendor
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CreditEarnings 入账：总计与待结算余额同步增加（存储侧相对增量）
func (r *GormVendorRepository) CreditEarnings(vendorID uint, amount decimal.Decimal) error {
	if vendorID == 0 {
		return nil
	}
	return r.db.Model(&models.Vendor{}).Where("id = ?", vendorID).Updates(map[string]interface{}{
		"total_earnings":  gorm.Expr("total_earnings + ?", amount),
		"pending_balance": gorm.Expr("pending_balance + ?", amount),
	}).Error
}

// ReverseEarnings 逆向：入账的精确反操作
func (r *GormVendorRepository) ReverseEarnings(vendorID uint, amount decimal.Decimal) error {
	if vendorID == 0 {
		return nil
	}
	return r.db.Model(&models.Vendor{}).Where("id = ?", vendorID).Updates(map[string]interface{}{
		"total_earnings":  gorm.Expr("total_earnings - ?", amount),
		"pending_balance": gorm.Expr("pending_balance - ?", amount),
	}).Error
}
