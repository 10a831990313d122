package repository

import (
	"strings"

	"github.com/fenxiao-mall/internal/models"

	"gorm.io/gorm"
)

// CommissionRepository 佣金流水数据访问接口
type CommissionRepository interface {
	WithTx(tx *gorm.DB) CommissionRepository

	Create(txn *models.CommissionTransaction) error
	ExistsByOrder(orderID uint) (bool, error)
	ListByOrder(orderID uint) ([]models.CommissionTransaction, error)
	List(filter CommissionListFilter) ([]models.CommissionTransaction, int64, error)
	DeleteByOrder(orderID uint) (int64, error)
}

// GormCommissionRepository GORM 佣金流水仓储
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository 创建佣金流水仓储
func NewCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCommissionRepository) WithTx(tx *gorm.DB) CommissionRepository {
	if tx == nil {
		return r
	}
	return &GormCommissionRepository{db: tx}
}

// Create 写入一条佣金流水；(order, affiliate, level) 唯一索引兜底防止重复入账
func (r *GormCommissionRepository) Create(txn *models.CommissionTransaction) error {
	return r.db.Create(txn).Error
}

// ExistsByOrder 判断订单是否已计佣
func (r *GormCommissionRepository) ExistsByOrder(orderID uint) (bool, error) {
	if orderID == 0 {
		return false, nil
	}
	var count int64
	if err := r.db.Model(&models.CommissionTransaction{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByOrder 获取订单的全部佣金流水
func (r *GormCommissionRepository) ListByOrder(orderID uint) ([]models.CommissionTransaction, error) {
	if orderID == 0 {
		return []models.CommissionTransaction{}, nil
	}
	var rows []models.CommissionTransaction
	if err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// List 分页查询佣金流水
func (r *GormCommissionRepository) List(filter CommissionListFilter) ([]models.CommissionTransaction, int64, error) {
	query := r.db.Model(&models.CommissionTransaction{})
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if strings.TrimSpace(filter.Level) != "" {
		query = query.Where("level = ?", strings.TrimSpace(filter.Level))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query.Order("id desc"), filter.Page, filter.PageSize)
	var rows []models.CommissionTransaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// DeleteByOrder 删除订单的全部佣金流水，返回删除行数
func (r *GormCommissionRepository) DeleteByOrder(orderID uint) (int64, error) {
	if orderID == 0 {
		return 0, nil
	}
	result := r.db.Where("order_id = ?", orderID).Delete(&models.CommissionTransaction{})
	return result.RowsAffected, result.Error
}
