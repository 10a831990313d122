package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fenxiao-mall/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 佣金可写入的层级字段白名单；层级枚举由 service 层映射到这里的列名。
var affiliateLevelColumns = map[string]bool{
	"direct_earnings": true,
	"level1_earnings": true,
	"level2_earnings": true,
	"level3_earnings": true,
}

// 余额列白名单（逆向时由调用方指定扣减来源）
var affiliateBalanceColumns = map[string]bool{
	"pending_balance":   true,
	"available_balance": true,
}

// AffiliateRepository 分销用户数据访问接口
//
// 余额与收益字段全部采用存储侧相对增量更新（SET x = x + ?），
// 避免并发订单之间的读-改-写丢失更新。
type AffiliateRepository interface {
	WithTx(tx *gorm.DB) AffiliateRepository
	Transaction(fn func(tx *gorm.DB) error) error

	Create(affiliate *models.Affiliate) error
	GetByID(id uint) (*models.Affiliate, error)
	GetByReferralCode(code string) (*models.Affiliate, error)
	GetChildren(parentID uint) ([]models.Affiliate, error)
	List(filter AffiliateListFilter) ([]models.Affiliate, int64, error)
	UpdateStatus(id uint, status string, updatedAt time.Time) error

	CreditCommission(affiliateID uint, levelColumn string, amount decimal.Decimal) error
	ConfirmCommission(affiliateID uint, amount decimal.Decimal) error
	DemoteCommission(affiliateID uint, amount decimal.Decimal) error
	ReverseCommission(affiliateID uint, levelColumn, balanceColumn string, amount decimal.Decimal) error
	AddOrderStats(affiliateID uint, orderDelta int64, salesDelta decimal.Decimal) error
}

// GormAffiliateRepository GORM 分销用户仓储
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository 创建分销用户仓储
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAffiliateRepository) WithTx(tx *gorm.DB) AffiliateRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateRepository{db: tx}
}

// Transaction 执行事务
func (r *GormAffiliateRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建分销用户
func (r *GormAffiliateRepository) Create(affiliate *models.Affiliate) error {
	return r.db.Create(affiliate).Error
}

// GetByID 按ID获取分销用户
func (r *GormAffiliateRepository) GetByID(id uint) (*models.Affiliate, error) {
	if id == 0 {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByReferralCode 按分销码获取分销用户（大小写不敏感）
func (r *GormAffiliateRepository) GetByReferralCode(code string) (*models.Affiliate, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Where("LOWER(referral_code) = LOWER(?)", code).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetChildren 获取二叉树的直接子节点
func (r *GormAffiliateRepository) GetChildren(parentID uint) ([]models.Affiliate, error) {
	if parentID == 0 {
		return []models.Affiliate{}, nil
	}
	var children []models.Affiliate
	if err := r.db.Where("parent_id = ?", parentID).Order("position asc").Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

// List 分页查询分销用户
func (r *GormAffiliateRepository) List(filter AffiliateListFilter) ([]models.Affiliate, int64, error) {
	query := r.db.Model(&models.Affiliate{})
	if strings.TrimSpace(filter.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(filter.Status))
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR referral_code LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query.Order("id desc"), filter.Page, filter.PageSize)
	var rows []models.Affiliate
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateStatus 更新分销用户状态
func (r *GormAffiliateRepository) UpdateStatus(id uint, status string, updatedAt time.Time) error {
	return r.db.Model(&models.Affiliate{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": updatedAt,
	}).Error
}

// CreditCommission 入账：总计、层级字段、待确认余额同步增加
func (r *GormAffiliateRepository) CreditCommission(affiliateID uint, levelColumn string, amount decimal.Decimal) error {
	if affiliateID == 0 {
		return nil
	}
	if !affiliateLevelColumns[levelColumn] {
		return fmt.Errorf("invalid commission level column: %s", levelColumn)
	}
	return r.db.Model(&models.Affiliate{}).Where("id = ?", affiliateID).Updates(map[string]interface{}{
		"total_earnings":  gorm.Expr("total_earnings + ?", amount),
		levelColumn:       gorm.Expr(levelColumn+" + ?", amount),
		"pending_balance": gorm.Expr("pending_balance + ?", amount),
	}).Error
}

// ConfirmCommission 确认：金额从待确认转入可提现，总计不变
func (r *GormAffiliateRepository) ConfirmCommission(affiliateID uint, amount decimal.Decimal) error {
	if affiliateID == 0 {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).Where("id = ?", affiliateID).Updates(map[string]interface{}{
		"pending_balance":   gorm.Expr("pending_balance - ?", amount),
		"available_balance": gorm.Expr("available_balance + ?", amount),
	}).Error
}

// DemoteCommission 降级：确认的逆操作，可提现转回待确认
func (r *GormAffiliateRepository) DemoteCommission(affiliateID uint, amount decimal.Decimal) error {
	if affiliateID == 0 {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).Where("id = ?", affiliateID).Updates(map[string]interface{}{
		"available_balance": gorm.Expr("available_balance - ?", amount),
		"pending_balance":   gorm.Expr("pending_balance + ?", amount),
	}).Error
}

// ReverseCommission 逆向：入账的精确反操作，balanceColumn 指明金额当前所在余额
func (r *GormAffiliateRepository) ReverseCommission(affiliateID uint, levelColumn, balanceColumn string, amount decimal.Decimal) error {
	if affiliateID == 0 {
		return nil
	}
	if !affiliateLevelColumns[levelColumn] {
		return fmt.Errorf("invalid commission level column: %s", levelColumn)
	}
	if !affiliateBalanceColumns[balanceColumn] {
		return fmt.Errorf("invalid balance column: %s", balanceColumn)
	}
	return r.db.Model(&models.Affiliate{}).Where("id = ?", affiliateID).Updates(map[string]interface{}{
		"total_earnings": gorm.Expr("total_earnings - ?", amount),
		levelColumn:      gorm.Expr(levelColumn+" - ?", amount),
		balanceColumn:    gorm.Expr(balanceColumn+" - ?", amount),
	}).Error
}

// AddOrderStats 推广订单数与销售额的相对增量（可为负）
func (r *GormAffiliateRepository) AddOrderStats(affiliateID uint, orderDelta int64, salesDelta decimal.Decimal) error {
	if affiliateID == 0 {
		return nil
	}
	return r.db.Model(&models.Affiliate{}).Where("id = ?", affiliateID).Updates(map[string]interface{}{
		"order_count":  gorm.Expr("order_count + ?", orderDelta),
		"sales_amount": gorm.Expr("sales_amount + ?", salesDelta),
	}).Error
}
