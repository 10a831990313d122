package service

import (
	"strings"

	"github.com/fenxiao-mall/internal/config"
	"github.com/fenxiao-mall/internal/constants"
	"github.com/fenxiao-mall/internal/models"
	"github.com/fenxiao-mall/internal/repository"

	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// CommissionShare 一笔待入账的佣金份额
type CommissionShare struct {
	AffiliateID uint
	Level       CommissionLevel
	Amount      decimal.Decimal
}

// CommissionCalculator 佣金计算：按订单项汇总利润池，
// 再按配置比例拆分给直推与三级上线。
type CommissionCalculator struct {
	products repository.ProductRepository
	cfg      config.CommissionConfig
}

// NewCommissionCalculator 创建佣金计算器
func NewCommissionCalculator(products repository.ProductRepository, cfg config.CommissionConfig) *CommissionCalculator {
	return &CommissionCalculator{products: products, cfg: cfg}
}

// ProfitPool 汇总订单利润池：
// 单项利润 = max(0, 单价 - 成本 - 包装成本) × 数量，
// 商品配置了入池比例时按比例缩减。
func (c *CommissionCalculator) ProfitPool(items []models.OrderItem) (decimal.Decimal, error) {
	pool := decimal.Zero
	if c == nil || len(items) == 0 {
		return pool, nil
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := c.products.GetByIDs(ids)
	if err != nil {
		return decimal.Zero, err
	}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		margin := item.UnitPrice.Decimal.
			Sub(product.CostAmount.Decimal).
			Sub(product.PackagingCost.Decimal)
		if margin.LessThanOrEqual(decimal.Zero) {
			continue
		}
		profit := margin.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if percent := product.AffiliatePercent.Decimal; percent.GreaterThan(decimal.Zero) {
			profit = profit.Mul(percent).Div(decimalHundred)
		}
		pool = pool.Add(profit)
	}
	return pool.Round(2), nil
}

// Shares 将利润池按配置比例拆分。缺失的上线槽位不产生份额，也不重新分配。
func (c *CommissionCalculator) Shares(pool decimal.Decimal, direct *models.Affiliate, upline []models.Affiliate) []CommissionShare {
	shares := make([]CommissionShare, 0, uplineMaxDepth+1)
	if c == nil || direct == nil || pool.LessThanOrEqual(decimal.Zero) {
		return shares
	}
	if share, ok := c.buildShare(direct, LevelDirect, pool, c.cfg.DirectPercent); ok {
		shares = append(shares, share)
	}
	percents := []float64{c.cfg.Level1Percent, c.cfg.Level2Percent, c.cfg.Level3Percent}
	for i := range uplineLevels {
		if i >= len(upline) {
			break
		}
		ancestor := upline[i]
		if share, ok := c.buildShare(&ancestor, uplineLevels[i], pool, percents[i]); ok {
			shares = append(shares, share)
		}
	}
	return shares
}

func (c *CommissionCalculator) buildShare(affiliate *models.Affiliate, level CommissionLevel, pool decimal.Decimal, percent float64) (CommissionShare, bool) {
	if affiliate == nil || affiliate.ID == 0 {
		return CommissionShare{}, false
	}
	if strings.TrimSpace(affiliate.Status) != constants.AffiliateStatusActive {
		return CommissionShare{}, false
	}
	amount := pool.Mul(decimal.NewFromFloat(percent)).Div(decimalHundred).Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return CommissionShare{}, false
	}
	return CommissionShare{
		AffiliateID: affiliate.ID,
		Level:       level,
		Amount:      amount,
	}, true
}
