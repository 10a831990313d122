package service

import (
	"github.com/fenxiao-mall/internal/logger"
	"github.com/fenxiao-mall/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger 台账变更入口：分销/供应商余额只经由这里的
// 有符号相对增量修改，每次变更都落结构化日志。
// 正确配对的入账/逆向序列不会产生负余额；出现负值意味着配对缺陷，
// 属于需要人工对账的信号，这里不做钳制。
type Ledger struct {
	affiliates repository.AffiliateRepository
	vendors    repository.VendorRepository
}

// NewLedger 创建台账入口
func NewLedger(affiliates repository.AffiliateRepository, vendors repository.VendorRepository) *Ledger {
	return &Ledger{affiliates: affiliates, vendors: vendors}
}

// WithTx 返回绑定到事务的台账入口，事务内的变更随事务一并提交或回滚
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	if l == nil || tx == nil {
		return l
	}
	return &Ledger{
		affiliates: l.affiliates.WithTx(tx),
		vendors:    l.vendors.WithTx(tx),
	}
}

// Credit 佣金入账：总计、层级收益、待确认余额同步增加
func (l *Ledger) Credit(affiliateID uint, level CommissionLevel, amount decimal.Decimal) error {
	if l == nil || l.affiliates == nil || affiliateID == 0 {
		return nil
	}
	if err := l.affiliates.CreditCommission(affiliateID, level.Column(), amount); err != nil {
		return err
	}
	logger.Infow("ledger_commission_credit",
		"affiliate_id", affiliateID,
		"level", level.Code(),
		"amount", amount.StringFixed(2),
	)
	return nil
}

// Confirm 佣金确认：金额从待确认转入可提现
func (l *Ledger) Confirm(affiliateID uint, amount decimal.Decimal) error {
	if l == nil || l.affiliates == nil || affiliateID == 0 {
		return nil
	}
	if err := l.affiliates.ConfirmCommission(affiliateID, amount); err != nil {
		return err
	}
	logger.Infow("ledger_commission_confirm",
		"affiliate_id", affiliateID,
		"amount", amount.StringFixed(2),
	)
	return nil
}

// Demote 佣金降级：确认的逆操作
func (l *Ledger) Demote(affiliateID uint, amount decimal.Decimal) error {
	if l == nil || l.affiliates == nil || affiliateID == 0 {
		return nil
	}
	if err := l.affiliates.DemoteCommission(affiliateID, amount); err != nil {
		return err
	}
	logger.Infow("ledger_commission_demote",
		"affiliate_id", affiliateID,
		"amount", amount.StringFixed(2),
	)
	return nil
}

// Reverse 佣金逆向：入账的精确反操作，from 指明金额当前所在余额
func (l *Ledger) Reverse(affiliateID uint, level CommissionLevel, amount decimal.Decimal, from BalanceKind) error {
	if l == nil || l.affiliates == nil || affiliateID == 0 {
		return nil
	}
	if err := l.affiliates.ReverseCommission(affiliateID, level.Column(), from.Column(), amount); err != nil {
		return err
	}
	logger.Infow("ledger_commission_reverse",
		"affiliate_id", affiliateID,
		"level", level.Code(),
		"amount", amount.StringFixed(2),
		"from_balance", from.Column(),
	)
	return nil
}

// CreditVendor 供应商收益入账
func (l *Ledger) CreditVendor(vendorID uint, amount decimal.Decimal) error {
	if l == nil || l.vendors == nil || vendorID == 0 {
		return nil
	}
	if err := l.vendors.CreditEarnings(vendorID, amount); err != nil {
		return err
	}
	logger.Infow("ledger_vendor_credit",
		"vendor_id", vendorID,
		"amount", amount.StringFixed(2),
	)
	return nil
}

// ReverseVendor 供应商收益逆向
func (l *Ledger) ReverseVendor(vendorID uint, amount decimal.Decimal) error {
	if l == nil || l.vendors == nil || vendorID == 0 {
		return nil
	}
	if err := l.vendors.ReverseEarnings(vendorID, amount); err != nil {
		return err
	}
	logger.Infow("ledger_vendor_reverse",
		"vendor_id", vendorID,
		"amount", amount.StringFixed(2),
	)
	return nil
}
