package service

import (
	"fmt"

	"github.com/fenxiao-mall/internal/constants"
)

// CommissionLevel 佣金层级枚举。
// 取代按字符串拼接选择字段的做法：层级统一经查表映射到
// 流水编码与分销用户表的收益列。
type CommissionLevel int

const (
	LevelDirect CommissionLevel = iota
	LevelOne
	LevelTwo
	LevelThree
)

type commissionLevelMeta struct {
	Code   string // 佣金流水里的层级编码
	Column string // affiliates 表对应的收益列
}

var commissionLevels = map[CommissionLevel]commissionLevelMeta{
	LevelDirect: {Code: constants.CommissionLevelDirect, Column: "direct_earnings"},
	LevelOne:    {Code: constants.CommissionLevelOne, Column: "level1_earnings"},
	LevelTwo:    {Code: constants.CommissionLevelTwo, Column: "level2_earnings"},
	LevelThree:  {Code: constants.CommissionLevelThree, Column: "level3_earnings"},
}

// Code 返回流水层级编码
func (l CommissionLevel) Code() string {
	return commissionLevels[l].Code
}

// Column 返回收益列名
func (l CommissionLevel) Column() string {
	return commissionLevels[l].Column
}

// ParseCommissionLevel 从流水编码解析层级
func ParseCommissionLevel(code string) (CommissionLevel, error) {
	for level, meta := range commissionLevels {
		if meta.Code == code {
			return level, nil
		}
	}
	return LevelDirect, fmt.Errorf("unknown commission level: %s", code)
}

// uplineLevels 上线层级按距离排序：一跳=level1，以此类推
var uplineLevels = []CommissionLevel{LevelOne, LevelTwo, LevelThree}

// BalanceKind 余额类型枚举：逆向时由调用方指明金额当前所在余额
type BalanceKind int

const (
	BalancePending BalanceKind = iota
	BalanceAvailable
)

var balanceColumns = map[BalanceKind]string{
	BalancePending:   "pending_balance",
	BalanceAvailable: "available_balance",
}

// Column 返回余额列名
func (b BalanceKind) Column() string {
	return balanceColumns[b]
}
