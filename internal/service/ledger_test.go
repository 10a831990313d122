package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLedgerCommissionFlow(t *testing.T) {
	env := setupOrderServiceTest(t)
	ledger := NewLedger(env.affiliates, env.vendors)
	affiliate := createTestAffiliate(t, env, "LEDGER01", nil, "")
	amount := decimal.NewFromFloat(85)

	if err := ledger.Credit(affiliate.ID, LevelOne, amount); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	got := reloadAffiliate(t, env, affiliate.ID)
	assertMoney(t, "level1 after credit", got.Level1Earnings, 85)
	assertMoney(t, "pending after credit", got.PendingBalance, 85)
	assertMoney(t, "total after credit", got.TotalEarnings, 85)

	if err := ledger.Confirm(affiliate.ID, amount); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	got = reloadAffiliate(t, env, affiliate.ID)
	assertMoney(t, "pending after confirm", got.PendingBalance, 0)
	assertMoney(t, "available after confirm", got.AvailableBalance, 85)

	if err := ledger.Reverse(affiliate.ID, LevelOne, amount, BalanceAvailable); err != nil {
		t.Fatalf("reverse failed: %v", err)
	}
	got = reloadAffiliate(t, env, affiliate.ID)
	assertMoney(t, "level1 after reverse", got.Level1Earnings, 0)
	assertMoney(t, "available after reverse", got.AvailableBalance, 0)
	assertMoney(t, "total after reverse", got.TotalEarnings, 0)
}

func TestLedgerVendorFlow(t *testing.T) {
	env := setupOrderServiceTest(t)
	ledger := NewLedger(env.affiliates, env.vendors)
	vendor := createTestVendor(t, env, "华东仓储")
	amount := decimal.NewFromFloat(230)

	if err := ledger.CreditVendor(vendor.ID, amount); err != nil {
		t.Fatalf("credit vendor failed: %v", err)
	}
	got, err := env.vendors.GetByID(vendor.ID)
	if err != nil || got == nil {
		t.Fatalf("reload vendor failed: %v", err)
	}
	assertMoney(t, "vendor total", got.TotalEarnings, 230)
	assertMoney(t, "vendor pending", got.PendingBalance, 230)

	if err := ledger.ReverseVendor(vendor.ID, amount); err != nil {
		t.Fatalf("reverse vendor failed: %v", err)
	}
	got, err = env.vendors.GetByID(vendor.ID)
	if err != nil || got == nil {
		t.Fatalf("reload vendor failed: %v", err)
	}
	assertMoney(t, "vendor total after reverse", got.TotalEarnings, 0)
	assertMoney(t, "vendor pending after reverse", got.PendingBalance, 0)
}

// 平台自营（id 0）与零值入参都应是安全的空操作。
func TestLedgerNoopGuards(t *testing.T) {
	env := setupOrderServiceTest(t)
	ledger := NewLedger(env.affiliates, env.vendors)

	if err := ledger.CreditVendor(0, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("platform vendor credit should be a no-op, got: %v", err)
	}
	if err := ledger.Credit(0, LevelDirect, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("zero affiliate credit should be a no-op, got: %v", err)
	}

	var nilLedger *Ledger
	if err := nilLedger.Confirm(1, decimal.NewFromInt(1)); err != nil {
		t.Fatalf("nil ledger should be a no-op, got: %v", err)
	}
}
