package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fenxiao-mall/internal/config"
	"github.com/fenxiao-mall/internal/constants"
	"github.com/fenxiao-mall/internal/models"
	"github.com/fenxiao-mall/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func testCommissionConfig() config.CommissionConfig {
	return config.CommissionConfig{
		DirectPercent:        50,
		Level1Percent:        10,
		Level2Percent:        5,
		Level3Percent:        2,
		VendorPackagingShare: 0.30,
	}
}

type orderTestEnv struct {
	db          *gorm.DB
	orders      repository.OrderRepository
	affiliates  repository.AffiliateRepository
	vendors     repository.VendorRepository
	commissions repository.CommissionRepository
	products    repository.ProductRepository
	shipments   *ShipmentService
	svc         *OrderService
}

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Vendor{},
		&models.Product{},
		&models.Affiliate{},
		&models.Order{},
		&models.OrderItem{},
		&models.Shipment{},
		&models.CommissionTransaction{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func setupOrderServiceTest(t *testing.T) *orderTestEnv {
	t.Helper()
	db := newServiceTestDB(t)
	cfg := testCommissionConfig()

	orders := repository.NewOrderRepository(db)
	affiliates := repository.NewAffiliateRepository(db)
	vendors := repository.NewVendorRepository(db)
	commissions := repository.NewCommissionRepository(db)
	products := repository.NewProductRepository(db)
	shipmentRepo := repository.NewShipmentRepository(db)

	ledger := NewLedger(affiliates, vendors)
	tree := NewTreeResolver(affiliates)
	calculator := NewCommissionCalculator(products, cfg)
	shipments := NewShipmentService(shipmentRepo, products, ledger, cfg)
	svc := NewOrderService(orders, affiliates, commissions, calculator, tree, ledger, shipments, nil)

	return &orderTestEnv{
		db:          db,
		orders:      orders,
		affiliates:  affiliates,
		vendors:     vendors,
		commissions: commissions,
		products:    products,
		shipments:   shipments,
		svc:         svc,
	}
}

func createTestVendor(t *testing.T, env *orderTestEnv, name string) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{Name: name, Status: constants.VendorStatusActive}
	if err := env.vendors.Create(vendor); err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	return vendor
}

func createTestProduct(t *testing.T, env *orderTestEnv, vendorID uint, price, cost, packaging float64) *models.Product {
	t.Helper()
	product := &models.Product{
		VendorID:      vendorID,
		Title:         fmt.Sprintf("测试商品-%d", vendorID),
		Unit:          "件",
		PriceAmount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(price)),
		CostAmount:    models.NewMoneyFromDecimal(decimal.NewFromFloat(cost)),
		PackagingCost: models.NewMoneyFromDecimal(decimal.NewFromFloat(packaging)),
		IsActive:      true,
	}
	if err := env.products.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestAffiliate(t *testing.T, env *orderTestEnv, code string, parentID *uint, position string) *models.Affiliate {
	t.Helper()
	affiliate := &models.Affiliate{
		Name:         "分销-" + code,
		ReferralCode: code,
		Status:       constants.AffiliateStatusActive,
		ParentID:     parentID,
		Position:     position,
	}
	if err := env.affiliates.Create(affiliate); err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	return affiliate
}

func createTestOrder(t *testing.T, env *orderTestEnv, referralCode string, items ...CreateOrderItemInput) *models.Order {
	t.Helper()
	order, err := env.svc.CreateOrder(CreateOrderInput{
		ReferralCode: referralCode,
		Items:        items,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func mustTransition(t *testing.T, env *orderTestEnv, orderID uint, status string) {
	t.Helper()
	_, warnings, err := env.svc.UpdateOrderStatus(orderID, status)
	if err != nil {
		t.Fatalf("transition to %s failed: %v", status, err)
	}
	if len(warnings) > 0 {
		t.Fatalf("transition to %s produced warnings: %v", status, warnings)
	}
}

func reloadAffiliate(t *testing.T, env *orderTestEnv, id uint) *models.Affiliate {
	t.Helper()
	affiliate, err := env.affiliates.GetByID(id)
	if err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	if affiliate == nil {
		t.Fatalf("affiliate %d not found", id)
	}
	return affiliate
}

func assertMoney(t *testing.T, label string, got models.Money, want float64) {
	t.Helper()
	if !got.Decimal.Equal(decimal.NewFromFloat(want)) {
		t.Fatalf("%s = %s, want %.2f", label, got.String(), want)
	}
}

func countTransactions(t *testing.T, env *orderTestEnv, orderID uint) int {
	t.Helper()
	txns, err := env.commissions.ListByOrder(orderID)
	if err != nil {
		t.Fatalf("list transactions failed: %v", err)
	}
	return len(txns)
}

// 订单总额 1000、成本 100、包装 50、直推 50%：
// 利润池 850，直推佣金 425。
func TestOrderLifecycleDirectCommissionScenario(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 1000, 100, 50)
	direct := createTestAffiliate(t, env, "DIRECT01", nil, "")

	order := createTestOrder(t, env, "DIRECT01", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	assertMoney(t, "order total", order.TotalAmount, 1000)

	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)
	got := reloadAffiliate(t, env, direct.ID)
	assertMoney(t, "pending after payment", got.PendingBalance, 425)
	assertMoney(t, "available after payment", got.AvailableBalance, 0)
	assertMoney(t, "total after payment", got.TotalEarnings, 425)
	assertMoney(t, "direct earnings", got.DirectEarnings, 425)
	assertMoney(t, "sales amount", got.SalesAmount, 1000)
	if got.OrderCount != 1 {
		t.Fatalf("order count = %d, want 1", got.OrderCount)
	}
	if n := countTransactions(t, env, order.ID); n != 1 {
		t.Fatalf("transactions = %d, want 1", n)
	}

	mustTransition(t, env, order.ID, constants.OrderStatusDelivered)
	got = reloadAffiliate(t, env, direct.ID)
	assertMoney(t, "pending after delivered", got.PendingBalance, 0)
	assertMoney(t, "available after delivered", got.AvailableBalance, 425)
	assertMoney(t, "total after delivered", got.TotalEarnings, 425)

	mustTransition(t, env, order.ID, constants.OrderStatusCanceled)
	got = reloadAffiliate(t, env, direct.ID)
	assertMoney(t, "pending after cancel", got.PendingBalance, 0)
	assertMoney(t, "available after cancel", got.AvailableBalance, 0)
	assertMoney(t, "total after cancel", got.TotalEarnings, 0)
	assertMoney(t, "sales after cancel", got.SalesAmount, 0)
	if got.OrderCount != 0 {
		t.Fatalf("order count after cancel = %d, want 0", got.OrderCount)
	}
	if n := countTransactions(t, env, order.ID); n != 0 {
		t.Fatalf("transactions after cancel = %d, want 0", n)
	}
}

// 三级上线链路按配置比例分润：850 × 50/10/5/2%。
func TestCommissionSplitAcrossUpline(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 1000, 100, 50)

	level3 := createTestAffiliate(t, env, "LVL30000", nil, "")
	level2 := createTestAffiliate(t, env, "LVL20000", &level3.ID, constants.TreePositionLeft)
	level1 := createTestAffiliate(t, env, "LVL10000", &level2.ID, constants.TreePositionLeft)
	direct := createTestAffiliate(t, env, "DIRECT02", &level1.ID, constants.TreePositionRight)

	order := createTestOrder(t, env, "DIRECT02", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)

	assertMoney(t, "direct pending", reloadAffiliate(t, env, direct.ID).PendingBalance, 425)
	assertMoney(t, "level1 pending", reloadAffiliate(t, env, level1.ID).PendingBalance, 85)
	assertMoney(t, "level2 pending", reloadAffiliate(t, env, level2.ID).PendingBalance, 42.5)
	assertMoney(t, "level3 pending", reloadAffiliate(t, env, level3.ID).PendingBalance, 17)

	assertMoney(t, "level1 column", reloadAffiliate(t, env, level1.ID).Level1Earnings, 85)
	assertMoney(t, "level2 column", reloadAffiliate(t, env, level2.ID).Level2Earnings, 42.5)
	assertMoney(t, "level3 column", reloadAffiliate(t, env, level3.ID).Level3Earnings, 17)

	// 推广统计只记在直推名下
	if got := reloadAffiliate(t, env, level1.ID); got.OrderCount != 0 {
		t.Fatalf("level1 order count = %d, want 0", got.OrderCount)
	}
	if got := reloadAffiliate(t, env, direct.ID); got.OrderCount != 1 {
		t.Fatalf("direct order count = %d, want 1", got.OrderCount)
	}
	if n := countTransactions(t, env, order.ID); n != 4 {
		t.Fatalf("transactions = %d, want 4", n)
	}
}

// 重入同一已支付状态不会重复计佣。
func TestPaidStatusIdempotence(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 1000, 100, 50)
	direct := createTestAffiliate(t, env, "DIRECT03", nil, "")

	order := createTestOrder(t, env, "DIRECT03", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)

	got := reloadAffiliate(t, env, direct.ID)
	assertMoney(t, "pending after re-entry", got.PendingBalance, 425)
	assertMoney(t, "total after re-entry", got.TotalEarnings, 425)
	if got.OrderCount != 1 {
		t.Fatalf("order count = %d, want 1", got.OrderCount)
	}
	if n := countTransactions(t, env, order.ID); n != 1 {
		t.Fatalf("transactions = %d, want 1", n)
	}
}

// Delivered → 非 Delivered → Delivered 往返后，
// 各分销用户的余额拆分与总计应与首次 Delivered 后完全一致。
func TestDeliveredRoundTrip(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 1000, 100, 50)

	upline := createTestAffiliate(t, env, "UPLINE01", nil, "")
	direct := createTestAffiliate(t, env, "DIRECT04", &upline.ID, constants.TreePositionLeft)

	order := createTestOrder(t, env, "DIRECT04", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)
	mustTransition(t, env, order.ID, constants.OrderStatusDelivered)

	snapshotDirect := reloadAffiliate(t, env, direct.ID)
	snapshotUpline := reloadAffiliate(t, env, upline.ID)

	mustTransition(t, env, order.ID, constants.OrderStatusShipping)
	mustTransition(t, env, order.ID, constants.OrderStatusDelivered)

	for _, pair := range []struct {
		name string
		want *models.Affiliate
		id   uint
	}{
		{"direct", snapshotDirect, direct.ID},
		{"upline", snapshotUpline, upline.ID},
	} {
		got := reloadAffiliate(t, env, pair.id)
		if !got.PendingBalance.Decimal.Equal(pair.want.PendingBalance.Decimal) {
			t.Fatalf("%s pending = %s, want %s", pair.name, got.PendingBalance, pair.want.PendingBalance)
		}
		if !got.AvailableBalance.Decimal.Equal(pair.want.AvailableBalance.Decimal) {
			t.Fatalf("%s available = %s, want %s", pair.name, got.AvailableBalance, pair.want.AvailableBalance)
		}
		if !got.TotalEarnings.Decimal.Equal(pair.want.TotalEarnings.Decimal) {
			t.Fatalf("%s total = %s, want %s", pair.name, got.TotalEarnings, pair.want.TotalEarnings)
		}
		if got.OrderCount != pair.want.OrderCount {
			t.Fatalf("%s order count = %d, want %d", pair.name, got.OrderCount, pair.want.OrderCount)
		}
		if !got.SalesAmount.Decimal.Equal(pair.want.SalesAmount.Decimal) {
			t.Fatalf("%s sales = %s, want %s", pair.name, got.SalesAmount, pair.want.SalesAmount)
		}
	}
}

// 任意迁移序列之后 total == direct+level1+level2+level3。
func TestEarningsConservation(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 300, 80, 20)

	level2 := createTestAffiliate(t, env, "CONS2000", nil, "")
	level1 := createTestAffiliate(t, env, "CONS1000", &level2.ID, constants.TreePositionLeft)
	direct := createTestAffiliate(t, env, "CONS0000", &level1.ID, constants.TreePositionLeft)

	first := createTestOrder(t, env, "CONS0000", CreateOrderItemInput{ProductID: product.ID, Quantity: 2})
	second := createTestOrder(t, env, "CONS1000", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})

	mustTransition(t, env, first.ID, constants.OrderStatusPaymentConfirmed)
	mustTransition(t, env, first.ID, constants.OrderStatusShipping)
	mustTransition(t, env, first.ID, constants.OrderStatusDelivered)
	mustTransition(t, env, first.ID, constants.OrderStatusShipping)
	mustTransition(t, env, second.ID, constants.OrderStatusPaymentConfirmed)
	mustTransition(t, env, second.ID, constants.OrderStatusCanceled)
	mustTransition(t, env, first.ID, constants.OrderStatusDelivered)

	for _, id := range []uint{direct.ID, level1.ID, level2.ID} {
		got := reloadAffiliate(t, env, id)
		sum := got.DirectEarnings.Decimal.
			Add(got.Level1Earnings.Decimal).
			Add(got.Level2Earnings.Decimal).
			Add(got.Level3Earnings.Decimal)
		if !got.TotalEarnings.Decimal.Equal(sum) {
			t.Fatalf("affiliate %d total %s != level sum %s", id, got.TotalEarnings, sum)
		}
		balances := got.PendingBalance.Decimal.Add(got.AvailableBalance.Decimal)
		if balances.GreaterThan(got.TotalEarnings.Decimal) {
			t.Fatalf("affiliate %d balances %s exceed total %s", id, balances, got.TotalEarnings)
		}
	}
}

// 跨两个供应商的订单：支付确认后恰好两张发货单，各自只含本供应商的订单项；
// 删除订单后发货单与佣金流水一并移除。
func TestTwoVendorSplitAndDelete(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendorA := createTestVendor(t, env, "华东仓储")
	vendorB := createTestVendor(t, env, "华南仓储")
	productA := createTestProduct(t, env, vendorA.ID, 200, 50, 10)
	productB := createTestProduct(t, env, vendorB.ID, 400, 120, 20)
	createTestAffiliate(t, env, "SPLIT001", nil, "")

	order := createTestOrder(t, env, "SPLIT001",
		CreateOrderItemInput{ProductID: productA.ID, Quantity: 2},
		CreateOrderItemInput{ProductID: productB.ID, Quantity: 1},
	)
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)

	shipments, err := env.shipments.ListByOrder(order.ID)
	if err != nil {
		t.Fatalf("list shipments failed: %v", err)
	}
	if len(shipments) != 2 {
		t.Fatalf("shipments = %d, want 2", len(shipments))
	}
	for _, shipment := range shipments {
		if shipment.Status != constants.ShipmentStatusPaymentConfirmed {
			t.Fatalf("shipment %d status = %s, want %s", shipment.ID, shipment.Status, constants.ShipmentStatusPaymentConfirmed)
		}
		if len(shipment.Items) == 0 {
			t.Fatalf("shipment %d holds no items", shipment.ID)
		}
		for _, item := range shipment.Items {
			if item.VendorID != shipment.VendorID {
				t.Fatalf("shipment %d (vendor %d) holds item of vendor %d", shipment.ID, shipment.VendorID, item.VendorID)
			}
		}
	}

	// 重复物化不会新建发货单
	mustTransition(t, env, order.ID, constants.OrderStatusParcelPrepared)
	shipments, err = env.shipments.ListByOrder(order.ID)
	if err != nil {
		t.Fatalf("list shipments failed: %v", err)
	}
	if len(shipments) != 2 {
		t.Fatalf("shipments after re-entry = %d, want 2", len(shipments))
	}

	if err := env.svc.DeleteOrder(order.ID); err != nil {
		t.Fatalf("delete order failed: %v", err)
	}
	shipments, err = env.shipments.ListByOrder(order.ID)
	if err != nil {
		t.Fatalf("list shipments failed: %v", err)
	}
	if len(shipments) != 0 {
		t.Fatalf("shipments after delete = %d, want 0", len(shipments))
	}
	if n := countTransactions(t, env, order.ID); n != 0 {
		t.Fatalf("transactions after delete = %d, want 0", n)
	}
	if _, err := env.svc.GetOrder(order.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
}

// 发货单进入/离开 Delivered 的供应商入账与冲销应完全对称。
func TestVendorEarningsSymmetry(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 1000, 100, 50)

	order := createTestOrder(t, env, "", CreateOrderItemInput{ProductID: product.ID, Quantity: 2})
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)
	mustTransition(t, env, order.ID, constants.OrderStatusDelivered)

	// (100 + 50×0.30) × 2 = 230
	got, err := env.vendors.GetByID(vendor.ID)
	if err != nil || got == nil {
		t.Fatalf("reload vendor failed: %v", err)
	}
	assertMoney(t, "vendor total after delivered", got.TotalEarnings, 230)
	assertMoney(t, "vendor pending after delivered", got.PendingBalance, 230)

	mustTransition(t, env, order.ID, constants.OrderStatusShipping)
	got, err = env.vendors.GetByID(vendor.ID)
	if err != nil || got == nil {
		t.Fatalf("reload vendor failed: %v", err)
	}
	assertMoney(t, "vendor total after reversal", got.TotalEarnings, 0)
	assertMoney(t, "vendor pending after reversal", got.PendingBalance, 0)
}

// 直推账号停用、上线正常时只产生上线流水：推广统计不计入
// 停用的直推账号，取消后上线余额与统计全部归零。
func TestUplineOnlyAccrualKeepsStatsSymmetric(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 1000, 100, 50)

	upline := createTestAffiliate(t, env, "UPONLY01", nil, "")
	direct := createTestAffiliate(t, env, "DIRONLY1", &upline.ID, constants.TreePositionLeft)
	if err := env.affiliates.UpdateStatus(direct.ID, constants.AffiliateStatusDisabled, time.Now()); err != nil {
		t.Fatalf("disable direct failed: %v", err)
	}

	order := createTestOrder(t, env, "DIRONLY1", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)

	if n := countTransactions(t, env, order.ID); n != 1 {
		t.Fatalf("transactions = %d, want 1 (upline only)", n)
	}
	gotDirect := reloadAffiliate(t, env, direct.ID)
	assertMoney(t, "disabled direct pending", gotDirect.PendingBalance, 0)
	assertMoney(t, "disabled direct sales", gotDirect.SalesAmount, 0)
	if gotDirect.OrderCount != 0 {
		t.Fatalf("disabled direct order count = %d, want 0", gotDirect.OrderCount)
	}
	assertMoney(t, "upline pending", reloadAffiliate(t, env, upline.ID).PendingBalance, 85)

	mustTransition(t, env, order.ID, constants.OrderStatusCanceled)
	if n := countTransactions(t, env, order.ID); n != 0 {
		t.Fatalf("transactions after cancel = %d, want 0", n)
	}
	gotUpline := reloadAffiliate(t, env, upline.ID)
	assertMoney(t, "upline pending after cancel", gotUpline.PendingBalance, 0)
	assertMoney(t, "upline total after cancel", gotUpline.TotalEarnings, 0)
	gotDirect = reloadAffiliate(t, env, direct.ID)
	assertMoney(t, "disabled direct sales after cancel", gotDirect.SalesAmount, 0)
	if gotDirect.OrderCount != 0 {
		t.Fatalf("disabled direct order count after cancel = %d, want 0", gotDirect.OrderCount)
	}
}

// 无分销码的订单不产生任何佣金流水。
func TestNoReferralCodeNoCommission(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 1000, 100, 50)

	order := createTestOrder(t, env, "", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)
	if n := countTransactions(t, env, order.ID); n != 0 {
		t.Fatalf("transactions = %d, want 0", n)
	}
}

func TestUpdateOrderStatusValidation(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 100, 10, 5)
	order := createTestOrder(t, env, "", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})

	if _, _, err := env.svc.UpdateOrderStatus(order.ID, "refunded"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for unknown status, got: %v", err)
	}
	if _, _, err := env.svc.UpdateOrderStatus(9999, constants.OrderStatusPaymentConfirmed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}

	mustTransition(t, env, order.ID, constants.OrderStatusCanceled)
	if _, _, err := env.svc.UpdateOrderStatus(order.ID, constants.OrderStatusPaymentConfirmed); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus leaving canceled, got: %v", err)
	}
}

// pending_verification 与 created 行为一致：不计佣、不拆单。
func TestPendingVerificationBehavesLikeCreated(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 1000, 100, 50)
	createTestAffiliate(t, env, "SHADOW01", nil, "")

	order := createTestOrder(t, env, "SHADOW01", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	mustTransition(t, env, order.ID, constants.OrderStatusPendingVerification)

	if n := countTransactions(t, env, order.ID); n != 0 {
		t.Fatalf("transactions = %d, want 0", n)
	}
	shipments, err := env.shipments.ListByOrder(order.ID)
	if err != nil {
		t.Fatalf("list shipments failed: %v", err)
	}
	if len(shipments) != 0 {
		t.Fatalf("shipments = %d, want 0", len(shipments))
	}

	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)
	if n := countTransactions(t, env, order.ID); n != 1 {
		t.Fatalf("transactions after payment = %d, want 1", n)
	}
}

func TestCreateOrderRejectsUnknownReferralCode(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 100, 10, 5)

	_, err := env.svc.CreateOrder(CreateOrderInput{
		ReferralCode: "NOSUCH01",
		Items:        []CreateOrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrAffiliateCodeInvalid) {
		t.Fatalf("expected ErrAffiliateCodeInvalid, got: %v", err)
	}
}

// 分销码大小写不敏感。
func TestReferralCodeCaseInsensitive(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 1000, 100, 50)
	direct := createTestAffiliate(t, env, "CASE0001", nil, "")

	order := createTestOrder(t, env, "case0001", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)
	assertMoney(t, "pending", reloadAffiliate(t, env, direct.ID).PendingBalance, 425)
}

// getOrder 在发货单查询降级时仍返回订单本体。
func TestGetOrderReturnsShipments(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 100, 10, 5)

	order := createTestOrder(t, env, "", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)

	got, err := env.svc.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(got.Shipments) != 1 {
		t.Fatalf("shipments = %d, want 1", len(got.Shipments))
	}
	if len(got.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(got.Items))
	}
}

// 删除 Delivered 订单：佣金从可提现冲销，供应商收益一并逆向。
func TestDeleteDeliveredOrderReversesEverything(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 1000, 100, 50)
	direct := createTestAffiliate(t, env, "DELETE01", nil, "")

	order := createTestOrder(t, env, "DELETE01", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)
	mustTransition(t, env, order.ID, constants.OrderStatusDelivered)

	if err := env.svc.DeleteOrder(order.ID); err != nil {
		t.Fatalf("delete order failed: %v", err)
	}

	got := reloadAffiliate(t, env, direct.ID)
	assertMoney(t, "available after delete", got.AvailableBalance, 0)
	assertMoney(t, "total after delete", got.TotalEarnings, 0)
	if got.OrderCount != 0 {
		t.Fatalf("order count after delete = %d, want 0", got.OrderCount)
	}

	gotVendor, err := env.vendors.GetByID(vendor.ID)
	if err != nil || gotVendor == nil {
		t.Fatalf("reload vendor failed: %v", err)
	}
	assertMoney(t, "vendor total after delete", gotVendor.TotalEarnings, 0)
	assertMoney(t, "vendor pending after delete", gotVendor.PendingBalance, 0)
}
