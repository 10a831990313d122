package service

import (
	"testing"

	"github.com/fenxiao-mall/internal/constants"
	"github.com/fenxiao-mall/internal/models"

	"github.com/shopspring/decimal"
)

func TestEnsureShipmentsIdempotent(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 200, 50, 10)

	order := createTestOrder(t, env, "", CreateOrderItemInput{ProductID: product.ID, Quantity: 2})

	if err := env.shipments.EnsureShipments(order.ID, order.Status, order.Items); err != nil {
		t.Fatalf("ensure shipments failed: %v", err)
	}
	first, err := env.shipments.ListByOrder(order.ID)
	if err != nil {
		t.Fatalf("list shipments failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("shipments = %d, want 1", len(first))
	}
	if first[0].Status != constants.ShipmentStatusCreated {
		t.Fatalf("shipment status = %s, want %s", first[0].Status, constants.ShipmentStatusCreated)
	}

	// 重复调用不新建发货单，也不重挂订单项
	if err := env.shipments.EnsureShipments(order.ID, order.Status, first[0].Items); err != nil {
		t.Fatalf("ensure shipments failed: %v", err)
	}
	second, err := env.shipments.ListByOrder(order.ID)
	if err != nil {
		t.Fatalf("list shipments failed: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("shipments after re-entry = %d, want 1", len(second))
	}
	if second[0].ID != first[0].ID {
		t.Fatalf("shipment recreated: %d != %d", second[0].ID, first[0].ID)
	}
	if len(second[0].Items) != 1 {
		t.Fatalf("shipment items = %d, want 1", len(second[0].Items))
	}
}

func TestCascadeSkipsSameStatus(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 200, 50, 10)

	order := createTestOrder(t, env, "", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)
	mustTransition(t, env, order.ID, constants.OrderStatusDelivered)

	// (50 + 10×0.30) × 1 = 53
	got, err := env.vendors.GetByID(vendor.ID)
	if err != nil || got == nil {
		t.Fatalf("reload vendor failed: %v", err)
	}
	assertMoney(t, "vendor total", got.TotalEarnings, 53)

	// 发货单已处于 delivered，再次级联不得重复入账
	if err := env.shipments.CascadeStatus(order.ID, constants.ShipmentStatusDelivered); err != nil {
		t.Fatalf("cascade failed: %v", err)
	}
	got, err = env.vendors.GetByID(vendor.ID)
	if err != nil || got == nil {
		t.Fatalf("reload vendor failed: %v", err)
	}
	assertMoney(t, "vendor total after re-cascade", got.TotalEarnings, 53)
}

func TestPlatformVendorSkipsLedger(t *testing.T) {
	env := setupOrderServiceTest(t)
	platformProduct := &models.Product{
		VendorID:      constants.PlatformVendorID,
		Title:         "平台自营品",
		Unit:          "件",
		PriceAmount:   money(100),
		CostAmount:    money(20),
		PackagingCost: money(5),
		IsActive:      true,
	}
	if err := env.products.Create(platformProduct); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	order := createTestOrder(t, env, "", CreateOrderItemInput{ProductID: platformProduct.ID, Quantity: 1})
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)
	mustTransition(t, env, order.ID, constants.OrderStatusDelivered)

	shipments, err := env.shipments.ListByOrder(order.ID)
	if err != nil {
		t.Fatalf("list shipments failed: %v", err)
	}
	if len(shipments) != 1 {
		t.Fatalf("shipments = %d, want 1", len(shipments))
	}
	if shipments[0].VendorID != constants.PlatformVendorID {
		t.Fatalf("vendor id = %d, want platform", shipments[0].VendorID)
	}
	if shipments[0].Status != constants.ShipmentStatusDelivered {
		t.Fatalf("shipment status = %s, want delivered", shipments[0].Status)
	}

	var vendorCount int64
	if err := env.db.Model(&models.Vendor{}).Count(&vendorCount).Error; err != nil {
		t.Fatalf("count vendors failed: %v", err)
	}
	if vendorCount != 0 {
		t.Fatalf("vendors touched = %d, want 0", vendorCount)
	}
}

func TestVendorEarningsFormula(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	earphone := createTestProduct(t, env, vendor.ID, 1000, 100, 50)
	cup := createTestProduct(t, env, vendor.ID, 120, 40, 10)

	order := createTestOrder(t, env, "",
		CreateOrderItemInput{ProductID: earphone.ID, Quantity: 2},
		CreateOrderItemInput{ProductID: cup.ID, Quantity: 3},
	)

	earnings, err := env.shipments.VendorEarnings(order.Items)
	if err != nil {
		t.Fatalf("vendor earnings failed: %v", err)
	}
	// (100 + 50×0.30)×2 + (40 + 10×0.30)×3 = 230 + 129 = 359
	if !earnings.Equal(decimal.NewFromInt(359)) {
		t.Fatalf("earnings = %s, want 359", earnings)
	}
}

func TestShipmentDeliveredTimestamp(t *testing.T) {
	env := setupOrderServiceTest(t)
	vendor := createTestVendor(t, env, "华东仓储")
	product := createTestProduct(t, env, vendor.ID, 200, 50, 10)

	order := createTestOrder(t, env, "", CreateOrderItemInput{ProductID: product.ID, Quantity: 1})
	mustTransition(t, env, order.ID, constants.OrderStatusPaymentConfirmed)
	mustTransition(t, env, order.ID, constants.OrderStatusDelivered)

	shipments, err := env.shipments.ListByOrder(order.ID)
	if err != nil {
		t.Fatalf("list shipments failed: %v", err)
	}
	if len(shipments) != 1 {
		t.Fatalf("shipments = %d, want 1", len(shipments))
	}
	if shipments[0].DeliveredAt == nil {
		t.Fatalf("delivered_at not set")
	}
}
