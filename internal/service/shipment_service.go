package service

import (
	"errors"
	"time"

	"github.com/fenxiao-mall/internal/config"
	"github.com/fenxiao-mall/internal/constants"
	"github.com/fenxiao-mall/internal/logger"
	"github.com/fenxiao-mall/internal/models"
	"github.com/fenxiao-mall/internal/repository"

	"github.com/shopspring/decimal"
)

// ShipmentService 发货单服务：按供应商拆单，并随订单状态级联
// 发货单状态与供应商收益台账。
type ShipmentService struct {
	shipments repository.ShipmentRepository
	products  repository.ProductRepository
	ledger    *Ledger

	// packagingShare 包装成本计入供应商收益的比例（0~1）
	packagingShare decimal.Decimal
}

// NewShipmentService 创建发货单服务
func NewShipmentService(
	shipments repository.ShipmentRepository,
	products repository.ProductRepository,
	ledger *Ledger,
	cfg config.CommissionConfig,
) *ShipmentService {
	return &ShipmentService{
		shipments:      shipments,
		products:       products,
		ledger:         ledger,
		packagingShare: decimal.NewFromFloat(cfg.VendorPackagingShare),
	}
}

// EnsureShipments 拆单：按供应商分组订单项，为每个供应商
// 找到或创建发货单，并把未挂单的订单项回填到发货单上。
// 已存在的发货单不会被删除或重建，重复调用是幂等的。
func (s *ShipmentService) EnsureShipments(orderID uint, orderStatus string, items []models.OrderItem) error {
	if s == nil || orderID == 0 || len(items) == 0 {
		return nil
	}

	groups := make(map[uint][]models.OrderItem)
	vendorIDs := make([]uint, 0, 4)
	for _, item := range items {
		if _, ok := groups[item.VendorID]; !ok {
			vendorIDs = append(vendorIDs, item.VendorID)
		}
		groups[item.VendorID] = append(groups[item.VendorID], item)
	}

	for _, vendorID := range vendorIDs {
		shipment, err := s.shipments.GetByOrderAndVendor(orderID, vendorID)
		if err != nil {
			return err
		}
		if shipment == nil {
			shipment = &models.Shipment{
				OrderID:  orderID,
				VendorID: vendorID,
				Status:   shipmentStatusFor(orderStatus),
			}
			if err := s.shipments.Create(shipment); err != nil {
				return err
			}
			logger.Infow("shipment_created",
				"order_id", orderID,
				"vendor_id", vendorID,
				"shipment_id", shipment.ID,
			)
		}

		pendingIDs := make([]uint, 0, len(groups[vendorID]))
		for _, item := range groups[vendorID] {
			if item.ShipmentID == nil || *item.ShipmentID == 0 {
				pendingIDs = append(pendingIDs, item.ID)
			}
		}
		if err := s.shipments.AssignItems(shipment.ID, pendingIDs); err != nil {
			return err
		}
	}
	return nil
}

// CascadeStatus 把订单状态级联到名下全部发货单。
// 已处于目标状态的发货单跳过；进入/离开 delivered 时
// 同步供应商收益台账（平台自营供应商除外）。
// 单个发货单失败不阻断其余发货单，错误合并后返回。
func (s *ShipmentService) CascadeStatus(orderID uint, target string) error {
	if s == nil || orderID == 0 {
		return nil
	}
	shipments, err := s.shipments.ListByOrder(orderID)
	if err != nil {
		return err
	}

	var errs []error
	for i := range shipments {
		if err := s.cascadeOne(&shipments[i], target); err != nil {
			logger.Warnw("shipment_cascade_failed",
				"order_id", orderID,
				"shipment_id", shipments[i].ID,
				"vendor_id", shipments[i].VendorID,
				"target_status", target,
				"error", err.Error(),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *ShipmentService) cascadeOne(shipment *models.Shipment, target string) error {
	old := shipment.Status
	if old == target {
		return nil
	}

	updates := map[string]interface{}{}
	if target == constants.ShipmentStatusDelivered {
		now := time.Now()
		updates["delivered_at"] = &now
	}
	if err := s.shipments.UpdateStatus(shipment.ID, target, updates); err != nil {
		return err
	}
	shipment.Status = target

	if shipment.VendorID == constants.PlatformVendorID {
		return nil
	}

	entering := old != constants.ShipmentStatusDelivered && target == constants.ShipmentStatusDelivered
	leaving := old == constants.ShipmentStatusDelivered && target != constants.ShipmentStatusDelivered
	if !entering && !leaving {
		return nil
	}

	earnings, err := s.VendorEarnings(shipment.Items)
	if err != nil {
		return err
	}
	if earnings.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	if entering {
		return s.ledger.CreditVendor(shipment.VendorID, earnings)
	}
	return s.ledger.ReverseVendor(shipment.VendorID, earnings)
}

// ListByOrder 获取订单的全部发货单（含订单项）
func (s *ShipmentService) ListByOrder(orderID uint) ([]models.Shipment, error) {
	if s == nil {
		return []models.Shipment{}, nil
	}
	return s.shipments.ListByOrder(orderID)
}

// DeleteByOrder 删除订单的全部发货单
func (s *ShipmentService) DeleteByOrder(orderID uint) error {
	if s == nil {
		return nil
	}
	return s.shipments.DeleteByOrder(orderID)
}

// VendorEarnings 计算发货单的供应商收益：
// Σ (商品成本 + 包装成本 × 配置比例) × 数量
func (s *ShipmentService) VendorEarnings(items []models.OrderItem) (decimal.Decimal, error) {
	total := decimal.Zero
	if s == nil || len(items) == 0 {
		return total, nil
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetByIDs(ids)
	if err != nil {
		return decimal.Zero, err
	}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		unit := product.CostAmount.Decimal.
			Add(product.PackagingCost.Decimal.Mul(s.packagingShare))
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2), nil
}

// shipmentStatusFor 新建发货单的初始状态取当前订单状态；
// 订单尚未进入支付流程时落在 created。
func shipmentStatusFor(orderStatus string) string {
	switch orderStatus {
	case constants.OrderStatusPaymentConfirmed,
		constants.OrderStatusParcelPrepared,
		constants.OrderStatusShipping,
		constants.OrderStatusDelivered,
		constants.OrderStatusCanceled:
		return orderStatus
	default:
		return constants.ShipmentStatusCreated
	}
}
