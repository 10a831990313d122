package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/fenxiao-mall/internal/constants"
	"github.com/fenxiao-mall/internal/logger"
	"github.com/fenxiao-mall/internal/models"
	"github.com/fenxiao-mall/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderStatuses 合法订单状态全集
var orderStatuses = map[string]bool{
	constants.OrderStatusCreated:             true,
	constants.OrderStatusPendingVerification: true,
	constants.OrderStatusPaymentConfirmed:    true,
	constants.OrderStatusParcelPrepared:      true,
	constants.OrderStatusShipping:            true,
	constants.OrderStatusDelivered:           true,
	constants.OrderStatusCanceled:            true,
}

// paidOrderStatuses 已支付状态集：进入即触发计佣与拆单
var paidOrderStatuses = map[string]bool{
	constants.OrderStatusPaymentConfirmed: true,
	constants.OrderStatusParcelPrepared:   true,
	constants.OrderStatusShipping:         true,
	constants.OrderStatusDelivered:        true,
}

// cascadeOrderStatuses 需要级联到发货单的状态集
var cascadeOrderStatuses = map[string]bool{
	constants.OrderStatusPaymentConfirmed: true,
	constants.OrderStatusParcelPrepared:   true,
	constants.OrderStatusShipping:         true,
	constants.OrderStatusDelivered:        true,
	constants.OrderStatusCanceled:         true,
}

// StatusNotifier 状态变更通知出口（由队列实现，可为空）
type StatusNotifier interface {
	NotifyOrderStatusChanged(orderID uint, orderNo, oldStatus, newStatus string) error
}

// OrderService 订单状态机：校验状态迁移，并按固定顺序
// 编排计佣、确认/降级、拆单、级联、逆向六类副作用。
//
// 副作用步骤之间不共享事务：先落订单行，再逐步执行副作用，
// 某一步失败只记警告、不回滚已完成的步骤，依赖各步骤自身的
// 幂等性支持重放同一迁移来补齐。计佣与逆向两步内部各自走
// 单事务，流水、台账与推广统计要么同时落库要么同时回滚。
type OrderService struct {
	orders      repository.OrderRepository
	affiliates  repository.AffiliateRepository
	commissions repository.CommissionRepository
	calculator  *CommissionCalculator
	tree        *TreeResolver
	ledger      *Ledger
	shipments   *ShipmentService
	notifier    StatusNotifier
}

// NewOrderService 创建订单状态机
func NewOrderService(
	orders repository.OrderRepository,
	affiliates repository.AffiliateRepository,
	commissions repository.CommissionRepository,
	calculator *CommissionCalculator,
	tree *TreeResolver,
	ledger *Ledger,
	shipments *ShipmentService,
	notifier StatusNotifier,
) *OrderService {
	return &OrderService{
		orders:      orders,
		affiliates:  affiliates,
		commissions: commissions,
		calculator:  calculator,
		tree:        tree,
		ledger:      ledger,
		shipments:   shipments,
		notifier:    notifier,
	}
}

// CreateOrderItemInput 下单的订单项输入
type CreateOrderItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	ReferralCode string                 `json:"referral_code"`
	Currency     string                 `json:"currency"`
	Items        []CreateOrderItemInput `json:"items" binding:"required,min=1"`
}

// CreateOrder 创建订单：校验分销码与商品，快照商品标题、
// 单价与履约供应商到订单项上，初始状态为 created。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order requires at least one item", ErrInvalidStatus)
	}

	code := strings.TrimSpace(input.ReferralCode)
	if code != "" {
		affiliate, err := s.affiliates.GetByReferralCode(code)
		if err != nil {
			return nil, storeErr(err)
		}
		if affiliate == nil {
			return nil, ErrAffiliateCodeInvalid
		}
		code = affiliate.ReferralCode
	}

	ids := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.calculator.products.GetByIDs(ids)
	if err != nil {
		return nil, storeErr(err)
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	total := decimal.Zero
	for _, in := range input.Items {
		product, ok := products[in.ProductID]
		if !ok || !product.IsActive {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, in.ProductID)
		}
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidStatus)
		}
		lineTotal := product.PriceAmount.Decimal.Mul(decimal.NewFromInt(int64(in.Quantity)))
		items = append(items, models.OrderItem{
			ProductID:  product.ID,
			VendorID:   product.VendorID,
			Title:      product.Title,
			Unit:       product.Unit,
			UnitPrice:  product.PriceAmount,
			Quantity:   in.Quantity,
			TotalPrice: models.NewMoneyFromDecimal(lineTotal),
		})
		total = total.Add(lineTotal)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "CNY"
	}

	order := &models.Order{
		OrderNo:      generateOrderNo(),
		Status:       constants.OrderStatusCreated,
		ReferralCode: code,
		Currency:     currency,
		TotalAmount:  models.NewMoneyFromDecimal(total),
	}
	if err := s.orders.Create(order, items); err != nil {
		return nil, storeErr(err)
	}
	order.Items = items

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"total_amount", order.TotalAmount.String(),
		"referral_code", order.ReferralCode,
	)
	return order, nil
}

// GetOrder 读取订单与发货单。发货单查询失败时降级为空列表，
// 不让整个读取失败。
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	shipments, err := s.shipments.ListByOrder(order.ID)
	if err != nil {
		logger.Warnw("order_shipments_degraded",
			"order_id", order.ID,
			"error", err.Error(),
		)
		shipments = []models.Shipment{}
	}
	order.Shipments = shipments
	return order, nil
}

// ListOrders 分页查询订单
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	rows, total, err := s.orders.List(filter)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	return rows, total, nil
}

// UpdateOrderStatus 状态机入口：带乐观并发校验地迁移订单状态，
// 然后按固定顺序执行副作用。订单行更新成功即视为迁移成功，
// 副作用失败以警告返回，留待重放同一迁移补齐。
func (s *OrderService) UpdateOrderStatus(id uint, next string) (*models.Order, []string, error) {
	next = strings.TrimSpace(next)
	if !orderStatuses[next] {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidStatus, next)
	}

	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, nil, storeErr(err)
	}
	if order == nil {
		return nil, nil, ErrNotFound
	}
	old := order.Status
	if old == constants.OrderStatusCanceled {
		return nil, nil, fmt.Errorf("%w: order already canceled", ErrInvalidStatus)
	}

	now := time.Now()
	updates := map[string]interface{}{}
	switch next {
	case constants.OrderStatusPaymentConfirmed:
		if order.PaidAt == nil {
			updates["paid_at"] = &now
		}
	case constants.OrderStatusDelivered:
		updates["delivered_at"] = &now
	case constants.OrderStatusCanceled:
		updates["canceled_at"] = &now
	}

	hit, err := s.orders.UpdateStatusIf(id, old, next, updates)
	if err != nil {
		return nil, nil, storeErr(err)
	}
	if !hit {
		return nil, nil, ErrStatusConflict
	}
	order.Status = next

	warnings := s.applyTransitionEffects(order, old, next)

	if s.notifier != nil {
		if err := s.notifier.NotifyOrderStatusChanged(order.ID, order.OrderNo, old, next); err != nil {
			logger.Warnw("order_status_notify_failed",
				"order_id", order.ID,
				"error", err.Error(),
			)
		}
	}

	// 重读以带回副作用回填的字段（订单项的发货单归属等）
	fresh, err := s.orders.GetByID(id)
	if err == nil && fresh != nil {
		order = fresh
	}
	return order, warnings, nil
}

// DeleteOrder 删除订单：先做完整的佣金与供应商收益逆向，
// 再移除订单、订单项、发货单与佣金流水。
func (s *OrderService) DeleteOrder(id uint) error {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return storeErr(err)
	}
	if order == nil {
		return ErrNotFound
	}

	if order.ReferralCode != "" {
		from := BalancePending
		if order.Status == constants.OrderStatusDelivered {
			from = BalanceAvailable
		}
		if err := s.rollbackCommissions(order, from); err != nil {
			return storeErr(err)
		}
	}

	shipments, err := s.shipments.ListByOrder(order.ID)
	if err != nil {
		return storeErr(err)
	}
	for i := range shipments {
		shipment := shipments[i]
		if shipment.Status != constants.ShipmentStatusDelivered {
			continue
		}
		if shipment.VendorID == constants.PlatformVendorID {
			continue
		}
		earnings, err := s.shipments.VendorEarnings(shipment.Items)
		if err != nil {
			return storeErr(err)
		}
		if earnings.GreaterThan(decimal.Zero) {
			if err := s.ledger.ReverseVendor(shipment.VendorID, earnings); err != nil {
				return storeErr(err)
			}
		}
	}

	if err := s.shipments.DeleteByOrder(order.ID); err != nil {
		return storeErr(err)
	}
	if _, err := s.commissions.DeleteByOrder(order.ID); err != nil {
		return storeErr(err)
	}
	if err := s.orders.Delete(order.ID); err != nil {
		return storeErr(err)
	}

	logger.Infow("order_deleted", "order_id", order.ID, "order_no", order.OrderNo)
	return nil
}

// transitionEffect 一步副作用：enabled 由 (old, new) 对决定
type transitionEffect struct {
	name    string
	enabled bool
	run     func() error
}

// applyTransitionEffects 按固定顺序执行副作用。
// 每步独立幂等：单步失败记警告后继续执行后续步骤。
func (s *OrderService) applyTransitionEffects(order *models.Order, old, next string) []string {
	effects := []transitionEffect{
		{
			name:    "commission_accrual",
			enabled: paidOrderStatuses[next],
			run:     func() error { return s.accrueCommissions(order) },
		},
		{
			name: "commission_confirmation",
			enabled: next == constants.OrderStatusDelivered &&
				old != constants.OrderStatusDelivered,
			run: func() error { return s.confirmCommissions(order.ID) },
		},
		{
			name: "commission_demotion",
			enabled: old == constants.OrderStatusDelivered &&
				next != constants.OrderStatusDelivered &&
				next != constants.OrderStatusCanceled,
			run: func() error { return s.demoteCommissions(order.ID) },
		},
		{
			name:    "shipment_materialization",
			enabled: paidOrderStatuses[next],
			// 新建发货单以旧状态起步，交由级联步骤推进到新状态，
			// 保证进入 delivered 的供应商入账不被跳过
			run: func() error { return s.shipments.EnsureShipments(order.ID, old, order.Items) },
		},
		{
			name:    "shipment_cascade",
			enabled: cascadeOrderStatuses[next],
			run:     func() error { return s.shipments.CascadeStatus(order.ID, next) },
		},
		{
			name: "commission_rollback",
			enabled: order.ReferralCode != "" &&
				((old == constants.OrderStatusDelivered && next != constants.OrderStatusDelivered) ||
					next == constants.OrderStatusCanceled),
			run: func() error {
				// 降级步骤先于逆向执行：除 delivered→canceled 外，
				// 金额在逆向时已回到待确认余额
				from := BalancePending
				if old == constants.OrderStatusDelivered && next == constants.OrderStatusCanceled {
					from = BalanceAvailable
				}
				return s.rollbackCommissions(order, from)
			},
		},
	}

	var warnings []string
	for _, effect := range effects {
		if !effect.enabled {
			continue
		}
		if err := effect.run(); err != nil {
			logger.Warnw("order_transition_effect_failed",
				"order_id", order.ID,
				"effect", effect.name,
				"old_status", old,
				"new_status", next,
				"error", err.Error(),
			)
			warnings = append(warnings, fmt.Sprintf("%s: %v", effect.name, err))
		}
	}
	return warnings
}

// accrueCommissions 首次进入已支付状态时计佣：
// 订单已有佣金流水则整体跳过（幂等）。流水写入、台账入账与
// 推广统计在同一事务内提交，不会留下缺台账配对的流水。
// 推广统计只在直推份额实际产生时累计，与逆向侧的
// 直推流水判定保持对称。
func (s *OrderService) accrueCommissions(order *models.Order) error {
	if order.ReferralCode == "" {
		return nil
	}
	exists, err := s.commissions.ExistsByOrder(order.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	direct, err := s.affiliates.GetByReferralCode(order.ReferralCode)
	if err != nil {
		return err
	}
	if direct == nil {
		logger.Warnw("commission_referral_code_unresolved",
			"order_id", order.ID,
			"referral_code", order.ReferralCode,
		)
		return nil
	}

	upline, err := s.tree.Upline(direct)
	if err != nil {
		return err
	}
	pool, err := s.calculator.ProfitPool(order.Items)
	if err != nil {
		return err
	}
	shares := s.calculator.Shares(pool, direct, upline)
	if len(shares) == 0 {
		return nil
	}

	return s.affiliates.Transaction(func(tx *gorm.DB) error {
		commissions := s.commissions.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		hasDirectShare := false
		for _, share := range shares {
			txn := &models.CommissionTransaction{
				OrderID:     order.ID,
				AffiliateID: share.AffiliateID,
				Level:       share.Level.Code(),
				Amount:      models.NewMoneyFromDecimal(share.Amount),
			}
			if err := commissions.Create(txn); err != nil {
				return err
			}
			if err := ledger.Credit(share.AffiliateID, share.Level, share.Amount); err != nil {
				return err
			}
			if share.Level == LevelDirect {
				hasDirectShare = true
			}
		}
		if !hasDirectShare {
			return nil
		}
		return s.affiliates.WithTx(tx).AddOrderStats(direct.ID, 1, order.TotalAmount.Decimal)
	})
}

// confirmCommissions 送达确认：订单全部流水从待确认转入可提现
func (s *OrderService) confirmCommissions(orderID uint) error {
	txns, err := s.commissions.ListByOrder(orderID)
	if err != nil {
		return err
	}
	for _, txn := range txns {
		if err := s.ledger.Confirm(txn.AffiliateID, txn.Amount.Decimal); err != nil {
			return err
		}
	}
	return nil
}

// demoteCommissions 离开送达态：确认的逆操作
func (s *OrderService) demoteCommissions(orderID uint) error {
	txns, err := s.commissions.ListByOrder(orderID)
	if err != nil {
		return err
	}
	for _, txn := range txns {
		if err := s.ledger.Demote(txn.AffiliateID, txn.Amount.Decimal); err != nil {
			return err
		}
	}
	return nil
}

// rollbackCommissions 退出支付漏斗时的完整逆向：逐笔冲销流水金额、
// 删除流水，并回退直推分销用户的推广订单数与销售额。
// 统计归属取直推层级流水，与入账侧"仅直推份额产生时累计"对称；
// 冲销、删除与统计回退在同一事务内提交。
// 没有流水时按无操作处理，容忍此前的半程失败。
func (s *OrderService) rollbackCommissions(order *models.Order, from BalanceKind) error {
	txns, err := s.commissions.ListByOrder(order.ID)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		return nil
	}

	return s.affiliates.Transaction(func(tx *gorm.DB) error {
		ledger := s.ledger.WithTx(tx)

		var directID uint
		for _, txn := range txns {
			level, err := ParseCommissionLevel(txn.Level)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInconsistentState, err)
			}
			if level == LevelDirect {
				directID = txn.AffiliateID
			}
			if err := ledger.Reverse(txn.AffiliateID, level, txn.Amount.Decimal, from); err != nil {
				return err
			}
		}

		deleted, err := s.commissions.WithTx(tx).DeleteByOrder(order.ID)
		if err != nil {
			return err
		}
		if directID != 0 {
			if err := s.affiliates.WithTx(tx).AddOrderStats(directID, -1, order.TotalAmount.Decimal.Neg()); err != nil {
				return err
			}
		}

		logger.Infow("commission_rollback",
			"order_id", order.ID,
			"transactions", deleted,
			"from_balance", from.Column(),
		)
		return nil
	})
}

// storeErr 统一包装存储层失败
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreFailure, err)
}

// generateOrderNo 订单编号：时间前缀 + 随机后缀
func generateOrderNo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return time.Now().Format("20060102150405") + suffix
}
