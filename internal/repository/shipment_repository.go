package repository

import (
	"errors"

	"github.com/fenxiao-mall/internal/models"

	"gorm.io/gorm"
)

// ShipmentRepository 发货单数据访问接口
type ShipmentRepository interface {
	WithTx(tx *gorm.DB) ShipmentRepository

	Create(shipment *models.Shipment) error
	GetByOrderAndVendor(orderID, vendorID uint) (*models.Shipment, error)
	ListByOrder(orderID uint) ([]models.Shipment, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	AssignItems(shipmentID uint, itemIDs []uint) error
	ListItems(shipmentID uint) ([]models.OrderItem, error)
	DeleteByOrder(orderID uint) error
}

// GormShipmentRepository GORM 发货单仓储
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewShipmentRepository 创建发货单仓储
func NewShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormShipmentRepository) WithTx(tx *gorm.DB) ShipmentRepository {
	if tx == nil {
		return r
	}
	return &GormShipmentRepository{db: tx}
}

// Create 创建发货单；(order, vendor) 唯一索引保证同一供应商不重复建单
func (r *GormShipmentRepository) Create(shipment *models.Shipment) error {
	return r.db.Create(shipment).Error
}

// GetByOrderAndVendor 获取订单下指定供应商的发货单
func (r *GormShipmentRepository) GetByOrderAndVendor(orderID, vendorID uint) (*models.Shipment, error) {
	if orderID == 0 {
		return nil, nil
	}
	var shipment models.Shipment
	if err := r.db.Where("order_id = ? AND vendor_id = ?", orderID, vendorID).First(&shipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shipment, nil
}

// ListByOrder 获取订单的全部发货单（含订单项）
func (r *GormShipmentRepository) ListByOrder(orderID uint) ([]models.Shipment, error) {
	if orderID == 0 {
		return []models.Shipment{}, nil
	}
	var rows []models.Shipment
	if err := r.db.Preload("Items").Where("order_id = ?", orderID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus 更新发货单状态
func (r *GormShipmentRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if id == 0 {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Shipment{}).Where("id = ?", id).Updates(updates).Error
}

// AssignItems 将订单项挂到发货单（拆单回填）
func (r *GormShipmentRepository) AssignItems(shipmentID uint, itemIDs []uint) error {
	if shipmentID == 0 || len(itemIDs) == 0 {
		return nil
	}
	return r.db.Model(&models.OrderItem{}).Where("id IN ?", itemIDs).
		Update("shipment_id", shipmentID).Error
}

// ListItems 获取发货单覆盖的订单项
func (r *GormShipmentRepository) ListItems(shipmentID uint) ([]models.OrderItem, error) {
	if shipmentID == 0 {
		return []models.OrderItem{}, nil
	}
	var items []models.OrderItem
	if err := r.db.Where("shipment_id = ?", shipmentID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteByOrder 删除订单的全部发货单
func (r *GormShipmentRepository) DeleteByOrder(orderID uint) error {
	if orderID == 0 {
		return nil
	}
	return r.db.Where("order_id = ?", orderID).Delete(&models.Shipment{}).Error
}
