package service

import (
	"fmt"
	"strings"

	"github.com/fenxiao-mall/internal/constants"
	"github.com/fenxiao-mall/internal/models"
	"github.com/fenxiao-mall/internal/repository"

	"github.com/shopspring/decimal"
)

// CatalogService 商品与供应商维护（管理端）
type CatalogService struct {
	products repository.ProductRepository
	vendors  repository.VendorRepository
}

// NewCatalogService 创建商品服务
func NewCatalogService(products repository.ProductRepository, vendors repository.VendorRepository) *CatalogService {
	return &CatalogService{products: products, vendors: vendors}
}

// CreateVendorInput 创建供应商输入
type CreateVendorInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateVendor 创建供应商
func (s *CatalogService) CreateVendor(input CreateVendorInput) (*models.Vendor, error) {
	vendor := &models.Vendor{
		Name:   strings.TrimSpace(input.Name),
		Status: constants.VendorStatusActive,
	}
	if err := s.vendors.Create(vendor); err != nil {
		return nil, storeErr(err)
	}
	return vendor, nil
}

// GetVendor 按 ID 获取供应商
func (s *CatalogService) GetVendor(id uint) (*models.Vendor, error) {
	vendor, err := s.vendors.GetByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if vendor == nil {
		return nil, ErrNotFound
	}
	return vendor, nil
}

// ListVendors 分页查询供应商
func (s *CatalogService) ListVendors(filter repository.VendorListFilter) ([]models.Vendor, int64, error) {
	rows, total, err := s.vendors.List(filter)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	return rows, total, nil
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	VendorID         uint    `json:"vendor_id"`
	Title            string  `json:"title" binding:"required"`
	Unit             string  `json:"unit"`
	PriceAmount      string  `json:"price_amount" binding:"required"`
	CostAmount       string  `json:"cost_amount"`
	PackagingCost    string  `json:"packaging_cost"`
	AffiliatePercent float64 `json:"affiliate_percent"`
}

// CreateProduct 创建商品；vendor_id 为 0 表示平台自营
func (s *CatalogService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	if input.VendorID != constants.PlatformVendorID {
		if _, err := s.GetVendor(input.VendorID); err != nil {
			return nil, err
		}
	}

	price, err := parseAmount(input.PriceAmount)
	if err != nil {
		return nil, err
	}
	cost, err := parseAmount(input.CostAmount)
	if err != nil {
		return nil, err
	}
	packaging, err := parseAmount(input.PackagingCost)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		VendorID:         input.VendorID,
		Title:            strings.TrimSpace(input.Title),
		Unit:             strings.TrimSpace(input.Unit),
		PriceAmount:      models.NewMoneyFromDecimal(price),
		CostAmount:       models.NewMoneyFromDecimal(cost),
		PackagingCost:    models.NewMoneyFromDecimal(packaging),
		AffiliatePercent: models.NewMoneyFromDecimal(decimal.NewFromFloat(input.AffiliatePercent)),
		IsActive:         true,
	}
	if err := s.products.Create(product); err != nil {
		return nil, storeErr(err)
	}
	return product, nil
}

// GetProduct 按 ID 获取商品
func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// parseAmount 解析金额字符串，空串视为 0
func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q must not be negative", ErrInvalidAmount, raw)
	}
	return amount, nil
}
