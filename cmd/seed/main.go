package main

import (
	"github.com/fenxiao-mall/internal/config"
	"github.com/fenxiao-mall/internal/constants"
	"github.com/fenxiao-mall/internal/logger"
	"github.com/fenxiao-mall/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 供应商
	vendors := []models.Vendor{
		{Name: "华东仓储", Status: constants.VendorStatusActive},
		{Name: "华南仓储", Status: constants.VendorStatusActive},
	}
	vendorIDs := make([]uint, 0, len(vendors))
	for i := range vendors {
		vendor := vendors[i]
		var existing models.Vendor
		if err := models.DB.Where("name = ?", vendor.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&vendor).Error; err != nil {
				stdLog.Fatalf("Failed to create vendor %s: %v", vendor.Name, err)
			}
			stdLog.Printf("Created vendor: %s", vendor.Name)
			vendorIDs = append(vendorIDs, vendor.ID)
		} else {
			stdLog.Printf("Vendor already exists: %s", existing.Name)
			vendorIDs = append(vendorIDs, existing.ID)
		}
	}

	// 商品
	products := []models.Product{
		{
			VendorID:      vendorIDs[0],
			Title:         "无线蓝牙耳机",
			Unit:          "副",
			PriceAmount:   money(1000),
			CostAmount:    money(100),
			PackagingCost: money(50),
			IsActive:      true,
		},
		{
			VendorID:      vendorIDs[1],
			Title:         "便携保温杯",
			Unit:          "只",
			PriceAmount:   money(120),
			CostAmount:    money(40),
			PackagingCost: money(10),
			IsActive:      true,
		},
		{
			VendorID:      constants.PlatformVendorID,
			Title:         "会员礼包卡",
			Unit:          "张",
			PriceAmount:   money(50),
			CostAmount:    money(5),
			PackagingCost: money(0),
			IsActive:      true,
		},
	}
	for i := range products {
		product := products[i]
		var existing models.Product
		if err := models.DB.Where("title = ?", product.Title).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Title, err)
			} else {
				stdLog.Printf("Created product: %s", product.Title)
			}
		} else {
			stdLog.Printf("Product already exists: %s", existing.Title)
		}
	}

	// 分销用户：三级链路 + 一个右子节点
	root := seedAffiliate(stdLog, "陈远航", "chenyh@example.com", "ROOT8888", nil, "")
	if root != nil {
		level1 := seedAffiliate(stdLog, "林一苇", "linyw@example.com", "LIN11111", &root.ID, constants.TreePositionLeft)
		seedAffiliate(stdLog, "赵思敏", "zhaosm@example.com", "ZHAO2222", &root.ID, constants.TreePositionRight)
		if level1 != nil {
			level2 := seedAffiliate(stdLog, "王可成", "wangkc@example.com", "WANG3333", &level1.ID, constants.TreePositionLeft)
			if level2 != nil {
				seedAffiliate(stdLog, "周海明", "zhouhm@example.com", "ZHOU4444", &level2.ID, constants.TreePositionLeft)
			}
		}
	}

	stdLog.Printf("Seed finished")
}

func seedAffiliate(stdLog interface{ Printf(string, ...interface{}) }, name, email, code string, parentID *uint, position string) *models.Affiliate {
	var existing models.Affiliate
	if err := models.DB.Where("referral_code = ?", code).First(&existing).Error; err == nil {
		stdLog.Printf("Affiliate already exists: %s", code)
		return &existing
	}
	affiliate := models.Affiliate{
		Name:         name,
		Email:        email,
		ReferralCode: code,
		Status:       constants.AffiliateStatusActive,
		ParentID:     parentID,
		Position:     position,
	}
	if err := models.DB.Create(&affiliate).Error; err != nil {
		stdLog.Printf("Failed to create affiliate %s: %v", code, err)
		return nil
	}
	stdLog.Printf("Created affiliate: %s (%s)", name, code)
	return &affiliate
}

func money(amount float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(amount))
}
