package provider

import (
	"github.com/fenxiao-mall/internal/cache"
	"github.com/fenxiao-mall/internal/config"
	"github.com/fenxiao-mall/internal/logger"
	"github.com/fenxiao-mall/internal/models"
	"github.com/fenxiao-mall/internal/queue"
	"github.com/fenxiao-mall/internal/repository"
	"github.com/fenxiao-mall/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	OrderRepo      repository.OrderRepository
	ShipmentRepo   repository.ShipmentRepository
	ProductRepo    repository.ProductRepository
	AffiliateRepo  repository.AffiliateRepository
	VendorRepo     repository.VendorRepository
	CommissionRepo repository.CommissionRepository

	// Services
	AuthService      *service.AuthService
	OrderService     *service.OrderService
	AffiliateService *service.AffiliateService
	CatalogService   *service.CatalogService
	ShipmentService  *service.ShipmentService
	CommissionLedger *service.Ledger
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ShipmentRepo = repository.NewShipmentRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.VendorRepo = repository.NewVendorRepository(db)
	c.CommissionRepo = repository.NewCommissionRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.AuthService = service.NewAuthService(cfg, c.AdminRepo)

	ledger := service.NewLedger(c.AffiliateRepo, c.VendorRepo)
	tree := service.NewTreeResolver(c.AffiliateRepo)
	calculator := service.NewCommissionCalculator(c.ProductRepo, cfg.Commission)
	shipments := service.NewShipmentService(c.ShipmentRepo, c.ProductRepo, ledger, cfg.Commission)

	var notifier service.StatusNotifier
	if c.QueueClient != nil && c.QueueClient.Enabled() {
		notifier = c.QueueClient
	}

	c.CommissionLedger = ledger
	c.ShipmentService = shipments
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.AffiliateRepo,
		c.CommissionRepo,
		calculator,
		tree,
		ledger,
		shipments,
		notifier,
	)
	c.AffiliateService = service.NewAffiliateService(c.AffiliateRepo, tree)
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.VendorRepo)
}
