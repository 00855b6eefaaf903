package provider

import (
	"github.com/ml-muebles/storefront/internal/cache"
	"github.com/ml-muebles/storefront/internal/cart"
	"github.com/ml-muebles/storefront/internal/checkout"
	"github.com/ml-muebles/storefront/internal/config"
	"github.com/ml-muebles/storefront/internal/constants"
	"github.com/ml-muebles/storefront/internal/depiction"
	"github.com/ml-muebles/storefront/internal/logger"
	"github.com/ml-muebles/storefront/internal/models"
	"github.com/ml-muebles/storefront/internal/queue"
	"github.com/ml-muebles/storefront/internal/repository"
	"github.com/ml-muebles/storefront/internal/service"
	"github.com/ml-muebles/storefront/internal/woocommerce"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Store       *woocommerce.Client

	// Repositories
	CartRepo            repository.CartRepository
	CheckoutAttemptRepo repository.CheckoutAttemptRepository

	// Cart
	CartRegistry *cart.Registry

	// Services
	CatalogService   *service.CatalogService
	CartService      *service.CartService
	CheckoutService  *service.CheckoutService
	OrphanService    *service.OrphanService
	DepictionService *depiction.Service
	Synchronizer     *checkout.Synchronizer
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	store, err := woocommerce.New(woocommerce.Config{
		BaseURL:     cfg.WooCommerce.BaseURL,
		APIPath:     cfg.WooCommerce.APIPath,
		Timeout:     cfg.WooCommerce.Timeout(),
		UserAgent:   cfg.WooCommerce.UserAgent,
		SearchLimit: cfg.WooCommerce.SearchLimit,
		PerPage:     cfg.WooCommerce.PerPage,
	})
	if err != nil {
		logger.Errorw("provider_init_store_client_failed", "error", err)
		panic(err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Store:       store,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化购物车注册表
	c.initCartRegistry()

	// 3. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	if db == nil {
		return
	}
	c.CartRepo = repository.NewCartRepository(db)
	c.CheckoutAttemptRepo = repository.NewCheckoutAttemptRepository(db)
}

func (c *Container) initCartRegistry() {
	storageCfg := c.Config.Storage
	var storage cart.Storage
	switch storageCfg.CartDriver {
	case constants.CartDriverRedis:
		if cache.Enabled() {
			storage = cache.NewCartStorage(storageCfg.CartTTL())
		} else {
			logger.Warnw("provider_cart_redis_unavailable", "fallback", constants.CartDriverMemory)
		}
	case constants.CartDriverDatabase:
		if c.CartRepo != nil {
			storage = repository.NewCartStorage(c.CartRepo)
		} else {
			logger.Warnw("provider_cart_database_unavailable", "fallback", constants.CartDriverMemory)
		}
	}
	if storage == nil {
		storage = cart.NewMemoryStorage()
	}

	registry, err := cart.NewRegistry(storage, storageCfg.RegistrySize, storageCfg.KeyPrefix,
		cart.WithFormat(c.Config.Storefront.MoneyFormat()),
		cart.WithLogger(logger.Named("cart")),
	)
	if err != nil {
		logger.Errorw("provider_init_cart_registry_failed", "error", err)
		panic(err)
	}
	c.CartRegistry = registry
}

func (c *Container) initServices() {
	cfg := c.Config

	var depictionCache depiction.Cache
	if cache.Enabled() {
		depictionCache = cache.JSONCache{}
	}
	// 变体无图时还要读取父商品，共两次请求
	depictions, err := depiction.NewService(c.Store, depictionCache, depiction.Options{
		TTL:          cfg.Depiction.CacheTTL(),
		MemoSize:     cfg.Depiction.MemoSize,
		FetchTimeout: 2 * cfg.WooCommerce.Timeout(),
		Logger:       logger.Named("depiction"),
	})
	if err != nil {
		logger.Errorw("provider_init_depiction_failed", "error", err)
		panic(err)
	}
	c.DepictionService = depictions

	productCacheTTL := cfg.Storefront.ProductCacheTTL()
	if !cache.Enabled() {
		productCacheTTL = 0
	}
	c.CatalogService = service.NewCatalogService(c.Store, service.CatalogOptions{
		Format:           cfg.Storefront.MoneyFormat(),
		CategoryOrder:    cfg.Storefront.CategoryOrder,
		SubcategoryOrder: cfg.Storefront.SubcategoryOrder,
		RelatedLimit:     cfg.Storefront.RelatedLimit,
		CacheTTL:         productCacheTTL,
	})
	c.CartService = service.NewCartService(c.CartRegistry, c.CatalogService, c.DepictionService)

	var orphanQueue service.OrphanQueue
	if c.QueueClient != nil {
		orphanQueue = c.QueueClient
	}
	c.OrphanService = service.NewOrphanService(orphanQueue, c.Store, c.CheckoutAttemptRepo, cfg.Checkout.OrphanCleanupDelay())

	c.Synchronizer = checkout.NewSynchronizer(c.Store, checkout.Options{
		Timeout:  cfg.Checkout.Timeout(),
		Reporter: c.OrphanService,
		Logger:   logger.Named("checkout"),
	})
	c.CheckoutService = service.NewCheckoutService(c.CartService, c.Synchronizer, c.CheckoutAttemptRepo, service.CheckoutOptions{
		Country:              cfg.Storefront.Country,
		DefaultPaymentMethod: cfg.Checkout.DefaultPaymentMethod,
		AllowedMethods:       cfg.Checkout.AllowedMethods,
	})
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
