package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ml-muebles/storefront/internal/logger"
	"github.com/ml-muebles/storefront/internal/money"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Queue       QueueConfig       `mapstructure:"queue"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Storage     StorageConfig     `mapstructure:"storage"`
	WooCommerce WooCommerceConfig `mapstructure:"woocommerce"`
	Storefront  StorefrontConfig  `mapstructure:"storefront"`
	Checkout    CheckoutConfig    `mapstructure:"checkout"`
	Depiction   DepictionConfig   `mapstructure:"depiction"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// StorageConfig 购物车持久化配置
type StorageConfig struct {
	CartDriver   string `mapstructure:"cart_driver"` // database / redis / memory
	KeyPrefix    string `mapstructure:"key_prefix"`
	RegistrySize int    `mapstructure:"registry_size"`
	CartTTLHours int    `mapstructure:"cart_ttl_hours"` // redis 过期 / 数据库定期清理
}

// CartTTL 购物车闲置保留时长
func (c StorageConfig) CartTTL() time.Duration {
	if c.CartTTLHours <= 0 {
		return 0
	}
	return time.Duration(c.CartTTLHours) * time.Hour
}

// WooCommerceConfig 商品与下单后端配置
type WooCommerceConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIPath     string `mapstructure:"api_path"`
	TimeoutMS   int    `mapstructure:"timeout_ms"`
	PerPage     int    `mapstructure:"per_page"`
	SearchLimit int    `mapstructure:"search_limit"`
	UserAgent   string `mapstructure:"user_agent"`
}

// Timeout 单次请求超时
func (c WooCommerceConfig) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// StorefrontConfig 店铺展示配置
type StorefrontConfig struct {
	Locale             string         `mapstructure:"locale"`
	Country            string         `mapstructure:"country"`
	ThousandSeparator  string         `mapstructure:"thousand_separator"`
	DecimalSeparator   string         `mapstructure:"decimal_separator"`
	PriceDecimals      int32          `mapstructure:"price_decimals"`
	SessionCookie      string         `mapstructure:"session_cookie"`
	SessionMaxAgeDays  int            `mapstructure:"session_max_age_days"`
	SessionSecure      bool           `mapstructure:"session_secure"`
	CategoryOrder      map[string]int `mapstructure:"category_order"`
	SubcategoryOrder   map[string]int `mapstructure:"subcategory_order"`
	RelatedLimit       int            `mapstructure:"related_limit"`
	ProductCacheSecond int            `mapstructure:"product_cache_seconds"`
}

// MoneyFormat 金额展示格式
func (c StorefrontConfig) MoneyFormat() money.Format {
	return money.Format{
		ThousandSep: c.ThousandSeparator,
		DecimalSep:  c.DecimalSeparator,
		Decimals:    c.PriceDecimals,
	}.Normalize()
}

// ProductCacheTTL 商品详情缓存时长
func (c StorefrontConfig) ProductCacheTTL() time.Duration {
	if c.ProductCacheSecond <= 0 {
		return 0
	}
	return time.Duration(c.ProductCacheSecond) * time.Second
}

// CheckoutConfig 结账配置
type CheckoutConfig struct {
	TimeoutSeconds       int                 `mapstructure:"timeout_seconds"`
	DefaultPaymentMethod string              `mapstructure:"default_payment_method"`
	AllowedMethods       []string            `mapstructure:"allowed_methods"`
	OrphanCleanupSeconds int                 `mapstructure:"orphan_cleanup_seconds"`
	RateLimit            CheckoutLimitConfig `mapstructure:"rate_limit"`
}

// CheckoutLimitConfig 结账限流
type CheckoutLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// Timeout 整个下单流程的超时
func (c CheckoutConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OrphanCleanupDelay 遗留远端购物车的清理延迟
func (c CheckoutConfig) OrphanCleanupDelay() time.Duration {
	if c.OrphanCleanupSeconds < 0 {
		return 0
	}
	return time.Duration(c.OrphanCleanupSeconds) * time.Second
}

// DepictionConfig 变体展示图缓存配置
type DepictionConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
	MemoSize        int `mapstructure:"memo_size"`
}

// CacheTTL 共享缓存时长
func (c DepictionConfig) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Load 从 config.yml 加载配置
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("./")    // 备用路径
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	setDefaults(viper.GetViper())

	// 环境变量支持
	viper.AutomaticEnv()                                   // 自动读取环境变量
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 server.port -> SERVER_PORT)

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/storefront.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "ml")
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("storage.cart_driver", "database")
	v.SetDefault("storage.key_prefix", "ml-cart")
	v.SetDefault("storage.registry_size", 4096)
	v.SetDefault("storage.cart_ttl_hours", 720)
	v.SetDefault("woocommerce.base_url", "")
	v.SetDefault("woocommerce.api_path", "/wp-json/wc/store/v1")
	v.SetDefault("woocommerce.timeout_ms", 15000)
	v.SetDefault("woocommerce.per_page", 100)
	v.SetDefault("woocommerce.search_limit", 10)
	v.SetDefault("woocommerce.user_agent", "ml-storefront/1.0")
	v.SetDefault("storefront.locale", "es-CL")
	v.SetDefault("storefront.country", "CL")
	v.SetDefault("storefront.thousand_separator", ".")
	v.SetDefault("storefront.decimal_separator", ",")
	v.SetDefault("storefront.price_decimals", 0)
	v.SetDefault("storefront.session_cookie", "ml_session")
	v.SetDefault("storefront.session_max_age_days", 30)
	v.SetDefault("storefront.session_secure", false)
	v.SetDefault("storefront.category_order", map[string]int{
		"seccionales": 1,
		"sofas":       2,
		"poltronas":   3,
		"pouf":        4,
		"camas":       5,
	})
	v.SetDefault("storefront.subcategory_order", map[string]int{
		"seccional-funcional":              1,
		"seccional-latina":                 2,
		"seccional-mustang":                3,
		"seccional-mustang-intercambiable": 4,
		"otros-seccionales":                5,
		"sofa-living":                      1,
		"sofa-cama-funcional":              2,
	})
	v.SetDefault("storefront.related_limit", 4)
	v.SetDefault("storefront.product_cache_seconds", 60)
	v.SetDefault("checkout.timeout_seconds", 45)
	v.SetDefault("checkout.default_payment_method", "bacs")
	v.SetDefault("checkout.allowed_methods", []string{"bacs", "cod", "webpay", "flow"})
	v.SetDefault("checkout.orphan_cleanup_seconds", 300)
	v.SetDefault("checkout.rate_limit.window_seconds", 60)
	v.SetDefault("checkout.rate_limit.max_requests", 5)
	v.SetDefault("checkout.rate_limit.block_seconds", 120)
	v.SetDefault("depiction.cache_ttl_seconds", 3600)
	v.SetDefault("depiction.memo_size", 1024)
}
