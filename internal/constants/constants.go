package constants

// 队列与任务常量
const (
	QueueDefault              = "default"
	TaskCheckoutOrphanCleanup = "checkout:orphan_cleanup"
)

// 购物车存储驱动
const (
	CartDriverDatabase = "database"
	CartDriverRedis    = "redis"
	CartDriverMemory   = "memory"
)

// 上下文键
const (
	ContextKeyRequestID = "request_id"
	ContextKeySession   = "storefront_session"
	ContextKeyLocale    = "storefront_locale"
)

// 请求头
const (
	HeaderRequestID = "X-Request-ID"
	HeaderSession   = "X-Storefront-Session"
)
