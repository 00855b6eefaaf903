package router

import (
	"fmt"
	"time"

	"github.com/ml-muebles/storefront/internal/cache"
	"github.com/ml-muebles/storefront/internal/config"
	publichandlers "github.com/ml-muebles/storefront/internal/http/handlers/public"
	"github.com/ml-muebles/storefront/internal/logger"
	"github.com/ml-muebles/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisClient := cache.Client()
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", cache.Prefix()),
		WindowSeconds: cfg.Checkout.RateLimit.WindowSeconds,
		MaxRequests:   cfg.Checkout.RateLimit.MaxRequests,
		BlockSeconds:  cfg.Checkout.RateLimit.BlockSeconds,
		MessageKey:    "error.too_many_requests",
	}
	session := SessionMiddleware(SessionOptions{
		CookieName: cfg.Storefront.SessionCookie,
		MaxAge:     time.Duration(cfg.Storefront.SessionMaxAgeDays) * 24 * time.Hour,
		Secure:     cfg.Storefront.SessionSecure,
	})

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(LocaleMiddleware())

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 目录接口（无需会话）
		public := apiV1.Group("/public")
		{
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/categories/:slug", publicHandler.GetCategoryPage)
			public.GET("/products/:slug", publicHandler.GetProduct)
			public.GET("/products/:slug/selection", publicHandler.GetSelectionState)
			public.GET("/search", publicHandler.SearchProducts)
			public.GET("/variations/:id/depiction", publicHandler.GetVariationDepiction)
		}

		// 购物会话接口
		shop := apiV1.Group("")
		shop.Use(session)
		{
			shop.GET("/cart", publicHandler.GetCart)
			shop.DELETE("/cart", publicHandler.ClearCart)
			shop.POST("/cart/items", publicHandler.AddCartItem)
			shop.PUT("/cart/items/:line_id", publicHandler.UpdateCartItem)
			shop.DELETE("/cart/items/:line_id", publicHandler.DeleteCartItem)
			shop.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyBySession), publicHandler.SubmitCheckout)
			shop.GET("/checkout/attempts", publicHandler.ListCheckoutAttempts)
			shop.GET("/checkout/attempts/:attempt_id", publicHandler.GetCheckoutAttempt)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
