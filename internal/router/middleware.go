package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ml-muebles/storefront/internal/config"
	"github.com/ml-muebles/storefront/internal/constants"
	"github.com/ml-muebles/storefront/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = constants.ContextKeyRequestID
const requestIDHeader = constants.HeaderRequestID

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Accept-Language",
			"Cache-Control",
			"X-Requested-With",
		}
	}
	allowedHeaders = appendHeaderOnce(allowedHeaders, constants.HeaderSession)
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", constants.HeaderSession+", "+requestIDHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func appendHeaderOnce(headers []string, header string) []string {
	for _, h := range headers {
		if strings.EqualFold(h, header) {
			return headers
		}
	}
	out := make([]string, 0, len(headers)+1)
	out = append(out, headers...)
	return append(out, header)
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LocaleMiddleware 协商响应语言并写入上下文
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.ResolveLocale(c)
		c.Set(constants.ContextKeyLocale, locale)
		c.Writer.Header().Set("Content-Language", locale)
		c.Next()
	}
}

// SessionOptions 购物会话 cookie 配置
type SessionOptions struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// SessionMiddleware 购物会话中间件：优先读取请求头，其次 cookie，都没有时签发新会话
func SessionMiddleware(opts SessionOptions) gin.HandlerFunc {
	name := strings.TrimSpace(opts.CookieName)
	if name == "" {
		name = "ml_session"
	}
	maxAge := int(opts.MaxAge / time.Second)
	return func(c *gin.Context) {
		session := normalizeSession(c.GetHeader(constants.HeaderSession))
		if session == "" {
			if raw, err := c.Cookie(name); err == nil {
				session = normalizeSession(raw)
			}
		}
		if session == "" {
			session = uuid.NewString()
		}
		// 每次请求续期
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(name, session, maxAge, "/", "", opts.Secure, true)
		c.Set(constants.ContextKeySession, session)
		c.Writer.Header().Set(constants.HeaderSession, session)
		c.Next()
	}
}

func normalizeSession(raw string) string {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return parsed.String()
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}
