package shared

import (
	"github.com/ml-muebles/storefront/internal/constants"
	"github.com/ml-muebles/storefront/internal/http/response"
	"github.com/ml-muebles/storefront/internal/i18n"
	"github.com/ml-muebles/storefront/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(constants.ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	respondAppError(c, response.WrapError(code, msg, err))
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	respondAppError(c, response.WrapError(code, msg, err))
}

// RespondErrorWithData 返回国际化错误响应并附带数据。
func RespondErrorWithData(c *gin.Context, code int, key string, data interface{}, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	respondAppError(c, response.WrapError(code, msg, err).WithData(data))
}

func respondAppError(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", appErr.Err,
		)
	}
	if appErr.Data != nil {
		response.ErrorWithData(c, appErr.Code, appErr.Message, appErr.Data)
		return
	}
	response.Error(c, appErr.Code, appErr.Message)
}
