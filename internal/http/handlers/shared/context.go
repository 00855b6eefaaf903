package shared

import (
	"strings"

	"github.com/ml-muebles/storefront/internal/constants"
	"github.com/ml-muebles/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSession 读取会话中间件写入的购物会话标识。
func GetSession(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeySession)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.session_required", nil)
		return "", false
	}
	session, ok := value.(string)
	if !ok || strings.TrimSpace(session) == "" {
		RespondError(c, response.CodeUnauthorized, "error.session_required", nil)
		return "", false
	}
	return session, true
}
