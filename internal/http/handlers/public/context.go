package public

import (
	handlershared "github.com/ml-muebles/storefront/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getSession(c *gin.Context) (string, bool) {
	return handlershared.GetSession(c)
}
