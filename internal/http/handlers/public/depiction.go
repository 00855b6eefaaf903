package public

import (
	"errors"
	"strconv"

	"github.com/ml-muebles/storefront/internal/depiction"
	"github.com/ml-muebles/storefront/internal/http/response"
	"github.com/ml-muebles/storefront/internal/woocommerce"

	"github.com/gin-gonic/gin"
)

// GetVariationDepiction 变体展示图，变体无图时回退到父商品图
func (h *Handler) GetVariationDepiction(c *gin.Context) {
	variationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || variationID <= 0 {
		respondError(c, response.CodeBadRequest, "error.variation_id_invalid", nil)
		return
	}
	d, err := h.DepictionService.Fetch(c.Request.Context(), variationID)
	if err != nil {
		switch {
		case errors.Is(err, depiction.ErrInvalidVariation):
			respondError(c, response.CodeBadRequest, "error.variation_id_invalid", nil)
		case errors.Is(err, woocommerce.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		default:
			respondError(c, response.CodeBadGateway, "error.depiction_fetch_failed", err)
		}
		return
	}
	response.Success(c, d)
}
