package public

import (
	"context"
	"errors"

	"github.com/ml-muebles/storefront/internal/http/response"
	"github.com/ml-muebles/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var catalogCommonErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, key: "error.category_not_found"},
	{target: service.ErrBackendUnavailable, code: response.CodeBadGateway, key: "error.backend_unavailable"},
	{target: context.DeadlineExceeded, code: response.CodeTimeout, key: "error.backend_unavailable"},
}

var variantErrorRules = []mappedHandlerError{
	{target: service.ErrVariantInvalid, code: response.CodeBadRequest, key: "error.variant_invalid"},
	{target: service.ErrVariantIncomplete, code: response.CodeUnprocessable, key: "error.variant_incomplete"},
	{target: service.ErrVariantUnavailable, code: response.CodeUnprocessable, key: "error.variant_unavailable"},
}

var cartCommonErrorRules = []mappedHandlerError{
	{target: service.ErrSessionRequired, code: response.CodeUnauthorized, key: "error.session_required"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrProductNotPurchasable, code: response.CodeUnprocessable, key: "error.product_not_purchasable"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrSessionRequired, code: response.CodeUnauthorized, key: "error.session_required"},
	{target: service.ErrCheckoutInProgress, code: response.CodeConflict, key: "error.checkout_in_progress"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, key: "error.payment_method_invalid"},
	{target: service.ErrCheckoutAttemptNotFound, code: response.CodeNotFound, key: "error.checkout_attempt_not_found"},
}

func respondCatalogError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, catalogCommonErrorRules, response.CodeInternal, fallbackKey)
}

func respondSelectionError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(variantErrorRules, catalogCommonErrorRules), response.CodeInternal, "error.product_fetch_failed")
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartCommonErrorRules, variantErrorRules, catalogCommonErrorRules), response.CodeInternal, "error.cart_update_failed")
}

func respondCheckoutAttemptError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.checkout_attempt_fetch_fail")
}
