package public

import (
	"errors"
	"strconv"

	"github.com/ml-muebles/storefront/internal/checkout"
	"github.com/ml-muebles/storefront/internal/http/response"
	"github.com/ml-muebles/storefront/internal/i18n"
	"github.com/ml-muebles/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitCheckout 提交结账表单并在后端下单
func (h *Handler) SubmitCheckout(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	outcome, err := h.CheckoutService.Submit(c.Request.Context(), service.CheckoutInput{
		Session: session,
		Form:    form,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, outcome)
}

// ListCheckoutAttempts 本会话的下单记录
func (h *Handler) ListCheckoutAttempts(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	attempts, total, err := h.CheckoutService.ListAttempts(c.Request.Context(), session, page, pageSize)
	if err != nil {
		respondCheckoutAttemptError(c, err)
		return
	}
	response.SuccessWithPage(c, attempts, response.BuildPagination(page, pageSize, total))
}

// GetCheckoutAttempt 单次下单记录
func (h *Handler) GetCheckoutAttempt(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	attempt, err := h.CheckoutService.GetAttempt(c.Request.Context(), session, c.Param("attempt_id"))
	if err != nil {
		respondCheckoutAttemptError(c, err)
		return
	}
	response.Success(c, attempt)
}

func respondCheckoutError(c *gin.Context, err error) {
	if fields, ok := checkout.AsFieldErrors(err); ok {
		locale := i18n.ResolveLocale(c)
		messages := make(map[string]string, len(fields))
		for field, key := range fields {
			messages[field] = i18n.T(locale, key)
		}
		respondErrorWithData(c, response.CodeUnprocessable, "error.checkout_form_invalid", gin.H{
			"fields":     messages,
			"field_keys": map[string]string(fields),
		}, nil)
		return
	}

	var ce *checkout.Error
	if errors.As(err, &ce) {
		code := response.CodeUnprocessable
		switch {
		case ce.Timeout:
			code = response.CodeTimeout
		case ce.Retryable:
			code = response.CodeBadGateway
		}
		requestLog(c).Warnw("checkout_submit_failed",
			"step", ce.Step,
			"status", ce.Status,
			"retryable", ce.Retryable,
			"error", ce.Err,
		)
		response.ErrorWithData(c, code, ce.Message, gin.H{
			"step":      ce.Step,
			"retryable": ce.Retryable,
		})
		return
	}

	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.checkout_failed")
}
