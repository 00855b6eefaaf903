package service

import (
	"errors"

	"github.com/ml-muebles/storefront/internal/checkout"
)

var (
	ErrProductNotFound         = errors.New("product not found")
	ErrCategoryNotFound        = errors.New("category not found")
	ErrSessionRequired         = errors.New("storefront session is required")
	ErrVariantIncomplete       = errors.New("variant selection incomplete")
	ErrVariantInvalid          = errors.New("variant selection invalid")
	ErrVariantUnavailable      = errors.New("variant combination unavailable")
	ErrProductNotPurchasable   = errors.New("product not purchasable")
	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrCheckoutInProgress      = checkout.ErrCheckoutInProgress
	ErrPaymentMethodInvalid    = errors.New("payment method not allowed")
	ErrCheckoutAttemptNotFound = errors.New("checkout attempt not found")
	ErrBackendUnavailable      = errors.New("catalog backend unavailable")
)
