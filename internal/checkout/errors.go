package checkout

import (
	"context"
	"errors"
	"net/http"

	"github.com/ml-muebles/storefront/internal/woocommerce"
)

var (
	ErrEmptyCart             = errors.New("checkout cart is empty")
	ErrPaymentMethodRequired = errors.New("checkout payment method is required")
	ErrCheckoutInProgress    = errors.New("checkout already in progress")
)

// Step 下单流程步骤
type Step string

const (
	StepValidate       Step = "validate"
	StepStartSession   Step = "start_session"
	StepTransferItems  Step = "transfer_items"
	StepAttachCustomer Step = "attach_customer"
	StepSubmit         Step = "submit"
)

const (
	messageTimeout     = "La tienda tardó demasiado en responder. Intenta nuevamente."
	messageUnreachable = "No pudimos conectar con la tienda. Intenta nuevamente."
	messageEmptyCart   = "Tu carrito está vacío."
	messageNoPayment   = "Selecciona un método de pago."
	messageInvalid     = "La tienda devolvió una respuesta inválida. Intenta nuevamente."
)

// Error 下单失败，Message 可直接展示给用户；本地购物车保持不变
type Error struct {
	Step      Step
	Message   string
	Status    int
	Retryable bool
	Timeout   bool
	Err       error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError 提取下单错误
func AsError(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func newError(step Step, err error) *Error {
	ce := &Error{Step: step, Err: err}
	if apiErr, ok := woocommerce.AsAPIError(err); ok {
		ce.Status = apiErr.Status
		ce.Message = apiErr.UserMessage()
		ce.Retryable = apiErr.Status >= http.StatusInternalServerError ||
			apiErr.Status == http.StatusTooManyRequests ||
			apiErr.Status == http.StatusConflict
		return ce
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		ce.Message = messageTimeout
		ce.Retryable = true
		ce.Timeout = true
	case errors.Is(err, ErrEmptyCart):
		ce.Message = messageEmptyCart
	case errors.Is(err, ErrPaymentMethodRequired):
		ce.Message = messageNoPayment
	case errors.Is(err, woocommerce.ErrResponseInvalid):
		ce.Message = messageInvalid
		ce.Retryable = true
	default:
		ce.Message = messageUnreachable
		ce.Retryable = true
	}
	return ce
}
