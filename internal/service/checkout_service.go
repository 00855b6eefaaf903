package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ml-muebles/storefront/internal/cart"
	"github.com/ml-muebles/storefront/internal/checkout"
	"github.com/ml-muebles/storefront/internal/logger"
	"github.com/ml-muebles/storefront/internal/models"
	"github.com/ml-muebles/storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutProcessor 执行远端下单
type CheckoutProcessor interface {
	Process(ctx context.Context, in checkout.Input) (*checkout.Result, error)
}

// CheckoutOptions 结账服务配置
type CheckoutOptions struct {
	Country              string
	DefaultPaymentMethod string
	AllowedMethods       []string
}

// CheckoutInput 结账输入
type CheckoutInput struct {
	Session string
	Form    checkout.Form
}

// CheckoutOutcome 结账结果
type CheckoutOutcome struct {
	AttemptID  string              `json:"attempt_id"`
	Order      *checkout.Result    `json:"order"`
	Navigation checkout.Navigation `json:"navigation"`
}

// CheckoutService 结账服务
type CheckoutService struct {
	carts         *CartService
	processor     CheckoutProcessor
	attempts      repository.CheckoutAttemptRepository
	country       string
	defaultMethod string
	allowed       map[string]struct{}
	inflight      sync.Map
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(carts *CartService, processor CheckoutProcessor, attempts repository.CheckoutAttemptRepository, opts CheckoutOptions) *CheckoutService {
	allowed := make(map[string]struct{}, len(opts.AllowedMethods))
	for _, m := range opts.AllowedMethods {
		m = strings.TrimSpace(m)
		if m != "" {
			allowed[m] = struct{}{}
		}
	}
	return &CheckoutService{
		carts:         carts,
		processor:     processor,
		attempts:      attempts,
		country:       opts.Country,
		defaultMethod: strings.TrimSpace(opts.DefaultPaymentMethod),
		allowed:       allowed,
	}
}

// Submit 校验表单后下单；同一会话同一时间只允许一个结账流程
func (s *CheckoutService) Submit(ctx context.Context, input CheckoutInput) (*CheckoutOutcome, error) {
	form := input.Form
	if strings.TrimSpace(form.PaymentMethod) == "" {
		form.PaymentMethod = s.defaultMethod
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if len(s.allowed) > 0 {
		if _, ok := s.allowed[form.PaymentMethod]; !ok {
			return nil, ErrPaymentMethodInvalid
		}
	}

	store, err := s.carts.Store(ctx, input.Session)
	if err != nil {
		return nil, err
	}
	if _, busy := s.inflight.LoadOrStore(input.Session, struct{}{}); busy {
		return nil, ErrCheckoutInProgress
	}
	defer s.inflight.Delete(input.Session)

	attemptID := uuid.NewString()
	attempt := s.recordStart(ctx, attemptID, input.Session, form.PaymentMethod, store)

	result, err := s.processor.Process(ctx, checkout.Input{
		AttemptID:     attemptID,
		Cart:          store,
		PaymentMethod: form.PaymentMethod,
		Address:       form.ToAddress(s.country),
	})
	if err != nil {
		s.recordFailure(ctx, attempt, err)
		return nil, err
	}
	s.recordSuccess(ctx, attempt, result)

	return &CheckoutOutcome{
		AttemptID:  attemptID,
		Order:      result,
		Navigation: result.Navigation(),
	}, nil
}

// GetAttempt 获取本会话的结账尝试
func (s *CheckoutService) GetAttempt(ctx context.Context, session, attemptID string) (*models.CheckoutAttempt, error) {
	if s.attempts == nil {
		return nil, ErrCheckoutAttemptNotFound
	}
	attempt, err := s.attempts.GetByAttemptID(ctx, strings.TrimSpace(attemptID))
	if err != nil {
		return nil, err
	}
	if attempt == nil || attempt.SessionKey != session {
		return nil, ErrCheckoutAttemptNotFound
	}
	return attempt, nil
}

// ListAttempts 本会话的结账记录
func (s *CheckoutService) ListAttempts(ctx context.Context, session string, page, pageSize int) ([]models.CheckoutAttempt, int64, error) {
	if strings.TrimSpace(session) == "" {
		return nil, 0, ErrSessionRequired
	}
	if s.attempts == nil {
		return []models.CheckoutAttempt{}, 0, nil
	}
	return s.attempts.ListBySession(ctx, repository.CheckoutAttemptListFilter{
		SessionKey: session,
		Page:       page,
		PageSize:   pageSize,
	})
}

// recordStart 记录失败只打日志，不影响下单
func (s *CheckoutService) recordStart(ctx context.Context, attemptID, session, method string, store *cart.Store) *models.CheckoutAttempt {
	if s.attempts == nil {
		return nil
	}
	items := store.Items()
	if len(items) == 0 {
		return nil
	}
	attempt := &models.CheckoutAttempt{
		AttemptID:     attemptID,
		SessionKey:    session,
		Status:        models.CheckoutStatusPending,
		PaymentMethod: method,
		ItemCount:     cart.TotalItemCount(items),
		Subtotal:      models.NewMoneyFromDecimal(subtotalDecimal(store)),
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		logger.Warnw("checkout_attempt_create_failed", "attempt_id", attemptID, "error", err)
		return nil
	}
	return attempt
}

func (s *CheckoutService) recordFailure(ctx context.Context, attempt *models.CheckoutAttempt, err error) {
	if attempt == nil {
		return
	}
	now := time.Now()
	attempt.Status = models.CheckoutStatusFailed
	attempt.CompletedAt = &now
	attempt.Message = err.Error()
	var ce *checkout.Error
	if errors.As(err, &ce) {
		attempt.Step = string(ce.Step)
	}
	if updateErr := s.attempts.Update(context.WithoutCancel(ctx), attempt); updateErr != nil {
		logger.Warnw("checkout_attempt_update_failed", "attempt_id", attempt.AttemptID, "error", updateErr)
	}
}

func (s *CheckoutService) recordSuccess(ctx context.Context, attempt *models.CheckoutAttempt, result *checkout.Result) {
	if attempt == nil || result == nil {
		return
	}
	now := time.Now()
	attempt.Status = models.CheckoutStatusSucceeded
	attempt.CompletedAt = &now
	attempt.OrderID = result.OrderID
	attempt.OrderStatus = result.Status
	attempt.RedirectURL = result.RedirectURL
	if err := s.attempts.Update(context.WithoutCancel(ctx), attempt); err != nil {
		logger.Warnw("checkout_attempt_update_failed", "attempt_id", attempt.AttemptID, "error", err)
	}
}

func subtotalDecimal(store *cart.Store) decimal.Decimal {
	return cart.SubtotalAmount(store.Items(), store.Format())
}
