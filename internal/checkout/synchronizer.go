package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ml-muebles/storefront/internal/cart"
	"github.com/ml-muebles/storefront/internal/woocommerce"

	"go.uber.org/zap"
)

// ConfirmationPath 本地确认页
const ConfirmationPath = "/checkout/confirmacion"

// Backend 远端购物车与下单接口
type Backend interface {
	GetCart(ctx context.Context, sess woocommerce.Session) (*woocommerce.Cart, woocommerce.Session, error)
	AddItem(ctx context.Context, sess woocommerce.Session, req woocommerce.AddItemRequest) (*woocommerce.Cart, woocommerce.Session, error)
	UpdateCustomer(ctx context.Context, sess woocommerce.Session, req woocommerce.CustomerRequest) (*woocommerce.Cart, woocommerce.Session, error)
	Checkout(ctx context.Context, sess woocommerce.Session, req woocommerce.CheckoutRequest) (*woocommerce.CheckoutResponse, woocommerce.Session, error)
}

// LocalCart 本地购物车；Settle 只扣除已转移到远端的行
type LocalCart interface {
	Items() []cart.LineItem
	Settle(ctx context.Context, items []cart.LineItem)
}

// Orphan 失败时可能遗留在远端的购物车
type Orphan struct {
	AttemptID        string
	Session          woocommerce.Session
	ItemsTransferred int
	Step             Step
}

// OrphanReporter 处理遗留远端购物车
type OrphanReporter interface {
	ReportOrphan(ctx context.Context, orphan Orphan) error
}

// Input 下单输入
type Input struct {
	AttemptID     string
	Cart          LocalCart
	PaymentMethod string
	Address       woocommerce.Address
}

// Result 下单结果
type Result struct {
	OrderID       int64  `json:"order_id"`
	Status        string `json:"status"`
	OrderKey      string `json:"order_key"`
	PaymentStatus string `json:"payment_status"`
	RedirectURL   string `json:"redirect_url"`
}

// Navigation 下单后的跳转
type Navigation struct {
	External bool   `json:"external"`
	URL      string `json:"url"`
}

// Navigation 有支付跳转地址时外部跳转，否则进入本地确认页
func (r Result) Navigation() Navigation {
	if strings.TrimSpace(r.RedirectURL) != "" {
		return Navigation{External: true, URL: r.RedirectURL}
	}
	q := url.Values{}
	q.Set("order_id", strconv.FormatInt(r.OrderID, 10))
	return Navigation{URL: ConfirmationPath + "?" + q.Encode()}
}

// Options 同步器配置
type Options struct {
	Timeout  time.Duration
	Reporter OrphanReporter
	Logger   *zap.SugaredLogger
}

// Synchronizer 将本地购物车转换为远端订单
type Synchronizer struct {
	backend  Backend
	timeout  time.Duration
	reporter OrphanReporter
	log      *zap.SugaredLogger
}

// NewSynchronizer 创建同步器
func NewSynchronizer(backend Backend, opts Options) *Synchronizer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Synchronizer{
		backend:  backend,
		timeout:  opts.Timeout,
		reporter: opts.Reporter,
		log:      log,
	}
}

type run struct {
	s           *Synchronizer
	in          Input
	session     woocommerce.Session
	transferred int
}

// Process 顺序执行：新会话 → 逐个加购 → 设置地址 → 提交订单 → 清理。
// 任一步失败立即中止，返回 *Error，本地购物车不变。
func (s *Synchronizer) Process(ctx context.Context, in Input) (*Result, error) {
	if in.Cart == nil {
		return nil, newError(StepValidate, ErrEmptyCart)
	}
	items := in.Cart.Items()
	if len(items) == 0 {
		return nil, newError(StepValidate, ErrEmptyCart)
	}
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	if in.PaymentMethod == "" {
		return nil, newError(StepValidate, ErrPaymentMethodRequired)
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	r := &run{s: s, in: in}
	defer r.teardown()

	if err := r.startSession(runCtx); err != nil {
		return nil, r.fail(ctx, StepStartSession, err)
	}
	for i, item := range items {
		if err := r.transfer(runCtx, item); err != nil {
			s.log.Warnw("checkout_item_transfer_failed",
				"attempt_id", in.AttemptID,
				"line_id", item.LineID,
				"position", i+1,
				"total", len(items),
				"error", err,
			)
			return nil, r.fail(ctx, StepTransferItems, err)
		}
	}
	if err := r.attachCustomer(runCtx); err != nil {
		return nil, r.fail(ctx, StepAttachCustomer, err)
	}
	resp, err := r.submit(runCtx)
	if err != nil {
		return nil, r.fail(ctx, StepSubmit, err)
	}

	in.Cart.Settle(context.WithoutCancel(ctx), items)
	s.log.Infow("checkout_completed",
		"attempt_id", in.AttemptID,
		"order_id", resp.OrderID,
		"status", resp.Status,
		"payment_method", in.PaymentMethod,
		"items", len(items),
	)
	return &Result{
		OrderID:       resp.OrderID,
		Status:        resp.Status,
		OrderKey:      resp.OrderKey,
		PaymentStatus: resp.PaymentResult.PaymentStatus,
		RedirectURL:   strings.TrimSpace(resp.PaymentResult.RedirectURL),
	}, nil
}

func (r *run) startSession(ctx context.Context) error {
	r.session = woocommerce.Session{}
	_, next, err := r.s.backend.GetCart(ctx, woocommerce.Session{})
	r.session = next
	if err != nil {
		return err
	}
	if next.CartToken == "" {
		return fmt.Errorf("%w: missing cart token", woocommerce.ErrResponseInvalid)
	}
	return nil
}

func (r *run) transfer(ctx context.Context, item cart.LineItem) error {
	_, next, err := r.s.backend.AddItem(ctx, r.session, woocommerce.AddItemRequest{
		ID:       item.RemoteID(),
		Quantity: item.Quantity,
	})
	r.session = next
	if err != nil {
		return err
	}
	r.transferred++
	return nil
}

func (r *run) attachCustomer(ctx context.Context) error {
	_, next, err := r.s.backend.UpdateCustomer(ctx, r.session, woocommerce.CustomerRequest{
		BillingAddress:  r.in.Address,
		ShippingAddress: r.in.Address,
	})
	r.session = next
	return err
}

func (r *run) submit(ctx context.Context) (*woocommerce.CheckoutResponse, error) {
	resp, next, err := r.s.backend.Checkout(ctx, r.session, woocommerce.CheckoutRequest{
		PaymentMethod:   r.in.PaymentMethod,
		BillingAddress:  r.in.Address,
		ShippingAddress: r.in.Address,
	})
	r.session = next
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.OrderID <= 0 {
		return nil, fmt.Errorf("%w: missing order id", woocommerce.ErrResponseInvalid)
	}
	return resp, nil
}

// fail 构造错误；已有商品转入远端时上报遗留购物车
func (r *run) fail(ctx context.Context, step Step, err error) error {
	ce := newError(step, err)
	r.s.log.Warnw("checkout_failed",
		"attempt_id", r.in.AttemptID,
		"step", step,
		"status", ce.Status,
		"retryable", ce.Retryable,
		"items_transferred", r.transferred,
		"error", err,
	)
	if r.transferred > 0 && r.s.reporter != nil && r.session.CartToken != "" {
		orphan := Orphan{
			AttemptID:        r.in.AttemptID,
			Session:          r.session,
			ItemsTransferred: r.transferred,
			Step:             step,
		}
		if reportErr := r.s.reporter.ReportOrphan(context.WithoutCancel(ctx), orphan); reportErr != nil {
			r.s.log.Warnw("checkout_orphan_report_failed", "attempt_id", r.in.AttemptID, "error", reportErr)
		}
	}
	return ce
}

func (r *run) teardown() {
	r.session = woocommerce.Session{}
}
