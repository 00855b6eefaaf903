package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ml-muebles/storefront/internal/cart"
	"github.com/ml-muebles/storefront/internal/woocommerce"
)

type call struct {
	op      string
	session woocommerce.Session
	id      int64
	qty     int
}

type fakeBackend struct {
	calls      []call
	seq        int
	failAddAt  int
	addErr     error
	checkout   *woocommerce.CheckoutResponse
	blockOnAdd bool
	onAdd      func()
}

func (b *fakeBackend) rotate() woocommerce.Session {
	b.seq++
	return woocommerce.Session{CartToken: "token-1", Nonce: fmt.Sprintf("nonce-%d", b.seq)}
}

func (b *fakeBackend) GetCart(_ context.Context, sess woocommerce.Session) (*woocommerce.Cart, woocommerce.Session, error) {
	b.calls = append(b.calls, call{op: "get_cart", session: sess})
	return &woocommerce.Cart{}, b.rotate(), nil
}

func (b *fakeBackend) AddItem(ctx context.Context, sess woocommerce.Session, req woocommerce.AddItemRequest) (*woocommerce.Cart, woocommerce.Session, error) {
	b.calls = append(b.calls, call{op: "add_item", session: sess, id: req.ID, qty: req.Quantity})
	if b.blockOnAdd {
		<-ctx.Done()
		return nil, sess, fmt.Errorf("%w: %w", woocommerce.ErrRequestFailed, ctx.Err())
	}
	if b.onAdd != nil {
		b.onAdd()
	}
	next := b.rotate()
	if b.failAddAt > 0 && b.countOp("add_item") == b.failAddAt {
		return nil, next, b.addErr
	}
	return &woocommerce.Cart{}, next, nil
}

func (b *fakeBackend) UpdateCustomer(_ context.Context, sess woocommerce.Session, _ woocommerce.CustomerRequest) (*woocommerce.Cart, woocommerce.Session, error) {
	b.calls = append(b.calls, call{op: "update_customer", session: sess})
	return &woocommerce.Cart{}, b.rotate(), nil
}

func (b *fakeBackend) Checkout(_ context.Context, sess woocommerce.Session, req woocommerce.CheckoutRequest) (*woocommerce.CheckoutResponse, woocommerce.Session, error) {
	b.calls = append(b.calls, call{op: "checkout:" + req.PaymentMethod, session: sess})
	return b.checkout, b.rotate(), nil
}

func (b *fakeBackend) countOp(op string) int {
	n := 0
	for _, c := range b.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

type recordingReporter struct {
	orphans []Orphan
}

func (r *recordingReporter) ReportOrphan(_ context.Context, orphan Orphan) error {
	r.orphans = append(r.orphans, orphan)
	return nil
}

func int64Ptr(v int64) *int64 { return &v }

func newCart(t *testing.T, items ...cart.LineItem) *cart.Store {
	t.Helper()
	store := cart.NewStore(cart.DefaultKey, cart.NewMemoryStorage())
	store.Load(context.Background())
	for _, item := range items {
		if err := store.AddItem(context.Background(), item); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
	}
	return store
}

func testAddress() woocommerce.Address {
	return woocommerce.Address{FirstName: "Ana", LastName: "Rojas", Address1: "Av. Providencia 1234", City: "Providencia", State: "RM", Postcode: "7500000", Country: "CL"}
}

func TestProcessEndToEndLocalConfirmation(t *testing.T) {
	backend := &fakeBackend{checkout: &woocommerce.CheckoutResponse{
		OrderID: 4521,
		Status:  "on-hold",
		PaymentResult: woocommerce.PaymentResult{
			PaymentStatus: "success",
			RedirectURL:   "",
		},
	}}
	store := newCart(t, cart.LineItem{ProductID: 1, VariationID: int64Ptr(10), Quantity: 1, UnitPrice: "8.900"})
	syncer := NewSynchronizer(backend, Options{Timeout: time.Second})

	result, err := syncer.Process(context.Background(), Input{Cart: store, PaymentMethod: "bacs", Address: testAddress()})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.OrderID != 4521 {
		t.Fatalf("unexpected order id: %d", result.OrderID)
	}
	nav := result.Navigation()
	if nav.External || nav.URL != "/checkout/confirmacion?order_id=4521" {
		t.Fatalf("unexpected navigation: %+v", nav)
	}
	if len(store.Items()) != 0 {
		t.Fatalf("cart must be cleared after success")
	}

	wantOps := []string{"get_cart", "add_item", "update_customer", "checkout:bacs"}
	if len(backend.calls) != len(wantOps) {
		t.Fatalf("unexpected calls: %+v", backend.calls)
	}
	for i, op := range wantOps {
		if backend.calls[i].op != op {
			t.Fatalf("call %d: got %s want %s", i, backend.calls[i].op, op)
		}
	}
	if backend.calls[1].id != 10 || backend.calls[1].qty != 1 {
		t.Fatalf("variation id must be transferred: %+v", backend.calls[1])
	}
}

func TestProcessRotatesSessionBetweenCalls(t *testing.T) {
	backend := &fakeBackend{checkout: &woocommerce.CheckoutResponse{OrderID: 1}}
	store := newCart(t,
		cart.LineItem{ProductID: 1, Quantity: 1, UnitPrice: "1.000"},
		cart.LineItem{ProductID: 2, Quantity: 3, UnitPrice: "1.000"},
	)
	if _, err := NewSynchronizer(backend, Options{}).Process(context.Background(), Input{Cart: store, PaymentMethod: "cod"}); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if !backend.calls[0].session.Empty() {
		t.Fatalf("checkout must start with a fresh session, got %+v", backend.calls[0].session)
	}
	for i := 1; i < len(backend.calls); i++ {
		want := fmt.Sprintf("nonce-%d", i)
		if backend.calls[i].session.Nonce != want || backend.calls[i].session.CartToken != "token-1" {
			t.Fatalf("call %d must carry previous response session %s, got %+v", i, want, backend.calls[i].session)
		}
	}
	if backend.calls[1].id != 1 || backend.calls[2].id != 2 || backend.calls[2].qty != 3 {
		t.Fatalf("product ids must be transferred in cart order: %+v", backend.calls)
	}
}

func TestProcessAbortsOnSecondItemFailure(t *testing.T) {
	backend := &fakeBackend{
		failAddAt: 2,
		addErr:    &woocommerce.APIError{Status: http.StatusBadRequest, Code: "woocommerce_rest_product_out_of_stock", Message: "Producto sin stock"},
	}
	reporter := &recordingReporter{}
	store := newCart(t,
		cart.LineItem{ProductID: 1, Quantity: 1, UnitPrice: "1.000"},
		cart.LineItem{ProductID: 2, Quantity: 1, UnitPrice: "1.000"},
		cart.LineItem{ProductID: 3, Quantity: 1, UnitPrice: "1.000"},
	)
	syncer := NewSynchronizer(backend, Options{Reporter: reporter})

	_, err := syncer.Process(context.Background(), Input{AttemptID: "a-1", Cart: store, PaymentMethod: "bacs"})
	ce, ok := AsError(err)
	if !ok {
		t.Fatalf("expected checkout error, got %v", err)
	}
	if ce.Step != StepTransferItems || ce.Message != "Producto sin stock" || ce.Retryable {
		t.Fatalf("unexpected error: %+v", ce)
	}
	if backend.countOp("add_item") != 2 {
		t.Fatalf("third item must not be attempted, got %d add calls", backend.countOp("add_item"))
	}
	if backend.countOp("update_customer") != 0 || backend.countOp("checkout:bacs") != 0 {
		t.Fatalf("no further steps may run after a transfer failure")
	}
	if len(store.Items()) != 3 {
		t.Fatalf("local cart must be intact, got %d items", len(store.Items()))
	}
	if len(reporter.orphans) != 1 || reporter.orphans[0].ItemsTransferred != 1 || reporter.orphans[0].Session.CartToken != "token-1" {
		t.Fatalf("unexpected orphan report: %+v", reporter.orphans)
	}
}

func TestProcessFailureWithoutTransferDoesNotReportOrphan(t *testing.T) {
	backend := &fakeBackend{
		failAddAt: 1,
		addErr:    &woocommerce.APIError{Status: http.StatusServiceUnavailable},
	}
	reporter := &recordingReporter{}
	store := newCart(t, cart.LineItem{ProductID: 1, Quantity: 1, UnitPrice: "1.000"})
	_, err := NewSynchronizer(backend, Options{Reporter: reporter}).Process(context.Background(), Input{Cart: store, PaymentMethod: "bacs"})
	ce, ok := AsError(err)
	if !ok || ce.Message != "Error 503" || !ce.Retryable {
		t.Fatalf("unexpected error: %+v", err)
	}
	if len(reporter.orphans) != 0 {
		t.Fatalf("nothing was transferred, no orphan expected")
	}
}

func TestProcessTimeoutIsRetryable(t *testing.T) {
	backend := &fakeBackend{blockOnAdd: true}
	store := newCart(t, cart.LineItem{ProductID: 1, Quantity: 1, UnitPrice: "1.000"})
	syncer := NewSynchronizer(backend, Options{Timeout: 20 * time.Millisecond})

	_, err := syncer.Process(context.Background(), Input{Cart: store, PaymentMethod: "bacs"})
	ce, ok := AsError(err)
	if !ok {
		t.Fatalf("expected checkout error, got %v", err)
	}
	if !ce.Timeout || !ce.Retryable || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("timeout must be retryable: %+v", ce)
	}
	if len(store.Items()) != 1 {
		t.Fatalf("cart must be intact after timeout")
	}
}

func TestProcessRejectsEmptyCartWithoutNetwork(t *testing.T) {
	backend := &fakeBackend{}
	_, err := NewSynchronizer(backend, Options{}).Process(context.Background(), Input{Cart: newCart(t), PaymentMethod: "bacs"})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	_, err = NewSynchronizer(backend, Options{}).Process(context.Background(), Input{
		Cart: newCart(t, cart.LineItem{ProductID: 1, Quantity: 1, UnitPrice: "1.000"}),
	})
	if !errors.Is(err, ErrPaymentMethodRequired) {
		t.Fatalf("expected ErrPaymentMethodRequired, got %v", err)
	}
	if len(backend.calls) != 0 {
		t.Fatalf("validation failures must not reach the backend")
	}
}

func TestNavigationExternalRedirect(t *testing.T) {
	nav := Result{OrderID: 9, RedirectURL: "https://pay.example.com/session/abc"}.Navigation()
	if !nav.External || nav.URL != "https://pay.example.com/session/abc" {
		t.Fatalf("unexpected navigation: %+v", nav)
	}
}

func TestProcessKeepsLinesAddedDuringRun(t *testing.T) {
	backend := &fakeBackend{checkout: &woocommerce.CheckoutResponse{OrderID: 7, Status: "processing"}}
	store := newCart(t, cart.LineItem{ProductID: 1, Quantity: 1, UnitPrice: "8.900"})
	backend.onAdd = func() {
		if err := store.AddItem(context.Background(), cart.LineItem{ProductID: 2, Quantity: 1, UnitPrice: "1.000"}); err != nil {
			t.Errorf("concurrent add failed: %v", err)
		}
	}

	if _, err := NewSynchronizer(backend, Options{}).Process(context.Background(), Input{Cart: store, PaymentMethod: "bacs"}); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if backend.countOp("add_item") != 1 {
		t.Fatalf("only the snapshot should be transferred: %+v", backend.calls)
	}
	items := store.Items()
	if len(items) != 1 || items[0].LineID != "2" {
		t.Fatalf("line added during checkout must stay in the cart: %+v", items)
	}
}
