package public

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ml-muebles/storefront/internal/cart"
	"github.com/ml-muebles/storefront/internal/checkout"
	"github.com/ml-muebles/storefront/internal/constants"
	"github.com/ml-muebles/storefront/internal/depiction"
	"github.com/ml-muebles/storefront/internal/money"
	"github.com/ml-muebles/storefront/internal/provider"
	"github.com/ml-muebles/storefront/internal/service"
	"github.com/ml-muebles/storefront/internal/woocommerce"

	"github.com/gin-gonic/gin"
)

type stubCatalogBackend struct {
	products   map[string]woocommerce.Product
	byCategory map[int64][]woocommerce.Product
	categories []woocommerce.Category
}

func newStubCatalogBackend() *stubCatalogBackend {
	sectional := woocommerce.Product{
		ID:         40,
		Name:       "Seccional Mustang",
		Slug:       "seccional-mustang",
		IsInStock:  true,
		Prices:     woocommerce.Prices{Price: "549990", RegularPrice: "549990"},
		Images:     []woocommerce.Image{{Src: "https://cdn/a.jpg"}},
		Categories: []woocommerce.ProductCategory{{ID: 15, Name: "Seccional Mustang", Slug: "seccional-mustang"}},
		Attributes: []woocommerce.Attribute{
			{Name: "Color", Taxonomy: "pa_color", HasVariations: true, Terms: []woocommerce.AttributeTerm{
				{Name: "Felpa Gris", Slug: "felpa-gris"},
				{Name: "Lino Beige", Slug: "lino-beige"},
			}},
		},
		Variations: []woocommerce.Variation{
			{ID: 401, Attributes: []woocommerce.VariationAttribute{{Name: "Color", Value: "felpa-gris"}}},
		},
	}
	pouf := woocommerce.Product{
		ID:         77,
		Name:       "Pouf Redondo",
		Slug:       "pouf-redondo",
		IsInStock:  true,
		Prices:     woocommerce.Prices{Price: "89990", RegularPrice: "89990"},
		Categories: []woocommerce.ProductCategory{{ID: 30, Name: "Pouf", Slug: "pouf"}},
	}
	return &stubCatalogBackend{
		products: map[string]woocommerce.Product{
			sectional.Slug: sectional,
			pouf.Slug:      pouf,
		},
		byCategory: map[int64][]woocommerce.Product{
			15: {sectional, {ID: 41, Name: "Seccional B", Slug: "seccional-b"}},
			30: {pouf},
		},
		categories: []woocommerce.Category{
			{ID: 30, Name: "Pouf", Slug: "pouf", Count: 1},
			{ID: 10, Name: "Seccionales", Slug: "seccionales"},
			{ID: 15, Name: "Seccional Mustang", Slug: "seccional-mustang", Parent: 10, Count: 2},
		},
	}
}

func (b *stubCatalogBackend) GetProduct(_ context.Context, id int64) (*woocommerce.Product, error) {
	for _, p := range b.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, woocommerce.ErrProductNotFound
}

func (b *stubCatalogBackend) GetProductBySlug(_ context.Context, slug string) (*woocommerce.Product, error) {
	p, ok := b.products[slug]
	if !ok {
		return nil, woocommerce.ErrProductNotFound
	}
	return &p, nil
}

func (b *stubCatalogBackend) ListProducts(_ context.Context, query woocommerce.ProductQuery) ([]woocommerce.Product, error) {
	return b.byCategory[query.CategoryID], nil
}

func (b *stubCatalogBackend) SearchProducts(_ context.Context, _ string) ([]woocommerce.Product, error) {
	return []woocommerce.Product{b.products["pouf-redondo"]}, nil
}

func (b *stubCatalogBackend) ListCategories(_ context.Context) ([]woocommerce.Category, error) {
	return b.categories, nil
}

type stubProcessor struct {
	result *checkout.Result
	err    error
	calls  int
}

func (p *stubProcessor) Process(_ context.Context, in checkout.Input) (*checkout.Result, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

type testEnv struct {
	engine    *gin.Engine
	processor *stubProcessor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := newStubCatalogBackend()
	catalog := service.NewCatalogService(backend, service.CatalogOptions{
		Format:        money.DefaultFormat,
		CategoryOrder: map[string]int{"seccionales": 1, "pouf": 4},
		RelatedLimit:  4,
	})
	registry, err := cart.NewRegistry(cart.NewMemoryStorage(), 16, cart.DefaultKey, cart.WithFormat(money.DefaultFormat))
	if err != nil {
		t.Fatalf("new registry failed: %v", err)
	}
	depictions, err := depiction.NewService(backend, nil, depiction.Options{})
	if err != nil {
		t.Fatalf("new depiction service failed: %v", err)
	}
	carts := service.NewCartService(registry, catalog, depictions)
	processor := &stubProcessor{result: &checkout.Result{OrderID: 4521, Status: "on-hold"}}
	checkoutSvc := service.NewCheckoutService(carts, processor, nil, service.CheckoutOptions{
		Country:              "CL",
		DefaultPaymentMethod: "bacs",
		AllowedMethods:       []string{"bacs"},
	})

	h := New(&provider.Container{
		CatalogService:   catalog,
		CartService:      carts,
		CheckoutService:  checkoutSvc,
		DepictionService: depictions,
	})

	r := gin.New()
	r.GET("/categories", h.GetCategories)
	r.GET("/categories/:slug", h.GetCategoryPage)
	r.GET("/products/:slug", h.GetProduct)
	r.GET("/products/:slug/selection", h.GetSelectionState)
	r.GET("/search", h.SearchProducts)
	r.GET("/variations/:id/depiction", h.GetVariationDepiction)

	r.GET("/anonymous/cart", h.GetCart)

	shop := r.Group("")
	shop.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeySession, "sess-1")
		c.Next()
	})
	shop.GET("/cart", h.GetCart)
	shop.POST("/cart/items", h.AddCartItem)
	shop.PUT("/cart/items/:line_id", h.UpdateCartItem)
	shop.DELETE("/cart/items/:line_id", h.DeleteCartItem)
	shop.POST("/checkout", h.SubmitCheckout)

	return &testEnv{engine: r, processor: processor}
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "es-CL")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func validCheckoutBody() map[string]string {
	return map[string]string{
		"email":        "ana@example.cl",
		"telefono":     "+56 9 1234 5678",
		"nombre":       "Ana",
		"apellido":     "Pérez",
		"direccion":    "Av. Siempre Viva 742",
		"region":       "RM",
		"comuna":       "Providencia",
		"codigoPostal": "7500000",
	}
}
