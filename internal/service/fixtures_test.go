package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ml-muebles/storefront/internal/cart"
	"github.com/ml-muebles/storefront/internal/depiction"
	"github.com/ml-muebles/storefront/internal/models"
	"github.com/ml-muebles/storefront/internal/money"
	"github.com/ml-muebles/storefront/internal/repository"
	"github.com/ml-muebles/storefront/internal/woocommerce"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeCatalogBackend struct {
	mu         sync.Mutex
	products   map[string]woocommerce.Product
	byCategory map[int64][]woocommerce.Product
	categories []woocommerce.Category
	queries    []woocommerce.ProductQuery
	searches   []string
	err        error
}

func newFakeCatalogBackend() *fakeCatalogBackend {
	sectional := sectionalProduct()
	pouf := woocommerce.Product{
		ID:         77,
		Name:       "Pouf Redondo",
		Slug:       "pouf-redondo",
		IsInStock:  true,
		Prices:     woocommerce.Prices{Price: "89990", RegularPrice: "89990"},
		Images:     []woocommerce.Image{{Src: "https://cdn/pouf.jpg"}},
		Categories: []woocommerce.ProductCategory{{ID: 30, Name: "Pouf", Slug: "pouf"}},
	}
	return &fakeCatalogBackend{
		products: map[string]woocommerce.Product{
			sectional.Slug: sectional,
			pouf.Slug:      pouf,
		},
		byCategory: map[int64][]woocommerce.Product{
			15: {sectional, {ID: 41, Name: "Seccional B", Slug: "seccional-b"}, {ID: 42, Name: "Seccional C", Slug: "seccional-c"}},
			16: {{ID: 51, Name: "Seccional Latina", Slug: "seccional-latina"}},
			30: {pouf},
		},
		categories: []woocommerce.Category{
			{ID: 30, Name: "Pouf", Slug: "pouf", Count: 3},
			{ID: 50, Name: "Ofertas", Slug: "ofertas", Count: 2},
			{ID: 10, Name: "Seccionales", Slug: "seccionales", Count: 0},
			{ID: 15, Name: "Seccional Mustang", Slug: "seccional-mustang", Parent: 10, Count: 3},
			{ID: 16, Name: "Seccional Latina", Slug: "seccional-latina", Parent: 10, Count: 1},
			{ID: 60, Name: "Vacía", Slug: "vacia", Count: 0},
		},
	}
}

func sectionalProduct() woocommerce.Product {
	return woocommerce.Product{
		ID:        40,
		Name:      "Seccional Mustang",
		Slug:      "seccional-mustang",
		OnSale:    true,
		IsInStock: true,
		Prices: woocommerce.Prices{
			Price:        "549990",
			RegularPrice: "649990",
			SalePrice:    "549990",
		},
		Images:     []woocommerce.Image{{Src: "https://cdn/a.jpg"}},
		Categories: []woocommerce.ProductCategory{{ID: 15, Name: "Seccional Mustang", Slug: "seccional-mustang"}},
		Attributes: []woocommerce.Attribute{
			{Name: "Color", Taxonomy: "pa_color", HasVariations: true, Terms: []woocommerce.AttributeTerm{
				{Name: "Felpa Gris", Slug: "felpa-gris"},
				{Name: "Lino Beige", Slug: "lino-beige"},
			}},
			{Name: "Lado", Taxonomy: "pa_lado", HasVariations: true, Terms: []woocommerce.AttributeTerm{
				{Name: "Izquierdo", Slug: "izquierdo"},
				{Name: "Derecho", Slug: "derecho"},
			}},
		},
		Variations: []woocommerce.Variation{
			{ID: 401, Attributes: []woocommerce.VariationAttribute{{Name: "Color", Value: "felpa-gris"}, {Name: "Lado", Value: "izquierdo"}}},
			{ID: 402, Attributes: []woocommerce.VariationAttribute{{Name: "Color", Value: "lino-beige"}, {Name: "Lado", Value: "derecho"}}},
		},
	}
}

func (b *fakeCatalogBackend) GetProduct(_ context.Context, id int64) (*woocommerce.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, woocommerce.ErrProductNotFound
}

func (b *fakeCatalogBackend) GetProductBySlug(_ context.Context, slug string) (*woocommerce.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	p, ok := b.products[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", woocommerce.ErrProductNotFound, slug)
	}
	return &p, nil
}

func (b *fakeCatalogBackend) ListProducts(_ context.Context, query woocommerce.ProductQuery) ([]woocommerce.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queries = append(b.queries, query)
	if b.err != nil {
		return nil, b.err
	}
	products := b.byCategory[query.CategoryID]
	if query.PerPage > 0 && len(products) > query.PerPage {
		products = products[:query.PerPage]
	}
	return products, nil
}

func (b *fakeCatalogBackend) SearchProducts(_ context.Context, term string) ([]woocommerce.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.searches = append(b.searches, term)
	return []woocommerce.Product{b.products["pouf-redondo"]}, nil
}

func (b *fakeCatalogBackend) ListCategories(_ context.Context) ([]woocommerce.Category, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	return b.categories, nil
}

type fakeDepictions struct {
	images map[int64]string
}

func (f *fakeDepictions) Fetch(_ context.Context, variationID int64) (depiction.Depiction, error) {
	img, ok := f.images[variationID]
	if !ok {
		return depiction.Depiction{}, depiction.ErrInvalidVariation
	}
	return depiction.Depiction{VariationID: variationID, Image: img}, nil
}

func newTestCatalog(backend CatalogBackend) *CatalogService {
	return NewCatalogService(backend, CatalogOptions{
		Format:           money.DefaultFormat,
		CategoryOrder:    map[string]int{"seccionales": 1, "pouf": 4},
		SubcategoryOrder: map[string]int{"seccional-latina": 1, "seccional-mustang": 2},
		RelatedLimit:     2,
	})
}

func newTestCartService(t *testing.T, backend CatalogBackend, depictions DepictionFetcher) *CartService {
	t.Helper()
	registry, err := cart.NewRegistry(cart.NewMemoryStorage(), 16, cart.DefaultKey)
	if err != nil {
		t.Fatalf("new registry failed: %v", err)
	}
	return NewCartService(registry, newTestCatalog(backend), depictions)
}

func newAttemptRepo(t *testing.T) *repository.GormCheckoutAttemptRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return repository.NewCheckoutAttemptRepository(db)
}
