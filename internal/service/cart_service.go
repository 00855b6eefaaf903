package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ml-muebles/storefront/internal/cart"
	"github.com/ml-muebles/storefront/internal/depiction"
	"github.com/ml-muebles/storefront/internal/logger"
	"github.com/ml-muebles/storefront/internal/variant"
)

// DepictionFetcher 变体展示图
type DepictionFetcher interface {
	Fetch(ctx context.Context, variationID int64) (depiction.Depiction, error)
}

// CartView 购物车响应
type CartView struct {
	Items          []cart.LineItem `json:"items"`
	TotalItemCount int             `json:"total_item_count"`
	Subtotal       string          `json:"subtotal"`
	SubtotalAmount string          `json:"subtotal_amount"`
}

// AddToCartInput 加购输入：商品 slug + 各轴选择
type AddToCartInput struct {
	Session   string
	Slug      string
	Selection map[string]string
	Quantity  int
}

// CartService 会话购物车服务
type CartService struct {
	registry   *cart.Registry
	catalog    *CatalogService
	depictions DepictionFetcher
}

// NewCartService 创建购物车服务
func NewCartService(registry *cart.Registry, catalog *CatalogService, depictions DepictionFetcher) *CartService {
	return &CartService{
		registry:   registry,
		catalog:    catalog,
		depictions: depictions,
	}
}

// Store 获取会话购物车
func (s *CartService) Store(ctx context.Context, session string) (*cart.Store, error) {
	if strings.TrimSpace(session) == "" {
		return nil, ErrSessionRequired
	}
	store, err := s.registry.Get(ctx, session)
	if err != nil {
		if errors.Is(err, cart.ErrEmptySession) {
			return nil, ErrSessionRequired
		}
		return nil, err
	}
	return store, nil
}

// Get 购物车内容
func (s *CartService) Get(ctx context.Context, session string) (*CartView, error) {
	store, err := s.Store(ctx, session)
	if err != nil {
		return nil, err
	}
	return buildCartView(store), nil
}

// AddFromSelection 按变体选择加购；选择不完整或组合不存在时拒绝
func (s *CartService) AddFromSelection(ctx context.Context, input AddToCartInput) (*CartView, error) {
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	store, err := s.Store(ctx, input.Session)
	if err != nil {
		return nil, err
	}
	detail, err := s.catalog.GetProduct(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if !detail.InStock {
		return nil, ErrProductNotPurchasable
	}
	resolver, err := applySelection(detail, input.Selection)
	if err != nil {
		return nil, err
	}
	if err := resolver.Validate(); err != nil {
		var incomplete *variant.IncompleteSelectionError
		if errors.As(err, &incomplete) {
			return nil, fmt.Errorf("%w: %w", ErrVariantIncomplete, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrVariantUnavailable, err)
	}

	item := cart.LineItem{
		ProductID:         detail.ID,
		Name:              detail.Name,
		Slug:              detail.Slug,
		Image:             detail.Image,
		UnitPrice:         detail.UnitPrice(),
		OriginalUnitPrice: detail.OriginalUnitPrice(),
		Quantity:          input.Quantity,
	}
	if match, _ := resolver.ResolveMatch(); match.ID > 0 {
		id := match.ID
		item.VariationID = &id
		item.VariantLabel = resolver.Label()
		item.VariantSwatchColor = resolver.SwatchColor()
		item.Image = s.variantImage(ctx, id, item.Image)
		if resolver.Ambiguous() {
			logger.Warnw("cart_variant_ambiguous", "product_id", detail.ID, "variation_id", id, "selection", resolver.Selection())
		}
	}
	if err := store.AddItem(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProductNotPurchasable, err)
	}
	return buildCartView(store), nil
}

// UpdateQuantity 修改数量；<=0 时移除，不存在的行保持原样
func (s *CartService) UpdateQuantity(ctx context.Context, session, lineID string, quantity int) (*CartView, error) {
	store, err := s.Store(ctx, session)
	if err != nil {
		return nil, err
	}
	store.UpdateQuantity(ctx, lineID, quantity)
	return buildCartView(store), nil
}

// RemoveItem 移除购物车行；不存在的行保持原样
func (s *CartService) RemoveItem(ctx context.Context, session, lineID string) (*CartView, error) {
	store, err := s.Store(ctx, session)
	if err != nil {
		return nil, err
	}
	store.RemoveItem(ctx, lineID)
	return buildCartView(store), nil
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, session string) (*CartView, error) {
	store, err := s.Store(ctx, session)
	if err != nil {
		return nil, err
	}
	store.Clear(ctx)
	return buildCartView(store), nil
}

func (s *CartService) variantImage(ctx context.Context, variationID int64, fallback string) string {
	if s.depictions == nil {
		return fallback
	}
	d, err := s.depictions.Fetch(ctx, variationID)
	if err != nil {
		logger.Debugw("cart_variant_image_fallback", "variation_id", variationID, "error", err)
		return fallback
	}
	if d.Image == "" {
		return fallback
	}
	return d.Image
}

func buildCartView(store *cart.Store) *CartView {
	return &CartView{
		Items:          store.Items(),
		TotalItemCount: store.TotalItemCount(),
		Subtotal:       store.Subtotal(),
		SubtotalAmount: store.SubtotalAmount(),
	}
}
