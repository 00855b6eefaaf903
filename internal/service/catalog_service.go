package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ml-muebles/storefront/internal/cache"
	"github.com/ml-muebles/storefront/internal/logger"
	"github.com/ml-muebles/storefront/internal/money"
	"github.com/ml-muebles/storefront/internal/variant"
	"github.com/ml-muebles/storefront/internal/woocommerce"

	"golang.org/x/sync/errgroup"
)

const (
	defaultCategoryRank = 99
	defaultRelatedLimit = 4
	categoryCacheKey    = "catalog:categories"
)

// CatalogBackend 商品目录后端
type CatalogBackend interface {
	GetProduct(ctx context.Context, id int64) (*woocommerce.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*woocommerce.Product, error)
	ListProducts(ctx context.Context, query woocommerce.ProductQuery) ([]woocommerce.Product, error)
	SearchProducts(ctx context.Context, term string) ([]woocommerce.Product, error)
	ListCategories(ctx context.Context) ([]woocommerce.Category, error)
}

// CatalogOptions 目录服务配置
type CatalogOptions struct {
	Format           money.Format
	CategoryOrder    map[string]int
	SubcategoryOrder map[string]int
	RelatedLimit     int
	CacheTTL         time.Duration
}

// CategoryNode 导航分类
type CategoryNode struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description,omitempty"`
	Image       string         `json:"image,omitempty"`
	Count       int            `json:"count"`
	Children    []CategoryNode `json:"children,omitempty"`
}

// CategorySection 分类页中的子分类区块
type CategorySection struct {
	Category CategoryNode              `json:"category"`
	Products []woocommerce.ProductCard `json:"products"`
}

// CategoryPage 分类页；有子分类时按子分类分区，否则直接列出商品
type CategoryPage struct {
	Category CategoryNode              `json:"category"`
	Sections []CategorySection         `json:"sections,omitempty"`
	Products []woocommerce.ProductCard `json:"products,omitempty"`
}

// OptionState 选项可选状态
type OptionState struct {
	variant.Option
	Available bool `json:"available"`
	Selected  bool `json:"selected"`
}

// AxisState 单个属性轴状态
type AxisState struct {
	Taxonomy string        `json:"taxonomy"`
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Options  []OptionState `json:"options"`
}

// SelectionState 变体选择结果
type SelectionState struct {
	ProductID   int64             `json:"product_id"`
	Axes        []AxisState       `json:"axes"`
	Selection   map[string]string `json:"selection"`
	Missing     []string          `json:"missing"`
	Resolved    bool              `json:"resolved"`
	VariationID int64             `json:"variation_id,omitempty"`
	Ambiguous   bool              `json:"ambiguous,omitempty"`
	Label       string            `json:"label,omitempty"`
	SwatchColor string            `json:"swatch_color,omitempty"`
}

// CatalogService 商品目录服务
type CatalogService struct {
	backend          CatalogBackend
	format           money.Format
	categoryOrder    map[string]int
	subcategoryOrder map[string]int
	relatedLimit     int
	cacheTTL         time.Duration
}

// NewCatalogService 创建目录服务
func NewCatalogService(backend CatalogBackend, opts CatalogOptions) *CatalogService {
	limit := opts.RelatedLimit
	if limit <= 0 {
		limit = defaultRelatedLimit
	}
	return &CatalogService{
		backend:          backend,
		format:           opts.Format.Normalize(),
		categoryOrder:    opts.CategoryOrder,
		subcategoryOrder: opts.SubcategoryOrder,
		relatedLimit:     limit,
		cacheTTL:         opts.CacheTTL,
	}
}

// Format 金额格式
func (s *CatalogService) Format() money.Format {
	return s.format
}

// GetProduct 按 slug 获取商品详情，Redis 启用时缓存
func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*woocommerce.ProductDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrProductNotFound
	}
	key := "product:slug:" + slug
	if s.cacheTTL > 0 {
		var cached woocommerce.ProductDetail
		hit, err := cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logger.Warnw("catalog_product_cache_get_failed", "slug", slug, "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	product, err := s.backend.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, mapBackendError(err)
	}
	detail := woocommerce.MapProductDetail(*product, s.format)
	if s.cacheTTL > 0 {
		if err := cache.SetJSON(ctx, key, detail, s.cacheTTL); err != nil {
			logger.Warnw("catalog_product_cache_set_failed", "slug", slug, "error", err)
		}
	}
	return &detail, nil
}

// RelatedProducts 同分类的其他商品
func (s *CatalogService) RelatedProducts(ctx context.Context, detail *woocommerce.ProductDetail) ([]woocommerce.ProductCard, error) {
	if detail == nil || detail.CategoryID <= 0 {
		return []woocommerce.ProductCard{}, nil
	}
	products, err := s.backend.ListProducts(ctx, woocommerce.ProductQuery{
		CategoryID: detail.CategoryID,
		Page:       1,
		PerPage:    s.relatedLimit + 1,
	})
	if err != nil {
		return nil, mapBackendError(err)
	}
	related := make([]woocommerce.Product, 0, s.relatedLimit)
	for _, p := range products {
		if p.ID == detail.ID {
			continue
		}
		related = append(related, p)
		if len(related) == s.relatedLimit {
			break
		}
	}
	return woocommerce.MapProductCards(related, s.format), nil
}

// Search 关键字搜索；空关键字直接返回空结果
func (s *CatalogService) Search(ctx context.Context, term string) ([]woocommerce.ProductCard, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []woocommerce.ProductCard{}, nil
	}
	products, err := s.backend.SearchProducts(ctx, term)
	if err != nil {
		return nil, mapBackendError(err)
	}
	return woocommerce.MapProductCards(products, s.format), nil
}

// ListCategories 导航分类树：只保留有商品的根分类，按配置顺序排列
func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryNode, error) {
	all, err := s.categories(ctx)
	if err != nil {
		return nil, err
	}
	hasProducts := make(map[int64]bool, len(all))
	for _, c := range all {
		if c.Count > 0 && c.Parent != 0 {
			hasProducts[c.Parent] = true
		}
	}

	roots := make([]woocommerce.Category, 0)
	for _, c := range all {
		if c.Parent != 0 {
			continue
		}
		if c.Count > 0 || hasProducts[c.ID] {
			roots = append(roots, c)
		}
	}
	sortByRank(roots, s.categoryOrder)

	nodes := make([]CategoryNode, 0, len(roots))
	for _, root := range roots {
		node := toCategoryNode(root)
		node.Children = s.childNodes(all, root.ID, true)
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// CategoryPage 分类页内容
func (s *CatalogService) CategoryPage(ctx context.Context, slug string, page int) (*CategoryPage, error) {
	slug = strings.TrimSpace(slug)
	all, err := s.categories(ctx)
	if err != nil {
		return nil, err
	}
	var current *woocommerce.Category
	for i := range all {
		if all[i].Slug == slug {
			current = &all[i]
			break
		}
	}
	if current == nil {
		return nil, ErrCategoryNotFound
	}

	result := &CategoryPage{Category: toCategoryNode(*current)}
	children := s.childNodes(all, current.ID, false)
	if len(children) == 0 {
		if page < 1 {
			page = 1
		}
		products, err := s.backend.ListProducts(ctx, woocommerce.ProductQuery{CategoryID: current.ID, Page: page})
		if err != nil {
			return nil, mapBackendError(err)
		}
		result.Products = woocommerce.MapProductCards(products, s.format)
		return result, nil
	}

	sections := make([]CategorySection, len(children))
	g, gctx := errgroup.WithContext(ctx)
	for i, child := range children {
		g.Go(func() error {
			products, err := s.backend.ListProducts(gctx, woocommerce.ProductQuery{CategoryID: child.ID, Page: 1})
			if err != nil {
				return err
			}
			sections[i] = CategorySection{
				Category: child,
				Products: woocommerce.MapProductCards(products, s.format),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, mapBackendError(err)
	}
	result.Sections = sections
	return result, nil
}

// SelectionState 按当前选择计算各选项可选状态与解析结果
func (s *CatalogService) SelectionState(ctx context.Context, slug string, selection map[string]string) (*SelectionState, error) {
	detail, err := s.GetProduct(ctx, slug)
	if err != nil {
		return nil, err
	}
	resolver, err := applySelection(detail, selection)
	if err != nil {
		return nil, err
	}
	return describeSelection(detail.ID, resolver), nil
}

func applySelection(detail *woocommerce.ProductDetail, selection map[string]string) (*variant.Resolver, error) {
	resolver := detail.Resolver()
	for axis, slug := range selection {
		slug = strings.TrimSpace(slug)
		if slug == "" {
			resolver.Clear(axis)
			continue
		}
		if err := resolver.Select(axis, slug); err != nil {
			return nil, fmt.Errorf("%w: %s=%s: %w", ErrVariantInvalid, axis, slug, err)
		}
	}
	return resolver, nil
}

func describeSelection(productID int64, resolver *variant.Resolver) *SelectionState {
	current := resolver.Selection()
	state := &SelectionState{
		ProductID: productID,
		Axes:      make([]AxisState, 0, len(resolver.Groups())),
		Selection: current,
		Missing:   []string{},
	}
	for _, g := range resolver.Groups() {
		axis := AxisState{Taxonomy: g.Taxonomy, Name: g.Name, Type: g.Type, Options: make([]OptionState, 0, len(g.Options))}
		for _, opt := range g.Options {
			axis.Options = append(axis.Options, OptionState{
				Option:    opt,
				Available: resolver.IsOptionAvailable(g.Taxonomy, opt.Slug),
				Selected:  current[g.Taxonomy] == opt.Slug,
			})
		}
		state.Axes = append(state.Axes, axis)
	}
	for _, g := range resolver.MissingAxes() {
		state.Missing = append(state.Missing, g.Taxonomy)
	}
	if match, ok := resolver.ResolveMatch(); ok {
		state.Resolved = true
		state.VariationID = match.ID
		state.Ambiguous = resolver.Ambiguous()
	}
	state.Label = resolver.Label()
	state.SwatchColor = resolver.SwatchColor()
	return state
}

func (s *CatalogService) categories(ctx context.Context) ([]woocommerce.Category, error) {
	if s.cacheTTL > 0 {
		var cached []woocommerce.Category
		hit, err := cache.GetJSON(ctx, categoryCacheKey, &cached)
		if err != nil {
			logger.Warnw("catalog_category_cache_get_failed", "error", err)
		}
		if hit {
			return cached, nil
		}
	}
	all, err := s.backend.ListCategories(ctx)
	if err != nil {
		return nil, mapBackendError(err)
	}
	if s.cacheTTL > 0 {
		if err := cache.SetJSON(ctx, categoryCacheKey, all, s.cacheTTL); err != nil {
			logger.Warnw("catalog_category_cache_set_failed", "error", err)
		}
	}
	return all, nil
}

func (s *CatalogService) childNodes(all []woocommerce.Category, parentID int64, onlyWithProducts bool) []CategoryNode {
	children := make([]woocommerce.Category, 0)
	for _, c := range all {
		if c.Parent != parentID {
			continue
		}
		if onlyWithProducts && c.Count == 0 {
			continue
		}
		children = append(children, c)
	}
	sortByRank(children, s.subcategoryOrder)
	nodes := make([]CategoryNode, 0, len(children))
	for _, c := range children {
		nodes = append(nodes, toCategoryNode(c))
	}
	return nodes
}

// sortByRank 按配置排序，未配置的排在后面并保持后端顺序
func sortByRank(categories []woocommerce.Category, order map[string]int) {
	rank := func(slug string) int {
		if v, ok := order[slug]; ok {
			return v
		}
		return defaultCategoryRank
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return rank(categories[i].Slug) < rank(categories[j].Slug)
	})
}

func toCategoryNode(c woocommerce.Category) CategoryNode {
	node := CategoryNode{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: strings.TrimSpace(stripTags(c.Description)),
		Count:       c.Count,
	}
	if c.Image != nil {
		node.Image = c.Image.Src
	}
	return node
}

func mapBackendError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, woocommerce.ErrProductNotFound) {
		return fmt.Errorf("%w: %w", ErrProductNotFound, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
}

func stripTags(raw string) string {
	var b strings.Builder
	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
