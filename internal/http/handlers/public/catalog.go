package public

import (
	"strconv"
	"strings"

	"github.com/ml-muebles/storefront/internal/http/response"
	"github.com/ml-muebles/storefront/internal/woocommerce"

	"github.com/gin-gonic/gin"
)

// ProductDetailResponse 商品详情响应
type ProductDetailResponse struct {
	Product *woocommerce.ProductDetail `json:"product"`
	Related []woocommerce.ProductCard  `json:"related"`
}

// GetCategories 导航分类树
func (h *Handler) GetCategories(c *gin.Context) {
	nodes, err := h.CatalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err, "error.category_fetch_failed")
		return
	}
	response.Success(c, nodes)
}

// GetCategoryPage 分类页：有子分类时按子分类分组
func (h *Handler) GetCategoryPage(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	result, err := h.CatalogService.CategoryPage(c.Request.Context(), c.Param("slug"), page)
	if err != nil {
		respondCatalogError(c, err, "error.category_fetch_failed")
		return
	}
	response.Success(c, result)
}

// GetProduct 商品详情与同分类推荐
func (h *Handler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()
	detail, err := h.CatalogService.GetProduct(ctx, c.Param("slug"))
	if err != nil {
		respondCatalogError(c, err, "error.product_fetch_failed")
		return
	}
	related, err := h.CatalogService.RelatedProducts(ctx, detail)
	if err != nil {
		// 推荐失败不影响详情
		requestLog(c).Warnw("catalog_related_fetch_failed", "product_id", detail.ID, "error", err)
		related = []woocommerce.ProductCard{}
	}
	response.Success(c, ProductDetailResponse{
		Product: detail,
		Related: related,
	})
}

// GetSelectionState 变体选择状态，选择通过 selection[pa_color]=gris 传入
func (h *Handler) GetSelectionState(c *gin.Context) {
	state, err := h.CatalogService.SelectionState(c.Request.Context(), c.Param("slug"), c.QueryMap("selection"))
	if err != nil {
		respondSelectionError(c, err)
		return
	}
	response.Success(c, state)
}

// SearchProducts 关键字搜索
func (h *Handler) SearchProducts(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	products, err := h.CatalogService.Search(c.Request.Context(), term)
	if err != nil {
		respondCatalogError(c, err, "error.product_fetch_failed")
		return
	}
	response.Success(c, gin.H{
		"query":    term,
		"products": products,
	})
}
