package public

import (
	"github.com/ml-muebles/storefront/internal/http/response"
	"github.com/ml-muebles/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	Slug      string            `json:"slug" binding:"required"`
	Selection map[string]string `json:"selection"`
	Quantity  int               `json:"quantity"`
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	view, err := h.CartService.Get(c.Request.Context(), session)
	if err != nil {
		respondWithMappedError(c, err, cartCommonErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	response.Success(c, view)
}

// AddCartItem 按变体选择加购
func (h *Handler) AddCartItem(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.CartService.AddFromSelection(c.Request.Context(), service.AddToCartInput{
		Session:   session,
		Slug:      req.Slug,
		Selection: req.Selection,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateCartItem 修改数量，0 表示移除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.CartService.UpdateQuantity(c.Request.Context(), session, c.Param("line_id"), *req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// DeleteCartItem 删除购物车行
func (h *Handler) DeleteCartItem(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	view, err := h.CartService.RemoveItem(c.Request.Context(), session, c.Param("line_id"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	view, err := h.CartService.Clear(c.Request.Context(), session)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}
