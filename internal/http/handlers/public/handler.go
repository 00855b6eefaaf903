package public

import "github.com/ml-muebles/storefront/internal/provider"

// Handler 店铺前台接口处理器入口
// 说明：所有接口按购物会话（cookie / X-Storefront-Session）区分访客。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
