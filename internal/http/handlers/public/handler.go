package public

import "github.com/nearshelf/internal/provider"

// Handler 公开接口处理器入口
// 说明：搜索、联想、商品详情与 POS webhook 均无需鉴权。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
