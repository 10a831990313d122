package public

import "github.com/fenxiao-mall/internal/provider"

// Handler 面向买家与分销用户的公开接口处理器
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
