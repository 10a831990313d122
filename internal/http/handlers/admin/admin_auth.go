package admin

import (
	"strings"

	"github.com/fenxiao-mall/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 管理员登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid login payload", err)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"admin":      admin,
		"token":      token,
		"expires_at": expiresAt,
	})
}
