package admin

import (
	"strconv"

	"github.com/fenxiao-mall/internal/cache"
	handlershared "github.com/fenxiao-mall/internal/http/handlers/shared"
	"github.com/fenxiao-mall/internal/http/response"
	"github.com/fenxiao-mall/internal/logger"
	"github.com/fenxiao-mall/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminAffiliates 分销用户列表 (Admin)
func (h *Handler) GetAdminAffiliates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.AffiliateListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Keyword:  c.Query("search"),
	}
	rows, total, err := h.AffiliateService.ListAffiliates(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, rows, pagination)
}

// GetAdminAffiliateTree 分销用户树视图 (Admin)
func (h *Handler) GetAdminAffiliateTree(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid affiliate id")
	if !ok {
		return
	}
	tree, err := h.AffiliateService.GetTree(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, tree)
}

// UpdateAffiliateStatusRequest 启停分销用户请求
type UpdateAffiliateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAdminAffiliateStatus 启用/停用分销用户 (Admin)
func (h *Handler) UpdateAdminAffiliateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid affiliate id")
	if !ok {
		return
	}
	var req UpdateAffiliateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid status payload", err)
		return
	}
	if err := h.AffiliateService.UpdateAffiliateStatus(id, req.Status); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := cache.Del(c.Request.Context(), handlershared.AffiliateTreeCacheKey(id)); err != nil {
		logger.Warnw("affiliate_tree_cache_evict_failed", "affiliate_id", id, "error", err.Error())
	}
	response.SuccessWithMsg(c, "affiliate status updated", nil)
}
