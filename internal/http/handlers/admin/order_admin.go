package admin

import (
	"strconv"
	"strings"

	"github.com/fenxiao-mall/internal/http/response"
	"github.com/fenxiao-mall/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminOrders 订单列表 (Admin)
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:         page,
		PageSize:     pageSize,
		Status:       c.Query("status"),
		OrderNo:      c.Query("order_no"),
		ReferralCode: c.Query("referral_code"),
	}
	orders, total, err := h.OrderService.ListOrders(filter)
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
	response.SuccessWithPage(c, orders, pagination)
}

// GetAdminOrder 订单详情 (Admin)
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid order id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatusRequest 状态迁移请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAdminOrderStatus 订单状态迁移 (Admin)。
// 订单行更新成功即返回成功；未跑完的副作用以 warnings 返回。
func (h *Handler) UpdateAdminOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid order id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid status payload", err)
		return
	}

	order, warnings, err := h.OrderService.UpdateOrderStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if len(warnings) > 0 {
		requestLog(c).Warnw("order_status_partial_effects",
			"order_id", id,
			"warnings", warnings,
		)
		response.SuccessWithWarnings(c, order, warnings)
		return
	}
	response.Success(c, order)
}

// DeleteAdminOrder 删除订单 (Admin)：先完整逆向台账再删除
func (h *Handler) DeleteAdminOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid order id")
	if !ok {
		return
	}
	if err := h.OrderService.DeleteOrder(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "order deleted", nil)
}

// GetAdminCommissions 佣金流水列表 (Admin)
func (h *Handler) GetAdminCommissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orderID, _ := strconv.ParseUint(c.Query("order_id"), 10, 64)
	affiliateID, _ := strconv.ParseUint(c.Query("affiliate_id"), 10, 64)

	filter := repository.CommissionListFilter{
		Page:        page,
		PageSize:    pageSize,
		OrderID:     uint(orderID),
		AffiliateID: uint(affiliateID),
		Level:       c.Query("level"),
	}
	rows, total, err := h.CommissionRepo.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "commission fetch failed", err)
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

func parseIDParam(c *gin.Context, msg string) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, msg, nil)
		return 0, false
	}
	return uint(id), true
}
