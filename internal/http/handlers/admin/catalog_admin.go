package admin

import (
	"strconv"

	"github.com/fenxiao-mall/internal/http/response"
	"github.com/fenxiao-mall/internal/repository"
	"github.com/fenxiao-mall/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateAdminVendor 创建供应商 (Admin)
func (h *Handler) CreateAdminVendor(c *gin.Context) {
	var input service.CreateVendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "invalid vendor payload", err)
		return
	}
	vendor, err := h.CatalogService.CreateVendor(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, vendor)
}

// GetAdminVendors 供应商列表 (Admin)
func (h *Handler) GetAdminVendors(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.VendorListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Keyword:  c.Query("search"),
	}
	rows, total, err := h.CatalogService.ListVendors(filter)
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

// CreateAdminProduct 创建商品 (Admin)
func (h *Handler) CreateAdminProduct(c *gin.Context) {
	var input service.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "invalid product payload", err)
		return
	}
	product, err := h.CatalogService.CreateProduct(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// GetAdminProduct 商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid product id")
	if !ok {
		return
	}
	product, err := h.CatalogService.GetProduct(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}
