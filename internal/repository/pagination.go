package repository

import "gorm.io/gorm"

// maxPageSize 单页上限，防止全表拉取
const maxPageSize = 200

// applyPagination 统一分页：页码从 1 起算，页大小超限时截断。
// pageSize <= 0 视为调用方不分页。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
