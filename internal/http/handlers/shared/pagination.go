package shared

// 分页默认值与上限
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePagination 归一化查询入参：页码最小为 1，
// 页大小缺省 20、封顶 100。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize <= 0:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}
	return page, pageSize
}
