package shared

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// NormalizePagination 归一化分页参数，结账记录等列表默认每页 10 条
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
