package repository

// CheckoutAttemptListFilter 查询结账尝试列表的过滤条件
type CheckoutAttemptListFilter struct {
	Page       int
	PageSize   int
	SessionKey string
	Status     string
}
