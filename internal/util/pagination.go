package util

import "strconv"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination 规范化后的分页参数
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePagination 将原始 page/limit 字符串规范化为安全的分页参数。
// 非数字输入按默认值处理；page 最小为 1，limit 限定在 [1, 100]。
func ParsePagination(pageStr, limitStr string) Pagination {
	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
