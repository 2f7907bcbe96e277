package pagination

import "gorm.io/gorm"

const (
	defaultPageSize = 50
	maxPageSize     = 250
)

// Pagination carries page/limit query parameters for list endpoints.
type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// PageInfo describes the slice of results a list response covers.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
}

func (p Pagination) normalized() (page, size int) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	size = p.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// Apply adds OFFSET/LIMIT clauses to the statement.
func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	page, size := p.normalized()
	return stmt.Offset((page - 1) * size).Limit(size)
}

// Info builds the PageInfo for a total row count.
func (p Pagination) Info(total int64) PageInfo {
	page, size := p.normalized()
	return PageInfo{Page: page, PageSize: size, TotalCount: total}
}
