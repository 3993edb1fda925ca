// Package utils 提供分页、错误包装与重试等通用工具
package utils

import "math"

// Pagination 分页信息
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination 创建分页信息，page 小于 1 时取 1，limit 小于 1 时取 10
func NewPagination(page, limit, total int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
}

// Offset 获取偏移量，乘法溢出时取 math.MaxInt
func (p Pagination) Offset() int {
	if p.Page <= 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Window 返回当前页在长度为 n 的切片中的 [start, end) 区间，越界页返回 [n, n)
func (p Pagination) Window(n int) (int, int) {
	if p.Limit < 1 || p.Page-1 > n/p.Limit {
		return n, n
	}
	start := p.Offset()
	if start > n {
		start = n
	}
	return start, start + min(p.Limit, n-start)
}

// Paginate 对切片做内存分页
func Paginate[T any](items []T, p Pagination) []T {
	start, end := p.Window(len(items))
	return items[start:end]
}
