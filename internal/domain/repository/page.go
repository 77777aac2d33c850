package repository

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// NewPage normalises raw query values; max <= 0 means MaxPageSize.
func NewPage(page, limit, max int) Page {
	if max <= 0 {
		max = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > max {
		limit = max
	}
	// keep Offset from overflowing; such a page is past any real total anyway
	if page-1 > math.MaxInt/limit {
		page = math.MaxInt / limit
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// TotalPages is ceil(total/limit).
func (p Page) TotalPages(total int) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
