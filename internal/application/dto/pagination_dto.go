package dto

import "confighub-core/internal/pagination"

// PaginationQuery is bound from ?page=&limit= on listing endpoints.
// Non-integer or out of range values fail binding.
type PaginationQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

// Normalize fills in defaults for a zero value query
func (q *PaginationQuery) Normalize() {
	if q.Page == 0 {
		q.Page = pagination.DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = pagination.DefaultLimit
	}
}
