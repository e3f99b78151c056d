// Package pagination builds the {count, next, previous, results} envelope
// returned by every listing endpoint. It performs no I/O.
package pagination

import (
	"fmt"
	"math"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Envelope is the page wrapper for list responses.
// Next and Previous are null when there is no such page.
type Envelope[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Offset converts a 1-based page into a row offset.
// Offsets too large for int64 saturate at math.MaxInt64.
func Offset(page, limit int) int64 {
	if page < 1 || limit < 1 {
		return 0
	}
	p, l := int64(page-1), int64(limit)
	if p > math.MaxInt64/l {
		return math.MaxInt64
	}
	return p * l
}

// TotalPages is ceil(total/limit)
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

// Paginate wraps a page of items. The links depend only on page, limit and total.
func Paginate[T any](items []T, total int64, page, limit int, baseURL string) Envelope[T] {
	if items == nil {
		items = []T{}
	}

	env := Envelope[T]{
		Count:   total,
		Results: items,
	}

	if int64(page) < TotalPages(total, limit) {
		next := pageURL(baseURL, page+1, limit)
		env.Next = &next
	}

	if page > 1 {
		prev := pageURL(baseURL, page-1, limit)
		env.Previous = &prev
	}

	return env
}

func pageURL(baseURL string, page, limit int) string {
	return fmt.Sprintf("%s?page=%d&limit=%d", baseURL, page, limit)
}
