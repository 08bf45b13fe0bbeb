// Package paging provides page-number pagination for public listings.
//
// The public contest listing is paged with a fixed size of 10 and reports
// total results and total pages alongside each page.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the fixed number of rows per page in public listings.
const PageSize = 10

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if absent or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Skip returns the number of documents to skip for the given 1-based page.
func Skip(page int) int64 {
	if page < 1 {
		page = 1
	}
	return int64(page-1) * PageSize
}

// TotalPages returns the number of pages needed for total results.
// Zero results is zero pages.
func TotalPages(total int64) int64 {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// Meta is the pagination block returned with paged listings.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewMeta builds the pagination block for a page of a total result set.
func NewMeta(page int, total int64) Meta {
	return Meta{
		Page:       page,
		PageSize:   PageSize,
		Total:      total,
		TotalPages: TotalPages(total),
	}
}
