// Package pagination implements page-based list windows shared by all
// list endpoints.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a sanitized page window. Construct via FromRequest or Sanitize;
// a zero Params is not valid.
type Params struct {
	Page  int
	Limit int
}

// Meta is the envelope pagination block returned alongside list payloads.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// FromRequest reads page/limit query parameters, falling back to defaults
// and clamping out-of-range values rather than rejecting them.
func FromRequest(r *http.Request) Params {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return Sanitize(page, limit)
}

// Sanitize clamps raw page/limit values into a usable window.
func Sanitize(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the row offset for the window.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MetaFor derives the full pagination block from a total row count.
func (p Params) MetaFor(total int64) Meta {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if pages < 1 {
		pages = 1
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}
