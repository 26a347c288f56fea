// Package pagination computes page windows and their metadata.
package pagination

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit bounds a single page so one request cannot pull the whole table.
	MaxLimit = 100
	// MaxPage keeps (page-1)*limit inside an int for every valid limit.
	MaxPage = math.MaxInt / MaxLimit
)

// Params is a 1-based page request.
type Params struct {
	Page  int
	Limit int
}

// Meta describes a sliced result set. It is always derived from the count of
// the same filtered set the page was cut from.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Normalize coerces page into [1, MaxPage] and limit into [1, MaxLimit]. Zero
// values take the defaults.
func (p Params) Normalize() Params {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of records skipped before the page starts.
func (p Params) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

// NewMeta builds the metadata for total matching records.
func NewMeta(p Params, total int) Meta {
	p = p.Normalize()
	if total < 0 {
		total = 0
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}
}

// Window returns the page of items selected by p. items must already be in
// result order. A page past the end yields an empty, non-nil slice.
func Window[T any](items []T, p Params) []T {
	p = p.Normalize()
	start := p.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
