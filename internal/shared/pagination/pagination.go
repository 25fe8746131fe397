// Package pagination carries page requests and paged results across layers.
package pagination

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Limits bounds page sizes accepted from callers.
type Limits struct {
	DefaultSize int
	MaxSize     int
}

// DefaultLimits returns the limits used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{DefaultSize: DefaultPageSize, MaxSize: MaxPageSize}
}

// Request selects a 1-based page.
type Request struct {
	PageIndex int
	PageSize  int
}

// Normalize clamps the request into the given limits.
func (r Request) Normalize(l Limits) Request {
	if l.DefaultSize <= 0 {
		l.DefaultSize = DefaultPageSize
	}
	if l.MaxSize <= 0 {
		l.MaxSize = MaxPageSize
	}
	if l.DefaultSize > l.MaxSize {
		l.DefaultSize = l.MaxSize
	}
	if r.PageIndex < 1 {
		r.PageIndex = 1
	}
	switch {
	case r.PageSize <= 0:
		r.PageSize = l.DefaultSize
	case r.PageSize > l.MaxSize:
		r.PageSize = l.MaxSize
	}
	// The offset of the last page must stay representable.
	if last := math.MaxInt / r.PageSize; r.PageIndex > last {
		r.PageIndex = last
	}
	return r
}

// Offset is the number of rows skipped before the page starts. It saturates at
// math.MaxInt instead of overflowing.
func (r Request) Offset() int {
	if r.PageIndex < 1 || r.PageSize <= 0 {
		return 0
	}
	if r.PageIndex-1 > math.MaxInt/r.PageSize {
		return math.MaxInt
	}
	return (r.PageIndex - 1) * r.PageSize
}

// List is one page of results plus totals.
type List[T any] struct {
	Items      []T   `json:"items"`
	PageIndex  int   `json:"page_index"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// NewList wraps items fetched for req.
func NewList[T any](items []T, req Request, total int64) *List[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.PageSize > 0 {
		pages = int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return &List[T]{
		Items:      items,
		PageIndex:  req.PageIndex,
		PageSize:   req.PageSize,
		TotalCount: total,
		TotalPages: pages,
	}
}

// HasNext reports whether a later page exists.
func (l *List[T]) HasNext() bool {
	return l != nil && l.PageIndex < l.TotalPages
}

// Map converts the items of a page, keeping the totals.
func Map[T, U any](in *List[T], fn func(T) U) *List[U] {
	if in == nil {
		return nil
	}
	out := make([]U, 0, len(in.Items))
	for _, item := range in.Items {
		out = append(out, fn(item))
	}
	return &List[U]{
		Items:      out,
		PageIndex:  in.PageIndex,
		PageSize:   in.PageSize,
		TotalCount: in.TotalCount,
		TotalPages: in.TotalPages,
	}
}

// Slice returns the window of items selected by req, for in-memory sources.
func Slice[T any](items []T, req Request) []T {
	start := req.Offset()
	if start < 0 || start >= len(items) {
		return nil
	}
	end := len(items)
	if req.PageSize > 0 && req.PageSize < end-start {
		end = start + req.PageSize
	}
	return items[start:end]
}
