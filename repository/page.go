package repository

const (
	DefaultPageIndex = 1
	DefaultPageSize  = 20
	MaxPageSize      = 100
)

// PageRequest selects a 1-based page.
type PageRequest struct {
	Index int
	Size  int
}

// Normalize clamps the request into a valid range.
func (r PageRequest) Normalize() PageRequest {
	if r.Index < 1 {
		r.Index = DefaultPageIndex
	}
	if r.Size < 1 {
		r.Size = DefaultPageSize
	}
	if r.Size > MaxPageSize {
		r.Size = MaxPageSize
	}
	return r
}

// Offset is the number of rows skipped before the page.
func (r PageRequest) Offset() int {
	return (r.Index - 1) * r.Size
}

// Page is one page of records plus totals.
type Page[T any] struct {
	PageIndex  int  `json:"page_index"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	Items      []*T `json:"items"`
}

// NewPage assembles a page. A nil items slice renders as [].
func NewPage[T any](req PageRequest, total int, items []*T) *Page[T] {
	if items == nil {
		items = []*T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = (total + req.Size - 1) / req.Size
	}
	return &Page[T]{
		PageIndex:  req.Index,
		PageSize:   req.Size,
		Total:      total,
		TotalPages: pages,
		Items:      items,
	}
}
