package pagination

// Fixed page sizes used by the list endpoints. Products render a 12-card
// grid; everything else lists ten rows per page.
const (
	ProductPageSize = 12
	DefaultPageSize = 10
)

// Params holds 1-indexed page inputs from controllers.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps the page to 1 and applies the fallback page size.
func (p Params) Normalize(fallbackSize int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = fallbackSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Page is the uniform list response shape: items plus page bookkeeping.
type Page[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

// NewPage assembles a Page from a result slice and the total row count.
func NewPage[T any](items []T, params Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Page:  params.Page,
		Pages: PageCount(total, params.PageSize),
		Total: total,
	}
}

// PageCount returns the number of pages needed for total rows.
func PageCount(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}
	return int(pages)
}
