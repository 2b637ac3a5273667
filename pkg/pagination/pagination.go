package pagination

import "errors"

var (
	ErrInvalidPageSize = errors.New("page size must be greater than zero")
	ErrInvalidPage     = errors.New("page must be greater than zero")
)

// Page describes one slice of an ordered result set. Pages are 1-indexed.
type Page struct {
	Start   int
	End     int
	HasNext bool
}

// Slice computes the half-open index range [Start, End) for the requested
// page over a result set of totalCount items. Requesting a page past the
// end yields an empty range, not an error.
func Slice(totalCount, pageSize, page int) (Page, error) {
	if pageSize <= 0 {
		return Page{}, ErrInvalidPageSize
	}
	if page <= 0 {
		return Page{}, ErrInvalidPage
	}

	start := (page - 1) * pageSize
	if start >= totalCount {
		return Page{Start: totalCount, End: totalCount, HasNext: false}, nil
	}

	end := start + pageSize
	if end > totalCount {
		end = totalCount
	}

	return Page{Start: start, End: end, HasNext: end < totalCount}, nil
}

// Limit returns the number of items in the page.
func (p Page) Limit() int {
	return p.End - p.Start
}

// Offset returns the index of the first item in the page.
func (p Page) Offset() int {
	return p.Start
}
