// Package pager walks a filtered trip view in fixed-size pages.
package pager

import (
	"github.com/runnerr0/bikeshare/internal/trips"
)

// DefaultPageSize is the number of rows shown per page.
const DefaultPageSize = 5

// Page is one window of rows. Start and End are the half-open row range
// within the view.
type Page struct {
	Rows    []trips.Trip
	Start   int
	End     int
	HasMore bool
}

// Paginator is a cursor over a view. It is not safe for concurrent use.
type Paginator struct {
	view   *trips.Table
	size   int
	offset int
}

// New returns a paginator positioned at the first row. A size below 1
// falls back to DefaultPageSize.
func New(view *trips.Table, size int) *Paginator {
	if size < 1 {
		size = DefaultPageSize
	}
	return &Paginator{view: view, size: size}
}

// Next returns the rows [offset, offset+size) clipped to the view and
// advances the cursor. On an empty view the first call returns
// trips.ErrNoData. Once exhausted, Next keeps returning an empty page with
// HasMore false.
func (p *Paginator) Next() (Page, error) {
	n := p.view.Len()
	if n == 0 && p.offset == 0 {
		p.offset = p.size
		return Page{}, trips.ErrNoData
	}

	start := min(p.offset, n)
	end := min(p.offset+p.size, n)
	p.offset += p.size

	return Page{
		Rows:    p.view.Trips[start:end:end],
		Start:   start,
		End:     end,
		HasMore: p.offset < n,
	}, nil
}

// Offset returns the index of the next row Next will return.
func (p *Paginator) Offset() int {
	return p.offset
}

// Remaining returns how many rows have not been returned yet.
func (p *Paginator) Remaining() int {
	return max(p.view.Len()-p.offset, 0)
}
