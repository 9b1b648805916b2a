// Package paging keeps page/offset bookkeeping against a backend reported
// total.
package paging

import "fmt"

// DefaultPageSize is the number of results requested per backend page.
const DefaultPageSize = 100

// Paginator tracks the current page of a result set whose total size is
// reported by the backend count query. Pages are 1-based; an empty result
// set is reported as page 0 of 0.
type Paginator struct {
	page     int
	pageSize int
	total    int
}

// New returns a paginator on page 1. A non-positive size selects
// DefaultPageSize.
func New(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{page: 1, pageSize: pageSize}
}

// SetTotal records the backend total and clamps the current page into range.
func (p *Paginator) SetTotal(n int) {
	p.total = max(n, 0)
	if pages := p.TotalPages(); pages > 0 {
		p.page = min(max(p.page, 1), pages)
	}
}

// Total returns the last total passed to SetTotal.
func (p *Paginator) Total() int {
	return p.total
}

// PageSize returns the fixed page size.
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// TotalPages returns ceil(total / pageSize), 0 when there is nothing.
func (p *Paginator) TotalPages() int {
	return (p.total + p.pageSize - 1) / p.pageSize
}

// CurrentPage returns the 1-based page, or 0 when the total is 0.
func (p *Paginator) CurrentPage() int {
	if p.total == 0 {
		return 0
	}
	return p.page
}

// HasNext reports whether Next would move.
func (p *Paginator) HasNext() bool {
	return p.page < p.TotalPages()
}

// HasPrev reports whether Prev would move.
func (p *Paginator) HasPrev() bool {
	return p.page > 1
}

// Next moves to the following page. It is a no-op on the last page and
// reports whether the page changed.
func (p *Paginator) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.page++
	return true
}

// Prev moves to the previous page. It is a no-op on page 1 and reports
// whether the page changed.
func (p *Paginator) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.page--
	return true
}

// Goto jumps to page, clamped into the known range. Before any total is
// known only page 1 is reachable.
func (p *Paginator) Goto(page int) {
	p.page = min(max(page, 1), max(p.TotalPages(), 1))
}

// Offset is the row offset of the current page for the backend query.
func (p *Paginator) Offset() int {
	return (p.page - 1) * p.pageSize
}

// Reset goes back to page 1 and forgets the total. Called whenever the
// query or the filters change.
func (p *Paginator) Reset() {
	p.page = 1
	p.total = 0
}

// Range returns the 1-based positions of the first and last result on the
// current page, (0, 0) when empty.
func (p *Paginator) Range() (int, int) {
	if p.total == 0 {
		return 0, 0
	}
	first := p.Offset() + 1
	last := min(p.page*p.pageSize, p.total)
	return first, last
}

// String renders the pagination label, e.g. "Page 2 of 3 (101-200 of 250)".
func (p *Paginator) String() string {
	if p.total == 0 {
		return "Page 0 of 0"
	}
	first, last := p.Range()
	return fmt.Sprintf("Page %d of %d (%d-%d of %d)", p.page, p.TotalPages(), first, last, p.total)
}
