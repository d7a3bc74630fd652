package pagination

// Paginator tracks the current page of a result list. Reset must be called
// whenever the list is replaced so a stale page index is never kept against
// a list of a different length.
type Paginator struct {
	pageSize  int
	delta     int
	itemCount int
	current   int
}

// NewPaginator creates a paginator; non-positive sizes fall back to 6 per
// page and DefaultDelta.
func NewPaginator(pageSize, delta int) *Paginator {
	if pageSize <= 0 {
		pageSize = 6
	}
	if delta <= 0 {
		delta = DefaultDelta
	}
	return &Paginator{pageSize: pageSize, delta: delta, current: 1}
}

// Reset points the paginator at a new list and returns to page 1
func (p *Paginator) Reset(itemCount int) {
	p.itemCount = max(itemCount, 0)
	p.current = 1
}

// Current returns the current page
func (p *Paginator) Current() int {
	return p.current
}

// PageSize returns the page size
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// TotalPages returns the number of pages for the current list
func (p *Paginator) TotalPages() int {
	return TotalPages(p.itemCount, p.pageSize)
}

// Goto moves to page, clamped into range, and returns the page reached
func (p *Paginator) Goto(page int) int {
	p.current = ClampPage(page, p.TotalPages())
	return p.current
}

// Next moves forward one page if possible
func (p *Paginator) Next() int {
	return p.Goto(p.current + 1)
}

// Prev moves back one page if possible
func (p *Paginator) Prev() int {
	return p.Goto(p.current - 1)
}

// PageOf returns the page holding the item at a 0-based index, or 0 when the
// index is outside the list.
func (p *Paginator) PageOf(index int) int {
	if index < 0 || index >= p.itemCount {
		return 0
	}
	return index/p.pageSize + 1
}

// Window returns the page-number sequence around the current page
func (p *Paginator) Window() []Page {
	return WindowedPages(p.current, p.TotalPages(), p.delta)
}

// Bounds returns the [start, end) item indexes of the current page
func (p *Paginator) Bounds() (start, end int) {
	start = min((p.current-1)*p.pageSize, p.itemCount)
	end = min(start+p.pageSize, p.itemCount)
	return start, end
}
