package pagination

import "strconv"

// DefaultDelta is how many neighbours of the current page stay visible
const DefaultDelta = 2

// EllipsisLabel marks a collapsed run of pages
const EllipsisLabel = "…"

// Page is one entry of a page-number sequence: either a page number or a
// collapsed run of pages.
type Page struct {
	Number   int
	Ellipsis bool
}

// String renders the page number or the ellipsis marker
func (p Page) String() string {
	if p.Ellipsis {
		return EllipsisLabel
	}
	return strconv.Itoa(p.Number)
}

// WindowedPages returns page 1, page total and every page within delta of
// current, with each gap of missing pages collapsed into one ellipsis.
// total <= 0 yields an empty sequence.
func WindowedPages(current, total, delta int) []Page {
	if total <= 0 {
		return []Page{}
	}
	if delta < 0 {
		delta = 0
	}
	current = ClampPage(current, total)

	// Neighbours of current, kept strictly between the first and last page.
	// Both bounds are computed without adding to delta so large values cannot
	// overflow.
	lo := 2
	if current-delta > lo {
		lo = current - delta
	}
	hi := total - 1
	if delta < total-1-current {
		hi = current + delta
	}

	pages := make([]Page, 0, min(max(hi-lo+1, 0), 64)+4)
	pages = append(pages, Page{Number: 1})
	if lo > 2 {
		pages = append(pages, Page{Ellipsis: true})
	}
	for n := lo; n <= hi; n++ {
		pages = append(pages, Page{Number: n})
	}
	if total > 1 {
		if hi < total-1 {
			pages = append(pages, Page{Ellipsis: true})
		}
		pages = append(pages, Page{Number: total})
	}
	return pages
}

// Labels renders a page sequence as display strings
func Labels(pages []Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.String()
	}
	return out
}

// ClampPage clamps requested into [1, max(total,1)]
func ClampPage(requested, total int) int {
	upper := max(total, 1)
	return min(max(requested, 1), upper)
}

// TotalPages returns how many pages of pageSize hold itemCount items
func TotalPages(itemCount, pageSize int) int {
	if itemCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (itemCount-1)/pageSize + 1
}

// Slice returns the items on a 1-based page. Pages outside the data yield an
// empty slice.
func Slice[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize <= 0 {
		return []T{}
	}
	if len(items) == 0 || page-1 > (len(items)-1)/pageSize {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	return items[start:end]
}
