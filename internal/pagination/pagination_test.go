package pagination_test

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/nursinghomefinder/internal/pagination"
)

func TestWindowedPages(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		delta   int
		want    []string
	}{
		{"middle", 5, 10, 2, []string{"1", "…", "3", "4", "5", "6", "7", "…", "10"}},
		{"first page", 1, 10, 2, []string{"1", "2", "3", "…", "10"}},
		{"last page", 10, 10, 2, []string{"1", "…", "8", "9", "10"}},
		{"single missing page collapses", 5, 8, 1, []string{"1", "…", "4", "5", "6", "…", "8"}},
		{"no gaps", 2, 4, 2, []string{"1", "2", "3", "4"}},
		{"two pages", 1, 2, 2, []string{"1", "2"}},
		{"single page", 1, 1, 2, []string{"1"}},
		{"no pages", 1, 0, 2, []string{}},
		{"current clamped", 42, 5, 1, []string{"1", "…", "4", "5"}},
		{"zero delta", 3, 3, 0, []string{"1", "…", "3"}},
		{"delta covers everything", 2, 5, math.MaxInt, []string{"1", "2", "3", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pagination.Labels(pagination.WindowedPages(tt.current, tt.total, tt.delta)))
		})
	}
}

func TestWindowedPages_EllipsisEntries(t *testing.T) {
	pages := pagination.WindowedPages(5, 10, 2)

	assert.Equal(t, []pagination.Page{
		{Number: 1}, {Ellipsis: true},
		{Number: 3}, {Number: 4}, {Number: 5}, {Number: 6}, {Number: 7},
		{Ellipsis: true}, {Number: 10},
	}, pages)
}

func TestWindowedPages_HugeTotal(t *testing.T) {
	done := make(chan []string, 1)
	go func() {
		done <- pagination.Labels(pagination.WindowedPages(1, math.MaxInt, 2))
	}()

	select {
	case got := <-done:
		assert.Equal(t, []string{"1", "2", "3", "…", strconv.Itoa(math.MaxInt)}, got)
	case <-time.After(time.Second):
		t.Fatal("window over a huge page count did not return")
	}

	assert.Equal(t, []string{"1", "…", strconv.Itoa(math.MaxInt - 1), strconv.Itoa(math.MaxInt)},
		pagination.Labels(pagination.WindowedPages(math.MaxInt, math.MaxInt, 1)))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, pagination.ClampPage(0, 5))
	assert.Equal(t, 1, pagination.ClampPage(-3, 5))
	assert.Equal(t, 5, pagination.ClampPage(9, 5))
	assert.Equal(t, 3, pagination.ClampPage(3, 5))
	assert.Equal(t, 1, pagination.ClampPage(4, 0))
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, pagination.Slice(items, 1, 3))
	assert.Equal(t, []int{7}, pagination.Slice(items, 3, 3))
	assert.Empty(t, pagination.Slice(items, 4, 3))
	assert.Empty(t, pagination.Slice(items, 0, 3))
	assert.Empty(t, pagination.Slice([]int(nil), 1, 3))
	assert.Empty(t, pagination.Slice([]int{1, 2, 3}, math.MaxInt, 2))
	assert.Empty(t, pagination.Slice(items, math.MaxInt/2, 3))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, pagination.Slice(items, 1, math.MaxInt))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, pagination.TotalPages(0, 6))
	assert.Equal(t, 2, pagination.TotalPages(12, 6))
	assert.Equal(t, 3, pagination.TotalPages(13, 6))
	assert.Equal(t, 1, pagination.TotalPages(math.MaxInt, math.MaxInt))
}

func TestPaginator_ResetReturnsToFirstPage(t *testing.T) {
	p := pagination.NewPaginator(6, 2)
	p.Reset(30)
	p.Goto(4)
	assert.Equal(t, 4, p.Current())

	p.Reset(8)

	assert.Equal(t, 1, p.Current())
	assert.Equal(t, 2, p.TotalPages())
}

func TestPaginator_Navigation(t *testing.T) {
	p := pagination.NewPaginator(6, 2)
	p.Reset(12)

	assert.Equal(t, []string{"1", "2"}, pagination.Labels(p.Window()))
	assert.Equal(t, 2, p.Next())
	assert.Equal(t, 2, p.Next(), "next on the last page stays put")
	assert.Equal(t, 1, p.Prev())
	assert.Equal(t, 1, p.Prev())
	assert.Equal(t, 2, p.Goto(99))

	start, end := p.Bounds()
	assert.Equal(t, 6, start)
	assert.Equal(t, 12, end)
}

func TestPaginator_PageOf(t *testing.T) {
	p := pagination.NewPaginator(6, 2)
	p.Reset(12)

	assert.Equal(t, 1, p.PageOf(0))
	assert.Equal(t, 1, p.PageOf(5))
	assert.Equal(t, 2, p.PageOf(6))
	assert.Equal(t, 0, p.PageOf(12))
	assert.Equal(t, 0, p.PageOf(-1))
}

func TestPaginator_EmptyList(t *testing.T) {
	p := pagination.NewPaginator(0, 0)
	p.Reset(0)

	assert.Equal(t, 6, p.PageSize())
	assert.Equal(t, 0, p.TotalPages())
	assert.Equal(t, 1, p.Goto(3))
	assert.Empty(t, p.Window())

	start, end := p.Bounds()
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}
