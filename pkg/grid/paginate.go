package grid

// DefaultPageSize is the number of rows shown per page when none is configured.
const DefaultPageSize = 10

// PageCount returns the number of pages needed for total rows. It is never
// less than 1, so an empty collection still has one (empty) page.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage limits page to [1, PageCount(total, pageSize)].
func ClampPage(page, total, pageSize int) int {
	last := PageCount(total, pageSize)
	if page > last {
		return last
	}
	if page < 1 {
		return 1
	}
	return page
}

// PageBounds returns the half-open index range [start, end) of page within a
// collection of total rows. The page is clamped first.
func PageBounds(page, total, pageSize int) (start, end int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page = ClampPage(page, total, pageSize)
	start = (page - 1) * pageSize
	end = start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return start, end
}

// Page is one window of a row collection.
type Page[T any] struct {
	// Rows holds the visible rows.
	Rows []T
	// Number is the 1-indexed page, after clamping.
	Number     int
	TotalPages int
	// Total is the number of rows across all pages.
	Total int
	// Start and End are the half-open bounds of Rows within the full collection.
	Start int
	End   int
}

// Empty reports whether the page shows no rows.
func (p Page[T]) Empty() bool {
	return len(p.Rows) == 0
}

// Paginate cuts the page-th window out of rows. Out-of-range pages are
// clamped so a non-empty collection never yields an empty page.
func Paginate[T any](rows []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(rows)
	number := ClampPage(page, total, pageSize)
	start, end := PageBounds(number, total, pageSize)
	return Page[T]{
		Rows:       rows[start:end:end],
		Number:     number,
		TotalPages: PageCount(total, pageSize),
		Total:      total,
		Start:      start,
		End:        end,
	}
}
