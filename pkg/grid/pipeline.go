package grid

// Derive runs the full pipeline: rows are sorted according to sort and the
// requested page is cut out of the result. It is pure; calling it twice with
// the same inputs yields the same page.
func Derive[T any](rows []T, cols []Column[T], sort SortState, page, pageSize int, field FieldFunc[T], cmp *Comparator) Page[T] {
	return Paginate(SortRows(rows, cols, sort, field, cmp), page, pageSize)
}
