package filter

// Paginate returns the window of items for a 1-based page and the total page count.
// totalPages is never below 1. A page outside [1, totalPages] yields an empty
// window; a pageSize below 1 is treated as 1.
func Paginate[T any](items []T, page, pageSize int) ([]T, int) {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := TotalPages(len(items), pageSize)
	if page < 1 || page > totalPages {
		return []T{}, totalPages
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}, totalPages
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end:end], totalPages
}

// TotalPages is max(1, ceil(n/pageSize)).
func TotalPages(n, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// PageWindow returns up to width page numbers centered on current, for pagination bars.
func PageWindow(current, totalPages, width int) []int {
	if totalPages < 1 || width < 1 {
		return nil
	}
	if width > totalPages {
		width = totalPages
	}
	start := current - width/2
	if start < 1 {
		start = 1
	}
	if start+width-1 > totalPages {
		start = totalPages - width + 1
	}
	pages := make([]int, 0, width)
	for p := start; p < start+width; p++ {
		pages = append(pages, p)
	}
	return pages
}
