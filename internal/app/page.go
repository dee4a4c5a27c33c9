package app

const maxPageSize = 100

// Page is one window of a listing. Limit and Offset are the values the
// service applied after defaults and clamping; Total counts every match.
type Page[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

func newPage[T any](items []T, total, limit, offset int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Limit: limit, Offset: offset, Total: total}
}

func clampPage(limit, offset, fallback int) (int, int) {
	if limit <= 0 {
		limit = fallback
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
