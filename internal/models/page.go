package models

// Page is one window of a list endpoint.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// NewPage wraps items fetched with limit/offset. A full page is taken to mean
// more rows may follow.
func NewPage[T any](items []T, limit, offset int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Limit:   limit,
		Offset:  offset,
		HasMore: limit > 0 && len(items) == limit,
	}
}
