package models

// Параметры пагинации по умолчанию.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page описывает пагинацию и сортировку выборки.
type Page struct {
	Limit  int
	Offset int
	Sort   string
	Desc   bool
}

// NewPage нормализует значения пагинации: limit в пределах [1, MaxLimit], offset ≥ 0.
func NewPage(limit, offset int, sort string, desc bool) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset, Sort: sort, Desc: desc}
}

// List — страница результатов с общим количеством записей.
type List[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
