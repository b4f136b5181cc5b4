// Package pagination разбивает упорядоченную последовательность на
// страницы фиксированного размера с 1-based нумерацией.
package pagination

type Page[T any] struct {
	Items      []T
	Number     int
	PageSize   int
	TotalCount int
	NumPages   int
}

func (p Page[T]) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p Page[T]) NextNumber() int {
	return p.Number + 1
}

func (p Page[T]) PreviousNumber() int {
	return p.Number - 1
}

// PageRange возвращает номера страниц 1..NumPages для навигации в шаблонах
func (p Page[T]) PageRange() []int {
	rng := make([]int, p.NumPages)
	for i := range rng {
		rng[i] = i + 1
	}
	return rng
}

// Paginate выдает запрошенную страницу. Номер меньше 1 приводится к 1,
// больше последней страницы - к последней: запрос с любым номером
// получает валидную, возможно пустую, страницу. Для пустой
// последовательности NumPages равен 1 и страница 1 пуста.
func Paginate[T any](items []T, pageSize, number int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(items)
	numPages := (total + pageSize - 1) / pageSize
	if numPages == 0 {
		numPages = 1
	}

	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	start := (number - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     number,
		PageSize:   pageSize,
		TotalCount: total,
		NumPages:   numPages,
	}
}
