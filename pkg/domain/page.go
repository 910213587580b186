package domain

// PageSize is the number of items in a page of listings.
const PageSize = 9

type Page struct {
	// Number is 1-origin.
	Number     int
	Size       int
	Total      int
	TotalPages int
}

// Paginate computes the page for total items.
//
// The requested page number is clamped into [1, max(1, TotalPages)].
func Paginate(total int, requested int, size int) Page {
	if size <= 0 {
		size = PageSize
	}
	if total < 0 {
		total = 0
	}
	totalPages := (total + size - 1) / size

	number := requested
	if last := max(1, totalPages); number > last {
		number = last
	}
	if number < 1 {
		number = 1
	}
	return Page{Number: number, Size: size, Total: total, TotalPages: totalPages}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

type Paged[T any] struct {
	Items []T
	Page  Page
}
