package domain

// Pagination constants
const (
	DefaultPage     = 1
	DefaultPageSize = 3
	MaxPageSize     = 100
)

// Page is an offset/limit window over a listing. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number and size to sane bounds.
func NewPage(number, size int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of records skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Pagination is the navigation state rendered under a listing.
type Pagination struct {
	CurrentPage     int
	HasNextPage     bool
	HasPreviousPage bool
	NextPage        int
	PreviousPage    int
	LastPage        int
	TotalItems      int64
}

// NewPagination derives navigation for page given the total item count.
func NewPagination(page Page, total int64) Pagination {
	size := int64(page.Size)
	last := int((total + size - 1) / size)
	return Pagination{
		CurrentPage:     page.Number,
		HasNextPage:     size*int64(page.Number) < total,
		HasPreviousPage: page.Number > 1,
		NextPage:        page.Number + 1,
		PreviousPage:    page.Number - 1,
		LastPage:        last,
		TotalItems:      total,
	}
}
