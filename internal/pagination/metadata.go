package pagination

// Meta describes the current page for structured output.
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewMeta creates page metadata from the current page and the page count.
func NewMeta(currentPage, totalPages int) Meta {
	if currentPage < MinPage {
		currentPage = DefaultPage
	}
	return Meta{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
}
