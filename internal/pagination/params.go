package pagination

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Page and sort defaults.
const (
	// ServerPageSize is the number of cards the collection service returns per page.
	ServerPageSize   = 50
	DefaultPage      = 1
	MinPage          = 1
	DefaultSortOrder = SortOrderAsc
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Common validation errors.
var (
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'price:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// SortField is a sortable collection column, as understood by the service.
type SortField string

// Sortable collection columns.
const (
	SortByName     SortField = "name"
	SortBySet      SortField = "setname"
	SortByRarity   SortField = "rarity"
	SortByQuantity SortField = "quantity"
	SortByFoil     SortField = "foil"
	SortByPrice    SortField = "price"

	// DefaultSortField matches the service default.
	DefaultSortField = SortByName
)

//nolint:gochecknoglobals // Lookup table of known columns.
var sortFields = map[SortField]bool{
	SortByName:     true,
	SortBySet:      true,
	SortByRarity:   true,
	SortByQuantity: true,
	SortByFoil:     true,
	SortByPrice:    true,
}

// IsValid reports whether f is a known sort column.
func (f SortField) IsValid() bool {
	return sortFields[f]
}

// SortFields returns every sort column in a stable order.
func SortFields() []SortField {
	fields := make([]SortField, 0, len(sortFields))
	for f := range sortFields {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// Examples: "name", "price:desc", "setname:asc".
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field SortField, desc bool, err error) {
	if strings.TrimSpace(sortStr) == "" {
		return DefaultSortField, false, nil
	}

	parts := strings.Split(sortStr, ":")
	order := DefaultSortOrder
	switch len(parts) {
	case 1:
		field = SortField(strings.ToLower(strings.TrimSpace(parts[0])))
	case sortPartsMax:
		field = SortField(strings.ToLower(strings.TrimSpace(parts[0])))
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", false, fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", false, ErrEmptySortField
	}
	if !field.IsValid() {
		return "", false, fmt.Errorf("%w: %q (valid: %v)", ErrInvalidSortField, field, SortFields())
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", false, fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return field, order == SortOrderDesc, nil
}

// OrderString returns "desc" or "asc".
func OrderString(desc bool) string {
	if desc {
		return SortOrderDesc
	}
	return SortOrderAsc
}

// PageCount returns the number of pages needed for count items at limit per page.
// Zero items yield zero pages.
func PageCount(count, limit int) int {
	if count <= 0 || limit <= 0 {
		return 0
	}
	pages := count / limit
	if count%limit > 0 {
		pages++
	}
	return pages
}

// ValidatePage checks that page is a usable 1-based page number.
func ValidatePage(page int) error {
	if page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}
	return nil
}
