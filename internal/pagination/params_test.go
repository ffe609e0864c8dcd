package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		name      string
		sortStr   string
		wantField SortField
		wantDesc  bool
		wantErr   error
	}{
		{name: "empty", sortStr: "", wantField: DefaultSortField},
		{name: "field only", sortStr: "price", wantField: SortByPrice},
		{name: "field and order asc", sortStr: "setname:asc", wantField: SortBySet},
		{name: "field and order desc", sortStr: "quantity:desc", wantField: SortByQuantity, wantDesc: true},
		{name: "case insensitive", sortStr: " Rarity : DESC ", wantField: SortByRarity, wantDesc: true},
		{name: "invalid format", sortStr: "name:asc:extra", wantErr: ErrInvalidSortFormat},
		{name: "empty field", sortStr: ":asc", wantErr: ErrEmptySortField},
		{name: "unknown field", sortStr: "colour", wantErr: ErrInvalidSortField},
		{name: "invalid order", sortStr: "name:sideways", wantErr: ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, desc, err := ParseSort(tt.sortStr)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestSortFields(t *testing.T) {
	fields := SortFields()
	assert.Len(t, fields, 6)
	assert.Equal(t, SortByFoil, fields[0])
	for _, f := range fields {
		assert.True(t, f.IsValid())
	}
	assert.False(t, SortField("bogus").IsValid())
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		count, limit, want int
	}{
		{count: 0, limit: 50, want: 0},
		{count: 1, limit: 50, want: 1},
		{count: 50, limit: 50, want: 1},
		{count: 51, limit: 50, want: 2},
		{count: 250, limit: 50, want: 5},
		{count: 10, limit: 0, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCount(tt.count, tt.limit), "count=%d limit=%d", tt.count, tt.limit)
	}
}

func TestValidatePage(t *testing.T) {
	require.NoError(t, ValidatePage(1))
	assert.ErrorIs(t, ValidatePage(0), ErrInvalidPage)
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, Meta{CurrentPage: 1, TotalPages: 3, HasNext: true}, NewMeta(1, 3))
	assert.Equal(t, Meta{CurrentPage: 3, TotalPages: 3, HasPrevious: true}, NewMeta(3, 3))
	assert.Equal(t, Meta{CurrentPage: 1, TotalPages: 0}, NewMeta(0, 0))
}

func TestOrderString(t *testing.T) {
	assert.Equal(t, "desc", OrderString(true))
	assert.Equal(t, "asc", OrderString(false))
}
