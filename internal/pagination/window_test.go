package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(w Window) []ControlKind {
	out := make([]ControlKind, 0, len(w.Controls))
	for _, c := range w.Controls {
		out = append(out, c.Kind)
	}
	return out
}

func TestBuild_Examples(t *testing.T) {
	tests := []struct {
		name         string
		current      int
		total        int
		wantPages    []int
		wantKinds    []ControlKind
		extrasBefore []int
		extrasAfter  []int
	}{
		{
			name:      "middle of ten pages",
			current:   5,
			total:     10,
			wantPages: []int{3, 4, 5, 6, 7},
			wantKinds: []ControlKind{
				FirstPage, PrevPage, EllipsisBefore,
				PageNumber, PageNumber, PageNumber, PageNumber, PageNumber,
				EllipsisAfter, NextPage, LastPage,
			},
			extrasBefore: []int{1, 2},
			extrasAfter:  []int{8, 9, 10},
		},
		{
			name:         "single page",
			current:      1,
			total:        1,
			wantPages:    []int{1},
			wantKinds:    []ControlKind{PageNumber},
			extrasBefore: []int{},
			extrasAfter:  []int{},
		},
		{
			name:      "first of five",
			current:   1,
			total:     5,
			wantPages: []int{1, 2, 3},
			wantKinds: []ControlKind{
				PageNumber, PageNumber, PageNumber,
				EllipsisAfter, NextPage, LastPage,
			},
			extrasBefore: []int{},
			extrasAfter:  []int{4, 5},
		},
		{
			name:      "last of five",
			current:   5,
			total:     5,
			wantPages: []int{3, 4, 5},
			wantKinds: []ControlKind{
				FirstPage, PrevPage, EllipsisBefore,
				PageNumber, PageNumber, PageNumber,
			},
			extrasBefore: []int{1, 2},
			extrasAfter:  []int{},
		},
		{
			name:      "third page has no leading ellipsis",
			current:   3,
			total:     6,
			wantPages: []int{1, 2, 3, 4, 5},
			wantKinds: []ControlKind{
				FirstPage, PrevPage,
				PageNumber, PageNumber, PageNumber, PageNumber, PageNumber,
				NextPage, LastPage,
			},
			extrasBefore: []int{},
			extrasAfter:  []int{6},
		},
		{
			name:      "trailing page reachable only by ellipsis menu",
			current:   2,
			total:     6,
			wantPages: []int{1, 2, 3, 4},
			wantKinds: []ControlKind{
				FirstPage, PrevPage,
				PageNumber, PageNumber, PageNumber, PageNumber,
				EllipsisAfter, NextPage, LastPage,
			},
			extrasBefore: []int{},
			extrasAfter:  []int{5, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Build(tt.current, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPages, w.Pages())
			assert.Equal(t, tt.wantKinds, kinds(w))
			assert.Equal(t, tt.extrasBefore, w.ExtrasBefore)
			assert.Equal(t, tt.extrasAfter, w.ExtrasAfter)
			assert.Equal(t, tt.current, w.Active())
		})
	}
}

func TestBuild_FirstOfFiveMatchesWindowRule(t *testing.T) {
	// i runs from -1 to 3 and is clipped to >= 1.
	w, err := Build(1, 5)
	require.NoError(t, err)

	assert.False(t, w.Has(EllipsisBefore))
	assert.True(t, w.Has(EllipsisAfter))
	assert.True(t, w.Has(NextPage))
	assert.True(t, w.Has(LastPage))
	assert.False(t, w.Has(FirstPage))
	assert.False(t, w.Has(PrevPage))
}

func TestBuild_ZeroPages(t *testing.T) {
	for _, current := range []int{1, 2, 7} {
		w, err := Build(current, 0)
		require.NoError(t, err)
		assert.Empty(t, w.Controls)
		assert.Empty(t, w.ExtrasBefore)
		assert.Empty(t, w.ExtrasAfter)
	}
}

func TestBuild_InvalidArgument(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
	}{
		{name: "zero page", current: 0, total: 3},
		{name: "negative page", current: -4, total: 3},
		{name: "negative total", current: 1, total: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.current, tt.total)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestBuild_Properties(t *testing.T) {
	for total := 1; total <= 25; total++ {
		for current := 1; current <= total; current++ {
			w, err := Build(current, total)
			require.NoError(t, err)

			activeCount := 0
			pageCount := 0
			before, after := 0, 0
			last := 0
			for _, c := range w.Controls {
				switch c.Kind {
				case PageNumber:
					pageCount++
					assert.Greater(t, c.Page, last, "pages must be strictly increasing (%d/%d)", current, total)
					last = c.Page
					assert.GreaterOrEqual(t, c.Page, 1)
					assert.LessOrEqual(t, c.Page, total)
					if c.Active {
						activeCount++
						assert.Equal(t, current, c.Page)
					}
				case EllipsisBefore:
					before++
				case EllipsisAfter:
					after++
				}
			}

			assert.Equal(t, 1, activeCount, "exactly one active page (%d/%d)", current, total)
			assert.LessOrEqual(t, pageCount, WindowBack+WindowForward)
			assert.LessOrEqual(t, before, 1)
			assert.LessOrEqual(t, after, 1)
			assert.Equal(t, current > 1, w.Has(FirstPage))
			assert.Equal(t, current > 1, w.Has(PrevPage))
			assert.Equal(t, current < total, w.Has(NextPage))
			assert.Equal(t, current < total, w.Has(LastPage))

			// Window pages plus both menus cover every page exactly once.
			covered := append(append(append([]int{}, w.ExtrasBefore...), w.Pages()...), w.ExtrasAfter...)
			require.Len(t, covered, total)
			for i, p := range covered {
				assert.Equal(t, i+1, p)
			}
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	a, err := Build(7, 30)
	require.NoError(t, err)
	b, err := Build(7, 30)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestControl_Target(t *testing.T) {
	tests := []struct {
		name    string
		control Control
		current int
		total   int
		want    int
	}{
		{name: "first", control: Control{Kind: FirstPage}, current: 4, total: 9, want: 1},
		{name: "prev", control: Control{Kind: PrevPage}, current: 4, total: 9, want: 3},
		{name: "prev floors at one", control: Control{Kind: PrevPage}, current: 1, total: 9, want: 1},
		{name: "next", control: Control{Kind: NextPage}, current: 4, total: 9, want: 5},
		{name: "next stops at last", control: Control{Kind: NextPage}, current: 9, total: 9, want: 9},
		{name: "last uses the total passed in", control: Control{Kind: LastPage}, current: 4, total: 3, want: 3},
		{name: "page number", control: Control{Kind: PageNumber, Page: 6}, current: 4, total: 9, want: 6},
		{name: "ellipsis has no target", control: Control{Kind: EllipsisAfter}, current: 4, total: 9, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.control.Target(tt.current, tt.total))
		})
	}
}

func TestControlKind_String(t *testing.T) {
	assert.Equal(t, "first", FirstPage.String())
	assert.Equal(t, "ellipsis-after", EllipsisAfter.String())
	assert.Equal(t, "ControlKind(42)", ControlKind(42).String())
}
