// Package csvimport checks collection and deck CSV files locally before they
// are uploaded, so a bad row is reported with its line number instead of
// failing somewhere on the server.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/rshade/cardcollector/internal/collector"
)

// LotSize is how many unknown printings the service fetches per bulk request.
const LotSize = 75

// Column names.
const (
	ColMultiverseID = "MultiverseID"
	ColQuantity     = "Quantity"
	ColFoilQuantity = "Foil quantity"
	ColName         = "Name"
	ColCount        = "Count"
	ColSection      = "Section"
)

// Kind is the type of file being checked.
type Kind string

// File kinds.
const (
	KindCollection Kind = "collection"
	KindDeck       Kind = "deck"
)

// ErrInvalidFile is wrapped by Report.Err when the report has issues.
var ErrInvalidFile = errors.New("csv file has errors")

// Issue is one problem with one row. Row is the 1-based line number in the
// file, counting the header as line 1. Row 0 means the whole file.
type Issue struct {
	Row    int    `json:"row"`
	Column string `json:"column,omitempty"`
	Reason string `json:"reason"`
}

func (i Issue) String() string {
	switch {
	case i.Row == 0:
		return i.Reason
	case i.Column == "":
		return fmt.Sprintf("line %d: %s", i.Row, i.Reason)
	default:
		return fmt.Sprintf("line %d, %s: %s", i.Row, i.Column, i.Reason)
	}
}

// Report summarises a checked file.
type Report struct {
	Kind   Kind    `json:"kind"`
	Rows   int     `json:"rows"`
	Issues []Issue `json:"issues"`

	// Collection files.
	MultiverseIDs []int `json:"multiverse_ids,omitempty"`
	Quantity      int   `json:"quantity,omitempty"`
	FoilQuantity  int   `json:"foil_quantity,omitempty"`

	// Deck files: total count per section.
	Sections map[string]int `json:"sections,omitempty"`
}

// OK reports whether the file can be uploaded.
func (r Report) OK() bool {
	return len(r.Issues) == 0
}

// Err returns nil for a clean report, otherwise an error listing the first
// few issues. It wraps both ErrInvalidFile and collector.ErrValidation.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	const shown = 5
	lines := make([]string, 0, shown)
	for i, issue := range r.Issues {
		if i == shown {
			lines = append(lines, fmt.Sprintf("and %d more", len(r.Issues)-shown))
			break
		}
		lines = append(lines, issue.String())
	}
	return fmt.Errorf("%w: %w: %s", collector.ErrValidation, ErrInvalidFile, strings.Join(lines, "; "))
}

// Lots splits the distinct multiverse ids into groups of LotSize, the way
// the service batches lookups of printings it has not seen.
func (r Report) Lots() [][]int {
	seen := make(map[int]bool, len(r.MultiverseIDs))
	var ids []int
	for _, id := range r.MultiverseIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	var lots [][]int
	for start := 0; start < len(ids); start += LotSize {
		end := min(start+LotSize, len(ids))
		lots = append(lots, ids[start:end])
	}
	return lots
}

type collectionRow struct {
	MultiverseID int `validate:"gt=0"`
	Quantity     int `validate:"gte=0"`
	FoilQuantity int `validate:"gte=0"`
}

type deckRow struct {
	Name    string `validate:"required"`
	Count   int    `validate:"gt=0"`
	Section string `validate:"oneof=main sideboard"`
}

var (
	validate     *validator.Validate //nolint:gochecknoglobals // validator caches struct metadata
	validateOnce sync.Once           //nolint:gochecknoglobals // guards validate
)

func rowValidator() *validator.Validate {
	validateOnce.Do(func() { validate = validator.New() })
	return validate
}

// ValidateCollection checks a collection export with MultiverseID, Quantity
// and Foil quantity columns. Extra columns are ignored. The returned error
// is only for unreadable input; row problems are in the report.
func ValidateCollection(r io.Reader) (Report, error) {
	rep := Report{Kind: KindCollection, Issues: []Issue{}}
	err := walk(r, []string{ColMultiverseID, ColQuantity, ColFoilQuantity}, &rep, func(line int, get func(string) string) {
		row := collectionRow{}
		ok := parseInt(&rep, line, ColMultiverseID, get(ColMultiverseID), &row.MultiverseID)
		ok = parseInt(&rep, line, ColQuantity, get(ColQuantity), &row.Quantity) && ok
		ok = parseInt(&rep, line, ColFoilQuantity, get(ColFoilQuantity), &row.FoilQuantity) && ok
		if !ok {
			return
		}
		if !checkStruct(&rep, line, row, map[string]string{
			"MultiverseID": ColMultiverseID, "Quantity": ColQuantity, "FoilQuantity": ColFoilQuantity,
		}) {
			return
		}
		rep.MultiverseIDs = append(rep.MultiverseIDs, row.MultiverseID)
		rep.Quantity += row.Quantity
		rep.FoilQuantity += row.FoilQuantity
	})
	return rep, err
}

// ValidateDeck checks a deck list with Name, Count and Section columns.
func ValidateDeck(r io.Reader) (Report, error) {
	rep := Report{Kind: KindDeck, Issues: []Issue{}, Sections: map[string]int{}}
	err := walk(r, []string{ColName, ColCount, ColSection}, &rep, func(line int, get func(string) string) {
		row := deckRow{Name: get(ColName), Section: strings.ToLower(get(ColSection))}
		if !parseInt(&rep, line, ColCount, get(ColCount), &row.Count) {
			return
		}
		if !checkStruct(&rep, line, row, map[string]string{
			"Name": ColName, "Count": ColCount, "Section": ColSection,
		}) {
			return
		}
		rep.Sections[row.Section] += row.Count
	})
	return rep, err
}

// walk reads the header, checks required columns and calls fn per data row.
func walk(r io.Reader, required []string, rep *Report, fn func(line int, get func(string) string)) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		rep.Issues = append(rep.Issues, Issue{Reason: "file is empty"})
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			rep.Issues = append(rep.Issues, Issue{Row: 1, Column: col, Reason: "missing column"})
		}
	}
	if len(rep.Issues) > 0 {
		return nil
	}

	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(readErr, &parseErr) {
			rep.Issues = append(rep.Issues, Issue{Row: parseErr.Line, Reason: parseErr.Err.Error()})
			continue
		}
		if readErr != nil {
			return fmt.Errorf("reading csv: %w", readErr)
		}
		line, _ := reader.FieldPos(0)
		if blank(record) {
			continue
		}
		rep.Rows++
		fn(line, func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		})
	}

	if rep.Rows == 0 && len(rep.Issues) == 0 {
		rep.Issues = append(rep.Issues, Issue{Reason: "file has no data rows"})
	}
	return nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseInt(rep *Report, line int, col, raw string, dst *int) bool {
	if raw == "" {
		rep.Issues = append(rep.Issues, Issue{Row: line, Column: col, Reason: "value is required"})
		return false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		rep.Issues = append(rep.Issues, Issue{Row: line, Column: col, Reason: fmt.Sprintf("%q is not a whole number", raw)})
		return false
	}
	*dst = v
	return true
}

func checkStruct(rep *Report, line int, row any, columns map[string]string) bool {
	err := rowValidator().Struct(row)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		rep.Issues = append(rep.Issues, Issue{Row: line, Reason: err.Error()})
		return false
	}
	for _, fe := range verrs {
		rep.Issues = append(rep.Issues, Issue{Row: line, Column: columns[fe.Field()], Reason: reason(fe)})
	}
	return false
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must not be negative"
	case "oneof":
		return fmt.Sprintf("%q must be one of %s", fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
