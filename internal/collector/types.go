package collector

import (
	"github.com/shopspring/decimal"
)

// Card is one row of the user's collection.
type Card struct {
	UserCardID   int                 `json:"usercard_id"`
	Name         string              `json:"name"`
	SetName      string              `json:"setname"`
	Rarity       string              `json:"rarity"`
	Quantity     int                 `json:"quantity"`
	Foil         bool                `json:"foil"`
	Price        decimal.NullDecimal `json:"price"`
	CurrencyCode string              `json:"currencycode"`
	ImageURL     string              `json:"imageurl,omitempty"`
	ArtURL       string              `json:"arturl,omitempty"`
	IconURL      string              `json:"iconurl,omitempty"`
}

// Value returns quantity times price, or zero when the price is unknown.
func (c Card) Value() decimal.Decimal {
	if !c.Price.Valid {
		return decimal.Zero
	}
	return c.Price.Decimal.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CollectionPage is one page of the collection plus the authoritative counts
// for the current filters.
type CollectionPage struct {
	Cards         []Card `json:"cards"`
	TotalPages    int    `json:"count"`
	TotalQuantity int    `json:"total"`
}

// PageValue sums Card.Value over the page.
func (p CollectionPage) PageValue() decimal.Decimal {
	total := decimal.Zero
	for _, c := range p.Cards {
		total = total.Add(c.Value())
	}
	return total
}

// CardSet is an entry of the set filter.
type CardSet struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	IconURL string `json:"iconurl,omitempty"`
}

// SearchResult is a printing matched by the add-card search.
type SearchResult struct {
	PrintingID int    `json:"id"`
	Name       string `json:"name"`
	SetCode    string `json:"code"`
	SetName    string `json:"setname"`
	IconURL    string `json:"iconurl,omitempty"`
}

// DeckUsage is a deck that contains a given card.
type DeckUsage struct {
	Name       string `json:"name"`
	FormatName string `json:"formatname"`
	Quantity   int    `json:"quantity"`
	ArtURL     string `json:"arturl,omitempty"`
}

// CardDetail is the edit view of one owned card.
type CardDetail struct {
	PrintingID         int                 `json:"id"`
	Name               string              `json:"name"`
	SetName            string              `json:"setname"`
	Rarity             string              `json:"rarity"`
	Quantity           int                 `json:"quantity"`
	Foil               bool                `json:"foil"`
	Price              decimal.NullDecimal `json:"price"`
	CurrencyCode       string              `json:"currencycode"`
	TCGPlayerProductID *int                `json:"tcgplayer_productid"`
	PrintingsOwned     int                 `json:"printingsowned"`
	PriceLastUpdated   string              `json:"price_lastupdated"`
	ArtURL             string              `json:"arturl,omitempty"`
	Decks              []DeckUsage         `json:"decks"`
}

// Price series labels.
const (
	SeriesPrice     = "Price"
	SeriesFoilPrice = "Foil Price"
)

// PriceSeries is one labelled price line (regular or foil).
type PriceSeries struct {
	Label string                `json:"label"`
	Data  []decimal.NullDecimal `json:"data"`
}

// PriceHistory is a daily price series for a printing.
type PriceHistory struct {
	Dates    []string      `json:"dates"`
	Datasets []PriceSeries `json:"datasets"`
}

// PricePoint is one day of PriceHistory flattened across series.
type PricePoint struct {
	Date   string
	Prices map[string]decimal.NullDecimal
}

// Points flattens the history into one row per date.
func (h PriceHistory) Points() []PricePoint {
	points := make([]PricePoint, 0, len(h.Dates))
	for i, date := range h.Dates {
		p := PricePoint{Date: date, Prices: make(map[string]decimal.NullDecimal, len(h.Datasets))}
		for _, ds := range h.Datasets {
			if i < len(ds.Data) {
				p.Prices[ds.Label] = ds.Data[i]
			}
		}
		points = append(points, p)
	}
	return points
}

// Latest returns the most recent known value of the named series.
func (h PriceHistory) Latest(label string) (decimal.Decimal, bool) {
	for _, ds := range h.Datasets {
		if ds.Label != label {
			continue
		}
		for i := len(ds.Data) - 1; i >= 0; i-- {
			if ds.Data[i].Valid {
				return ds.Data[i].Decimal, true
			}
		}
	}
	return decimal.Zero, false
}

// DeckSummary is an entry of the deck list.
type DeckSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	FormatName string `json:"formatname"`
	CardArtID  *int   `json:"cardartid"`
	ArtURL     string `json:"arturl,omitempty"`
}

// Deck is the deck header.
type Deck struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	FormatID  int    `json:"formatid"`
	Deleted   bool   `json:"deleted"`
	CardArtID *int   `json:"cardartid"`
	Notes     string `json:"notes"`
	ArtURL    string `json:"arturl,omitempty"`
}

// Deck sections.
const (
	SectionMain      = "main"
	SectionSideboard = "sideboard"
)

// DeckRow is either a card of a deck list or, when IsType is set, a type
// heading carrying the summed quantity of the cards below it.
type DeckRow struct {
	IsType bool   `json:"is_type,omitempty"`
	Label  string `json:"label,omitempty"`
	Count  int    `json:"count,omitempty"`

	DeckCardID           int      `json:"id,omitempty"`
	CardID               int      `json:"cardid,omitempty"`
	Quantity             int      `json:"quantity,omitempty"`
	Section              string   `json:"section,omitempty"`
	Name                 string   `json:"name,omitempty"`
	HasQuantity          *int     `json:"has_quantity,omitempty"`
	TypeLine             string   `json:"typeline,omitempty"`
	ManaCost             []string `json:"manacost,omitempty"`
	CardType             string   `json:"cardtype,omitempty"`
	BasicLand            bool     `json:"basic_land,omitempty"`
	InsufficientQuantity bool     `json:"insufficient_quantity,omitempty"`
}

// DeckList is a deck with its main and sideboard rows.
type DeckList struct {
	Deck      Deck      `json:"deck"`
	Main      []DeckRow `json:"main"`
	Sideboard []DeckRow `json:"sideboard"`
}

// Cards returns only the card rows, dropping headings.
func Cards(rows []DeckRow) []DeckRow {
	out := make([]DeckRow, 0, len(rows))
	for _, r := range rows {
		if !r.IsType {
			out = append(out, r)
		}
	}
	return out
}

// GroupByType inserts a heading before each run of cards sharing a CardType.
// The heading count is the summed quantity of every card of that type in
// rows. Existing headings are discarded first, so the result is stable when
// applied to server output.
func GroupByType(rows []DeckRow) []DeckRow {
	cards := Cards(rows)
	totals := make(map[string]int)
	for _, c := range cards {
		totals[typeLabel(c)] += c.Quantity
	}

	out := make([]DeckRow, 0, len(cards)+len(totals))
	prev, started := "", false
	for _, c := range cards {
		label := typeLabel(c)
		if !started || label != prev {
			out = append(out, DeckRow{IsType: true, Label: label, Count: totals[label]})
			prev, started = label, true
		}
		out = append(out, c)
	}
	return out
}

// Total sums the quantity of every card row.
func Total(rows []DeckRow) int {
	n := 0
	for _, r := range rows {
		if !r.IsType {
			n += r.Quantity
		}
	}
	return n
}

func typeLabel(r DeckRow) string {
	if r.CardType == "" {
		return "Other"
	}
	return r.CardType
}
