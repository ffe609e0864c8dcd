package collector

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/rshade/cardcollector/internal/pagination"
)

// Rarity filter codes.
const (
	RarityCommon   = "C"
	RarityUncommon = "U"
	RarityRare     = "R"
	RarityMythic   = "M"
	RaritySpecial  = "S"
)

// Rarities lists the rarity filter codes in display order.
func Rarities() []string {
	return []string{RarityCommon, RarityUncommon, RarityRare, RarityMythic, RaritySpecial}
}

// RarityName returns the display name of a rarity code.
func RarityName(code string) string {
	switch code {
	case RarityCommon:
		return "Common"
	case RarityUncommon:
		return "Uncommon"
	case RarityRare:
		return "Rare"
	case RarityMythic:
		return "Mythic Rare"
	case RaritySpecial:
		return "Special"
	default:
		return code
	}
}

var (
	validate     *validator.Validate //nolint:gochecknoglobals // validator caches struct metadata
	validateOnce sync.Once           //nolint:gochecknoglobals // guards validate
)

func validateStruct(v any) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, describe(err))
	}
	return nil
}

// describe turns validator output into one short line per field.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the concrete type
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// Query selects one page of the collection.
type Query struct {
	Page   int                  `validate:"gte=1"`
	Sort   pagination.SortField `validate:"required"`
	Desc   bool
	Search string
	Set    string
	Rarity string `validate:"omitempty,oneof=C U R M S"`
}

// Validate checks the query before it is sent.
func (q Query) Validate() error {
	if err := validateStruct(q); err != nil {
		return err
	}
	if !q.Sort.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrValidation, pagination.ErrInvalidSortField, q.Sort)
	}
	return nil
}

// Values encodes the query the way /get_collection expects it.
// Empty filters are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("sort", string(q.Sort))
	v.Set("sort_desc", pagination.OrderString(q.Desc))
	if q.Search != "" {
		v.Set("filter_search", q.Search)
	}
	if q.Set != "" {
		v.Set("filter_set", q.Set)
	}
	if q.Rarity != "" {
		v.Set("filter_rarity", q.Rarity)
	}
	return v
}

// AddCardRequest adds copies of a printing to the collection.
type AddCardRequest struct {
	PrintingID int `validate:"gt=0"`
	Foil       bool
	Quantity   int `validate:"gte=1"`
}

func (r AddCardRequest) form() url.Values {
	v := url.Values{}
	v.Set("printingid", strconv.Itoa(r.PrintingID))
	v.Set("foil", strconv.FormatBool(r.Foil))
	v.Set("quantity", strconv.Itoa(r.Quantity))
	return v
}

// EditCardRequest updates an owned card. Quantity 0 removes it.
type EditCardRequest struct {
	UserCardID         int `validate:"gt=0"`
	Quantity           int `validate:"gte=0"`
	Foil               bool
	TCGPlayerProductID int `validate:"gte=0"`
}

func (r EditCardRequest) form() url.Values {
	v := url.Values{}
	v.Set("user_cardid", strconv.Itoa(r.UserCardID))
	v.Set("quantity", strconv.Itoa(r.Quantity))
	v.Set("foil", strconv.FormatBool(r.Foil))
	if r.TCGPlayerProductID > 0 {
		v.Set("tcgplayer_productid", strconv.Itoa(r.TCGPlayerProductID))
	} else {
		v.Set("tcgplayer_productid", "")
	}
	return v
}

// SaveDeckRequest renames a deck and sets its format.
type SaveDeckRequest struct {
	DeckID   int    `validate:"gt=0"`
	Name     string `validate:"required,max=200"`
	FormatID int    `validate:"gt=0"`
}

func (r SaveDeckRequest) form() url.Values {
	v := url.Values{}
	v.Set("deckid", strconv.Itoa(r.DeckID))
	v.Set("name", r.Name)
	v.Set("formatid", strconv.Itoa(r.FormatID))
	return v
}

// DeckArtRequest picks the card whose art represents a deck.
type DeckArtRequest struct {
	DeckID int `validate:"gt=0"`
	CardID int `validate:"gt=0"`
}

func (r DeckArtRequest) form() url.Values {
	v := url.Values{}
	v.Set("deckid", strconv.Itoa(r.DeckID))
	v.Set("cardid", strconv.Itoa(r.CardID))
	return v
}

// Credentials log a user in.
type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}
