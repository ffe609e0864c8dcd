package collector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByType(t *testing.T) {
	rows := []DeckRow{
		{Name: "Goblin Guide", CardType: "Creature", Quantity: 4},
		{Name: "Monastery Swiftspear", CardType: "Creature", Quantity: 4},
		{Name: "Lightning Bolt", CardType: "Instant", Quantity: 4},
		{Name: "Mystery", Quantity: 1},
		{Name: "Mountain", CardType: "Land", Quantity: 18, BasicLand: true},
	}

	grouped := GroupByType(rows)

	var labels []string
	var counts []int
	for _, r := range grouped {
		if r.IsType {
			labels = append(labels, r.Label)
			counts = append(counts, r.Count)
		}
	}
	assert.Equal(t, []string{"Creature", "Instant", "Other", "Land"}, labels)
	assert.Equal(t, []int{8, 4, 1, 18}, counts)
	assert.Len(t, grouped, len(rows)+4)
	assert.True(t, grouped[0].IsType)
	assert.Equal(t, "Goblin Guide", grouped[1].Name)

	assert.Equal(t, grouped, GroupByType(grouped), "regrouping is stable")
	assert.Equal(t, 31, Total(grouped))
	assert.Equal(t, rows, Cards(grouped))
}

func TestGroupByType_Empty(t *testing.T) {
	assert.Empty(t, GroupByType(nil))
	assert.Zero(t, Total(nil))
}

func TestDeckEndpoints(t *testing.T) {
	var posted []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/decks/get/all":
			assert.Equal(t, "true", r.URL.Query().Get("deleted"))
			_, _ = io.WriteString(w, `{"results": [{"id": 3, "name": "Burn", "formatname": "Modern", "cardartid": null}]}`)
		case "/decks/get":
			assert.Equal(t, "3", r.URL.Query().Get("deckid"))
			_, _ = io.WriteString(w, `{
				"deck": {"id": 3, "name": "Burn", "formatid": 2, "deleted": false, "cardartid": 11, "notes": ""},
				"main": [
					{"is_type": true, "label": "Instant", "count": 4},
					{"id": 21, "cardid": 11, "quantity": 4, "section": "main", "name": "Lightning Bolt",
					 "has_quantity": 2, "cardtype": "Instant", "manacost": ["{R}"], "insufficient_quantity": true}
				],
				"sideboard": []
			}`)
		default:
			require.NoError(t, r.ParseForm())
			posted = append(posted, r.URL.Path+"?"+r.PostForm.Encode())
			_, _ = io.WriteString(w, `{}`)
		}
	})
	ctx := context.Background()

	decks, err := c.Decks(ctx, true)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Nil(t, decks[0].CardArtID)

	list, err := c.Deck(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Burn", list.Deck.Name)
	require.Len(t, list.Main, 2)
	assert.True(t, list.Main[0].IsType)
	card := list.Main[1]
	require.NotNil(t, card.HasQuantity)
	assert.Equal(t, 2, *card.HasQuantity)
	assert.True(t, card.InsufficientQuantity)
	assert.Empty(t, list.Sideboard)
	assert.Equal(t, 4, Total(list.Main))

	require.NoError(t, c.SaveDeck(ctx, SaveDeckRequest{DeckID: 3, Name: "Burn v2", FormatID: 2}))
	require.NoError(t, c.DeleteDeck(ctx, 3))
	require.NoError(t, c.RestoreDeck(ctx, 3))
	require.NoError(t, c.SetDeckArt(ctx, DeckArtRequest{DeckID: 3, CardID: 11}))
	require.NoError(t, c.DeleteDeckCard(ctx, 21))

	assert.Equal(t, []string{
		"/decks/save?deckid=3&formatid=2&name=Burn+v2",
		"/decks/delete?deckid=3",
		"/decks/restore?deckid=3",
		"/decks/cardart?cardid=11&deckid=3",
		"/decks/cards/delete?deck_cardid=21",
	}, posted)

	require.ErrorIs(t, c.SaveDeck(ctx, SaveDeckRequest{DeckID: 3, FormatID: 2}), ErrValidation)
	require.ErrorIs(t, c.DeleteDeck(ctx, 0), ErrValidation)
	_, err = c.Deck(ctx, -1)
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeckRow_HeadingJSON(t *testing.T) {
	data, err := json.Marshal(DeckRow{IsType: true, Label: "Land", Count: 20})
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_type": true, "label": "Land", "count": 20}`, string(data))
}

func TestRarities(t *testing.T) {
	assert.Equal(t, []string{"C", "U", "R", "M", "S"}, Rarities())
	assert.Equal(t, "Mythic Rare", RarityName(RarityMythic))
	assert.Equal(t, "Z", RarityName("Z"))
}
