package collector

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

func validateID(name string, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s must be > 0, got %d", ErrValidation, name, id)
	}
	return nil
}

func deckForm(deckID int) url.Values {
	return url.Values{"deckid": {strconv.Itoa(deckID)}}
}

// Decks lists the user's decks. deleted selects the trash instead.
func (c *Client) Decks(ctx context.Context, deleted bool) ([]DeckSummary, error) {
	var resp struct {
		Results []DeckSummary `json:"results"`
	}
	q := url.Values{"deleted": {strconv.FormatBool(deleted)}}
	if err := c.get(ctx, "/decks/get/all", q, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []DeckSummary{}
	}
	return resp.Results, nil
}

// Deck loads a deck with its main and sideboard rows.
func (c *Client) Deck(ctx context.Context, deckID int) (DeckList, error) {
	if err := validateID("deck id", deckID); err != nil {
		return DeckList{}, err
	}
	var list DeckList
	if err := c.get(ctx, "/decks/get", deckForm(deckID), &list); err != nil {
		return DeckList{}, err
	}
	return list, nil
}

// SaveDeck renames a deck and sets its format.
func (c *Client) SaveDeck(ctx context.Context, req SaveDeckRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	return c.postForm(ctx, "/decks/save", req.form(), nil)
}

// DeleteDeck moves a deck to the trash.
func (c *Client) DeleteDeck(ctx context.Context, deckID int) error {
	if err := validateID("deck id", deckID); err != nil {
		return err
	}
	return c.postForm(ctx, "/decks/delete", deckForm(deckID), nil)
}

// RestoreDeck brings a deck back from the trash.
func (c *Client) RestoreDeck(ctx context.Context, deckID int) error {
	if err := validateID("deck id", deckID); err != nil {
		return err
	}
	return c.postForm(ctx, "/decks/restore", deckForm(deckID), nil)
}

// SetDeckArt picks the card whose art represents the deck.
func (c *Client) SetDeckArt(ctx context.Context, req DeckArtRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	return c.postForm(ctx, "/decks/cardart", req.form(), nil)
}

// DeleteDeckCard removes one row from a deck.
func (c *Client) DeleteDeckCard(ctx context.Context, deckCardID int) error {
	if err := validateID("deck card id", deckCardID); err != nil {
		return err
	}
	return c.postForm(ctx, "/decks/cards/delete", url.Values{"deck_cardid": {strconv.Itoa(deckCardID)}}, nil)
}

// ImportDeck creates a new deck from a CSV with Name, Count and Section columns.
func (c *Client) ImportDeck(ctx context.Context, filename string, r io.Reader) error {
	return c.postFile(ctx, "/decks/import", filename, r, nil)
}
