package collector

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// FetchPage loads one page of the collection.
func (c *Client) FetchPage(ctx context.Context, q Query) (CollectionPage, error) {
	if err := q.Validate(); err != nil {
		return CollectionPage{}, err
	}
	var page CollectionPage
	if err := c.get(ctx, "/get_collection", q.Values(), &page); err != nil {
		return CollectionPage{}, err
	}
	if page.Cards == nil {
		page.Cards = []Card{}
	}
	return page, nil
}

// Sets lists every card set, newest first.
func (c *Client) Sets(ctx context.Context) ([]CardSet, error) {
	var resp struct {
		Sets []CardSet `json:"sets"`
	}
	if err := c.get(ctx, "/get_sets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sets, nil
}

// Search finds printings whose name contains query. An empty query returns
// no results without a request.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	var resp struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.get(ctx, "/search", url.Values{"query": {query}}, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []SearchResult{}
	}
	return resp.Results, nil
}

// AddCard adds copies of a printing to the collection.
func (c *Client) AddCard(ctx context.Context, req AddCardRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	return c.postForm(ctx, "/collection/card/add", req.form(), nil)
}

// EditCard changes quantity, foil or the TCGplayer product of an owned card.
func (c *Client) EditCard(ctx context.Context, req EditCardRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	return c.postForm(ctx, "/collection/card/edit", req.form(), nil)
}

func userCardQuery(userCardID int) url.Values {
	return url.Values{"user_cardid": {strconv.Itoa(userCardID)}}
}

// Card returns the detail view of an owned card.
func (c *Client) Card(ctx context.Context, userCardID int) (CardDetail, error) {
	if err := validateID("user card id", userCardID); err != nil {
		return CardDetail{}, err
	}
	var resp struct {
		Card *CardDetail `json:"card"`
	}
	if err := c.get(ctx, "/collection/card", userCardQuery(userCardID), &resp); err != nil {
		return CardDetail{}, err
	}
	if resp.Card == nil {
		return CardDetail{}, &ServiceError{Endpoint: "/collection/card", Message: "No card selected."}
	}
	return *resp.Card, nil
}

// PriceHistory returns the daily price series of an owned card.
func (c *Client) PriceHistory(ctx context.Context, userCardID int) (PriceHistory, error) {
	if err := validateID("user card id", userCardID); err != nil {
		return PriceHistory{}, err
	}
	var h PriceHistory
	if err := c.get(ctx, "/collection/card/pricehistory", userCardQuery(userCardID), &h); err != nil {
		return PriceHistory{}, err
	}
	return h, nil
}

// RefreshPrice asks the service to re-fetch the price of an owned card.
func (c *Client) RefreshPrice(ctx context.Context, userCardID int) error {
	if err := validateID("user card id", userCardID); err != nil {
		return err
	}
	return c.get(ctx, "/collection/card/pricerefresh", userCardQuery(userCardID), nil)
}

// UploadCSV imports a collection CSV. It returns the multiverse ids the
// service had not seen before.
func (c *Client) UploadCSV(ctx context.Context, filename string, r io.Reader) ([]int, error) {
	var ids []int
	if err := c.postFile(ctx, "/csv_upload", filename, r, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}
