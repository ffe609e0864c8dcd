// Package detail provides the lazily loaded card detail view.
//
// Card detail and price history are fetched concurrently only when the view
// opens. A failed load stays on screen with an inline retry ('r'); 'p'
// asks the service to refresh the card's price and reloads.
package detail
