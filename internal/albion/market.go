package albion

import (
	"context"
	"strconv"
	"strings"

	"albion-flipper/internal/engine"
)

// Sort hints accepted by the transport listing API.
var SortTypes = []string{"BY_PROFIT", "BY_PERCENTAGE_PROFIT", "BY_LAST_TIME_CHECKED"}

// TransportParams selects one route's listings.
type TransportParams struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Count    int    `json:"count"`
	SortType string `json:"sortType"`
}

// Validate checks the caller-level preconditions and fills defaults.
func (p *TransportParams) Validate() error {
	p.From, p.To = strings.TrimSpace(p.From), strings.TrimSpace(p.To)
	if p.From == "" || p.To == "" {
		return ErrMissingLocation
	}
	if strings.EqualFold(p.From, p.To) {
		return ErrSameLocation
	}
	if p.Count <= 0 {
		p.Count = 100
	}
	if p.SortType == "" {
		p.SortType = "BY_PROFIT"
	}
	return nil
}

// FetchTransportations fetches buy-here/sell-there listings for a route.
// Precondition errors are returned before any request is made.
func (c *Client) FetchTransportations(ctx context.Context, p TransportParams) ([]engine.RouteListing, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	query := map[string]string{
		"from":     p.From,
		"to":       p.To,
		"count":    strconv.Itoa(p.Count),
		"skip":     "0",
		"sort":     "BY_LAST_TIME_CHECKED," + p.SortType,
		"serverId": c.serverID,
	}
	var listings []engine.RouteListing
	if err := c.getJSON(ctx, c.marketAPI+"/transportations/sort", query, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}
