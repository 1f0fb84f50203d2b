package albion

import (
	"context"
	"net/url"
	"strings"

	"albion-flipper/internal/engine"
)

// CurrentPrice is one quality's live order book summary in one city.
type CurrentPrice struct {
	ItemID           string           `json:"item_id"`
	City             string           `json:"city"`
	Quality          int              `json:"quality"`
	SellPriceMin     float64          `json:"sell_price_min"`
	SellPriceMinDate engine.Timestamp `json:"sell_price_min_date"`
	SellPriceMax     float64          `json:"sell_price_max"`
	SellPriceMaxDate engine.Timestamp `json:"sell_price_max_date"`
	BuyPriceMin      float64          `json:"buy_price_min"`
	BuyPriceMax      float64          `json:"buy_price_max"`
}

// FetchHistory returns the price history of every quality of itemID at location.
// Results are cached for the client's history TTL and identical concurrent
// requests share one upstream call.
func (c *Client) FetchHistory(ctx context.Context, itemID, location string) ([]engine.HistorySeries, error) {
	key := itemID + "|" + location
	if v, ok := c.history.Get(key); ok {
		return v.([]engine.HistorySeries), nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		var series []engine.HistorySeries
		u := c.dataAPI + "/stats/history/" + url.PathEscape(itemID)
		if err := c.getJSON(ctx, u, map[string]string{"locations": location}, &series); err != nil {
			return nil, err
		}
		c.history.SetDefault(key, series)
		return series, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]engine.HistorySeries), nil
}

// FetchCurrentPrices returns the live prices of itemID, keeping only rows for
// location (case-insensitive).
func (c *Client) FetchCurrentPrices(ctx context.Context, itemID, location string) ([]CurrentPrice, error) {
	var all []CurrentPrice
	u := c.dataAPI + "/stats/prices/" + url.PathEscape(itemID)
	if err := c.getJSON(ctx, u, map[string]string{"locations": location}, &all); err != nil {
		return nil, err
	}
	out := make([]CurrentPrice, 0, len(all))
	for _, p := range all {
		if strings.EqualFold(p.City, location) {
			out = append(out, p)
		}
	}
	return out, nil
}

// CachedHistories returns how many history responses are cached.
func (c *Client) CachedHistories() int {
	return c.history.ItemCount()
}
