package api

import (
	"log"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"albion-flipper/internal/albion"
	"albion-flipper/internal/config"
	"albion-flipper/internal/engine"
	"albion-flipper/internal/items"
)

// handleHistory returns an item's price history at one location together with
// its live prices. Both upstream calls run concurrently.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemID")
	if itemID == "" {
		writeError(w, 400, "missing item id")
		return
	}
	cfg := s.config()
	q := r.URL.Query()

	location := q.Get("location")
	if location == "" {
		location = cfg.HistoryLocation
	}
	lastDay := cfg.ShowLastDayOnly
	if v := q.Get("lastDay"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			lastDay = b
		}
	}

	var (
		series []engine.HistorySeries
		prices []albion.CurrentPrice
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		series, err = s.client.FetchHistory(ctx, itemID, location)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = s.client.FetchCurrentPrices(ctx, itemID, location)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("[API] History %s @ %s: %v", itemID, location, err)
		writeError(w, upstreamStatus(err), err.Error())
		return
	}

	if location != cfg.HistoryLocation || lastDay != cfg.ShowLastDayOnly {
		s.updateConfig(func(c *config.Config) {
			c.HistoryLocation, c.ShowLastDayOnly = location, lastDay
		})
	}

	now := s.now()
	if lastDay {
		series = engine.LastDayOnly(series, now)
	}
	total, last24h := engine.TotalSales(series, now)
	name := s.names.Resolve(itemID)

	writeJSON(w, map[string]interface{}{
		"item_id":        itemID,
		"item_name":      name,
		"display_name":   items.DisplayName(name, itemID),
		"location":       location,
		"last_day_only":  lastDay,
		"series":         series,
		"headline":       engine.HeadlineStats(series),
		"qualities":      engine.QualityStats(series, now),
		"total_sales":    total,
		"last_24h_sales": last24h,
		"current_prices": prices,
	})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemID")
	name, found := s.names.Lookup(itemID)
	if !found {
		name = itemID
	}
	tier, enchant := items.TierEnchant(itemID)
	fav := false
	if s.db != nil {
		fav = s.db.IsFavorite(itemID)
	}
	writeJSON(w, map[string]interface{}{
		"item_id":      itemID,
		"clean_id":     items.CleanID(itemID),
		"name":         name,
		"found":        found,
		"display_name": items.DisplayName(name, itemID),
		"tier":         tier,
		"enchant":      enchant,
		"favorite":     fav,
	})
}
