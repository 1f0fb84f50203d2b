package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"albion-flipper/internal/albion"
	"albion-flipper/internal/config"
	"albion-flipper/internal/db"
	"albion-flipper/internal/engine"
	"albion-flipper/internal/export"
)

const maxImportBytes = 32 << 20

type fetchRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Count    int    `json:"count"`
	SortType string `json:"sortType"`
}

// handleFetch loads one route's listings and makes them the current collection.
// A fetch overtaken by a newer one answers 409 and changes nothing.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, 400, "invalid json")
		return
	}
	cfg := s.config()
	if req.From == "" && req.To == "" {
		req.From, req.To = cfg.FromLocation, cfg.ToLocation
	}
	if req.Count == 0 {
		req.Count = cfg.ItemsCount
	}
	if req.SortType == "" {
		req.SortType = cfg.SortType
	}

	params := albion.TransportParams{From: req.From, To: req.To, Count: req.Count, SortType: req.SortType}
	if err := params.Validate(); err != nil {
		writeError(w, 400, err.Error())
		return
	}

	ticket := s.pipe.Begin()
	start := time.Now()
	log.Printf("[API] Fetch #%d (%s): %s -> %s, count=%d", ticket.Seq, ticket.ID, params.From, params.To, params.Count)

	raw, err := s.client.FetchTransportations(r.Context(), params)
	if err != nil {
		log.Printf("[API] Fetch #%d failed: %v", ticket.Seq, err)
		writeError(w, upstreamStatus(err), err.Error())
		return
	}
	if err := s.pipe.Apply(ticket, raw); err != nil {
		log.Printf("[API] Fetch #%d discarded: %v", ticket.Seq, err)
		writeError(w, upstreamStatus(err), err.Error())
		return
	}

	snap := s.pipe.Snapshot()
	elapsed := time.Since(start)
	log.Printf("[API] Fetch #%d: %d listings, %d shown in %s", ticket.Seq, snap.Total, len(snap.Listings), elapsed.Round(time.Millisecond))

	s.updateConfig(func(c *config.Config) {
		c.FromLocation, c.ToLocation = params.From, params.To
		c.ItemsCount, c.SortType = params.Count, params.SortType
	})
	s.recordFetch(ticket, params, snap, elapsed)
	s.publish(snap)

	writeJSON(w, map[string]interface{}{
		"ticket":   ticket,
		"snapshot": snap,
	})
}

func (s *Server) recordFetch(t engine.Ticket, p albion.TransportParams, snap engine.Snapshot, elapsed time.Duration) {
	if s.db == nil {
		return
	}
	var top float64
	for i, l := range snap.Listings {
		if i == 0 || l.ItemProfit > top {
			top = l.ItemProfit
		}
	}
	id := s.db.InsertFetch(db.FetchRecord{
		Ticket:       t.ID.String(),
		FromLocation: p.From,
		ToLocation:   p.To,
		SortType:     p.SortType,
		Count:        p.Count,
		TopProfit:    top,
		Premium:      snap.Premium,
		DurationMs:   elapsed.Milliseconds(),
	})
	s.db.InsertFetchResults(id, snap.Listings)
	if n, err := s.db.PruneFetches(keepFetches); err != nil {
		log.Printf("[API] Prune fetch history: %v", err)
	} else if n > 0 {
		log.Printf("[API] Pruned %d old fetches", n)
	}
}

func (s *Server) handleGetListings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.pipe.Snapshot())
}

type filterRequest struct {
	MinProfit        json.RawMessage `json:"minProfit"`
	MinProfitPercent json.RawMessage `json:"minProfitPercent"`
	MinSoldPerDay    json.RawMessage `json:"minSoldPerDay"`
	Ranges           []engine.Range  `json:"ranges"`
}

// handleFilter stores new thresholds and re-filters the full collection.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	cfg := s.updateConfig(func(c *config.Config) {
		c.MinProfit = thresholdText(req.MinProfit)
		c.MinProfitPercent = thresholdText(req.MinProfitPercent)
		c.MinSoldPerDay = thresholdText(req.MinSoldPerDay)
	})
	s.pipe.ApplyFilters(thresholdsOf(cfg), req.Ranges)
	snap := s.pipe.Snapshot()
	s.publish(snap)
	writeJSON(w, snap)
}

func (s *Server) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.cfg.MinProfit, s.cfg.MinProfitPercent, s.cfg.MinSoldPerDay = "", "", ""
	s.mu.Unlock()
	if s.db != nil {
		if err := s.db.ClearFilters(); err != nil {
			log.Printf("[API] Clear saved filters: %v", err)
		}
	}
	s.pipe.ResetFilters()
	snap := s.pipe.Snapshot()
	s.publish(snap)
	writeJSON(w, snap)
}

// handleSort applies a header click: the current field flips direction, a new field sorts ascending.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if !engine.IsSortField(req.Field) {
		writeError(w, 400, fmt.Sprintf("unknown sort field %q", req.Field))
		return
	}
	state := s.pipe.Sort(req.Field)
	s.updateConfig(func(c *config.Config) {
		c.SortField, c.SortAscending = state.Field, state.Ascending
	})
	snap := s.pipe.Snapshot()
	s.publish(snap)
	writeJSON(w, snap)
}

// handlePremium switches the sales tax rate and recomputes profits without refetching.
func (s *Server) handlePremium(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	s.pipe.SetPremium(req.Enabled)
	s.updateConfig(func(c *config.Config) {
		c.PremiumTaxEnabled = req.Enabled
	})
	snap := s.pipe.Snapshot()
	s.publish(snap)
	writeJSON(w, snap)
}

type ratedListing struct {
	Listing   engine.ScoredListing `json:"listing"`
	Liquidity engine.Liquidity     `json:"liquidity"`
	Favorite  bool                 `json:"favorite"`
}

// handleRating ranks the current view. Quartiles cover the whole ranking,
// q only narrows the returned entries.
func (s *Server) handleRating(w http.ResponseWriter, r *http.Request) {
	ranked := s.pipe.Rank()
	quartiles, ok := engine.Quartiles(ranked)
	matched := engine.SearchRated(ranked, r.URL.Query().Get("q"))

	favs := map[string]bool{}
	if s.db != nil {
		favs = s.db.FavoriteIDs()
	}
	entries := make([]ratedListing, 0, len(matched))
	for _, sl := range matched {
		entries = append(entries, ratedListing{
			Listing:   sl,
			Liquidity: engine.LiquidityTier(sl.SoldPerDay),
			Favorite:  favs[sl.ItemID],
		})
	}

	result := map[string]interface{}{
		"total":   len(ranked),
		"entries": entries,
	}
	if ok {
		result["quartiles"] = quartiles
	}
	writeJSON(w, result)
}

// handleExport downloads the current view as xlsx (default) or JSON rows.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	listings := s.pipe.Filtered()
	name := "albion-market-data-" + s.now().Format("2006-01-02")

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.json"`)
		if err := export.WriteJSON(w, export.RowsFromListings(listings)); err != nil {
			log.Printf("[API] Export json: %v", err)
		}
	case "", "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.xlsx"`)
		if err := export.WriteXLSX(w, listings); err != nil {
			log.Printf("[API] Export xlsx: %v", err)
		}
	default:
		writeError(w, 400, "format must be xlsx or json")
	}
}

// handleImport replaces the collection with exported JSON rows.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	rows, err := export.ReadJSON(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}
	ticket := s.pipe.Import(export.ListingsFromRows(rows))
	log.Printf("[API] Import #%d: %d rows", ticket.Seq, len(rows))
	snap := s.pipe.Snapshot()
	s.publish(snap)
	writeJSON(w, snap)
}
