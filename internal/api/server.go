package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"albion-flipper/internal/albion"
	"albion-flipper/internal/config"
	"albion-flipper/internal/db"
	"albion-flipper/internal/engine"
	"albion-flipper/internal/items"
)

// keepFetches bounds the stored fetch history.
const keepFetches = 50

// Server is the HTTP API server that connects the market client, the listing pipeline, and the database.
type Server struct {
	cfg    *config.Config
	client *albion.Client
	db     *db.DB
	names  *items.Table
	pipe   *engine.Pipeline
	events *Hub
	now    func() time.Time

	mu sync.RWMutex // guards cfg
}

// NewServer creates a Server. names may be an empty table when items.json is unavailable.
func NewServer(cfg *config.Config, client *albion.Client, database *db.DB, names *items.Table, pipe *engine.Pipeline) *Server {
	return &Server{
		cfg:    cfg,
		client: client,
		db:     database,
		names:  names,
		pipe:   pipe,
		events: NewHub(),
		now:    time.Now,
	}
}

// Events returns the live event hub.
func (s *Server) Events() *Hub {
	return s.events
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/config", s.handleSetConfig)

	mux.HandleFunc("POST /api/listings/fetch", s.handleFetch)
	mux.HandleFunc("GET /api/listings", s.handleGetListings)
	mux.HandleFunc("POST /api/listings/filter", s.handleFilter)
	mux.HandleFunc("POST /api/listings/reset", s.handleResetFilters)
	mux.HandleFunc("POST /api/listings/sort", s.handleSort)
	mux.HandleFunc("POST /api/listings/premium", s.handlePremium)
	mux.HandleFunc("GET /api/rating", s.handleRating)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)

	mux.HandleFunc("GET /api/history/{itemID}", s.handleHistory)
	mux.HandleFunc("GET /api/items/{itemID}", s.handleItem)

	mux.HandleFunc("GET /api/favorites", s.handleGetFavorites)
	mux.HandleFunc("POST /api/favorites", s.handleAddFavorite)
	mux.HandleFunc("DELETE /api/favorites/{itemID}", s.handleDeleteFavorite)

	mux.HandleFunc("GET /api/fetches", s.handleGetFetches)
	mux.HandleFunc("GET /api/fetches/{id}/results", s.handleGetFetchResults)
	mux.HandleFunc("DELETE /api/fetches/{id}", s.handleDeleteFetch)

	mux.HandleFunc("GET /api/ws", s.events.ServeWS)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// upstreamStatus maps a market client error to a response code.
func upstreamStatus(err error) int {
	var httpErr *albion.HTTPError
	switch {
	case errors.Is(err, albion.ErrSameLocation), errors.Is(err, albion.ErrMissingLocation):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrStale):
		return http.StatusConflict
	case errors.As(err, &httpErr):
		return http.StatusBadGateway
	}
	return http.StatusBadGateway
}

// config returns a copy of the current settings.
func (s *Server) config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg
}

// updateConfig applies fn under the lock and persists the result.
func (s *Server) updateConfig(fn func(c *config.Config)) config.Config {
	s.mu.Lock()
	fn(s.cfg)
	cfg := *s.cfg
	s.mu.Unlock()
	if s.db != nil {
		s.db.SaveConfig(&cfg)
	}
	return cfg
}

// publish notifies live clients that the visible listings changed.
func (s *Server) publish(snap engine.Snapshot) {
	s.events.Broadcast(ListingsEvent{Type: "listings", Seq: snap.Seq, Count: len(snap.Listings)})
}

// --- Handlers ---

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.pipe.Snapshot()
	result := map[string]interface{}{
		"items_loaded":     s.names.Len() > 0,
		"items_count":      s.names.Len(),
		"items_locale":     s.names.Locale(),
		"listings_total":   snap.Total,
		"listings_shown":   len(snap.Listings),
		"seq":              snap.Seq,
		"premium":          snap.Premium,
		"ws_clients":       s.events.Clients(),
		"cached_histories": s.client.CachedHistories(),
		"server_id":        s.client.ServerID(),
		"upstream_ok":      s.client.HealthCheck(r.Context()),
	}
	if !snap.UpdatedAt.IsZero() {
		result["updated_at"] = snap.UpdatedAt.Unix()
	}
	writeJSON(w, result)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.config())
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, 400, "invalid json")
		return
	}

	cfg := s.updateConfig(func(c *config.Config) {
		if v, ok := patch["from_location"]; ok {
			json.Unmarshal(v, &c.FromLocation)
		}
		if v, ok := patch["to_location"]; ok {
			json.Unmarshal(v, &c.ToLocation)
		}
		if v, ok := patch["items_count"]; ok {
			json.Unmarshal(v, &c.ItemsCount)
		}
		if v, ok := patch["sort_type"]; ok {
			var st string
			if json.Unmarshal(v, &st) == nil && slices.Contains(albion.SortTypes, st) {
				c.SortType = st
			}
		}
		if v, ok := patch["min_profit"]; ok {
			c.MinProfit = thresholdText(v)
		}
		if v, ok := patch["min_profit_percent"]; ok {
			c.MinProfitPercent = thresholdText(v)
		}
		if v, ok := patch["min_sold_per_day"]; ok {
			c.MinSoldPerDay = thresholdText(v)
		}
		if v, ok := patch["premium_tax_enabled"]; ok {
			json.Unmarshal(v, &c.PremiumTaxEnabled)
		}
		if v, ok := patch["sort_field"]; ok {
			var f string
			if json.Unmarshal(v, &f) == nil && engine.IsSortField(f) {
				c.SortField = f
			}
		}
		if v, ok := patch["sort_ascending"]; ok {
			json.Unmarshal(v, &c.SortAscending)
		}
		if v, ok := patch["history_location"]; ok {
			json.Unmarshal(v, &c.HistoryLocation)
		}
		if v, ok := patch["show_last_day_only"]; ok {
			json.Unmarshal(v, &c.ShowLastDayOnly)
		}

		// Validate bounds
		if c.ItemsCount <= 0 {
			c.ItemsCount = 100
		} else if c.ItemsCount > 1000 {
			c.ItemsCount = 1000
		}
	})

	for _, key := range []string{"min_profit", "min_profit_percent", "min_sold_per_day", "premium_tax_enabled", "sort_field", "sort_ascending"} {
		if _, ok := patch[key]; ok {
			s.pipe.Restore(thresholdsOf(cfg), engine.SortState{Field: cfg.SortField, Ascending: cfg.SortAscending}, cfg.PremiumTaxEnabled)
			s.publish(s.pipe.Snapshot())
			break
		}
	}
	writeJSON(w, cfg)
}

// thresholdText keeps a threshold as the user typed it. JSON numbers are
// accepted too; anything else clears the threshold.
func thresholdText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

func thresholdsOf(c config.Config) engine.Thresholds {
	return engine.ParseThresholds(c.MinProfit, c.MinProfitPercent, c.MinSoldPerDay)
}
