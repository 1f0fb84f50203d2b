package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// --- Favorites ---

func (s *Server) handleGetFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.db.GetFavorites())
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID   string `json:"item_id"`
		ItemName string `json:"item_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	req.ItemID = strings.TrimSpace(req.ItemID)
	if req.ItemID == "" {
		writeError(w, 400, "item_id is required")
		return
	}
	if req.ItemName == "" {
		req.ItemName = s.names.Resolve(req.ItemID)
	}
	inserted := s.db.AddFavorite(req.ItemID, req.ItemName)
	writeJSON(w, map[string]interface{}{
		"inserted":  inserted,
		"favorites": s.db.GetFavorites(),
	})
}

func (s *Server) handleDeleteFavorite(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemID")
	if !s.db.DeleteFavorite(itemID) {
		writeError(w, 404, "not found")
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

// --- Fetch history ---

func (s *Server) handleGetFetches(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit := 50
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	writeJSON(w, s.db.GetFetches(limit))
}

func (s *Server) handleGetFetchResults(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, 400, "invalid id")
		return
	}
	results := s.db.GetFetchResults(id, s.now())
	if results == nil {
		writeError(w, 404, "not found")
		return
	}
	writeJSON(w, results)
}

func (s *Server) handleDeleteFetch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, 400, "invalid id")
		return
	}
	if err := s.db.DeleteFetch(id); err != nil {
		writeError(w, 500, "delete failed: "+err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}
