package engine

import (
	"encoding/json"
	"strings"
	"time"
)

// Unknown is the placeholder for string fields the source did not provide.
const Unknown = "-"

// RawQuote is the best current sell-side quote for one item/quality at one market.
type RawQuote struct {
	ItemID           string    `json:"itemId"`
	Quality          int       `json:"quality"`
	Location         string    `json:"location"`
	SellPriceMin     float64   `json:"sellPriceMin"`
	SellPriceMinDate Timestamp `json:"sellPriceMinDate"`
	AverageItems     *float64  `json:"averageItems"` // nil when the source omits it
}

// RouteListing is one buy-at-origin / sell-at-destination opportunity as received.
type RouteListing struct {
	From RawQuote `json:"from"`
	To   RawQuote `json:"to"`
}

// Listing is a RouteListing with derived profit metrics.
// Values are never mutated after Enrich; a new fetch replaces the collection.
type Listing struct {
	ItemID            string    `json:"itemId"`
	ItemName          string    `json:"itemName"`
	Quality           int       `json:"quality"`
	QualityName       string    `json:"qualityName"`
	BuyPrice          float64   `json:"buyPrice"`
	SellPrice         float64   `json:"sellPrice"`
	Profit            float64   `json:"profit"`
	ProfitPercent     float64   `json:"profitPercent"`
	ItemProfit        float64   `json:"itemProfit"`
	ItemProfitPercent float64   `json:"itemProfitPercent"`
	SoldPerDay        float64   `json:"soldPerDay"`
	FromLocation      string    `json:"fromLocation"`
	ToLocation        string    `json:"toLocation"`
	BuyDate           string    `json:"buyDate"`
	SellDate          string    `json:"sellDate"`
	BuyTime           time.Time `json:"buyTime"`
	SellTime          time.Time `json:"sellTime"`
}

// ScoredListing is a Listing with its composite rating score.
// Index is the listing's position in the collection that was ranked.
type ScoredListing struct {
	Listing
	Score float64 `json:"score"`
	Index int     `json:"index"`
}

// MarshalJSON encodes non-finite scores as null.
func (s ScoredListing) MarshalJSON() ([]byte, error) {
	type alias struct {
		Listing
		Score *float64 `json:"score"`
		Index int      `json:"index"`
	}
	a := alias{Listing: s.Listing, Index: s.Index}
	if isFinite(s.Score) {
		v := s.Score
		a.Score = &v
	}
	return json.Marshal(a)
}

// Timestamp accepts the upstream's zone-less ISO timestamps ("2024-05-01T10:00:00")
// as well as RFC3339. Values without a zone are UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON parses the upstream timestamp; unparsable or null values become the zero time.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

// MarshalJSON writes RFC3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}
