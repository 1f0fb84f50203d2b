package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"albion-flipper/internal/engine"
)

// IconBase is where the listing site serves item icons; the file name is the raw item id.
const IconBase = "https://albion-profit-calculator.com/images/items/"

// Number is a numeric cell of an exported row. It is written as a string, as the
// page export always did, and read from either a string or a JSON number.
// Anything unparsable reads as 0.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatFloat(float64(n), 'f', -1, 64))
}

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = 0
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	*n = Number(engine.ParseThreshold(s))
	return nil
}

// Row is one listing in the JSON exchange format shared with the page scraper.
type Row struct {
	Title         string `json:"title"`
	Image         string `json:"image"`
	BuyPrice      Number `json:"buyPrice"`
	BuyTimeAgo    string `json:"buyTimeAgo"`
	SellPrice     Number `json:"sellPrice"`
	SellTimeAgo   string `json:"sellTimeAgo"`
	FromLocation  string `json:"fromLocation"`
	ToLocation    string `json:"toLocation"`
	Profit        Number `json:"profit"`
	ProfitPercent Number `json:"profitPercent"`
	SoldPerDay    Number `json:"soldPerDay"`
}

// RowsFromListings converts listings to exchange rows. Profit columns carry the
// net (after fees and tax) values.
func RowsFromListings(listings []engine.Listing) []Row {
	rows := make([]Row, 0, len(listings))
	for _, l := range listings {
		image := ""
		if l.ItemID != "" && l.ItemID != engine.Unknown {
			image = IconBase + l.ItemID + ".png"
		}
		rows = append(rows, Row{
			Title:         l.ItemName,
			Image:         image,
			BuyPrice:      Number(l.BuyPrice),
			BuyTimeAgo:    l.BuyDate,
			SellPrice:     Number(l.SellPrice),
			SellTimeAgo:   l.SellDate,
			FromLocation:  l.FromLocation,
			ToLocation:    l.ToLocation,
			Profit:        Number(l.ItemProfit),
			ProfitPercent: Number(l.ItemProfitPercent),
			SoldPerDay:    Number(l.SoldPerDay),
		})
	}
	return rows
}

// ListingsFromRows rebuilds listings from exchange rows. The item id is taken
// from the icon file name when present. Gross profit is recomputed from the
// prices; the row's profit columns become the net values.
func ListingsFromRows(rows []Row) []engine.Listing {
	out := make([]engine.Listing, 0, len(rows))
	for _, r := range rows {
		buy, sell := float64(r.BuyPrice), float64(r.SellPrice)
		gross := sell - buy
		grossPct := 0.0
		if buy > 0 {
			grossPct = gross / buy * 100
		}
		out = append(out, engine.Listing{
			ItemID:            itemIDFromImage(r.Image),
			ItemName:          orUnknown(r.Title),
			QualityName:       engine.Unknown,
			BuyPrice:          buy,
			SellPrice:         sell,
			Profit:            gross,
			ProfitPercent:     grossPct,
			ItemProfit:        float64(r.Profit),
			ItemProfitPercent: float64(r.ProfitPercent),
			SoldPerDay:        float64(r.SoldPerDay),
			FromLocation:      orUnknown(r.FromLocation),
			ToLocation:        orUnknown(r.ToLocation),
			BuyDate:           orUnknown(r.BuyTimeAgo),
			SellDate:          orUnknown(r.SellTimeAgo),
		})
	}
	return out
}

func itemIDFromImage(image string) string {
	if image == "" {
		return engine.Unknown
	}
	base := path.Base(strings.SplitN(image, "?", 2)[0])
	id := strings.TrimSuffix(base, path.Ext(base))
	if id == "" || id == "." || id == "/" {
		return engine.Unknown
	}
	return id
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return engine.Unknown
	}
	return strings.TrimSpace(s)
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	return nil
}

// ReadJSON reads a JSON array of rows.
func ReadJSON(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("parse rows: %w", err)
	}
	return rows, nil
}
