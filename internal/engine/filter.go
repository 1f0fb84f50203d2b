package engine

import (
	"strconv"
	"strings"
)

// Thresholds are the lower bounds of the listing table's filters. Zero disables a bound.
type Thresholds struct {
	MinProfit        float64 `json:"minProfit"`
	MinProfitPercent float64 `json:"minProfitPercent"`
	MinSoldPerDay    float64 `json:"minSoldPerDay"`
}

// ParseThresholds parses the raw filter inputs as typed by the user.
func ParseThresholds(minProfit, minProfitPercent, minSoldPerDay string) Thresholds {
	return Thresholds{
		MinProfit:        ParseThreshold(minProfit),
		MinProfitPercent: ParseThreshold(minProfitPercent),
		MinSoldPerDay:    ParseThreshold(minSoldPerDay),
	}
}

// ParseThreshold parses a numeric filter input. Empty or unparsable input is 0.
// A comma decimal separator is accepted.
func ParseThreshold(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0
	}
	return v
}

// Filter returns the listings meeting every threshold on net profit, net percent and volume.
// It always works on the slice passed in, so callers pass the full collection.
func Filter(listings []Listing, th Thresholds) []Listing {
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if l.ItemProfit >= th.MinProfit &&
			l.ItemProfitPercent >= th.MinProfitPercent &&
			l.SoldPerDay >= th.MinSoldPerDay {
			out = append(out, l)
		}
	}
	return out
}

// Range bounds one numeric field. Nil ends are open.
type Range struct {
	Field string   `json:"field"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// RangeFields lists the fields FilterRanges accepts.
var RangeFields = []string{"buyPrice", "sellPrice", "profit", "profitPercent", "soldPerDay"}

// FilterRanges keeps listings inside every range. Ranges on non-numeric or
// unknown fields are ignored.
func FilterRanges(listings []Listing, ranges []Range) []Listing {
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if inRanges(l, ranges) {
			out = append(out, l)
		}
	}
	return out
}

func inRanges(l Listing, ranges []Range) bool {
	for _, r := range ranges {
		v, ok := FieldValue(l, r.Field)
		if !ok {
			continue
		}
		n, isNum := v.(float64)
		if !isNum {
			continue
		}
		if r.Min != nil && n < *r.Min {
			return false
		}
		if r.Max != nil && n > *r.Max {
			return false
		}
	}
	return true
}
