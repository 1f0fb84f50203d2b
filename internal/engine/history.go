package engine

import (
	"math"
	"slices"
	"time"
)

// DayWindow is the fixed "last 24h" window, 86,400,000 ms.
const DayWindow = 86_400_000 * time.Millisecond

// HistoryPoint is one time bucket of a price history series.
type HistoryPoint struct {
	Timestamp Timestamp `json:"timestamp"`
	AvgPrice  float64   `json:"avg_price"`
	ItemCount float64   `json:"item_count"`
}

// HistorySeries is the history of one item quality at one location.
type HistorySeries struct {
	Location string         `json:"location"`
	ItemID   string         `json:"item_id"`
	Quality  int            `json:"quality"`
	Data     []HistoryPoint `json:"data"`
}

// PriceStats aggregates a history series. AvgPrice is volume weighted and floored.
type PriceStats struct {
	Quality      int     `json:"quality"`
	AvgPrice     float64 `json:"avgPrice"`
	MinPrice     float64 `json:"minPrice"`
	MaxPrice     float64 `json:"maxPrice"`
	TotalSales   float64 `json:"totalSales"`
	Last24hSales float64 `json:"last24hSales"`
}

// SeriesStats computes PriceStats for s as of now, ignoring points with a
// non-positive price. It backs the per-quality table.
func SeriesStats(s HistorySeries, now time.Time) PriceStats {
	st := PriceStats{Quality: s.Quality}
	cutoff := now.Add(-DayWindow)
	var weighted float64
	minPrice := math.Inf(1)
	for _, p := range s.Data {
		if p.AvgPrice <= 0 {
			continue
		}
		weighted += p.AvgPrice * p.ItemCount
		st.TotalSales += p.ItemCount
		minPrice = math.Min(minPrice, p.AvgPrice)
		st.MaxPrice = math.Max(st.MaxPrice, p.AvgPrice)
		if !p.Timestamp.Before(cutoff) {
			st.Last24hSales += p.ItemCount
		}
	}
	if st.TotalSales > 0 {
		st.AvgPrice = math.Floor(weighted / st.TotalSales)
	}
	if !math.IsInf(minPrice, 1) {
		st.MinPrice = minPrice
	}
	return st
}

// QualityStats returns SeriesStats for every series with data, ordered by quality.
func QualityStats(series []HistorySeries, now time.Time) []PriceStats {
	out := make([]PriceStats, 0, len(series))
	for _, s := range series {
		if len(s.Data) == 0 {
			continue
		}
		out = append(out, SeriesStats(s, now))
	}
	slices.SortStableFunc(out, func(a, b PriceStats) int { return a.Quality - b.Quality })
	return out
}

// HeadlineStats summarises the first series, as the history panel's header does.
// Every point counts toward the volume and the weighted average; only the
// minimum skips non-positive prices.
func HeadlineStats(series []HistorySeries) PriceStats {
	if len(series) == 0 || len(series[0].Data) == 0 {
		return PriceStats{}
	}
	s := series[0]
	st := PriceStats{Quality: s.Quality}
	var weighted float64
	minPrice := math.Inf(1)
	for _, p := range s.Data {
		if p.AvgPrice > 0 {
			minPrice = math.Min(minPrice, p.AvgPrice)
		}
		st.MaxPrice = math.Max(st.MaxPrice, p.AvgPrice)
		st.TotalSales += p.ItemCount
		weighted += p.AvgPrice * p.ItemCount
	}
	if st.TotalSales > 0 {
		st.AvgPrice = math.Floor(weighted / st.TotalSales)
	}
	if !math.IsInf(minPrice, 1) {
		st.MinPrice = minPrice
	}
	return st
}

// TotalSales sums the volume of every point in every series, and the part of
// it inside the last 24h.
func TotalSales(series []HistorySeries, now time.Time) (total, last24h float64) {
	cutoff := now.Add(-DayWindow)
	for _, s := range series {
		for _, p := range s.Data {
			total += p.ItemCount
			if !p.Timestamp.Before(cutoff) {
				last24h += p.ItemCount
			}
		}
	}
	return total, last24h
}

// LastDayOnly returns copies of series keeping only points inside the last 24h.
// Series left empty are dropped.
func LastDayOnly(series []HistorySeries, now time.Time) []HistorySeries {
	cutoff := now.Add(-DayWindow)
	out := make([]HistorySeries, 0, len(series))
	for _, s := range series {
		kept := make([]HistoryPoint, 0, len(s.Data))
		for _, p := range s.Data {
			if !p.Timestamp.Before(cutoff) {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			continue
		}
		s.Data = kept
		out = append(out, s)
	}
	return out
}
