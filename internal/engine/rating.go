package engine

import (
	"cmp"
	"slices"
	"strings"
)

// Rank scores each listing by profitability times liquidity, both relative to
// the collection mean, and returns them best first.
//
// The profitability term uses the gross ProfitPercent, not the net
// ItemProfitPercent the table filters on. A zero mean makes scores non-finite;
// those sort after every finite score.
func Rank(listings []Listing) []ScoredListing {
	if len(listings) == 0 {
		return []ScoredListing{}
	}

	var sumPP, sumSPD float64
	for _, l := range listings {
		sumPP += l.ProfitPercent
		sumSPD += l.SoldPerDay
	}
	n := float64(len(listings))
	avgPP, avgSPD := sumPP/n, sumSPD/n

	out := make([]ScoredListing, len(listings))
	for i, l := range listings {
		out[i] = ScoredListing{
			Listing: l,
			Score:   (l.ProfitPercent / avgPP) * (l.SoldPerDay / avgSPD),
			Index:   i,
		}
	}
	slices.SortStableFunc(out, func(a, b ScoredListing) int {
		return compareScoresDesc(a.Score, b.Score)
	})
	return out
}

func compareScoresDesc(a, b float64) int {
	fa, fb := isFinite(a), isFinite(b)
	switch {
	case fa && fb:
		return cmp.Compare(b, a)
	case fa:
		return -1
	case fb:
		return 1
	}
	return 0
}

// ScoreQuartiles are the score cut points used to shade the rating list.
type ScoreQuartiles struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// Quartiles picks the scores at floor(n*0.25), floor(n*0.5) and floor(n*0.75)
// of the ascending finite scores. ok is false when there are none.
func Quartiles(scored []ScoredListing) (q ScoreQuartiles, ok bool) {
	scores := make([]float64, 0, len(scored))
	for _, s := range scored {
		if isFinite(s.Score) {
			scores = append(scores, s.Score)
		}
	}
	if len(scores) == 0 {
		return ScoreQuartiles{}, false
	}
	slices.Sort(scores)
	at := func(p float64) float64 {
		return scores[int(float64(len(scores))*p)]
	}
	return ScoreQuartiles{Q1: at(0.25), Q2: at(0.5), Q3: at(0.75)}, true
}

// Liquidity buckets daily volume for the rating list.
type Liquidity string

const (
	LiquidityNone   Liquidity = "none"
	LiquidityLow    Liquidity = "low"
	LiquidityMedium Liquidity = "medium"
	LiquidityHigh   Liquidity = "high"
)

// LiquidityTier classifies soldPerDay: 0 none, under 100 low, under 1000 medium, else high.
func LiquidityTier(soldPerDay float64) Liquidity {
	switch {
	case soldPerDay <= 0:
		return LiquidityNone
	case soldPerDay >= 1000:
		return LiquidityHigh
	case soldPerDay >= 100:
		return LiquidityMedium
	}
	return LiquidityLow
}

// SearchRated keeps ranked entries whose item name contains text, ignoring case.
// Empty text keeps everything.
func SearchRated(scored []ScoredListing, text string) []ScoredListing {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return scored
	}
	out := make([]ScoredListing, 0, len(scored))
	for _, s := range scored {
		if strings.Contains(strings.ToLower(s.ItemName), text) {
			out = append(out, s)
		}
	}
	return out
}
