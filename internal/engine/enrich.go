package engine

import (
	"fmt"
	"time"
)

// NameResolver maps a raw item id to its display name.
// *items.Table satisfies it.
type NameResolver interface {
	Resolve(rawID string) string
}

// QualityNamer is optionally implemented by resolvers that also label qualities.
type QualityNamer interface {
	QualityName(q int) string
}

// Enrich turns raw route listings into Listings. A nil resolver leaves names as raw ids.
// The from-side item id is used for identity.
func Enrich(raw []RouteListing, tax TaxConfig, names NameResolver, now time.Time) []Listing {
	out := make([]Listing, 0, len(raw))
	for _, r := range raw {
		out = append(out, enrichOne(r, tax, names, now))
	}
	return out
}

func enrichOne(r RouteListing, tax TaxConfig, names NameResolver, now time.Time) Listing {
	p := ComputeProfit(r.From, r.To, tax)
	name := r.From.ItemID
	if names != nil {
		name = names.Resolve(r.From.ItemID)
	}
	qualityName := Unknown
	if qn, ok := names.(QualityNamer); ok {
		qualityName = qn.QualityName(r.From.Quality)
	}
	return Listing{
		ItemID:            orUnknown(r.From.ItemID),
		ItemName:          orUnknown(name),
		Quality:           r.From.Quality,
		QualityName:       qualityName,
		BuyPrice:          p.BuyPrice,
		SellPrice:         p.SellPrice,
		Profit:            p.Profit,
		ProfitPercent:     p.ProfitPercent,
		ItemProfit:        p.ItemProfit,
		ItemProfitPercent: p.ItemProfitPercent,
		SoldPerDay:        SoldPerDay(r.To),
		FromLocation:      orUnknown(r.From.Location),
		ToLocation:        orUnknown(r.To.Location),
		BuyDate:           FormatAge(r.From.SellPriceMinDate.Time, now),
		SellDate:          FormatAge(r.To.SellPriceMinDate.Time, now),
		BuyTime:           r.From.SellPriceMinDate.Time,
		SellTime:          r.To.SellPriceMinDate.Time,
	}
}

// NoData labels quotes whose timestamp is missing or at the epoch.
const NoData = "no data"

// FormatAge renders how long ago t was: minutes under an hour, hours under a day,
// days under a week, otherwise the calendar date as D.M.YYYY.
func FormatAge(t, now time.Time) string {
	if t.IsZero() || t.Year() <= 1970 {
		return NoData
	}
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < 24*time.Hour:
		if diff < time.Hour {
			return fmt.Sprintf("%d min ago", int(diff/time.Minute))
		}
		return fmt.Sprintf("%d h ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d d ago", int(diff/(24*time.Hour)))
	}
	return fmt.Sprintf("%d.%d.%d", t.Day(), int(t.Month()), t.Year())
}
