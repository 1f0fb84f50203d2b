package engine

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator compares strings in a locale's order. *collate.Collator satisfies it.
type Collator interface {
	CompareString(a, b string) int
}

// NewCollator returns a collator for an items.json locale such as "RU-RU".
// Unknown locales fall back to the root collation order.
// A collator is not safe for concurrent use.
func NewCollator(locale string) *collate.Collator {
	tag, err := language.Parse(strings.ToLower(locale))
	if err != nil {
		tag = language.Und
	}
	return collate.New(tag)
}

// DefaultSortField is the column the table is sorted by before any click.
const DefaultSortField = "soldPerDay"

// FieldValue returns the listing's value for a table column: a string for text
// columns, a float64 for numeric ones. ok is false for unknown fields.
func FieldValue(l Listing, field string) (v any, ok bool) {
	switch field {
	case "itemId":
		return l.ItemID, true
	case "itemName":
		return l.ItemName, true
	case "qualityName":
		return l.QualityName, true
	case "fromLocation":
		return l.FromLocation, true
	case "toLocation":
		return l.ToLocation, true
	case "buyDate":
		return l.BuyDate, true
	case "sellDate":
		return l.SellDate, true
	case "quality":
		return float64(l.Quality), true
	case "buyPrice":
		return l.BuyPrice, true
	case "sellPrice":
		return l.SellPrice, true
	case "profit":
		return l.Profit, true
	case "profitPercent":
		return l.ProfitPercent, true
	case "itemProfit":
		return l.ItemProfit, true
	case "itemProfitPercent":
		return l.ItemProfitPercent, true
	case "soldPerDay":
		return l.SoldPerDay, true
	}
	return nil, false
}

// IsSortField reports whether field names a sortable column.
func IsSortField(field string) bool {
	_, ok := FieldValue(Listing{}, field)
	return ok
}

// Sort returns a copy of listings ordered by field. Two strings compare with coll
// (byte order when nil); anything else compares numerically.
// Unknown fields return the copy in its original order.
func Sort(listings []Listing, field string, ascending bool, coll Collator) []Listing {
	out := make([]Listing, len(listings))
	copy(out, listings)
	if !IsSortField(field) {
		return out
	}
	slices.SortStableFunc(out, func(a, b Listing) int {
		c := compareValues(a, b, field, coll)
		if !ascending {
			return -c
		}
		return c
	})
	return out
}

func compareValues(a, b Listing, field string, coll Collator) int {
	va, _ := FieldValue(a, field)
	vb, _ := FieldValue(b, field)
	sa, aIsStr := va.(string)
	sb, bIsStr := vb.(string)
	if aIsStr && bIsStr {
		if coll == nil {
			return strings.Compare(sa, sb)
		}
		return coll.CompareString(sa, sb)
	}
	return cmp.Compare(numeric(va), numeric(vb))
}

func numeric(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}

// SortState is the table header's click contract: clicking the current field
// flips direction, clicking a new field sorts it ascending.
type SortState struct {
	Field     string `json:"field"`
	Ascending bool   `json:"ascending"`
}

// DefaultSortState sorts by daily volume, highest first.
func DefaultSortState() SortState {
	return SortState{Field: DefaultSortField, Ascending: false}
}

// Toggle applies a header click on field and returns the new state.
func (s SortState) Toggle(field string) SortState {
	if field == s.Field {
		return SortState{Field: field, Ascending: !s.Ascending}
	}
	return SortState{Field: field, Ascending: true}
}

// Apply sorts listings by the current state.
func (s SortState) Apply(listings []Listing, coll Collator) []Listing {
	return Sort(listings, s.Field, s.Ascending, coll)
}
