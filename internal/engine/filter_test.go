package engine

import (
	"slices"
	"testing"
)

func ids(ls []Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ItemID
	}
	return out
}

func filterFixture() []Listing {
	return []Listing{
		{ItemID: "A", ItemProfit: 100, ItemProfitPercent: 10, SoldPerDay: 5, BuyPrice: 1000},
		{ItemID: "B", ItemProfit: 50, ItemProfitPercent: 20, SoldPerDay: 0, BuyPrice: 250},
		{ItemID: "C", ItemProfit: -10, ItemProfitPercent: -1, SoldPerDay: 100, BuyPrice: 1000},
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		th   Thresholds
		want []string
	}{
		{"zero thresholds drop losses", Thresholds{}, []string{"A", "B"}},
		{"min profit", Thresholds{MinProfit: 60}, []string{"A"}},
		{"min percent", Thresholds{MinProfitPercent: 15}, []string{"B"}},
		{"min sold allows losses when bounds are negative",
			Thresholds{MinProfit: -100, MinProfitPercent: -100, MinSoldPerDay: 1}, []string{"A", "C"}},
		{"inclusive bounds", Thresholds{MinProfit: 50, MinProfitPercent: 10, MinSoldPerDay: 0}, []string{"A", "B"}},
		{"nothing passes", Thresholds{MinProfit: 1e9}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(filterFixture(), tt.th))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Filter(%+v) = %v, want %v", tt.th, got, tt.want)
			}
		})
	}
}

func TestFilter_NotCumulative(t *testing.T) {
	all := filterFixture()
	strict := Filter(all, Thresholds{MinProfit: 60})
	if len(strict) != 1 {
		t.Fatalf("strict filter = %v", ids(strict))
	}
	loose := Filter(all, Thresholds{MinProfit: 0})
	if !slices.Equal(ids(loose), []string{"A", "B"}) {
		t.Errorf("re-filter from the full set = %v, want [A B]", ids(loose))
	}
}

func TestParseThreshold(t *testing.T) {
	tests := map[string]float64{
		"":      0,
		"   ":   0,
		"abc":   0,
		"NaN":   0,
		"Inf":   0,
		"12.5":  12.5,
		"1,5":   1.5,
		" 7 ":   7,
		"-20":   -20,
		"1000":  1000,
		"12abc": 0,
	}
	for in, want := range tests {
		if got := ParseThreshold(in); got != want {
			t.Errorf("ParseThreshold(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseThresholds(t *testing.T) {
	got := ParseThresholds("100", "", "x")
	want := Thresholds{MinProfit: 100}
	if got != want {
		t.Errorf("ParseThresholds = %+v, want %+v", got, want)
	}
}

func TestFilterRanges(t *testing.T) {
	lo, hi := 300.0, 1000.0
	got := FilterRanges(filterFixture(), []Range{{Field: "buyPrice", Min: &lo, Max: &hi}})
	if !slices.Equal(ids(got), []string{"A", "C"}) {
		t.Errorf("buyPrice in [300,1000] = %v, want [A C]", ids(got))
	}

	maxSold := 50.0
	got = FilterRanges(filterFixture(), []Range{
		{Field: "buyPrice", Min: &lo},
		{Field: "soldPerDay", Max: &maxSold},
	})
	if !slices.Equal(ids(got), []string{"A"}) {
		t.Errorf("combined ranges = %v, want [A]", ids(got))
	}

	got = FilterRanges(filterFixture(), []Range{{Field: "itemName", Min: &lo}, {Field: "nope", Max: &lo}})
	if len(got) != 3 {
		t.Errorf("ranges on text/unknown fields should be ignored, got %v", ids(got))
	}
}
