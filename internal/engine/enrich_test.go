package engine

import (
	"encoding/json"
	"testing"
	"time"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type fakeNames map[string]string

func (f fakeNames) Resolve(id string) string {
	if n, ok := f[id]; ok {
		return n
	}
	return id
}

func (f fakeNames) QualityName(q int) string {
	if q == 2 {
		return "Good"
	}
	return "Unknown"
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"zero", time.Time{}, NoData},
		{"epoch", time.Unix(0, 0).UTC(), NoData},
		{"minutes", testNow.Add(-30 * time.Minute), "30 min ago"},
		{"just now", testNow, "0 min ago"},
		{"future clamps", testNow.Add(time.Minute), "0 min ago"},
		{"hours", testNow.Add(-5*time.Hour - 59*time.Minute), "5 h ago"},
		{"days", testNow.Add(-3 * 24 * time.Hour), "3 d ago"},
		{"date", time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC), "30.4.2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAge(tt.at, testNow); got != tt.want {
				t.Errorf("FormatAge = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnrich(t *testing.T) {
	spd := 42.0
	raw := []RouteListing{{
		From: RawQuote{ItemID: "T4_BAG@1", Quality: 2, Location: "Caerleon", SellPriceMin: 100,
			SellPriceMinDate: Timestamp{testNow.Add(-2 * time.Hour)}},
		To: RawQuote{ItemID: "T4_BAG@1", Quality: 2, Location: "Black Market", SellPriceMin: 200,
			SellPriceMinDate: Timestamp{testNow.Add(-10 * time.Minute)}, AverageItems: &spd},
	}}
	got := Enrich(raw, DefaultTax(false), fakeNames{"T4_BAG@1": "Bag"}, testNow)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	l := got[0]
	if l.ItemName != "Bag" || l.QualityName != "Good" {
		t.Errorf("name = %q quality = %q", l.ItemName, l.QualityName)
	}
	if l.ItemProfit != 76 || l.SoldPerDay != 42 {
		t.Errorf("itemProfit = %v soldPerDay = %v, want 76 / 42", l.ItemProfit, l.SoldPerDay)
	}
	if l.FromLocation != "Caerleon" || l.ToLocation != "Black Market" {
		t.Errorf("locations = %q -> %q", l.FromLocation, l.ToLocation)
	}
	if l.BuyDate != "2 h ago" || l.SellDate != "10 min ago" {
		t.Errorf("dates = %q / %q", l.BuyDate, l.SellDate)
	}
}

func TestEnrich_Defaults(t *testing.T) {
	raw := []RouteListing{{From: RawQuote{ItemID: "T5_CAPE"}, To: RawQuote{}}}
	l := Enrich(raw, DefaultTax(false), nil, testNow)[0]
	if l.ItemName != "T5_CAPE" {
		t.Errorf("nil resolver name = %q, want raw id", l.ItemName)
	}
	if l.FromLocation != Unknown || l.ToLocation != Unknown || l.QualityName != Unknown {
		t.Errorf("unknown strings = %q %q %q, want %q", l.FromLocation, l.ToLocation, l.QualityName, Unknown)
	}
	if l.SoldPerDay != 0 || l.BuyDate != NoData {
		t.Errorf("soldPerDay = %v buyDate = %q", l.SoldPerDay, l.BuyDate)
	}
}

func TestRouteListing_DecodesUpstreamJSON(t *testing.T) {
	body := `[{"from":{"itemId":"T4_BAG","quality":1,"location":"Caerleon","sellPriceMin":100,
		"sellPriceMinDate":"2024-05-01T10:00:00"},
		"to":{"itemId":"T4_BAG","quality":1,"location":"Black Market","sellPriceMin":250,
		"sellPriceMinDate":"0001-01-01T00:00:00","averageItems":null}}]`
	var got []RouteListing
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if !got[0].From.SellPriceMinDate.Equal(want) {
		t.Errorf("from date = %v, want %v", got[0].From.SellPriceMinDate.Time, want)
	}
	if !got[0].To.SellPriceMinDate.IsZero() {
		t.Errorf("to date = %v, want zero", got[0].To.SellPriceMinDate.Time)
	}
	if got[0].To.AverageItems != nil {
		t.Error("null averageItems should stay nil")
	}
}
