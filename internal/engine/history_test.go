package engine

import (
	"testing"
	"time"
)

func point(ago time.Duration, avg, count float64) HistoryPoint {
	return HistoryPoint{Timestamp: Timestamp{testNow.Add(-ago)}, AvgPrice: avg, ItemCount: count}
}

func historyFixture() []HistorySeries {
	return []HistorySeries{
		{Quality: 3, Data: []HistoryPoint{point(time.Hour, 50, 2)}},
		{Quality: 1, Data: []HistoryPoint{
			point(2*time.Hour, 101, 3),
			point(30*time.Hour, 200, 1),
			point(time.Hour, 0, 99), // no price
		}},
		{Quality: 2},
	}
}

func TestSeriesStats(t *testing.T) {
	got := SeriesStats(historyFixture()[1], testNow)
	// (101*3 + 200*1) / 4 = 125.75 -> 125
	want := PriceStats{Quality: 1, AvgPrice: 125, MinPrice: 101, MaxPrice: 200, TotalSales: 4, Last24hSales: 3}
	if got != want {
		t.Errorf("SeriesStats = %+v, want %+v", got, want)
	}
}

func TestSeriesStats_Empty(t *testing.T) {
	got := SeriesStats(HistorySeries{Quality: 2}, testNow)
	if got != (PriceStats{Quality: 2}) {
		t.Errorf("empty series stats = %+v, want zeros", got)
	}
	onlyZero := HistorySeries{Data: []HistoryPoint{point(time.Hour, 0, 10), point(time.Hour, -3, 1)}}
	if got := SeriesStats(onlyZero, testNow); got.MinPrice != 0 || got.TotalSales != 0 {
		t.Errorf("non-positive prices should be ignored, got %+v", got)
	}
}

func TestSeriesStats_DayWindowIsInclusive(t *testing.T) {
	s := HistorySeries{Data: []HistoryPoint{
		point(DayWindow, 10, 5),
		point(DayWindow+time.Millisecond, 10, 7),
	}}
	if got := SeriesStats(s, testNow).Last24hSales; got != 5 {
		t.Errorf("Last24hSales = %v, want 5 (boundary point counted, older excluded)", got)
	}
}

func TestQualityStats_OrderedAndSkipsEmpty(t *testing.T) {
	got := QualityStats(historyFixture(), testNow)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Quality != 1 || got[1].Quality != 3 {
		t.Errorf("qualities = %d, %d; want 1, 3", got[0].Quality, got[1].Quality)
	}
}

func TestHeadlineStats_FirstSeriesOnly(t *testing.T) {
	series := historyFixture()[1:] // quality 1 first
	got := HeadlineStats(series)
	// (101*3 + 200*1 + 0*99) / 103 = 4.88... -> 4; min skips the 0 price
	want := PriceStats{Quality: 1, AvgPrice: 4, MinPrice: 101, MaxPrice: 200, TotalSales: 103}
	if got != want {
		t.Errorf("HeadlineStats = %+v, want %+v", got, want)
	}
	if got := HeadlineStats(nil); got != (PriceStats{}) {
		t.Errorf("HeadlineStats(nil) = %+v", got)
	}
	if got := HeadlineStats([]HistorySeries{{Quality: 2}}); got != (PriceStats{}) {
		t.Errorf("HeadlineStats(empty first) = %+v", got)
	}
}

func TestTotalSales(t *testing.T) {
	total, last := TotalSales(historyFixture(), testNow)
	// q3: 2 (1h); q1: 3 (2h) + 1 (30h) + 99 (1h)
	if total != 105 || last != 104 {
		t.Errorf("TotalSales = %v, %v; want 105, 104", total, last)
	}
	if total, last := TotalSales(nil, testNow); total != 0 || last != 0 {
		t.Errorf("TotalSales(nil) = %v, %v", total, last)
	}
}

func TestLastDayOnly(t *testing.T) {
	in := historyFixture()
	got := LastDayOnly(in, testNow)
	if len(got) != 2 {
		t.Fatalf("series = %d, want 2", len(got))
	}
	if len(got[1].Data) != 2 {
		t.Errorf("quality 1 points = %d, want 2", len(got[1].Data))
	}
	if len(in[1].Data) != 3 {
		t.Error("input series was modified")
	}
}
