package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"albion-flipper/internal/engine"
)

func sampleListings() []engine.Listing {
	return []engine.Listing{
		{
			ItemID: "T4_BAG", ItemName: "Adept's Bag", Quality: 2, QualityName: "Good",
			BuyPrice: 100, SellPrice: 200, Profit: 100, ProfitPercent: 100,
			ItemProfit: 76, ItemProfitPercent: 76, SoldPerDay: 12,
			FromLocation: "Caerleon", ToLocation: "Black Market", BuyDate: "2 h ago", SellDate: "5 min ago",
		},
		{
			ItemID: "T6_CAPE@1", ItemName: "Master's Cape", Quality: 1, QualityName: "Normal",
			BuyPrice: 1500.5, SellPrice: 1400, Profit: -100.5, ProfitPercent: -6.7,
			ItemProfit: -250, ItemProfitPercent: -16.66, SoldPerDay: 0.5,
			FromLocation: "Lymhurst", ToLocation: "Martlock", BuyDate: "no data", SellDate: "3 d ago",
		},
	}
}

func TestNumber_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`"1500"`, 1500},
		{`1500`, 1500},
		{`"12,5"`, 12.5},
		{`-3.25`, -3.25},
		{`"abc"`, 0},
		{`""`, 0},
		{`null`, 0},
		{`"NaN"`, 0},
		{`"Inf"`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n Number
			if err := json.Unmarshal([]byte(tt.in), &n); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if float64(n) != tt.want {
				t.Errorf("Number(%s) = %v, want %v", tt.in, float64(n), tt.want)
			}
		})
	}
}

func TestNumber_MarshalAsString(t *testing.T) {
	b, _ := json.Marshal(Number(1500.5))
	if string(b) != `"1500.5"` {
		t.Errorf("Marshal = %s, want \"1500.5\"", b)
	}
	b, _ = json.Marshal(Number(76))
	if string(b) != `"76"` {
		t.Errorf("Marshal = %s, want \"76\"", b)
	}
}

func TestRowsFromListings(t *testing.T) {
	rows := RowsFromListings(sampleListings())
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	r := rows[0]
	if r.Title != "Adept's Bag" || r.Image != IconBase+"T4_BAG.png" {
		t.Errorf("title/image = %q / %q", r.Title, r.Image)
	}
	// Exported profit columns are the net values, not the gross spread.
	if r.Profit != 76 || r.ProfitPercent != 76 {
		t.Errorf("profit = %v / %v, want 76 / 76", r.Profit, r.ProfitPercent)
	}
	if r.BuyTimeAgo != "2 h ago" || r.SellTimeAgo != "5 min ago" {
		t.Errorf("dates = %q / %q", r.BuyTimeAgo, r.SellTimeAgo)
	}

	unknown := RowsFromListings([]engine.Listing{{ItemID: engine.Unknown}})
	if unknown[0].Image != "" {
		t.Errorf("image for unknown id = %q, want empty", unknown[0].Image)
	}
}

func TestListingsFromRows(t *testing.T) {
	rows := []Row{
		{
			Title: "Adept's Bag", Image: IconBase + "T4_BAG.png?quality=2",
			BuyPrice: 100, SellPrice: 200, Profit: 76, ProfitPercent: 76, SoldPerDay: 12,
			FromLocation: "Caerleon", ToLocation: "Black Market", BuyTimeAgo: "2 h ago",
		},
		{},
	}
	got := ListingsFromRows(rows)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	l := got[0]
	if l.ItemID != "T4_BAG" {
		t.Errorf("ItemID = %q, want T4_BAG", l.ItemID)
	}
	// gross = 200 - 100 = 100, 100/100 = 100%
	if l.Profit != 100 || l.ProfitPercent != 100 {
		t.Errorf("gross = %v / %v, want 100 / 100", l.Profit, l.ProfitPercent)
	}
	if l.ItemProfit != 76 || l.SoldPerDay != 12 {
		t.Errorf("net/sold = %v / %v", l.ItemProfit, l.SoldPerDay)
	}
	if l.SellDate != engine.Unknown {
		t.Errorf("missing SellDate = %q, want %q", l.SellDate, engine.Unknown)
	}

	empty := got[1]
	if empty.ItemID != engine.Unknown || empty.ItemName != engine.Unknown || empty.ProfitPercent != 0 {
		t.Errorf("empty row = %+v", empty)
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, RowsFromListings(sampleListings())); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"buyPrice": "1500.5"`) {
		t.Errorf("numbers should be written as strings:\n%s", buf.String())
	}

	rows, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	got := ListingsFromRows(rows)
	want := sampleListings()
	for i := range want {
		if got[i].ItemID != want[i].ItemID || got[i].ItemProfit != want[i].ItemProfit ||
			got[i].BuyPrice != want[i].BuyPrice || got[i].SoldPerDay != want[i].SoldPerDay {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadJSON_Invalid(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader(`{"title":`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleListings()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Item" || rows[0][len(xlsxColumns)-1] != "Sold per day" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "T4_BAG" || rows[2][3] != "Lymhurst" {
		t.Errorf("data rows = %v / %v", rows[1], rows[2])
	}

	raw, err := f.GetCellValue(SheetName, "L2", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if raw != "76" {
		t.Errorf("net profit cell = %q, want 76", raw)
	}
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, nil); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(SheetName)
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}
