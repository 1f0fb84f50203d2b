package engine

import (
	"math"
	"testing"
)

func quote(price float64) RawQuote {
	return RawQuote{ItemID: "T4_BAG", Quality: 1, SellPriceMin: price}
}

func TestComputeProfit_Examples(t *testing.T) {
	tests := []struct {
		name    string
		buy     float64
		sell    float64
		premium bool
		want    Profit
	}{
		// sellFee=ceil(5)=5, buyFee=ceil(2.5)=3, tax=ceil(16)=16 -> 200-5-16-100-3 = 76
		{"normal", 100, 200, false, Profit{
			BuyPrice: 100, SellPrice: 200, Profit: 100, ProfitPercent: 100,
			SellOrderFee: 5, BuyOrderFee: 3, SalesTax: 16, ItemProfit: 76, ItemProfitPercent: 76,
		}},
		// tax=ceil(8)=8 -> 200-5-8-100-3 = 84
		{"premium", 100, 200, true, Profit{
			BuyPrice: 100, SellPrice: 200, Profit: 100, ProfitPercent: 100,
			SellOrderFee: 5, BuyOrderFee: 3, SalesTax: 8, ItemProfit: 84, ItemProfitPercent: 84,
		}},
		// 50 - ceil(1.25) - ceil(4) - 0 - 0 = 44, percentages guarded
		{"zero buy price", 0, 50, false, Profit{
			BuyPrice: 0, SellPrice: 50, Profit: 50, ProfitPercent: 0,
			SellOrderFee: 2, BuyOrderFee: 0, SalesTax: 4, ItemProfit: 44, ItemProfitPercent: 0,
		}},
		// 900 - ceil(22.5) - ceil(72) - 1000 - ceil(25) = -220
		{"loss preserved", 1000, 900, false, Profit{
			BuyPrice: 1000, SellPrice: 900, Profit: -100, ProfitPercent: -10,
			SellOrderFee: 23, BuyOrderFee: 25, SalesTax: 72, ItemProfit: -220, ItemProfitPercent: -22,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProfit(quote(tt.buy), quote(tt.sell), DefaultTax(tt.premium))
			if got != tt.want {
				t.Errorf("ComputeProfit(%v, %v, premium=%v) =\n  %+v\nwant\n  %+v", tt.buy, tt.sell, tt.premium, got, tt.want)
			}
		})
	}
}

func TestComputeProfit_NetNeverExceedsGross(t *testing.T) {
	prices := []float64{0, 1, 7, 40, 99, 100, 1234, 5000, 99999}
	for _, premium := range []bool{false, true} {
		for _, buy := range prices {
			for _, sell := range prices {
				p := ComputeProfit(quote(buy), quote(sell), DefaultTax(premium))
				if p.ItemProfit > p.Profit {
					t.Errorf("buy=%v sell=%v premium=%v: itemProfit %v > profit %v", buy, sell, premium, p.ItemProfit, p.Profit)
				}
			}
		}
	}
}

func TestComputeProfit_ZeroBuyPriceGuardsPercents(t *testing.T) {
	for _, sell := range []float64{0, 1, 50, 1e6} {
		p := ComputeProfit(quote(0), quote(sell), DefaultTax(false))
		if p.ProfitPercent != 0 || p.ItemProfitPercent != 0 {
			t.Errorf("sell=%v: percents = %v / %v, want 0 / 0", sell, p.ProfitPercent, p.ItemProfitPercent)
		}
	}
}

func TestComputeProfit_BadPricesAreZero(t *testing.T) {
	p := ComputeProfit(quote(math.NaN()), quote(-5), DefaultTax(false))
	if p.BuyPrice != 0 || p.SellPrice != 0 || p.ItemProfit != 0 {
		t.Errorf("non-finite/negative prices should be treated as 0, got %+v", p)
	}
}

func TestCeilProduct_UsesExactDecimal(t *testing.T) {
	tests := []struct {
		price, rate, want float64
	}{
		{100, 0.025, 3},   // 2.5
		{40, 0.025, 1},    // exactly 1
		{100, 0.07, 7},    // float64 gives 7.000000000000001
		{1234, 0.025, 31}, // 30.85
		{0, 0.08, 0},
	}
	for _, tt := range tests {
		if got := ceilProduct(tt.price, tt.rate); got != tt.want {
			t.Errorf("ceilProduct(%v, %v) = %v, want %v", tt.price, tt.rate, got, tt.want)
		}
	}
}

func TestSalesTaxRate(t *testing.T) {
	if r := DefaultTax(false).SalesTaxRate(); r != 0.08 {
		t.Errorf("normal rate = %v, want 0.08", r)
	}
	if r := DefaultTax(true).SalesTaxRate(); r != 0.04 {
		t.Errorf("premium rate = %v, want 0.04", r)
	}
}

func TestSoldPerDay_Defaults(t *testing.T) {
	v := 12.5
	nan := math.NaN()
	tests := []struct {
		name string
		in   *float64
		want float64
	}{
		{"absent", nil, 0},
		{"nan", &nan, 0},
		{"value", &v, 12.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SoldPerDay(RawQuote{AverageItems: tt.in}); got != tt.want {
				t.Errorf("SoldPerDay = %v, want %v", got, tt.want)
			}
		})
	}
}
