package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// Fee and tax rates of the in-game marketplace.
const (
	MarketFeeRate   = 0.025 // order placement, charged on both legs
	NormalSalesTax  = 0.08
	PremiumSalesTax = 0.04
)

// TaxConfig selects the rates for one profit computation.
// Premium is threaded explicitly into every call; nothing caches derived profit.
type TaxConfig struct {
	MarketFeeRate   float64
	NormalSalesTax  float64
	PremiumSalesTax float64
	Premium         bool
}

// DefaultTax returns the game's rates with the given premium state.
func DefaultTax(premium bool) TaxConfig {
	return TaxConfig{
		MarketFeeRate:   MarketFeeRate,
		NormalSalesTax:  NormalSalesTax,
		PremiumSalesTax: PremiumSalesTax,
		Premium:         premium,
	}
}

// SalesTaxRate returns the rate selected by Premium.
func (t TaxConfig) SalesTaxRate() float64 {
	if t.Premium {
		return t.PremiumSalesTax
	}
	return t.NormalSalesTax
}

// Profit is the full fee breakdown for one route.
type Profit struct {
	BuyPrice          float64 `json:"buyPrice"`
	SellPrice         float64 `json:"sellPrice"`
	Profit            float64 `json:"profit"`
	ProfitPercent     float64 `json:"profitPercent"`
	SellOrderFee      float64 `json:"sellOrderFee"`
	BuyOrderFee       float64 `json:"buyOrderFee"`
	SalesTax          float64 `json:"salesTax"`
	ItemProfit        float64 `json:"itemProfit"`
	ItemProfitPercent float64 `json:"itemProfitPercent"`
}

// ComputeProfit derives gross and net profit for buying at from and selling at to.
// Fees and tax are rounded up to whole silver. Percentages are 0 when the buy price is 0.
// Negative profit is returned as is.
func ComputeProfit(from, to RawQuote, tax TaxConfig) Profit {
	buy := sanitizePrice(from.SellPriceMin)
	sell := sanitizePrice(to.SellPriceMin)

	p := Profit{
		BuyPrice:     buy,
		SellPrice:    sell,
		Profit:       sell - buy,
		SellOrderFee: ceilProduct(sell, tax.MarketFeeRate),
		BuyOrderFee:  ceilProduct(buy, tax.MarketFeeRate),
		SalesTax:     ceilProduct(sell, tax.SalesTaxRate()),
	}
	p.ItemProfit = sell - p.SellOrderFee - p.SalesTax - buy - p.BuyOrderFee
	p.ProfitPercent = percentOf(p.Profit, buy)
	p.ItemProfitPercent = percentOf(p.ItemProfit, buy)
	return p
}

// ceilProduct returns ceil(price*rate) evaluated on the exact decimal product,
// so 100*0.025 rounds to 3 and 200*0.08 stays 16.
func ceilProduct(price, rate float64) float64 {
	v, _ := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(rate)).Ceil().Float64()
	return v
}

func percentOf(v, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return v / base * 100
}

// SoldPerDay returns the destination's daily volume, 0 when absent or not a usable number.
func SoldPerDay(q RawQuote) float64 {
	if q.AverageItems == nil {
		return 0
	}
	v := *q.AverageItems
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func sanitizePrice(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
