package config

// Config holds the analyser's UI settings (in-memory representation).
// Persistence is handled by internal/db package.
type Config struct {
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
	ItemsCount   int    `json:"items_count"`
	SortType     string `json:"sort_type"` // upstream sort hint, e.g. BY_PROFIT

	// Filter inputs are kept as typed; unparsable values mean "no filter".
	MinProfit        string `json:"min_profit"`
	MinProfitPercent string `json:"min_profit_percent"`
	MinSoldPerDay    string `json:"min_sold_per_day"`

	PremiumTaxEnabled bool   `json:"premium_tax_enabled"`
	SortField         string `json:"sort_field"`
	SortAscending     bool   `json:"sort_ascending"`

	// Price-history panel.
	HistoryLocation string `json:"history_location"`
	ShowLastDayOnly bool   `json:"show_last_day_only"`
}

// Locations lists the markets the listing source knows about.
var Locations = []string{
	"Caerleon",
	"Bridgewatch",
	"Lymhurst",
	"Martlock",
	"Fort Sterling",
	"Thetford",
	"Brecilien",
	"Black Market",
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		FromLocation:    "Caerleon",
		ToLocation:      "Black Market",
		ItemsCount:      100,
		SortType:        "BY_PROFIT",
		SortField:       "soldPerDay",
		SortAscending:   false,
		HistoryLocation: "Black Market",
	}
}

// IsKnownLocation reports whether name is one of Locations.
func IsKnownLocation(name string) bool {
	for _, l := range Locations {
		if l == name {
			return true
		}
	}
	return false
}
