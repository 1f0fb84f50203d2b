package db

import (
	"strconv"

	"albion-flipper/internal/config"
)

// LoadConfig reads the persisted settings. Missing keys keep their defaults.
func (d *DB) LoadConfig() *config.Config {
	cfg := config.Default()

	rows, err := d.sql.Query("SELECT key, value FROM config")
	if err != nil {
		return cfg
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		rows.Scan(&k, &v)
		m[k] = v
	}

	if v, ok := m["from_location"]; ok && v != "" {
		cfg.FromLocation = v
	}
	if v, ok := m["to_location"]; ok && v != "" {
		cfg.ToLocation = v
	}
	if v, ok := m["items_count"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ItemsCount = n
		}
	}
	if v, ok := m["sort_type"]; ok && v != "" {
		cfg.SortType = v
	}
	if v, ok := m["min_profit"]; ok {
		cfg.MinProfit = v
	}
	if v, ok := m["min_profit_percent"]; ok {
		cfg.MinProfitPercent = v
	}
	if v, ok := m["min_sold_per_day"]; ok {
		cfg.MinSoldPerDay = v
	}
	if v, ok := m["premium_tax_enabled"]; ok {
		cfg.PremiumTaxEnabled, _ = strconv.ParseBool(v)
	}
	if v, ok := m["sort_field"]; ok && v != "" {
		cfg.SortField = v
	}
	if v, ok := m["sort_ascending"]; ok {
		cfg.SortAscending, _ = strconv.ParseBool(v)
	}
	if v, ok := m["history_location"]; ok && v != "" {
		cfg.HistoryLocation = v
	}
	if v, ok := m["show_last_day_only"]; ok {
		cfg.ShowLastDayOnly, _ = strconv.ParseBool(v)
	}

	return cfg
}

// SaveConfig writes every setting (upsert).
func (d *DB) SaveConfig(cfg *config.Config) error {
	pairs := map[string]string{
		"from_location":       cfg.FromLocation,
		"to_location":         cfg.ToLocation,
		"items_count":         strconv.Itoa(cfg.ItemsCount),
		"sort_type":           cfg.SortType,
		"min_profit":          cfg.MinProfit,
		"min_profit_percent":  cfg.MinProfitPercent,
		"min_sold_per_day":    cfg.MinSoldPerDay,
		"premium_tax_enabled": strconv.FormatBool(cfg.PremiumTaxEnabled),
		"sort_field":          cfg.SortField,
		"sort_ascending":      strconv.FormatBool(cfg.SortAscending),
		"history_location":    cfg.HistoryLocation,
		"show_last_day_only":  strconv.FormatBool(cfg.ShowLastDayOnly),
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for k, v := range pairs {
		if _, err := stmt.Exec(k, v); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ClearFilters blanks the stored filter inputs, as the reset button does.
func (d *DB) ClearFilters() error {
	_, err := d.sql.Exec(
		"DELETE FROM config WHERE key IN ('min_profit', 'min_profit_percent', 'min_sold_per_day')",
	)
	return err
}
