package db

import (
	"log"
	"time"

	"albion-flipper/internal/engine"
	"albion-flipper/internal/items"
)

// InsertFetchResults bulk-inserts the listings a fetch produced.
func (d *DB) InsertFetchResults(fetchID int64, listings []engine.Listing) {
	if fetchID == 0 || len(listings) == 0 {
		return
	}

	tx, err := d.sql.Begin()
	if err != nil {
		log.Printf("[DB] InsertFetchResults begin tx: %v", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO fetch_results (
		fetch_id, item_id, item_name, quality,
		buy_price, sell_price, profit, profit_percent,
		item_profit, item_profit_percent, sold_per_day,
		from_location, to_location, buy_time, sell_time
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		log.Printf("[DB] InsertFetchResults prepare: %v", err)
		return
	}
	defer stmt.Close()

	for _, l := range listings {
		stmt.Exec(
			fetchID, l.ItemID, l.ItemName, l.Quality,
			l.BuyPrice, l.SellPrice, l.Profit, l.ProfitPercent,
			l.ItemProfit, l.ItemProfitPercent, l.SoldPerDay,
			l.FromLocation, l.ToLocation, formatTime(l.BuyTime), formatTime(l.SellTime),
		)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[DB] InsertFetchResults commit: %v", err)
	}
}

// GetFetchResults returns the listings stored for a fetch.
// Relative dates are recomputed against now.
func (d *DB) GetFetchResults(fetchID int64, now time.Time) []engine.Listing {
	rows, err := d.sql.Query(`
		SELECT item_id, item_name, quality,
			buy_price, sell_price, profit, profit_percent,
			item_profit, item_profit_percent, sold_per_day,
			from_location, to_location, buy_time, sell_time
		FROM fetch_results WHERE fetch_id = ? ORDER BY id
	`, fetchID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var results []engine.Listing
	for rows.Next() {
		var l engine.Listing
		var buyTime, sellTime string
		rows.Scan(
			&l.ItemID, &l.ItemName, &l.Quality,
			&l.BuyPrice, &l.SellPrice, &l.Profit, &l.ProfitPercent,
			&l.ItemProfit, &l.ItemProfitPercent, &l.SoldPerDay,
			&l.FromLocation, &l.ToLocation, &buyTime, &sellTime,
		)
		l.BuyTime = parseTime(buyTime)
		l.SellTime = parseTime(sellTime)
		l.BuyDate = engine.FormatAge(l.BuyTime, now)
		l.SellDate = engine.FormatAge(l.SellTime, now)
		l.QualityName = items.QualityName(l.Quality)
		results = append(results, l)
	}
	return results
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
