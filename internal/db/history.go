package db

import (
	"time"
)

// FetchRecord is one completed listing fetch.
type FetchRecord struct {
	ID           int64   `json:"id"`
	Ticket       string  `json:"ticket"`
	Timestamp    string  `json:"timestamp"`
	FromLocation string  `json:"from_location"`
	ToLocation   string  `json:"to_location"`
	SortType     string  `json:"sort_type"`
	Count        int     `json:"count"`
	TopProfit    float64 `json:"top_profit"`
	Premium      bool    `json:"premium"`
	DurationMs   int64   `json:"duration_ms"`
}

// InsertFetch records a fetch and returns its ID (0 on failure).
func (d *DB) InsertFetch(r FetchRecord) int64 {
	if r.Timestamp == "" {
		r.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	result, err := d.sql.Exec(
		`INSERT INTO fetch_history (ticket, timestamp, from_location, to_location, sort_type, count, top_profit, premium, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Ticket, r.Timestamp, r.FromLocation, r.ToLocation, r.SortType, r.Count, r.TopProfit, r.Premium, r.DurationMs,
	)
	if err != nil {
		return 0
	}
	id, _ := result.LastInsertId()
	return id
}

// GetFetches returns the last limit fetches, newest first.
func (d *DB) GetFetches(limit int) []FetchRecord {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(
		`SELECT id, ticket, timestamp, from_location, to_location, sort_type, count, top_profit, premium, duration_ms
		 FROM fetch_history ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return []FetchRecord{}
	}
	defer rows.Close()

	records := []FetchRecord{}
	for rows.Next() {
		var r FetchRecord
		rows.Scan(&r.ID, &r.Ticket, &r.Timestamp, &r.FromLocation, &r.ToLocation, &r.SortType, &r.Count, &r.TopProfit, &r.Premium, &r.DurationMs)
		records = append(records, r)
	}
	return records
}

// DeleteFetch removes a fetch record and its stored results.
func (d *DB) DeleteFetch(id int64) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM fetch_results WHERE fetch_id = ?", id); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("DELETE FROM fetch_history WHERE id = ?", id); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// PruneFetches keeps only the newest keep fetches and their results.
func (d *DB) PruneFetches(keep int) (int64, error) {
	tx, err := d.sql.Begin()
	if err != nil {
		return 0, err
	}
	cutoff := "SELECT id FROM fetch_history ORDER BY id DESC LIMIT -1 OFFSET ?"
	if _, err := tx.Exec("DELETE FROM fetch_results WHERE fetch_id IN ("+cutoff+")", keep); err != nil {
		tx.Rollback()
		return 0, err
	}
	res, err := tx.Exec("DELETE FROM fetch_history WHERE id IN ("+cutoff+")", keep)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, tx.Commit()
}
