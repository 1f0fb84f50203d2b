package db

import (
	"time"
)

// Favorite is an item the user starred in the table.
type Favorite struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	AddedAt  string `json:"added_at"`
}

// GetFavorites returns all favourites, newest first.
func (d *DB) GetFavorites() []Favorite {
	rows, err := d.sql.Query("SELECT item_id, item_name, added_at FROM favorites ORDER BY added_at DESC, item_id")
	if err != nil {
		return []Favorite{}
	}
	defer rows.Close()

	items := []Favorite{}
	for rows.Next() {
		var f Favorite
		rows.Scan(&f.ItemID, &f.ItemName, &f.AddedAt)
		items = append(items, f)
	}
	return items
}

// IsFavorite reports whether itemID is starred.
func (d *DB) IsFavorite(itemID string) bool {
	var count int
	d.sql.QueryRow("SELECT COUNT(*) FROM favorites WHERE item_id = ?", itemID).Scan(&count)
	return count > 0
}

// FavoriteIDs returns the starred ids as a set.
func (d *DB) FavoriteIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, f := range d.GetFavorites() {
		ids[f.ItemID] = true
	}
	return ids
}

// AddFavorite stars an item. Returns false if it was already starred.
func (d *DB) AddFavorite(itemID, itemName string) bool {
	res, err := d.sql.Exec(
		"INSERT OR IGNORE INTO favorites (item_id, item_name, added_at) VALUES (?, ?, ?)",
		itemID, itemName, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

// DeleteFavorite unstars an item. Returns false if it was not starred.
func (d *DB) DeleteFavorite(itemID string) bool {
	res, err := d.sql.Exec("DELETE FROM favorites WHERE item_id = ?", itemID)
	if err != nil {
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}
