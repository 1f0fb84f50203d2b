package items

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	enchantSuffix = regexp.MustCompile(`@(\d+)$`)
	tierPrefix    = regexp.MustCompile(`^T(\d+)_`)
)

// Entry mirrors one record of items.json.
type Entry struct {
	UniqueName     string            `json:"UniqueName"`
	LocalizedNames map[string]string `json:"LocalizedNames"`
}

// Table is a read-only id -> localised name index built once at startup.
type Table struct {
	locale string
	names  map[string]string // UniqueName -> name in locale
}

// NewTable indexes entries for the given locale (e.g. "RU-RU").
// Entries without a name in that locale are skipped.
func NewTable(entries []Entry, locale string) *Table {
	t := &Table{locale: locale, names: make(map[string]string, len(entries))}
	for _, e := range entries {
		if e.UniqueName == "" {
			continue
		}
		if _, dup := t.names[e.UniqueName]; dup {
			continue
		}
		if name := e.LocalizedNames[locale]; name != "" {
			t.names[e.UniqueName] = name
		}
	}
	return t
}

// Load reads and indexes an items.json file.
func Load(path, locale string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open items: %w", err)
	}
	defer f.Close()

	var entries []Entry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	return NewTable(entries, locale), nil
}

// Len returns the number of resolvable ids.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Locale returns the locale the table was built for.
func (t *Table) Locale() string {
	if t == nil {
		return ""
	}
	return t.locale
}

// Lookup resolves rawID, trying the exact id first and then the id without
// its @N enchantment suffix.
func (t *Table) Lookup(rawID string) (string, bool) {
	if t == nil {
		return "", false
	}
	if name, ok := t.names[rawID]; ok {
		return name, true
	}
	clean := CleanID(rawID)
	if clean != rawID {
		if name, ok := t.names[clean]; ok {
			return name, true
		}
	}
	return "", false
}

// Resolve returns the localised name, or rawID unchanged when it is unknown.
func (t *Table) Resolve(rawID string) string {
	if name, ok := t.Lookup(rawID); ok {
		return name
	}
	return rawID
}

// CleanID strips a trailing @N enchantment suffix.
func CleanID(rawID string) string {
	return enchantSuffix.ReplaceAllString(rawID, "")
}

// TierEnchant extracts tier and enchantment from a raw id.
// Tier is "?" and enchant "0" when absent.
func TierEnchant(rawID string) (tier, enchant string) {
	tier, enchant = "?", "0"
	if m := tierPrefix.FindStringSubmatch(rawID); m != nil {
		tier = m[1]
	}
	if m := enchantSuffix.FindStringSubmatch(rawID); m != nil {
		enchant = m[1]
	}
	return tier, enchant
}

// DisplayName renders "<name> [<tier>.<enchant>]" for the table view.
// The raw id itself is never modified.
func DisplayName(name, rawID string) string {
	if strings.TrimSpace(name) == "" {
		name = rawID
	}
	tier, enchant := TierEnchant(rawID)
	return fmt.Sprintf("%s [%s.%s]", name, tier, enchant)
}

// QualityName lets a Table label qualities alongside names.
func (t *Table) QualityName(q int) string {
	return QualityName(q)
}

var qualityNames = map[int]string{
	1: "Normal",
	2: "Good",
	3: "Outstanding",
	4: "Excellent",
	5: "Masterpiece",
}

// QualityName returns the in-game label for quality 1-5.
func QualityName(q int) string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return "Unknown"
}
