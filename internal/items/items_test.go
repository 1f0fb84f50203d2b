package items

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testTable() *Table {
	return NewTable([]Entry{
		{UniqueName: "T4_BAG", LocalizedNames: map[string]string{"RU-RU": "Сумка адепта", "EN-US": "Adept's Bag"}},
		{UniqueName: "T6_MAIN_SWORD@2", LocalizedNames: map[string]string{"RU-RU": "Меч мастера (зачарован)"}},
		{UniqueName: "T6_MAIN_SWORD", LocalizedNames: map[string]string{"RU-RU": "Меч мастера"}},
		{UniqueName: "T3_NO_RU", LocalizedNames: map[string]string{"EN-US": "Only English"}},
	}, "RU-RU")
}

func TestResolve_ExactMatchFirst(t *testing.T) {
	tb := testTable()
	if got := tb.Resolve("T6_MAIN_SWORD@2"); got != "Меч мастера (зачарован)" {
		t.Errorf("Resolve(exact) = %q", got)
	}
}

func TestResolve_FallsBackToCleanID(t *testing.T) {
	tb := testTable()
	if got := tb.Resolve("T4_BAG@3"); got != "Сумка адепта" {
		t.Errorf("Resolve(T4_BAG@3) = %q, want clean-id name", got)
	}
}

func TestResolve_UnknownReturnsRawID(t *testing.T) {
	tb := testTable()
	for _, id := range []string{"T8_UNKNOWN@1", "T3_NO_RU", ""} {
		if got := tb.Resolve(id); got != id {
			t.Errorf("Resolve(%q) = %q, want raw id", id, got)
		}
		if _, ok := tb.Lookup(id); ok {
			t.Errorf("Lookup(%q) ok = true, want false", id)
		}
	}
}

func TestResolve_NilTable(t *testing.T) {
	var tb *Table
	if got := tb.Resolve("T4_BAG"); got != "T4_BAG" {
		t.Errorf("nil table Resolve = %q", got)
	}
	if tb.Len() != 0 {
		t.Errorf("nil table Len = %d", tb.Len())
	}
}

func TestCleanID(t *testing.T) {
	cases := map[string]string{
		"T4_BAG@1":     "T4_BAG",
		"T4_BAG":       "T4_BAG",
		"T4_BAG@12":    "T4_BAG",
		"T4_B@G_X":     "T4_B@G_X",
		"T4_BAG@1@2":   "T4_BAG@1",
		"T4_BAG@":      "T4_BAG@",
		"T5_CAPE@3x":   "T5_CAPE@3x",
		"T8_2H_BOW@04": "T8_2H_BOW",
	}
	for in, want := range cases {
		if got := CleanID(in); got != want {
			t.Errorf("CleanID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name, raw, want string
	}{
		{"Bag", "T4_BAG@2", "Bag [4.2]"},
		{"Bag", "T4_BAG", "Bag [4.0]"},
		{"Rune", "RUNE@1", "Rune [?.1]"},
		{"", "T8_CAPE", "T8_CAPE [8.0]"},
		{"Sword", "T10_X@3", "Sword [10.3]"},
	}
	for _, c := range cases {
		if got := DisplayName(c.name, c.raw); got != c.want {
			t.Errorf("DisplayName(%q, %q) = %q, want %q", c.name, c.raw, got, c.want)
		}
	}
}

func TestQualityName(t *testing.T) {
	if QualityName(1) != "Normal" || QualityName(5) != "Masterpiece" {
		t.Errorf("QualityName(1)=%q QualityName(5)=%q", QualityName(1), QualityName(5))
	}
	if QualityName(0) != "Unknown" || QualityName(6) != "Unknown" {
		t.Error("out of range quality should be Unknown")
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	os.WriteFile(path, []byte("{not json"), 0644)
	if _, err := Load(path, "RU-RU"); err == nil {
		t.Fatal("Load of malformed json should fail")
	}
}

func TestLoadOrDownload_FetchesOnce(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`[{"UniqueName":"T4_BAG","LocalizedNames":{"RU-RU":"Сумка"}}]`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "data", "items.json")
	tb, err := LoadOrDownload(context.Background(), srv.URL, path, "RU-RU")
	if err != nil {
		t.Fatalf("LoadOrDownload: %v", err)
	}
	if tb.Len() != 1 || tb.Resolve("T4_BAG@1") != "Сумка" {
		t.Errorf("table = %d entries, resolve = %q", tb.Len(), tb.Resolve("T4_BAG@1"))
	}
	if _, err := LoadOrDownload(context.Background(), srv.URL, path, "RU-RU"); err != nil {
		t.Fatalf("second LoadOrDownload: %v", err)
	}
	if hits != 1 {
		t.Errorf("upstream hits = %d, want 1 (file cached on disk)", hits)
	}
}

func TestDownload_HTTPErrorLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "items.json")
	if err := Download(context.Background(), srv.URL, path); err == nil {
		t.Fatal("Download should fail on 404")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("items.json should not exist after failed download")
	}
}
