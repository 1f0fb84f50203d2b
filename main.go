package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"albion-flipper/internal/albion"
	"albion-flipper/internal/api"
	"albion-flipper/internal/config"
	"albion-flipper/internal/db"
	"albion-flipper/internal/engine"
	"albion-flipper/internal/export"
	"albion-flipper/internal/items"
	"albion-flipper/internal/logger"
	"albion-flipper/internal/scrape"
)

var version = "dev"

func main() {
	env := config.LoadEnv()

	port := flag.Int("port", env.Port, "HTTP server port")
	from := flag.String("from", "", "one-shot: origin market")
	to := flag.String("to", "", "one-shot: destination market")
	count := flag.Int("count", 0, "one-shot: number of listings (default: saved setting)")
	exportPath := flag.String("export", "", "one-shot: write listings to this .xlsx or .json file")
	scrapeURL := flag.String("scrape", "", "one-shot: scrape the rendered transportations page at this URL")
	flag.Parse()

	logger.Banner(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *scrapeURL != "" {
		if err := runScrape(ctx, *scrapeURL, *exportPath); err != nil {
			logger.Error("Scrape", err.Error())
			os.Exit(1)
		}
		return
	}

	os.MkdirAll(filepath.Dir(env.DBPath), 0755)
	database, err := db.Open(env.DBPath)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	cfg := database.LoadConfig()

	names, err := items.LoadOrDownload(ctx, env.ItemsURL, env.ItemsPath, env.Locale)
	if err != nil {
		logger.Warn("Items", fmt.Sprintf("Names unavailable, showing raw ids: %v", err))
		names = items.NewTable(nil, env.Locale)
	} else {
		logger.Success("Items", fmt.Sprintf("Loaded %d names (%s)", names.Len(), names.Locale()))
	}

	client := albion.NewClient(albion.Options{
		MarketAPI:  env.MarketAPI,
		DataAPI:    env.DataAPI,
		ServerID:   env.ServerID,
		RatePerSec: env.RatePerSec,
	})

	pipe := engine.NewPipeline(names, env.Locale)
	pipe.Restore(
		engine.ParseThresholds(cfg.MinProfit, cfg.MinProfitPercent, cfg.MinSoldPerDay),
		engine.SortState{Field: cfg.SortField, Ascending: cfg.SortAscending},
		cfg.PremiumTaxEnabled,
	)

	if *from != "" || *to != "" {
		if err := runFetch(ctx, client, pipe, cfg, *from, *to, *count, *exportPath); err != nil {
			logger.Error("Fetch", err.Error())
			os.Exit(1)
		}
		return
	}

	srv := api.NewServer(cfg, client, database, names, pipe)
	defer srv.Events().Close()

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Server(addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
}

// runFetch fetches one route, filters it with the saved thresholds, and prints
// or exports the result.
func runFetch(ctx context.Context, client *albion.Client, pipe *engine.Pipeline, cfg *config.Config, from, to string, count int, out string) error {
	if count <= 0 {
		count = cfg.ItemsCount
	}
	params := albion.TransportParams{From: from, To: to, Count: count, SortType: cfg.SortType}

	ticket := pipe.Begin()
	start := time.Now()
	raw, err := client.FetchTransportations(ctx, params)
	if err != nil {
		return err
	}
	if err := pipe.Apply(ticket, raw); err != nil {
		return err
	}
	snap := pipe.Snapshot()

	logger.Section(fmt.Sprintf("%s -> %s", from, to))
	logger.Stats("Listings", snap.Total)
	logger.Stats("After filters", len(snap.Listings))
	logger.Stats("Premium", snap.Premium)
	if len(snap.Listings) > 0 {
		best := snap.Listings[0]
		for _, l := range snap.Listings[1:] {
			if l.ItemProfit > best.ItemProfit {
				best = l
			}
		}
		logger.Stats("Best net profit", best.ItemProfit)
		logger.Stats("Best item", best.ItemName)
	}
	logger.Stats("Took", time.Since(start).Round(time.Millisecond).String())

	if out == "" {
		return nil
	}
	return writeExport(out, snap.Listings)
}

// runScrape reads the rendered page and writes the rows as JSON (or xlsx).
func runScrape(ctx context.Context, url, out string) error {
	if out == "" {
		return fmt.Errorf("-scrape needs -export <file.json|file.xlsx>")
	}
	rows, err := scrape.Page(ctx, url, scrape.Options{})
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(out), ".xlsx") {
		return writeExport(out, export.ListingsFromRows(rows))
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteJSON(f, rows); err != nil {
		return err
	}
	logger.Success("Export", fmt.Sprintf("Wrote %d rows to %s", len(rows), out))
	return nil
}

func writeExport(path string, listings []engine.Listing) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".json" {
		return fmt.Errorf("unsupported export format %q (use .xlsx or .json)", ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if ext == ".xlsx" {
		err = export.WriteXLSX(f, listings)
	} else {
		err = export.WriteJSON(f, export.RowsFromListings(listings))
	}
	if err != nil {
		return err
	}
	logger.Success("Export", fmt.Sprintf("Wrote %d listings to %s", len(listings), path))
	return nil
}
