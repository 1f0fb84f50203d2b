// Package scrape reads the rendered transportations table of the listing site
// with a headless browser and turns it into export rows.
package scrape

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"albion-flipper/internal/engine"
	"albion-flipper/internal/export"
	"albion-flipper/internal/logger"
)

// Options controls the browser session.
type Options struct {
	ChromePath string        // empty: CHROME_BIN, then well-known locations
	Timeout    time.Duration // whole scrape, default 90s
	Settle     time.Duration // wait after the table appears, default 3s
}

// card is the raw text of one rendered listing.
type card struct {
	Title         string `json:"title"`
	Image         string `json:"image"`
	BuyPrice      string `json:"buyPrice"`
	BuyDate       string `json:"buyDate"`
	SellPrice     string `json:"sellPrice"`
	SellDate      string `json:"sellDate"`
	From          string `json:"from"`
	To            string `json:"to"`
	Profit        string `json:"profit"`
	ProfitPercent string `json:"profitPercent"`
	SoldPerDay    string `json:"soldPerDay"`
}

const extractJS = `
(function() {
	var out = [];
	var text = function(el) { return el ? el.textContent.trim() : ''; };
	document.querySelectorAll('.items .wrapper').forEach(function(w) {
		var prices = w.querySelectorAll('.price-with-date');
		var locs = w.querySelectorAll('.inputs-grid > span');
		var img = w.querySelector('.image-without-number');
		out.push({
			title:         text(w.querySelector('.title')),
			image:         img && img.src ? img.src : '',
			buyPrice:      text(prices[0] && prices[0].querySelector('span:first-child')),
			buyDate:       text(prices[0] && prices[0].querySelector('.date')),
			sellPrice:     text(prices[1] && prices[1].querySelector('span:first-child')),
			sellDate:      text(prices[1] && prices[1].querySelector('.date')),
			from:          text(locs[0]),
			to:            text(locs[1]),
			profit:        text(w.querySelector('.profit-real')),
			profitPercent: text(w.querySelector('.profit-percents')),
			soldPerDay:    text(w.querySelector('.sold-per-day'))
		});
	});
	return out;
})()
`

// Page loads url and returns one row per rendered listing.
func Page(ctx context.Context, url string, opts Options) ([]export.Row, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 90 * time.Second
	}
	if opts.Settle <= 0 {
		opts.Settle = 3 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	bin := opts.ChromePath
	if bin == "" {
		bin = findChromeBinary()
	}
	if bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()
	runCtx, cancel := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	logger.Info("Scrape", fmt.Sprintf("Loading %s", url))
	var cards []card
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(".items .wrapper", chromedp.ByQuery),
		chromedp.Sleep(opts.Settle),
		chromedp.Evaluate(extractJS, &cards),
	)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", url, err)
	}

	rows := make([]export.Row, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, c.row())
	}
	logger.Success("Scrape", fmt.Sprintf("Read %d listings", len(rows)))
	return rows, nil
}

func (c card) row() export.Row {
	return export.Row{
		Title:         orUnknown(c.Title),
		Image:         c.Image,
		BuyPrice:      number(c.BuyPrice),
		BuyTimeAgo:    c.BuyDate,
		SellPrice:     number(c.SellPrice),
		SellTimeAgo:   c.SellDate,
		FromLocation:  orUnknown(c.From),
		ToLocation:    orUnknown(c.To),
		Profit:        number(c.Profit),
		ProfitPercent: number(c.ProfitPercent),
		SoldPerDay:    number(c.SoldPerDay),
	}
}

// CleanNumber strips everything but digits, separators and a leading minus
// from a rendered number ("1 234,5 silver" -> "1234.5", "-12%" -> "-12").
// Commas become decimal points.
func CleanNumber(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ',':
			b.WriteByte('.')
		case (r == '-' || r == '−') && b.Len() == 0 && i < len(s)-1:
			b.WriteByte('-')
		}
	}
	return b.String()
}

func number(s string) export.Number {
	return export.Number(engine.ParseThreshold(CleanNumber(s)))
}

func orUnknown(s string) string {
	if s == "" {
		return engine.Unknown
	}
	return s
}

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}
	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
