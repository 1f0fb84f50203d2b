package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	dim     = "\033[2m"
	red     = "\033[31m"
	green   = "\033[32m"
	yellow  = "\033[33m"
	blue    = "\033[34m"
	cyan    = "\033[36m"
	magenta = "\033[35m"
)

var (
	mu    sync.Mutex
	out   io.Writer = os.Stdout
	color           = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
)

// SetOutput redirects all log output. Colours are disabled for non-terminal writers.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		return
	}
	color = false
}

func paint(code, s string) string {
	if !color {
		return s
	}
	return code + s + reset
}

func line(level, code, tag, msg string) {
	mu.Lock()
	defer mu.Unlock()
	ts := paint(dim, time.Now().Format("15:04:05"))
	fmt.Fprintf(out, "%s %s %s %s\n", ts, paint(code, fmt.Sprintf("%-5s", level)), paint(bold, "["+tag+"]"), msg)
}

// Info logs a neutral message.
func Info(tag, msg string) { line("INFO", blue, tag, msg) }

// Success logs a completed step.
func Success(tag, msg string) { line("OK", green, tag, msg) }

// Warn logs a recoverable problem.
func Warn(tag, msg string) { line("WARN", yellow, tag, msg) }

// Error logs a failure.
func Error(tag, msg string) { line("ERROR", red, tag, msg) }

// Banner prints the startup banner.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	mu.Lock()
	defer mu.Unlock()
	title := "ALBION FLIPPER " + version
	rule := strings.Repeat("=", len(title)+4)
	fmt.Fprintln(out, paint(cyan, rule))
	fmt.Fprintln(out, paint(cyan, "  ")+paint(bold, title))
	fmt.Fprintln(out, paint(cyan, rule))
}

// Section prints a section header.
func Section(title string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "\n%s\n", paint(magenta, "-- "+title+" --"))
}

// Stats prints a key/value line. Integer and float values are humanised.
func Stats(key string, value interface{}) {
	var v string
	switch n := value.(type) {
	case int:
		v = humanize.Comma(int64(n))
	case int64:
		v = humanize.Comma(n)
	case float64:
		v = humanize.CommafWithDigits(n, 2)
	default:
		v = fmt.Sprint(value)
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "   %-22s %s\n", key+":", paint(bold, v))
}

// Server prints the listen address.
func Server(addr string) {
	Success("HTTP", "Listening on http://"+addr)
}
