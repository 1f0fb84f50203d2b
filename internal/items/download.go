package items

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"albion-flipper/internal/logger"
)

// Download fetches items.json into path unless the file already exists.
func Download(ctx context.Context, url, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create items dir: %w", err)
	}

	logger.Info("Items", "Downloading "+url)
	tmp := path + ".part"
	client := resty.New().SetTimeout(2 * time.Minute)
	resp, err := client.R().
		SetContext(ctx).
		SetOutput(tmp).
		Get(url)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("download items: %w", err)
	}
	if resp.StatusCode() != 200 {
		os.Remove(tmp)
		return fmt.Errorf("download items: HTTP %d", resp.StatusCode())
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("install items: %w", err)
	}
	return nil
}

// LoadOrDownload downloads items.json when missing and loads it.
func LoadOrDownload(ctx context.Context, url, path, locale string) (*Table, error) {
	if err := Download(ctx, url, path); err != nil {
		return nil, err
	}
	return Load(path, locale)
}
