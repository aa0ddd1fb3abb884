package poems

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const maxDatasetBytes = 64 << 20

// Dataset describes a cached poem dataset.
type Dataset struct {
	Path   string
	Poems  int
	Cached bool
}

// CachePath returns where Fetch stores the dataset for rawURL.
func CachePath(cacheDir, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid dataset url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported dataset url scheme %q", u.Scheme)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		name = "poems.json"
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return filepath.Join(cacheDir, u.Host+"-"+name), nil
}

// Fetch downloads a JSON poem dataset into cacheDir. An existing cached copy
// is reused unless force is set. The payload is validated before it replaces
// the cache.
func Fetch(ctx context.Context, client *http.Client, rawURL, cacheDir string, force bool) (Dataset, error) {
	if cacheDir == "" {
		return Dataset{}, fmt.Errorf("cache directory is required")
	}
	destPath, err := CachePath(cacheDir, rawURL)
	if err != nil {
		return Dataset{}, err
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Dataset{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	if !force {
		if _, err := os.Stat(destPath); err == nil {
			lib, err := Load(destPath)
			if err != nil {
				return Dataset{}, err
			}
			return Dataset{Path: destPath, Poems: lib.Len(), Cached: true}, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return Dataset{}, fmt.Errorf("failed to stat cached dataset: %w", err)
		}
	}

	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to download dataset: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return Dataset{}, fmt.Errorf("unexpected dataset status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes+1))
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to read dataset: %w", err)
	}
	if len(data) > maxDatasetBytes {
		return Dataset{}, fmt.Errorf("dataset exceeds %d bytes", maxDatasetBytes)
	}
	lib, err := Parse(data)
	if err != nil {
		return Dataset{}, err
	}

	tmpFile, err := os.CreateTemp(cacheDir, "poems-*.json")
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to create temp dataset: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return Dataset{}, fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return Dataset{}, fmt.Errorf("failed to close temp dataset: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return Dataset{}, fmt.Errorf("failed to move dataset into cache: %w", err)
	}
	return Dataset{Path: destPath, Poems: lib.Len()}, nil
}
