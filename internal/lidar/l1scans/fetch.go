package l1scans

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/banshee-data/linescan/internal/fsutil"
	"github.com/banshee-data/linescan/internal/httputil"
	"github.com/banshee-data/linescan/internal/monitoring"
)

// DefaultDownloadPath is where fetched scans are cached when no path is set.
const DefaultDownloadPath = "data/downloaded_scan.toml"

// DefaultFetchTimeout bounds a single scan download.
const DefaultFetchTimeout = 30 * time.Second

// ErrFetchStatus is wrapped by Fetch when the server answers with a non-2xx
// status.
var ErrFetchStatus = errors.New("unexpected HTTP status")

// IsRemote reports whether input names a scan to download rather than a
// local file.
func IsRemote(input string) bool {
	return strings.HasPrefix(input, "http")
}

// Fetcher downloads scan files over HTTP and optionally caches them on disk.
type Fetcher struct {
	client    httputil.HTTPClient
	fs        fsutil.FileSystem
	cachePath string
}

// NewFetcher creates a Fetcher. A zero timeout selects DefaultFetchTimeout.
// An empty cachePath disables caching.
func NewFetcher(timeout time.Duration, fsys fsutil.FileSystem, cachePath string) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{
		client:    httputil.NewStandardClient(timeout),
		fs:        fsys,
		cachePath: cachePath,
	}
}

// WithClient replaces the HTTP client, typically with a
// httputil.MockHTTPClient in tests.
func (f *Fetcher) WithClient(c httputil.HTTPClient) *Fetcher {
	f.client = c
	return f
}

// CachePath returns the local path fetched scans are written to.
func (f *Fetcher) CachePath() string {
	return f.cachePath
}

// Fetch downloads url and returns the body. When a cache path is set the body
// is also written there.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	monitoring.Logf("downloading scan from %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download %s: %w: %d", url, ErrFetchStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScanFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxScanFileSize {
		return nil, fmt.Errorf("scan download too large (max %d bytes)", maxScanFileSize)
	}

	if f.cachePath != "" && f.fs != nil {
		if err := fsutil.EnsureParentDir(f.fs, f.cachePath); err != nil {
			return nil, fmt.Errorf("failed to create cache dir: %w", err)
		}
		if err := f.fs.WriteFile(f.cachePath, body, 0644); err != nil {
			return nil, fmt.Errorf("failed to cache scan: %w", err)
		}
		monitoring.Logf("scan cached at %s", f.cachePath)
	}
	return body, nil
}
