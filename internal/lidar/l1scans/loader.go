package l1scans

import (
	"context"
	"fmt"

	"github.com/banshee-data/linescan/internal/fsutil"
)

// Loader resolves an input string to a LidarScan, reading local files
// directly and downloading anything IsRemote accepts.
type Loader struct {
	FS      fsutil.FileSystem
	Fetcher *Fetcher
}

// NewLoader returns a Loader over fsys. fetcher may be nil, in which case
// remote inputs are rejected.
func NewLoader(fsys fsutil.FileSystem, fetcher *Fetcher) *Loader {
	return &Loader{FS: fsys, Fetcher: fetcher}
}

// Load reads the scan named by input.
func (l *Loader) Load(ctx context.Context, input string) (*LidarScan, error) {
	if !IsRemote(input) {
		return LoadScan(l.FS, input)
	}
	if l.Fetcher == nil {
		return nil, fmt.Errorf("remote scan %q requested but fetching is disabled", input)
	}
	body, err := l.Fetcher.Fetch(ctx, input)
	if err != nil {
		return nil, err
	}
	scan, err := ParseScan(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	return scan, nil
}
