package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/banshee-data/linescan/internal/fsutil"
	"github.com/banshee-data/linescan/internal/lidar/pipeline"
	"github.com/banshee-data/linescan/internal/monitoring"
)

// WriteJSON encodes res as indented JSON.
func WriteJSON(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// SaveJSON writes res to path, creating parent directories as needed.
func SaveJSON(fsys fsutil.FileSystem, path string, res *pipeline.Result) error {
	return save(fsys, path, func(w io.Writer) error { return WriteJSON(w, res) })
}

// save creates path and streams render into it.
func save(fsys fsutil.FileSystem, path string, render func(io.Writer) error) (err error) {
	if err := fsutil.EnsureParentDir(fsys, path); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := render(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	monitoring.Logf("[report] wrote %s", path)
	return nil
}
