package l1scans

import (
	"errors"
	"fmt"
	"math"

	"github.com/pelletier/go-toml/v2"

	"github.com/banshee-data/linescan/internal/fsutil"
)

// ErrNoScanTable is returned when a scan file has no [scan] table.
var ErrNoScanTable = errors.New("scan file has no [scan] table")

// maxScanFileSize caps scan files read from disk or the network.
const maxScanFileSize = 16 * 1024 * 1024

// scanDocument mirrors the on-disk layout. Values are decoded as any so that
// integer literals (ranges = [1, 999, -1]) are accepted alongside floats.
type scanDocument struct {
	Scan *scanTable `toml:"scan"`
}

type scanTable struct {
	AngleMin       any   `toml:"angle_min"`
	AngleMax       any   `toml:"angle_max"`
	AngleIncrement any   `toml:"angle_increment"`
	RangeMin       any   `toml:"range_min"`
	RangeMax       any   `toml:"range_max"`
	Ranges         []any `toml:"ranges"`
}

// ParseScan decodes a TOML scan document. Other tables in the document are
// ignored and missing scalar keys default to zero.
func ParseScan(data []byte) (*LidarScan, error) {
	var doc scanDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scan TOML: %w", err)
	}
	if doc.Scan == nil {
		return nil, ErrNoScanTable
	}

	t := doc.Scan
	scan := &LidarScan{}
	fields := []struct {
		key string
		raw any
		dst *float64
	}{
		{"angle_min", t.AngleMin, &scan.AngleMin},
		{"angle_max", t.AngleMax, &scan.AngleMax},
		{"angle_increment", t.AngleIncrement, &scan.AngleIncrement},
		{"range_min", t.RangeMin, &scan.RangeMin},
		{"range_max", t.RangeMax, &scan.RangeMax},
	}
	for _, f := range fields {
		if f.raw == nil {
			continue
		}
		v, err := toFloat(f.raw)
		if err != nil {
			return nil, fmt.Errorf("scan.%s: %w", f.key, err)
		}
		*f.dst = v
	}

	scan.Ranges = make([]float64, 0, len(t.Ranges))
	for i, raw := range t.Ranges {
		v, err := toFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("scan.ranges[%d]: %w", i, err)
		}
		scan.Ranges = append(scan.Ranges, v)
	}
	return scan, nil
}

// LoadScan reads and decodes the scan file at path.
func LoadScan(fsys fsutil.FileSystem, path string) (*LidarScan, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat scan file: %w", err)
	}
	if info.Size() > maxScanFileSize {
		return nil, fmt.Errorf("scan file too large: %d bytes (max %d)", info.Size(), maxScanFileSize)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan file: %w", err)
	}
	scan, err := ParseScan(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scan, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return math.NaN(), fmt.Errorf("expected a number, got %T", v)
	}
}
