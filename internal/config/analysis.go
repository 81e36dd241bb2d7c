package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/linescan/internal/fsutil"
	"github.com/banshee-data/linescan/internal/lidar/l1scans"
	"github.com/banshee-data/linescan/internal/lidar/l4perception"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// maxConfigFileSize caps config files at 1MB.
const maxConfigFileSize = 1 * 1024 * 1024

// Default values used when a field is omitted.
const (
	DefaultEpsilon           = 0.02
	DefaultMinInliers        = 8
	DefaultMaxIterations     = 2000
	DefaultAngleThresholdDeg = 60.0
	DefaultSVGWidth          = 1200.0
	DefaultSVGHeight         = 900.0
	DefaultSVGMargin         = 40.0
	DefaultSVGView           = 3.0
	DefaultFetchTimeout      = l1scans.DefaultFetchTimeout
	DefaultDownloadPath      = l1scans.DefaultDownloadPath
)

// AnalysisConfig holds the tunables of a line-extraction run. Nil fields
// take their defaults through the Get* accessors, so partial files are safe.
type AnalysisConfig struct {
	// RANSAC
	Epsilon       *float64 `json:"epsilon,omitempty" yaml:"epsilon,omitempty"` // inlier distance threshold (m)
	MinInliers    *int     `json:"min_inliers,omitempty" yaml:"min_inliers,omitempty"`
	MaxIterations *int     `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
	Seed          *int64   `json:"seed,omitempty" yaml:"seed,omitempty"`                 // 0 draws from OS entropy
	DeflateMode   *string  `json:"deflate_mode,omitempty" yaml:"deflate_mode,omitempty"` // "refined" or "candidate"

	// Corners
	AngleThresholdDeg *float64 `json:"angle_threshold_deg,omitempty" yaml:"angle_threshold_deg,omitempty"`

	// SVG output, in points
	SVGWidth  *float64 `json:"svg_width,omitempty" yaml:"svg_width,omitempty"`
	SVGHeight *float64 `json:"svg_height,omitempty" yaml:"svg_height,omitempty"`
	SVGMargin *float64 `json:"svg_margin,omitempty" yaml:"svg_margin,omitempty"`
	SVGView   *float64 `json:"svg_view,omitempty" yaml:"svg_view,omitempty"` // half-width of the view (m), 0 fits the data

	// Remote scans
	FetchTimeout *string `json:"fetch_timeout,omitempty" yaml:"fetch_timeout,omitempty"` // duration string like "30s"
	DownloadPath *string `json:"download_path,omitempty" yaml:"download_path,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }
func ptrString(v string) *string    { return &v }

// DefaultAnalysisConfig returns a config with every field set explicitly.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		Epsilon:           ptrFloat64(DefaultEpsilon),
		MinInliers:        ptrInt(DefaultMinInliers),
		MaxIterations:     ptrInt(DefaultMaxIterations),
		Seed:              ptrInt64(0),
		DeflateMode:       ptrString(l4perception.DeflateRefined.String()),
		AngleThresholdDeg: ptrFloat64(DefaultAngleThresholdDeg),
		SVGWidth:          ptrFloat64(DefaultSVGWidth),
		SVGHeight:         ptrFloat64(DefaultSVGHeight),
		SVGMargin:         ptrFloat64(DefaultSVGMargin),
		SVGView:           ptrFloat64(DefaultSVGView),
		FetchTimeout:      ptrString(DefaultFetchTimeout.String()),
		DownloadPath:      ptrString(DefaultDownloadPath),
	}
}

// LoadAnalysisConfig reads a .json, .yaml or .yml config file from disk.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	return LoadAnalysisConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadAnalysisConfigFS reads a config file through fsys. The format follows
// the file extension. Files over 1MB are rejected.
func LoadAnalysisConfigFS(fsys fsutil.FileSystem, path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(cleanPath)), ".")
	if format != "json" && format != "yaml" && format != "yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", filepath.Ext(cleanPath))
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseAnalysisConfig(data, format)
}

// ParseAnalysisConfig decodes data as "json" or "yaml"/"yml" and validates
// the result.
func ParseAnalysisConfig(data []byte, format string) (*AnalysisConfig, error) {
	cfg := &AnalysisConfig{}
	switch format {
	case "json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that is set. All failures are reported
// together and wrap ErrInvalidConfig.
func (c *AnalysisConfig) Validate() error {
	var errs []error
	if c.Epsilon != nil && !(*c.Epsilon > 0) {
		errs = append(errs, fmt.Errorf("epsilon must be positive, got %g", *c.Epsilon))
	}
	if c.MinInliers != nil && *c.MinInliers < 2 {
		errs = append(errs, fmt.Errorf("min_inliers must be at least 2, got %d", *c.MinInliers))
	}
	if c.MaxIterations != nil && *c.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("max_iterations must be positive, got %d", *c.MaxIterations))
	}
	if c.DeflateMode != nil {
		if _, err := l4perception.ParseDeflateMode(*c.DeflateMode); err != nil {
			errs = append(errs, fmt.Errorf("deflate_mode: %w", err))
		}
	}
	if c.AngleThresholdDeg != nil && !(*c.AngleThresholdDeg >= 0 && *c.AngleThresholdDeg <= 90) {
		errs = append(errs, fmt.Errorf("angle_threshold_deg must be within [0, 90], got %g", *c.AngleThresholdDeg))
	}
	if w, h, m := c.GetSVGWidth(), c.GetSVGHeight(), c.GetSVGMargin(); m < 0 || w <= 2*m || h <= 2*m {
		errs = append(errs, fmt.Errorf("svg size %gx%g leaves no room inside margin %g", w, h, m))
	}
	if c.SVGView != nil && *c.SVGView < 0 {
		errs = append(errs, fmt.Errorf("svg_view must not be negative, got %g", *c.SVGView))
	}
	if c.FetchTimeout != nil && *c.FetchTimeout != "" {
		if d, err := time.ParseDuration(*c.FetchTimeout); err != nil {
			errs = append(errs, fmt.Errorf("invalid fetch_timeout '%s': %w", *c.FetchTimeout, err))
		} else if d <= 0 {
			errs = append(errs, fmt.Errorf("fetch_timeout must be positive, got %s", d))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// GetEpsilon returns the epsilon value or the default.
func (c *AnalysisConfig) GetEpsilon() float64 {
	if c.Epsilon == nil {
		return DefaultEpsilon
	}
	return *c.Epsilon
}

// GetMinInliers returns the min_inliers value or the default.
func (c *AnalysisConfig) GetMinInliers() int {
	if c.MinInliers == nil {
		return DefaultMinInliers
	}
	return *c.MinInliers
}

// GetMaxIterations returns the max_iterations value or the default.
func (c *AnalysisConfig) GetMaxIterations() int {
	if c.MaxIterations == nil {
		return DefaultMaxIterations
	}
	return *c.MaxIterations
}

// GetSeed returns the seed value, 0 when unset.
func (c *AnalysisConfig) GetSeed() int64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// GetDeflateMode parses deflate_mode, falling back to DeflateRefined.
func (c *AnalysisConfig) GetDeflateMode() l4perception.DeflateMode {
	if c.DeflateMode == nil {
		return l4perception.DeflateRefined
	}
	m, err := l4perception.ParseDeflateMode(*c.DeflateMode)
	if err != nil {
		return l4perception.DeflateRefined
	}
	return m
}

// GetAngleThresholdDeg returns the angle_threshold_deg value or the default.
func (c *AnalysisConfig) GetAngleThresholdDeg() float64 {
	if c.AngleThresholdDeg == nil {
		return DefaultAngleThresholdDeg
	}
	return *c.AngleThresholdDeg
}

// GetSVGWidth returns the svg_width value or the default.
func (c *AnalysisConfig) GetSVGWidth() float64 {
	if c.SVGWidth == nil {
		return DefaultSVGWidth
	}
	return *c.SVGWidth
}

// GetSVGHeight returns the svg_height value or the default.
func (c *AnalysisConfig) GetSVGHeight() float64 {
	if c.SVGHeight == nil {
		return DefaultSVGHeight
	}
	return *c.SVGHeight
}

// GetSVGMargin returns the svg_margin value or the default.
func (c *AnalysisConfig) GetSVGMargin() float64 {
	if c.SVGMargin == nil {
		return DefaultSVGMargin
	}
	return *c.SVGMargin
}

// GetSVGView returns the svg_view value or the default.
func (c *AnalysisConfig) GetSVGView() float64 {
	if c.SVGView == nil {
		return DefaultSVGView
	}
	return *c.SVGView
}

// GetFetchTimeout parses and returns the FetchTimeout as a time.Duration.
func (c *AnalysisConfig) GetFetchTimeout() time.Duration {
	if c.FetchTimeout == nil || *c.FetchTimeout == "" {
		return DefaultFetchTimeout
	}
	d, err := time.ParseDuration(*c.FetchTimeout)
	if err != nil || d <= 0 {
		return DefaultFetchTimeout
	}
	return d
}

// GetDownloadPath returns the download_path value or the default. An
// explicit empty string disables caching of fetched scans.
func (c *AnalysisConfig) GetDownloadPath() string {
	if c.DownloadPath == nil {
		return DefaultDownloadPath
	}
	return *c.DownloadPath
}

// RansacConfig converts the RANSAC fields for l4perception.
func (c *AnalysisConfig) RansacConfig() l4perception.RansacConfig {
	return l4perception.RansacConfig{
		MinInliers:        c.GetMinInliers(),
		DistanceThreshold: c.GetEpsilon(),
		MaxIterations:     c.GetMaxIterations(),
		Deflate:           c.GetDeflateMode(),
	}
}
