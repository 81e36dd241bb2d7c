// Command linescan extracts wall segments and corners from a 2D LiDAR scan.
//
//	linescan [flags] <scan.toml|url>
//
// The scan is read from a TOML file (or downloaded when the input starts
// with http), filtered into Cartesian points, run through RANSAC line
// extraction and corner analysis, and reported on stdout and as an SVG
// figure. -synthetic analyses a generated room corner instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/linescan/internal/config"
	"github.com/banshee-data/linescan/internal/fsutil"
	"github.com/banshee-data/linescan/internal/lidar/l1scans"
	"github.com/banshee-data/linescan/internal/lidar/l2points"
	"github.com/banshee-data/linescan/internal/lidar/pipeline"
	"github.com/banshee-data/linescan/internal/lidar/report"
	"github.com/banshee-data/linescan/internal/monitoring"
	"github.com/banshee-data/linescan/internal/version"
)

// syntheticSceneSeed fixes the demo scene so -synthetic runs only vary with
// the RANSAC seed.
const syntheticSceneSeed = 1

type options struct {
	input        string
	svgOut       string
	htmlOut      string
	jsonOut      string
	configPath   string
	downloadPath string
	synthetic    bool

	epsilon     float64
	minInliers  int
	maxIters    int
	angleThresh float64
	seed        int64
	deflate     string

	svgWidth  float64
	svgHeight float64
	svgMargin float64
	svgView   float64

	fetchTimeout time.Duration

	logLevel    string
	logJSON     bool
	showVersion bool
}

func newFlagSet(o *options, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("linescan", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "Usage: linescan [flags] <scan.toml|url>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&o.input, "input", "", "Scan file or http(s) URL (alternative to the positional argument)")
	fs.StringVar(&o.svgOut, "out", report.DefaultSVGPath, "SVG output path (empty disables)")
	fs.StringVar(&o.htmlOut, "html", "", "Optional HTML chart output path")
	fs.StringVar(&o.jsonOut, "json", "", "Optional JSON result output path")
	fs.StringVar(&o.configPath, "config", "", "Analysis config file (.json, .yaml or .yml)")
	fs.StringVar(&o.downloadPath, "download-path", config.DefaultDownloadPath, "Where downloaded scans are cached (empty disables)")
	fs.BoolVar(&o.synthetic, "synthetic", false, "Analyse a generated room corner instead of a scan")

	fs.Float64Var(&o.epsilon, "epsilon", config.DefaultEpsilon, "RANSAC inlier distance threshold (m)")
	fs.IntVar(&o.minInliers, "min-inliers", config.DefaultMinInliers, "Minimum inliers for a line")
	fs.IntVar(&o.maxIters, "max-iters", config.DefaultMaxIterations, "RANSAC sampling attempts")
	fs.Float64Var(&o.angleThresh, "angle-thresh", config.DefaultAngleThresholdDeg, "Minimum corner angle (degrees)")
	fs.Int64Var(&o.seed, "seed", 0, "RANSAC seed (0 draws one from OS entropy)")
	fs.StringVar(&o.deflate, "deflate", "refined", "Pool deflation model: refined or candidate")

	fs.Float64Var(&o.svgWidth, "svg-width", config.DefaultSVGWidth, "SVG width (pt)")
	fs.Float64Var(&o.svgHeight, "svg-height", config.DefaultSVGHeight, "SVG height (pt)")
	fs.Float64Var(&o.svgMargin, "svg-margin", config.DefaultSVGMargin, "SVG margin (pt)")
	fs.Float64Var(&o.svgView, "svg-view", config.DefaultSVGView, "Half-width of the plotted window (m), 0 fits the data")

	fs.DurationVar(&o.fetchTimeout, "fetch-timeout", config.DefaultFetchTimeout, "Timeout for downloading a remote scan")

	fs.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.BoolVar(&o.logJSON, "log-json", false, "Log as JSON")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	return fs
}

// parseArgs parses args with fs, accepting flags on either side of the
// positional arguments, which are returned in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	var positional []string
	for fs.NArg() > 0 {
		positional = append(positional, fs.Arg(0))
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return nil, err
		}
	}
	return positional, nil
}

// resolveConfig loads the config file, if any, and lets every flag given
// on the command line override it.
func resolveConfig(fs *flag.FlagSet, o *options, fsys fsutil.FileSystem) (*config.AnalysisConfig, error) {
	cfg := &config.AnalysisConfig{}
	if o.configPath != "" {
		loaded, err := config.LoadAnalysisConfigFS(fsys, o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "epsilon":
			cfg.Epsilon = &o.epsilon
		case "min-inliers":
			cfg.MinInliers = &o.minInliers
		case "max-iters":
			cfg.MaxIterations = &o.maxIters
		case "angle-thresh":
			cfg.AngleThresholdDeg = &o.angleThresh
		case "seed":
			cfg.Seed = &o.seed
		case "deflate":
			cfg.DeflateMode = &o.deflate
		case "svg-width":
			cfg.SVGWidth = &o.svgWidth
		case "svg-height":
			cfg.SVGHeight = &o.svgHeight
		case "svg-margin":
			cfg.SVGMargin = &o.svgMargin
		case "svg-view":
			cfg.SVGView = &o.svgView
		case "fetch-timeout":
			s := o.fetchTimeout.String()
			cfg.FetchTimeout = &s
		case "download-path":
			cfg.DownloadPath = &o.downloadPath
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, fsys fsutil.FileSystem) int {
	var o options
	fs := newFlagSet(&o, stderr)
	positional, err := parseArgs(fs, args)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if len(positional) > 1 {
		fmt.Fprintf(stderr, "linescan: unexpected arguments after %s: %v\n", positional[0], positional[1:])
		fs.Usage()
		return 2
	}

	if o.showVersion {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	monitoring.Logger().SetOutput(stderr)
	if err := monitoring.Configure(o.logLevel, o.logJSON); err != nil {
		fmt.Fprintf(stderr, "linescan: %v\n", err)
		return 2
	}

	if o.input == "" && len(positional) > 0 {
		o.input = positional[0]
	}
	if o.input == "" && !o.synthetic {
		fmt.Fprintln(stderr, "linescan: no input scan given")
		fs.Usage()
		return 1
	}

	cfg, err := resolveConfig(fs, &o, fsys)
	if err != nil {
		fmt.Fprintf(stderr, "linescan: config: %v\n", err)
		return 1
	}

	params := pipeline.Params{
		Ransac:      cfg.RansacConfig(),
		MinAngleDeg: cfg.GetAngleThresholdDeg(),
		Seed:        cfg.GetSeed(),
	}

	var res *pipeline.Result
	if o.synthetic {
		pts := l2points.DefaultSyntheticScene(syntheticSceneSeed).Points()
		res, err = pipeline.NewRunner(nil, params).RunPoints(pipeline.SourceSynthetic, pts)
	} else {
		fetcher := l1scans.NewFetcher(cfg.GetFetchTimeout(), fsys, cfg.GetDownloadPath())
		loader := l1scans.NewLoader(fsys, fetcher)
		res, err = pipeline.NewRunner(loader, params).Run(ctx, o.input)
	}
	if err != nil {
		fmt.Fprintf(stderr, "linescan: %v\n", err)
		return 1
	}

	if err := report.WriteSummary(stdout, res); err != nil {
		fmt.Fprintf(stderr, "linescan: %v\n", err)
		return 1
	}

	if o.svgOut != "" {
		svgOpts := report.SVGOptions{
			Width:  cfg.GetSVGWidth(),
			Height: cfg.GetSVGHeight(),
			Margin: cfg.GetSVGMargin(),
			View:   cfg.GetSVGView(),
		}
		if err := report.SaveSVG(fsys, o.svgOut, res, svgOpts); err != nil {
			fmt.Fprintf(stderr, "linescan: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "SVG written to %s\n", o.svgOut)
	}
	if o.htmlOut != "" {
		htmlOpts := report.DefaultHTMLOptions()
		htmlOpts.View = cfg.GetSVGView()
		if err := report.SaveHTML(fsys, o.htmlOut, res, htmlOpts); err != nil {
			fmt.Fprintf(stderr, "linescan: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "HTML written to %s\n", o.htmlOut)
	}
	if o.jsonOut != "" {
		if err := report.SaveJSON(fsys, o.jsonOut, res); err != nil {
			fmt.Fprintf(stderr, "linescan: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "JSON written to %s\n", o.jsonOut)
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, fsutil.OSFileSystem{})
	stop()
	os.Exit(code)
}
