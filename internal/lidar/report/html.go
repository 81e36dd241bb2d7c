package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/linescan/internal/fsutil"
	"github.com/banshee-data/linescan/internal/lidar/pipeline"
)

// HTMLOptions controls the interactive chart.
type HTMLOptions struct {
	// AssetsHost overrides where the echarts javascript is loaded from.
	// Empty uses the go-echarts default CDN.
	AssetsHost string
	// View is the half-width of the axes in metres; zero lets echarts
	// scale to the data.
	View float64
}

// DefaultHTMLOptions returns a ±3 m chart using the default assets host.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{View: 3}
}

// NewSceneChart builds an echarts scatter of the raw points with the
// detected segments, corners and robot overlaid.
func NewSceneChart(res *pipeline.Result, o HTMLOptions) *charts.Scatter {
	xAxis := opts.XAxis{Type: "value", Name: "X (m)", NameLocation: "middle", NameGap: 25}
	yAxis := opts.YAxis{Type: "value", Name: "Y (m)", NameLocation: "middle", NameGap: 30}
	if o.View > 0 {
		xAxis.Min, xAxis.Max = -o.View, o.View
		yAxis.Min, yAxis.Max = -o.View, o.View
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "LiDAR line analysis", Width: "900px", Height: "900px", AssetsHost: o.AssetsHost}),
		charts.WithTitleOpts(opts.Title{
			Title:    "LiDAR geometric analysis",
			Subtitle: fmt.Sprintf("run=%s points=%d lines=%d corners=%d", res.RunID, len(res.Points), len(res.Lines), len(res.Intersections)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis),
	)

	points := make([]opts.ScatterData, 0, len(res.Points))
	for _, p := range res.Points {
		points = append(points, opts.ScatterData{Value: []interface{}{p.X, p.Y}})
	}
	scatter.AddSeries("points", points, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

	corners := make([]opts.ScatterData, 0, len(res.Intersections))
	for i, x := range res.Intersections {
		corners = append(corners, opts.ScatterData{
			Name:  fmt.Sprintf("#%d %.2f m %.0f°", i+1, x.DistanceToRobot, x.AngleDeg),
			Value: []interface{}{x.Position.X, x.Position.Y},
		})
	}
	scatter.AddSeries("corners", corners,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff922b"}),
	)
	scatter.AddSeries("robot", []opts.ScatterData{{Name: "robot", Value: []interface{}{res.Origin.X, res.Origin.Y}}},
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 14}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#4dabf7"}),
	)

	if len(res.Lines) > 0 {
		segments := charts.NewLine()
		for i, l := range res.Lines {
			segments.AddSeries(fmt.Sprintf("line %d", i+1), []opts.LineData{
				{Value: []interface{}{l.Start.X, l.Start.Y}},
				{Value: []interface{}{l.End.X, l.End.Y}},
			},
				charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
				charts.WithLineStyleOpts(opts.LineStyle{Width: 3, Color: "#51cf66"}),
			)
		}
		scatter.Overlap(segments)
	}
	return scatter
}

// RenderHTML writes the chart for res as a standalone HTML page.
func RenderHTML(w io.Writer, res *pipeline.Result, o HTMLOptions) error {
	if err := NewSceneChart(res, o).Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// SaveHTML renders the chart for res to path.
func SaveHTML(fsys fsutil.FileSystem, path string, res *pipeline.Result, o HTMLOptions) error {
	return save(fsys, path, func(w io.Writer) error { return RenderHTML(w, res, o) })
}
