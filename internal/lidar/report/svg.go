package report

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/banshee-data/linescan/internal/fsutil"
	"github.com/banshee-data/linescan/internal/lidar/l2points"
	"github.com/banshee-data/linescan/internal/lidar/pipeline"
)

// DefaultSVGPath is where the CLI writes its figure unless told otherwise.
const DefaultSVGPath = "data/output1.svg"

// SVGOptions controls the rendered figure. Sizes are in points.
type SVGOptions struct {
	Width  float64
	Height float64
	Margin float64
	// View is the half-width in metres of the square window centred on the
	// robot. Zero fits the window to the data.
	View float64
}

// DefaultSVGOptions returns a 1200x900 figure with a ±3 m view.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 1200, Height: 900, Margin: 40, View: 3}
}

// Validate rejects figures with no drawable area.
func (o SVGOptions) Validate() error {
	if o.Width <= 2*o.Margin || o.Height <= 2*o.Margin {
		return fmt.Errorf("svg %gx%g leaves no room inside a %g margin", o.Width, o.Height, o.Margin)
	}
	if o.Margin < 0 || o.View < 0 {
		return fmt.Errorf("svg margin and view must not be negative")
	}
	return nil
}

var (
	pointColor  = color.RGBA{R: 0xad, G: 0xb5, B: 0xbd, A: 0xff}
	lineColor   = color.RGBA{R: 0x51, G: 0xcf, B: 0x66, A: 0xff}
	rayColor    = color.RGBA{R: 0xff, G: 0x6b, B: 0x6b, A: 0xb3}
	cornerColor = color.RGBA{R: 0xff, G: 0x92, B: 0x2b, A: 0xff}
	robotColor  = color.RGBA{R: 0x4d, G: 0xab, B: 0xf7, A: 0xff}
)

// NewScenePlot builds the figure for res: raw points, detected segments,
// dashed rays from the robot to every corner, corner markers labelled with
// distance and angle, and the robot itself.
func NewScenePlot(res *pipeline.Result, view float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("LiDAR geometric analysis (points: %d | lines: %d | corners: %d)",
		len(res.Points), len(res.Lines), len(res.Intersections))
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Add(plotter.NewGrid())

	if len(res.Points) > 0 {
		sc, err := plotter.NewScatter(toXYs(res.Points))
		if err != nil {
			return nil, fmt.Errorf("points: %w", err)
		}
		sc.GlyphStyle.Color = pointColor
		sc.GlyphStyle.Radius = vg.Points(1.75)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add("LiDAR point", sc)
	}

	for i, l := range res.Lines {
		seg, err := plotter.NewLine(plotter.XYs{{X: l.Start.X, Y: l.Start.Y}, {X: l.End.X, Y: l.End.Y}})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		seg.Color = lineColor
		seg.Width = vg.Points(3)
		p.Add(seg)
		if i == 0 {
			p.Legend.Add("Detected line", seg)
		}
	}

	robot := res.Origin
	if len(res.Intersections) > 0 {
		corners := make([]l2points.Point, len(res.Intersections))
		labels := make([]string, len(res.Intersections))
		for i, x := range res.Intersections {
			corners[i] = x.Position
			labels[i] = fmt.Sprintf("%.2f m, %d°", x.DistanceToRobot, int(math.Round(x.AngleDeg)))
		}
		for i, xys := range robotRays(res) {
			ray, err := plotter.NewLine(xys)
			if err != nil {
				return nil, fmt.Errorf("ray %d: %w", i, err)
			}
			ray.Color = rayColor
			ray.Width = vg.Points(2)
			ray.Dashes = []vg.Length{vg.Points(8), vg.Points(4)}
			p.Add(ray)
		}

		marks, err := plotter.NewScatter(toXYs(corners))
		if err != nil {
			return nil, fmt.Errorf("corners: %w", err)
		}
		marks.GlyphStyle.Color = cornerColor
		marks.GlyphStyle.Radius = vg.Points(8)
		marks.GlyphStyle.Shape = draw.CrossGlyph{}
		p.Add(marks)
		p.Legend.Add("Intersection", marks)

		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: toXYs(corners), Labels: labels})
		if err != nil {
			return nil, fmt.Errorf("labels: %w", err)
		}
		for i := range lbl.TextStyle {
			lbl.TextStyle[i].Color = rayColor
		}
		lbl.Offset = vg.Point{X: vg.Points(10), Y: vg.Points(6)}
		p.Add(lbl)
	}

	bot, err := plotter.NewScatter(plotter.XYs{{X: robot.X, Y: robot.Y}})
	if err != nil {
		return nil, fmt.Errorf("robot: %w", err)
	}
	bot.GlyphStyle.Color = robotColor
	bot.GlyphStyle.Radius = vg.Points(6)
	bot.GlyphStyle.Shape = draw.BoxGlyph{}
	p.Add(bot)
	p.Legend.Add("Robot", bot)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	// Set after Add, which widens the axes to fit the data.
	if view > 0 {
		p.X.Min, p.X.Max = -view, view
		p.Y.Min, p.Y.Max = -view, view
	}
	return p, nil
}

// RenderSVG draws res as an SVG document.
func RenderSVG(w io.Writer, res *pipeline.Result, o SVGOptions) error {
	if err := o.Validate(); err != nil {
		return err
	}
	p, err := NewScenePlot(res, o.View)
	if err != nil {
		return err
	}

	canvas := vgsvg.New(vg.Points(o.Width), vg.Points(o.Height))
	m := vg.Points(o.Margin)
	p.Draw(draw.Crop(draw.New(canvas), m, -m, m, -m))

	if _, err := canvas.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// SaveSVG renders res to path.
func SaveSVG(fsys fsutil.FileSystem, path string, res *pipeline.Result, o SVGOptions) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return save(fsys, path, func(w io.Writer) error { return RenderSVG(w, res, o) })
}

// robotRays returns one robot-to-corner segment per intersection, starting
// at res.Origin so the drawn length matches DistanceToRobot.
func robotRays(res *pipeline.Result) []plotter.XYs {
	rays := make([]plotter.XYs, len(res.Intersections))
	for i, x := range res.Intersections {
		rays[i] = plotter.XYs{{X: res.Origin.X, Y: res.Origin.Y}, {X: x.Position.X, Y: x.Position.Y}}
	}
	return rays
}

func toXYs(pts []l2points.Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return xys
}
