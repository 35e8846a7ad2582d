package plotmap

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/mpapenbr/minisector-dominance/log"
	"github.com/mpapenbr/minisector-dominance/pkg/model"
	"github.com/mpapenbr/minisector-dominance/pkg/render"
)

var errNothingToDraw = errors.New("no segments to draw")

type options struct {
	width     vg.Length
	height    vg.Length
	dpi       int
	lineWidth vg.Length
	title     string
	log       *log.Logger
}

type Option func(*options)

// WithSize sets the image size in inch.
func WithSize(width, height float64) Option {
	return func(o *options) {
		o.width = vg.Length(width) * vg.Inch
		o.height = vg.Length(height) * vg.Inch
	}
}

func WithDPI(dpi int) Option {
	return func(o *options) {
		o.dpi = dpi
	}
}

// WithLineWidth sets the width of the track line in points.
func WithLineWidth(w float64) Option {
	return func(o *options) {
		o.lineWidth = vg.Points(w)
	}
}

func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

func defaultOptions() *options {
	return &options{
		width:     18 * vg.Inch,
		height:    10 * vg.Inch,
		dpi:       300,
		lineWidth: vg.Points(5),
		log:       log.Default().Named("render.png"),
	}
}

// RenderFile writes the map as PNG to path.
func RenderFile(path string, segments []model.PathSegment, legend []render.LegendEntry,
	opts ...Option,
) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrRenderFailure, err)
	}
	if err := Render(f, segments, legend, opts...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrRenderFailure, err)
	}
	return nil
}

// Render draws the segments colored by their winner code and writes a PNG to w.
func Render(w io.Writer, segments []model.PathSegment, legend []render.LegendEntry,
	opts ...Option,
) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	p, err := newPlot(segments, legend, o)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrRenderFailure, err)
	}

	c := vgimg.NewWith(vgimg.UseWH(o.width, o.height), vgimg.UseDPI(o.dpi))
	dc := draw.New(c)
	fitEqualScale(p, segments, dc)
	p.Draw(dc)
	n, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrRenderFailure, err)
	}
	o.log.Debug("png written",
		log.Int("segments", len(segments)),
		log.Int64("bytes", n),
		log.Int("dpi", o.dpi))
	return nil
}

func newPlot(segments []model.PathSegment, legend []render.LegendEntry, o *options) (
	*plot.Plot, error,
) {
	if len(segments) == 0 {
		return nil, errNothingToDraw
	}
	p := plot.New()
	p.Title.Text = o.title
	p.HideAxes()
	p.X.Padding = 0
	p.Y.Padding = 0
	p.Legend.Top = true
	p.Legend.Left = false

	for _, run := range runs(segments) {
		line, err := plotter.NewLine(run.points)
		if err != nil {
			return nil, err
		}
		line.Color = render.CodeColor(run.code, len(legend))
		line.Width = o.lineWidth
		p.Add(line)
	}

	for _, entry := range legend {
		thumb, err := plotter.NewLine(plotter.XYs{})
		if err != nil {
			return nil, err
		}
		thumb.Color = render.CodeColor(entry.Code, len(legend))
		thumb.Width = o.lineWidth
		p.Legend.Add(string(entry.Driver), thumb)
	}
	return p, nil
}

// fitEqualScale sets the axis ranges so that one data unit has the same length
// on both axes of the data area of dc.
func fitEqualScale(p *plot.Plot, segments []model.PathSegment, dc draw.Canvas) {
	size := p.DataCanvas(dc).Size()
	minP, maxP := render.Bounds(segments)
	minP, maxP = render.EqualAspect(minP, maxP, float64(size.X/size.Y))
	p.X.Min, p.X.Max = minP.X, maxP.X
	p.Y.Min, p.Y.Max = minP.Y, maxP.Y
}

type run struct {
	code   int
	points plotter.XYs
}

// runs joins consecutive segments with the same code into polylines.
// A new run starts where the code changes or the path is not continuous.
func runs(segments []model.PathSegment) []run {
	ret := []run{}
	for i := range segments {
		s := segments[i]
		if len(ret) > 0 {
			cur := &ret[len(ret)-1]
			last := cur.points[len(cur.points)-1]
			if cur.code == s.Code && last.X == s.From.X && last.Y == s.From.Y {
				cur.points = append(cur.points, plotter.XY{X: s.To.X, Y: s.To.Y})
				continue
			}
		}
		ret = append(ret, run{
			code: s.Code,
			points: plotter.XYs{
				{X: s.From.X, Y: s.From.Y},
				{X: s.To.X, Y: s.To.Y},
			},
		})
	}
	return ret
}
