package htmlmap

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mpapenbr/minisector-dominance/pkg/model"
	"github.com/mpapenbr/minisector-dominance/pkg/render"
)

const (
	widthPx  = 1440
	heightPx = 800
)

type options struct {
	title    string
	subtitle string
	assets   string
}

type Option func(*options)

func WithTitle(title, subtitle string) Option {
	return func(o *options) {
		o.title = title
		o.subtitle = subtitle
	}
}

// WithAssetsHost sets the location of the echarts javascript files.
func WithAssetsHost(host string) Option {
	return func(o *options) {
		o.assets = host
	}
}

func RenderFile(path string, segments []model.PathSegment, legend []render.LegendEntry,
	optFns ...Option,
) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrRenderFailure, err)
	}
	if err := Render(f, segments, legend, optFns...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrRenderFailure, err)
	}
	return nil
}

// Render writes an interactive map as HTML. Each driver gets one series
// holding the start points of the segments won by that driver.
func Render(w io.Writer, segments []model.PathSegment, legend []render.LegendEntry,
	optFns ...Option,
) error {
	o := &options{title: "Minisector dominance"}
	for _, opt := range optFns {
		opt(o)
	}
	if len(segments) == 0 {
		return fmt.Errorf("%w: no segments to draw", model.ErrRenderFailure)
	}
	minP, maxP := render.Bounds(segments)
	minP, maxP = render.EqualAspect(minP, maxP, float64(widthPx)/heightPx)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  o.title,
			Width:      fmt.Sprintf("%dpx", widthPx),
			Height:     fmt.Sprintf("%dpx", heightPx),
			AssetsHost: o.assets,
		}),
		charts.WithTitleOpts(opts.Title{Title: o.title, Subtitle: o.subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false), Min: minP.X, Max: maxP.X}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false), Min: minP.Y, Max: maxP.Y}),
	)
	for _, entry := range legend {
		data := make([]opts.ScatterData, 0, len(segments))
		for i := range segments {
			if segments[i].Code != entry.Code {
				continue
			}
			data = append(data, opts.ScatterData{
				Value: []interface{}{segments[i].From.X, segments[i].From.Y, segments[i].Minisector},
			})
		}
		scatter.AddSeries(string(entry.Driver), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: render.Hex(render.CodeColor(entry.Code, len(legend))),
			}),
		)
	}
	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("%w: %w", model.ErrRenderFailure, err)
	}
	return nil
}
