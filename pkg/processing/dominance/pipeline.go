package dominance

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/minisector-dominance/log"
	"github.com/mpapenbr/minisector-dominance/pkg/model"
)

type Result struct {
	Samples          []model.Sample // sorted by distance, minisector and winner set
	Stats            []model.MinisectorStats
	Dominance        model.Dominance
	Segments         []model.PathSegment
	Codes            Codes
	MinisectorLength float64
}

// Wins returns the number of minisectors won per driver.
func (r *Result) Wins() map[model.DriverID]int {
	ret := map[model.DriverID]int{}
	for _, d := range r.Codes.Drivers() {
		ret[d] = 0
	}
	for _, w := range r.Dominance {
		ret[w]++
	}
	return ret
}

type Pipeline struct {
	minisectors int
	clamp       bool
	drivers     [2]model.DriverID
	log         *log.Logger
	tracer      trace.Tracer
}

type Option func(*Pipeline)

func WithMinisectors(n int) Option {
	return func(p *Pipeline) {
		p.minisectors = n
	}
}

// WithDrivers sets the drivers in code order (first one gets code 1).
func WithDrivers(a, b model.DriverID) Option {
	return func(p *Pipeline) {
		p.drivers = [2]model.DriverID{a, b}
	}
}

func WithClampLastMinisector(clamp bool) Option {
	return func(p *Pipeline) {
		p.clamp = clamp
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		p.tracer = tracer
	}
}

func NewPipeline(opts ...Option) *Pipeline {
	ret := &Pipeline{
		minisectors: 25,
		log:         log.Default().Named("dominance"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("msd")
	}
	return ret
}

// Run segments the pooled samples of both drivers, computes the dominance per
// minisector and builds the path segments for rendering.
func (p *Pipeline) Run(ctx context.Context, samples []model.Sample) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "dominance pipeline",
		trace.WithAttributes(attribute.Int("minisectors", p.minisectors),
			attribute.Int("samples", len(samples))))
	defer span.End()

	if p.drivers[0] == "" || p.drivers[1] == "" || p.drivers[0] == p.drivers[1] {
		return nil, fmt.Errorf("%w: need two different drivers, got %v",
			model.ErrInvalidConfig, p.drivers)
	}
	length, err := MinisectorLength(samples, p.minisectors)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	segmented, err := p.segment(ctx, samples)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	stats, err := AggregateStats(segmented)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	dom := DominanceOf(stats)
	joined, err := JoinWinners(segmented, dom)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	codes := CodesFor(p.drivers[0], p.drivers[1])
	segments, err := BuildSegments(joined, codes)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	ret := &Result{
		Samples:          joined,
		Stats:            stats,
		Dominance:        dom,
		Segments:         segments,
		Codes:            codes,
		MinisectorLength: length,
	}
	p.log.Debug("dominance computed",
		log.Float64("minisectorLength", length),
		log.Int("minisectors", len(stats)),
		log.Int("segments", len(segments)),
		log.Any("wins", ret.Wins()))
	return ret, nil
}

func (p *Pipeline) segment(ctx context.Context, samples []model.Sample) (
	[]model.Sample, error,
) {
	_, span := p.tracer.Start(ctx, "segment")
	defer span.End()
	ret, err := Segment(samples, p.minisectors, WithClamp(p.clamp))
	if err != nil {
		return nil, err
	}
	if m := maxIndex(ret); m > p.minisectors {
		p.log.Debug("samples beyond last minisector", log.Int("index", m))
	}
	return ret, nil
}

func maxIndex(samples []model.Sample) int {
	ret := 0
	for i := range samples {
		ret = max(ret, samples[i].Minisector)
	}
	return ret
}
