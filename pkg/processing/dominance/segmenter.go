package dominance

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/mpapenbr/minisector-dominance/pkg/model"
)

type (
	SegmentOption func(*segmentConfig)
	segmentConfig struct {
		clamp bool
	}
)

// WithClamp puts samples at the maximum distance into minisector n.
// Without it those samples get index n+1.
func WithClamp(clamp bool) SegmentOption {
	return func(c *segmentConfig) {
		c.clamp = clamp
	}
}

// MinisectorLength returns the length of a single minisector.
// The total distance is the maximum over all samples of both drivers.
func MinisectorLength(samples []model.Sample, n int) (float64, error) {
	if n < 1 {
		return 0, fmt.Errorf("%w: minisector count must be >= 1, got %d",
			model.ErrInvalidConfig, n)
	}
	if len(samples) == 0 {
		return 0, fmt.Errorf("%w: no samples", model.ErrEmptyTelemetry)
	}
	total := lo.MaxBy(samples, func(a, b model.Sample) bool {
		return a.Distance > b.Distance
	}).Distance
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, fmt.Errorf("%w: total distance is %v", model.ErrEmptyTelemetry, total)
	}
	return total / float64(n), nil
}

// Segment returns a copy of samples with the minisector index assigned.
// index = floor(distance / length) + 1
func Segment(samples []model.Sample, n int, opts ...SegmentOption) ([]model.Sample, error) {
	cfg := &segmentConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	length, err := MinisectorLength(samples, n)
	if err != nil {
		return nil, err
	}
	ret := make([]model.Sample, len(samples))
	for i := range samples {
		ret[i] = samples[i]
		idx := int(floorDiv(samples[i].Distance, length)) + 1
		if cfg.clamp && idx > n {
			idx = n
		}
		ret[i].Minisector = idx
	}
	return ret, nil
}

// floorDiv computes a // b the way numpy's floor_divide does for floats.
// Using math.Floor(a/b) may round up across a bin boundary where numpy does not.
func floorDiv(a, b float64) float64 {
	mod := math.Mod(a, b)
	div := (a - mod) / b
	if mod != 0 && (b < 0) != (mod < 0) {
		div -= 1.0
	}
	if div == 0 {
		return 0
	}
	floor := math.Floor(div)
	if div-floor > 0.5 {
		floor += 1.0
	}
	return floor
}
