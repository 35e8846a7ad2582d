//nolint:funlen,lll // ok for tests
package dominance

import (
	"cmp"
	"slices"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/minisector-dominance/pkg/model"
	"github.com/mpapenbr/minisector-dominance/testsupport/basedata"
)

func samplesAt(driver model.DriverID, distances ...float64) []model.Sample {
	return lo.Map(distances, func(d float64, _ int) model.Sample {
		return model.Sample{Distance: d, Driver: driver, Speed: 100}
	})
}

func TestMinisectorLength(t *testing.T) {
	tests := []struct {
		name    string
		samples []model.Sample
		n       int
		want    float64
		wantErr error
	}{
		{"pooled max", basedata.Pooled(samplesAt("A", 0, 500), samplesAt("B", 0, 1000)), 25, 40, nil},
		{"single bin", samplesAt("A", 0, 10), 1, 10, nil},
		{"no bins", samplesAt("A", 0, 10), 0, 0, model.ErrInvalidConfig},
		{"no samples", nil, 25, 0, model.ErrEmptyTelemetry},
		{"zero distance", samplesAt("A", 0, 0), 25, 0, model.ErrEmptyTelemetry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MinisectorLength(tt.samples, tt.n)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSegment_Boundaries(t *testing.T) {
	in := samplesAt("A", 0, 39.999, 40, 520, 999, 1000)
	tests := []struct {
		name  string
		clamp bool
		want  []int
	}{
		{"reference", false, []int{1, 1, 2, 14, 25, 26}},
		{"clamped", true, []int{1, 1, 2, 14, 25, 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Segment(in, 25, WithClamp(tt.clamp))
			require.NoError(t, err)
			assert.Equal(t, tt.want, lo.Map(got, func(s model.Sample, _ int) int {
				return s.Minisector
			}))
		})
	}
}

func TestSegment_DoesNotModifyInput(t *testing.T) {
	in := samplesAt("A", 0, 500, 1000)
	_, err := Segment(in, 25)
	require.NoError(t, err)
	for _, s := range in {
		assert.Zero(t, s.Minisector)
	}
}

func TestSegment_Properties(t *testing.T) {
	samples := basedata.Pooled(
		basedata.LinearLap("A", 137, 7004, 200),
		basedata.LinearLap("B", 151, 6998, 180),
	)
	for _, n := range []int{1, 2, 7, 25, 100} {
		got, err := Segment(samples, n)
		require.NoError(t, err)
		require.Len(t, got, len(samples))

		sorted := slices.Clone(got)
		slices.SortStableFunc(sorted, func(a, b model.Sample) int {
			return cmp.Compare(a.Distance, b.Distance)
		})
		for i := range sorted {
			assert.GreaterOrEqual(t, sorted[i].Minisector, 1)
			assert.LessOrEqual(t, sorted[i].Minisector, n+1)
			if i > 0 && sorted[i].Distance > sorted[i-1].Distance {
				assert.GreaterOrEqual(t, sorted[i].Minisector, sorted[i-1].Minisector)
			}
		}
		distinct := lo.Uniq(lo.Map(got, func(s model.Sample, _ int) int { return s.Minisector }))
		assert.LessOrEqual(t, len(distinct), n+1)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b float64
		want float64
	}{
		{0, 40, 0},
		{40, 40, 1},
		{7.5, 2.5, 3},
		{999.9999, 40, 24},
		{1000, 40, 25},
		{1, 0.1, 9}, // plain a/b would give 10
		{-1, 40, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, floorDiv(tt.a, tt.b), "%v // %v", tt.a, tt.b)
	}
}
