//nolint:lll // ok for tests
package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/minisector-dominance/pkg/model"
)

func TestWinter(t *testing.T) {
	assert.Equal(t, []color.RGBA{{0, 0, 255, 255}, {0, 255, 128, 255}}, Winter(2))
	assert.Equal(t, []color.RGBA{{0, 0, 255, 255}}, Winter(1))
	assert.Nil(t, Winter(0))
	assert.Equal(t, color.RGBA{0, 255, 128, 255}, CodeColor(2, 2))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, CodeColor(0, 2))
	assert.Equal(t, "#00ff80", Hex(CodeColor(2, 2)))
}

func TestBounds(t *testing.T) {
	minP, maxP := Bounds([]model.PathSegment{
		{From: model.Point{X: 1, Y: 5}, To: model.Point{X: -2, Y: 3}},
		{From: model.Point{X: -2, Y: 3}, To: model.Point{X: 4, Y: -1}},
	})
	assert.Equal(t, model.Point{X: -2, Y: -1}, minP)
	assert.Equal(t, model.Point{X: 4, Y: 5}, maxP)
}

func TestEqualAspect(t *testing.T) {
	tests := []struct {
		name     string
		min, max model.Point
		aspect   float64
		wantMin  model.Point
		wantMax  model.Point
	}{
		{"widen x", model.Point{X: 0, Y: 0}, model.Point{X: 10, Y: 10}, 2, model.Point{X: -5, Y: 0}, model.Point{X: 15, Y: 10}},
		{"widen y", model.Point{X: 0, Y: 0}, model.Point{X: 40, Y: 10}, 2, model.Point{X: 0, Y: -5}, model.Point{X: 40, Y: 15}},
		{"unchanged", model.Point{X: 0, Y: 0}, model.Point{X: 18, Y: 10}, 1.8, model.Point{X: 0, Y: 0}, model.Point{X: 18, Y: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := EqualAspect(tt.min, tt.max, tt.aspect)
			assert.InDelta(t, tt.wantMin.X, gotMin.X, 1e-9)
			assert.InDelta(t, tt.wantMin.Y, gotMin.Y, 1e-9)
			assert.InDelta(t, tt.wantMax.X, gotMax.X, 1e-9)
			assert.InDelta(t, tt.wantMax.Y, gotMax.Y, 1e-9)
		})
	}
}
