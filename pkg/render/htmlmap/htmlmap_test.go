package htmlmap

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/minisector-dominance/pkg/model"
	"github.com/mpapenbr/minisector-dominance/pkg/render"
)

func TestRender(t *testing.T) {
	segments := []model.PathSegment{
		{From: model.Point{X: 0, Y: 0}, To: model.Point{X: 10, Y: 0}, Minisector: 1, Code: 1},
		{From: model.Point{X: 10, Y: 0}, To: model.Point{X: 10, Y: 10}, Minisector: 2, Code: 2},
	}
	legend := []render.LegendEntry{{Code: 1, Driver: "NOR"}, {Code: 2, Driver: "PIA"}}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, segments, legend, WithTitle("2024 Belgium Q", "NOR vs PIA")))
	html := buf.String()
	assert.Contains(t, html, "2024 Belgium Q")
	assert.Contains(t, html, "NOR")
	assert.Contains(t, html, "PIA")
	assert.Contains(t, html, "#00ff80")

	assert.ErrorIs(t, Render(&buf, nil, legend), model.ErrRenderFailure)

	err := RenderFile(filepath.Join(t.TempDir(), "nope", "x.html"), segments, legend)
	assert.ErrorIs(t, err, model.ErrRenderFailure)
	require.NoError(t, RenderFile(filepath.Join(t.TempDir(), "x.html"), segments, legend))
}
