package preview

import (
	"github.com/matzehuels/stylekey/pkg/project"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

// pxPerPoint converts renderer line widths (points) to pixels at 100 dpi.
const pxPerPoint = 100.0 / 72.0

// hatchLineWidth is the hatch stroke width in points.
const hatchLineWidth = 1.0

// Shape placement in unit canvas coordinates (origin top-left).
const (
	rectX, rectY, rectW, rectH = 0.2, 0.2, 0.6, 0.6
	lineX0, lineX1, lineY      = 0.1, 0.9, 0.5
	pointX, pointY             = 0.5, 0.5
	minPointRadius             = 0.05
	maxPointRadius             = 0.45
)

// plan is what to draw, resolved from render parameters. Colors are nil
// when the corresponding layer is not painted.
type plan struct {
	geometry  symbology.Geometry
	face      *symbology.Color
	edge      *symbology.Color
	hatch     string
	lineWidth float64   // points, 0 without an outline
	dashes    []float64 // on/off lengths in line-width units
	radius    float64   // point radius as a fraction of the canvas
}

func newPlan(d symbology.Descriptor) plan {
	p := project.Render(d)
	pl := plan{geometry: d.Geometry()}
	// Only rectangles are hatched; point marks are drawn plain.
	if pl.geometry == symbology.Polygon {
		pl.hatch = p.Hatch
	}
	if p.FaceColor != "" && p.FaceColor != project.FaceNone {
		pl.face = mustColor(p.FaceColor)
	}
	if p.EdgeColor != "" {
		pl.edge = mustColor(p.EdgeColor)
	}
	if p.LineWidth != nil {
		pl.lineWidth = *p.LineWidth
	}
	if p.LineStyle != nil {
		pl.dashes = p.LineStyle.Segments()
	}

	lw := 1.0
	if p.LineWidth != nil {
		lw = *p.LineWidth
	}
	r := lw / 20
	if p.Radius != nil {
		r = *p.Radius / 20
	}
	pl.radius = min(max(r, minPointRadius), maxPointRadius)
	return pl
}

// outlined reports whether the shape outline is stroked.
func (p plan) outlined() bool {
	return p.edge != nil && p.lineWidth > 0
}

func mustColor(hex string) *symbology.Color {
	c := symbology.MustParseColor(hex)
	return &c
}
