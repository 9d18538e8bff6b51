package project

import (
	"strings"

	"github.com/matzehuels/stylekey/pkg/symbology"
)

// FaceNone is the facecolor used when a hatch carries the fill color.
const FaceNone = "none"

// RenderParams are flat drawing parameters for a 2-D vector renderer,
// named after matplotlib patch keyword arguments. Unset fields are nil or
// empty and are omitted from JSON.
type RenderParams struct {
	Fill      *bool               `json:"fill,omitempty"`
	FaceColor string              `json:"facecolor,omitempty"`
	EdgeColor string              `json:"edgecolor,omitempty"`
	Hatch     string              `json:"hatch,omitempty"`
	LineWidth *float64            `json:"linewidth,omitempty"`
	LineStyle *symbology.DashHint `json:"linestyle,omitempty"`
	Radius    *float64            `json:"radius,omitempty"`
}

// Filled reports whether the interior is painted (solid or hatched).
func (p RenderParams) Filled() bool { return p.Fill != nil && *p.Fill }

// Stroked reports whether an outline is drawn.
func (p RenderParams) Stroked() bool { return p.LineWidth != nil }

// Map returns the set parameters keyed by their JSON names.
func (p RenderParams) Map() map[string]any {
	m := make(map[string]any, 7)
	if p.Fill != nil {
		m["fill"] = *p.Fill
	}
	if p.FaceColor != "" {
		m["facecolor"] = p.FaceColor
	}
	if p.EdgeColor != "" {
		m["edgecolor"] = p.EdgeColor
	}
	if p.Hatch != "" {
		m["hatch"] = p.Hatch
	}
	if p.LineWidth != nil {
		m["linewidth"] = *p.LineWidth
	}
	if p.LineStyle != nil {
		m["linestyle"] = p.LineStyle.String()
	}
	if p.Radius != nil {
		m["radius"] = *p.Radius
	}
	return m
}

// MinPointRadius is the smallest radius derived for a stroked point.
const MinPointRadius = 2.0

// Render projects d onto renderer parameters.
//
// NOBRUSH sets fill=false with no face color. SOLID paints the face with the
// fill color. Hatches leave the face empty and draw the glyph (repeated density
// times when density > 1) in the fill color via the edge slot. A stroke
// other than NONE then sets the edge color, width and dash hint, taking
// over the edge slot from the hatch.
//
// Lines never fill: fill, face color and hatch are dropped, and without a
// stroke no edge color is left either. Stroked points get a radius of
// max(2, 2*width).
func Render(d symbology.Descriptor) RenderParams {
	var p RenderParams

	fill := d.FillPattern()
	switch {
	case fill == symbology.FillNone:
		p.Fill = boolPtr(false)
	case fill == symbology.FillSolid:
		p.Fill = boolPtr(true)
		p.FaceColor = d.FillColor().Hex()
	default:
		p.Fill = boolPtr(true)
		p.FaceColor = FaceNone
		p.EdgeColor = d.FillColor().Hex()
		p.Hatch = hatch(fill, d.FillDensity())
	}

	if d.StrokePattern() != symbology.StrokeNone {
		hint := d.StrokePattern().Hint()
		p.EdgeColor = d.StrokeColor().Hex()
		p.LineWidth = floatPtr(d.StrokeWidth())
		p.LineStyle = &hint
	}

	switch d.Geometry() {
	case symbology.Line:
		p.Fill = nil
		p.FaceColor = ""
		p.Hatch = ""
		if !p.Stroked() {
			p.EdgeColor = ""
		}
	case symbology.Point:
		if p.Stroked() {
			p.Radius = floatPtr(max(MinPointRadius, d.StrokeWidth()*2))
		}
	}
	return p
}

func hatch(fill symbology.FillPattern, density int) string {
	g := fill.Glyph()
	if density <= 1 {
		return g
	}
	return strings.Repeat(g, density)
}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
