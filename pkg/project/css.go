package project

import (
	"fmt"
	"strings"

	"github.com/matzehuels/stylekey/pkg/symbology"
)

// CSS renders d as a GeoServer CSS stylesheet: a single "* { ... }" block,
// one declaration per line.
func CSS(d symbology.Descriptor) []byte {
	w := cssWriter{}
	w.open()

	switch d.Geometry() {
	case symbology.Polygon:
		switch fill := d.FillPattern(); fill {
		case symbology.FillNone:
			w.decl("fill", "#000000")
			w.decl("fill-opacity", "0")
		case symbology.FillSolid:
			w.decl("fill", d.FillColor().Hex())
			w.decl("fill-opacity", "1")
		default:
			w.decl("fill", cssSymbol(fill))
			w.decl("fill-color", d.FillColor().Hex())
		}
		w.stroke(d, "stroke", true)

	case symbology.Line:
		w.stroke(d, "stroke", true)

	case symbology.Point:
		w.decl("mark", "symbol(circle)")
		if d.FillPattern() == symbology.FillNone {
			w.decl("mark-fill", "#000000")
			w.decl("mark-fill-opacity", "0")
		} else {
			w.decl("mark-fill", d.FillColor().Hex())
			w.decl("mark-fill-opacity", "1")
		}
		w.stroke(d, "mark-stroke", false)
		w.decl("mark-size", pointSize(d.StrokeWidth()))
	}

	w.close()
	return []byte(strings.Join(w.lines, "\n"))
}

func cssSymbol(fill symbology.FillPattern) string {
	return fmt.Sprintf("symbol('%s')", fill.CSSSymbol())
}

type cssWriter struct {
	lines []string
}

func (w *cssWriter) open()  { w.lines = append(w.lines, "* {") }
func (w *cssWriter) close() { w.lines = append(w.lines, "}") }

func (w *cssWriter) decl(prop, value string) {
	w.lines = append(w.lines, fmt.Sprintf("  %s: %s;", prop, value))
}

// stroke writes the outline declarations under prefix, or "prefix: none"
// when the stroke pattern is NONE.
func (w *cssWriter) stroke(d symbology.Descriptor, prefix string, dashes bool) {
	s := d.StrokePattern()
	if s == symbology.StrokeNone {
		w.decl(prefix, "none")
		return
	}
	w.decl(prefix, d.StrokeColor().Hex())
	w.decl(prefix+"-width", symbology.FormatFloat(d.StrokeWidth()))
	if dash := s.DashArray(); dashes && dash != "" {
		w.decl(prefix+"-dasharray", dash)
	}
}
