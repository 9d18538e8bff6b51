package preview

import "math"

// hatchSpacing is the distance between hatch repeats for a single glyph, as
// a fraction of the canvas. Repeating the glyph divides it.
const hatchSpacing = 0.1

type segment struct{ x0, y0, x1, y1 float64 }

type mark struct {
	x, y, r float64
	filled  bool
}

// hatchPattern is the set of primitives tiling one box.
type hatchPattern struct {
	lines []segment
	marks []mark
}

// buildHatch tiles the box (x, y, w, h) with the glyph of hatch. The glyph
// count sets the density. Unknown glyphs produce an empty pattern.
func buildHatch(hatch string, x, y, w, h float64) hatchPattern {
	var hp hatchPattern
	if hatch == "" {
		return hp
	}
	glyph := hatch[0]
	s := hatchSpacing / float64(len(hatch))

	switch glyph {
	case '/':
		hp.lines = diagonals(x, y, w, h, s, true)
	case '\\':
		hp.lines = diagonals(x, y, w, h, s, false)
	case '|':
		hp.lines = verticals(x, y, w, h, s)
	case '-':
		hp.lines = horizontals(x, y, w, h, s)
	case '+':
		hp.lines = append(verticals(x, y, w, h, s), horizontals(x, y, w, h, s)...)
	case 'x':
		hp.lines = append(diagonals(x, y, w, h, s, true), diagonals(x, y, w, h, s, false)...)
	case 'o':
		hp.marks = grid(x, y, w, h, s, 0.2*s, false)
	case 'O':
		hp.marks = grid(x, y, w, h, s, 0.4*s, false)
	case '.':
		hp.marks = grid(x, y, w, h, s, 0.1*s, true)
	case '*':
		for _, m := range grid(x, y, w, h, s, 0.3*s, false) {
			hp.lines = append(hp.lines, asterisk(m.x, m.y, m.r)...)
		}
	}
	return hp
}

// diagonals covers the box with 45° lines; rising lines run bottom-left to
// top-right in screen space.
func diagonals(x, y, w, h, s float64, rising bool) []segment {
	var out []segment
	for c := -h; c <= w; c += s {
		if rising {
			out = append(out, segment{x + c, y + h, x + c + h, y})
		} else {
			out = append(out, segment{x + c, y, x + c + h, y + h})
		}
	}
	return out
}

func verticals(x, y, w, h, s float64) []segment {
	var out []segment
	for c := s / 2; c < w; c += s {
		out = append(out, segment{x + c, y, x + c, y + h})
	}
	return out
}

func horizontals(x, y, w, h, s float64) []segment {
	var out []segment
	for c := s / 2; c < h; c += s {
		out = append(out, segment{x, y + c, x + w, y + c})
	}
	return out
}

func grid(x, y, w, h, s, r float64, filled bool) []mark {
	var out []mark
	for cy := s / 2; cy < h; cy += s {
		for cx := s / 2; cx < w; cx += s {
			out = append(out, mark{x + cx, y + cy, r, filled})
		}
	}
	return out
}

// asterisk is three crossing strokes of half-length r centred on (x, y).
func asterisk(x, y, r float64) []segment {
	out := make([]segment, 0, 3)
	for i := range 3 {
		a := math.Pi/2 + float64(i)*math.Pi/3
		dx, dy := r*math.Cos(a), r*math.Sin(a)
		out = append(out, segment{x - dx, y - dy, x + dx, y + dy})
	}
	return out
}
