package symbology

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/stylekey/pkg/errors"
)

// StrokePattern is the dash style of an outline.
type StrokePattern uint8

// Stroke patterns. The zero value is invalid.
const (
	StrokeSolid StrokePattern = iota + 1
	StrokeDashed
	StrokeDotted
	StrokeDashDot
	StrokeLongDash
	StrokeShortDash
	StrokeDashDotDot
	StrokeDashDotDotDot
	StrokeSparseDot
	StrokeDenseDot
	StrokeNone
)

// DashHint is a line-style hint for a 2-D vector renderer. Named hints use
// the renderer's shorthand ("-", "--", ":", "-.", "None"); the rest are
// offset/on-off tuples in points.
type DashHint struct {
	Name    string
	Offset  float64
	Pattern []float64
}

// IsNamed reports whether h is a shorthand rather than a tuple.
func (h DashHint) IsNamed() bool { return h.Name != "" }

// String returns the shorthand, or the tuple written as (0, (8, 4)).
func (h DashHint) String() string {
	if h.IsNamed() {
		return h.Name
	}
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(FormatFloat(h.Offset))
	b.WriteString(", (")
	for i, v := range h.Pattern {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(FormatFloat(v))
	}
	b.WriteString("))")
	return b.String()
}

// MarshalJSON writes named hints as strings and tuples as [offset, [on, off, ...]].
func (h DashHint) MarshalJSON() ([]byte, error) {
	if h.IsNamed() {
		return json.Marshal(h.Name)
	}
	return json.Marshal([]any{h.Offset, h.Pattern})
}

// UnmarshalJSON accepts both forms written by MarshalJSON.
func (h *DashHint) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*h = DashHint{Name: name}
		return nil
	}
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil || len(tuple) != 2 {
		return errors.New(errors.ErrCodeInvalidFormat, "dash hint must be a string or [offset, [on, off, ...]]")
	}
	var out DashHint
	if err := json.Unmarshal(tuple[0], &out.Offset); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "dash offset")
	}
	if err := json.Unmarshal(tuple[1], &out.Pattern); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "dash pattern")
	}
	*h = out
	return nil
}

// Segments returns the on/off lengths (in line-width units) to draw the
// hint with, or nil for a continuous line. The named shorthands expand to
// the renderer's default dash sequences.
func (h DashHint) Segments() []float64 {
	switch h.Name {
	case "":
		return append([]float64(nil), h.Pattern...)
	case "--":
		return []float64{3.7, 1.6}
	case ":":
		return []float64{1, 1.65}
	case "-.":
		return []float64{6.4, 1.6, 1, 1.6}
	default:
		return nil
	}
}

type strokeInfo struct {
	name  string
	code  uint8
	hint  DashHint
	glyph string
	dash  string // SLD/CSS stroke-dasharray
}

var strokes = map[StrokePattern]strokeInfo{
	StrokeSolid:         {"SOLID", 0, DashHint{Name: "-"}, "────", ""},
	StrokeDashed:        {"DASHED", 1, DashHint{Name: "--"}, "--", "5 5"},
	StrokeDotted:        {"DOTTED", 2, DashHint{Name: ":"}, "····", "1 5"},
	StrokeDashDot:       {"DASH_DOT", 3, DashHint{Name: "-."}, "-.-.", "5 5 1 5"},
	StrokeLongDash:      {"LONG_DASH", 4, DashHint{Pattern: []float64{8, 4}}, "----", "10 5"},
	StrokeShortDash:     {"SHORT_DASH", 5, DashHint{Pattern: []float64{4, 2}}, "--", "3 3"},
	StrokeDashDotDot:    {"DASH_DOT_DOT", 6, DashHint{Pattern: []float64{6, 2, 1, 2}}, "--.--", "5 5 1 5 1 5"},
	StrokeDashDotDotDot: {"DASH_DOT_DOT_DOT", 7, DashHint{Pattern: []float64{6, 2, 1, 2, 1, 2}}, "--..--", "5 5 1 5 1 5 1 5"},
	StrokeSparseDot:     {"SPARSE_DOT", 8, DashHint{Pattern: []float64{1, 4}}, ".   .", "1 10"},
	StrokeDenseDot:      {"DENSE_DOT", 9, DashHint{Pattern: []float64{1, 1}}, ".....", "1 2"},
	StrokeNone:          {"NONE", 10, DashHint{Name: "None"}, "none", ""},
}

var (
	strokeByCode = make(map[uint8]StrokePattern, len(strokes))
	strokeByName = make(map[string]StrokePattern, len(strokes))
)

func init() {
	for s, info := range strokes {
		strokeByCode[info.code] = s
		strokeByName[info.name] = s
	}
}

// StrokePatterns returns all stroke patterns in wire-code order.
func StrokePatterns() []StrokePattern {
	out := make([]StrokePattern, 0, len(strokes))
	for s := StrokeSolid; s <= StrokeNone; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s is a member of the enumeration.
func (s StrokePattern) Valid() bool {
	_, ok := strokes[s]
	return ok
}

func (s StrokePattern) String() string {
	if info, ok := strokes[s]; ok {
		return info.name
	}
	return "INVALID"
}

// Code returns the wire code (0..10).
func (s StrokePattern) Code() uint8 { return strokes[s].code }

// Hint returns the renderer dash hint.
func (s StrokePattern) Hint() DashHint {
	h := strokes[s].hint
	h.Pattern = append([]float64(nil), h.Pattern...)
	return h
}

// Glyph returns a short human-readable picture of the dash style.
func (s StrokePattern) Glyph() string { return strokes[s].glyph }

// DashArray returns the stroke-dasharray used by the styling projections.
// It is empty for SOLID and NONE.
func (s StrokePattern) DashArray() string { return strokes[s].dash }

// StrokeFromCode maps a wire code back to its stroke pattern.
func StrokeFromCode(code uint8) (StrokePattern, error) {
	if s, ok := strokeByCode[code]; ok {
		return s, nil
	}
	return 0, errors.UnknownCode("stroke pattern", int(code))
}

// ParseStrokePattern maps a label (case-insensitive, "-" or " " may stand
// in for "_") to its stroke pattern.
func ParseStrokePattern(label string) (StrokePattern, error) {
	key := strings.ToUpper(strings.TrimSpace(label))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if s, ok := strokeByName[key]; ok {
		return s, nil
	}
	return 0, errors.UnknownEnum("stroke pattern", label)
}

// MarshalText implements encoding.TextMarshaler.
func (s StrokePattern) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.New(errors.ErrCodeUnknownEnum, "stroke pattern %d is not valid", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StrokePattern) UnmarshalText(text []byte) error {
	v, err := ParseStrokePattern(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
