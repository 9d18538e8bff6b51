package symbology

import (
	"strings"

	"github.com/matzehuels/stylekey/pkg/errors"
)

// FillPattern is how the interior of a polygon (or a point mark) is painted.
type FillPattern uint8

// Fill patterns. The zero value is invalid.
const (
	FillSolid FillPattern = iota + 1
	FillNone
	FillSlash
	FillBackslash
	FillPipe
	FillDash
	FillPlus
	FillX
	FillSmallCircle
	FillLargeCircle
	FillDot
	FillStar
)

type fillInfo struct {
	name  string // canonical label
	code  uint8  // wire code
	glyph string // hatch glyph, or a sentinel for solid and no fill
	mark  string // SLD well-known mark name for GraphicFill
	css   string // GeoServer CSS symbol() argument
}

var fills = map[FillPattern]fillInfo{
	FillSolid:       {name: "SOLID", code: 0, glyph: "SOLID"},
	FillNone:        {name: "NOBRUSH", code: 1, glyph: "NOBRUSH"},
	FillSlash:       {name: "SLASH", code: 2, glyph: "/", mark: "shape://slash", css: "shape://slash"},
	FillBackslash:   {name: "BACKSLASH", code: 3, glyph: `\`, mark: "shape://backslash", css: "shape://backslash"},
	FillPipe:        {name: "PIPE", code: 4, glyph: "|", mark: "shape://vertline", css: "shape://vertline"},
	FillDash:        {name: "DASH", code: 5, glyph: "-", mark: "shape://horline", css: "shape://horline"},
	FillPlus:        {name: "PLUS", code: 6, glyph: "+", mark: "shape://plus", css: "shape://plus"},
	FillX:           {name: "X", code: 7, glyph: "x", mark: "shape://times", css: "shape://times"},
	FillSmallCircle: {name: "O_LOWER", code: 8, glyph: "o", mark: "circle", css: "circle"},
	FillLargeCircle: {name: "O_UPPER", code: 9, glyph: "O", mark: "circle", css: "circle"},
	FillDot:         {name: "DOT", code: 10, glyph: ".", mark: "circle", css: "circle"},
	FillStar:        {name: "STAR", code: 11, glyph: "*", mark: "star", css: "star"},
}

// fillAliases are accepted labels that are not canonical names.
var fillAliases = map[string]FillPattern{
	"NONE": FillNone,
}

var (
	fillByCode  = make(map[uint8]FillPattern, len(fills))
	fillByName  = make(map[string]FillPattern, len(fills))
	fillByGlyph = make(map[string]FillPattern, len(fills))
)

func init() {
	for f, info := range fills {
		fillByCode[info.code] = f
		fillByName[info.name] = f
		if f.IsHatch() {
			fillByGlyph[info.glyph] = f
		}
	}
}

// FillPatterns returns all fill patterns in wire-code order.
func FillPatterns() []FillPattern {
	out := make([]FillPattern, 0, len(fills))
	for f := FillSolid; f <= FillStar; f++ {
		out = append(out, f)
	}
	return out
}

// Valid reports whether f is a member of the enumeration.
func (f FillPattern) Valid() bool {
	_, ok := fills[f]
	return ok
}

// String returns the canonical label.
func (f FillPattern) String() string {
	if info, ok := fills[f]; ok {
		return info.name
	}
	return "INVALID"
}

// Code returns the wire code (0..11).
func (f FillPattern) Code() uint8 {
	return fills[f].code
}

// IsHatch reports whether f is one of the ten hatch glyph patterns.
func (f FillPattern) IsHatch() bool {
	return f.Valid() && f != FillSolid && f != FillNone
}

// Glyph returns the single-character hatch glyph, or the SOLID/NOBRUSH sentinel.
func (f FillPattern) Glyph() string {
	return fills[f].glyph
}

// Mark returns the SLD well-known mark used to tile a hatch fill.
// It is empty for SOLID and NOBRUSH.
func (f FillPattern) Mark() string {
	return fills[f].mark
}

// CSSSymbol returns the GeoServer CSS symbol name used for a hatch fill.
// It is empty for SOLID and NOBRUSH.
func (f FillPattern) CSSSymbol() string {
	return fills[f].css
}

// FillFromCode maps a wire code back to its fill pattern.
func FillFromCode(code uint8) (FillPattern, error) {
	if f, ok := fillByCode[code]; ok {
		return f, nil
	}
	return 0, errors.UnknownCode("fill pattern", int(code))
}

// ParseFillPattern maps a label to its fill pattern. Hatch glyphs are matched
// exactly ("o" and "O" differ); names and the NONE alias are case-insensitive.
func ParseFillPattern(label string) (FillPattern, error) {
	if f, ok := fillByGlyph[label]; ok {
		return f, nil
	}
	key := strings.ToUpper(strings.TrimSpace(label))
	if f, ok := fillByName[key]; ok {
		return f, nil
	}
	if f, ok := fillAliases[key]; ok {
		return f, nil
	}
	return 0, errors.UnknownEnum("fill pattern", label)
}

// MarshalText implements encoding.TextMarshaler.
func (f FillPattern) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, errors.New(errors.ErrCodeUnknownEnum, "fill pattern %d is not valid", uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FillPattern) UnmarshalText(text []byte) error {
	v, err := ParseFillPattern(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
