package symbology

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/stylekey/pkg/errors"
)

// Color is a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// RGB builds a Color from its channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex returns the canonical lowercase #rrggbb form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBString returns the color as rgb(r, g, b).
func (c Color) RGBString() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// String returns the canonical hex form.
func (c Color) String() string { return c.Hex() }

// Float returns the channels scaled to [0,1].
func (c Color) Float() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

var (
	rgbFuncRegex = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*[\d.]+\s*)?\)$`)
	tripletRegex = regexp.MustCompile(`^(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})$`)
	hexRegex     = regexp.MustCompile(`^#?(?:[0-9a-f]{3}|[0-9a-f]{6})$`)
)

// ParseColor accepts #rgb, #rrggbb (the # is optional), rgb(r, g, b),
// rgba(r, g, b, a) with the alpha ignored, a bare r,g,b triplet and CSS
// color names. Matching is case-insensitive.
func ParseColor(s string) (Color, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return Color{}, errors.Field(errors.ErrCodeInvalidColor, "color", `""`, "empty color")
	}

	if m := rgbFuncRegex.FindStringSubmatch(in); m != nil {
		return channels(s, m[1:])
	}
	if m := tripletRegex.FindStringSubmatch(in); m != nil {
		return channels(s, m[1:])
	}
	if hexRegex.MatchString(in) {
		if !strings.HasPrefix(in, "#") {
			in = "#" + in
		}
		c, err := colorful.Hex(in)
		if err != nil {
			return Color{}, errors.Field(errors.ErrCodeInvalidColor, "color", fmt.Sprintf("%q", s), "%v", err)
		}
		r, g, b := c.RGB255()
		return RGB(r, g, b), nil
	}
	if named, ok := colornames.Map[in]; ok {
		return RGB(named.R, named.G, named.B), nil
	}
	return Color{}, errors.Field(errors.ErrCodeInvalidColor, "color", fmt.Sprintf("%q", s), "not a hex, rgb() or named color")
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func channels(raw string, parts []string) (Color, error) {
	var out [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n > 255 {
			return Color{}, errors.Field(errors.ErrCodeInvalidColor, "color", fmt.Sprintf("%q", raw), "channel %s out of range 0-255", p)
		}
		out[i] = uint8(n)
	}
	return RGB(out[0], out[1], out[2]), nil
}
