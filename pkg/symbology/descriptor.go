package symbology

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/stylekey/pkg/errors"
)

// Bounds of the numeric fields.
const (
	MinFillDensity = 0
	MaxFillDensity = 10
	MinStrokeWidth = 0.0
	MaxStrokeWidth = 50.0
)

// Params are the raw inputs to New.
type Params struct {
	Geometry      Geometry
	FillColor     Color
	FillPattern   FillPattern
	FillDensity   int
	StrokeColor   Color
	StrokePattern StrokePattern
	StrokeWidth   float64
}

// Descriptor is a validated, immutable feature style. The zero value is not
// a valid descriptor; build one with New or FromLabels.
//
// Descriptor is comparable: == agrees with Key and Hash.
type Descriptor struct {
	geometry      Geometry
	fillColor     Color
	fillPattern   FillPattern
	fillDensity   uint8
	strokeColor   Color
	strokePattern StrokePattern
	strokeWidth   float64
}

// New validates p and returns a Descriptor. The stroke width is rounded to
// three decimal places.
func New(p Params) (Descriptor, error) {
	if !p.Geometry.Valid() {
		return Descriptor{}, errors.UnknownEnum("geometry", strconv.Itoa(int(p.Geometry)))
	}
	if !p.FillPattern.Valid() {
		return Descriptor{}, errors.UnknownEnum("fill pattern", strconv.Itoa(int(p.FillPattern)))
	}
	if !p.StrokePattern.Valid() {
		return Descriptor{}, errors.UnknownEnum("stroke pattern", strconv.Itoa(int(p.StrokePattern)))
	}
	if p.FillDensity < MinFillDensity || p.FillDensity > MaxFillDensity {
		return Descriptor{}, errors.Range("fill density", p.FillDensity,
			"must be between %d and %d", MinFillDensity, MaxFillDensity)
	}
	// Written so NaN fails too.
	if !(p.StrokeWidth >= MinStrokeWidth && p.StrokeWidth <= MaxStrokeWidth) {
		return Descriptor{}, errors.Range("stroke width", p.StrokeWidth,
			"must be between %s and %s", FormatFloat(MinStrokeWidth), FormatFloat(MaxStrokeWidth))
	}

	return Descriptor{
		geometry:      p.Geometry,
		fillColor:     p.FillColor,
		fillPattern:   p.FillPattern,
		fillDensity:   uint8(p.FillDensity),
		strokeColor:   p.StrokeColor,
		strokePattern: p.StrokePattern,
		strokeWidth:   RoundWidth(p.StrokeWidth),
	}, nil
}

// MustNew is like New but panics on error. Intended for fixtures.
func MustNew(p Params) Descriptor {
	d, err := New(p)
	if err != nil {
		panic(err)
	}
	return d
}

// RoundWidth rounds a stroke width to three decimal places.
func RoundWidth(w float64) float64 {
	r := math.Round(w*1000) / 1000
	if r == 0 {
		return 0 // drop the sign of -0
	}
	return r
}

func (d Descriptor) Geometry() Geometry           { return d.geometry }
func (d Descriptor) FillColor() Color             { return d.fillColor }
func (d Descriptor) FillPattern() FillPattern     { return d.fillPattern }
func (d Descriptor) FillDensity() int             { return int(d.fillDensity) }
func (d Descriptor) StrokeColor() Color           { return d.strokeColor }
func (d Descriptor) StrokePattern() StrokePattern { return d.strokePattern }
func (d Descriptor) StrokeWidth() float64         { return d.strokeWidth }

// Params returns the fields as Params, for building a modified copy.
func (d Descriptor) Params() Params {
	return Params{
		Geometry:      d.geometry,
		FillColor:     d.fillColor,
		FillPattern:   d.fillPattern,
		FillDensity:   int(d.fillDensity),
		StrokeColor:   d.strokeColor,
		StrokePattern: d.strokePattern,
		StrokeWidth:   d.strokeWidth,
	}
}

// IsZero reports whether d is the zero value.
func (d Descriptor) IsZero() bool { return d == Descriptor{} }

// Key is the canonical tuple of a descriptor's fields. Colors are in
// lowercase #rrggbb form.
type Key struct {
	Geometry      string
	FillColor     string
	FillPattern   string
	FillDensity   int
	StrokeColor   string
	StrokePattern string
	StrokeWidth   float64
}

// Key returns the canonical tuple used for equality and hashing.
func (d Descriptor) Key() Key {
	return Key{
		Geometry:      d.geometry.String(),
		FillColor:     d.fillColor.Hex(),
		FillPattern:   d.fillPattern.String(),
		FillDensity:   int(d.fillDensity),
		StrokeColor:   d.strokeColor.Hex(),
		StrokePattern: d.strokePattern.String(),
		StrokeWidth:   d.strokeWidth,
	}
}

// String returns the key fields joined with "|".
func (k Key) String() string {
	return strings.Join([]string{
		k.Geometry,
		k.FillColor,
		k.FillPattern,
		strconv.Itoa(k.FillDensity),
		k.StrokeColor,
		k.StrokePattern,
		FormatFloat(k.StrokeWidth),
	}, "|")
}

// Hash returns a 64-bit FNV-1a hash of the canonical key.
func (d Descriptor) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(d.Key().String()))
	return h.Sum64()
}

// Equal reports whether d and other describe the same style.
func (d Descriptor) Equal(other Descriptor) bool { return d == other }

// String implements fmt.Stringer.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s fill=%s/%s/%d stroke=%s/%s/%s",
		d.geometry, d.fillColor.Hex(), d.fillPattern, d.fillDensity,
		d.strokeColor.Hex(), d.strokePattern, FormatFloat(d.strokeWidth))
}

// MarshalJSON writes the descriptor in its labeled form.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Labels())
}

// UnmarshalJSON reads the labeled form and validates it.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var l Labels
	if err := json.Unmarshal(data, &l); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode symbology")
	}
	v, err := FromLabels(l)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// FormatFloat writes v as the shortest decimal that round-trips, always
// with at least one fractional digit ("2.0", "0.25").
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
