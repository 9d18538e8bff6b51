// Package record packs a symbology descriptor into a fixed 13-byte record.
//
// Layout (big-endian, one field after another):
//
//	offset  size  field
//	0       1     geometry code (0..2)
//	1       3     fill color r, g, b
//	4       1     fill pattern code (0..11)
//	5       1     fill density (0..10)
//	6       3     stroke color r, g, b
//	9       1     stroke pattern code (0..10)
//	10      2     stroke width in thousandths (0..50000)
//	12      1     reserved, written as 0 and ignored on read
//
// The token codec's fixed width depends on byte 0 staying below 3: the
// largest record then stays under 3·2^96, well inside 17 base-62 digits.
// Widening the geometry code range requires re-checking that bound.
package record

import (
	"encoding/binary"
	"math"

	"github.com/matzehuels/stylekey/pkg/errors"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

// Size is the length of a packed record in bytes.
const Size = 13

// MaxWidthMillis is the largest stroke width accepted on unpack.
const MaxWidthMillis = 50000

// Byte offsets.
const (
	offGeometry    = 0
	offFillColor   = 1
	offFillPattern = 4
	offDensity     = 5
	offStrokeColor = 6
	offStroke      = 9
	offWidth       = 10
	offReserved    = 12
)

// Record is a packed descriptor.
type Record [Size]byte

// Pack lays out d as a 13-byte record.
func Pack(d symbology.Descriptor) Record {
	var r Record
	r[offGeometry] = d.Geometry().Code()

	fc := d.FillColor()
	r[offFillColor], r[offFillColor+1], r[offFillColor+2] = fc.R, fc.G, fc.B
	r[offFillPattern] = d.FillPattern().Code()
	r[offDensity] = uint8(d.FillDensity())

	sc := d.StrokeColor()
	r[offStrokeColor], r[offStrokeColor+1], r[offStrokeColor+2] = sc.R, sc.G, sc.B
	r[offStroke] = d.StrokePattern().Code()

	binary.BigEndian.PutUint16(r[offWidth:], WidthMillis(d.StrokeWidth()))
	r[offReserved] = 0
	return r
}

// WidthMillis converts a stroke width to thousandths, clamped to uint16.
func WidthMillis(w float64) uint16 {
	m := math.Round(w * 1000)
	switch {
	case !(m > 0):
		return 0
	case m > math.MaxUint16:
		return math.MaxUint16
	default:
		return uint16(m)
	}
}

// Bytes returns the record as a fresh slice.
func (r Record) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, r[:])
	return out
}

// Unpack rebuilds a descriptor from a packed record.
//
// Checks run in a fixed order: length, then numeric ranges (density and
// width), then enumeration codes.
func Unpack(b []byte) (symbology.Descriptor, error) {
	if len(b) != Size {
		return symbology.Descriptor{}, errors.Length("record", len(b), Size)
	}

	density := b[offDensity]
	if density > symbology.MaxFillDensity {
		return symbology.Descriptor{}, errors.Range("fill density", int(density),
			"must be between %d and %d", symbology.MinFillDensity, symbology.MaxFillDensity)
	}
	millis := binary.BigEndian.Uint16(b[offWidth:])
	if millis > MaxWidthMillis {
		return symbology.Descriptor{}, errors.Range("stroke width millis", int(millis),
			"must be at most %d", MaxWidthMillis)
	}

	geom, err := symbology.GeometryFromCode(b[offGeometry])
	if err != nil {
		return symbology.Descriptor{}, err
	}
	fill, err := symbology.FillFromCode(b[offFillPattern])
	if err != nil {
		return symbology.Descriptor{}, err
	}
	stroke, err := symbology.StrokeFromCode(b[offStroke])
	if err != nil {
		return symbology.Descriptor{}, err
	}

	return symbology.New(symbology.Params{
		Geometry:      geom,
		FillColor:     symbology.RGB(b[offFillColor], b[offFillColor+1], b[offFillColor+2]),
		FillPattern:   fill,
		FillDensity:   int(density),
		StrokeColor:   symbology.RGB(b[offStrokeColor], b[offStrokeColor+1], b[offStrokeColor+2]),
		StrokePattern: stroke,
		StrokeWidth:   float64(millis) / 1000,
	})
}
