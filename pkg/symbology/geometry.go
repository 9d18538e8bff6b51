package symbology

import (
	"strings"

	"github.com/matzehuels/stylekey/pkg/errors"
)

// Geometry is the class of feature a style applies to.
type Geometry uint8

// Geometry classes. The zero value is invalid.
const (
	Polygon Geometry = iota + 1
	Line
	Point
)

type geometryInfo struct {
	name string
	code uint8
}

var geometries = map[Geometry]geometryInfo{
	Polygon: {name: "POLYGON", code: 0},
	Line:    {name: "LINE", code: 1},
	Point:   {name: "POINT", code: 2},
}

var (
	geometryByCode = make(map[uint8]Geometry, len(geometries))
	geometryByName = make(map[string]Geometry, len(geometries))
)

func init() {
	for g, info := range geometries {
		geometryByCode[info.code] = g
		geometryByName[info.name] = g
	}
}

// Geometries returns all geometry classes in wire-code order.
func Geometries() []Geometry {
	return []Geometry{Polygon, Line, Point}
}

// Valid reports whether g is a member of the enumeration.
func (g Geometry) Valid() bool {
	_, ok := geometries[g]
	return ok
}

// String returns the canonical label (POLYGON, LINE, POINT).
func (g Geometry) String() string {
	if info, ok := geometries[g]; ok {
		return info.name
	}
	return "INVALID"
}

// Code returns the wire code stored in the first byte of a packed record.
// Codes are confined to 0..2; the token width depends on it.
func (g Geometry) Code() uint8 {
	return geometries[g].code
}

// GeometryFromCode maps a wire code back to its geometry class.
func GeometryFromCode(code uint8) (Geometry, error) {
	if g, ok := geometryByCode[code]; ok {
		return g, nil
	}
	return 0, errors.UnknownCode("geometry", int(code))
}

// ParseGeometry maps a label (case-insensitive) to its geometry class.
func ParseGeometry(label string) (Geometry, error) {
	if g, ok := geometryByName[strings.ToUpper(strings.TrimSpace(label))]; ok {
		return g, nil
	}
	return 0, errors.UnknownEnum("geometry", label)
}

// MarshalText implements encoding.TextMarshaler.
func (g Geometry) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, errors.New(errors.ErrCodeUnknownEnum, "geometry %d is not valid", uint8(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Geometry) UnmarshalText(text []byte) error {
	v, err := ParseGeometry(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}
