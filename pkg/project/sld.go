package project

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/stylekey/pkg/symbology"
)

// XMLHeader opens every SLD document.
const XMLHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Defaults for the SLD and upload projections.
const (
	DefaultLayerName = "layer"
	DefaultRuleStyle = "style"
)

const (
	nsSLD          = "http://www.opengis.net/sld"
	nsOGC          = "http://www.opengis.net/ogc"
	nsXLink        = "http://www.w3.org/1999/xlink"
	nsXSI          = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation = "http://www.opengis.net/sld http://schemas.opengis.net/sld/1.0.0/StyledLayerDescriptor.xsd"
)

// Minimum sizes for graphic fills and point marks.
const (
	MinHatchSize = 4
	MinPointSize = 6.0
)

// ==============================================================================
// Document structure
// ==============================================================================

type sldDocument struct {
	XMLName        xml.Name      `xml:"sld:StyledLayerDescriptor"`
	Version        string        `xml:"version,attr"`
	XmlnsSLD       string        `xml:"xmlns:sld,attr"`
	XmlnsOGC       string        `xml:"xmlns:ogc,attr"`
	XmlnsXLink     string        `xml:"xmlns:xlink,attr"`
	XmlnsXSI       string        `xml:"xmlns:xsi,attr"`
	SchemaLocation string        `xml:"xsi:schemaLocation,attr"`
	NamedLayer     sldNamedLayer `xml:"sld:NamedLayer"`
}

type sldNamedLayer struct {
	Name      string       `xml:"sld:Name"`
	UserStyle sldUserStyle `xml:"sld:UserStyle"`
}

type sldUserStyle struct {
	Name             string              `xml:"sld:Name"`
	FeatureTypeStyle sldFeatureTypeStyle `xml:"sld:FeatureTypeStyle"`
}

type sldFeatureTypeStyle struct {
	Rule sldRule `xml:"sld:Rule"`
}

type sldRule struct {
	Polygon *sldPolygonSymbolizer `xml:"sld:PolygonSymbolizer,omitempty"`
	Line    *sldLineSymbolizer    `xml:"sld:LineSymbolizer,omitempty"`
	Point   *sldPointSymbolizer   `xml:"sld:PointSymbolizer,omitempty"`
}

type sldPolygonSymbolizer struct {
	Fill   *sldFill   `xml:"sld:Fill,omitempty"`
	Stroke *sldStroke `xml:"sld:Stroke,omitempty"`
}

type sldLineSymbolizer struct {
	Stroke *sldStroke `xml:"sld:Stroke,omitempty"`
}

type sldPointSymbolizer struct {
	Graphic sldGraphic `xml:"sld:Graphic"`
}

type sldFill struct {
	GraphicFill *sldGraphicFill `xml:"sld:GraphicFill,omitempty"`
	Params      []sldCSSParam   `xml:"sld:CssParameter"`
}

type sldGraphicFill struct {
	Graphic sldGraphic `xml:"sld:Graphic"`
}

type sldGraphic struct {
	Mark sldMark `xml:"sld:Mark"`
	Size string  `xml:"sld:Size"`
}

type sldMark struct {
	WellKnownName string     `xml:"sld:WellKnownName"`
	Fill          *sldFill   `xml:"sld:Fill,omitempty"`
	Stroke        *sldStroke `xml:"sld:Stroke,omitempty"`
}

type sldStroke struct {
	Params []sldCSSParam `xml:"sld:CssParameter"`
}

type sldCSSParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// ==============================================================================
// Projection
// ==============================================================================

// SLDOption configures SLD output.
type SLDOption func(*sldConfig)

type sldConfig struct {
	layerName string
	styleName string
}

// WithLayerName sets the NamedLayer name. It is inserted verbatim (XML
// escaped). Empty names fall back to DefaultLayerName.
func WithLayerName(name string) SLDOption {
	return func(c *sldConfig) {
		if name != "" {
			c.layerName = name
		}
	}
}

// WithRuleStyleName sets the UserStyle name.
func WithRuleStyleName(name string) SLDOption {
	return func(c *sldConfig) {
		if name != "" {
			c.styleName = name
		}
	}
}

// SLD renders d as a Styled Layer Descriptor 1.0.0 document with one rule
// and one symbolizer chosen by geometry.
func SLD(d symbology.Descriptor, opts ...SLDOption) []byte {
	cfg := sldConfig{layerName: DefaultLayerName, styleName: DefaultRuleStyle}
	for _, opt := range opts {
		opt(&cfg)
	}

	var rule sldRule
	switch d.Geometry() {
	case symbology.Polygon:
		rule.Polygon = &sldPolygonSymbolizer{Fill: polygonFill(d), Stroke: stroke(d, true)}
	case symbology.Line:
		rule.Line = &sldLineSymbolizer{Stroke: stroke(d, true)}
	case symbology.Point:
		rule.Point = &sldPointSymbolizer{Graphic: sldGraphic{
			Mark: sldMark{
				WellKnownName: "circle",
				Fill:          markFill(d),
				Stroke:        stroke(d, false),
			},
			Size: pointSize(d.StrokeWidth()),
		}}
	}

	doc := sldDocument{
		Version:        "1.0.0",
		XmlnsSLD:       nsSLD,
		XmlnsOGC:       nsOGC,
		XmlnsXLink:     nsXLink,
		XmlnsXSI:       nsXSI,
		SchemaLocation: schemaLocation,
		NamedLayer: sldNamedLayer{
			Name: cfg.layerName,
			UserStyle: sldUserStyle{
				Name:             cfg.styleName,
				FeatureTypeStyle: sldFeatureTypeStyle{Rule: rule},
			},
		},
	}

	var buf bytes.Buffer
	buf.WriteString(XMLHeader)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		// Only reachable if the document types above are malformed.
		panic(fmt.Sprintf("project: encode SLD: %v", err))
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

func polygonFill(d symbology.Descriptor) *sldFill {
	switch fill := d.FillPattern(); fill {
	case symbology.FillNone:
		return transparentFill()
	case symbology.FillSolid:
		return opaqueFill(d.FillColor())
	default:
		return &sldFill{GraphicFill: &sldGraphicFill{Graphic: sldGraphic{
			Mark: sldMark{
				WellKnownName: fill.Mark(),
				Fill:          &sldFill{Params: []sldCSSParam{{"fill", d.FillColor().Hex()}}},
			},
			Size: strconv.Itoa(hatchSize(d.FillDensity())),
		}}}
	}
}

// markFill is the point variant: any fill other than NOBRUSH is solid.
func markFill(d symbology.Descriptor) *sldFill {
	if d.FillPattern() == symbology.FillNone {
		return transparentFill()
	}
	return opaqueFill(d.FillColor())
}

func transparentFill() *sldFill {
	return &sldFill{Params: []sldCSSParam{{"fill", "#000000"}, {"fill-opacity", "0"}}}
}

func opaqueFill(c symbology.Color) *sldFill {
	return &sldFill{Params: []sldCSSParam{{"fill", c.Hex()}, {"fill-opacity", "1"}}}
}

// stroke returns nil when the stroke pattern is NONE.
func stroke(d symbology.Descriptor, dashes bool) *sldStroke {
	s := d.StrokePattern()
	if s == symbology.StrokeNone {
		return nil
	}
	params := []sldCSSParam{
		{"stroke", d.StrokeColor().Hex()},
		{"stroke-width", symbology.FormatFloat(d.StrokeWidth())},
	}
	if dash := s.DashArray(); dashes && dash != "" {
		params = append(params, sldCSSParam{"stroke-dasharray", dash})
	}
	return &sldStroke{Params: params}
}

func hatchSize(density int) int {
	return max(MinHatchSize, density*4)
}

// pointSize is "6" up to the minimum and the float text of 4*width above it.
func pointSize(width float64) string {
	size := width * 4
	if size <= MinPointSize {
		return strconv.Itoa(int(MinPointSize))
	}
	return symbology.FormatFloat(size)
}
