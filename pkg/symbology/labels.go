package symbology

// Labels is the free-form representation of a descriptor: enumeration
// labels and color notations as strings. The JSON field names are the ones
// used by the HTTP API.
type Labels struct {
	Geometry    string  `json:"symbology_geometry_type"`
	FillColor   string  `json:"symbology_fill_color"`
	FillStyle   string  `json:"symbology_fill_style"`
	FillDensity int     `json:"symbology_fill_density"`
	StrokeColor string  `json:"symbology_stroke_color"`
	StrokeStyle string  `json:"symbology_stroke_style"`
	StrokeLine  float64 `json:"symbology_stroke_line"`
}

// FromLabels parses every label and builds a Descriptor. The first failing
// field is reported.
func FromLabels(l Labels) (Descriptor, error) {
	geom, err := ParseGeometry(l.Geometry)
	if err != nil {
		return Descriptor{}, err
	}
	fillColor, err := ParseColor(l.FillColor)
	if err != nil {
		return Descriptor{}, err
	}
	fill, err := ParseFillPattern(l.FillStyle)
	if err != nil {
		return Descriptor{}, err
	}
	strokeColor, err := ParseColor(l.StrokeColor)
	if err != nil {
		return Descriptor{}, err
	}
	stroke, err := ParseStrokePattern(l.StrokeStyle)
	if err != nil {
		return Descriptor{}, err
	}
	return New(Params{
		Geometry:      geom,
		FillColor:     fillColor,
		FillPattern:   fill,
		FillDensity:   l.FillDensity,
		StrokeColor:   strokeColor,
		StrokePattern: stroke,
		StrokeWidth:   l.StrokeLine,
	})
}

// Labels returns the canonical labeled form of d.
func (d Descriptor) Labels() Labels {
	return Labels{
		Geometry:    d.geometry.String(),
		FillColor:   d.fillColor.Hex(),
		FillStyle:   d.fillPattern.String(),
		FillDensity: int(d.fillDensity),
		StrokeColor: d.strokeColor.Hex(),
		StrokeStyle: d.strokePattern.String(),
		StrokeLine:  d.strokeWidth,
	}
}
