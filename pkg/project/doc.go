// Package project turns a symbology descriptor into presentation formats.
//
// There are four projections, all pure and total over valid descriptors:
//
//   - [Render]: flat drawing parameters for a 2-D vector renderer
//   - [SLD]: a Styled Layer Descriptor 1.0.0 document
//   - [CSS]: the equivalent GeoServer CSS stylesheet
//   - [Upload]: a GeoServer REST style-creation payload embedding the SLD
//
// The SLD and CSS outputs share the dash-array table of
// [symbology.StrokePattern.DashArray] but name hatch shapes differently:
// SLD uses well-known mark names ([symbology.FillPattern.Mark]) and CSS
// wraps them in symbol('...') ([symbology.FillPattern.CSSSymbol]).
//
// Colors are always written as lowercase #rrggbb and stroke widths as the
// shortest decimal with a fractional part ("2.0").
package project
