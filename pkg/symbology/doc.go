// Package symbology defines the immutable style descriptor for a map feature.
//
// # Overview
//
// A [Descriptor] captures everything needed to draw one geometric feature:
// the geometry class, a fill (color, pattern, density) and an outline
// (color, dash pattern, width). Descriptors are values: they are validated
// once by [New] or [FromLabels] and never change afterwards. Every
// transformation (packing, projection) returns a new value.
//
// # Enumerations
//
// The three closed enumerations are [Geometry], [FillPattern] and
// [StrokePattern]. Each member carries a stable wire code used by the
// binary record layout, and presentation metadata (hatch glyphs, dash
// hints, dash arrays, well-known mark names) used by the projections.
// Wire codes and in-memory values are deliberately different types: the
// zero value of every enumeration is invalid, and conversions go through
// the lookup tables ([Geometry.Code], [GeometryFromCode], ...).
//
// # Colors and identity
//
// [ParseColor] accepts hex (#rgb, #rrggbb), rgb(r, g, b), bare r,g,b
// triplets and CSS color names. Colors are stored as 8-bit channels, so
// the notation used at construction never affects identity: two
// descriptors that render identically compare equal with == and produce
// the same [Descriptor.Key] and [Descriptor.Hash].
//
// Stroke width is rounded to three decimal places on construction.
package symbology
