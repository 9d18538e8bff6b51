// Package pkg provides the core libraries for stylekey feature-style tokens.
//
// # Overview
//
// Stylekey packs a vector feature style (geometry, fill color and pattern,
// hatch density, stroke color, pattern and width) into 13 bytes and writes
// them as a fixed 17-character base62 token. The token is the only state:
// anyone holding it can rebuild the style and every projection of it.
//
// # Architecture
//
// The data flow through stylekey:
//
//	Labels (API body, CLI flags)
//	         ↓
//	    [symbology] package (parse and validate a Descriptor)
//	         ↓
//	    [codec] package (13-byte record ↔ 17-character token)
//	         ↓
//	    [project] package (matplotlib params, SLD, GeoServer CSS, REST payload)
//	    [preview] package (PNG and PDF swatches)
//
// [pipeline] wires these together with caching, and [api] serves them.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/stylekey/pkg/codec"
//	    "github.com/matzehuels/stylekey/pkg/project"
//	    "github.com/matzehuels/stylekey/pkg/symbology"
//	)
//
//	// 1. Build a descriptor from labels
//	d, _ := symbology.FromLabels(symbology.Labels{
//	    Geometry:    "POLYGON",
//	    FillColor:   "#ff0000",
//	    FillStyle:   "SOLID",
//	    StrokeColor: "blue",
//	    StrokeStyle: "DASHED",
//	    StrokeLine:  2,
//	})
//
//	// 2. Encode it
//	token, _ := codec.Encode(d) // "1edV5UHMF2NcFhGXg"
//
//	// 3. Project it
//	sld, _ := project.SLD(d, project.WithLayerName("roads"))
//
// # Main Packages
//
// ## Core Domain Logic
//
// [symbology] - The Descriptor and its enumerations (geometry, 12 fill
// patterns, 11 stroke patterns) with label and color parsing.
//
// [codec] - Token encode/decode. The [codec/record] subpackage owns the
// 13-byte layout and [codec/base62] the fixed-width text form.
//
// [project] - Deterministic style documents for matplotlib and GeoServer.
//
// [preview] - Raster (gg + imaging) and vector (gofpdf) swatches.
//
// ## Infrastructure
//
// [pipeline] - Create, resolve and render, used by both CLI and API.
//
// [cache] - Null, memory, file and Redis backends behind one interface.
// Caching is an accelerator only; tokens are self-describing.
//
// [observability] - Hooks for codec, cache and HTTP events.
//
// [errors] - Coded errors shared by every layer.
//
// [api] - The HTTP service.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/codec/...              # Specific package
//	go test -short ./...                 # Skip tests needing the network
//	go test -run Example ./...           # Examples only
//
// [symbology]: https://pkg.go.dev/github.com/matzehuels/stylekey/pkg/symbology
// [codec]: https://pkg.go.dev/github.com/matzehuels/stylekey/pkg/codec
// [codec/record]: https://pkg.go.dev/github.com/matzehuels/stylekey/pkg/codec/record
// [codec/base62]: https://pkg.go.dev/github.com/matzehuels/stylekey/pkg/codec/base62
// [project]: https://pkg.go.dev/github.com/matzehuels/stylekey/pkg/project
// [preview]: https://pkg.go.dev/github.com/matzehuels/stylekey/pkg/preview
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stylekey/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stylekey/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/stylekey/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/stylekey/pkg/errors
// [api]: https://pkg.go.dev/github.com/matzehuels/stylekey/pkg/api
package pkg
