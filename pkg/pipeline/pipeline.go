// Package pipeline turns symbology labels into tokens and tokens into style
// artifacts.
//
// This package is shared by the CLI and the HTTP API so that both resolve
// tokens and render artifacts identically.
//
// # Stages
//
//  1. Create: parse free-form labels into a descriptor and encode its token
//  2. Resolve: decode a token back into its descriptor (memoized)
//  3. Artifact: project the descriptor into one output format (cached)
//
// The cache is an accelerator only. Every token carries its full descriptor,
// so a cold or failing cache never changes a result.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	created, err := runner.Create(ctx, labels)
//	if err != nil {
//	    return err
//	}
//	art, err := runner.Artifact(ctx, created.Token, pipeline.Options{Format: pipeline.FormatSLD})
package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/stylekey/pkg/cache"
	"github.com/matzehuels/stylekey/pkg/errors"
	"github.com/matzehuels/stylekey/pkg/preview"
	"github.com/matzehuels/stylekey/pkg/project"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSLD  = "sld"
	FormatCSS  = "css"
	FormatREST = "rest"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every output format in a stable order.
var Formats = []string{FormatJSON, FormatSLD, FormatCSS, FormatREST, FormatPNG, FormatPDF}

// formatInfo describes how an artifact is served and saved.
var formatInfo = map[string]struct {
	contentType string
	extension   string
}{
	FormatJSON: {"application/json", ".json"},
	FormatSLD:  {"application/xml", ".sld"},
	FormatCSS:  {"text/css; charset=utf-8", ".css"},
	FormatREST: {"application/json", ".rest.json"},
	FormatPNG:  {"image/png", ".png"},
	FormatPDF:  {"application/pdf", ".pdf"},
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	return formatInfo[format].contentType
}

// Extension returns the file extension, with leading dot, for format.
func Extension(format string) string {
	return formatInfo[format].extension
}

// IsImage reports whether format is a rendered preview.
func IsImage(format string) bool {
	return format == FormatPNG || format == FormatPDF
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if _, ok := formatInfo[format]; !ok {
		return errors.Field(errors.ErrCodeInvalidFormat, "format", fmt.Sprintf("%q", format),
			"must be one of: %s", strings.Join(Formats, ", "))
	}
	return nil
}

// ParseFormats splits a comma-separated list, validating and de-duplicating
// while keeping order. "all" expands to every format.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if f == "all" {
			return slices.Clone(Formats), nil
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// =============================================================================
// Options
// =============================================================================

// Options selects and parameterizes one artifact.
type Options struct {
	Format string `json:"format"`

	// LayerName is the NamedLayer name in SLD output. Defaults to
	// project.DefaultLayerName.
	LayerName string `json:"layer_name,omitempty"`

	// StyleName names the style in the REST upload envelope. Defaults to
	// project.DefaultStyleName.
	StyleName string `json:"style_name,omitempty"`

	// Size is the preview edge length for png and pdf. Defaults to
	// preview.DefaultSize.
	Size int `json:"size,omitempty"`

	// Refresh bypasses cached results. Fresh results are still stored.
	Refresh bool `json:"-"`
}

// ValidateAndSetDefaults checks every option and fills in defaults. Options
// that do not apply to the format are cleared so they never split cache keys.
func (o *Options) ValidateAndSetDefaults() error {
	o.Format = strings.ToLower(o.Format)
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}

	if o.usesLayerName() {
		if o.LayerName == "" {
			o.LayerName = project.DefaultLayerName
		}
		if err := errors.ValidateLayerName(o.LayerName); err != nil {
			return err
		}
	} else {
		o.LayerName = ""
	}

	if o.usesStyleName() {
		if o.StyleName == "" {
			o.StyleName = project.DefaultStyleName
		}
		if err := errors.ValidateStyleName(o.StyleName); err != nil {
			return err
		}
	} else {
		o.StyleName = ""
	}

	if IsImage(o.Format) {
		if o.Size == 0 {
			o.Size = preview.DefaultSize
		}
		if err := errors.ValidatePreviewSize(o.Size); err != nil {
			return err
		}
	} else {
		o.Size = 0
	}
	return nil
}

func (o *Options) usesLayerName() bool {
	return o.Format == FormatSLD || o.Format == FormatJSON
}

func (o *Options) usesStyleName() bool {
	return o.Format == FormatREST || o.Format == FormatJSON
}

// ArtifactKeyOpts returns cache key options for the artifact.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    o.Format,
		LayerName: o.LayerName,
		StyleName: o.StyleName,
		Size:      o.Size,
	}
}

// =============================================================================
// Results
// =============================================================================

// Created is the result of Runner.Create.
type Created struct {
	Token      string
	Descriptor symbology.Descriptor
}

// Artifact is one rendered output of a token.
type Artifact struct {
	Token       string
	Format      string
	ContentType string
	Data        []byte
	CacheHit    bool
}

// Filename returns base plus the format extension, e.g. "style.sld".
func (a *Artifact) Filename(base string) string {
	return base + Extension(a.Format)
}

// Summary is the JSON artifact: every projection of a descriptor at once.
type Summary struct {
	URLKey     string               `json:"url_key"`
	Matplotlib project.RenderParams `json:"matplotlib"`
	GeoServer  GeoServer            `json:"geoserver"`
	Symbology  symbology.Labels     `json:"symbology"`
}

// GeoServer holds the GeoServer projections in a Summary.
type GeoServer struct {
	SLD         string                `json:"sld"`
	CSS         string                `json:"css"`
	RESTPayload project.UploadPayload `json:"rest_payload"`
}
