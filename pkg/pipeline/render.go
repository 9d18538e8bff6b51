package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/stylekey/pkg/errors"
	"github.com/matzehuels/stylekey/pkg/preview"
	"github.com/matzehuels/stylekey/pkg/project"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

// Build renders d in the format named by opts. token is only used by the
// JSON summary. opts must already be validated.
func Build(token string, d symbology.Descriptor, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatJSON:
		return marshal(BuildSummary(token, d, opts))
	case FormatSLD:
		return project.SLD(d, project.WithLayerName(opts.LayerName)), nil
	case FormatCSS:
		return project.CSS(d), nil
	case FormatREST:
		return marshal(project.Upload(d, opts.StyleName))
	case FormatPNG:
		return preview.PNG(d, preview.WithSize(opts.Size))
	case FormatPDF:
		return preview.PDF(d, preview.WithSize(opts.Size))
	default:
		return nil, ValidateFormat(opts.Format)
	}
}

// BuildSummary gathers every text projection of d.
func BuildSummary(token string, d symbology.Descriptor, opts Options) Summary {
	return Summary{
		URLKey:     token,
		Matplotlib: project.Render(d),
		GeoServer: GeoServer{
			SLD:         string(project.SLD(d, project.WithLayerName(opts.LayerName))),
			CSS:         string(project.CSS(d)),
			RESTPayload: project.Upload(d, opts.StyleName),
		},
		Symbology: d.Labels(),
	}
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return data, nil
}
