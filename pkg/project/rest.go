package project

import (
	"github.com/matzehuels/stylekey/pkg/symbology"
)

// DefaultStyleName names the style created on the remote styling service.
const DefaultStyleName = "generated_style"

// UploadPayload is the body for a GeoServer REST style creation request.
type UploadPayload struct {
	Style UploadStyle `json:"style"`
}

// UploadStyle is the style envelope inside an UploadPayload.
type UploadStyle struct {
	Name     string `json:"name"`
	Filename string `json:"filename"`
	Body     string `json:"body"`
}

// Upload wraps the SLD of d, rendered with the default layer name, in the
// style creation envelope. An empty name uses DefaultStyleName.
func Upload(d symbology.Descriptor, name string) UploadPayload {
	if name == "" {
		name = DefaultStyleName
	}
	return UploadPayload{Style: UploadStyle{
		Name:     name,
		Filename: name + ".sld",
		Body:     string(SLD(d)),
	}}
}
