package errors

import (
	"regexp"
	"unicode"
)

// MaxLayerNameLength bounds layer and style names accepted from callers.
const MaxLayerNameLength = 256

// ValidateLayerName validates a layer name before it is embedded in a style document.
// The name is inserted verbatim, so only names that cannot break out of an XML
// text node or a file name are accepted:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateLayerName(name string) error {
	if name == "" {
		return Field(ErrCodeInvalidInput, "layer_name", `""`, "cannot be empty")
	}

	if len(name) > MaxLayerNameLength {
		return New(ErrCodeInvalidInput, "layer_name too long (max %d characters)", MaxLayerNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "layer_name contains invalid control characters")
		}
	}

	return nil
}

// styleNameRegex matches names safe to use as a remote style identifier and file stem.
var styleNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateStyleName validates the name used in an upload payload envelope.
func ValidateStyleName(name string) error {
	if err := ValidateLayerName(name); err != nil {
		return err
	}
	if !styleNameRegex.MatchString(name) {
		return Field(ErrCodeInvalidInput, "style name", `"`+name+`"`, "must match %s", styleNameRegex.String())
	}
	return nil
}

// Preview size bounds in pixels.
const (
	MinPreviewSize = 50
	MaxPreviewSize = 1000
)

// ValidatePreviewSize checks a requested preview edge length.
func ValidatePreviewSize(size int) error {
	if size < MinPreviewSize || size > MaxPreviewSize {
		return Range("size", size, "must be between %d and %d", MinPreviewSize, MaxPreviewSize)
	}
	return nil
}
