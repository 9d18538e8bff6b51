package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys. Implementations must be deterministic: the same
// inputs always yield the same key.
type Keyer interface {
	// DescriptorKey identifies the decoded form of a token.
	DescriptorKey(token string) string

	// ArtifactKey identifies one rendered output of a token.
	ArtifactKey(token string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the rendering options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	LayerName string `json:"layer_name,omitempty"`
	StyleName string `json:"style_name,omitempty"`
	Size      int    `json:"size,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DescriptorKey returns "descriptor:<token>". Tokens are already canonical
// and short, so they are used verbatim.
func (DefaultKeyer) DescriptorKey(token string) string {
	return "descriptor:" + token
}

// ArtifactKey returns "artifact:<token>:<format>:<digest>" where the digest
// covers the remaining options. Keys of one token sort together in Redis.
func (DefaultKeyer) ArtifactKey(token string, opts ArtifactKeyOpts) string {
	data, _ := json.Marshal(opts)
	return "artifact:" + token + ":" + opts.Format + ":" + Hash(data)[:16]
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
