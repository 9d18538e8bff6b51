// Package codec turns a symbology descriptor into its 17-character token and
// back.
//
// A token is base62(record.Pack(d)): the 13-byte record read as one
// big-endian integer and written as exactly 17 digits over [0-9A-Za-z].
// Tokens are case-sensitive and self-contained; nothing needs to be stored
// to resolve one.
package codec

import (
	"github.com/matzehuels/stylekey/pkg/codec/base62"
	"github.com/matzehuels/stylekey/pkg/codec/record"
	"github.com/matzehuels/stylekey/pkg/errors"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

// TokenLength is the fixed length of every token.
const TokenLength = base62.TokenLength

// Encode returns the token for d.
func Encode(d symbology.Descriptor) (string, error) {
	if d.IsZero() {
		return "", errors.New(errors.ErrCodeInvalidInput, "cannot encode a zero descriptor")
	}
	r := record.Pack(d)
	return base62.Encode(r[:])
}

// MustEncode is like Encode but panics on error.
func MustEncode(d symbology.Descriptor) string {
	tok, err := Encode(d)
	if err != nil {
		panic(err)
	}
	return tok
}

// Decode rebuilds the descriptor a token was made from.
func Decode(token string) (symbology.Descriptor, error) {
	b, err := base62.Decode(token)
	if err != nil {
		return symbology.Descriptor{}, err
	}
	return record.Unpack(b)
}

// Valid reports whether token is well-formed and resolves to a descriptor.
func Valid(token string) bool {
	_, err := Decode(token)
	return err == nil
}
