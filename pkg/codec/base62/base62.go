// Package base62 implements fixed-width base-62 text encoding of byte strings.
//
// The input is read as one unsigned big-endian integer and written most
// significant digit first over the alphabet 0-9, A-Z, a-z, left-padded
// with '0' to the encoding's width. Encoding is bijective for inputs whose
// value fits in the width; wider values fail with TOKEN_OVERFLOW instead of
// producing a longer string.
package base62

import (
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/stylekey/pkg/errors"
)

// Alphabet is the digit set in value order.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = len(Alphabet)

// Token dimensions for packed symbology records.
const (
	TokenLength = 17
	RecordSize  = 13
)

var decodeMap [256]int8

func init() {
	for i := range decodeMap {
		decodeMap[i] = -1
	}
	for i := 0; i < base; i++ {
		decodeMap[Alphabet[i]] = int8(i)
	}
}

// Encoding is a fixed-width base-62 encoding between strings of Width
// digits and byte strings of Size bytes.
type Encoding struct {
	width int
	size  int
	max   *big.Int // 62^width, exclusive bound on encodable values
}

// NewEncoding returns an encoding producing width-digit strings and
// decoding them into size-byte values.
func NewEncoding(width, size int) *Encoding {
	return &Encoding{
		width: width,
		size:  size,
		max:   new(big.Int).Exp(big.NewInt(int64(base)), big.NewInt(int64(width)), nil),
	}
}

// StdEncoding maps 13-byte records to 17-character tokens.
var StdEncoding = NewEncoding(TokenLength, RecordSize)

// Width returns the encoded length in characters.
func (e *Encoding) Width() int { return e.width }

// Size returns the decoded length in bytes.
func (e *Encoding) Size() int { return e.size }

// Encode writes src as exactly Width digits.
func (e *Encoding) Encode(src []byte) (string, error) {
	n := new(big.Int).SetBytes(src)
	if n.Cmp(e.max) >= 0 {
		return "", errors.New(errors.ErrCodeTokenOverflow,
			"value of %d-byte input needs more than %d base-62 digits", len(src), e.width)
	}

	buf := make([]byte, e.width)
	b := big.NewInt(int64(base))
	rem := new(big.Int)
	for i := e.width - 1; i >= 0; i-- {
		n.QuoRem(n, b, rem)
		buf[i] = Alphabet[rem.Int64()]
	}
	return string(buf), nil
}

// Decode parses a Width-digit string back into Size bytes. The length is
// counted in characters and checked before the alphabet, so a token of the
// right length with a non-ASCII character fails as INVALID_ALPHABET.
func (e *Encoding) Decode(s string) ([]byte, error) {
	if n := utf8.RuneCountInString(s); n != e.width {
		return nil, errors.Length("token", n, e.width)
	}

	n := new(big.Int)
	b := big.NewInt(int64(base))
	digit := new(big.Int)
	pos := 0
	for _, r := range s {
		if r >= utf8.RuneSelf || decodeMap[r] < 0 {
			return nil, errors.Field(errors.ErrCodeInvalidAlphabet, "token", "'"+string(r)+"'",
				"character at position %d is outside [0-9A-Za-z]", pos)
		}
		n.Mul(n, b)
		n.Add(n, digit.SetInt64(int64(decodeMap[r])))
		pos++
	}

	if n.BitLen() > e.size*8 {
		return nil, errors.New(errors.ErrCodeTokenOverflow,
			"token value does not fit in %d bytes", e.size)
	}
	return n.FillBytes(make([]byte, e.size)), nil
}

// Valid reports whether s has the right width and alphabet.
func (e *Encoding) Valid(s string) bool {
	if utf8.RuneCountInString(s) != e.width {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return r >= utf8.RuneSelf || decodeMap[r] < 0
	}) < 0
}

// Encode encodes src with StdEncoding.
func Encode(src []byte) (string, error) { return StdEncoding.Encode(src) }

// Decode decodes s with StdEncoding.
func Decode(s string) ([]byte, error) { return StdEncoding.Decode(s) }
