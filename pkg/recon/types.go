package recon

import (
	"github.com/joshuapare/flagrecon/internal/bits"
	"github.com/joshuapare/flagrecon/pkg/types"
)

// Sequence is a fixed-width, MSB-first bit string (re-exported for convenience).
type Sequence = bits.Sequence

// FromHex converts a hexadecimal sample into exactly 4*len(hex) bits.
func FromHex(hex string) (Sequence, error) { return bits.FromHex(hex) }

// DefaultThreshold is the confidence cutoff used when Options.Threshold is zero.
const DefaultThreshold = types.DefaultThreshold

// BitClass is the classification of one bit position.
type BitClass uint8

const (
	Zero    BitClass = iota // frequency below 1-t
	One                     // frequency above t
	Unknown                 // neither
)

// String renders the class as '0', '1' or '?'.
func (c BitClass) String() string {
	switch c {
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return "?"
	}
}

// Byte is one reconstructed byte group. Known is false for an undetermined
// group; Value is then zero and meaningless.
type Byte struct {
	Value byte
	Known bool
}

// Value is a reconstructed bit-string as an ordered sequence of byte groups.
type Value []Byte

// Unknown returns the number of undetermined bytes.
func (v Value) Unknown() int {
	n := 0
	for _, b := range v {
		if !b.Known {
			n++
		}
	}
	return n
}

// Complete reports whether every byte was determined.
func (v Value) Complete() bool { return v.Unknown() == 0 }

// Raw returns the byte values, substituting placeholder for undetermined bytes.
func (v Value) Raw(placeholder byte) []byte {
	out := make([]byte, len(v))
	for i, b := range v {
		if b.Known {
			out[i] = b.Value
		} else {
			out[i] = placeholder
		}
	}
	return out
}
