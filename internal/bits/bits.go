// Package bits converts hexadecimal samples into fixed-width, MSB-first bit
// sequences.
package bits

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/joshuapare/flagrecon/pkg/types"
)

// Sequence is a fixed-width bit string, most-significant bit first.
// Each element is 0 or 1.
type Sequence []byte

// Len returns the number of bits in the sequence.
func (s Sequence) Len() int { return len(s) }

// String renders the sequence as '0' and '1' characters.
func (s Sequence) String() string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, b := range s {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

// Big returns the unsigned integer the sequence encodes.
func (s Sequence) Big() *big.Int {
	n := new(big.Int)
	for _, b := range s {
		n.Lsh(n, 1)
		if b == 1 {
			n.SetBit(n, 0, 1)
		}
	}
	return n
}

// Width returns the bit width a hex sample of the given digit count decodes to.
func Width(digits int) int {
	return digits * types.BitsPerDigit
}

// FromHex converts a hexadecimal string into exactly 4*len(hex) bits.
// Leading zero digits are kept: they are meaningful bit positions.
func FromHex(hex string) (Sequence, error) {
	if hex == "" {
		return nil, types.Errorf(types.ErrKindInvalidInput, nil, "empty hexadecimal sample")
	}
	if len(hex) > types.MaxSampleDigits {
		return nil, types.Errorf(types.ErrKindInvalidInput, nil,
			fmt.Sprintf("hexadecimal sample too long (%d digits, max %d)", len(hex), types.MaxSampleDigits))
	}
	seq := make(Sequence, Width(len(hex)))
	for i := 0; i < len(hex); i++ {
		nib, ok := nibble(hex[i])
		if !ok {
			return nil, types.Errorf(types.ErrKindInvalidInput, nil,
				fmt.Sprintf("invalid hex digit %q at offset %d", hex[i], i))
		}
		off := i * types.BitsPerDigit
		seq[off] = (nib >> 3) & 1
		seq[off+1] = (nib >> 2) & 1
		seq[off+2] = (nib >> 1) & 1
		seq[off+3] = nib & 1
	}
	return seq, nil
}

// nibble decodes one case-insensitive hex digit.
func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
