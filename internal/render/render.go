// Package render turns reconstructed byte groups into text.
//
// The reconstruction core only produces raw bytes; which character a byte
// at or above 0x80 becomes is decided here, by an explicitly chosen
// single-byte encoding.
package render

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/flagrecon/pkg/recon"
)

// Encoding names a presentation for reconstructed bytes.
type Encoding string

const (
	// Latin1 maps every byte to the code point of the same value (ISO 8859-1).
	Latin1 Encoding = "latin1"
	// Windows1252 maps bytes through the Windows-1252 code page.
	Windows1252 Encoding = "windows-1252"
	// Raw writes the byte values verbatim; the output may not be valid UTF-8.
	Raw Encoding = "raw"
	// Hex writes two lowercase hex digits per byte.
	Hex Encoding = "hex"
)

// DefaultEncoding is used when none is configured.
const DefaultEncoding = Latin1

// DefaultPlaceholder marks an undetermined byte.
const DefaultPlaceholder = "?"

// Encodings lists the accepted canonical names.
var Encodings = []Encoding{Latin1, Windows1252, Raw, Hex}

// ParseEncoding resolves a case-insensitive encoding name or common alias.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return Latin1, nil
	case "windows-1252", "windows1252", "cp1252":
		return Windows1252, nil
	case "raw", "bytes":
		return Raw, nil
	case "hex":
		return Hex, nil
	default:
		return "", fmt.Errorf("render: unknown encoding %q (want one of %v)", s, Encodings)
	}
}

// Text renders v in enc, writing placeholder for every undetermined byte.
// An empty placeholder selects DefaultPlaceholder.
func Text(v recon.Value, enc Encoding, placeholder string) (string, error) {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	var cm *charmap.Charmap
	switch enc {
	case Latin1:
		cm = charmap.ISO8859_1
	case Windows1252:
		cm = charmap.Windows1252
	case Raw, Hex:
	default:
		return "", fmt.Errorf("render: unknown encoding %q", enc)
	}

	var sb strings.Builder
	for _, b := range v {
		switch {
		case !b.Known && enc == Hex:
			sb.WriteString(placeholder)
			sb.WriteString(placeholder)
		case !b.Known:
			sb.WriteString(placeholder)
		case enc == Hex:
			sb.WriteString(hex.EncodeToString([]byte{b.Value}))
		case enc == Raw:
			sb.WriteByte(b.Value)
		default:
			sb.WriteRune(cm.DecodeByte(b.Value))
		}
	}
	return sb.String(), nil
}

// Bits renders a per-bit classification as '0', '1' and '?', one
// space-separated group per byte.
func Bits(classes []recon.BitClass) string {
	var sb strings.Builder
	sb.Grow(len(classes) + len(classes)/8)
	for i, c := range classes {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}
