package types

const (
	// DefaultThreshold is the confidence cutoff used when none is configured.
	// Frequencies above it resolve to 1, below 1-DefaultThreshold to 0.
	DefaultThreshold = 0.51

	// MinThresholdExclusive is the lower bound a threshold must exceed.
	// At or below 0.5 the one and zero bands overlap.
	MinThresholdExclusive = 0.5

	// MaxThreshold is the inclusive upper bound for a threshold.
	MaxThreshold = 1.0

	// BitsPerDigit is the number of bits one hexadecimal digit encodes.
	BitsPerDigit = 4

	// BitsPerByte is the size of one reconstructed byte group.
	BitsPerByte = 8

	// MaxSampleDigits guards against absurd line lengths in sample files.
	MaxSampleDigits = 1 << 20
)

// ValidThreshold reports whether t lies in (0.5, 1].
func ValidThreshold(t float64) bool {
	return t > MinThresholdExclusive && t <= MaxThreshold
}
