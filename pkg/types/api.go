package types

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindInvalidInput   ErrKind = iota // malformed hex sample
	ErrKindSourceNotFound                // input path missing
	ErrKindEmptyInput                    // no usable samples after filtering
	ErrKindWidthMismatch                 // sample width differs from the first sample
	ErrKindThreshold                     // threshold outside (0.5, 1]
)

// String returns a short stable name for the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindSourceNotFound:
		return "source_not_found"
	case ErrKindEmptyInput:
		return "empty_input"
	case ErrKindWidthMismatch:
		return "width_mismatch"
	case ErrKindThreshold:
		return "threshold"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same kind, so that
// errors.Is(err, ErrEmptyInput) matches any empty-input error regardless of
// its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrInvalidInput indicates a sample that is empty or holds non-hex digits.
	ErrInvalidInput = &Error{Kind: ErrKindInvalidInput, Msg: "invalid hexadecimal sample"}
	// ErrSourceNotFound indicates the sample source could not be located.
	ErrSourceNotFound = &Error{Kind: ErrKindSourceNotFound, Msg: "sample source not found"}
	// ErrEmptyInput indicates no non-blank samples were found.
	ErrEmptyInput = &Error{Kind: ErrKindEmptyInput, Msg: "no hexadecimal samples found"}
	// ErrWidthMismatch indicates samples of different widths in one run.
	ErrWidthMismatch = &Error{Kind: ErrKindWidthMismatch, Msg: "sample width mismatch"}
	// ErrThreshold indicates a threshold outside (0.5, 1].
	ErrThreshold = &Error{Kind: ErrKindThreshold, Msg: "threshold out of range"}
)

// Errorf builds an *Error of the given kind around an optional cause.
func Errorf(kind ErrKind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}
