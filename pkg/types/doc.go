// Package types defines the shared error taxonomy and limits used across
// flagrecon.
//
// Errors carry a stable ErrKind so callers can branch on intent rather than
// message text:
//
//	set, err := samples.Load(path)
//	if errors.Is(err, types.ErrSourceNotFound) {
//	    // path missing
//	}
//
// This package has no dependencies beyond the standard library.
package types
