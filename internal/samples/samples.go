// Package samples loads newline-separated hexadecimal observations.
package samples

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/joshuapare/flagrecon/internal/bits"
	"github.com/joshuapare/flagrecon/internal/logger"
	"github.com/joshuapare/flagrecon/internal/mmfile"
	"github.com/joshuapare/flagrecon/pkg/types"
)

// Set is a validated batch of samples sharing one width.
type Set struct {
	Path   string   // source path ("" when parsed from a reader)
	Digits int      // hex digits per sample
	Width  int      // bits per sample
	Lines  []string // trimmed, non-blank samples in file order
}

// Len returns the number of samples.
func (s *Set) Len() int { return len(s.Lines) }

// Sequences converts every sample to its bit sequence.
func (s *Set) Sequences() ([]bits.Sequence, error) {
	out := make([]bits.Sequence, 0, len(s.Lines))
	for i, line := range s.Lines {
		seq, err := bits.FromHex(line)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i+1, err)
		}
		out = append(out, seq)
	}
	return out, nil
}

// Load reads and validates the samples at path.
func Load(path string) (*Set, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.Errorf(types.ErrKindSourceNotFound, err, fmt.Sprintf("file '%s' not found", path))
		}
		return nil, fmt.Errorf("samples: open %s: %w", path, err)
	}
	defer func() {
		if cerr := cleanup(); cerr != nil {
			logger.Warn("unmap failed", "path", path, "err", cerr)
		}
	}()

	logger.Debug("sample file mapped", "path", path, "bytes", len(data))

	set, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	set.Path = path
	return set, nil
}

// Parse reads samples from r. Surrounding whitespace is stripped, blank lines
// are skipped, and every sample must match the first sample's digit count.
func Parse(r io.Reader) (*Set, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), types.MaxSampleDigits+2)

	set := &Set{}
	lineNo := 0
	skipped := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			skipped++
			continue
		}
		if _, err := bits.FromHex(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(set.Lines) == 0 {
			set.Digits = len(line)
			set.Width = bits.Width(len(line))
		} else if len(line) != set.Digits {
			return nil, types.Errorf(types.ErrKindWidthMismatch, nil, fmt.Sprintf(
				"line %d: sample has %d hex digits, expected %d", lineNo, len(line), set.Digits))
		}
		set.Lines = append(set.Lines, line)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, types.Errorf(types.ErrKindInvalidInput, err, fmt.Sprintf("line %d", lineNo+1))
		}
		return nil, fmt.Errorf("samples: read: %w", err)
	}
	if len(set.Lines) == 0 {
		return nil, types.Errorf(types.ErrKindEmptyInput, nil, "no hexadecimal outputs found")
	}

	logger.Debug("samples parsed", "samples", len(set.Lines), "blank", skipped, "width", set.Width)
	return set, nil
}
