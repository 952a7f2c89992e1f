package recon

import (
	"context"
	"fmt"

	"github.com/joshuapare/flagrecon/internal/logger"
	"github.com/joshuapare/flagrecon/pkg/types"
)

func checkThreshold(threshold float64) error {
	if types.ValidThreshold(threshold) {
		return nil
	}
	return types.Errorf(types.ErrKindThreshold, nil,
		fmt.Sprintf("threshold %v must be in (%v, %v]", threshold, types.MinThresholdExclusive, types.MaxThreshold))
}

// Classify assigns every position of t a BitClass for the given threshold.
func Classify(t *FrequencyTable, threshold float64) ([]BitClass, error) {
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}
	lower := 1 - threshold
	classes := make([]BitClass, t.Width())
	for i := range classes {
		freq := t.Frequency(i)
		switch {
		case freq > threshold:
			classes[i] = One
		case freq < lower:
			classes[i] = Zero
		default:
			classes[i] = Unknown
		}
	}
	return classes, nil
}

// Group packs classified bits into bytes, MSB first, starting at position 0.
// A group with an unknown bit, or a trailing group shorter than eight bits,
// is undetermined.
func Group(classes []BitClass) Value {
	n := (len(classes) + types.BitsPerByte - 1) / types.BitsPerByte
	out := make(Value, 0, n)
	for off := 0; off < len(classes); off += types.BitsPerByte {
		if off+types.BitsPerByte > len(classes) {
			out = append(out, Byte{})
			break
		}
		out = append(out, packByte(classes[off:off+types.BitsPerByte]))
	}
	return out
}

func packByte(group []BitClass) Byte {
	var v byte
	for _, c := range group {
		switch c {
		case One:
			v = v<<1 | 1
		case Zero:
			v <<= 1
		default:
			return Byte{}
		}
	}
	return Byte{Value: v, Known: true}
}

// Reconstruct classifies t against threshold and groups the result into bytes.
func Reconstruct(t *FrequencyTable, threshold float64) (Value, error) {
	classes, err := Classify(t, threshold)
	if err != nil {
		return nil, err
	}
	return Group(classes), nil
}

// Options controls Run.
type Options struct {
	// Threshold is the confidence cutoff in (0.5, 1]. Zero selects
	// DefaultThreshold.
	Threshold float64

	// Workers splits aggregation across goroutines. Values <= 1 aggregate
	// sequentially.
	Workers int
}

// Result holds every stage of one reconstruction.
type Result struct {
	Table     *FrequencyTable
	Threshold float64
	Classes   []BitClass
	Value     Value
}

// Run aggregates seqs, classifies the table and groups the bits into bytes.
// The threshold is validated before any counting happens.
func Run(ctx context.Context, seqs []Sequence, opts Options) (*Result, error) {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}

	table, err := AggregateParallel(ctx, seqs, opts.Workers)
	if err != nil {
		return nil, err
	}
	classes, err := Classify(table, threshold)
	if err != nil {
		return nil, err
	}
	value := Group(classes)

	logger.Debug("reconstruction done",
		"samples", table.Total(),
		"width", table.Width(),
		"threshold", threshold,
		"bytes", len(value),
		"unknown_bytes", value.Unknown(),
	)
	return &Result{Table: table, Threshold: threshold, Classes: classes, Value: value}, nil
}
