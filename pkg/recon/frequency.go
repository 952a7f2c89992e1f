package recon

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/flagrecon/internal/logger"
	"github.com/joshuapare/flagrecon/pkg/types"
)

// cancelCheckInterval is how many samples a worker processes between
// context checks.
const cancelCheckInterval = 256

// FrequencyTable accumulates, per bit position, how many samples held a 1.
type FrequencyTable struct {
	width int
	total int
	ones  []int
}

// NewFrequencyTable returns an empty table for sequences of width bits.
func NewFrequencyTable(width int) *FrequencyTable {
	return &FrequencyTable{width: width, ones: make([]int, width)}
}

// Width returns the number of bit positions.
func (t *FrequencyTable) Width() int { return t.width }

// Total returns the number of samples added.
func (t *FrequencyTable) Total() int { return t.total }

// Ones returns how many samples held a 1 at position i. Positions outside
// [0, Width) report 0.
func (t *FrequencyTable) Ones(i int) int {
	if i < 0 || i >= t.width {
		return 0
	}
	return t.ones[i]
}

// Frequency returns the fraction of samples holding a 1 at position i,
// always within [0, 1]. An empty table and positions outside [0, Width)
// report 0.
func (t *FrequencyTable) Frequency(i int) float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.Ones(i)) / float64(t.total)
}

// Frequencies returns Frequency for every position in order.
func (t *FrequencyTable) Frequencies() []float64 {
	out := make([]float64, t.width)
	for i := range out {
		out[i] = t.Frequency(i)
	}
	return out
}

// Add counts one sample. The sequence must match the table width.
func (t *FrequencyTable) Add(seq Sequence) error {
	if seq.Len() != t.width {
		return types.Errorf(types.ErrKindWidthMismatch, nil,
			fmt.Sprintf("sequence has %d bits, table expects %d", seq.Len(), t.width))
	}
	for i, b := range seq {
		if b == 1 {
			t.ones[i]++
		}
	}
	t.total++
	return nil
}

// Merge adds the counts of other into t. Merging is an associative sum, so
// the order partial tables are merged in does not change the result.
func (t *FrequencyTable) Merge(other *FrequencyTable) error {
	if other.width != t.width {
		return types.Errorf(types.ErrKindWidthMismatch, nil,
			fmt.Sprintf("cannot merge %d-bit table into %d-bit table", other.width, t.width))
	}
	for i, n := range other.ones {
		t.ones[i] += n
	}
	t.total += other.total
	return nil
}

// Aggregate builds a frequency table in a single sequential pass. The width
// is taken from the first sequence.
func Aggregate(seqs []Sequence) (*FrequencyTable, error) {
	if len(seqs) == 0 {
		return nil, types.Errorf(types.ErrKindEmptyInput, nil, "no samples to aggregate")
	}
	t := NewFrequencyTable(seqs[0].Len())
	for i, seq := range seqs {
		if err := t.Add(seq); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i+1, err)
		}
	}
	return t, nil
}

// AggregateParallel partitions seqs across workers, counts each partition
// independently and sums the partial tables. The result equals Aggregate.
// workers <= 1 falls back to the sequential pass.
func AggregateParallel(ctx context.Context, seqs []Sequence, workers int) (*FrequencyTable, error) {
	if workers <= 1 || len(seqs) < 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Aggregate(seqs)
	}
	if workers > len(seqs) {
		workers = len(seqs)
	}
	width := seqs[0].Len()
	partials := make([]*FrequencyTable, workers)
	chunk := (len(seqs) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(seqs))
		partial := NewFrequencyTable(width)
		partials[w] = partial
		if start >= end {
			continue
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if err := partial.Add(seqs[i]); err != nil {
					return fmt.Errorf("sample %d: %w", i+1, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := NewFrequencyTable(width)
	for _, p := range partials {
		if err := t.Merge(p); err != nil {
			return nil, err
		}
	}
	logger.Debug("parallel aggregation done", "workers", workers, "samples", t.total, "width", width)
	return t, nil
}
