package recon

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/joshuapare/flagrecon/pkg/types"
)

func mustSeqs(t *testing.T, hexes ...string) []Sequence {
	t.Helper()
	out := make([]Sequence, 0, len(hexes))
	for _, h := range hexes {
		seq, err := FromHex(h)
		require.NoError(t, err, "FromHex(%q)", h)
		out = append(out, seq)
	}
	return out
}

// noisySamples flips each bit of flag with probability p.
func noisySamples(t *testing.T, flag string, n int, p float64, seed uint64) []Sequence {
	t.Helper()
	base, err := FromHex(flag)
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]Sequence, n)
	for i := range out {
		seq := make(Sequence, len(base))
		for j, b := range base {
			if rng.Float64() < p {
				b ^= 1
			}
			seq[j] = b
		}
		out[i] = seq
	}
	return out
}

func TestAggregate_WorkedExample(t *testing.T) {
	table, err := Aggregate(mustSeqs(t, "F0", "F0", "70"))
	require.NoError(t, err)

	assert.Equal(t, 8, table.Width())
	assert.Equal(t, 3, table.Total())

	want := []int{2, 3, 3, 3, 0, 0, 0, 0}
	for i, n := range want {
		assert.Equal(t, n, table.Ones(i), "ones at %d", i)
	}
	assert.InDelta(t, 2.0/3.0, table.Frequency(0), 1e-12)
	assert.Equal(t, 1.0, table.Frequency(1))
	assert.Equal(t, 0.0, table.Frequency(7))
}

func TestAggregate_IdenticalSamplesAreExact(t *testing.T) {
	seqs := mustSeqs(t, "a55a", "a55a", "a55a", "a55a", "a55a")
	table, err := Aggregate(seqs)
	require.NoError(t, err)

	for i, f := range table.Frequencies() {
		assert.True(t, f == 0 || f == 1, "position %d has frequency %v", i, f)
		assert.Equal(t, float64(seqs[0][i]), f)
	}
}

func TestFrequency_OutOfRangeIsZero(t *testing.T) {
	table, err := Aggregate(mustSeqs(t, "ff"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, table.Frequency(-1))
	assert.Equal(t, 0.0, table.Frequency(8))
	assert.Equal(t, 0, table.Ones(100))

	assert.Equal(t, 0.0, NewFrequencyTable(8).Frequency(0))
}

func TestFrequency_AlwaysInUnitInterval(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		seqs := noisySamples(t, "deadbeefcafe", int(seed)*37, 0.3, seed)
		table, err := Aggregate(seqs)
		require.NoError(t, err)
		for i, f := range table.Frequencies() {
			require.GreaterOrEqual(t, f, 0.0, "seed %d pos %d", seed, i)
			require.LessOrEqual(t, f, 1.0, "seed %d pos %d", seed, i)
		}
	}
}

func TestAggregate_Errors(t *testing.T) {
	_, err := Aggregate(nil)
	assert.ErrorIs(t, err, types.ErrEmptyInput)

	_, err = Aggregate(mustSeqs(t, "f0", "f00"))
	assert.ErrorIs(t, err, types.ErrWidthMismatch)
}

func TestFrequencyTable_Merge(t *testing.T) {
	a, err := Aggregate(mustSeqs(t, "F0", "F0"))
	require.NoError(t, err)
	b, err := Aggregate(mustSeqs(t, "70"))
	require.NoError(t, err)
	all, err := Aggregate(mustSeqs(t, "F0", "F0", "70"))
	require.NoError(t, err)

	require.NoError(t, a.Merge(b))
	assert.Equal(t, all.Total(), a.Total())
	assert.Empty(t, cmp.Diff(all.Frequencies(), a.Frequencies()))

	assert.ErrorIs(t, a.Merge(NewFrequencyTable(16)), types.ErrWidthMismatch)
}

func TestAggregateParallel_MatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	seqs := noisySamples(t, "666c61677b62697473217d", 1001, 0.2, 42)
	want, err := Aggregate(seqs)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 2, 3, 8, 2000} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			got, err := AggregateParallel(context.Background(), seqs, workers)
			require.NoError(t, err)
			assert.Equal(t, want.Total(), got.Total())
			assert.Equal(t, want.Width(), got.Width())
			if diff := cmp.Diff(want.ones, got.ones); diff != "" {
				t.Fatalf("counts mismatch (-seq +par):\n%s", diff)
			}
		})
	}
}

func TestAggregateParallel_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seqs := noisySamples(t, "ff00", 64, 0.1, 7)
	for _, workers := range []int{1, 4} {
		_, err := AggregateParallel(ctx, seqs, workers)
		assert.ErrorIs(t, err, context.Canceled, "workers=%d", workers)
	}
}

func TestAggregateParallel_WidthMismatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	seqs := mustSeqs(t, "f0", "f0", "f0", "f00")
	_, err := AggregateParallel(context.Background(), seqs, 2)
	assert.ErrorIs(t, err, types.ErrWidthMismatch)
}
