package bracelet

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/jeweler/pkg/combin"
	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

func TestEnumerate_Scenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("two and two", func(t *testing.T) {
		words, err := Enumerate(ctx, NewSpec(2, 2), Bracelet)
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 1, 0, 1}, {0, 0, 1, 1}}, words)
	})

	t.Run("three distinct colors", func(t *testing.T) {
		words, err := Enumerate(ctx, NewSpec(1, 1, 1), Bracelet)
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 1, 2}}, words)
	})

	t.Run("three two one", func(t *testing.T) {
		words, err := Enumerate(ctx, NewSpec(3, 2, 1), Bracelet)
		require.NoError(t, err)
		assert.Len(t, words, combin.CountOrbits([]int{3, 2, 1}, true, false))
		assert.Equal(t, [][]int{
			{0, 1, 0, 1, 0, 2},
			{0, 0, 1, 1, 0, 2},
			{0, 0, 1, 0, 2, 1},
			{0, 0, 1, 0, 1, 2},
			{0, 0, 0, 1, 2, 1},
			{0, 0, 0, 1, 1, 2},
		}, words)
	})
}

func TestEnumerate_Modes(t *testing.T) {
	ctx := context.Background()
	spec := NewSpec(3, 3)

	tests := []struct {
		mode Mode
		want [][]int
	}{
		{Necklace, [][]int{{0, 1, 0, 1, 0, 1}, {0, 0, 1, 1, 0, 1}, {0, 0, 1, 0, 1, 1}, {0, 0, 0, 1, 1, 1}}},
		{Bracelet, [][]int{{0, 1, 0, 1, 0, 1}, {0, 0, 1, 0, 1, 1}, {0, 0, 0, 1, 1, 1}}},
		{LyndonWord, [][]int{{0, 0, 1, 1, 0, 1}, {0, 0, 1, 0, 1, 1}, {0, 0, 0, 1, 1, 1}}},
		{LyndonBracelet, [][]int{{0, 0, 1, 0, 1, 1}, {0, 0, 0, 1, 1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			words, err := Enumerate(ctx, spec, tt.mode)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, words)
		})
	}
}

func TestEnumerate_SingleColor(t *testing.T) {
	ctx := context.Background()

	for _, mode := range Modes() {
		words, err := Enumerate(ctx, NewSpec(4), mode)
		require.NoError(t, err)
		if mode.Aperiodic() {
			assert.Empty(t, words, "0000 is periodic")
		} else {
			assert.Equal(t, [][]int{{0, 0, 0, 0}}, words)
		}
	}

	words, err := Enumerate(ctx, NewSpec(1), LyndonWord)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0}}, words, "a single symbol is a Lyndon word")
}

// TestEnumerate_MatchesBruteForce checks every content vector with n <= 8
// and k <= 4 against the orbit oracle, in every mode.
func TestEnumerate_MatchesBruteForce(t *testing.T) {
	maxN := 8
	if testing.Short() {
		maxN = 6
	}
	ctx := context.Background()

	for n := 1; n <= maxN; n++ {
		for k := 1; k <= min(n, 4); k++ {
			for _, counts := range compositions(n, k) {
				for _, mode := range Modes() {
					name := fmt.Sprintf("%v/%s", counts, mode)
					words, err := Enumerate(ctx, NewSpec(counts...), mode)
					require.NoError(t, err, name)

					want := combin.Orbits(counts, mode.Reflect(), mode.Aperiodic())
					got := slices.Clone(words)
					slices.SortFunc(got, slices.Compare[[]int])
					require.Len(t, got, len(want), name)
					if len(want) > 0 {
						require.Equal(t, want, got, name)
					}
				}
			}
		}
	}
}

func TestEnumerate_Properties(t *testing.T) {
	ctx := context.Background()
	specs := []Spec{NewSpec(4, 3, 2), NewSpec(5, 5), NewSpec(2, 2, 2, 2), NewSpec(6, 1, 3)}

	for _, spec := range specs {
		for _, mode := range Modes() {
			words, err := Enumerate(ctx, spec, mode)
			require.NoError(t, err)

			seen := make(map[string]bool)
			for _, w := range words {
				require.Len(t, w, spec.N)
				assert.Equal(t, spec.Counts, combin.Content(w, spec.K()), "content fidelity for %v", w)
				assert.Equal(t, w, combin.Canonical(w, mode.Reflect()), "%v is not canonical under %s", w, mode)
				if mode.Aperiodic() {
					assert.Equal(t, spec.N, combin.Period(w), "%v is periodic", w)
				}
				key := fmt.Sprint(combin.Canonical(w, mode.Reflect()))
				assert.False(t, seen[key], "duplicate class %v", w)
				seen[key] = true
			}
		}
	}
}

func TestEnumerate_Deterministic(t *testing.T) {
	ctx := context.Background()
	spec := NewSpec(4, 4, 2)

	first, err := Enumerate(ctx, spec, Bracelet)
	require.NoError(t, err)
	second, err := Enumerate(ctx, spec, Bracelet)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnumerate_InvalidSpec(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		spec Spec
		code jerrors.Code
	}{
		{"non-positive count", Spec{N: 2, Counts: []int{0, 1}}, jerrors.ErrCodeInvalidSpec},
		{"negative count", Spec{N: 2, Counts: []int{3, -1}}, jerrors.ErrCodeInvalidSpec},
		{"sum mismatch", Spec{N: 3, Counts: []int{1, 1}}, jerrors.ErrCodeInvalidSpec},
		{"no colors", Spec{N: 3}, jerrors.ErrCodeInvalidSpec},
		{"zero length", Spec{N: 0, Counts: []int{1}}, jerrors.ErrCodeInvalidSpec},
		{"length over capacity", NewSpec(MaxLength+1-2, 1, 1), jerrors.ErrCodeCapacityExceeded},
		{"too many colors", NewSpec(slices.Repeat([]int{1}, MaxColors+1)...), jerrors.ErrCodeCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, err := Enumerate(ctx, tt.spec, Bracelet)
			require.Error(t, err)
			assert.Nil(t, words, "no partial output on validation failure")
			assert.True(t, errors.Is(err, ErrInvalidSpec), "errors.Is(%v, ErrInvalidSpec)", err)
			assert.Equal(t, tt.code, jerrors.GetCode(err))

			_, err = Count(ctx, tt.spec, Necklace)
			assert.ErrorIs(t, err, ErrInvalidSpec)

			called := false
			err = Stream(ctx, tt.spec, LyndonWord, func([]int) error { called = true; return nil })
			assert.ErrorIs(t, err, ErrInvalidSpec)
			assert.False(t, called)
		})
	}
}

func TestEnumerate_InvalidMode(t *testing.T) {
	_, err := Enumerate(context.Background(), NewSpec(2, 2), Mode(42))
	require.Error(t, err)
	assert.True(t, jerrors.Is(err, jerrors.ErrCodeInvalidMode))
}

func TestEnumerate_Limit(t *testing.T) {
	ctx := context.Background()
	spec := NewSpec(4, 3, 2)

	all, err := Enumerate(ctx, spec, Necklace)
	require.NoError(t, err)
	require.Greater(t, len(all), 5)

	limited, err := Enumerate(ctx, spec, Necklace, WithLimit(5))
	require.NoError(t, err)
	assert.Equal(t, all[:5], limited)

	unlimited, err := Enumerate(ctx, spec, Necklace, WithLimit(0))
	require.NoError(t, err)
	assert.Equal(t, all, unlimited)
}

func TestStream_SinkError(t *testing.T) {
	stop := errors.New("enough")
	seen := 0
	err := Stream(context.Background(), NewSpec(4, 4), Bracelet, func([]int) error {
		seen++
		if seen == 3 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, seen)
}

func TestStream_OwnedSlices(t *testing.T) {
	var kept [][]int
	err := Stream(context.Background(), NewSpec(3, 3), Necklace, func(w []int) error {
		kept = append(kept, w)
		return nil
	})
	require.NoError(t, err)

	want, err := Enumerate(context.Background(), NewSpec(3, 3), Necklace)
	require.NoError(t, err)
	assert.Equal(t, want, kept, "emitted slices must not be reused")
}

func TestStream_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Already cancelled: the search never starts.
	err := Stream(ctx, NewSpec(8, 8, 8), Bracelet, func([]int) error { return nil })
	require.Error(t, err)
	assert.True(t, jerrors.Is(err, jerrors.ErrCodeCancelled))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStream_CancelledMidSearch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	spec := NewSpec(4, 4, 4)
	total, err := Count(context.Background(), spec, Bracelet)
	require.NoError(t, err)

	emitted := 0
	err = Stream(ctx, spec, Bracelet, func([]int) error {
		emitted++
		if emitted == 1 {
			cancel()
		}
		return nil
	})
	require.Error(t, err)
	assert.True(t, jerrors.Is(err, jerrors.ErrCodeCancelled))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "stopped at position")
	assert.GreaterOrEqual(t, emitted, 1)
	assert.Less(t, emitted, total)
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	for _, spec := range []Spec{NewSpec(3, 2, 1), NewSpec(5, 5), NewSpec(7)} {
		for _, mode := range Modes() {
			words, err := Enumerate(ctx, spec, mode)
			require.NoError(t, err)
			n, err := Count(ctx, spec, mode)
			require.NoError(t, err)
			assert.Equal(t, len(words), n, "%v %s", spec, mode)
		}
	}
}

func TestEnumerateParallel_MatchesSequential(t *testing.T) {
	ctx := context.Background()
	specs := []Spec{NewSpec(4, 3, 2), NewSpec(3, 3, 3), NewSpec(2, 2), NewSpec(1, 5), NewSpec(6), NewSpec(2, 2, 2, 2, 1)}

	for _, spec := range specs {
		for _, mode := range Modes() {
			want, err := Enumerate(ctx, spec, mode)
			require.NoError(t, err)
			got, err := EnumerateParallel(ctx, spec, mode, WithWorkers(3))
			require.NoError(t, err)
			assert.Equal(t, want, got, "%v %s", spec, mode)
		}
	}
}

func TestEnumerateParallel_Limit(t *testing.T) {
	ctx := context.Background()
	spec := NewSpec(4, 3, 2)

	want, err := Enumerate(ctx, spec, Bracelet, WithLimit(7))
	require.NoError(t, err)
	got, err := EnumerateParallel(ctx, spec, Bracelet, WithLimit(7), WithWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEnumerateParallel_InvalidSpec(t *testing.T) {
	_, err := EnumerateParallel(context.Background(), Spec{N: 3, Counts: []int{1, 1}}, Bracelet)
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

// compositions returns every vector of k positive integers summing to n.
func compositions(n, k int) [][]int {
	if k == 1 {
		return [][]int{{n}}
	}
	var out [][]int
	for first := 1; first <= n-k+1; first++ {
		for _, rest := range compositions(n-first, k-1) {
			out = append(out, append([]int{first}, rest...))
		}
	}
	return out
}
