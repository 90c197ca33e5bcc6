package search

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/matzehuels/jeweler/pkg/bracelet"
	"github.com/matzehuels/jeweler/pkg/combin"
	jerrors "github.com/matzehuels/jeweler/pkg/errors"
	"github.com/matzehuels/jeweler/pkg/objective"
)

// Method selects how candidates are generated for each length.
type Method string

const (
	// MethodEnumerate scores every representative of the mode. Exact, but
	// the candidate count grows exponentially with length.
	MethodEnumerate Method = "enumerate"

	// MethodRandom scores uniformly random codes of the right weight until
	// the sample budget or the context deadline runs out.
	MethodRandom Method = "random"
)

// DefaultSamples is the random-search budget per length when
// Options.Samples is 0.
const DefaultSamples = 100_000

// sampleCheckInterval is how many samples are scored between context checks.
const sampleCheckInterval = 256

// Methods returns the supported search methods.
func Methods() []Method {
	return []Method{MethodEnumerate, MethodRandom}
}

// ParseMethod converts a method name. "exhaustive" is accepted for
// MethodEnumerate and the empty string selects it.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "enumerate", "exhaustive":
		return MethodEnumerate, nil
	case "random":
		return MethodRandom, nil
	}
	return "", jerrors.New(jerrors.ErrCodeInvalidInput, "unknown search method %q (want enumerate or random)", s)
}

func (m Method) String() string { return string(m) }

// Random draws up to samples random codes of the given length and weight
// and returns the best, rotated to mode's canonical representative so it
// matches what enumeration would report. Aperiodic modes skip periodic
// draws; they still count against the budget.
//
// A context deadline ends the search early without error once at least one
// code has been scored. Explicit cancellation is reported as CANCELLED.
func Random(ctx context.Context, length, weight, samples int, mode bracelet.Mode, rng *rand.Rand, fn objective.Func) (code []int, score float64, candidates int, err error) {
	positions := combin.Seq(length)
	word := make([]int, length)
	for candidates < samples {
		if candidates%sampleCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				if code != nil && errors.Is(err, context.DeadlineExceeded) {
					break
				}
				return nil, 0, candidates, jerrors.Wrap(jerrors.ErrCodeCancelled, err,
					"random search stopped after %d samples", candidates)
			}
		}

		// Partial Fisher-Yates: the first weight positions become the ones.
		clear(word)
		for i := range weight {
			j := i + rng.IntN(length-i)
			positions[i], positions[j] = positions[j], positions[i]
			word[positions[i]] = 1
		}
		candidates++
		if mode.Aperiodic() && combin.Period(word) < length {
			continue
		}
		if s := fn(word); code == nil || s > score {
			code, score = slices.Clone(word), s
		}
	}
	if code == nil {
		return nil, 0, candidates, nil
	}
	return combin.Canonical(code, mode.Reflect()), score, candidates, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
