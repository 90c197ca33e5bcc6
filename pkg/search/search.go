// Package search finds the best binary code of each length.
//
// Codes are two-color words: a weight of ones and the rest zeros. The
// objectives in package objective depend only on the magnitude of the
// code's DFT, which is unchanged by rotation and reversal, so the search
// scores one representative per bracelet (or Lyndon word) instead of every
// arrangement. Past a few dozen bits that is still too many candidates, so
// MethodRandom samples random codes of the right weight instead. Each
// length's winner is recorded in a catalog.Store when it improves on what is
// already stored.
package search

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/jeweler/pkg/bracelet"
	"github.com/matzehuels/jeweler/pkg/catalog"
	jerrors "github.com/matzehuels/jeweler/pkg/errors"
	"github.com/matzehuels/jeweler/pkg/objective"
	"github.com/matzehuels/jeweler/pkg/observability"
)

// DefaultDensity is the fraction of ones used when Options.Density is 0.
const DefaultDensity = 0.5

// Options configures a search.
type Options struct {
	MinLength int
	MaxLength int

	// Density is the fraction of ones; weight = int(length * density),
	// clamped to 1..length-1.
	Density float64

	// Objective names a function registered in package objective.
	Objective string

	// Mode selects the candidate classes. Bracelet and LyndonWord are the
	// useful choices; periodic codes have spectral nulls. Random search
	// reports its winner in the mode's canonical form.
	Mode bracelet.Mode

	// Method selects enumeration (the default) or random sampling.
	Method Method

	// Samples is the random-search budget per length (DefaultSamples
	// when 0).
	Samples int

	// Timeout bounds each random-search length. The best code found when
	// it expires is kept. Zero means no per-length bound.
	Timeout time.Duration

	// Seed makes random search reproducible. Zero picks a random seed.
	Seed uint64

	// Store receives improved records. Nil disables persistence.
	Store catalog.Store

	// RunID tags stored records. A random UUID is used when empty.
	RunID string

	// OnResult is called after each length completes.
	OnResult func(Result)
}

// Result is the outcome for one length.
type Result struct {
	Record     catalog.Record
	Method     Method
	Candidates int
	Improved   bool
	Duration   time.Duration
}

// Search evaluates every length in [MinLength, MaxLength] in order.
func Search(ctx context.Context, opts Options) ([]Result, error) {
	fn, err := opts.validate()
	if err != nil {
		return nil, err
	}
	store := opts.Store
	if store == nil {
		store = catalog.NewNullStore()
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	rng := newRand(opts.Seed)

	var results []Result
	for length := opts.MinLength; length <= opts.MaxLength; length++ {
		weight := Weight(length, opts.Density)
		observability.Pipeline().OnSearchStart(ctx, length, opts.Objective)
		start := time.Now()

		var (
			code       []int
			score      float64
			candidates int
		)
		switch opts.Method {
		case MethodRandom:
			lctx, cancel := ctx, context.CancelFunc(func() {})
			if opts.Timeout > 0 {
				lctx, cancel = context.WithTimeout(ctx, opts.Timeout)
			}
			code, score, candidates, err = Random(lctx, length, weight, opts.Samples, opts.Mode, rng, fn)
			cancel()
		default:
			code, score, candidates, err = Best(ctx, length, weight, opts.Mode, fn)
		}
		duration := time.Since(start)
		observability.Pipeline().OnSearchComplete(ctx, length, opts.Objective, candidates, duration, err)
		if err != nil {
			return results, err
		}
		if code == nil {
			continue
		}

		res := Result{
			Record: catalog.Record{
				Length:    length,
				Weight:    weight,
				Objective: opts.Objective,
				Code:      code,
				Score:     score,
				RunID:     runID,
			},
			Method:     opts.Method,
			Candidates: candidates,
			Duration:   duration,
		}
		if res.Improved, err = store.Put(ctx, res.Record); err != nil {
			return results, err
		}
		results = append(results, res)
		if opts.OnResult != nil {
			opts.OnResult(res)
		}
	}
	return results, nil
}

// Best scores every representative of the content [length-weight, weight]
// under mode and returns the highest-scoring code. Ties keep the first code
// in generation order. A nil code means mode has no representatives.
func Best(ctx context.Context, length, weight int, mode bracelet.Mode, fn objective.Func) (code []int, score float64, candidates int, err error) {
	spec := bracelet.NewSpec(length-weight, weight)
	err = bracelet.Stream(ctx, spec, mode, func(w []int) error {
		candidates++
		s := fn(w)
		if code == nil || s > score {
			code, score = w, s
		}
		return nil
	})
	if err != nil {
		return nil, 0, candidates, err
	}
	return code, score, candidates, nil
}

// Weight returns the number of ones for a code of the given length.
func Weight(length int, density float64) int {
	w := int(float64(length) * density)
	return max(1, min(w, length-1))
}

func (o *Options) validate() (objective.Func, error) {
	if o.Density == 0 {
		o.Density = DefaultDensity
	}
	if err := jerrors.ValidateDensity(o.Density); err != nil {
		return nil, err
	}
	if o.MaxLength == 0 {
		o.MaxLength = o.MinLength
	}
	if o.MinLength < 2 {
		return nil, jerrors.New(jerrors.ErrCodeInvalidInput, "minimum length must be at least 2, got %d", o.MinLength)
	}
	if o.MaxLength < o.MinLength {
		return nil, jerrors.New(jerrors.ErrCodeInvalidInput, "maximum length %d is below minimum %d", o.MaxLength, o.MinLength)
	}
	if o.MaxLength > bracelet.MaxLength {
		return nil, jerrors.New(jerrors.ErrCodeCapacityExceeded, "length %d exceeds the maximum of %d", o.MaxLength, bracelet.MaxLength)
	}
	if o.Method == "" {
		o.Method = MethodEnumerate
	}
	if !slices.Contains(Methods(), o.Method) {
		return nil, jerrors.New(jerrors.ErrCodeInvalidInput, "unknown search method %q", string(o.Method))
	}
	if o.Samples < 0 {
		return nil, jerrors.New(jerrors.ErrCodeInvalidInput, "samples must be non-negative, got %d", o.Samples)
	}
	if o.Samples == 0 {
		o.Samples = DefaultSamples
	}
	if o.Timeout < 0 {
		return nil, jerrors.New(jerrors.ErrCodeInvalidInput, "timeout must be non-negative, got %s", o.Timeout)
	}
	if !o.Mode.Valid() {
		return nil, jerrors.New(jerrors.ErrCodeInvalidMode, "unknown mode %d", int(o.Mode))
	}
	if o.Objective == "" {
		o.Objective = objective.NameMinimalVariance
	}
	o.Objective = objective.Normalize(o.Objective)
	fn, err := objective.Lookup(o.Objective)
	if err != nil {
		return nil, err
	}
	return fn, nil
}
