package bracelet

import (
	"context"
	"errors"
	"runtime"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

// Sink receives one result. The slice is freshly allocated for each call and
// owned by the sink. Returning an error stops the enumeration; the error is
// returned unchanged from [Stream].
type Sink func(word []int) error

// Option configures an enumeration.
type Option func(*config)

type config struct {
	limit   int
	workers int
}

// WithLimit stops the enumeration after n results. Values <= 0 mean no
// limit. Reaching the limit is not an error.
func WithLimit(n int) Option {
	return func(c *config) { c.limit = n }
}

// WithWorkers sets how many goroutines [EnumerateParallel] may use. Values
// <= 0 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if c.workers <= 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// Enumerate returns every representative of spec under mode, in generation
// order. It fails before searching if spec or mode is invalid.
//
// Prefer [Stream] for large inputs: the number of results grows
// combinatorially with n.
func Enumerate(ctx context.Context, spec Spec, mode Mode, opts ...Option) ([][]int, error) {
	var words [][]int
	err := Stream(ctx, spec, mode, func(w []int) error {
		words = append(words, w)
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return words, nil
}

// Stream calls sink for every representative of spec under mode, in the
// same order as [Enumerate]. Errors returned by sink abort the search and
// are passed through.
func Stream(ctx context.Context, spec Spec, mode Mode, sink Sink, opts ...Option) error {
	cfg := newConfig(opts)
	g, err := prepare(ctx, spec, mode)
	if err != nil {
		return err
	}
	g.sink = sink
	g.limit = cfg.limit
	return finish(g.start())
}

// Count returns the number of representatives of spec under mode without
// materializing them.
func Count(ctx context.Context, spec Spec, mode Mode) (int, error) {
	g, err := prepare(ctx, spec, mode)
	if err != nil {
		return 0, err
	}
	if err := finish(g.start()); err != nil {
		return 0, err
	}
	return g.emitted, nil
}

// prepare validates the request and builds a generator for it.
func prepare(ctx context.Context, spec Spec, mode Mode) (*generator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if !mode.Valid() {
		return nil, jerrors.New(jerrors.ErrCodeInvalidMode, "unknown mode %d", int(mode))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return newGenerator(ctx, spec, mode), nil
}

// start runs the search, handling single-color content directly: the one
// word 0^n is aperiodic only when n is 1.
func (g *generator) start() error {
	if g.k == 1 {
		if g.aperiodic && g.n > 1 {
			return nil
		}
		return g.deliver()
	}
	return g.search()
}

// finish maps the internal stop signal to success.
func finish(err error) error {
	if errors.Is(err, errLimitReached) {
		return nil
	}
	return err
}
