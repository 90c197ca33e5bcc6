package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jeweler/pkg/bracelet"
	"github.com/matzehuels/jeweler/pkg/catalog"
	pkgio "github.com/matzehuels/jeweler/pkg/io"
	"github.com/matzehuels/jeweler/pkg/observability"
	"github.com/matzehuels/jeweler/pkg/render"
	"github.com/matzehuels/jeweler/pkg/search"
)

// Runner encapsulates pipeline execution.
// CLI, batch jobs and the HTTP server use it to avoid duplicating logic.
//
// The Runner is stateless except for the catalog and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Store  catalog.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given catalog and logger.
// If store is nil, a NullStore is used (persistence disabled).
func NewRunner(store catalog.Store, logger *log.Logger) *Runner {
	if store == nil {
		store = catalog.NewNullStore()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Store: store, Logger: logger}
}

// Execute validates opts and collects every representative.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	spec := opts.Spec()

	observability.Pipeline().OnEnumerateStart(ctx, opts.Mode.String(), spec.N)
	start := time.Now()
	words, err := r.enumerate(ctx, spec, opts)
	duration := time.Since(start)
	observability.Pipeline().OnEnumerateComplete(ctx, opts.Mode.String(), len(words), duration, err)
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}

	truncated := opts.Limit > 0 && len(words) > opts.Limit
	if truncated {
		words = words[:opts.Limit]
	}
	result := &Result{
		Spec:  spec,
		Mode:  opts.Mode,
		Words: words,
		Stats: Stats{
			Count:         len(words),
			Truncated:     truncated,
			EnumerateTime: duration,
		},
	}
	r.Logger.Info("enumerated",
		"spec", spec,
		"mode", opts.Mode,
		"results", len(words),
		"duration", duration)
	return result, nil
}

// enumerate asks for one word past opts.Limit so Execute can tell a
// truncated result from one that has exactly Limit words.
func (r *Runner) enumerate(ctx context.Context, spec bracelet.Spec, opts Options) ([][]int, error) {
	limit := opts.Limit
	if limit > 0 {
		limit++
	}
	bopts := []bracelet.Option{bracelet.WithLimit(limit), bracelet.WithWorkers(opts.Workers)}
	if opts.Workers > 1 {
		return bracelet.EnumerateParallel(ctx, spec, opts.Mode, bopts...)
	}
	return bracelet.Enumerate(ctx, spec, opts.Mode, bopts...)
}

// Export writes result to w in format (opts.Format when format is empty).
func (r *Runner) Export(ctx context.Context, w io.Writer, result *Result, format string) error {
	start := time.Now()
	err := pkgio.Write(w, format, result.Document())
	observability.Pipeline().OnExportComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// Stream enumerates sequentially and writes each word to w as it is found,
// in opts.Format. It returns the number of words written. When enumeration
// stops early the words already encoded are still flushed to w, but the
// format trailer is not written.
func (r *Runner) Stream(ctx context.Context, opts Options, w io.Writer) (int, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return 0, fmt.Errorf("invalid options: %w", err)
	}
	spec := opts.Spec()
	enc, err := pkgio.NewEncoder(w, opts.Format, spec, opts.Mode)
	if err != nil {
		return 0, err
	}

	observability.Pipeline().OnEnumerateStart(ctx, opts.Mode.String(), spec.N)
	start := time.Now()
	err = bracelet.Stream(ctx, spec, opts.Mode, enc.Encode, bracelet.WithLimit(opts.Limit))
	if err == nil {
		err = enc.Close()
	} else if ferr := enc.Flush(); ferr != nil {
		err = errors.Join(err, ferr)
	}
	duration := time.Since(start)
	observability.Pipeline().OnEnumerateComplete(ctx, opts.Mode.String(), enc.Count(), duration, err)
	if err != nil {
		return enc.Count(), fmt.Errorf("stream: %w", err)
	}
	r.Logger.Info("streamed",
		"spec", spec,
		"mode", opts.Mode,
		"results", enc.Count(),
		"duration", duration)
	return enc.Count(), nil
}

// Count validates opts and counts representatives without collecting them.
func (r *Runner) Count(ctx context.Context, opts Options) (int, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return 0, fmt.Errorf("invalid options: %w", err)
	}
	spec := opts.Spec()
	observability.Pipeline().OnEnumerateStart(ctx, opts.Mode.String(), spec.N)
	start := time.Now()
	n, err := bracelet.Count(ctx, spec, opts.Mode)
	duration := time.Since(start)
	observability.Pipeline().OnEnumerateComplete(ctx, opts.Mode.String(), n, duration, err)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	r.Logger.Debug("counted", "spec", spec, "mode", opts.Mode, "results", n, "duration", duration)
	return n, nil
}

// Search runs a code search, recording winners in the runner's catalog
// unless opts.Store is set.
func (r *Runner) Search(ctx context.Context, opts search.Options) ([]search.Result, error) {
	if opts.Store == nil {
		opts.Store = r.Store
	}
	next := opts.OnResult
	opts.OnResult = func(res search.Result) {
		r.Logger.Info("searched",
			"length", res.Record.Length,
			"weight", res.Record.Weight,
			"method", res.Method,
			"candidates", res.Candidates,
			"score", res.Record.Score,
			"improved", res.Improved,
			"duration", res.Duration)
		if next != nil {
			next(res)
		}
	}
	results, err := search.Search(ctx, opts)
	if err != nil {
		return results, fmt.Errorf("search: %w", err)
	}
	return results, nil
}

// Render draws one ring per word: a single ring for one word, a sheet
// otherwise.
func (r *Runner) Render(ctx context.Context, words [][]int, format string, opts render.Options) ([]byte, error) {
	var dot string
	if len(words) == 1 {
		dot = render.ToDOT(words[0], opts)
	} else {
		dot = render.SheetDOT(words, opts)
	}
	start := time.Now()
	out, err := render.Render(ctx, dot, format)
	observability.Pipeline().OnExportComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	r.Logger.Debug("rendered", "rings", len(words), "format", format, "bytes", len(out))
	return out, nil
}
