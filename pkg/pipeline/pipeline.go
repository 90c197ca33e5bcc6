// Package pipeline runs enumerations for the CLI, the batch runner and the
// HTTP server.
//
// This package implements the validate → enumerate → export flow so that
// every entry point behaves the same way, including logging and
// observability hooks.
//
// # Usage
//
// Create a Runner and execute a request:
//
//	runner := pipeline.NewRunner(nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Counts: []int{3, 2, 1},
//	    Mode:   bracelet.Bracelet,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = runner.Export(ctx, os.Stdout, result, "text")
//
// Stream large outputs instead of collecting them:
//
//	n, err := runner.Stream(ctx, opts, os.Stdout)
//
// Search for optimal binary codes, recording winners in the runner's
// catalog:
//
//	results, err := runner.Search(ctx, search.Options{MinLength: 8, MaxLength: 16})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jeweler/pkg/bracelet"
	jerrors "github.com/matzehuels/jeweler/pkg/errors"
	pkgio "github.com/matzehuels/jeweler/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Batch
// =============================================================================

const (
	// DefaultMode is the equivalence relation used when none is given.
	DefaultMode = bracelet.Bracelet

	// DefaultFormat is the export format used when none is given.
	DefaultFormat = pkgio.FormatText

	// DefaultWorkers keeps enumeration on the calling goroutine.
	DefaultWorkers = 1
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one enumeration.
// This struct supports JSON and TOML serialization for API requests and
// batch job files.
type Options struct {
	Counts  []int         `json:"counts" toml:"counts"`
	Mode    bracelet.Mode `json:"mode" toml:"mode"`
	Limit   int           `json:"limit,omitempty" toml:"limit"`
	Workers int           `json:"workers,omitempty" toml:"workers"`
	Format  string        `json:"format,omitempty" toml:"format"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Spec returns the content specification described by the counts.
func (o *Options) Spec() bracelet.Spec {
	return bracelet.NewSpec(o.Counts...)
}

// ValidateAndSetDefaults checks the request and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := jerrors.ValidateCounts(o.Counts); err != nil {
		return err
	}
	if err := o.Spec().Validate(); err != nil {
		return err
	}
	if !o.Mode.Valid() {
		return jerrors.New(jerrors.ErrCodeInvalidMode, "unknown mode %d", int(o.Mode))
	}
	if o.Limit < 0 {
		return jerrors.New(jerrors.ErrCodeInvalidInput, "limit must not be negative, got %d", o.Limit)
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	format, err := pkgio.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	o.Format = format
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	Spec  bracelet.Spec
	Mode  bracelet.Mode
	Words [][]int

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Count         int
	Truncated     bool
	EnumerateTime time.Duration
}

// Document converts the result to its export representation.
func (r *Result) Document() *pkgio.Document {
	return pkgio.NewDocument(r.Spec, r.Mode, r.Words)
}
