package config

import (
	"fmt"

	"github.com/matzehuels/jeweler/pkg/bracelet"
	jerrors "github.com/matzehuels/jeweler/pkg/errors"
	"github.com/matzehuels/jeweler/pkg/pipeline"
)

// Job is one enumeration in a batch file. Empty fields fall back to the
// file's [defaults] section.
type Job struct {
	Name    string `toml:"name"`
	Counts  []int  `toml:"counts"`
	Mode    string `toml:"mode"`
	Format  string `toml:"format"`
	Output  string `toml:"output"`
	Limit   int    `toml:"limit"`
	Workers int    `toml:"workers"`
}

// Label names the job in logs: its name, or its counts when unnamed.
func (j Job) Label() string {
	if j.Name != "" {
		return j.Name
	}
	return fmt.Sprint(j.Counts)
}

func (j Job) validate() error {
	if j.Name != "" {
		if err := jerrors.ValidateName(j.Name); err != nil {
			return err
		}
	}
	if j.Output != "" {
		if err := jerrors.ValidatePath(j.Output); err != nil {
			return err
		}
	}
	return jerrors.ValidateCounts(j.Counts)
}

// Options merges the job with defaults into pipeline options.
func (j Job) Options(d Defaults) (pipeline.Options, error) {
	modeName := firstNonEmpty(j.Mode, d.Mode)
	mode, err := bracelet.ParseMode(modeName)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Counts:  j.Counts,
		Mode:    mode,
		Limit:   j.Limit,
		Workers: j.Workers,
		Format:  firstNonEmpty(j.Format, d.Format),
	}
	if opts.Limit == 0 {
		opts.Limit = d.Limit
	}
	if opts.Workers == 0 {
		opts.Workers = d.Workers
	}
	return opts, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
