package cli

import (
	"bytes"
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/jeweler/internal/config"
	pkgio "github.com/matzehuels/jeweler/pkg/io"
	"github.com/matzehuels/jeweler/pkg/pipeline"
)

// batchCommand creates the batch command, which runs every [[job]] of a
// TOML job file.
func (c *CLI) batchCommand() *cobra.Command {
	var parallel int

	cmd := &cobra.Command{
		Use:   "batch JOBFILE",
		Short: "Run the enumerations listed in a TOML job file",
		Long: `Run every [[job]] table of a job file. Jobs with an output path are written to
that file; the others are printed to stdout in file order once all jobs finish.

  [defaults]
  mode = "necklace"

  [[job]]
  name = "six"
  counts = [3, 2, 1]
  output = "six.json"
  format = "json"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if len(jobs.Jobs) == 0 {
				printWarning("%s defines no [[job]] tables", args[0])
				return nil
			}
			return c.runBatch(cmd.Context(), jobs, parallel)
		},
	}

	cmd.Flags().IntVarP(&parallel, "parallel", "p", runtime.GOMAXPROCS(0), "jobs run at once")

	return cmd
}

// batchOutput is what one job produced for stdout.
type batchOutput struct {
	label string
	buf   bytes.Buffer
}

func (c *CLI) runBatch(ctx context.Context, file config.Config, parallel int) error {
	runner := pipeline.NewRunner(nil, loggerFromContext(ctx))
	outputs := make([]*batchOutput, len(file.Jobs))
	prog := newProgress(c.Logger)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))
	for i, job := range file.Jobs {
		g.Go(func() error {
			opts, err := job.Options(file.Defaults)
			if err != nil {
				return fmt.Errorf("job %s: %w", job.Label(), err)
			}
			result, err := runner.Execute(ctx, opts)
			if err != nil {
				return fmt.Errorf("job %s: %w", job.Label(), err)
			}
			c.Logger.Debug("job finished", "job", job.Label(), "results", result.Stats.Count)
			if job.Output != "" {
				if err := pkgio.ExportFile(job.Output, opts.Format, result.Document()); err != nil {
					return fmt.Errorf("job %s: %w", job.Label(), err)
				}
				return nil
			}
			out := &batchOutput{label: job.Label()}
			if err := runner.Export(ctx, &out.buf, result, opts.Format); err != nil {
				return fmt.Errorf("job %s: %w", job.Label(), err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Ran %d jobs", len(file.Jobs)))

	for _, out := range outputs {
		if out == nil {
			continue
		}
		if _, err := out.buf.WriteTo(c.out); err != nil {
			return err
		}
	}
	for _, job := range file.Jobs {
		if job.Output != "" {
			printFile(job.Output)
		}
	}
	return nil
}
