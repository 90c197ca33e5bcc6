package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jeweler/pkg/bracelet"
	pkgio "github.com/matzehuels/jeweler/pkg/io"
	"github.com/matzehuels/jeweler/pkg/pipeline"
)

// enumerateCommand creates the enumerate command.
func (c *CLI) enumerateCommand() *cobra.Command {
	var (
		flags  enumFlags
		output string
		stream bool
	)

	cmd := &cobra.Command{
		Use:   "enumerate COUNTS...",
		Short: "List every representative with the given color content",
		Long: `List one representative per equivalence class of words with the given color
content. COUNTS gives how often each color occurs, e.g. "3 2 1" or "3,2,1".`,
		Example: `  jeweler enumerate 2 2
  jeweler enumerate 3,2,1 -m necklace -f json -o six.json
  jeweler enumerate 12 12 --stream -f ndjson | head`,
		Aliases: []string{"enum"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := parseCounts(args)
			if err != nil {
				return err
			}
			opts, err := c.options(counts, flags)
			if err != nil {
				return err
			}
			if stream {
				return c.runStream(cmd.Context(), opts, output)
			}
			return c.runEnumerate(cmd.Context(), opts, output)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&stream, "stream", false, "write words as they are found (sequential, constant memory)")

	return cmd
}

func (c *CLI) runEnumerate(ctx context.Context, opts pipeline.Options, output string) error {
	runner := pipeline.NewRunner(nil, loggerFromContext(ctx))
	prog := newProgress(c.Logger)

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Enumerated %d %s words", result.Stats.Count, opts.Mode))

	if output == "" {
		w := bufio.NewWriter(c.out)
		if err := runner.Export(ctx, w, result, opts.Format); err != nil {
			return err
		}
		return w.Flush()
	}

	if err := pkgio.ExportFile(output, opts.Format, result.Document()); err != nil {
		return err
	}
	printSuccess("Enumerated %s", describe(opts))
	printStats(result.Stats.Count, result.Stats.EnumerateTime, result.Stats.Truncated)
	printFile(output)
	return nil
}

func (c *CLI) runStream(ctx context.Context, opts pipeline.Options, output string) error {
	runner := pipeline.NewRunner(nil, loggerFromContext(ctx))

	var w io.Writer = c.out
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)

	n, err := runner.Stream(ctx, opts, bw)
	if flushErr := bw.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}
	if output != "" {
		printSuccess("Streamed %d words (%s)", n, describe(opts))
		printFile(output)
	}
	return nil
}

// countCommand creates the count command.
func (c *CLI) countCommand() *cobra.Command {
	var (
		flags enumFlags
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "count COUNTS...",
		Short: "Count representatives without printing them",
		Example: `  jeweler count 6 6
  jeweler count 4 4 2 --all`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := parseCounts(args)
			if err != nil {
				return err
			}
			modes := []string{flags.mode}
			if all {
				modes = modes[:0]
				for _, m := range bracelet.Modes() {
					modes = append(modes, m.String())
				}
			}

			runner := pipeline.NewRunner(nil, loggerFromContext(cmd.Context()))
			for _, mode := range modes {
				f := flags
				f.mode = mode
				opts, err := c.options(counts, f)
				if err != nil {
					return err
				}
				n, err := runner.Count(cmd.Context(), opts)
				if err != nil {
					return err
				}
				if all {
					printKeyValue(opts.Mode.String(), fmt.Sprint(n))
				} else {
					fmt.Fprintln(c.out, n)
				}
			}
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&all, "all", false, "count in every mode")

	return cmd
}
