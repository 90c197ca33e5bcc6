package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jeweler/pkg/bracelet"
	"github.com/matzehuels/jeweler/pkg/objective"
	"github.com/matzehuels/jeweler/pkg/search"
)

// searchOpts holds the command-line flags for the search command.
type searchOpts struct {
	minLength int
	maxLength int
	density   float64
	objective string
	mode      string
	method    string
	samples   int
	timeout   time.Duration
	seed      uint64
	noCatalog bool
}

// searchCommand creates the search command for finding binary codes with
// the best spectral score.
func (c *CLI) searchCommand() *cobra.Command {
	opts := searchOpts{density: search.DefaultDensity, objective: objective.NameMinimalVariance}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find the best-scoring binary codes for a range of lengths",
		Long: `Score every binary bracelet (or Lyndon word) of each length and keep the best one.
Winners are recorded in the catalog when they beat the stored score.

The enumerate method is exact but slows down quickly past 30 bits. The random
method scores --samples random codes per length instead, stopping early when
--timeout expires and keeping the best code found so far.

Objectives: ` + strings.Join(objective.Names(), ", "),
		Example: `  jeweler search --min 8 --max 20
  jeweler search --min 16 --density 0.4 --objective coded_factor -m lyndon
  jeweler search --min 48 --max 64 -s random --samples 500000 --timeout 30s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mode, err := bracelet.ParseMode(firstNonEmpty(opts.mode, c.Config.Defaults.Mode))
			if err != nil {
				return err
			}
			method, err := search.ParseMethod(opts.method)
			if err != nil {
				return err
			}

			runner, store, err := c.newRunner(ctx, opts.noCatalog)
			if err != nil {
				return err
			}
			defer c.closeStore(store)

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Searching length %d", opts.minLength))
			spinner.Start()
			results, err := runner.Search(ctx, search.Options{
				MinLength: opts.minLength,
				MaxLength: opts.maxLength,
				Density:   opts.density,
				Objective: opts.objective,
				Mode:      mode,
				Method:    method,
				Samples:   opts.samples,
				Timeout:   opts.timeout,
				Seed:      opts.seed,
				OnResult: func(res search.Result) {
					spinner.SetMessage(fmt.Sprintf("Searching length %d", res.Record.Length+1))
				},
			})
			if err != nil {
				if spinner.Cancelled() {
					spinner.Stop()
					return err
				}
				spinner.StopWithError("Search failed")
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Searched %d length(s)", len(results)))

			for _, res := range results {
				rec := res.Record
				printScore(rec.Length, rec.Weight, rec.Code, rec.Score, res.Improved)
			}
			if len(results) > 0 {
				printNextStep("Draw the last code", "jeweler render "+formatBits(results[len(results)-1].Record.Code))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.minLength, "min", 8, "shortest code length")
	cmd.Flags().IntVar(&opts.maxLength, "max", 0, "longest code length (default: --min)")
	cmd.Flags().Float64Var(&opts.density, "density", opts.density, "fraction of ones in each code")
	cmd.Flags().StringVar(&opts.objective, "objective", opts.objective, "objective function")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "candidate class: bracelet (default) or lyndon")
	cmd.Flags().StringVarP(&opts.method, "method", "s", string(search.MethodEnumerate), "search method: enumerate or random")
	cmd.Flags().IntVar(&opts.samples, "samples", search.DefaultSamples, "random codes scored per length")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "time limit per length for random search (0: none)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0: pick one)")
	cmd.Flags().BoolVar(&opts.noCatalog, "no-catalog", false, "do not read or write the catalog")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
