package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jeweler/pkg/bracelet"
	"github.com/matzehuels/jeweler/pkg/combin"
	jerrors "github.com/matzehuels/jeweler/pkg/errors"
	"github.com/matzehuels/jeweler/pkg/pipeline"
)

const (
	// maxVerifyLength keeps the multinomial below int overflow.
	maxVerifyLength = 18

	// maxVerifyArrangements bounds brute-force work.
	maxVerifyArrangements = 5_000_000
)

// verifyCommand creates the verify command, which checks the generator
// against a brute-force orbit count.
func (c *CLI) verifyCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "verify COUNTS...",
		Short: "Check counts against a brute-force orbit search",
		Long: `Count representatives with the generator and with a brute-force search over
every arrangement, for one mode or all of them. Exits non-zero on mismatch.`,
		Example: `  jeweler verify 3 2 1
  jeweler verify 4,4 -m necklace`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := parseCounts(args)
			if err != nil {
				return err
			}
			modes := bracelet.Modes()
			if mode != "" {
				m, err := bracelet.ParseMode(mode)
				if err != nil {
					return err
				}
				modes = []bracelet.Mode{m}
			}
			return c.runVerify(cmd, counts, modes)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "check one mode only (default: all)")

	return cmd
}

func (c *CLI) runVerify(cmd *cobra.Command, counts []int, modes []bracelet.Mode) error {
	if err := checkBruteForce(counts); err != nil {
		return err
	}
	runner := pipeline.NewRunner(nil, c.Logger)

	var mismatches int
	for _, m := range modes {
		got, err := runner.Count(cmd.Context(), pipeline.Options{Counts: counts, Mode: m})
		if err != nil {
			return err
		}
		want := combin.CountOrbits(counts, m.Reflect(), m.Aperiodic())
		if got != want {
			mismatches++
			printError("%-16s generator %d, brute force %d", m, got, want)
			continue
		}
		printSuccess("%-16s %d", m, got)
	}
	if mismatches > 0 {
		return jerrors.New(jerrors.ErrCodeInternal, "%d of %d modes disagree with brute force for %v", mismatches, len(modes), counts)
	}
	printDetail("%d arrangements checked", combin.Multinomial(counts))
	return nil
}

// checkBruteForce refuses contents too large to enumerate exhaustively.
func checkBruteForce(counts []int) error {
	n := 0
	for _, c := range counts {
		n += c
	}
	if n > maxVerifyLength {
		return jerrors.New(jerrors.ErrCodeLimitExceeded, "length %d is too long to verify (max %d)", n, maxVerifyLength)
	}
	if a := combin.Multinomial(counts); a > maxVerifyArrangements {
		return jerrors.New(jerrors.ErrCodeLimitExceeded, "%d arrangements is too many to verify (max %d)", a, maxVerifyArrangements)
	}
	return nil
}
