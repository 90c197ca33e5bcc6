package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
	pkgio "github.com/matzehuels/jeweler/pkg/io"
	"github.com/matzehuels/jeweler/pkg/pipeline"
	"github.com/matzehuels/jeweler/pkg/render"
)

const defaultRenderBase = "ring"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path (multiple)
	input   string   // exported document to draw instead of arguments
	formats []string // dot, svg, png, pdf
	labels  []string // color names
	title   string   // caption under each ring
	limit   int      // max rings drawn from an input file
}

// renderCommand creates the render command for drawing words as rings.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr, labelsStr string
	opts := renderOpts{limit: 64}

	cmd := &cobra.Command{
		Use:   "render [WORD...]",
		Short: "Draw words as colored rings",
		Long: `Draw one ring per word. Words are written as digits ("0102") or with
separators ("0,1,0,2"). With --input, words are read from an enumerate export.`,
		Example: `  jeweler render 001011 -f svg,png -o code
  jeweler enumerate 2 2 1 -f json -o five.json && jeweler render -i five.json -o five.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if labelsStr != "" {
				opts.labels = strings.Split(labelsStr, ",")
			}
			words, err := renderInput(args, opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), words, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "read words from an exported file (.txt, .json, .ndjson)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().StringVar(&labelsStr, "labels", "", "comma-separated color names, e.g. R,G,B")
	cmd.Flags().StringVar(&opts.title, "title", "", "caption drawn under the ring")
	cmd.Flags().IntVar(&opts.limit, "limit", opts.limit, "max rings drawn from --input (0 = all)")

	return cmd
}

// renderInput collects the words to draw from args or opts.input.
func renderInput(args []string, opts renderOpts) ([][]int, error) {
	if opts.input != "" && len(args) > 0 {
		return nil, jerrors.New(jerrors.ErrCodeInvalidInput, "give words or --input, not both")
	}
	if opts.input != "" {
		words, err := readWords(opts.input)
		if err != nil {
			return nil, err
		}
		if opts.limit > 0 && len(words) > opts.limit {
			words = words[:opts.limit]
		}
		if len(words) == 0 {
			return nil, jerrors.New(jerrors.ErrCodeInvalidInput, "%s holds no words", opts.input)
		}
		return words, nil
	}
	if len(args) == 0 {
		return nil, jerrors.New(jerrors.ErrCodeInvalidInput, "nothing to draw: give a word or --input")
	}
	words := make([][]int, len(args))
	for i, arg := range args {
		w, err := parseWord(arg)
		if err != nil {
			return nil, err
		}
		words[i] = w
	}
	return words, nil
}

// readWords reads an export, picking the format from the extension.
func readWords(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	format, err := pkgio.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		format = pkgio.FormatText
	}
	return pkgio.Read(f, format)
}

func (c *CLI) runRender(ctx context.Context, words [][]int, opts *renderOpts) error {
	runner := pipeline.NewRunner(nil, loggerFromContext(ctx))
	ropts := render.Options{Labels: opts.labels, Title: opts.title}

	var paths []string
	for _, format := range opts.formats {
		out, err := runner.Render(ctx, words, format, ropts)
		if err != nil {
			return err
		}
		if format == render.FormatDOT && opts.output == "" && len(opts.formats) == 1 {
			_, err := c.out.Write(out)
			return err
		}
		path := outputPath(opts.output, format, len(opts.formats))
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %d ring(s)", len(words))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// outputPath picks the file for one format. A single format writes to
// output as given; several formats treat output as a base name.
func outputPath(output, format string, formats int) string {
	if output == "" {
		return defaultRenderBase + "." + format
	}
	if formats == 1 {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	valid := render.Formats()
	for _, f := range formats {
		if !slices.Contains(valid, f) {
			return jerrors.New(jerrors.ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", f, strings.Join(valid, ", "))
		}
	}
	return nil
}
