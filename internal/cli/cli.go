package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jeweler/internal/config"
	"github.com/matzehuels/jeweler/pkg/bracelet"
	"github.com/matzehuels/jeweler/pkg/buildinfo"
	"github.com/matzehuels/jeweler/pkg/catalog"
	jerrors "github.com/matzehuels/jeweler/pkg/errors"
	"github.com/matzehuels/jeweler/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "jeweler"

	// defaultBrowseLimit caps how many words browse loads.
	defaultBrowseLimit = 10000
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config config.Config

	configPath string
	out        io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command results (not log lines) to w.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Jeweler enumerates bracelets, necklaces and Lyndon words",
		Long: `Jeweler lists every bracelet, necklace or Lyndon word with a fixed color content,
once per equivalence class, and searches binary codes for coded-aperture designs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/jeweler/config.toml)")

	// Register all subcommands
	root.AddCommand(c.enumerateCommand())
	root.AddCommand(c.countCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.completionCommand())
	registerValueCompletions(root)

	return root
}

func (c *CLI) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "backend", cfg.Catalog.Backend, "mode", cfg.Defaults.Mode)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The caller closes the
// returned store.
func (c *CLI) newRunner(ctx context.Context, noCatalog bool) (*pipeline.Runner, catalog.Store, error) {
	store, err := c.openCatalog(ctx, noCatalog)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.NewRunner(store, c.Logger), store, nil
}

func (c *CLI) openCatalog(ctx context.Context, disabled bool) (catalog.Store, error) {
	if disabled {
		return catalog.NewNullStore(), nil
	}
	return catalog.Open(ctx, c.Config.Catalog.StoreConfig())
}

// =============================================================================
// Options Helpers
// =============================================================================

// enumFlags holds the flags shared by enumeration commands. Zero values
// fall back to the config file's [defaults].
type enumFlags struct {
	mode    string
	limit   int
	workers int
	format  string
}

func (f *enumFlags) register(cmd *cobra.Command, withFormat bool) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "bracelet (default), necklace, lyndon, lyndon-bracelet")
	cmd.Flags().IntVar(&f.limit, "limit", f.limit, "stop after this many results (0 = all)")
	cmd.Flags().IntVar(&f.workers, "workers", f.workers, "split the search tree across this many goroutines")
	if withFormat {
		cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: text (default), json, ndjson")
	}
}

// options merges flags over config defaults.
func (c *CLI) options(counts []int, f enumFlags) (pipeline.Options, error) {
	opts, err := config.Job{
		Counts:  counts,
		Mode:    f.mode,
		Format:  f.format,
		Limit:   f.limit,
		Workers: f.workers,
	}.Options(c.Config.Defaults)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.Logger = c.Logger
	return opts, opts.ValidateAndSetDefaults()
}

// parseCounts reads color counts given as separate arguments, as one
// comma-separated argument, or a mix ("3 2 1", "3,2,1").
func parseCounts(args []string) ([]int, error) {
	var counts []int
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, isSeparator) {
			c, err := strconv.Atoi(field)
			if err != nil {
				return nil, jerrors.New(jerrors.ErrCodeInvalidSpec, "count %q is not an integer", field)
			}
			counts = append(counts, c)
		}
	}
	if err := jerrors.ValidateCounts(counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// parseWord reads a word written as digits ("0101"), or as separated
// colors ("0,1,0,1" / "0 1 0 1") when colors exceed 9.
func parseWord(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, jerrors.New(jerrors.ErrCodeInvalidInput, "empty word")
	}
	fields := strings.FieldsFunc(s, isSeparator)
	if len(fields) == 1 {
		fields = strings.Split(fields[0], "")
	}
	word := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return nil, jerrors.New(jerrors.ErrCodeInvalidInput, "invalid color %q in word %q", f, s)
		}
		word[i] = v
	}
	if len(word) > bracelet.MaxLength {
		return nil, jerrors.New(jerrors.ErrCodeCapacityExceeded, "word length %d exceeds %d", len(word), bracelet.MaxLength)
	}
	return word, nil
}

func isSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t'
}

// formatWord renders a word the way text export does.
func formatWord(word []int) string {
	parts := make([]string, len(word))
	for i, v := range word {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// closeStore closes s, logging rather than failing on error.
func (c *CLI) closeStore(s catalog.Store) {
	if err := s.Close(); err != nil {
		c.Logger.Warn("close catalog", "error", err)
	}
}

// describe formats a spec and mode for status lines.
func describe(opts pipeline.Options) string {
	return fmt.Sprintf("%s %v", opts.Mode, opts.Counts)
}
