package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jeweler/pkg/catalog"
	jerrors "github.com/matzehuels/jeweler/pkg/errors"
	"github.com/matzehuels/jeweler/pkg/objective"
)

// catalogCommand creates the catalog management command.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and manage the best-code catalog",
	}

	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogGetCommand())
	cmd.AddCommand(c.catalogDeleteCommand())
	cmd.AddCommand(c.catalogClearCommand())
	cmd.AddCommand(c.catalogPathCommand())

	return cmd
}

// catalogListCommand creates the "catalog list" subcommand.
func (c *CLI) catalogListCommand() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored best codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openCatalog(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.closeStore(store)

			recs, err := store.List(cmd.Context(), length)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("Catalog is empty")
				printNextStep("Fill it", "jeweler search --min 8 --max 16")
				return nil
			}
			fmt.Fprintln(c.out, recordTable(recs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&length, "length", "l", 0, "only this code length (0 = all)")

	return cmd
}

// recordTable formats records the way the browse view formats words.
func recordTable(recs []catalog.Record) string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			strconv.Itoa(r.Length),
			strconv.Itoa(r.Weight),
			r.Objective,
			fmt.Sprintf("%.6g", r.Score),
			formatBits(r.Code),
			r.UpdatedAt.Local().Format("2006-01-02 15:04"),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("L", "W", "Objective", "Score", "Code", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 3:
				return StyleNumber
			case col == 5:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}

// catalogGetCommand creates the "catalog get" subcommand.
func (c *CLI) catalogGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get LENGTH WEIGHT OBJECTIVE",
		Short: "Show one stored code",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKeyArgs(args)
			if err != nil {
				return err
			}
			store, err := c.openCatalog(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.closeStore(store)

			rec, err := store.Get(cmd.Context(), key)
			if err != nil {
				return err
			}
			printKeyValue("Key", key.String())
			printKeyValue("Code", formatBits(rec.Code))
			printKeyValue("Score", fmt.Sprintf("%.6g", rec.Score))
			if rec.RunID != "" {
				printKeyValue("Run", rec.RunID)
			}
			printKeyValue("Updated", rec.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

// catalogDeleteCommand creates the "catalog delete" subcommand.
func (c *CLI) catalogDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete LENGTH WEIGHT OBJECTIVE",
		Short: "Remove one stored code",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKeyArgs(args)
			if err != nil {
				return err
			}
			store, err := c.openCatalog(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.closeStore(store)

			if err := store.Delete(cmd.Context(), key); err != nil {
				return err
			}
			printSuccess("Deleted %s", key)
			return nil
		},
	}
}

// catalogClearCommand creates the "catalog clear" subcommand.
func (c *CLI) catalogClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored code (file backend)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openCatalog(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.closeStore(store)

			fs, ok := store.(*catalog.FileStore)
			if !ok {
				return jerrors.New(jerrors.ErrCodeUnsupported, "clear is only supported by the file backend, not %q", c.Config.Catalog.Backend)
			}
			recs, err := fs.List(cmd.Context(), 0)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("Catalog is empty")
				return nil
			}
			if err := fs.Clear(); err != nil {
				return err
			}
			printSuccess("Cleared %d catalog entries", len(recs))
			printDetail("Directory: %s", fs.Dir())
			return nil
		},
	}
}

// catalogPathCommand creates the "catalog path" subcommand.
func (c *CLI) catalogPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file catalog directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.Config.Catalog.Dir
			if dir == "" {
				var err error
				if dir, err = catalog.DefaultDir(); err != nil {
					return fmt.Errorf("get catalog dir: %w", err)
				}
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}

// parseKeyArgs reads LENGTH WEIGHT OBJECTIVE into a key.
func parseKeyArgs(args []string) (catalog.Key, error) {
	return catalog.ParseKey(fmt.Sprintf("catalog:%s:%s:%s", args[0], args[1], objective.Normalize(args[2])))
}
