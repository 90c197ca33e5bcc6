package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jeweler/pkg/pipeline"
	"github.com/matzehuels/jeweler/pkg/render"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const bead = "●"

// =============================================================================
// WordListModel - Interactive word browser
// =============================================================================

// WordListModel is the bubbletea model for paging through enumerated words.
type WordListModel struct {
	Title    string
	Words    [][]int
	Cursor   int
	Selected []int
	Height   int
	Offset   int
	Partial  bool
}

// NewWordListModel creates a new word list model.
func NewWordListModel(title string, words [][]int, partial bool) WordListModel {
	return WordListModel{
		Title:   title,
		Words:   words,
		Height:  15,
		Partial: partial,
	}
}

func (m WordListModel) Init() tea.Cmd {
	return nil
}

func (m WordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "pgup", "b":
			m.moveTo(m.Cursor - m.Height)
		case "pgdown", "f", " ":
			m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.Words) - 1)
		case "enter":
			if len(m.Words) == 0 {
				return m, nil
			}
			m.Selected = m.Words[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 7
		if m.Height < 5 {
			m.Height = 5
		}
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor at i, clamped to the list, and scrolls so it
// stays visible.
func (m *WordListModel) moveTo(i int) {
	m.Cursor = max(0, min(i, len(m.Words)-1))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m WordListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  pgup/pgdn page  g/G ends  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Words))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		w := m.Words[i]
		rows = append(rows, []string{cursor, fmt.Sprint(i + 1), formatWord(w), beads(w)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Word", "Ring").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch {
			case col == 3:
				return lipgloss.NewStyle()
			case m.Offset+row == m.Cursor:
				return listSelectedStyle
			case col == 1:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	status := fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Words)), len(m.Words))
	if m.Partial {
		status += " (limit reached)"
	}
	b.WriteString(listDimStyle.Render(status))

	return b.String()
}

// beads draws a word as colored dots using the ring palette.
func beads(word []int) string {
	var b strings.Builder
	for _, c := range word {
		color := lipgloss.Color(render.DefaultPalette[c%len(render.DefaultPalette)])
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(bead))
	}
	return b.String()
}

// =============================================================================
// browse command
// =============================================================================

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	flags := enumFlags{limit: defaultBrowseLimit}

	cmd := &cobra.Command{
		Use:   "browse COUNTS...",
		Short: "Page through representatives interactively",
		Long: `Enumerate representatives and page through them in the terminal.
Pressing enter prints the highlighted word and exits.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := parseCounts(args)
			if err != nil {
				return err
			}
			opts, err := c.options(counts, flags)
			if err != nil {
				return err
			}

			result, err := pipeline.NewRunner(nil, c.Logger).Execute(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if result.Stats.Count == 0 {
				printInfo("No %s words with content %v", opts.Mode, counts)
				return nil
			}

			title := fmt.Sprintf("%s %v", opts.Mode, counts)
			model := NewWordListModel(title, result.Words, result.Stats.Truncated)
			final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(WordListModel); ok && m.Selected != nil {
				fmt.Fprintln(c.out, formatWord(m.Selected))
			}
			return nil
		},
	}

	flags.register(cmd, false)

	return cmd
}
