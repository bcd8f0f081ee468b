package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jmorra/clampgen/pkg/tech"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// cellsCommand creates the cells command for browsing cell types.
func (c *CLI) cellsCommand() *cobra.Command {
	var (
		techPath    string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "cells",
		Short: "List the cell types of a technology file",
		Long: `List the cell types of a technology file.

With --interactive, opens a picker; selecting a cell prints the plan
command to run for it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tech.Load(techPath)
			if err != nil {
				return err
			}
			if interactive {
				return c.runCellPicker(t, techPath)
			}
			printCellTable(t)
			return nil
		},
	}

	cmd.Flags().StringVarP(&techPath, "tech", "t", "", "technology file (TOML)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a cell interactively")
	_ = cmd.MarkFlagRequired("tech")

	return cmd
}

// printCellTable prints each cell type with its library identity and size.
func printCellTable(t *tech.Technology) {
	fmt.Println(StyleTitle.Render("Cell Types"))
	printDetail("top layer M%d, ports on M%d", t.Clamp.TopLayer, t.Clamp.UsedPortLayer)
	printNewline()
	for _, name := range t.CellNames() {
		ct := t.Clamp.Types[name]
		printKeyValue(name, fmt.Sprintf("%s/%s  %d×%d", ct.LibName, ct.CellName, ct.Width, ct.Height))
	}
}

// runCellPicker runs the interactive selection and prints the next step.
func (c *CLI) runCellPicker(t *tech.Technology, techPath string) error {
	names := t.CellNames()
	if len(names) == 0 {
		printWarning("technology file defines no cell types")
		return nil
	}

	model := NewCellListModel(t, names)
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run cell picker: %w", err)
	}

	m, ok := final.(CellListModel)
	if !ok || m.Selected == "" {
		return nil
	}

	printSuccess("Selected %s", m.Selected)
	printNextStep("Plan it", fmt.Sprintf("clampgen plan %s --tech %s", m.Selected, techPath))
	return nil
}

// =============================================================================
// CellListModel - Interactive cell-type selection
// =============================================================================

// CellListModel is the bubbletea model for interactive cell-type selection.
type CellListModel struct {
	Tech     *tech.Technology
	Names    []string
	Cursor   int
	Selected string
}

// NewCellListModel creates a new cell list model.
func NewCellListModel(t *tech.Technology, names []string) CellListModel {
	return CellListModel{Tech: t, Names: names}
}

func (m CellListModel) Init() tea.Cmd {
	return nil
}

func (m CellListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Names)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Names[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m CellListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Cell Type"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.Names {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		ct := m.Tech.Clamp.Types[name]
		detail := fmt.Sprintf("%s/%s  %d×%d", ct.LibName, ct.CellName, ct.Width, ct.Height)
		line := fmt.Sprintf("%s%-16s  %s", cursor, name, listDimStyle.Render(detail))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Names))))

	return b.String()
}
