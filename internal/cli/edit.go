package cli

import (
	stderrors "errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/flow"
)

func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a flow document in the terminal",
		Long: `Open a flow document in an interactive editor. A missing file starts a
fresh flow that is created on the first write.

Browse keys:
  a / A     add a step / an End node
  c         connect from the node under the cursor
  e, ⏎      edit the label (and link info, for edges)
  space     toggle selection
  x / d     delete the current element / the selection
  w         write the document
  q         quit

While editing, ⏎ saves a label but inserts a newline in link info; tab
switches fields, ctrl+s saves and esc discards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			g, err := c.openFlow(path)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewEditorModel(g, path), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(EditorModel); ok && m.Dirty {
				printInfo(c.out, "%s", StyleWarning.Render("Unsaved changes discarded"))
			}
			return nil
		},
	}
}

// openFlow loads path, or starts a fresh flow when the file does not exist.
func (c *CLI) openFlow(path string) (*flow.Graph, error) {
	if _, err := os.Stat(path); stderrors.Is(err, os.ErrNotExist) {
		c.Logger.Debug("starting new flow", "path", path)
		return c.newGraph(), nil
	}
	return c.loadFlow(path)
}
