package cli

import (
	stderrors "errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/errors"
	flowio "github.com/matzehuels/flowgraph/pkg/io"
)

func (c *CLI) newCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Write a fresh flow with one Start and one End node",
		Long: `Write a fresh flow document. Without a file argument the document is
printed to stdout. Node ids and initial positions follow the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := c.newGraph()
			if len(args) == 0 || args[0] == "-" {
				return flowio.WriteJSON(g, c.out)
			}

			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
			} else if err != nil && !stderrors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := flowio.ExportJSON(g, path); err != nil {
				return err
			}
			printSuccess(c.out, "Created flow")
			printFile(c.out, path)
			printNextStep(c.out, "Edit it", "flowgraph edit "+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
