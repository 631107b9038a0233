package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the nodes and edges of a flow document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadFlow(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(c.out, StyleTitle.Render(args[0]))
			printStats(c.out, g.NodeCount(), g.EdgeCount())
			fmt.Fprintln(c.out, nodeTable(g.Nodes()))
			if g.EdgeCount() > 0 {
				fmt.Fprintln(c.out, edgeTable(g.Edges()))
			}
			return nil
		},
	}
}
