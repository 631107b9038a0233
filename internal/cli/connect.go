package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/errors"
	flowio "github.com/matzehuels/flowgraph/pkg/io"
)

// connectOpts holds the flags for the connect command.
type connectOpts struct {
	output   string
	label    string
	linkInfo string
}

func (c *CLI) connectCommand() *cobra.Command {
	var opts connectOpts

	cmd := &cobra.Command{
		Use:   "connect [file] [source] [target]",
		Short: "Add an edge to a flow document",
		Long: `Add the edge source -> target to a flow document and write it back.
The connection is rejected, and the file left untouched, if it would be a
self-loop, leave an End node, enter the Start node, or close a cycle.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, source, target := args[0], args[1], args[2]
			for _, text := range []string{opts.label, opts.linkInfo} {
				if err := errors.ValidateLabel(text); err != nil {
					return err
				}
			}
			g, err := c.loadFlow(path)
			if err != nil {
				return err
			}

			e, err := g.Connect(source, target)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConnection, err, "%s -> %s", source, target)
			}
			if opts.label != "" || opts.linkInfo != "" {
				info := opts.linkInfo
				if err := g.RelabelEdge(e.ID, opts.label, &info); err != nil {
					return err
				}
			}

			out := opts.output
			if out == "" {
				out = path
			}
			if err := flowio.ExportJSON(g, out); err != nil {
				return err
			}
			printSuccess(c.out, "Connected %s %s %s", source, iconArrow, target)
			printDetail(c.out, "edge %s", e.ID)
			printFile(c.out, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result here instead of in place")
	cmd.Flags().StringVar(&opts.label, "label", "", "edge label")
	cmd.Flags().StringVar(&opts.linkInfo, "link-info", "", "edge link info")
	return cmd
}
