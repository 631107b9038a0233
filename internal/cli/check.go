package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/errors"
)

func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Check flow documents and report why they would be rejected",
		Long: `Import each document as the editor would and report the result. A
rejected document is reported with its error code:

  IMPORT_MALFORMED      not JSON, or the nodes/edges arrays are missing
  IMPORT_INVALID_NODE   a node lacks id, type, data.label or position
  IMPORT_INVALID_EDGE   an edge lacks id, source or target
  IMPORT_DANGLING_EDGE  an edge references a node that is not in the document
  IMPORT_INVALID_GRAPH  the flow breaks a graph rule (start/end, cycles, ids)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			failed := 0
			for _, path := range args {
				g, err := c.loadFlow(path)
				if err != nil {
					failed++
					logger.Debug("check failed", "path", path, "err", err)
					printError(c.out, "%s: %s", path, StyleWarning.Render(string(errors.GetCode(err))))
					printDetail(c.out, "%s", errors.UserMessage(err))
					continue
				}
				printSuccess(c.out, "%s", path)
				printStats(c.out, g.NodeCount(), g.EdgeCount())
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents rejected", failed, len(args))
			}
			return nil
		},
	}
}
