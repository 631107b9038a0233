package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/buildinfo"
	"github.com/matzehuels/flowgraph/pkg/config"
	"github.com/matzehuels/flowgraph/pkg/flow"
	flowio "github.com/matzehuels/flowgraph/pkg/io"
)

// appName is the application name used for directories and display.
const appName = "flowgraph"

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
	Config config.Config

	out        io.Writer
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger. Command output goes
// to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetOutput redirects command output (not logs).
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "flowgraph edits call-flow graphs",
		Long:              `flowgraph creates, checks, renders and edits call-flow graphs: directed acyclic flows with a single Start node and one or more End nodes.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/flowgraph/config.toml)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.connectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context. --verbose wins over the configured level.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Flow Helpers
// =============================================================================

// newGraph creates an empty flow using the configured prefixes and layout.
func (c *CLI) newGraph() *flow.Graph {
	return flow.New(c.Config.GraphOptions(c.Logger)...)
}

// loadFlow imports the document at path into a fresh graph.
func (c *CLI) loadFlow(path string) (*flow.Graph, error) {
	g := c.newGraph()
	if err := flowio.ImportJSON(g, path); err != nil {
		return nil, err
	}
	return g, nil
}
