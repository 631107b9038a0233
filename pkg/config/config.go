// Package config loads flowgraph settings from a TOML file.
//
// The default location follows the XDG base directory convention:
// $XDG_CONFIG_HOME/flowgraph/config.toml, falling back to
// ~/.config/flowgraph/config.toml. A missing file yields [Default].
//
//	[ids]
//	node_prefix = "node_"
//	edge_prefix = "e"
//
//	[layout]
//	start = { x = 250, y = 0 }
//	end   = { x = 250, y = 400 }
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "info"
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
)

const appName = "flowgraph"

type Config struct {
	IDs    IDs    `toml:"ids"`
	Layout Layout `toml:"layout"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
}

// IDs sets the prefixes used by the identifier allocator.
type IDs struct {
	NodePrefix string `toml:"node_prefix"`
	EdgePrefix string `toml:"edge_prefix"`
}

// Layout sets where the initial Start and End nodes of a new flow are placed.
type Layout struct {
	Start Point `toml:"start"`
	End   Point `toml:"end"`
}

type Point struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

func (p Point) Position() flow.Position { return flow.Position{X: p.X, Y: p.Y} }

type Server struct {
	Addr string `toml:"addr"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		IDs: IDs{NodePrefix: flow.DefaultNodePrefix, EdgePrefix: flow.DefaultEdgePrefix},
		Layout: Layout{
			Start: Point{X: flow.DefaultStartPosition.X, Y: flow.DefaultStartPosition.Y},
			End:   Point{X: flow.DefaultEndPosition.X, Y: flow.DefaultEndPosition.Y},
		},
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info"},
	}
}

// Dir returns the configuration directory (~/.config/flowgraph/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the file at path on top of [Default]. An empty path means the
// default location. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		if stderrors.Is(err, os.ErrNotExist) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if _, err := cfg.LogLevel(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LogLevel parses the configured level. An empty level means info.
func (c Config) LogLevel() (log.Level, error) {
	if c.Log.Level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return log.InfoLevel, errors.Wrap(errors.ErrCodeInvalidInput, err, "log level %q", c.Log.Level)
	}
	return lvl, nil
}

// GraphOptions returns the flow options for a new graph built from c.
func (c Config) GraphOptions(logger *log.Logger) []flow.Option {
	opts := []flow.Option{
		flow.WithAllocator(flow.NewAllocator(c.IDs.NodePrefix, c.IDs.EdgePrefix)),
		flow.WithLayout(c.Layout.Start.Position(), c.Layout.End.Position()),
	}
	if logger != nil {
		opts = append(opts, flow.WithLogger(logger))
	}
	return opts
}
