package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[ids]
node_prefix = "step_"

[layout]
start = { x = 10, y = 20 }

[server]
addr = "127.0.0.1:9000"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IDs.NodePrefix != "step_" || cfg.IDs.EdgePrefix != flow.DefaultEdgePrefix {
		t.Errorf("ids = %+v", cfg.IDs)
	}
	if cfg.Layout.Start != (Point{X: 10, Y: 20}) || cfg.Layout.End != (Point{X: 250, Y: 400}) {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if lvl, _ := cfg.LogLevel(); lvl != log.DebugLevel {
		t.Errorf("level = %v", lvl)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code errors.Code
	}{
		{"explicit missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") }, errors.ErrCodeFileNotFound},
		{"malformed toml", func(t *testing.T) string { return writeConfig(t, "[ids\nnode_prefix =") }, errors.ErrCodeInvalidFormat},
		{"bad log level", func(t *testing.T) string { return writeConfig(t, "[log]\nlevel = \"loud\"") }, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("Dir() = %q", dir)
	}
}

func TestGraphOptions(t *testing.T) {
	cfg := Default()
	cfg.IDs.NodePrefix = "step_"
	cfg.Layout.End = Point{X: 1, Y: 2}

	g := flow.New(cfg.GraphOptions(nil)...)
	if _, ok := g.Node("step_1"); !ok {
		t.Error("start node should use the configured prefix")
	}
	end, ok := g.Node("step_2")
	if !ok || end.Position != (flow.Position{X: 1, Y: 2}) {
		t.Errorf("end node = %+v, %v", end, ok)
	}
}
