package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	flowio "github.com/matzehuels/flowgraph/pkg/io"
)

// runCLI executes the root command with args and returns the command output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func readFlow(t *testing.T, path string) *flow.Graph {
	t.Helper()
	g := flow.New()
	if err := flowio.ImportJSON(g, path); err != nil {
		t.Fatalf("ImportJSON(%s): %v", path, err)
	}
	return g
}

func TestNewCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.json")

	out, err := runCLI(t, "new", path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output does not name the file:\n%s", out)
	}

	g := readFlow(t, path)
	if g.NodeCount() != 2 || g.Start().ID != "node_1" {
		t.Errorf("fresh flow = %d nodes, start %q", g.NodeCount(), g.Start().ID)
	}

	if _, err := runCLI(t, "new", path); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("new over existing file = %v, want INVALID_PATH", err)
	}
	if _, err := runCLI(t, "new", "--force", path); err != nil {
		t.Errorf("new --force: %v", err)
	}
}

func TestNewCommandStdout(t *testing.T) {
	out, err := runCLI(t, "new")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, want := range []string{`"nodes"`, `"edges"`, `"type": "start"`, `"type": "end"`} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %s:\n%s", want, out)
		}
	}
}

func TestNewCommandUsesConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfg, []byte("[ids]\nnode_prefix = \"step-\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--config", cfg, "new")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !strings.Contains(out, `"id": "step-1"`) {
		t.Errorf("configured prefix not used:\n%s", out)
	}
}

func TestConnectCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.json")
	if _, err := runCLI(t, "new", path); err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := runCLI(t, "connect", path, "node_1", "node_2", "--label", "done", "--link-info", "always")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !strings.Contains(out, "enode_1-node_2-1") {
		t.Errorf("output does not name the edge:\n%s", out)
	}

	g := readFlow(t, path)
	e, ok := g.Edge("enode_1-node_2-1")
	if !ok || e.Label != "done" || e.LinkInfo != "always" {
		t.Errorf("edge = %+v, %v", e, ok)
	}
}

func TestConnectCommandRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.json")
	if _, err := runCLI(t, "new", path); err != nil {
		t.Fatalf("new: %v", err)
	}
	before, _ := os.ReadFile(path)

	tests := []struct {
		name           string
		source, target string
	}{
		{"self loop", "node_1", "node_1"},
		{"out of end", "node_2", "node_1"},
		{"unknown node", "node_1", "node_9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "connect", path, tt.source, tt.target)
			if !errors.Is(err, errors.ErrCodeInvalidConnection) {
				t.Errorf("connect = %v, want INVALID_CONNECTION", err)
			}
		})
	}

	for _, flag := range []string{"--label", "--link-info"} {
		t.Run(flag, func(t *testing.T) {
			_, err := runCLI(t, "connect", path, "node_1", "node_2", flag, "bad\x00text")
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("connect %s = %v, want INVALID_INPUT", flag, err)
			}
		})
	}

	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("rejected connection rewrote the file")
	}
}

func TestConnectCommandOutput(t *testing.T) {
	dir := t.TempDir()
	src, dst := filepath.Join(dir, "in.json"), filepath.Join(dir, "out.json")
	if _, err := runCLI(t, "new", src); err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := runCLI(t, "connect", src, "node_1", "node_2", "-o", dst); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if readFlow(t, src).EdgeCount() != 0 {
		t.Error("source document was modified")
	}
	if readFlow(t, dst).EdgeCount() != 1 {
		t.Error("output document lacks the edge")
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	if _, err := runCLI(t, "new", good); err != nil {
		t.Fatalf("new: %v", err)
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"nodes": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	dangling := filepath.Join(dir, "dangling.json")
	doc := `{"nodes":[{"id":"node_1","type":"start","data":{"label":"Start"},"position":{"x":0,"y":0}}],
	"edges":[{"id":"e1","source":"node_1","target":"node_7"}]}`
	if err := os.WriteFile(dangling, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "check", good)
	if err != nil {
		t.Fatalf("check good: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2 nodes") {
		t.Errorf("missing stats:\n%s", out)
	}

	out, err = runCLI(t, "check", good, bad, dangling)
	if err == nil {
		t.Fatal("check should fail when a document is rejected")
	}
	if !strings.Contains(err.Error(), "2 of 3") {
		t.Errorf("err = %v", err)
	}
	for _, want := range []string{"IMPORT_MALFORMED", "IMPORT_DANGLING_EDGE"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestInspectCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.json")
	if _, err := runCLI(t, "new", path); err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := runCLI(t, "connect", path, "node_1", "node_2", "--label", "hang up"); err != nil {
		t.Fatalf("connect: %v", err)
	}

	out, err := runCLI(t, "inspect", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"node_1", "start", "End", "enode_1-node_2-1", "hang up", "locked"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectMissingFile(t *testing.T) {
	_, err := runCLI(t, "inspect", filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("inspect missing = %v, want FILE_NOT_FOUND", err)
	}
}
