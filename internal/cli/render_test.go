package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/render/nodelink"
)

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != "svg" {
		t.Errorf("parseFormats(\"\") = %v", got)
	}
	if got := parseFormats("dot,png"); len(got) != 2 || got[1] != "png" {
		t.Errorf("parseFormats(dot,png) = %v", got)
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats([]string{"svg", "png", "dot"}); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	if err := validateFormats([]string{"pdf"}); err == nil {
		t.Error("pdf should be rejected")
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "flows/ivr.json", "flows/ivr"},
		{"out.svg", "ivr.json", "out"},
		{"out", "ivr.json", "out"},
		{"diagram.v2", "ivr.json", "diagram.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestRenderFileDOTAndCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dot := nodelink.ToDOT(flow.New(), nodelink.Options{})

	path := filepath.Join(dir, "flow.dot")
	if _, err := renderFile(ctx, cache.NewNullCache(), dot, "dot", path); err != nil {
		t.Fatalf("renderFile(dot): %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != dot {
		t.Errorf("dot file = %q, %v", got, err)
	}

	// A cached artifact is written without invoking Graphviz.
	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(ctx, cache.ArtifactKey("svg", dot), []byte("<svg>cached</svg>"), 0); err != nil {
		t.Fatal(err)
	}
	svgPath := filepath.Join(dir, "flow.svg")
	hit, err := renderFile(ctx, fc, dot, "svg", svgPath)
	if err != nil || !hit {
		t.Fatalf("renderFile(svg) = %v, %v", hit, err)
	}
	if got, _ := os.ReadFile(svgPath); string(got) != "<svg>cached</svg>" {
		t.Errorf("svg file = %q", got)
	}

	if _, err := renderFile(ctx, fc, dot, "pdf", filepath.Join(dir, "x.pdf")); err == nil {
		t.Error("pdf should be unsupported")
	}
}

func TestRenderCommandDOT(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.json")
	if _, err := runCLI(t, "new", path); err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := runCLI(t, "render", path, "-f", "dot", "--no-cache")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := filepath.Join(dir, "flow.dot")
	if !strings.Contains(out, want) {
		t.Errorf("output does not name %s:\n%s", want, out)
	}
	data, err := os.ReadFile(want)
	if err != nil || !strings.Contains(string(data), "digraph") {
		t.Errorf("dot output = %q, %v", data, err)
	}
}
