package cli

import (
	"testing"

	"github.com/matzehuels/flowgraph/pkg/buildinfo"
)

func TestSetVersion(t *testing.T) {
	oldV, oldC, oldD := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	t.Cleanup(func() { buildinfo.Version, buildinfo.Commit, buildinfo.Date = oldV, oldC, oldD })

	SetVersion("1.0.0", "abc123", "2024-01-01")

	if buildinfo.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", buildinfo.Version, "1.0.0")
	}
	if buildinfo.Commit != "abc123" {
		t.Errorf("Commit = %q, want %q", buildinfo.Commit, "abc123")
	}
	if buildinfo.Date != "2024-01-01" {
		t.Errorf("Date = %q, want %q", buildinfo.Date, "2024-01-01")
	}
}

func TestSetVersionEmptyKeepsValues(t *testing.T) {
	oldV := buildinfo.Version
	t.Cleanup(func() { buildinfo.Version = oldV })

	buildinfo.Version = "v9"
	SetVersion("", "", "")
	if buildinfo.Version != "v9" {
		t.Errorf("Version = %q, want v9", buildinfo.Version)
	}
}
