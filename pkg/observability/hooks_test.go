package observability

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	e := NoopEditorHooks{}
	e.OnConnect("node_1", "node_2", nil)
	e.OnConnect("node_2", "node_1", errors.New("invalid connection: self-loop"))
	e.OnRemove(1, 2)
	e.OnImport(2, 1, nil)
	e.OnExport(2, 1)
	e.OnEditTransition("idle", "editing", "begin")

	h := NoopHTTPHooks{}
	h.OnRequest("GET", "/flows/{flowID}")
	h.OnResponse("GET", "/flows/{flowID}", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Error("Editor() should return NoopEditorHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customEditor := &testEditorHooks{}
	SetEditorHooks(customEditor)
	if Editor() != customEditor {
		t.Error("SetEditorHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Error("Reset() should restore NoopEditorHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEditorHooks{}
	SetEditorHooks(custom)
	SetEditorHooks(nil)

	if Editor() != custom {
		t.Error("SetEditorHooks(nil) should be ignored")
	}

	Reset()
}

func TestPrometheusHooksConnect(t *testing.T) {
	h := NewPrometheusHooks(nil)

	h.OnConnect("node_1", "node_2", nil)
	h.OnConnect("node_1", "node_2", nil)
	h.OnConnect("node_2", "node_1", errors.New("invalid connection: start node has no incoming edges"))

	if got := testutil.ToFloat64(h.connects.WithLabelValues("accepted")); got != 2 {
		t.Errorf("accepted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.connects.WithLabelValues("start node has no incoming edges")); got != 1 {
		t.Errorf("rejected = %v, want 1", got)
	}
}

func TestPrometheusHooksRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnRemove(1, 3)
	h.OnExport(2, 1)
	h.OnImport(0, 0, errors.New("boom"))

	if got := testutil.ToFloat64(h.removed.WithLabelValues("edge")); got != 3 {
		t.Errorf("removed edges = %v, want 3", got)
	}
	if got := testutil.ToFloat64(h.imports.WithLabelValues("rejected")); got != 1 {
		t.Errorf("rejected imports = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "flowgraph_") {
			found = true
		}
	}
	if !found {
		t.Error("expected flowgraph_* metrics to be registered")
	}
}

func TestRejectionReason(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"invalid connection: self-loop", "self-loop"},
		{"plain", "plain"},
		{"trailing:", "trailing:"},
	}
	for _, tt := range tests {
		if got := rejectionReason(errors.New(tt.msg)); got != tt.want {
			t.Errorf("rejectionReason(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

// Test implementations
type testEditorHooks struct{ NoopEditorHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
