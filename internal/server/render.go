package server

import (
	"net/http"
	"strconv"

	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/render/nodelink"
)

var renderFormats = map[string]struct {
	contentType string
	render      func(string) ([]byte, error)
}{
	"dot": {"text/vnd.graphviz; charset=utf-8", nil},
	"svg": {"image/svg+xml", nodelink.RenderSVG},
	"png": {"image/png", nodelink.RenderPNG},
}

// renderFlow serves the flow as a diagram. Query: format (svg, png, dot;
// default svg), detailed (bool). The current selection is highlighted.
func (s *Server) renderFlow(w http.ResponseWriter, r *http.Request, ws *workspace) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "svg"
	}
	f, ok := renderFormats[format]
	if !ok {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (must be svg, png or dot)", format))
		return
	}
	var detailed bool
	if raw := q.Get("detailed"); raw != "" {
		var err error
		if detailed, err = strconv.ParseBool(raw); err != nil {
			s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "detailed"))
			return
		}
	}

	dot := nodelink.ToDOT(ws.graph, nodelink.Options{Detailed: detailed, Selection: true})
	data := []byte(dot)
	if f.render != nil {
		var hit bool
		var err error
		data, hit, err = cache.Memo(r.Context(), s.artifacts, cache.ArtifactKey(format, dot), cache.DefaultTTL,
			func() ([]byte, error) { return f.render(dot) })
		if err != nil {
			s.respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format))
			return
		}
		s.logger.Debug("rendered flow", "format", format, "cached", hit)
	}

	w.Header().Set("Content-Type", f.contentType)
	_, _ = w.Write(data)
}
