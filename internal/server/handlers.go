package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowgraph/pkg/buildinfo"
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/flow/edit"
	flowio "github.com/matzehuels/flowgraph/pkg/io"
)

type addNodeRequest struct {
	Kind     string        `json:"kind"`
	Label    string        `json:"label"`
	Position *positionView `json:"position"`
}

type moveNodeRequest struct {
	Position positionView `json:"position"`
}

type connectRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type connectResponse struct {
	Accepted bool      `json:"accepted"`
	Edge     *edgeView `json:"edge,omitempty"`
	Code     string    `json:"code,omitempty"`
	Reason   string    `json:"reason,omitempty"`
}

type deleteRequest struct {
	Nodes []string `json:"nodes"`
	Edges []string `json:"edges"`
}

type deleteResponse struct {
	Nodes []string `json:"nodes"`
	Edges []string `json:"edges"`
}

type selectionRequest struct {
	IDs []string `json:"ids"`
}

type draftRequest struct {
	Label    *string `json:"label"`
	LinkInfo *string `json:"link_info"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Current(),
	})
}

// createFlow handles POST /flows.
func (s *Server) createFlow(w http.ResponseWriter, _ *http.Request) {
	id, ws := s.newWorkspace()
	ws.mu.Lock()
	defer ws.mu.Unlock()
	s.logger.Info("flow created", "flow", id)
	s.respondJSON(w, http.StatusCreated, newFlowView(id.String(), ws))
}

// getFlow handles GET /flows/{flowID}.
func (s *Server) getFlow(w http.ResponseWriter, r *http.Request, ws *workspace) {
	s.respondJSON(w, http.StatusOK, newFlowView(chi.URLParam(r, "flowID"), ws))
}

// deleteFlow handles DELETE /flows/{flowID}.
func (s *Server) deleteFlow(w http.ResponseWriter, r *http.Request) {
	id, err := parseFlowID(chi.URLParam(r, "flowID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.mu.Lock()
	_, ok := s.flows[id]
	delete(s.flows, id)
	s.mu.Unlock()
	if !ok {
		s.respondError(w, errors.New(errors.ErrCodeNotFound, "flow %s", id))
		return
	}
	s.logger.Info("flow deleted", "flow", id)
	w.WriteHeader(http.StatusNoContent)
}

// addNode handles POST /flows/{flowID}/nodes.
func (s *Server) addNode(w http.ResponseWriter, r *http.Request, ws *workspace) {
	var req addNodeRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.Kind == "" {
		req.Kind = flow.KindDefault.String()
	}
	kind, err := flow.ParseKind(req.Kind)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := errors.ValidateLabel(req.Label); err != nil {
		s.respondError(w, err)
		return
	}
	var pos flow.Position
	if req.Position != nil {
		pos = flow.Position{X: req.Position.X, Y: req.Position.Y}
	}
	n, err := ws.graph.AddNode(kind, req.Label, pos)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, newNodeView(n))
}

// moveNode handles PATCH /flows/{flowID}/nodes/{nodeID}.
func (s *Server) moveNode(w http.ResponseWriter, r *http.Request, ws *workspace) {
	var req moveNodeRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	id := chi.URLParam(r, "nodeID")
	if err := ws.graph.MoveNode(id, flow.Position{X: req.Position.X, Y: req.Position.Y}); err != nil {
		s.respondError(w, err)
		return
	}
	n, _ := ws.graph.Node(id)
	s.respondJSON(w, http.StatusOK, newNodeView(n))
}

// connect handles POST /flows/{flowID}/connections. A rejected connection is
// reported with 422 and leaves the flow unchanged.
func (s *Server) connect(w http.ResponseWriter, r *http.Request, ws *workspace) {
	var req connectRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	e, err := ws.graph.Connect(req.Source, req.Target)
	if err != nil {
		s.respondJSON(w, http.StatusUnprocessableEntity, connectResponse{
			Code:   string(errors.ErrCodeInvalidConnection),
			Reason: err.Error(),
		})
		return
	}
	ev := newEdgeView(e)
	s.respondJSON(w, http.StatusOK, connectResponse{Accepted: true, Edge: &ev})
}

// deleteElements handles POST /flows/{flowID}/delete. Protected nodes and
// unknown ids are skipped; the response lists what was actually removed.
func (s *Server) deleteElements(w http.ResponseWriter, r *http.Request, ws *workspace) {
	var req deleteRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	rm := ws.graph.Delete(req.Nodes, req.Edges)
	resp := deleteResponse{Nodes: rm.NodeIDs, Edges: rm.EdgeIDs}
	if resp.Nodes == nil {
		resp.Nodes = []string{}
	}
	if resp.Edges == nil {
		resp.Edges = []string{}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// selectElements handles PUT /flows/{flowID}/selection.
func (s *Server) selectElements(w http.ResponseWriter, r *http.Request, ws *workspace) {
	var req selectionRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	ws.graph.Select(req.IDs)
	sel := ws.graph.Selected()
	if sel == nil {
		sel = []string{}
	}
	s.respondJSON(w, http.StatusOK, selectionRequest{IDs: sel})
}

// beginEdit handles POST /flows/{flowID}/edit/{target}/{elementID}.
func (s *Server) beginEdit(w http.ResponseWriter, r *http.Request, ws *workspace) {
	target, err := edit.ParseTarget(chi.URLParam(r, "target"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := ws.session.Begin(target, chi.URLParam(r, "elementID")); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondDraft(w, ws)
}

// updateDraft handles PUT /flows/{flowID}/edit/draft.
func (s *Server) updateDraft(w http.ResponseWriter, r *http.Request, ws *workspace) {
	var req draftRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.Label != nil {
		if err := ws.session.SetLabel(*req.Label); err != nil {
			s.respondError(w, err)
			return
		}
	}
	if req.LinkInfo != nil {
		if err := ws.session.SetLinkInfo(*req.LinkInfo); err != nil {
			s.respondError(w, err)
			return
		}
	}
	s.respondDraft(w, ws)
}

func (s *Server) respondDraft(w http.ResponseWriter, ws *workspace) {
	d, ok := ws.session.Draft()
	if !ok {
		s.respondError(w, errors.New(errors.ErrCodeNotEditing, "no element is being edited"))
		return
	}
	s.respondJSON(w, http.StatusOK, newDraftView(d))
}

// saveEdit handles POST /flows/{flowID}/edit/save and returns the flow.
func (s *Server) saveEdit(w http.ResponseWriter, r *http.Request, ws *workspace) {
	if err := ws.session.Save(); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newFlowView(chi.URLParam(r, "flowID"), ws))
}

// cancelEdit handles POST /flows/{flowID}/edit/cancel.
func (s *Server) cancelEdit(w http.ResponseWriter, _ *http.Request, ws *workspace) {
	ws.session.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// exportFlow handles GET /flows/{flowID}/export.
func (s *Server) exportFlow(w http.ResponseWriter, _ *http.Request, ws *workspace) {
	w.Header().Set("Content-Type", "application/json")
	if err := flowio.WriteJSON(ws.graph, w); err != nil {
		s.logger.Error("export failed", "err", err)
	}
}

// importFlow handles POST /flows/{flowID}/import. On rejection the flow keeps
// its prior contents.
func (s *Server) importFlow(w http.ResponseWriter, r *http.Request, ws *workspace) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := flowio.Import(ws.graph, body); err != nil {
		s.logger.Debug("import rejected", "code", errors.GetCode(err), "err", err)
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newFlowView(chi.URLParam(r, "flowID"), ws))
}
