// Package edit implements the single-slot label editing workflow for a flow.
//
// A [Session] is either idle or editing exactly one node or edge. Entering
// edit mode seeds a draft from the committed label (and, for edges, the link
// info). The draft is committed with [Session.Save], discarded with
// [Session.Cancel], and discarded automatically when the element under edit
// disappears from the graph for any reason.
//
//	s := edit.NewSession(g)
//	s.BeginNode("node_3")
//	s.SetLabel("Collect account number")
//	s.Save()
//
// Text fields follow a gesture protocol, see [Session.Apply]: confirm saves,
// cancel discards, and a line break inside the multi-line link-info field
// inserts a newline instead of committing.
package edit

import (
	"fmt"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/observability"
)

// State is the session state.
type State int

const (
	Idle State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "idle"
}

// Target is the kind of element under edit.
type Target int

const (
	TargetNode Target = iota
	TargetEdge
)

func (t Target) String() string {
	if t == TargetEdge {
		return "edge"
	}
	return "node"
}

// ParseTarget maps "node" or "edge" to a Target.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "node":
		return TargetNode, nil
	case "edge":
		return TargetEdge, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown edit target %q", s)
}

// Field names an input of the edit form.
type Field int

const (
	// FieldLabel is the single-line label input.
	FieldLabel Field = iota
	// FieldLinkInfo is the multi-line annotation input (edges only).
	FieldLinkInfo
)

// Gesture is a commit-relevant input event from a text field.
type Gesture int

const (
	// Confirm commits the draft (Enter in a single-line field, or an explicit
	// save action).
	Confirm Gesture = iota
	// Cancel discards the draft.
	Cancel
	// LineBreak is Enter inside a text field.
	LineBreak
)

// Reasons reported to observability hooks when leaving the Editing state.
const (
	ReasonBegin   = "begin"
	ReasonSave    = "save"
	ReasonCancel  = "cancel"
	ReasonDeleted = "element_deleted"
	ReasonSwitch  = "switch"
)

// Draft is the uncommitted edit held by the session.
type Draft struct {
	Target   Target
	ID       string
	Label    string
	LinkInfo string
}

// Session is the edit state machine bound to one graph. It observes the
// graph and returns to Idle, discarding the draft, when the element under
// edit is removed. Like the graph, a Session is not safe for concurrent use.
type Session struct {
	g     *flow.Graph
	state State
	draft Draft

	// OnClose, if set, is called whenever an edit ends, with the reason.
	OnClose func(d Draft, reason string)
}

// NewSession creates an idle session and subscribes it to g.
func NewSession(g *flow.Graph) *Session {
	s := &Session{g: g}
	g.Observe(s.observe)
	return s
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Draft returns the current draft and whether the session is editing.
func (s *Session) Draft() (Draft, bool) {
	return s.draft, s.state == Editing
}

// BeginNode enters edit mode for a node, seeding the draft label from the
// committed one. Any edit already open is discarded first.
func (s *Session) BeginNode(id string) error {
	n, ok := s.g.Node(id)
	if !ok {
		return errors.Wrap(errors.ErrCodeNotFound, flow.ErrNodeNotFound, "node %s", id)
	}
	s.open(Draft{Target: TargetNode, ID: id, Label: n.Label})
	return nil
}

// BeginEdge enters edit mode for an edge, seeding the draft label and link
// info from the committed values. Any edit already open is discarded first.
func (s *Session) BeginEdge(id string) error {
	e, ok := s.g.Edge(id)
	if !ok {
		return errors.Wrap(errors.ErrCodeNotFound, flow.ErrEdgeNotFound, "edge %s", id)
	}
	s.open(Draft{Target: TargetEdge, ID: id, Label: e.Label, LinkInfo: e.LinkInfo})
	return nil
}

// Begin dispatches to [Session.BeginNode] or [Session.BeginEdge].
func (s *Session) Begin(t Target, id string) error {
	if t == TargetEdge {
		return s.BeginEdge(id)
	}
	return s.BeginNode(id)
}

func (s *Session) open(d Draft) {
	if s.state == Editing {
		s.close(ReasonSwitch)
	}
	s.state, s.draft = Editing, d
	observability.Editor().OnEditTransition(Idle.String(), Editing.String(), ReasonBegin)
}

func (s *Session) close(reason string) {
	d := s.draft
	s.state, s.draft = Idle, Draft{}
	observability.Editor().OnEditTransition(Editing.String(), Idle.String(), reason)
	if s.OnClose != nil {
		s.OnClose(d, reason)
	}
}

// SetLabel replaces the draft label.
func (s *Session) SetLabel(label string) error {
	if s.state != Editing {
		return errors.New(errors.ErrCodeNotEditing, "no element is being edited")
	}
	s.draft.Label = label
	return nil
}

// SetLinkInfo replaces the draft link info. Only edges carry link info.
func (s *Session) SetLinkInfo(info string) error {
	if s.state != Editing {
		return errors.New(errors.ErrCodeNotEditing, "no element is being edited")
	}
	if s.draft.Target != TargetEdge {
		return errors.New(errors.ErrCodeInvalidInput, "link info applies to edges only")
	}
	s.draft.LinkInfo = info
	return nil
}

// Save commits the draft to the graph and returns to Idle. If the commit
// fails the session stays in Editing with the draft intact.
func (s *Session) Save() error {
	if s.state != Editing {
		return errors.New(errors.ErrCodeNotEditing, "no element is being edited")
	}
	if err := errors.ValidateLabel(s.draft.Label); err != nil {
		return err
	}
	if err := errors.ValidateLabel(s.draft.LinkInfo); err != nil {
		return err
	}

	var err error
	switch s.draft.Target {
	case TargetNode:
		err = s.g.RelabelNode(s.draft.ID, s.draft.Label)
	case TargetEdge:
		info := s.draft.LinkInfo
		err = s.g.RelabelEdge(s.draft.ID, s.draft.Label, &info)
	}
	if err != nil {
		return fmt.Errorf("save %s %s: %w", s.draft.Target, s.draft.ID, err)
	}
	s.close(ReasonSave)
	return nil
}

// Cancel discards the draft unconditionally. It is a no-op when idle.
func (s *Session) Cancel() {
	if s.state == Editing {
		s.close(ReasonCancel)
	}
}

// Apply handles a commit gesture coming from field:
//
//   - Confirm saves
//   - Cancel discards
//   - LineBreak in FieldLabel saves, since the label is single-line
//   - LineBreak in FieldLinkInfo appends a newline to the draft link info
//
// It reports whether the session left the Editing state.
func (s *Session) Apply(field Field, g Gesture) (closed bool, err error) {
	if s.state != Editing {
		return false, errors.New(errors.ErrCodeNotEditing, "no element is being edited")
	}
	switch {
	case g == Cancel:
		s.Cancel()
		return true, nil
	case g == LineBreak && field == FieldLinkInfo:
		return false, s.SetLinkInfo(s.draft.LinkInfo + "\n")
	default:
		if err := s.Save(); err != nil {
			return false, err
		}
		return true, nil
	}
}

// observe closes the edit when its element is removed. A wholesale
// replacement (import) always closes it, even if an element with the same ID
// comes back in the new contents.
func (s *Session) observe(c flow.Change) {
	if s.state != Editing {
		return
	}
	switch c.Op {
	case flow.OpReplace:
		s.close(ReasonDeleted)
		return
	case flow.OpRemove:
	default:
		return
	}
	var exists bool
	switch s.draft.Target {
	case TargetNode:
		_, exists = s.g.Node(s.draft.ID)
	case TargetEdge:
		_, exists = s.g.Edge(s.draft.ID)
	}
	if !exists {
		s.close(ReasonDeleted)
	}
}
