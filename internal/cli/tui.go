package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/flow/edit"
	flowio "github.com/matzehuels/flowgraph/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	statusErrStyle    = lipgloss.NewStyle().Foreground(colorRed)
	draftStyle        = lipgloss.NewStyle().Foreground(colorYellow)
)

// nodeSpacing is the vertical gap between nodes added from the editor.
const nodeSpacing = 100

type editorMode int

const (
	modeBrowse editorMode = iota
	modeConnect
	modeEdit
)

// item is one row of the editor list: a node or an edge.
type item struct {
	target edit.Target
	id     string
}

// =============================================================================
// EditorModel - Interactive flow editor
// =============================================================================

// EditorModel is the bubbletea model for the terminal flow editor. Nodes are
// listed first, then edges. The graph and edit session are shared pointers,
// so copies of the model all see the same flow.
type EditorModel struct {
	Graph   *flow.Graph
	Session *edit.Session
	Path    string
	Cursor  int
	Dirty   bool

	mode   editorMode
	from   string
	field  edit.Field
	label  textinput.Model
	info   textarea.Model
	status string
	failed bool
}

// NewEditorModel creates an editor over g. Path is where "w" writes.
func NewEditorModel(g *flow.Graph, path string) EditorModel {
	label := textinput.New()
	label.Prompt = "label › "
	label.CharLimit = errors.MaxLabelLength

	info := textarea.New()
	info.Placeholder = "link info"
	info.ShowLineNumbers = false
	info.CharLimit = errors.MaxLabelLength
	info.SetHeight(4)

	return EditorModel{
		Graph:   g,
		Session: edit.NewSession(g),
		Path:    path,
		label:   label,
		info:    info,
	}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) items() []item {
	nodes, edges := m.Graph.Nodes(), m.Graph.Edges()
	out := make([]item, 0, len(nodes)+len(edges))
	for _, n := range nodes {
		out = append(out, item{edit.TargetNode, n.ID})
	}
	for _, e := range edges {
		out = append(out, item{edit.TargetEdge, e.ID})
	}
	return out
}

func (m EditorModel) current() (item, bool) {
	items := m.items()
	if m.Cursor < 0 || m.Cursor >= len(items) {
		return item{}, false
	}
	return items[m.Cursor], true
}

func (m *EditorModel) setStatus(err error, format string, args ...any) {
	if err != nil {
		m.status, m.failed = errors.UserMessage(err), true
		return
	}
	m.status, m.failed = fmt.Sprintf(format, args...), false
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeEdit:
			cmd = m.updateEdit(msg)
		case modeConnect:
			m.updateConnect(msg)
		default:
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			cmd = m.updateBrowse(msg)
		}
	case tea.WindowSizeMsg:
		m.info.SetWidth(min(msg.Width-4, 80))
	}

	// The session closes on its own when the element under edit disappears.
	if m.mode == modeEdit && m.Session.State() != edit.Editing {
		m.leaveEdit()
	}
	m.Cursor = max(0, min(m.Cursor, len(m.items())-1))
	return m, cmd
}

func (m *EditorModel) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.items())-1 {
			m.Cursor++
		}
	case "a", "A":
		kind := flow.KindDefault
		if msg.String() == "A" {
			kind = flow.KindEnd
		}
		pos := flow.Position{X: flow.DefaultStartPosition.X, Y: float64(m.Graph.NodeCount() * nodeSpacing)}
		n, err := m.Graph.AddNode(kind, "", pos)
		if err == nil {
			m.Dirty = true
		}
		m.setStatus(err, "Added %s", n.ID)
	case " ", "space":
		it, ok := m.current()
		if !ok {
			return nil
		}
		sel := m.Graph.Selected()
		if m.Graph.IsSelected(it.id) {
			sel = slices.DeleteFunc(sel, func(id string) bool { return id == it.id })
		} else {
			sel = append(sel, it.id)
		}
		m.Graph.Select(sel)
	case "x":
		if it, ok := m.current(); ok {
			m.remove([]item{it})
		}
	case "d":
		var doomed []item
		for _, it := range m.items() {
			if m.Graph.IsSelected(it.id) {
				doomed = append(doomed, it)
			}
		}
		m.remove(doomed)
	case "c":
		it, ok := m.current()
		if !ok || it.target != edit.TargetNode {
			m.setStatus(errors.New(errors.ErrCodeInvalidInput, "connections start at a node"), "")
			return nil
		}
		m.mode, m.from = modeConnect, it.id
		m.setStatus(nil, "Connect %s %s ? (enter to confirm, esc to abort)", it.id, iconArrow)
	case "e", "enter":
		it, ok := m.current()
		if !ok {
			return nil
		}
		if err := m.Session.Begin(it.target, it.id); err != nil {
			m.setStatus(err, "")
			return nil
		}
		return m.enterEdit()
	case "w":
		if err := flowio.ExportJSON(m.Graph, m.Path); err != nil {
			m.setStatus(err, "")
			return nil
		}
		m.Dirty = false
		m.setStatus(nil, "Wrote %s", m.Path)
	}
	return nil
}

func (m *EditorModel) remove(items []item) {
	var nodes, edges []string
	for _, it := range items {
		if it.target == edit.TargetNode {
			nodes = append(nodes, it.id)
		} else {
			edges = append(edges, it.id)
		}
	}
	rm := m.Graph.Delete(nodes, edges)
	if rm.Empty() {
		m.setStatus(nil, "Nothing to delete")
		return
	}
	m.Dirty = true
	m.setStatus(nil, "Deleted %d nodes, %d edges", len(rm.NodeIDs), len(rm.EdgeIDs))
}

func (m *EditorModel) updateConnect(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.items())-1 {
			m.Cursor++
		}
	case "esc", "q", "ctrl+c":
		m.mode, m.from = modeBrowse, ""
		m.setStatus(nil, "Connection aborted")
	case "enter", "c":
		it, ok := m.current()
		m.mode = modeBrowse
		if !ok || it.target != edit.TargetNode {
			m.setStatus(errors.New(errors.ErrCodeInvalidInput, "connections end at a node"), "")
			return
		}
		e, err := m.Graph.Connect(m.from, it.id)
		if err != nil {
			m.setStatus(errors.Wrap(errors.ErrCodeInvalidConnection, err, "%s %s %s", m.from, iconArrow, it.id), "")
			return
		}
		m.Dirty = true
		m.setStatus(nil, "Connected %s", e.ID)
	}
}

func (m *EditorModel) enterEdit() tea.Cmd {
	d, _ := m.Session.Draft()
	m.mode, m.field = modeEdit, edit.FieldLabel
	m.label.SetValue(d.Label)
	m.label.CursorEnd()
	m.info.SetValue(d.LinkInfo)
	m.info.Blur()
	m.status = ""
	return m.label.Focus()
}

func (m *EditorModel) leaveEdit() {
	m.mode = modeBrowse
	m.label.Blur()
	m.info.Blur()
}

// syncDraft pushes the input values into the session draft.
func (m *EditorModel) syncDraft() {
	_ = m.Session.SetLabel(m.label.Value())
	if d, _ := m.Session.Draft(); d.Target == edit.TargetEdge {
		_ = m.Session.SetLinkInfo(m.info.Value())
	}
}

func (m *EditorModel) apply(g edit.Gesture) {
	m.syncDraft()
	d, _ := m.Session.Draft()
	closed, err := m.Session.Apply(m.field, g)
	switch {
	case err != nil:
		m.setStatus(err, "")
	case !closed:
		return
	case g == edit.Cancel:
		m.setStatus(nil, "Discarded changes to %s", d.ID)
	default:
		m.Dirty = true
		m.setStatus(nil, "Saved %s", d.ID)
	}
}

func (m *EditorModel) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.apply(edit.Cancel)
		return nil
	case "ctrl+s":
		m.apply(edit.Confirm)
		return nil
	case "enter":
		if m.field == edit.FieldLinkInfo {
			// The textarea inserts the newline at its cursor.
			var cmd tea.Cmd
			m.info, cmd = m.info.Update(msg)
			m.syncDraft()
			return cmd
		}
		m.apply(edit.LineBreak)
		return nil
	case "tab":
		if d, _ := m.Session.Draft(); d.Target != edit.TargetEdge {
			return nil
		}
		if m.field == edit.FieldLabel {
			m.field = edit.FieldLinkInfo
			m.label.Blur()
			return m.info.Focus()
		}
		m.field = edit.FieldLabel
		m.info.Blur()
		return m.label.Focus()
	}

	var cmd tea.Cmd
	if m.field == edit.FieldLinkInfo {
		m.info, cmd = m.info.Update(msg)
	} else {
		m.label, cmd = m.label.Update(msg)
	}
	return cmd
}

func (m EditorModel) View() string {
	var b strings.Builder

	title := m.Path
	if m.Dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	switch m.mode {
	case modeEdit:
		b.WriteString(listDimStyle.Render("⏎ save label / newline in link info  tab switch field  ctrl+s save  esc cancel"))
	case modeConnect:
		b.WriteString(listDimStyle.Render("↑/↓ pick target  ⏎ connect  esc abort"))
	default:
		b.WriteString(listDimStyle.Render("↑/↓ navigate  a/A add step/end  c connect  e edit  space select  x/d delete  w write  q quit"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.listView())
	b.WriteString("\n")

	if m.mode == modeEdit {
		d, _ := m.Session.Draft()
		b.WriteString(draftStyle.Render(fmt.Sprintf("editing %s %s", d.Target, d.ID)))
		b.WriteString("\n")
		b.WriteString(m.label.View())
		b.WriteString("\n")
		if d.Target == edit.TargetEdge {
			b.WriteString(m.info.View())
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		if m.failed {
			b.WriteString(statusErrStyle.Render(iconError + " " + m.status))
		} else {
			b.WriteString(listDimStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m EditorModel) listView() string {
	items := m.items()
	rows := make([][]string, len(items))
	for i, it := range items {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := ""
		if m.Graph.IsSelected(it.id) {
			mark = "●"
		}
		if it.target == edit.TargetNode {
			n, _ := m.Graph.Node(it.id)
			rows[i] = []string{cursor, mark, it.id, n.Kind.String(), n.Label}
			continue
		}
		e, _ := m.Graph.Edge(it.id)
		rows[i] = []string{cursor, mark, it.id, e.Source + " " + iconArrow + " " + e.Target, e.Label}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "ID", "Kind", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row == m.Cursor {
				return listSelectedStyle
			}
			if row < len(items) && col == 3 && items[row].target == edit.TargetNode {
				n, _ := m.Graph.Node(items[row].id)
				return kindStyles[n.Kind]
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
