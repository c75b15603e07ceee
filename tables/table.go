package tables

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/npillmayer/legs"
	"github.com/npillmayer/legs/automata"
)

// Table is the transition table of a DFA, together with the pattern kind and
// the mode of every node. Rows are indexed by node, relative to the first
// node of the DFA.
type Table struct {
	name   string
	first  legs.Node
	matrix *RunMatrix
	kinds  []string
	modes  []string
}

// Build creates a transition table for dfa. The DFA must be minimized, i.e.
// every node matches at most one pattern. nodeModes may be nil for
// single-mode DFAs.
func Build(dfa *automata.DFA, nodeModes map[legs.Node]automata.Mode) *Table {
	t := &Table{name: dfa.Name()}
	if dfa.IsEmpty() {
		t.matrix = NewRunMatrix(0, DefaultNullValue)
		return t
	}
	t.first = dfa.StartNode()
	rows := int(dfa.EndNode() - t.first)
	t.matrix = NewRunMatrix(rows, DefaultNullValue)
	t.kinds = make([]string, rows)
	t.modes = make([]string, rows)
	for _, n := range dfa.Nodes() {
		row := int(n - t.first)
		for _, e := range dfa.Edges(n) {
			t.matrix.Set(row, e.Byte, int32(e.Dst))
		}
		t.kinds[row], _ = dfa.MatchKind(n)
		if mode, ok := nodeModes[n]; ok {
			t.modes[row] = mode.Name
		}
	}
	tracer().Debugf("table %s: %d rows, %d runs for %d transitions", t.name, rows,
		t.matrix.ValueCount(), dfa.Stats().Transitions)
	return t
}

// Name returns the name of the underlying DFA.
func (t *Table) Name() string {
	return t.name
}

// Rows returns the number of rows, i.e. nodes.
func (t *Table) Rows() int {
	return t.matrix.M()
}

// Runs returns the number of runs stored.
func (t *Table) Runs() int {
	return t.matrix.ValueCount()
}

// NullValue returns the value of empty entries.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

func (t *Table) row(n legs.Node) (int, bool) {
	row := int(n - t.first)
	return row, row >= 0 && row < t.matrix.M()
}

// Next returns the destination of node n for byte b, if defined.
func (t *Table) Next(n legs.Node, b byte) (legs.Node, bool) {
	row, ok := t.row(n)
	if !ok {
		return 0, false
	}
	v := t.matrix.Value(row, b)
	if v == t.matrix.NullValue() {
		return 0, false
	}
	return legs.Node(v), true
}

// Kind returns the pattern matched at node n, or "" for non-matching nodes.
func (t *Table) Kind(n legs.Node) string {
	if row, ok := t.row(n); ok {
		return t.kinds[row]
	}
	return ""
}

// Mode returns the name of the mode node n belongs to, if known.
func (t *Table) Mode(n legs.Node) string {
	if row, ok := t.row(n); ok {
		return t.modes[row]
	}
	return ""
}

// Transitions returns the runs of node n, ordered by byte.
func (t *Table) Transitions(n legs.Node) []Run {
	if row, ok := t.row(n); ok {
		return t.matrix.Row(row)
	}
	return nil
}

// AsHTML exports a transition table in HTML-format.
func (t *Table) AsHTML(w io.Writer) {
	io.WriteString(w, "<html><body>\n")
	io.WriteString(w, fmt.Sprintf("Transition table %s with %d rows and %d runs<p>",
		html.EscapeString(t.name), t.Rows(), t.Runs()))
	io.WriteString(w, "<table border=1 cellspacing=0 cellpadding=5>\n")
	io.WriteString(w, "<tr bgcolor=#cccccc><td>node</td><td>mode</td><td>kind</td><td>transitions</td></tr>\n")
	for row := 0; row < t.Rows(); row++ {
		n := t.first + legs.Node(row)
		io.WriteString(w, fmt.Sprintf("<tr><td>%d</td><td>%s</td><td>%s</td>\n", n,
			cell(html.EscapeString(t.modes[row])), cell(html.EscapeString(t.kinds[row]))))
		var td []string
		for _, r := range t.matrix.Row(row) {
			var bytes string
			if r.Lo == r.Hi {
				bytes = legs.ByteDesc(r.Lo)
			} else {
				bytes = legs.ByteDesc(r.Lo) + "-" + legs.ByteDesc(r.Hi)
			}
			td = append(td, fmt.Sprintf("%s&rarr;%d", html.EscapeString(bytes), r.Value))
		}
		io.WriteString(w, "<td>")
		io.WriteString(w, cell(strings.Join(td, " ")))
		io.WriteString(w, "</td></tr>\n")
	}
	io.WriteString(w, "</table></body></html>\n")
}

func cell(s string) string {
	if s == "" {
		return "&nbsp;"
	}
	return s
}
