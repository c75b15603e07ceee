package automata

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cnf/structhash"
	"github.com/npillmayer/legs"
	"golang.org/x/exp/slices"
)

// DFA is a deterministic finite automaton over bytes. Every node of the DFA
// is a key of the transition table, even if it has no outgoing transitions.
//
// The start node is the lowest node, the invalid node is the next one.
// In a DFA created by BuildDFA, start and invalid have a transition for every
// byte value, and invalid transitions to itself.
type DFA struct {
	name              string
	transitions       map[legs.Node]map[byte]legs.Node
	matchKindSets     map[legs.Node][]string // sorted
	literalNames      map[string]bool
	backtrackingOrder []string
}

// Edge is a single transition of a DFA.
type Edge struct {
	Byte byte
	Dst  legs.Node
}

// Stats holds size figures of an automaton.
type Stats struct {
	Nodes          int
	MatchNodes     int
	PostMatchNodes int
	Transitions    int
}

func (st Stats) String() string {
	return fmt.Sprintf("nodes: %d, match nodes: %d, post-match nodes: %d, transitions: %d",
		st.Nodes, st.MatchNodes, st.PostMatchNodes, st.Transitions)
}

func emptyDFA(name string, literalNames map[string]bool) *DFA {
	return &DFA{
		name:          name,
		transitions:   make(map[legs.Node]map[byte]legs.Node),
		matchKindSets: make(map[legs.Node][]string),
		literalNames:  literalNames,
	}
}

// addNode makes sure n is a key of the transition table.
func (dfa *DFA) addNode(n legs.Node) map[byte]legs.Node {
	d, ok := dfa.transitions[n]
	if !ok {
		d = make(map[byte]legs.Node)
		dfa.transitions[n] = d
	}
	return d
}

// Name returns the name of the DFA, usually the name of a lexer mode.
func (dfa *DFA) Name() string {
	return dfa.name
}

// IsEmpty is true for a DFA without any nodes. Clients have to check for
// this before asking for the start node.
func (dfa *DFA) IsEmpty() bool {
	return len(dfa.transitions) == 0
}

// StartNode returns the lowest node of the DFA.
func (dfa *DFA) StartNode() legs.Node {
	if dfa.IsEmpty() {
		panic(fmt.Sprintf("DFA %s is empty and has no start node", dfa.name))
	}
	return dfa.Nodes()[0]
}

// InvalidNode returns the node following the start node.
func (dfa *DFA) InvalidNode() legs.Node {
	return dfa.StartNode() + 1
}

// EndNode returns the node just behind the highest node of the DFA.
func (dfa *DFA) EndNode() legs.Node {
	if dfa.IsEmpty() {
		return 0
	}
	nodes := dfa.Nodes()
	return nodes[len(nodes)-1] + 1
}

// Nodes returns all nodes in ascending order.
func (dfa *DFA) Nodes() []legs.Node {
	return sortedNodes(dfa.transitions)
}

// Alphabet returns the sorted list of bytes used by any transition.
func (dfa *DFA) Alphabet() []byte {
	var seen [256]bool
	for _, d := range dfa.transitions {
		for b := range d {
			seen[b] = true
		}
	}
	return byteList(seen)
}

// Next returns the destination of node n for byte b, if defined.
func (dfa *DFA) Next(n legs.Node, b byte) (legs.Node, bool) {
	dst, ok := dfa.transitions[n][b]
	return dst, ok
}

// Edges returns the transitions of node n, sorted by byte.
func (dfa *DFA) Edges(n legs.Node) []Edge {
	d := dfa.transitions[n]
	edges := make([]Edge, 0, len(d))
	for b, dst := range d {
		edges = append(edges, Edge{Byte: b, Dst: dst})
	}
	slices.SortFunc(edges, func(e1, e2 Edge) int {
		return int(e1.Byte) - int(e2.Byte)
	})
	return edges
}

// DstBytes is a destination node together with the bytes leading to it.
type DstBytes struct {
	Dst   legs.Node
	Bytes []byte
}

// Targets groups the transitions of node n by destination. Groups are
// ordered by their byte lists.
func (dfa *DFA) Targets(n legs.Node) []DstBytes {
	var groups []DstBytes
	index := make(map[legs.Node]int)
	for _, e := range dfa.Edges(n) {
		i, ok := index[e.Dst]
		if !ok {
			i = len(groups)
			index[e.Dst] = i
			groups = append(groups, DstBytes{Dst: e.Dst})
		}
		groups[i].Bytes = append(groups[i].Bytes, e.Byte)
	}
	// edges are sorted by byte, so groups are ordered by their first byte
	return groups
}

// DstNodes returns the sorted set of destinations of node n.
func (dfa *DFA) DstNodes(n legs.Node) []legs.Node {
	s := newNodeSet()
	for _, dst := range dfa.transitions[n] {
		s.Insert(int(dst))
	}
	return nodesOf(s)
}

// --- Matching --------------------------------------------------------------

// MatchKinds returns the sorted pattern names matched at node n.
func (dfa *DFA) MatchKinds(n legs.Node) []string {
	return slices.Clone(dfa.matchKindSets[n])
}

// MatchKind returns the single pattern name matched at node n. It panics if
// n matches more than one pattern, which cannot happen for minimized DFAs.
func (dfa *DFA) MatchKind(n legs.Node) (string, bool) {
	kinds := dfa.matchKindSets[n]
	switch len(kinds) {
	case 0:
		return "", false
	case 1:
		return kinds[0], true
	}
	panic(fmt.Sprintf("DFA %s: node %d matches more than one pattern: %v", dfa.name, n, kinds))
}

// MatchNodes returns the sorted list of nodes matching any pattern.
func (dfa *DFA) MatchNodes() []legs.Node {
	return sortedNodes(dfa.matchKindSets)
}

// PatternKinds returns the sorted names of all patterns matched by the DFA.
func (dfa *DFA) PatternKinds() []string {
	kinds := make(map[string]bool)
	for _, kk := range dfa.matchKindSets {
		for _, k := range kk {
			kinds[k] = true
		}
	}
	return sortedKeys(kinds)
}

// IsLiteral is true if pattern kind was built from a literal pattern.
func (dfa *DFA) IsLiteral(kind string) bool {
	return dfa.literalNames[kind]
}

// LiteralNames returns the sorted names of literal patterns.
func (dfa *DFA) LiteralNames() []string {
	return sortedKeys(dfa.literalNames)
}

// BacktrackingOrder returns a best-effort ordering of pattern names for
// backtracking regex engines. It is empty for DFAs not created by Minimize.
func (dfa *DFA) BacktrackingOrder() []string {
	return slices.Clone(dfa.backtrackingOrder)
}

// Match runs the DFA on text, starting from the start node, and returns the
// pattern names of the node reached. If the DFA gets stuck, Match returns nil.
// Input which cannot start any token reports the invalid kind.
func (dfa *DFA) Match(text []byte) []string {
	if dfa.IsEmpty() {
		return nil
	}
	return dfa.MatchFrom(dfa.StartNode(), text)
}

// MatchFrom is like Match, but starts at node start.
func (dfa *DFA) MatchFrom(start legs.Node, text []byte) []string {
	state := start
	for _, b := range text {
		next, ok := dfa.transitions[state][b]
		if !ok {
			return nil
		}
		state = next
	}
	return dfa.MatchKinds(state)
}

// PostMatchNodes returns the nodes reachable from match nodes without passing
// through another match node.
func (dfa *DFA) PostMatchNodes() []legs.Node {
	seen := newNodeSet()
	var pending []legs.Node
	for n := range dfa.matchKindSets {
		pending = append(pending, n)
	}
	for len(pending) > 0 {
		n := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for _, dst := range dfa.transitions[n] {
			if _, isMatch := dfa.matchKindSets[dst]; isMatch {
				continue
			}
			if seen.Insert(int(dst)) {
				pending = append(pending, dst)
			}
		}
	}
	return nodesOf(seen)
}

// --- Diagnostics -----------------------------------------------------------

// Stats returns size figures of the DFA.
func (dfa *DFA) Stats() Stats {
	st := Stats{
		Nodes:          len(dfa.transitions),
		MatchNodes:     len(dfa.matchKindSets),
		PostMatchNodes: len(dfa.PostMatchNodes()),
	}
	for _, d := range dfa.transitions {
		st.Transitions += len(d)
	}
	return st
}

// Describe writes a human readable listing of the DFA to w.
func (dfa *DFA) Describe(w io.Writer, label string) {
	writeTitle(w, dfa.name, label)
	fmt.Fprintf(w, " start_node:%d end_node:%d\n", dfa.safeStart(), dfa.EndNode())
	io.WriteString(w, " match_node_kind_sets:\n")
	for _, n := range dfa.MatchNodes() {
		fmt.Fprintf(w, "  %d: %s\n", n, strings.Join(dfa.matchKindSets[n], " "))
	}
	io.WriteString(w, " transitions:\n")
	for _, src := range dfa.Nodes() {
		fmt.Fprintf(w, "  %d:%s\n", src, kindsSuffix(dfa.matchKindSets[src]))
		for _, t := range dfa.Targets(src) {
			fmt.Fprintf(w, "    %s ==> %d%s\n", legs.ByteRangesDesc(t.Bytes), t.Dst,
				kindsSuffix(dfa.matchKindSets[t.Dst]))
		}
	}
	io.WriteString(w, "\n")
}

func (dfa *DFA) safeStart() legs.Node {
	if dfa.IsEmpty() {
		return 0
	}
	return dfa.StartNode()
}

func kindsSuffix(kinds []string) string {
	if len(kinds) == 0 {
		return ""
	}
	return " " + strings.Join(kinds, " ")
}

// dfaImage is the hashable image of a DFA.
type dfaImage struct {
	Name      string
	Rows      []dfaRow
	Literals  []string
	Backtrack []string
}

type dfaRow struct {
	Node  int
	Kinds []string
	Edges []Edge
}

// Fingerprint returns a hash over the complete structure of the DFA. Two
// DFAs with identical node numbering, transitions and match sets have
// identical fingerprints.
func (dfa *DFA) Fingerprint() (string, error) {
	img := dfaImage{
		Name:      dfa.name,
		Literals:  dfa.LiteralNames(),
		Backtrack: dfa.backtrackingOrder,
	}
	for _, n := range dfa.Nodes() {
		img.Rows = append(img.Rows, dfaRow{
			Node:  int(n),
			Kinds: dfa.matchKindSets[n],
			Edges: dfa.Edges(n),
		})
	}
	return structhash.Hash(img, 1)
}

// --- Helpers ---------------------------------------------------------------

func sortedNodes[V any](m map[legs.Node]V) []legs.Node {
	nodes := make([]legs.Node, 0, len(m))
	for n := range m {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)
	return nodes
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k, ok := range m {
		if ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func byteList(seen [256]bool) []byte {
	var bytes []byte
	for b, ok := range seen {
		if ok {
			bytes = append(bytes, byte(b))
		}
	}
	return bytes
}
