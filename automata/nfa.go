package automata

import (
	"fmt"
	"io"
	"sort"

	"github.com/npillmayer/legs"
	"github.com/npillmayer/legs/pattern"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/container/intsets"
)

// NamedPattern is a pattern together with the name of the token kind it
// produces.
type NamedPattern struct {
	Name    string
	Pattern pattern.Pattern
}

// NFA is a nondeterministic finite automaton over bytes, with epsilon
// transitions. Node 0 is the start node, node 1 is the unreachable invalid
// node. Every pattern has exactly one match node.
type NFA struct {
	name         string
	transitions  map[legs.Node]map[legs.Symbol]*intsets.Sparse
	matchKinds   map[legs.Node]string
	literalNames map[string]bool
}

// Option configures the construction of an NFA.
type Option func(o *buildOptions)

type buildOptions struct {
	encoding pattern.Encoding
}

// WithEncoding selects the byte encoding of charsets. Default is UTF-8.
func WithEncoding(enc pattern.Encoding) Option {
	return func(o *buildOptions) {
		o.encoding = enc
	}
}

// nfaSink collects the transitions of pattern fragments.
type nfaSink struct {
	nfa *NFA
}

func (s nfaSink) AddTransition(src legs.Node, sym legs.Symbol, dst legs.Node) {
	d, ok := s.nfa.transitions[src]
	if !ok {
		d = make(map[legs.Symbol]*intsets.Sparse)
		s.nfa.transitions[src] = d
	}
	dsts, ok := d[sym]
	if !ok {
		dsts = &intsets.Sparse{}
		d[sym] = dsts
	}
	dsts.Insert(int(dst))
}

// BuildNFA generates an NFA from a list of named patterns. Names are expected
// to be unique; this is not checked.
//
// Each pattern gets a fresh match node, and its fragment is generated from
// the start node to this match node. Literal patterns are remembered, as the
// NFA prefers them when matching.
func BuildNFA(name string, patterns []NamedPattern, opts ...Option) *NFA {
	o := buildOptions{encoding: pattern.UTF8}
	for _, opt := range opts {
		opt(&o)
	}
	nfa := &NFA{
		name:         name,
		transitions:  make(map[legs.Node]map[legs.Symbol]*intsets.Sparse),
		matchKinds:   map[legs.Node]string{legs.InvalidNode: legs.InvalidKind},
		literalNames: make(map[string]bool),
	}
	alloc := legs.NewNodeAllocator()
	gen := pattern.NewGenerator(alloc, o.encoding, nfaSink{nfa: nfa})
	for _, np := range patterns {
		match := alloc.Next()
		gen.GenNFA(np.Pattern, legs.StartNode, match)
		nfa.matchKinds[match] = np.Name
		if pattern.IsLiteral(np.Pattern) {
			nfa.literalNames[np.Name] = true
		}
	}
	tracer().Debugf("NFA %s: %d patterns, %d nodes", name, len(patterns), alloc.Count())
	return nfa
}

// Name returns the name of the NFA, usually the name of a lexer mode.
func (nfa *NFA) Name() string {
	return nfa.name
}

// IsEmpty is true if the NFA has no transitions at all.
func (nfa *NFA) IsEmpty() bool {
	return len(nfa.transitions) == 0
}

// MatchKind returns the name of the pattern matched at node n, if any.
func (nfa *NFA) MatchKind(n legs.Node) (string, bool) {
	kind, ok := nfa.matchKinds[n]
	return kind, ok
}

// IsLiteral is true if pattern kind was built from a literal pattern.
func (nfa *NFA) IsLiteral(kind string) bool {
	return nfa.literalNames[kind]
}

// LiteralNames returns the sorted names of literal patterns.
func (nfa *NFA) LiteralNames() []string {
	return sortedKeys(nfa.literalNames)
}

// Nodes returns all nodes of the NFA in ascending order.
func (nfa *NFA) Nodes() []legs.Node {
	all := newNodeSet(legs.StartNode, legs.InvalidNode)
	for src, d := range nfa.transitions {
		all.Insert(int(src))
		for _, dsts := range d {
			all.UnionWith(dsts)
		}
	}
	return nodesOf(all)
}

// Alphabet returns the sorted list of bytes used by any transition.
func (nfa *NFA) Alphabet() []byte {
	var seen [256]bool
	for _, d := range nfa.transitions {
		for sym := range d {
			if !sym.IsEpsilon() {
				seen[sym] = true
			}
		}
	}
	return byteList(seen)
}

// Targets returns the destinations of node n for symbol sym.
func (nfa *NFA) Targets(n legs.Node, sym legs.Symbol) []legs.Node {
	return nodesOf(nfa.transitions[n][sym])
}

// --- Simulation ------------------------------------------------------------

// closure expands a set of nodes by all nodes reachable through epsilon
// transitions. s is modified in place and returned.
func (nfa *NFA) closure(s *intsets.Sparse) *intsets.Sparse {
	var pending intsets.Sparse
	pending.Copy(s)
	var n int
	for pending.TakeMin(&n) {
		dsts, ok := nfa.transitions[legs.Node(n)][legs.Epsilon]
		if !ok {
			continue
		}
		for _, dst := range dsts.AppendTo(nil) {
			if s.Insert(dst) {
				pending.Insert(dst)
			}
		}
	}
	return s
}

// advance returns the epsilon-closed state reached from state by byte b.
func (nfa *NFA) advance(state *intsets.Sparse, b byte) *intsets.Sparse {
	next := &intsets.Sparse{}
	for _, n := range state.AppendTo(nil) {
		if dsts, ok := nfa.transitions[legs.Node(n)][legs.ByteSymbol(b)]; ok {
			next.UnionWith(dsts)
		}
	}
	return nfa.closure(next)
}

func (nfa *NFA) startState() *intsets.Sparse {
	return nfa.closure(newNodeSet(legs.StartNode))
}

// EpsilonClosure returns the sorted set of nodes reachable from nodes by
// epsilon transitions, including nodes themselves.
func (nfa *NFA) EpsilonClosure(nodes []legs.Node) []legs.Node {
	return nodesOf(nfa.closure(newNodeSet(nodes...)))
}

// Advance simulates one step of the NFA: it returns the epsilon-closed set of
// nodes reached from state by byte b.
func (nfa *NFA) Advance(state []legs.Node, b byte) []legs.Node {
	return nodesOf(nfa.advance(newNodeSet(state...), b))
}

// Match runs the NFA on text and returns the sorted names of the patterns
// matching all of text. If literal patterns are among them, only the literal
// ones are returned.
//
// This is not the disambiguation rule of the DFA, which is authoritative for
// lexers. Match is intended for cross-checking automata.
func (nfa *NFA) Match(text []byte) []string {
	state := nfa.startState()
	for _, b := range text {
		state = nfa.advance(state, b)
		if state.IsEmpty() {
			return nil
		}
	}
	var all, literals []string
	for _, n := range state.AppendTo(nil) {
		kind, ok := nfa.matchKinds[legs.Node(n)]
		if !ok {
			continue
		}
		all = append(all, kind)
		if nfa.literalNames[kind] {
			literals = append(literals, kind)
		}
	}
	if len(literals) > 0 {
		all = literals
	}
	sort.Strings(all)
	return slices.Compact(all)
}

// Validate reports patterns which match the empty string, i.e. whose match
// node is part of the start state. A lexer built from such patterns would not
// advance.
func (nfa *NFA) Validate() []string {
	start := nfa.startState()
	var msgs []string
	for _, n := range sortedNodes(nfa.matchKinds) {
		if start.Has(int(n)) {
			msgs = append(msgs, fmt.Sprintf("pattern is trivially matched from start: %s", nfa.matchKinds[n]))
		}
	}
	return msgs
}

// --- Diagnostics -----------------------------------------------------------

// Stats returns size figures of the NFA.
func (nfa *NFA) Stats() Stats {
	st := Stats{
		Nodes:      len(nfa.transitions),
		MatchNodes: len(nfa.matchKinds),
	}
	for _, d := range nfa.transitions {
		st.Transitions += len(d)
	}
	return st
}

// Describe writes a human readable listing of the NFA to w.
func (nfa *NFA) Describe(w io.Writer, label string) {
	writeTitle(w, nfa.name, label)
	io.WriteString(w, " match_node_kinds:\n")
	for _, n := range sortedNodes(nfa.matchKinds) {
		fmt.Fprintf(w, "  %d: %s\n", n, nfa.matchKinds[n])
	}
	io.WriteString(w, " transitions:\n")
	for _, src := range sortedNodes(nfa.transitions) {
		fmt.Fprintf(w, "  %d:", src)
		if kind, ok := nfa.matchKinds[src]; ok {
			fmt.Fprintf(w, " %s", kind)
		}
		io.WriteString(w, "\n")
		d := nfa.transitions[src]
		syms := make([]legs.Symbol, 0, len(d))
		for sym := range d {
			syms = append(syms, sym)
		}
		slices.Sort(syms)
		for _, sym := range syms {
			fmt.Fprintf(w, "    %s ==> %s\n", sym, d[sym])
		}
	}
	io.WriteString(w, "\n")
}

func writeTitle(w io.Writer, name, label string) {
	if label != "" {
		fmt.Fprintf(w, "%s: %s:\n", name, label)
	} else {
		fmt.Fprintf(w, "%s:\n", name)
	}
}
