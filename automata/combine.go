package automata

import (
	"fmt"
	"sort"

	"github.com/npillmayer/legs"
)

// Mode is a lexer mode within a combined automaton. Start and Invalid are
// global nodes.
type Mode struct {
	Name    string
	Start   legs.Node
	Invalid legs.Node
}

// IncompleteKind is the token kind reported for input which starts a token
// in mode m but never reaches a match node.
func (m Mode) IncompleteKind() string {
	if m.Name == MainMode {
		return legs.IncompleteKind
	}
	return m.Name + "_" + legs.IncompleteKind
}

func (m Mode) String() string {
	return fmt.Sprintf("mode %s [start=%d, invalid=%d]", m.Name, m.Start, m.Invalid)
}

// ModePattern names a pattern within a mode.
type ModePattern struct {
	Mode    string
	Pattern string
}

// ModeTransitions maps a pattern of a parent mode to a pattern of a child
// mode. When a lexer recognizes the parent pattern, it pushes the child mode.
// When it recognizes the child pattern while in the child mode, it pops back.
type ModeTransitions map[ModePattern]ModePattern

// ModeDFA pairs a mode name with the minimized DFA of the mode.
type ModeDFA struct {
	Mode string
	DFA  *DFA
}

// Combine merges the DFAs of several modes into one automaton with globally
// unique nodes. Modes are ordered by name, but mode 'main' always comes
// first; its start node becomes global node 0. The nodes of each mode get a
// contiguous block of global nodes, preserving their relative order.
//
// modePatternNames lists the patterns declared for each mode. A DFA matching
// a pattern not declared for its mode is an error. If modePatternNames is nil,
// this check is skipped.
//
// Combine returns the combined DFA, the modes by name and the mode of every
// global node.
func Combine(pairs []ModeDFA, modePatternNames map[string][]string) (*DFA, map[string]Mode, map[legs.Node]Mode, error) {
	sorted := make([]ModeDFA, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Mode, sorted[j].Mode
		if a == MainMode || b == MainMode {
			return a == MainMode && b != MainMode
		}
		return a < b
	})
	if len(sorted) == 0 || sorted[0].Mode != MainMode {
		return nil, nil, nil, ErrNoMainMode
	}
	for _, pair := range sorted {
		if pair.DFA.IsEmpty() {
			return nil, nil, nil, fmt.Errorf("%w: %s", ErrEmptyMode, pair.Mode)
		}
		if err := checkDeclared(pair, modePatternNames); err != nil {
			return nil, nil, nil, err
		}
	}
	combined := emptyDFA(sorted[0].DFA.name, make(map[string]bool))
	modes := make(map[string]Mode)
	nodeModes := make(map[legs.Node]Mode)
	var alloc legs.NodeAllocator
	for _, pair := range sorted {
		dfa := pair.DFA
		remap := make(map[legs.Node]legs.Node)
		for _, n := range dfa.Nodes() {
			remap[n] = alloc.Next()
		}
		global := func(n legs.Node) legs.Node {
			g, ok := remap[n]
			if !ok {
				panic(fmt.Sprintf("mode %s: node %d missing from remap", pair.Mode, n))
			}
			return g
		}
		mode := Mode{
			Name:    pair.Mode,
			Start:   global(dfa.StartNode()),
			Invalid: global(dfa.InvalidNode()),
		}
		modes[mode.Name] = mode
		for _, src := range dfa.Nodes() {
			d := combined.addNode(global(src))
			for b, dst := range dfa.transitions[src] {
				d[b] = global(dst)
			}
			nodeModes[global(src)] = mode
		}
		for n, kinds := range dfa.matchKindSets {
			combined.matchKindSets[global(n)] = kinds
		}
		for name, ok := range dfa.literalNames {
			if ok {
				combined.literalNames[name] = true
			}
		}
		tracer().Debugf("%v, nodes %d…%d", mode, global(dfa.StartNode()), alloc.Count()-1)
	}
	return combined, modes, nodeModes, nil
}

func checkDeclared(pair ModeDFA, modePatternNames map[string][]string) error {
	if modePatternNames == nil {
		return nil
	}
	declared := make(map[string]bool)
	for _, name := range modePatternNames[pair.Mode] {
		declared[name] = true
	}
	for _, kind := range pair.DFA.PatternKinds() {
		if kind != legs.InvalidKind && !declared[kind] {
			return fmt.Errorf("%w: mode %s, pattern %s", ErrUndeclaredPattern, pair.Mode, kind)
		}
	}
	return nil
}
