package automata

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/legs"
	"golang.org/x/tools/container/intsets"
)

// subsetConstruction memoizes the DFA node for each reachable NFA state.
type subsetConstruction struct {
	alloc  legs.NodeAllocator
	nodes  map[string]legs.Node
	states []*intsets.Sparse // indexed by DFA node
}

// nodeFor returns the DFA node for NFA state s and whether it is new.
func (sc *subsetConstruction) nodeFor(s *intsets.Sparse) (legs.Node, bool) {
	key := nodeSetKey(s)
	if n, ok := sc.nodes[key]; ok {
		return n, false
	}
	n := sc.alloc.Next()
	sc.nodes[key] = n
	sc.states = append(sc.states, s)
	return n, true
}

// BuildDFA derives a DFA from an NFA by subset construction.
//
// Each DFA node stands for a set of NFA nodes. The start node is the
// epsilon-closure of NFA node 0, the invalid node is the NFA state {1}.
// After all reachable states are discovered, every byte which does not leave
// the start node gets a transition from start to invalid, and invalid loops
// to itself for the same bytes.
//
// A DFA node matches every pattern of its underlying NFA nodes. Multiple
// matches are resolved by Minimize.
//
// An NFA without any transitions results in an empty DFA.
func BuildDFA(nfa *NFA) *DFA {
	dfa := emptyDFA(nfa.name, nfa.literalNames)
	if nfa.IsEmpty() {
		tracer().Infof("NFA %s is empty", nfa.name)
		return dfa
	}
	tracer().Debugf("=== build DFA %s ============================================", nfa.name)
	sc := &subsetConstruction{nodes: make(map[string]legs.Node)}
	start, _ := sc.nodeFor(nfa.startState())
	invalid, _ := sc.nodeFor(newNodeSet(legs.InvalidNode))
	alphabet := nfa.Alphabet()
	S := treeset.NewWith(utils.IntComparator)
	S.Add(int(start))
	for S.Size() > 0 {
		n := S.Values()[0].(int)
		S.Remove(n)
		src := legs.Node(n)
		d := dfa.addNode(src)
		state := sc.states[src]
		for _, b := range alphabet {
			next := nfa.advance(state, b)
			if next.IsEmpty() {
				continue
			}
			dst, isNew := sc.nodeFor(next)
			d[b] = dst
			if isNew {
				S.Add(int(dst))
			}
		}
	}
	if _, ok := dfa.transitions[invalid]; ok {
		panic("invalid node of NFA is reachable")
	}
	startEdges := dfa.transitions[start]
	invalidEdges := dfa.addNode(invalid)
	for c := 0; c < 256; c++ {
		b := byte(c)
		if _, ok := startEdges[b]; !ok {
			startEdges[b] = invalid
			invalidEdges[b] = invalid
		}
	}
	for i, state := range sc.states {
		kinds := make(map[string]bool)
		for _, n := range state.AppendTo(nil) {
			if kind, ok := nfa.matchKinds[legs.Node(n)]; ok {
				kinds[kind] = true
			}
		}
		if len(kinds) > 0 {
			dfa.matchKindSets[legs.Node(i)] = sortedKeys(kinds)
		}
	}
	tracer().Debugf("DFA %s: %v", dfa.name, dfa.Stats())
	return dfa
}
