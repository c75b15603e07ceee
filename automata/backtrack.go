package automata

import (
	"fmt"
	"strings"

	"github.com/npillmayer/legs"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/container/intsets"
)

// backtrackOrder calculates an ordering of the patterns of a minimized DFA
// for code generators targeting backtracking regex engines. Such engines
// resolve ambiguity by ordered choice, so an order is not always correct:
// a keyword `kw` and a name pattern `[a-z]+` need an assertion like `kw\b`.
// The result is a best effort:
//
//   - patterns which cannot be ordered (each reachable from the other) come first
//   - then patterns ordered by the sorted names of their subset patterns
//   - then by the sorted names of patterns reachable from their match nodes
//
// kindNodes holds the match nodes of each pattern before ambiguity reduction.
func backtrackOrder(dfa *DFA, kindNodes map[string]*intsets.Sparse) []string {
	subsets := make(map[string][]string)
	reachable := make(map[string]map[string]bool)
	var kinds []string
	for kind := range kindNodes {
		if kind != legs.InvalidKind {
			kinds = append(kinds, kind)
		}
	}
	slices.Sort(kinds)
	for _, kind := range kinds {
		nodes := kindNodes[kind]
		others := make(map[string]bool)
		for _, n := range nodesOf(nodes) {
			for _, k := range dfa.matchKindSets[n] {
				others[k] = true
			}
		}
		for _, other := range sortedKeys(others) {
			if other != kind && kindNodes[other].SubsetOf(nodes) {
				subsets[kind] = append(subsets[kind], other)
			}
		}
		rk := make(map[string]bool)
		for _, n := range dfa.reachableFrom(nodesOf(nodes)) {
			for _, k := range dfa.matchKindSets[n] {
				rk[k] = true
			}
		}
		delete(rk, kind)
		reachable[kind] = rk
	}
	unorderable := make(map[string]bool)
	var pairs []string
	for i, l := range kinds {
		for _, r := range kinds[i+1:] {
			if reachable[r][l] && reachable[l][r] {
				unorderable[l], unorderable[r] = true, true
				pairs = append(pairs, fmt.Sprintf("(%s, %s)", l, r))
			}
		}
	}
	if len(pairs) > 0 {
		tracer().Infof("note: %s: patterns cannot be correctly ordered for backtracking regex engines: %s",
			dfa.name, strings.Join(pairs, ", "))
	}
	slices.SortStableFunc(kinds, func(a, b string) int {
		if unorderable[a] != unorderable[b] {
			if unorderable[a] {
				return -1
			}
			return 1
		}
		if c := slices.Compare(subsets[a], subsets[b]); c != 0 {
			return c
		}
		return slices.Compare(sortedKeys(reachable[a]), sortedKeys(reachable[b]))
	})
	return kinds
}

// reachableFrom returns all nodes reachable from the successors of nodes.
func (dfa *DFA) reachableFrom(nodes []legs.Node) []legs.Node {
	seen := newNodeSet()
	var pending []legs.Node
	for _, n := range nodes {
		for _, dst := range dfa.transitions[n] {
			if seen.Insert(int(dst)) {
				pending = append(pending, dst)
			}
		}
	}
	for len(pending) > 0 {
		n := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for _, dst := range dfa.transitions[n] {
			if seen.Insert(int(dst)) {
				pending = append(pending, dst)
			}
		}
	}
	return nodesOf(seen)
}
