package automata

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/legs"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/container/intsets"
)

// partition is a partition of the nodes of a DFA into cells.
type partition struct {
	cells   []*intsets.Sparse
	cellOf  map[legs.Node]int
	pending map[int]bool // cells on the work-list
	work    *arraylist.List
}

func (p *partition) addCell(s *intsets.Sparse) int {
	c := len(p.cells)
	p.cells = append(p.cells, s)
	for _, n := range s.AppendTo(nil) {
		p.cellOf[legs.Node(n)] = c
	}
	return c
}

func (p *partition) push(c int) {
	if !p.pending[c] {
		p.pending[c] = true
		p.work.Add(c)
	}
}

func (p *partition) pop() int {
	last := p.work.Size() - 1
	x, _ := p.work.Get(last)
	p.work.Remove(last)
	c := x.(int)
	p.pending[c] = false
	return c
}

// split refines every cell by the set of nodes m: a cell C intersecting m,
// but not contained in it, is split into C∩m and C−m.
func (p *partition) split(m *intsets.Sparse) {
	touched := make(map[int]*intsets.Sparse)
	var order []int
	for _, n := range m.AppendTo(nil) {
		c := p.cellOf[legs.Node(n)]
		in, ok := touched[c]
		if !ok {
			in = &intsets.Sparse{}
			touched[c] = in
			order = append(order, c)
		}
		in.Insert(n)
	}
	slices.Sort(order)
	for _, c := range order {
		in := touched[c]
		if in.Len() == p.cells[c].Len() {
			continue
		}
		p.cells[c].DifferenceWith(in)
		k := p.addCell(in)
		if p.pending[c] || in.Len() < p.cells[c].Len() {
			p.push(k)
		} else {
			p.push(c)
		}
	}
}

// initialPartition creates one cell for all non-matching nodes and one cell
// for every distinct set of match kinds.
func initialPartition(dfa *DFA) *partition {
	p := &partition{
		cellOf:  make(map[legs.Node]int),
		pending: make(map[int]bool),
		work:    arraylist.New(),
	}
	nonMatch := newNodeSet()
	byKinds := make(map[string]*intsets.Sparse)
	for _, n := range dfa.Nodes() {
		kinds, ok := dfa.matchKindSets[n]
		if !ok {
			nonMatch.Insert(int(n))
			continue
		}
		key := strings.Join(kinds, "\x00")
		s, ok := byKinds[key]
		if !ok {
			s = newNodeSet()
			byKinds[key] = s
		}
		s.Insert(int(n))
	}
	if !nonMatch.IsEmpty() {
		p.push(p.addCell(nonMatch))
	}
	keys := make([]string, 0, len(byKinds))
	for key := range byKinds {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		p.push(p.addCell(byKinds[key]))
	}
	return p
}

// reverseIndex maps destination nodes and bytes to their source nodes.
type reverseIndex map[legs.Node]map[byte][]legs.Node

func reverseTransitions(dfa *DFA) reverseIndex {
	rev := make(reverseIndex)
	for _, src := range dfa.Nodes() {
		for b, dst := range dfa.transitions[src] {
			d, ok := rev[dst]
			if !ok {
				d = make(map[byte][]legs.Node)
				rev[dst] = d
			}
			d[b] = append(d[b], src)
		}
	}
	return rev
}

// refine splits cells until no cell contains nodes distinguishable by any
// input. Refinement is driven by a work-list of splitter cells, seeded with
// all initial cells; after a split, the smaller half is enqueued, unless the
// split cell is enqueued already.
func (p *partition) refine(alphabet []byte, rev reverseIndex) {
	for p.work.Size() > 0 {
		c := p.pop()
		members := nodesOf(p.cells[c]) // cell c may shrink while we iterate
		for _, b := range alphabet {
			m := &intsets.Sparse{}
			for _, n := range members {
				for _, src := range rev[n][b] {
					m.Insert(int(src))
				}
			}
			if !m.IsEmpty() {
				p.split(m)
			}
		}
	}
}

// Minimize creates the minimal DFA equivalent to dfa, and resolves nodes
// matching more than one pattern.
//
// Nodes are merged by partition refinement. The resulting cells are sorted by
// their member nodes and numbered consecutively, starting with the start node
// of dfa; numbering is therefore deterministic.
//
// If the nodes matching pattern q are a strict subset of the nodes matching
// pattern p, p is removed from all nodes matching q. Any node still matching
// more than one pattern is an error. In this case Minimize returns an
// *AmbiguityError listing every group of ambiguous patterns, and no DFA.
func Minimize(dfa *DFA) (*DFA, error) {
	if dfa.IsEmpty() {
		return emptyDFA(dfa.name, dfa.literalNames), nil
	}
	tracer().Debugf("=== minimize DFA %s =========================================", dfa.name)
	p := initialPartition(dfa)
	p.refine(dfa.Alphabet(), reverseTransitions(dfa))
	mapping := p.renumber(dfa.StartNode())
	minDFA := emptyDFA(dfa.name, dfa.literalNames)
	for _, old := range dfa.Nodes() {
		src := mapping[old]
		d := minDFA.addNode(src)
		for b, oldDst := range dfa.transitions[old] {
			dst := mapping[oldDst]
			if existing, ok := d[b]; ok && existing != dst {
				panic(fmt.Sprintf("inconsistency in minimized DFA %s: src %d->%d, byte %s: dst %d->%d != %d",
					dfa.name, old, src, legs.ByteDesc(b), oldDst, dst, existing))
			}
			d[b] = dst
		}
	}
	full := make(map[legs.Node][]string)
	for old, kinds := range dfa.matchKindSets {
		full[mapping[old]] = kinds
	}
	kindNodes, reduced := reduceAmbiguities(full)
	if groups := ambiguousGroups(reduced); len(groups) > 0 {
		return nil, &AmbiguityError{Name: dfa.name, Groups: groups}
	}
	for n, kinds := range reduced {
		minDFA.matchKindSets[n] = sortedKeys(kinds)
	}
	minDFA.backtrackingOrder = backtrackOrder(minDFA, kindNodes)
	tracer().Debugf("minimized DFA %s: %v", minDFA.name, minDFA.Stats())
	return minDFA, nil
}

// renumber maps every old node to the new node of its cell. Cells are
// numbered in the order of their sorted member lists.
func (p *partition) renumber(start legs.Node) map[legs.Node]legs.Node {
	cells := make([][]legs.Node, 0, len(p.cells))
	for _, c := range p.cells {
		if !c.IsEmpty() {
			cells = append(cells, nodesOf(c))
		}
	}
	slices.SortFunc(cells, func(a, b []legs.Node) int {
		return slices.Compare(a, b)
	})
	mapping := make(map[legs.Node]legs.Node)
	for i, cell := range cells {
		for _, old := range cell {
			if _, ok := mapping[old]; ok {
				panic(fmt.Sprintf("node %d is member of more than one partition cell", old))
			}
			mapping[old] = start + legs.Node(i)
		}
	}
	return mapping
}

// reduceAmbiguities removes the more general pattern from nodes matching
// more than one pattern. The node sets of patterns are taken before any
// reduction happens and are returned alongside the reduced match sets.
func reduceAmbiguities(full map[legs.Node][]string) (map[string]*intsets.Sparse, map[legs.Node]map[string]bool) {
	kindNodes := make(map[string]*intsets.Sparse)
	reduced := make(map[legs.Node]map[string]bool)
	for n, kinds := range full {
		reduced[n] = make(map[string]bool)
		for _, k := range kinds {
			reduced[n][k] = true
			s, ok := kindNodes[k]
			if !ok {
				s = newNodeSet()
				kindNodes[k] = s
			}
			s.Insert(int(n))
		}
	}
	kinds := make([]string, 0, len(kindNodes))
	for k := range kindNodes {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	for _, kind := range kinds {
		nodes := kindNodes[kind]
		for _, n := range nodesOf(nodes) {
			for _, other := range sortedKeys(reduced[legs.Node(n)]) {
				if other == kind {
					continue
				}
				if strictSubset(kindNodes[other], nodes) {
					tracer().Debugf("pattern %s is more general than %s at node %d", kind, other, n)
					delete(reduced[legs.Node(n)], kind)
				}
			}
		}
	}
	return kindNodes, reduced
}

// ambiguousGroups returns the distinct sorted sets of names of nodes which
// still match more than one pattern.
func ambiguousGroups(reduced map[legs.Node]map[string]bool) [][]string {
	seen := make(map[string]bool)
	var groups [][]string
	for _, kinds := range reduced {
		if len(kinds) <= 1 {
			continue
		}
		group := sortedKeys(kinds)
		key := strings.Join(group, "\x00")
		if !seen[key] {
			seen[key] = true
			groups = append(groups, group)
		}
	}
	slices.SortFunc(groups, func(a, b []string) int {
		return slices.Compare(a, b)
	})
	return groups
}
