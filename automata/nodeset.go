package automata

import (
	"github.com/npillmayer/legs"
	"golang.org/x/tools/container/intsets"
)

// Sets of nodes are sparse bit-sets. Their string form lists the members in
// ascending order, which makes it a canonical key for memoization.

func newNodeSet(nodes ...legs.Node) *intsets.Sparse {
	s := &intsets.Sparse{}
	for _, n := range nodes {
		s.Insert(int(n))
	}
	return s
}

func nodesOf(s *intsets.Sparse) []legs.Node {
	if s == nil {
		return nil
	}
	ints := s.AppendTo(make([]int, 0, s.Len()))
	nodes := make([]legs.Node, len(ints))
	for i, x := range ints {
		nodes[i] = legs.Node(x)
	}
	return nodes
}

func nodeSetKey(s *intsets.Sparse) string {
	return s.String()
}

// strictSubset is true if a ⊊ b.
func strictSubset(a, b *intsets.Sparse) bool {
	return a.Len() < b.Len() && a.SubsetOf(b)
}
