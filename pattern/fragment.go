package pattern

import (
	"github.com/npillmayer/legs"
)

// TransitionSink receives the transitions of NFA fragments.
// Symbol may be legs.Epsilon.
type TransitionSink interface {
	AddTransition(src legs.Node, sym legs.Symbol, dst legs.Node)
}

// Generator generates NFA fragments for patterns. All fragments of one NFA
// must be generated using the same node allocator.
type Generator struct {
	alloc   *legs.NodeAllocator
	encoder *Encoder
	sink    TransitionSink
}

// NewGenerator creates a fragment generator writing to sink.
func NewGenerator(alloc *legs.NodeAllocator, enc Encoding, sink TransitionSink) *Generator {
	return &Generator{
		alloc:   alloc,
		encoder: enc.NewEncoder(),
		sink:    sink,
	}
}

// GenNFA generates transitions for pattern p, leading from node start to
// node end.
func (g *Generator) GenNFA(p Pattern, start, end legs.Node) {
	switch p := p.(type) {
	case Choice:
		for _, alt := range p.Alternatives {
			g.GenNFA(alt, start, end)
		}
	case Seq:
		g.genSeq(p, start, end)
	case Opt:
		g.sink.AddTransition(start, legs.Epsilon, end)
		g.GenNFA(p.Sub, start, end)
	case Star:
		branch := g.alloc.Next()
		g.sink.AddTransition(start, legs.Epsilon, branch)
		g.sink.AddTransition(branch, legs.Epsilon, end)
		g.GenNFA(p.Sub, branch, branch)
	case Plus:
		pre, post := g.alloc.Next(), g.alloc.Next()
		g.sink.AddTransition(start, legs.Epsilon, pre)
		g.sink.AddTransition(post, legs.Epsilon, end)
		g.sink.AddTransition(post, legs.Epsilon, pre)
		g.GenNFA(p.Sub, pre, post)
	case Charset:
		g.genCharset(p, start, end)
	default:
		panic("pattern.GenNFA: unknown pattern variant")
	}
}

func (g *Generator) genSeq(p Seq, start, end legs.Node) {
	n := len(p.Elements)
	if n == 0 {
		g.sink.AddTransition(start, legs.Epsilon, end)
		return
	}
	src := start
	for i, elem := range p.Elements {
		dst := end
		if i < n-1 {
			dst = g.alloc.Next()
		}
		g.GenNFA(elem, src, dst)
		src = dst
	}
}

// Multi-byte code points share their prefixes: every (node, byte) pair of a
// non-final byte leads to exactly one intermediate node.
func (g *Generator) genCharset(p Charset, start, end legs.Node) {
	type step struct {
		node legs.Node
		b    byte
	}
	intermediates := make(map[step]legs.Node)
	p.Codes(func(c rune) {
		bytes, err := g.encoder.Encode(c)
		if err != nil {
			tracer().Errorf("charset %v: %v", p, err)
			return
		}
		node := start
		for i, b := range bytes {
			if i == len(bytes)-1 {
				g.sink.AddTransition(node, legs.ByteSymbol(b), end)
				break
			}
			n, ok := intermediates[step{node, b}]
			if !ok {
				n = g.alloc.Next()
				intermediates[step{node, b}] = n
				g.sink.AddTransition(node, legs.ByteSymbol(b), n)
			}
			node = n
		}
	})
}
