package legs

import "fmt"

// --- Automaton nodes -------------------------------------------------------

// Node is a position within an automaton graph. Nodes are plain integers,
// handed out by a NodeAllocator; they own no data beyond being a key into
// transition tables.
type Node int

// Reserved nodes of every NFA built by this module. The invalid node is never
// reachable within an NFA; it is wired up later by the determinizer.
const (
	StartNode   Node = 0
	InvalidNode Node = 1
)

// Symbol is an input symbol of an NFA transition: either a byte value
// (0…255) or Epsilon.
type Symbol int

// Epsilon is the reserved symbol for a nondeterministic jump between NFA nodes.
// It is not a legitimate byte value.
const Epsilon Symbol = -1

// ByteSymbol returns the symbol for byte b.
func ByteSymbol(b byte) Symbol {
	return Symbol(b)
}

// IsEpsilon is true for the empty symbol.
func (s Symbol) IsEpsilon() bool {
	return s == Epsilon
}

func (s Symbol) String() string {
	if s == Epsilon {
		return "Ø"
	}
	return ByteDesc(byte(s))
}

// NodeAllocator hands out fresh nodes from a monotonic counter. Clients thread
// an allocator explicitly through all fragment-generating operations of one
// automaton.
//
// The zero value is ready to use and starts with node 0.
type NodeAllocator struct {
	next Node
}

// NewNodeAllocator creates an allocator which has already handed out the
// reserved nodes 0 (start) and 1 (invalid).
func NewNodeAllocator() *NodeAllocator {
	return &NodeAllocator{next: InvalidNode + 1}
}

// Next allocates a fresh node.
func (a *NodeAllocator) Next() Node {
	n := a.next
	a.next++
	return n
}

// Count returns the number of nodes handed out so far.
func (a *NodeAllocator) Count() int {
	return int(a.next)
}

// --- Reserved pattern names ------------------------------------------------

// Token kinds which are not defined by user patterns.
const (
	InvalidKind    = "invalid"    // bytes which cannot start any token
	IncompleteKind = "incomplete" // token started but never reached a match
	EOFKind        = "#eof"       // end of input
)

// IsReservedName is true for pattern names clients must not define.
func IsReservedName(name string) bool {
	return name == InvalidKind || name == IncompleteKind || name == EOFKind
}

// --- Tokens ----------------------------------------------------------------

// Token represents a lexeme recognized by a lexer running a combined
// automaton. The kind is the name of the pattern matched (or one of the
// reserved kinds), the mode is the name of the lexer mode active when the
// token was recognized.
type Token interface {
	Kind() string
	Mode() string
	Lexeme() string
	Span() Span
}

// --- Spans -----------------------------------------------------------------

// Span is a small type for capturing a run of input bytes. A span denotes a
// start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// --- Byte descriptions -----------------------------------------------------

// ByteDesc returns a short printable description of a byte value, used for
// dumps and Graphviz labels.
func ByteDesc(b byte) string {
	switch b {
	case '\a':
		return `\a`
	case '\b':
		return `\b`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\v':
		return `\v`
	case '\f':
		return `\f`
	case '\r':
		return `\r`
	case ' ':
		return `\_`
	}
	if b > ' ' && b < 0x7f {
		return string(rune(b))
	}
	return fmt.Sprintf("%02x", b)
}

// ByteRangesDesc describes a sorted list of byte values as a space separated
// list of ranges, e.g. "0-9 A-F".
func ByteRangesDesc(bytes []byte) string {
	var s string
	for i := 0; i < len(bytes); {
		j := i
		for j+1 < len(bytes) && bytes[j+1] == bytes[j]+1 {
			j++
		}
		if s != "" {
			s += " "
		}
		if i == j {
			s += ByteDesc(bytes[i])
		} else {
			s += ByteDesc(bytes[i]) + "-" + ByteDesc(bytes[j])
		}
		i = j + 1
	}
	return s
}
