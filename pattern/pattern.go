package pattern

import (
	"fmt"
	"strings"
)

// Pattern is a node of a pattern tree. The set of implementations is closed;
// clients cannot add new variants.
type Pattern interface {
	fmt.Stringer
	isPattern()
}

// Choice matches any of its alternatives.
type Choice struct {
	Alternatives []Pattern
}

// Seq matches its elements one after another.
type Seq struct {
	Elements []Pattern
}

// Opt matches its sub-pattern zero or one times.
type Opt struct {
	Sub Pattern
}

// Star matches its sub-pattern zero or more times.
type Star struct {
	Sub Pattern
}

// Plus matches its sub-pattern one or more times.
type Plus struct {
	Sub Pattern
}

// Charset matches a single code point out of a set of ranges.
// Ranges are sorted, non-overlapping and half-open.
type Charset struct {
	Ranges []CodeRange
}

func (Choice) isPattern()  {}
func (Seq) isPattern()     {}
func (Opt) isPattern()     {}
func (Star) isPattern()    {}
func (Plus) isPattern()    {}
func (Charset) isPattern() {}

func (p Choice) String() string {
	return "Choice(" + joinPatterns(p.Alternatives, " | ") + ")"
}

func (p Seq) String() string {
	return "Seq(" + joinPatterns(p.Elements, " ") + ")"
}

func (p Opt) String() string {
	return fmt.Sprintf("Opt(%v)", p.Sub)
}

func (p Star) String() string {
	return fmt.Sprintf("Star(%v)", p.Sub)
}

func (p Plus) String() string {
	return fmt.Sprintf("Plus(%v)", p.Sub)
}

func (p Charset) String() string {
	return "Charset<" + RangesDesc(p.Ranges) + ">"
}

func joinPatterns(pp []Pattern, sep string) string {
	s := make([]string, len(pp))
	for i, p := range pp {
		s[i] = p.String()
	}
	return strings.Join(s, sep)
}

// --- Constructors ----------------------------------------------------------

// Lit creates a pattern matching the literal string s.
func Lit(s string) Pattern {
	rr := []rune(s)
	if len(rr) == 0 {
		panic("pattern.Lit: empty literal")
	}
	if len(rr) == 1 {
		return Chars(rr[0])
	}
	elems := make([]Pattern, len(rr))
	for i, r := range rr {
		elems[i] = Chars(r)
	}
	return Seq{Elements: elems}
}

// Chars creates a charset from individual code points.
func Chars(codes ...rune) Charset {
	return Charset{Ranges: RangesForCodes(codes)}
}

// Range creates a charset for the closed interval lo…hi.
func Range(lo, hi rune) Charset {
	if hi < lo {
		lo, hi = hi, lo
	}
	return Charset{Ranges: []CodeRange{{Lo: lo, Hi: hi + 1}}}
}

// Union creates a charset containing all code points of the given charsets.
func Union(sets ...Charset) Charset {
	var all []CodeRange
	for _, cs := range sets {
		all = append(all, cs.Ranges...)
	}
	return Charset{Ranges: NormalizeRanges(all)}
}

// Sequence creates a sequence pattern. A single element is returned as is.
func Sequence(elems ...Pattern) Pattern {
	if len(elems) == 1 {
		return elems[0]
	}
	return Seq{Elements: elems}
}

// OneOf creates a choice pattern. A single alternative is returned as is.
func OneOf(alts ...Pattern) Pattern {
	if len(alts) == 1 {
		return alts[0]
	}
	return Choice{Alternatives: alts}
}

// Maybe creates an Opt pattern.
func Maybe(p Pattern) Pattern { return Opt{Sub: p} }

// Many creates a Star pattern.
func Many(p Pattern) Pattern { return Star{Sub: p} }

// Some creates a Plus pattern.
func Some(p Pattern) Pattern { return Plus{Sub: p} }

// --- Literals --------------------------------------------------------------

// IsLiteral is true if p matches exactly one fixed sequence of code points,
// i.e. it contains neither alternation nor repetition.
func IsLiteral(p Pattern) bool {
	switch p := p.(type) {
	case Charset:
		return len(p.Ranges) == 1 && p.Ranges[0].Len() == 1
	case Seq:
		if len(p.Elements) == 0 {
			return false
		}
		for _, e := range p.Elements {
			if !IsLiteral(e) {
				return false
			}
		}
		return true
	}
	return false
}

// LiteralText returns the text matched by a literal pattern. It returns false
// if p is not literal.
func LiteralText(p Pattern) (string, bool) {
	if !IsLiteral(p) {
		return "", false
	}
	var b strings.Builder
	writeLiteral(&b, p)
	return b.String(), true
}

func writeLiteral(b *strings.Builder, p Pattern) {
	switch p := p.(type) {
	case Charset:
		b.WriteRune(p.Ranges[0].Lo)
	case Seq:
		for _, e := range p.Elements {
			writeLiteral(b, e)
		}
	}
}

// Walk calls f for p and all its sub-patterns, depth first.
func Walk(p Pattern, f func(Pattern)) {
	f(p)
	switch p := p.(type) {
	case Choice:
		for _, a := range p.Alternatives {
			Walk(a, f)
		}
	case Seq:
		for _, e := range p.Elements {
			Walk(e, f)
		}
	case Opt:
		Walk(p.Sub, f)
	case Star:
		Walk(p.Sub, f)
	case Plus:
		Walk(p.Sub, f)
	}
}
