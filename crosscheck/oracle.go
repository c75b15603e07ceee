package crosscheck

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/legs"
	"github.com/npillmayer/legs/automata"
	"github.com/npillmayer/legs/pattern"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
	"golang.org/x/exp/slices"
)

// ErrOracleDisagrees is returned by Oracle.Check.
var ErrOracleDisagrees = errors.New("lexmachine disagrees with NFA")

// Oracle decides full-string matches of patterns with lexmachine. Each
// pattern is compiled into a lexer of its own, so overlapping patterns do
// not shadow each other.
type Oracle struct {
	names   []string
	lexers  map[string]*lexmachine.Lexer
	skipped []string
}

// NewOracle compiles patterns with lexmachine. Patterns which cannot be
// rendered as a lexmachine regex are skipped; see Skipped.
//
// NewOracle will return an error if compiling a DFA failed.
func NewOracle(patterns []automata.NamedPattern) (*Oracle, error) {
	o := &Oracle{lexers: make(map[string]*lexmachine.Lexer)}
	for i, p := range patterns {
		re, err := pattern.Regex(p.Pattern)
		if err != nil {
			tracer().Infof("oracle skips pattern %s: %v", p.Name, err)
			o.skipped = append(o.skipped, p.Name)
			continue
		}
		lexer := lexmachine.NewLexer()
		lexer.Add([]byte(re), makeToken(i))
		if err := lexer.Compile(); err != nil {
			tracer().Errorf("Error compiling DFA for %s = %s: %v", p.Name, re, err)
			return nil, fmt.Errorf("pattern %s: %w", p.Name, err)
		}
		tracer().Debugf("oracle: %s = %s", p.Name, re)
		o.names = append(o.names, p.Name)
		o.lexers[p.Name] = lexer
	}
	sort.Strings(o.names)
	sort.Strings(o.skipped)
	return o, nil
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// Skipped returns the names of patterns the oracle has no opinion on.
func (o *Oracle) Skipped() []string {
	return slices.Clone(o.skipped)
}

// Match returns the sorted names of all patterns matching all of text.
func (o *Oracle) Match(text []byte) []string {
	var names []string
	for _, name := range o.names {
		if o.matches(name, text) {
			names = append(names, name)
		}
	}
	return names
}

func (o *Oracle) matches(name string, text []byte) bool {
	if len(text) == 0 {
		return false
	}
	scanner, err := o.lexers[name].Scanner(text)
	if err != nil {
		tracer().Errorf("oracle cannot scan %q: %v", text, err)
		return false
	}
	tok, err, eos := scanner.Next()
	if err != nil || eos {
		return false
	}
	token := tok.(*lexmachine.Token)
	return token.TC == 0 && len(token.Lexeme) == len(text)
}

// Check compares the verdict of the oracle with the patterns nfa matches
// text with. Patterns skipped by the oracle are not compared.
func (o *Oracle) Check(nfa *automata.NFA, text []byte) error {
	expected := o.Match(text)
	var have []string
	for _, kind := range nfaKinds(nfa, text) {
		if _, ok := o.lexers[kind]; ok {
			have = append(have, kind)
		}
	}
	if !slices.Equal(expected, have) {
		return fmt.Errorf("%w: %q: lexmachine: [%s]; NFA: [%s]", ErrOracleDisagrees, text,
			strings.Join(expected, ", "), strings.Join(have, ", "))
	}
	return nil
}

// nfaKinds returns the sorted names of all patterns nfa matches text with,
// without preferring literals.
func nfaKinds(nfa *automata.NFA, text []byte) []string {
	state := nfa.EpsilonClosure([]legs.Node{legs.StartNode})
	for _, b := range text {
		if state = nfa.Advance(state, b); len(state) == 0 {
			return nil
		}
	}
	var kinds []string
	for _, n := range state {
		if kind, ok := nfa.MatchKind(n); ok && kind != legs.InvalidKind {
			kinds = append(kinds, kind)
		}
	}
	sort.Strings(kinds)
	return slices.Compact(kinds)
}
