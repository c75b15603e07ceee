package crosscheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/legs"
	"github.com/npillmayer/legs/automata"
)

// Errors reported by Match.
var (
	ErrMultipleMatches = errors.New("matched multiple rules")
	ErrInconsistent    = errors.New("inconsistent match")
)

// Match runs text through an NFA, the DFA determinized from it (fat), and the
// minimized DFA (minDFA). It returns the name of the pattern matching all of
// text, or "" if no pattern matches. The invalid kind counts as no match.
//
// If any automaton matches more than one pattern, or the automata disagree,
// Match returns an error.
func Match(nfa *automata.NFA, fat, minDFA *automata.DFA, text []byte) (string, error) {
	nfaKinds := nfa.Match(text)
	if len(nfaKinds) > 1 {
		return "", fmt.Errorf("%w: %q: NFA: %s", ErrMultipleMatches, text, strings.Join(nfaKinds, ", "))
	}
	var expected string
	if len(nfaKinds) == 1 {
		expected = nfaKinds[0]
	}
	for _, stage := range []struct {
		label string
		dfa   *automata.DFA
	}{
		{"fat DFA", fat},
		{"min DFA", minDFA},
	} {
		kind, err := dfaMatch(stage.dfa, text)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %s: %v", ErrMultipleMatches, text, stage.label, err)
		}
		if kind != expected {
			return "", fmt.Errorf("%w: %q: NFA: %s; %s: %s", ErrInconsistent, text,
				display(expected), stage.label, display(kind))
		}
	}
	tracer().Debugf("match: %q -> %s", text, display(expected))
	return expected, nil
}

// dfaMatch applies the literal preference of the NFA to the kinds of the node
// reached by text.
func dfaMatch(dfa *automata.DFA, text []byte) (string, error) {
	var all, literals []string
	for _, kind := range dfa.Match(text) {
		if kind == legs.InvalidKind {
			continue
		}
		all = append(all, kind)
		if dfa.IsLiteral(kind) {
			literals = append(literals, kind)
		}
	}
	if len(literals) > 0 {
		all = literals
	}
	switch len(all) {
	case 0:
		return "", nil
	case 1:
		return all[0], nil
	}
	return "", errors.New(strings.Join(all, ", "))
}

func display(kind string) string {
	if kind == "" {
		return "none"
	}
	return kind
}
