package crosscheck

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/legs/automata"
	"github.com/npillmayer/legs/pattern"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var testPatterns = []automata.NamedPattern{
	{Name: "num", Pattern: pattern.Some(pattern.Range('0', '9'))},
	{Name: "id", Pattern: pattern.Some(pattern.Range('a', 'z'))},
	{Name: "kw_if", Pattern: pattern.Lit("if")},
	{Name: "assign", Pattern: pattern.Lit(":=")},
	{Name: "colon", Pattern: pattern.Lit(":")},
}

func pipeline(t *testing.T, patterns []automata.NamedPattern) (*automata.NFA, *automata.DFA, *automata.DFA) {
	nfa := automata.BuildNFA("test", patterns)
	fat := automata.BuildDFA(nfa)
	minDFA, err := automata.Minimize(fat)
	if err != nil {
		t.Fatal(err)
	}
	return nfa, fat, minDFA
}

// allStrings returns all strings over alphabet up to length n.
func allStrings(alphabet string, n int) []string {
	all, last := []string{""}, []string{""}
	for i := 0; i < n; i++ {
		var next []string
		for _, s := range last {
			for _, c := range alphabet {
				next = append(next, s+string(c))
			}
		}
		all = append(all, next...)
		last = next
	}
	return all
}

func TestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.crosscheck")
	defer teardown()
	//
	nfa, fat, minDFA := pipeline(t, testPatterns)
	for _, test := range []struct {
		text, kind string
	}{
		{"if", "kw_if"},
		{"iff", "id"},
		{"i", "id"},
		{"123", "num"},
		{":", "colon"},
		{":=", "assign"},
		{"", ""},
		{" ", ""},
		{"1a", ""},
	} {
		kind, err := Match(nfa, fat, minDFA, []byte(test.text))
		if err != nil {
			t.Errorf("%q: %v", test.text, err)
		}
		if kind != test.kind {
			t.Errorf("%q: expected %q, have %q", test.text, test.kind, kind)
		}
	}
	for _, s := range allStrings("if1:= ", 4) {
		if _, err := Match(nfa, fat, minDFA, []byte(s)); err != nil {
			t.Error(err)
		}
	}
}

func TestMatchErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.crosscheck")
	defer teardown()
	//
	nfa, fat, minDFA := pipeline(t, []automata.NamedPattern{
		{Name: "P", Pattern: pattern.Some(pattern.Range('a', 'b'))},
		{Name: "Q", Pattern: pattern.Range('a', 'b')},
	})
	if _, err := Match(nfa, fat, minDFA, []byte("a")); !errors.Is(err, ErrMultipleMatches) {
		t.Errorf("Expected NFA to match multiple rules, error is %v", err)
	}
	if kind, err := Match(nfa, fat, minDFA, []byte("ab")); err != nil || kind != "P" {
		t.Errorf("Expected P, have %q, error %v", kind, err)
	}
	nfa, fat, _ = pipeline(t, testPatterns)
	_, _, single := pipeline(t, []automata.NamedPattern{
		{Name: "num", Pattern: pattern.Range('0', '9')},
	})
	_, err := Match(nfa, fat, single, []byte("12"))
	if !errors.Is(err, ErrInconsistent) {
		t.Fatalf("Expected inconsistent match, error is %v", err)
	}
	if !strings.Contains(err.Error(), "min DFA: none") {
		t.Errorf("Expected error to name the minimized DFA, is %v", err)
	}
}

func TestOracle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.crosscheck")
	defer teardown()
	//
	oracle, err := NewOracle(testPatterns)
	if err != nil {
		t.Fatal(err)
	}
	if names := oracle.Match([]byte("if")); strings.Join(names, ",") != "id,kw_if" {
		t.Errorf("Expected id and kw_if to match 'if', have %v", names)
	}
	if names := oracle.Match([]byte("if ")); len(names) != 0 {
		t.Errorf("Expected no full match for 'if ', have %v", names)
	}
	nfa, _, _ := pipeline(t, testPatterns)
	for _, s := range allStrings("if1:= ", 4) {
		if err := oracle.Check(nfa, []byte(s)); err != nil {
			t.Error(err)
		}
	}
}

func TestOracleSkipsUnrenderable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.crosscheck")
	defer teardown()
	//
	patterns := []automata.NamedPattern{
		{Name: "word", Pattern: pattern.Some(pattern.Range('a', 'z'))},
		{Name: "umlaut", Pattern: pattern.Chars('ä', 'ö', 'ü')},
		{Name: "star", Pattern: pattern.Sequence(pattern.Lit("*"), pattern.Maybe(pattern.Chars('\t', '\n')))},
	}
	oracle, err := NewOracle(patterns)
	if err != nil {
		t.Fatal(err)
	}
	if skipped := oracle.Skipped(); len(skipped) != 1 || skipped[0] != "umlaut" {
		t.Errorf("Expected umlaut pattern to be skipped, have %v", skipped)
	}
	nfa := automata.BuildNFA("skip", patterns)
	for _, s := range []string{"ab", "ä", "*", "*\t", "*\n", "a*", "ü"} {
		if err := oracle.Check(nfa, []byte(s)); err != nil {
			t.Error(err)
		}
	}
}
