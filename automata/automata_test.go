package automata

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/d4l3k/messagediff"
	"github.com/npillmayer/legs"
	"github.com/npillmayer/legs/pattern"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/exp/slices"
)

func np(name string, p pattern.Pattern) NamedPattern {
	return NamedPattern{Name: name, Pattern: p}
}

var (
	digits  = pattern.Some(pattern.Range('0', '9'))
	letters = pattern.Some(pattern.Range('a', 'z'))
)

func numIDGrammar() []NamedPattern {
	return []NamedPattern{
		np("num", digits),
		np("id", letters),
		np("kw_if", pattern.Lit("if")),
		np("space", pattern.Some(pattern.Chars(' '))),
	}
}

func minimized(t *testing.T, name string, patterns []NamedPattern) *DFA {
	dfa, err := Minimize(BuildDFA(BuildNFA(name, patterns)))
	if err != nil {
		t.Fatalf("cannot minimize DFA %s: %v", name, err)
	}
	return dfa
}

// strings of length 0…n over an alphabet
func allStrings(alphabet string, n int) []string {
	all := []string{""}
	last := []string{""}
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

func TestNFABuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	nfa := BuildNFA("main", numIDGrammar())
	if kind, ok := nfa.MatchKind(legs.InvalidNode); !ok || kind != legs.InvalidKind {
		t.Errorf("Expected node 1 to match the invalid pattern, is %q", kind)
	}
	if !slices.Equal(nfa.LiteralNames(), []string{"kw_if"}) {
		t.Errorf("Expected kw_if to be the only literal, literals are %v", nfa.LiteralNames())
	}
	if len(nfa.Targets(legs.InvalidNode, legs.Epsilon)) != 0 {
		t.Errorf("Expected invalid node to have no transitions")
	}
	for _, test := range []struct {
		text  string
		kinds []string
	}{
		{"123", []string{"num"}},
		{"abc", []string{"id"}},
		{"if", []string{"kw_if"}},
		{"ifx", []string{"id"}},
		{"1a", nil},
		{"", nil},
	} {
		if kinds := nfa.Match([]byte(test.text)); !slices.Equal(kinds, test.kinds) {
			t.Errorf("Expected NFA to match %q as %v, is %v", test.text, test.kinds, kinds)
		}
	}
	if msgs := nfa.Validate(); len(msgs) != 0 {
		t.Errorf("Expected no validation errors, have %v", msgs)
	}
}

func TestNFAValidate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	nfa := BuildNFA("main", []NamedPattern{
		np("as", pattern.Many(pattern.Lit("a"))),
		np("b", pattern.Lit("b")),
	})
	msgs := nfa.Validate()
	if len(msgs) != 1 || !strings.HasSuffix(msgs[0], ": as") {
		t.Errorf("Expected pattern 'as' to be reported as trivially matched, have %v", msgs)
	}
}

func TestDFATotality(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	for _, dfa := range []*DFA{
		BuildDFA(BuildNFA("main", numIDGrammar())),
		minimized(t, "main", numIDGrammar()),
	} {
		start, invalid := dfa.StartNode(), dfa.InvalidNode()
		if len(dfa.Edges(start)) != 256 {
			t.Errorf("Expected start node to be total, has %d transitions", len(dfa.Edges(start)))
		}
		for c := 0; c < 256; c++ {
			b := byte(c)
			dst, _ := dfa.Next(start, b)
			loop, hasLoop := dfa.Next(invalid, b)
			if dst == invalid && (!hasLoop || loop != invalid) {
				t.Errorf("Expected invalid node to absorb byte %s", legs.ByteDesc(b))
			}
			if dst != invalid && hasLoop {
				t.Errorf("Expected invalid node to stop at token start byte %s", legs.ByteDesc(b))
			}
		}
		if kinds := dfa.Match([]byte("!?")); !slices.Equal(kinds, []string{legs.InvalidKind}) {
			t.Errorf("Expected invalid input to match invalid pattern, is %v", kinds)
		}
	}
}

func TestEmptyAutomaton(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	nfa := BuildNFA("empty", nil)
	if !nfa.IsEmpty() {
		t.Fatalf("Expected NFA without patterns to be empty")
	}
	dfa := BuildDFA(nfa)
	if !dfa.IsEmpty() {
		t.Errorf("Expected DFA of empty NFA to be empty")
	}
	min, err := Minimize(dfa)
	if err != nil || !min.IsEmpty() {
		t.Errorf("Expected minimized empty DFA to be empty, error is %v", err)
	}
	if dfa.Match([]byte("x")) != nil {
		t.Errorf("Expected empty DFA to match nothing")
	}
}

func TestNFADFAEquivalence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	nfa := BuildNFA("main", numIDGrammar())
	fat := BuildDFA(nfa)
	min, err := Minimize(fat)
	if err != nil {
		t.Fatal(err)
	}
	noInvalid := func(kinds []string) []string {
		if len(kinds) == 1 && kinds[0] == legs.InvalidKind {
			return nil
		}
		return kinds
	}
	for _, s := range allStrings("aif1 !", 4) {
		text := []byte(s)
		expected := nfa.Match(text)
		fatKinds := noInvalid(fat.Match(text))
		minKinds := noInvalid(min.Match(text))
		if (len(expected) == 0) != (len(fatKinds) == 0) || (len(expected) == 0) != (len(minKinds) == 0) {
			t.Fatalf("%q: NFA matches %v, fat DFA %v, min DFA %v", s, expected, fatKinds, minKinds)
		}
		if len(minKinds) == 0 {
			continue
		}
		if len(minKinds) != 1 || !slices.Contains(expected, minKinds[0]) {
			t.Errorf("%q: min DFA matches %v, not in NFA matches %v", s, minKinds, expected)
		}
	}
}

func TestMinimizeDeterminism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	var prints []string
	var listings []string
	for i := 0; i < 5; i++ {
		dfa := minimized(t, "main", numIDGrammar())
		fp, err := dfa.Fingerprint()
		if err != nil {
			t.Fatal(err)
		}
		prints = append(prints, fp)
		var b bytes.Buffer
		dfa.Describe(&b, "min")
		listings = append(listings, b.String())
	}
	for i := 1; i < len(prints); i++ {
		if prints[i] != prints[0] || listings[i] != listings[0] {
			t.Fatalf("Expected identical DFAs, run %d differs:\n%s", i, listings[i])
		}
	}
}

func TestMinimizeIdempotence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	min := minimized(t, "main", numIDGrammar())
	again, err := Minimize(min)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Nodes()) != len(min.Nodes()) {
		t.Errorf("Expected %d nodes after second minimization, have %d", len(min.Nodes()), len(again.Nodes()))
	}
	fat := BuildDFA(BuildNFA("main", numIDGrammar()))
	if len(min.Nodes()) > len(fat.Nodes()) {
		t.Errorf("Expected minimization not to add nodes")
	}
}

func TestMinimizeMergesEquivalentNodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	// ab|cb: the nodes after a and after c are equivalent
	dfa := minimized(t, "main", []NamedPattern{
		np("x", pattern.OneOf(pattern.Lit("ab"), pattern.Lit("cb"))),
	})
	// start, invalid, after a|c, after b
	if len(dfa.Nodes()) != 4 {
		var b bytes.Buffer
		dfa.Describe(&b, "")
		t.Errorf("Expected 4 nodes, have\n%s", b.String())
	}
	start := dfa.StartNode()
	a, _ := dfa.Next(start, 'a')
	c, _ := dfa.Next(start, 'c')
	if a != c {
		t.Errorf("Expected a and c to lead to the same node, are %d and %d", a, c)
	}
}

func TestSupersetElimination(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	dfa := minimized(t, "main", []NamedPattern{
		np("P", pattern.Some(pattern.Lit("a"))),
		np("Q", pattern.Lit("a")),
	})
	for text, kind := range map[string]string{"a": "Q", "aa": "P", "aaa": "P"} {
		if kinds := dfa.Match([]byte(text)); !slices.Equal(kinds, []string{kind}) {
			t.Errorf("Expected %q to match %s, is %v", text, kind, kinds)
		}
	}
	dfa = minimized(t, "main", numIDGrammar())
	if kinds := dfa.Match([]byte("if")); !slices.Equal(kinds, []string{"kw_if"}) {
		t.Errorf("Expected keyword to win over identifier, is %v", kinds)
	}
}

func TestAmbiguity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	dfa, err := Minimize(BuildDFA(BuildNFA("main", []NamedPattern{
		np("X", pattern.Lit("a")),
		np("Y", pattern.Lit("a")),
		np("Z", pattern.Lit("b")),
	})))
	if dfa != nil {
		t.Errorf("Expected no DFA for ambiguous patterns")
	}
	var amb *AmbiguityError
	if !errors.As(err, &amb) {
		t.Fatalf("Expected ambiguity error, is %v", err)
	}
	if diff, equal := messagediff.PrettyDiff([][]string{{"X", "Y"}}, amb.Groups); !equal {
		t.Errorf("unexpected ambiguity groups: %s", diff)
	}
	if err.Error() != "Rules are ambiguous: X, Y" {
		t.Errorf("Unexpected diagnostic: %q", err.Error())
	}
	merged := MergeAmbiguities(amb, &AmbiguityError{Groups: [][]string{{"A", "B"}, {"X", "Y"}}}, nil)
	if len(merged.Lines()) != 2 || merged.Lines()[0] != "Rules are ambiguous: A, B" {
		t.Errorf("Unexpected merged diagnostics: %v", merged.Lines())
	}
	if MergeAmbiguities(nil) != nil {
		t.Errorf("Expected nil for merging no errors")
	}
}

func TestEndToEnd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	dfa := minimized(t, "main", []NamedPattern{
		np("num", pattern.Some(pattern.Range('0', '9'))),
		np("id", pattern.Some(pattern.Range('a', 'z'))),
	})
	if kinds := dfa.Match([]byte("123")); !slices.Equal(kinds, []string{"num"}) {
		t.Errorf("Expected 123 to match num, is %v", kinds)
	}
	if kinds := dfa.Match([]byte("abc")); !slices.Equal(kinds, []string{"id"}) {
		t.Errorf("Expected abc to match id, is %v", kinds)
	}
	found := map[string]bool{}
	for _, src := range dfa.Nodes() {
		for _, e := range dfa.Edges(src) {
			kind, ok := dfa.MatchKind(e.Dst)
			if !ok {
				continue
			}
			found[kind] = true
			switch kind {
			case "num":
				if e.Byte < '0' || e.Byte > '9' {
					t.Errorf("num node %d reached by %s", e.Dst, legs.ByteDesc(e.Byte))
				}
			case "id":
				if e.Byte < 'a' || e.Byte > 'z' {
					t.Errorf("id node %d reached by %s", e.Dst, legs.ByteDesc(e.Byte))
				}
			}
		}
	}
	if !found["num"] || !found["id"] {
		t.Errorf("Expected num and id nodes, found %v", found)
	}
}

func TestBacktrackingOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	dfa := minimized(t, "main", []NamedPattern{
		np("eq", pattern.Lit("=")),
		np("eqeq", pattern.Lit("==")),
	})
	if order := dfa.BacktrackingOrder(); !slices.Equal(order, []string{"eqeq", "eq"}) {
		t.Errorf("Expected longer pattern first, order is %v", order)
	}
	dfa = minimized(t, "main", []NamedPattern{
		np("id", letters),
		np("kw", pattern.Lit("if")),
	})
	if order := dfa.BacktrackingOrder(); !slices.Equal(order, []string{"kw", "id"}) {
		t.Errorf("Expected keyword first, order is %v", order)
	}
}

func TestCombine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	dfaA := minimized(t, "aux", []NamedPattern{np("quote", pattern.Lit(`"`)), np("text", letters)})
	dfaB := minimized(t, "main", numIDGrammar())
	declared := map[string][]string{
		"main": {"num", "id", "kw_if", "space"},
		"aux":  {"quote", "text"},
	}
	dfa, modes, nodeModes, err := Combine([]ModeDFA{{"aux", dfaA}, {"main", dfaB}}, declared)
	if err != nil {
		t.Fatal(err)
	}
	main, aux := modes["main"], modes["aux"]
	if main.Start != 0 || main.Invalid != 1 {
		t.Errorf("Expected main mode to start at node 0, is %v", main)
	}
	if aux.Start != legs.Node(len(dfaB.Nodes())) || aux.Invalid != aux.Start+1 {
		t.Errorf("Expected aux mode to follow main mode, is %v", aux)
	}
	if len(dfa.Nodes()) != len(dfaA.Nodes())+len(dfaB.Nodes()) {
		t.Errorf("Expected node count of combined DFA to be the sum of modes")
	}
	if nodeModes[aux.Start].Name != "aux" || nodeModes[dfa.EndNode()-1].Name != "aux" {
		t.Errorf("Expected trailing nodes to belong to aux mode")
	}
	if kinds := dfa.MatchFrom(aux.Start, []byte("abc")); !slices.Equal(kinds, []string{"text"}) {
		t.Errorf("Expected aux mode to match text, is %v", kinds)
	}
	if kinds := dfa.MatchFrom(main.Start, []byte("if")); !slices.Equal(kinds, []string{"kw_if"}) {
		t.Errorf("Expected main mode to match kw_if, is %v", kinds)
	}
	if aux.IncompleteKind() != "aux_incomplete" || main.IncompleteKind() != legs.IncompleteKind {
		t.Errorf("Unexpected incomplete kinds %s, %s", aux.IncompleteKind(), main.IncompleteKind())
	}
	again, _, _, _ := Combine([]ModeDFA{{"main", dfaB}, {"aux", dfaA}}, declared)
	fp1, _ := dfa.Fingerprint()
	fp2, _ := again.Fingerprint()
	if fp1 != fp2 {
		t.Errorf("Expected combination to be independent of input order")
	}
}

func TestCombineErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	dfa := minimized(t, "aux", []NamedPattern{np("text", letters)})
	if _, _, _, err := Combine([]ModeDFA{{"aux", dfa}}, nil); !errors.Is(err, ErrNoMainMode) {
		t.Errorf("Expected missing main mode to be reported, error is %v", err)
	}
	if _, _, _, err := Combine(nil, nil); !errors.Is(err, ErrNoMainMode) {
		t.Errorf("Expected missing main mode to be reported, error is %v", err)
	}
	_, _, _, err := Combine([]ModeDFA{{"main", dfa}}, map[string][]string{"main": {"other"}})
	if !errors.Is(err, ErrUndeclaredPattern) {
		t.Errorf("Expected undeclared pattern to be reported, error is %v", err)
	}
	empty := BuildDFA(BuildNFA("empty", nil))
	if _, _, _, err := Combine([]ModeDFA{{"main", empty}}, nil); !errors.Is(err, ErrEmptyMode) {
		t.Errorf("Expected empty mode to be reported, error is %v", err)
	}
}

func TestEncodings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	patterns := []NamedPattern{np("umlaut", pattern.Chars('ä', 'ö', 'ü'))}
	utf8DFA := minimized(t, "main", patterns)
	if kinds := utf8DFA.Match([]byte("ö")); !slices.Equal(kinds, []string{"umlaut"}) {
		t.Errorf("Expected UTF-8 ö to match, is %v", kinds)
	}
	latin, err := Minimize(BuildDFA(BuildNFA("main", patterns, WithEncoding(pattern.Latin1))))
	if err != nil {
		t.Fatal(err)
	}
	if kinds := latin.Match([]byte{0xf6}); !slices.Equal(kinds, []string{"umlaut"}) {
		t.Errorf("Expected Latin-1 ö to match, is %v", kinds)
	}
	if len(latin.Nodes()) >= len(utf8DFA.Nodes()) {
		t.Errorf("Expected single-byte encoding to need fewer nodes")
	}
}

func TestExports(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.automata")
	defer teardown()
	//
	dfa := minimized(t, "main", numIDGrammar())
	var b bytes.Buffer
	dfa.ToGraphViz(&b)
	if !strings.HasPrefix(b.String(), "digraph {") || !strings.Contains(b.String(), "kw_if") {
		t.Errorf("Unexpected Graphviz output:\n%s", b.String())
	}
	b.Reset()
	BuildNFA("main", numIDGrammar()).Describe(&b, "nfa")
	if !strings.Contains(b.String(), "main: nfa:") {
		t.Errorf("Unexpected NFA listing:\n%s", b.String())
	}
	st := dfa.Stats()
	if st.Nodes != len(dfa.Nodes()) || st.MatchNodes != len(dfa.MatchNodes()) {
		t.Errorf("Unexpected stats %v", st)
	}
}
