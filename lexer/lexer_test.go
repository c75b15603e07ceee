package lexer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/legs"
	"github.com/npillmayer/legs/automata"
	"github.com/npillmayer/legs/pattern"
	"github.com/npillmayer/legs/tables"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var testGrammar = map[string][]automata.NamedPattern{
	"main": {
		{Name: "num", Pattern: pattern.Some(pattern.Range('0', '9'))},
		{Name: "id", Pattern: pattern.Some(pattern.Range('a', 'z'))},
		{Name: "space", Pattern: pattern.Some(pattern.Chars(' ', '\n'))},
		{Name: "quote", Pattern: pattern.Lit(`"`)},
		{Name: "arrow", Pattern: pattern.Lit("->")},
		{Name: "eq", Pattern: pattern.Lit("=")},
		{Name: "eqeqeq", Pattern: pattern.Lit("===")},
	},
	"str": {
		{Name: "text", Pattern: pattern.Some(pattern.Union(pattern.Range(' ', '!'), pattern.Range('#', '~')))},
		{Name: "quote_end", Pattern: pattern.Lit(`"`)},
	},
}

var testTransitions = automata.ModeTransitions{
	{Mode: "main", Pattern: "quote"}: {Mode: "str", Pattern: "quote_end"},
}

func compile(t *testing.T) (*tables.Table, map[string]automata.Mode) {
	var pairs []automata.ModeDFA
	for mode, patterns := range testGrammar {
		dfa, err := automata.Minimize(automata.BuildDFA(automata.BuildNFA(mode, patterns)))
		if err != nil {
			t.Fatalf("mode %s: %v", mode, err)
		}
		pairs = append(pairs, automata.ModeDFA{Mode: mode, DFA: dfa})
	}
	combined, modes, nodeModes, err := automata.Combine(pairs, nil)
	if err != nil {
		t.Fatal(err)
	}
	return tables.Build(combined, nodeModes), modes
}

func lex(t *testing.T, input string, opts ...Option) ([]string, []error) {
	table, modes := compile(t)
	var errs []error
	opts = append(opts, ErrorHandler(func(e error) { errs = append(errs, e) }))
	lx, err := New(table, modes, testTransitions, strings.NewReader(input), opts...)
	if err != nil {
		t.Fatal(err)
	}
	var toks []string
	for _, tok := range lx.Tokens() {
		toks = append(toks, fmt.Sprintf("%s/%s:%s", tok.Mode(), tok.Kind(), tok.Lexeme()))
	}
	return toks, errs
}

func TestLexModes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.lexer")
	defer teardown()
	//
	toks, errs := lex(t, `ab 12 "hi there" x`)
	expected := []string{
		"main/id:ab", "main/space: ", "main/num:12", "main/space: ",
		`main/quote:"`, "str/text:hi there", `str/quote_end:"`,
		"main/space: ", "main/id:x",
	}
	if strings.Join(toks, "|") != strings.Join(expected, "|") {
		t.Errorf("Expected tokens\n%v\nhave\n%v", expected, toks)
	}
	if len(errs) != 0 {
		t.Errorf("Expected no errors, have %v", errs)
	}
}

func TestLexMaximalMunch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.lexer")
	defer teardown()
	//
	for _, test := range []struct {
		input  string
		tokens string
	}{
		{"===", "main/eqeqeq:==="},
		{"==x", "main/eq:=|main/eq:=|main/id:x"},
		{"====", "main/eqeqeq:===|main/eq:="},
		{"ab12", "main/id:ab|main/num:12"},
		{"->", "main/arrow:->"},
	} {
		toks, _ := lex(t, test.input)
		if strings.Join(toks, "|") != test.tokens {
			t.Errorf("%q: expected %s, have %v", test.input, test.tokens, toks)
		}
	}
}

func TestLexInvalidAndIncomplete(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.lexer")
	defer teardown()
	//
	toks, errs := lex(t, "ab!?-x-")
	expected := "main/id:ab|main/invalid:!?|main/incomplete:-|main/id:x|main/incomplete:-"
	if strings.Join(toks, "|") != expected {
		t.Errorf("Expected %s, have %v", expected, toks)
	}
	if len(errs) != 3 || !errors.Is(errs[0], ErrInvalidInput) || !errors.Is(errs[1], ErrIncompleteToken) {
		t.Errorf("Expected invalid and incomplete errors, have %v", errs)
	}
	toks, _ = lex(t, "\"a\tb")
	expected = `main/quote:"|str/text:a|str/invalid:` + "\t" + `|str/text:b`
	if strings.Join(toks, "|") != expected {
		t.Errorf("Expected %s, have %v", expected, toks)
	}
}

func TestLexSkipAndEOF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.lexer")
	defer teardown()
	//
	toks, _ := lex(t, "a b\nc", Skip("space"))
	if strings.Join(toks, "|") != "main/id:a|main/id:b|main/id:c" {
		t.Errorf("Expected spaces to be skipped, have %v", toks)
	}
	table, modes := compile(t)
	lx, _ := New(table, modes, nil, strings.NewReader("12"))
	tok := lx.NextToken()
	if tok.Span() != (legs.Span{0, 2}) {
		t.Errorf("Expected span (0…2), have %v", tok.Span())
	}
	for i := 0; i < 2; i++ {
		if tok = lx.NextToken(); tok.Kind() != legs.EOFKind || tok.Span() != (legs.Span{2, 2}) {
			t.Errorf("Expected EOF token at 2, have %v", tok)
		}
	}
	if lx.Depth() != 1 || lx.Mode() != "main" {
		t.Errorf("Expected lexer to stay in main mode")
	}
}

func TestLexerConfiguration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "legs.lexer")
	defer teardown()
	//
	table, modes := compile(t)
	bad := automata.ModeTransitions{
		{Mode: "main", Pattern: "quote"}: {Mode: "nowhere", Pattern: "x"},
	}
	if _, err := New(table, modes, bad, strings.NewReader("")); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Expected unknown mode to be reported, error is %v", err)
	}
	delete(modes, "main")
	if _, err := New(table, modes, nil, strings.NewReader("")); !errors.Is(err, automata.ErrNoMainMode) {
		t.Errorf("Expected missing main mode to be reported, error is %v", err)
	}
}
