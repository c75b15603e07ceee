package compiler

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/npillmayer/legs"
	"github.com/npillmayer/legs/automata"
	"github.com/npillmayer/legs/lexer"
	"github.com/npillmayer/legs/pattern"
	"github.com/npillmayer/legs/tables"
	"golang.org/x/sync/errgroup"
)

// Stages holds the intermediate automata of one mode.
type Stages struct {
	NFA *automata.NFA
	DFA *automata.DFA // determinized, not minimized
	Min *automata.DFA
}

// Result is the output of the compiler.
type Result struct {
	Name        string
	DFA         *automata.DFA // combined automaton of all modes
	Modes       map[string]automata.Mode
	NodeModes   map[legs.Node]automata.Mode
	Transitions automata.ModeTransitions
	PerMode     map[string]*Stages
	Table       *tables.Table
}

// NewLexer creates a lexer running the compiled automaton on input.
func (r *Result) NewLexer(input io.Reader, opts ...lexer.Option) (*lexer.Lexer, error) {
	return lexer.New(r.Table, r.Modes, r.Transitions, input, opts...)
}

// --- Options ---------------------------------------------------------------

// Option configures the compiler.
type Option func(c *config)

type config struct {
	parallel bool
	encoding pattern.Encoding
}

// Parallel runs the pipelines of the modes concurrently.
func Parallel(b bool) Option {
	return func(c *config) {
		c.parallel = b
	}
}

// Encoding selects the byte encoding of charsets. Default is UTF-8.
func Encoding(enc pattern.Encoding) Option {
	return func(c *config) {
		c.encoding = enc
	}
}

// --- Compilation -----------------------------------------------------------

// Compile builds the combined automaton for grammar g.
//
// Ambiguous patterns do not stop the pipelines of other modes; all ambiguity
// errors are collected into one *automata.AmbiguityError. Other errors are
// returned as soon as they are detected.
func Compile(g *Grammar, opts ...Option) (*Result, error) {
	c := config{encoding: pattern.UTF8}
	for _, opt := range opts {
		opt(&c)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	modes := g.ModeNames()
	stages := make([]*Stages, len(modes))
	ambiguities := make([]*automata.AmbiguityError, len(modes))
	var eg errgroup.Group
	if c.parallel {
		eg.SetLimit(runtime.GOMAXPROCS(0))
	} else {
		eg.SetLimit(1)
	}
	for i, mode := range modes {
		i, mode := i, mode
		eg.Go(func() error {
			st, err := compileMode(mode, g.Modes[mode], c.encoding)
			var amb *automata.AmbiguityError
			if errors.As(err, &amb) {
				ambiguities[i] = amb
				return nil
			}
			stages[i] = st
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if amb := automata.MergeAmbiguities(ambiguities...); amb != nil {
		amb.Name = g.Name
		return nil, amb
	}
	result := &Result{
		Name:        g.Name,
		Transitions: g.Transitions,
		PerMode:     make(map[string]*Stages, len(modes)),
	}
	pairs := make([]automata.ModeDFA, len(modes))
	for i, mode := range modes {
		result.PerMode[mode] = stages[i]
		pairs[i] = automata.ModeDFA{Mode: mode, DFA: stages[i].Min}
	}
	var err error
	result.DFA, result.Modes, result.NodeModes, err = automata.Combine(pairs, g.PatternNames())
	if err != nil {
		return nil, err
	}
	result.Table = tables.Build(result.DFA, result.NodeModes)
	tracer().Infof("grammar %s: %d modes, %v", g.Name, len(modes), result.DFA.Stats())
	return result, nil
}

func compileMode(mode string, patterns []automata.NamedPattern, enc pattern.Encoding) (*Stages, error) {
	for _, p := range patterns {
		if err := pattern.Check(p.Pattern, enc); err != nil {
			tracer().Errorf("mode %s, pattern %s: %v", mode, p.Name, err)
		}
	}
	st := &Stages{}
	st.NFA = automata.BuildNFA(mode, patterns, automata.WithEncoding(enc))
	if msgs := st.NFA.Validate(); len(msgs) > 0 {
		return nil, fmt.Errorf("%w: mode %s: %s", ErrTrivialMatch, mode, strings.Join(msgs, "; "))
	}
	st.DFA = automata.BuildDFA(st.NFA)
	minDFA, err := automata.Minimize(st.DFA)
	if err != nil {
		return nil, err
	}
	st.Min = minDFA
	tracer().Debugf("mode %s: NFA %v; DFA %v; minimized %v", mode, st.NFA.Stats(), st.DFA.Stats(), minDFA.Stats())
	return st, nil
}

// WriteDiagnostics writes a compiler error to w. Ambiguity errors produce one
// line per group of ambiguous patterns.
func WriteDiagnostics(w io.Writer, err error) {
	if err == nil {
		return
	}
	var amb *automata.AmbiguityError
	if errors.As(err, &amb) {
		for _, line := range amb.Lines() {
			fmt.Fprintln(w, line)
		}
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
