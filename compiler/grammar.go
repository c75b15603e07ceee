package compiler

import (
	"errors"
	"fmt"
	"sort"

	"github.com/npillmayer/legs"
	"github.com/npillmayer/legs/automata"
	"github.com/npillmayer/legs/pattern"
)

// Grammar errors.
var (
	ErrDuplicatePattern = errors.New("duplicate pattern name")
	ErrReservedName     = errors.New("reserved pattern name")
	ErrBadTransition    = errors.New("bad mode transition")
	ErrTrivialMatch     = errors.New("pattern is trivially matched from start")
)

// Grammar is the input of the compiler: named patterns per mode, and the
// transitions between modes.
type Grammar struct {
	Name        string
	Modes       map[string][]automata.NamedPattern
	Transitions automata.ModeTransitions
}

// ModeNames returns the names of all modes, 'main' first.
func (g *Grammar) ModeNames() []string {
	names := make([]string, 0, len(g.Modes))
	for name := range g.Modes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == automata.MainMode || names[j] == automata.MainMode {
			return names[i] == automata.MainMode && names[j] != automata.MainMode
		}
		return names[i] < names[j]
	})
	return names
}

// PatternNames returns the pattern names of each mode, in declaration order.
func (g *Grammar) PatternNames() map[string][]string {
	names := make(map[string][]string, len(g.Modes))
	for mode, patterns := range g.Modes {
		for _, p := range patterns {
			names[mode] = append(names[mode], p.Name)
		}
	}
	return names
}

// Validate checks a grammar for problems the automata cannot detect: a
// missing main mode, duplicate or reserved pattern names, and transitions
// referring to unknown modes or patterns.
func (g *Grammar) Validate() error {
	if _, ok := g.Modes[automata.MainMode]; !ok {
		return automata.ErrNoMainMode
	}
	declared := make(map[automata.ModePattern]bool)
	for _, mode := range g.ModeNames() {
		for _, p := range g.Modes[mode] {
			if legs.IsReservedName(p.Name) {
				return fmt.Errorf("%w: mode %s: %s", ErrReservedName, mode, p.Name)
			}
			mp := automata.ModePattern{Mode: mode, Pattern: p.Name}
			if declared[mp] {
				return fmt.Errorf("%w: mode %s: %s", ErrDuplicatePattern, mode, p.Name)
			}
			declared[mp] = true
		}
	}
	for parent, child := range g.Transitions {
		if !declared[parent] {
			return fmt.Errorf("%w: parent %s/%s is not declared", ErrBadTransition, parent.Mode, parent.Pattern)
		}
		if !declared[child] {
			return fmt.Errorf("%w: child %s/%s is not declared", ErrBadTransition, child.Mode, child.Pattern)
		}
	}
	return nil
}

// --- Grammar builder -------------------------------------------------------

// GrammarBuilder is a helper for constructing grammars. Patterns are added to
// the current mode, which is 'main' initially.
type GrammarBuilder struct {
	g       *Grammar
	mode    string
	current automata.ModePattern
}

// NewGrammarBuilder creates a builder for a grammar with the given name.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		g: &Grammar{
			Name:        name,
			Modes:       make(map[string][]automata.NamedPattern),
			Transitions: make(automata.ModeTransitions),
		},
		mode: automata.MainMode,
	}
}

// Mode switches the builder to mode name.
func (b *GrammarBuilder) Mode(name string) *GrammarBuilder {
	b.mode = name
	return b
}

// Pattern adds a named pattern to the current mode.
func (b *GrammarBuilder) Pattern(name string, p pattern.Pattern) *GrammarBuilder {
	b.g.Modes[b.mode] = append(b.g.Modes[b.mode], automata.NamedPattern{Name: name, Pattern: p})
	b.current = automata.ModePattern{Mode: b.mode, Pattern: name}
	return b
}

// Push adds a mode transition for the pattern added last: recognizing it
// pushes mode child, which is left again by pattern pop.
func (b *GrammarBuilder) Push(child, pop string) *GrammarBuilder {
	if b.current.Pattern == "" {
		panic("grammar builder: Push without a pattern")
	}
	b.g.Transitions[b.current] = automata.ModePattern{Mode: child, Pattern: pop}
	return b
}

// Grammar returns the grammar built so far.
func (b *GrammarBuilder) Grammar() *Grammar {
	return b.g
}
