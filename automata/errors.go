package automata

import (
	"errors"
	"strings"

	"golang.org/x/exp/slices"
)

// Errors of the mode combiner.
var (
	ErrNoMainMode        = errors.New("no mode named 'main'")
	ErrEmptyMode         = errors.New("mode has an empty automaton")
	ErrUndeclaredPattern = errors.New("automaton matches pattern not declared for its mode")
)

// MainMode is the name of the mode a lexer starts in.
const MainMode = "main"

// AmbiguityError is returned by Minimize if patterns overlap in a way which
// cannot be resolved. Each group is a sorted list of pattern names which
// match at the same node.
type AmbiguityError struct {
	Name   string // name of the DFA, empty for merged errors
	Groups [][]string
}

// Lines returns one diagnostic line per group.
func (e *AmbiguityError) Lines() []string {
	lines := make([]string, len(e.Groups))
	for i, g := range e.Groups {
		lines[i] = "Rules are ambiguous: " + strings.Join(g, ", ")
	}
	return lines
}

func (e *AmbiguityError) Error() string {
	return strings.Join(e.Lines(), "\n")
}

// MergeAmbiguities collects the groups of several ambiguity errors into one
// error. Groups are sorted and duplicates are removed. It returns nil if
// there are no groups at all.
func MergeAmbiguities(errs ...*AmbiguityError) *AmbiguityError {
	var groups [][]string
	for _, e := range errs {
		if e != nil {
			groups = append(groups, e.Groups...)
		}
	}
	if len(groups) == 0 {
		return nil
	}
	slices.SortFunc(groups, func(a, b []string) int {
		return slices.Compare(a, b)
	})
	groups = slices.CompactFunc(groups, func(a, b []string) bool {
		return slices.Equal(a, b)
	})
	return &AmbiguityError{Groups: groups}
}
