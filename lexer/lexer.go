package lexer

import (
	"errors"
	"fmt"
	"io"

	"github.com/npillmayer/legs"
	"github.com/npillmayer/legs/automata"
	"github.com/npillmayer/legs/tables"
)

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() legs.Token
	SetErrorHandler(func(error))
}

// Errors reported to the error handler of a lexer.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrIncompleteToken = errors.New("incomplete token")
)

// ErrUnknownMode is returned by New if a mode transition refers to a mode
// missing from the automaton.
var ErrUnknownMode = errors.New("unknown lexer mode")

// Lexer is the default tokenizer for combined automata. Create one with New.
type Lexer struct {
	table       *tables.Table
	modes       map[string]automata.Mode
	transitions automata.ModeTransitions
	input       []byte
	pos         int
	stack       []frame
	skip        map[string]bool
	Error       func(error) // error handler
}

var _ Tokenizer = (*Lexer)(nil)

// frame is an entry of the mode stack. A token of kind pop ends the mode.
type frame struct {
	mode string
	pop  string
}

// Default error reporting function for lexers
func logError(e error) {
	tracer().Errorf("lexer error: " + e.Error())
}

// New creates a lexer for input. table is the transition table of a combined
// automaton with the given modes; lexing starts in mode 'main'.
// transitions may be nil.
func New(table *tables.Table, modes map[string]automata.Mode, transitions automata.ModeTransitions,
	input io.Reader, opts ...Option) (*Lexer, error) {
	//
	if _, ok := modes[automata.MainMode]; !ok {
		return nil, automata.ErrNoMainMode
	}
	for parent, child := range transitions {
		if _, ok := modes[parent.Mode]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMode, parent.Mode)
		}
		if _, ok := modes[child.Mode]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMode, child.Mode)
		}
	}
	text, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("lexer cannot read input: %w", err)
	}
	l := &Lexer{
		table:       table,
		modes:       modes,
		transitions: transitions,
		input:       text,
		stack:       []frame{{mode: automata.MainMode}},
		skip:        make(map[string]bool),
		Error:       logError,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// SetErrorHandler sets an error handler for the lexer.
func (l *Lexer) SetErrorHandler(h func(error)) {
	if h == nil {
		l.Error = logError
		return
	}
	l.Error = h
}

// Mode returns the name of the current mode.
func (l *Lexer) Mode() string {
	return l.stack[len(l.stack)-1].mode
}

// Depth returns the height of the mode stack. The main mode has depth 1.
func (l *Lexer) Depth() int {
	return len(l.stack)
}

// NextToken is part of the Tokenizer interface. At the end of input it
// returns a token of kind legs.EOFKind, and continues to do so.
func (l *Lexer) NextToken() legs.Token {
	for {
		tok := l.next()
		if tok.kind == legs.EOFKind || !l.skip[tok.kind] {
			return tok
		}
		tracer().Debugf("skipping %v", tok)
	}
}

func (l *Lexer) next() Token {
	top := l.stack[len(l.stack)-1]
	if l.pos >= len(l.input) {
		p := uint64(len(l.input))
		return Token{kind: legs.EOFKind, mode: top.mode, span: legs.Span{p, p}}
	}
	mode := l.modes[top.mode]
	state := mode.Start
	start, pos, end := l.pos, l.pos, -1
	kind := mode.IncompleteKind()
	for pos < len(l.input) {
		next, ok := l.table.Next(state, l.input[pos])
		if !ok {
			break
		}
		state = next
		pos++
		if k := l.table.Kind(state); k != "" {
			kind = k
			end = pos
		}
	}
	if end < 0 { // never reached a match node
		end = pos
	}
	if end == start {
		panic(fmt.Sprintf("lexer mode %s did not advance at position %d", mode.Name, start))
	}
	l.pos = end
	tok := Token{
		kind:   kind,
		mode:   mode.Name,
		lexeme: string(l.input[start:end]),
		span:   legs.Span{uint64(start), uint64(end)},
	}
	switch kind {
	case legs.InvalidKind:
		l.Error(fmt.Errorf("%w at %v: %q", ErrInvalidInput, tok.span, tok.lexeme))
	case mode.IncompleteKind():
		l.Error(fmt.Errorf("%w at %v: %q", ErrIncompleteToken, tok.span, tok.lexeme))
	}
	l.switchMode(top, kind)
	return tok
}

func (l *Lexer) switchMode(top frame, kind string) {
	if kind == top.pop && len(l.stack) > 1 {
		l.stack = l.stack[:len(l.stack)-1]
		tracer().Debugf("pop mode %s on %s", top.mode, kind)
		return
	}
	if child, ok := l.transitions[automata.ModePattern{Mode: top.mode, Pattern: kind}]; ok {
		l.stack = append(l.stack, frame{mode: child.Mode, pop: child.Pattern})
		tracer().Debugf("push mode %s on %s", child.Mode, kind)
	}
}

// Tokens collects all remaining tokens, excluding the final EOF token.
func (l *Lexer) Tokens() []legs.Token {
	var tokens []legs.Token
	for tok := l.NextToken(); tok.Kind() != legs.EOFKind; tok = l.NextToken() {
		tokens = append(tokens, tok)
	}
	return tokens
}

// --- Options ---------------------------------------------------------------

// Option configures a lexer.
type Option func(l *Lexer)

// Skip configures the lexer to drop tokens of the given kinds, e.g.
// whitespace or comments.
func Skip(kinds ...string) Option {
	return func(l *Lexer) {
		for _, k := range kinds {
			l.skip[k] = true
		}
	}
}

// ErrorHandler sets the error handler for invalid and incomplete tokens.
func ErrorHandler(h func(error)) Option {
	return func(l *Lexer) {
		l.SetErrorHandler(h)
	}
}

// --- Default tokens --------------------------------------------------------

// Token is the token type produced by lexers.
type Token struct {
	kind   string
	mode   string
	lexeme string
	span   legs.Span
}

var _ legs.Token = Token{}

// MakeToken creates a token.
func MakeToken(kind, mode, lexeme string, span legs.Span) Token {
	return Token{
		kind:   kind,
		mode:   mode,
		lexeme: lexeme,
		span:   span,
	}
}

func (t Token) Kind() string {
	return t.kind
}

func (t Token) Mode() string {
	return t.mode
}

func (t Token) Lexeme() string {
	return t.lexeme
}

func (t Token) Span() legs.Span {
	return t.span
}

func (t Token) String() string {
	return fmt.Sprintf("%s/%s %q %v", t.mode, t.kind, t.lexeme, t.span)
}
