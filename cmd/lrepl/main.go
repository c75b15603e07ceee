package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/chzyer/readline"
	"github.com/npillmayer/legs/compiler"
	"github.com/npillmayer/legs/pattern"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

type cli struct {
	Trace    string   `help:"Trace level [Debug|Info|Error]" default:"Info"`
	Parallel bool     `help:"Compile lexer modes in parallel"`
	Encoding string   `help:"Byte encoding of patterns [utf-8|latin-1|utf-16be|utf-16le]" default:"utf-8"`
	Init     string   `help:"File with lines to evaluate at start" type:"path"`
	Input    []string `arg:"" optional:"" help:"Input to tokenize before going interactive"`
}

// tracing keys of all packages, to forward the user supplied trace level
var traceKeys = []string{
	"legs.lrepl", "legs.pattern", "legs.automata", "legs.tables",
	"legs.lexer", "legs.compiler", "legs.crosscheck",
}

// We provide a small two-mode grammar as a default for experiments.
// Mode 'main' knows numbers, names, a few keywords and operators. A double
// quote pushes mode 'str', which is left by the closing quote.
//
//	num        [0-9]+
//	name       [a-zA-Z_][a-zA-Z0-9_]*
//	let, if    keywords
//	assign     =
//	eq         ==
//	op         + - * /
//	paren      ( )
//	space      [ \t]+
//	quote      "          -> str, quote_end
//	str.text   [^"\\]+
//	str.escape \\ ["\\nt]
func makeDemoGrammar() *compiler.Grammar {
	letter := pattern.Union(pattern.Range('a', 'z'), pattern.Range('A', 'Z'), pattern.Chars('_'))
	digit := pattern.Range('0', '9')
	b := compiler.NewGrammarBuilder("demo")
	b.Pattern("num", pattern.Some(digit))
	b.Pattern("name", pattern.Sequence(letter, pattern.Many(pattern.Union(letter, digit))))
	b.Pattern("let", pattern.Lit("let"))
	b.Pattern("if", pattern.Lit("if"))
	b.Pattern("assign", pattern.Lit("="))
	b.Pattern("eq", pattern.Lit("=="))
	b.Pattern("op", pattern.Chars('+', '-', '*', '/'))
	b.Pattern("paren", pattern.Chars('(', ')'))
	b.Pattern("space", pattern.Some(pattern.Chars(' ', '\t')))
	b.Pattern("quote", pattern.Lit(`"`)).Push("str", "quote_end")
	b.Mode("str")
	b.Pattern("text", pattern.Some(pattern.Union(
		pattern.Range(' ', '!'), pattern.Range('#', '['), pattern.Range(']', '~'), pattern.Chars('\t'))))
	b.Pattern("escape", pattern.Sequence(pattern.Lit(`\`), pattern.Chars('"', '\\', 'n', 't')))
	b.Pattern("quote_end", pattern.Lit(`"`))
	return b.Grammar()
}

// main() starts an interactive CLI ("L.REPL"), where users may enter lines
// of text. L.REPL tokenizes each line with a lexer compiled from a demo
// grammar and prints the tokens as a table. L.REPL is intended as a sandbox
// for experiments with lexer automata.
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	var params cli
	kong.Parse(&params, kong.Description("L.REPL: experiments with lexer automata"))
	tracer().SetTraceLevel(tracing.LevelInfo) // will set the correct level later
	pterm.Info.Println("Welcome to LREPL")    // colored welcome message
	tracer().Infof("Trace level is %s", params.Trace)
	//
	// compile the demo grammar
	enc, err := pattern.EncodingByName(params.Encoding)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	g := makeDemoGrammar()
	result, err := compiler.Compile(g, compiler.Parallel(params.Parallel), compiler.Encoding(enc))
	if err != nil {
		compiler.WriteDiagnostics(os.Stderr, err)
		os.Exit(2)
	}
	setTraceLevel(params.Trace) // now set the user supplied level
	//
	// set up REPL
	repl, err := readline.New("lrepl> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{
		grammar: g,
		result:  result,
		repl:    repl,
	}
	input := strings.TrimSpace(strings.Join(params.Input, " "))
	if input != "" {
		tracer().Infof("Input argument is \"%s\"", input)
		intp.Eval(input)
	}
	//
	// load an init file and start receiving commands / input
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.loadInitFile(params.Init)      // init file name provided by flag
	intp.REPL()                         // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevel(l string) {
	level := tracing.TraceLevelFromString(l)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}
