package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/legs/automata"
	"github.com/npillmayer/legs/compiler"
	"github.com/npillmayer/legs/crosscheck"
	"github.com/npillmayer/legs/lexer"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object
type Intp struct {
	grammar *compiler.Grammar
	result  *compiler.Result
	repl    *readline.Instance
}

var errQuit = errors.New("quit")

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("Unable to open init file: %s", filename)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 1
	for scanner.Scan() {
		line := scanner.Text()
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if err := intp.Eval(line); err != nil && err != errQuit {
			tracer().Errorf("Error line %d: "+err.Error(), lineno)
		}
		lineno++
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("Error while reading init file: " + err.Error())
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err = intp.Eval(line); err == errQuit {
			break
		} else if err != nil {
			pterm.Error.Println(err.Error())
		}
	}
	println("Good bye!")
}

// Eval executes a command, if line starts with a colon, or tokenizes line
// otherwise.
func (intp *Intp) Eval(line string) error {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		return intp.tokenize(line)
	}
	args := strings.Fields(trimmed)
	switch args[0] {
	case ":quit", ":q":
		return errQuit
	case ":modes":
		intp.printModes()
	case ":stats":
		intp.printStats()
	case ":dot":
		if len(args) != 2 {
			return fmt.Errorf("usage: :dot <file>")
		}
		if err := intp.result.DFA.DFA2GraphViz(args[1]); err != nil {
			return err
		}
		pterm.Info.Println(fmt.Sprintf("DFA written to %s", args[1]))
	case ":html":
		if len(args) != 2 {
			return fmt.Errorf("usage: :html <file>")
		}
		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		intp.result.Table.AsHTML(f)
		pterm.Info.Println(fmt.Sprintf("transition table written to %s", args[1]))
	case ":match":
		if len(args) < 3 {
			return fmt.Errorf("usage: :match <mode> <text>")
		}
		text := strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(trimmed, ":match")), args[1])
		return intp.match(args[1], strings.TrimSpace(text))
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
	return nil
}

// tokenize runs the lexer on line and prints the tokens as a table.
func (intp *Intp) tokenize(line string) error {
	var errs []error
	lx, err := intp.result.NewLexer(strings.NewReader(line),
		lexer.ErrorHandler(func(e error) { errs = append(errs, e) }))
	if err != nil {
		return err
	}
	data := pterm.TableData{{"mode", "kind", "lexeme", "span"}}
	for _, tok := range lx.Tokens() {
		data = append(data, []string{
			tok.Mode(),
			tok.Kind(),
			fmt.Sprintf("%q", tok.Lexeme()),
			tok.Span().String(),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	for _, e := range errs {
		pterm.Warning.Println(e.Error())
	}
	return nil
}

// printModes displays modes, patterns and mode transitions as a tree.
func (intp *Intp) printModes() {
	ll := pterm.LeveledList{}
	for _, name := range intp.grammar.ModeNames() {
		mode := intp.result.Modes[name]
		ll = append(ll, pterm.LeveledListItem{Level: 0, Text: mode.String()})
		for _, p := range intp.grammar.Modes[name] {
			text := fmt.Sprintf("%s = %v", p.Name, p.Pattern)
			child, ok := intp.grammar.Transitions[automata.ModePattern{Mode: name, Pattern: p.Name}]
			if ok {
				text += fmt.Sprintf("  ➞ %s (until %s)", child.Mode, child.Pattern)
			}
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: text})
		}
	}
	pterm.Println(intp.grammar.Name)
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}

// printStats displays the sizes of the automata of every mode.
func (intp *Intp) printStats() {
	data := pterm.TableData{{"mode", "stage", "nodes", "match nodes", "post-match", "transitions"}}
	row := func(mode, stage string, st automata.Stats) {
		data = append(data, []string{mode, stage,
			fmt.Sprint(st.Nodes), fmt.Sprint(st.MatchNodes),
			fmt.Sprint(st.PostMatchNodes), fmt.Sprint(st.Transitions),
		})
	}
	for _, name := range intp.grammar.ModeNames() {
		stages := intp.result.PerMode[name]
		row(name, "NFA", stages.NFA.Stats())
		row(name, "DFA", stages.DFA.Stats())
		row(name, "minimized", stages.Min.Stats())
	}
	row("*", "combined", intp.result.DFA.Stats())
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Info.Println(fmt.Sprintf("transition table: %d rows, %d runs",
		intp.result.Table.Rows(), intp.result.Table.Runs()))
}

// match cross-checks the automata of a mode, and lexmachine, on text.
func (intp *Intp) match(mode, text string) error {
	stages, ok := intp.result.PerMode[mode]
	if !ok {
		return fmt.Errorf("unknown mode: %s", mode)
	}
	kind, err := crosscheck.Match(stages.NFA, stages.DFA, stages.Min, []byte(text))
	if err != nil {
		return err
	}
	if kind == "" {
		pterm.Info.Println(fmt.Sprintf("%q -- incomplete", text))
	} else {
		pterm.Info.Println(fmt.Sprintf("%q -> %s", text, kind))
	}
	oracle, err := crosscheck.NewOracle(intp.grammar.Modes[mode])
	if err != nil {
		return err
	}
	if err = oracle.Check(stages.NFA, []byte(text)); err != nil {
		return err
	}
	tracer().Infof("lexmachine agrees: %v", oracle.Match([]byte(text)))
	return nil
}
