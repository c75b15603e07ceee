package automata

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/legs"
)

// ToGraphViz exports a DFA to the Graphviz Dot format.
func (dfa *DFA) ToGraphViz(w io.Writer) {
	io.WriteString(w, `digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	fmt.Fprintf(w, "label=\"%s\"\n", dotEscape(dfa.name))
	for _, n := range dfa.Nodes() {
		kinds := dfa.matchKindSets[n]
		fmt.Fprintf(w, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			n, nodecolor(kinds), n, dotEscape(strings.Join(kinds, ", ")))
	}
	for _, n := range dfa.Nodes() {
		for _, t := range dfa.Targets(n) {
			fmt.Fprintf(w, "s%03d -> s%03d [label=\"[%s]\"]\n", n, t.Dst,
				dotEscape(legs.ByteRangesDesc(t.Bytes)))
		}
	}
	io.WriteString(w, "}\n")
}

// DFA2GraphViz exports a DFA to the Graphviz Dot format, given a filename.
func (dfa *DFA) DFA2GraphViz(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	dfa.ToGraphViz(f)
	return nil
}

func nodecolor(kinds []string) string {
	switch {
	case len(kinds) == 0:
		return "white"
	case len(kinds) == 1 && kinds[0] == legs.InvalidKind:
		return "lightpink"
	case len(kinds) > 1:
		return "orange"
	}
	return "lightgray"
}

func dotEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`)
	return r.Replace(s)
}
