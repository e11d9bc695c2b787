// Package visualizer renders animation definitions as Graphviz DOT.
package visualizer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/comalice/spritefsm/config"
)

const (
	startNode = "__start"
	anyNode   = "__any"
)

// ExportDOT generates Graphviz DOT source for def. States appear in
// declaration order and edges in rule order, labelled with their index and
// trigger, so the output is stable. current, if non-empty, is highlighted.
func ExportDOT(def *config.Definition, current string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", strconv.Quote(def.ID))
	buf.WriteString(`  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	fmt.Fprintf(&buf, "  %s [shape=point];\n", strconv.Quote(startNode))
	for _, s := range def.States {
		style := ""
		if s.Name == current {
			style = ` style="rounded,filled" fillcolor=lightgreen`
		}
		fmt.Fprintf(&buf, "  %s [label=%s%s];\n", strconv.Quote(s.Name), strconv.Quote(stateLabel(s)), style)
	}
	if hasWildcard(def) {
		fmt.Fprintf(&buf, "  %s [label=\"*\" shape=diamond];\n", strconv.Quote(anyNode))
	}

	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  %s -> %s;\n", strconv.Quote(startNode), strconv.Quote(def.Initial))
	for i, t := range def.Transitions {
		from := t.From
		if from == config.AnyState {
			from = anyNode
		}
		fmt.Fprintf(&buf, "  %s -> %s [label=%s];\n", strconv.Quote(from), strconv.Quote(t.To), strconv.Quote(edgeLabel(i, t)))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func stateLabel(s config.StateDef) string {
	label := fmt.Sprintf("%s\n%ss", s.Name, strconv.FormatFloat(s.Duration, 'g', -1, 64))
	if s.Repeat {
		label += " repeat"
	}
	return label
}

func edgeLabel(i int, t config.TransitionDef) string {
	switch t.Trigger() {
	case "end":
		return fmt.Sprintf("%d: end", i)
	case "when":
		return fmt.Sprintf("%d: %s", i, t.When)
	case "guard":
		return fmt.Sprintf("%d: guard %s", i, t.Guard)
	}
	return strconv.Itoa(i)
}

func hasWildcard(def *config.Definition) bool {
	for _, t := range def.Transitions {
		if t.From == config.AnyState {
			return true
		}
	}
	return false
}
