// Package display pretty-prints formulas and models for the CLI,
// colorizing matching parenthesis pairs the way the original formula
// renderer colors each nesting level, and suppressing color entirely
// when the output is not a terminal.
package display

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/baseng0815/satdpll/bf"
	"github.com/baseng0815/satdpll/solver"
)

// palette is the fixed sequence of colors cycled through by nesting
// depth. The source's renderer drew one of these uniformly at random
// per parenthesis pair; here the same palette is indexed deterministically
// by depth so that output is reproducible (color is cosmetic only).
var palette = []*color.Color{
	color.New(color.FgRed),
	color.New(color.FgGreen),
	color.New(color.FgBlue),
	color.New(color.FgHiRed),
	color.New(color.FgHiGreen),
	color.New(color.FgHiBlue),
	color.New(color.FgYellow),
	color.New(color.FgHiYellow),
	color.New(color.FgCyan),
	color.New(color.FgHiCyan),
}

// FormatFormula renders f as infix text, coloring each matching
// parenthesis pair by its nesting depth. Color is emitted unless
// color.NoColor is set, which the color package does by default when
// stdout is not a terminal; IsColorSupported reports the same for an
// arbitrary writer.
func FormatFormula(f bf.Formula) string {
	var sb strings.Builder
	writeFormula(&sb, f, 0)
	return sb.String()
}

func writeFormula(sb *strings.Builder, f bf.Formula, depth int) {
	if isLeaf(f) {
		sb.WriteString(f.String())
		return
	}

	paren := palette[depth%len(palette)]
	sb.WriteString(paren.Sprint("("))

	if child, ok := bf.AsNot(f); ok {
		sb.WriteString("-")
		writeFormula(sb, child, depth+1)
	} else if left, right, ok := bf.AsAnd(f); ok {
		writeFormula(sb, left, depth+1)
		sb.WriteString(" & ")
		writeFormula(sb, right, depth+1)
	} else if left, right, ok := bf.AsOr(f); ok {
		writeFormula(sb, left, depth+1)
		sb.WriteString(" | ")
		writeFormula(sb, right, depth+1)
	}

	sb.WriteString(paren.Sprint(")"))
}

func isLeaf(f bf.Formula) bool {
	if _, ok := bf.AsVariable(f); ok {
		return true
	}
	if _, ok := bf.AsConstant(f); ok {
		return true
	}
	return false
}

// FormatModel renders inst's named variables and their bound values
// from m, one "name = value" line per named variable present in m,
// sorted by name.
func FormatModel(inst *solver.Instance, m bf.Assignment) string {
	var names []string
	for _, id := range inst.VariableIDs() {
		if !m.Has(id) {
			continue
		}
		name, ok := inst.NameOf(id)
		if !ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		id, _ := inst.IDOf(name)
		val, _ := m.Get(id)
		fmt.Fprintf(&sb, "%s = %t\n", name, val)
	}
	return sb.String()
}

// IsColorSupported reports whether w is a terminal that should
// receive colorized output, matching the common CLI convention of
// suppressing ANSI escapes when writing to a pipe or file.
func IsColorSupported(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
