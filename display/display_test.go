package display

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/baseng0815/satdpll/bf"
	"github.com/baseng0815/satdpll/solver"
)

func TestFormatFormulaPlainText(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	f := bf.And(bf.Var(0), bf.Or(bf.Var(1), bf.Not(bf.Var(2))))
	got := FormatFormula(f)
	want := "(v0 & (v1 | (-v2)))"
	if got != want {
		t.Errorf("FormatFormula = %q, want %q", got, want)
	}
}

func TestFormatModelSortsByName(t *testing.T) {
	expr := bf.And(bf.Var(0), bf.Var(1))
	inst := solver.NewInstance(expr, map[bf.VariableID]string{0: "zeta", 1: "alpha"})
	a := bf.NewAssignment()
	a.Set(0, true)
	a.Set(1, false)

	out := FormatModel(inst, a)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("FormatModel produced %d lines, want 2: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "alpha") || !strings.HasPrefix(lines[1], "zeta") {
		t.Errorf("FormatModel lines not sorted by name: %v", lines)
	}
}

func TestFormatModelOmitsUnboundVariables(t *testing.T) {
	expr := bf.And(bf.Var(0), bf.Var(1))
	inst := solver.NewInstance(expr, map[bf.VariableID]string{0: "a", 1: "b"})
	a := bf.NewAssignment()
	a.Set(0, true)

	out := FormatModel(inst, a)
	if strings.Contains(out, "b") {
		t.Errorf("FormatModel included unbound variable b: %q", out)
	}
	if !strings.Contains(out, "a = true") {
		t.Errorf("FormatModel missing bound variable a: %q", out)
	}
}
