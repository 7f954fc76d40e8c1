// Package encode builds solver.Instance values from higher-level
// combinatorial problems, expressed entirely atop package bf's
// expression algebra.
package encode

import (
	"fmt"

	"github.com/baseng0815/satdpll/bf"
	"github.com/baseng0815/satdpll/solver"
)

const sudokuSide = 9
const sudokuBox = 3

// Sudoku builds the standard 9x9 Sudoku encoding: one boolean variable
// per (row, col, digit) triple, constrained so that exactly one digit
// holds per cell, and each digit holds exactly once per row, column,
// and 3x3 box. clues[r][c] is 1-9 for a given clue, or 0 for a blank
// cell. Sudoku returns the built instance together with a grid naming
// the 729 variables, so a model can be decoded back into a 9x9 grid of
// digits by DecodeGrid.
func Sudoku(clues [9][9]int) (*solver.Instance, [9][9][9]string) {
	var names [9][9][9]string
	idOf := func(row, col, digit int) bf.VariableID {
		return bf.VariableID(row*sudokuSide*sudokuSide + col*sudokuSide + digit)
	}
	idToName := make(map[bf.VariableID]string, sudokuSide*sudokuSide*sudokuSide)
	for row := 0; row < sudokuSide; row++ {
		for col := 0; col < sudokuSide; col++ {
			for digit := 0; digit < sudokuSide; digit++ {
				name := fmt.Sprintf("r%dc%dd%d", row, col, digit+1)
				names[row][col][digit] = name
				idToName[idOf(row, col, digit)] = name
			}
		}
	}

	alloc := bf.NewIDAllocator(bf.VariableID(sudokuSide * sudokuSide * sudokuSide))
	var constraints []bf.Formula

	// exactly one digit per cell
	for row := 0; row < sudokuSide; row++ {
		for col := 0; col < sudokuSide; col++ {
			vars := make([]bf.VariableID, sudokuSide)
			for digit := 0; digit < sudokuSide; digit++ {
				vars[digit] = idOf(row, col, digit)
			}
			constraints = append(constraints, bf.Unique(alloc, vars...))
		}
	}

	// each digit exactly once per row
	for row := 0; row < sudokuSide; row++ {
		for digit := 0; digit < sudokuSide; digit++ {
			vars := make([]bf.VariableID, sudokuSide)
			for col := 0; col < sudokuSide; col++ {
				vars[col] = idOf(row, col, digit)
			}
			constraints = append(constraints, bf.Unique(alloc, vars...))
		}
	}

	// each digit exactly once per column
	for col := 0; col < sudokuSide; col++ {
		for digit := 0; digit < sudokuSide; digit++ {
			vars := make([]bf.VariableID, sudokuSide)
			for row := 0; row < sudokuSide; row++ {
				vars[row] = idOf(row, col, digit)
			}
			constraints = append(constraints, bf.Unique(alloc, vars...))
		}
	}

	// each digit exactly once per 3x3 box
	for boxRow := 0; boxRow < sudokuBox; boxRow++ {
		for boxCol := 0; boxCol < sudokuBox; boxCol++ {
			for digit := 0; digit < sudokuSide; digit++ {
				vars := make([]bf.VariableID, 0, sudokuSide)
				for dr := 0; dr < sudokuBox; dr++ {
					for dc := 0; dc < sudokuBox; dc++ {
						row := boxRow*sudokuBox + dr
						col := boxCol*sudokuBox + dc
						vars = append(vars, idOf(row, col, digit))
					}
				}
				constraints = append(constraints, bf.Unique(alloc, vars...))
			}
		}
	}

	// clue fixing: a given cell's known digit is asserted true.
	for row := 0; row < sudokuSide; row++ {
		for col := 0; col < sudokuSide; col++ {
			if clues[row][col] == 0 {
				continue
			}
			digit := clues[row][col] - 1
			constraints = append(constraints, bf.Var(idOf(row, col, digit)))
		}
	}

	expr := bf.And(constraints...)
	return solver.NewInstance(expr, idToName), names
}

// DecodeGrid reads a solved model back into a 9x9 grid of digits
// (1-9), using the variable names Sudoku returned. It panics if
// some cell has no satisfied digit variable in m, which cannot happen
// for a model returned by solver.Solve for an instance built by Sudoku.
func DecodeGrid(inst *solver.Instance, names [9][9][9]string, m bf.Assignment) [9][9]int {
	var grid [9][9]int
	for row := 0; row < sudokuSide; row++ {
		for col := 0; col < sudokuSide; col++ {
			found := false
			for digit := 0; digit < sudokuSide; digit++ {
				id, ok := inst.IDOf(names[row][col][digit])
				if !ok {
					panic(fmt.Sprintf("encode: unknown variable name %q", names[row][col][digit]))
				}
				if val, ok := m.Get(id); ok && val {
					grid[row][col] = digit + 1
					found = true
					break
				}
			}
			if !found {
				panic(fmt.Sprintf("encode: cell (%d,%d) has no satisfied digit in model", row, col))
			}
		}
	}
	return grid
}
