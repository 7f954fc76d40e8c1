package encode

import (
	"testing"

	"github.com/baseng0815/satdpll/bf"
	"github.com/baseng0815/satdpll/solver"
)

// a uniquely-solvable clue set (the classic Wikipedia example puzzle).
var sudokuPuzzle = [9][9]int{
	{5, 3, 0, 0, 7, 0, 0, 0, 0},
	{6, 0, 0, 1, 9, 5, 0, 0, 0},
	{0, 9, 8, 0, 0, 0, 0, 6, 0},
	{8, 0, 0, 0, 6, 0, 0, 0, 3},
	{4, 0, 0, 8, 0, 3, 0, 0, 1},
	{7, 0, 0, 0, 2, 0, 0, 0, 6},
	{0, 6, 0, 0, 0, 0, 2, 8, 0},
	{0, 0, 0, 4, 1, 9, 0, 0, 5},
	{0, 0, 0, 0, 8, 0, 0, 7, 9},
}

var sudokuSolution = [9][9]int{
	{5, 3, 4, 6, 7, 8, 9, 1, 2},
	{6, 7, 2, 1, 9, 5, 3, 4, 8},
	{1, 9, 8, 3, 4, 2, 5, 6, 7},
	{8, 5, 9, 7, 6, 1, 4, 2, 3},
	{4, 2, 6, 8, 5, 3, 7, 9, 1},
	{7, 1, 3, 9, 2, 4, 8, 5, 6},
	{9, 6, 1, 5, 3, 7, 2, 8, 4},
	{2, 8, 7, 4, 1, 9, 6, 3, 5},
	{3, 4, 5, 2, 8, 6, 1, 7, 9},
}

func TestSudokuEncodingMatchesSolution(t *testing.T) {
	inst, names := Sudoku(sudokuPuzzle)

	// the known solution, asserted as the solver's initial assignment
	// over the named cell variables, must leave the encoding
	// satisfiable: this pins the encoding's semantics without having
	// to hand-compute values for the encoder's unnamed auxiliary
	// variables (bf.Unique's factorized dummy row/column variables),
	// which bf.Evaluate alone cannot resolve from the cell values.
	init := bf.NewAssignment()
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			solvedDigit := sudokuSolution[row][col] - 1
			for digit := 0; digit < 9; digit++ {
				id, ok := inst.IDOf(names[row][col][digit])
				if !ok {
					t.Fatalf("variable %q not interned", names[row][col][digit])
				}
				init.Set(id, digit == solvedDigit)
			}
		}
	}

	verdict, model, _ := solver.Solve(inst, init, solver.Options{})
	if verdict != solver.Sat {
		t.Fatalf("Solve with the known solution pinned = %v, want Sat", verdict)
	}
	grid := DecodeGrid(inst, names, model)
	if grid != sudokuSolution {
		t.Fatalf("decoded grid = %v, want %v (known solution not preserved)", grid, sudokuSolution)
	}
}

func TestSudokuSolveDecodesToSolution(t *testing.T) {
	inst, names := Sudoku(sudokuPuzzle)
	verdict, model, _ := solver.Solve(inst, bf.NewAssignment(), solver.Options{})
	if verdict != solver.Sat {
		t.Fatalf("Solve(sudoku) = %v, want Sat", verdict)
	}
	grid := DecodeGrid(inst, names, model)
	if grid != sudokuSolution {
		t.Fatalf("decoded grid = %v, want %v", grid, sudokuSolution)
	}
}
