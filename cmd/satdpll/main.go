// Command satdpll parses a propositional formula and decides its
// satisfiability.
//
// Logging:
//   - Base logger is created here with output format and level
//   - Logger is passed to the solve path via dependency injection
//   - No global slog configuration (no slog.SetDefault)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/baseng0815/satdpll/bf"
	"github.com/baseng0815/satdpll/display"
	"github.com/baseng0815/satdpll/parser"
	"github.com/baseng0815/satdpll/portfolio"
	"github.com/baseng0815/satdpll/solver"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	rootCmd := &cobra.Command{
		Use:   "satdpll",
		Short: "Decide propositional satisfiability",
	}

	solveCmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Parse a formula file and decide its satisfiability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolioN, _ := cmd.Flags().GetInt("portfolio")
			dimacsPath, _ := cmd.Flags().GetString("dimacs")
			verbose, _ := cmd.Flags().GetBool("verbose")
			seed, seedSet := int64(0), false
			if cmd.Flags().Changed("seed") {
				seed, _ = cmd.Flags().GetInt64("seed")
				seedSet = true
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			runLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			return runSolve(ctx, runLogger, args[0], portfolioN, dimacsPath, seedPtr(seed, seedSet))
		},
	}
	solveCmd.Flags().Int("portfolio", 0, "race N seeded DPLL runs plus one CDCL run instead of a single solve")
	solveCmd.Flags().String("dimacs", "", "also write the instance's CNF in DIMACS format to this path")
	solveCmd.Flags().Bool("verbose", false, "log solve statistics")
	solveCmd.Flags().Int64("seed", 0, "fix the decision stream's seed (ignored with --portfolio)")

	rootCmd.AddCommand(solveCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("satdpll failed", "error", err)
		os.Exit(1)
	}
}

func seedPtr(seed int64, set bool) *int64 {
	if !set {
		return nil
	}
	return &seed
}

func runSolve(ctx context.Context, logger *slog.Logger, path string, portfolioN int, dimacsPath string, seed *int64) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("satdpll: could not read %s: %w", path, err)
	}

	inst, err := parser.Parse(string(src))
	if err != nil {
		return fmt.Errorf("satdpll: %w", err)
	}
	logger.Debug("parsed instance", "variables", inst.NumVariables())

	if dimacsPath != "" {
		if err := writeDimacs(inst, dimacsPath); err != nil {
			return err
		}
		logger.Debug("wrote DIMACS export", "path", dimacsPath)
	}

	var verdict solver.Verdict
	var model bf.Assignment

	if portfolioN > 0 {
		start := time.Now()
		verdict, model, err = portfolio.Race(ctx, inst, bf.NewAssignment(), portfolioN)
		if err != nil {
			return fmt.Errorf("satdpll: %w", err)
		}
		logger.Debug("portfolio race finished", "elapsed", time.Since(start), "runners", portfolioN)
	} else {
		var stats solver.Stats
		start := time.Now()
		verdict, model, stats = solver.Solve(inst, bf.NewAssignment(), solver.Options{Seed: seed, Cancel: ctx.Done()})
		logger.Debug("solve finished",
			"elapsed", time.Since(start),
			"decisions", stats.Decisions,
			"unit_propagations", stats.UnitPropagations,
			"pure_literals", stats.PureLiterals,
		)
	}

	fmt.Println(verdict)
	if verdict == solver.Sat {
		fmt.Print(display.FormatModel(inst, model))
	}
	return nil
}

func writeDimacs(inst *solver.Instance, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("satdpll: could not create %s: %w", path, err)
	}
	defer f.Close()

	cnf := bf.ToCNF(inst.Expression)
	nbVars := 0
	if inst.NumVariables() > 0 {
		nbVars = int(inst.MaxVariableID()) + 1
	}
	if err := bf.Dimacs(f, cnf, nbVars); err != nil {
		return fmt.Errorf("satdpll: %w", err)
	}
	return nil
}
