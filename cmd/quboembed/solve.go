package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/solver"
)

var errDisagree = errors.New("linear and quadratic solutions disagree")

func newSolveCmd(a *app) *cobra.Command {
	var (
		name       string
		linearOnly bool
		maxQubits  int
		assignment []int
	)
	cmd := &cobra.Command{
		Use:   "solve PROBLEM",
		Short: "Solve a problem directly and through its embedding",
		Long: "Solve the YAML problem by branch and bound, then minimize its embedding\n" +
			"exhaustively and compare both answers. --assignment fixes the server of\n" +
			"every tenant (-1 leaves a tenant unassigned) before minimizing.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxQubits < 1 || maxQubits > 62 {
				return fmt.Errorf("--max-qubits %d outside [1,62]", maxQubits)
			}
			p, err := consolidation.LoadProblemFile(args[0])
			if err != nil {
				return err
			}
			sc := solver.New(solver.WithMaxQubits(maxQubits), solver.WithLogger(a.log))
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			linear, err := sc.SolveLinear(ctx, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "linear:    %s\n", linear)
			if linearOnly {
				return nil
			}

			m, err := a.mapperFor(name, p)
			if err != nil {
				return err
			}
			var (
				quadratic consolidation.Solution
				diag      consolidation.Diagnostics
			)
			if len(assignment) > 0 {
				quadratic, diag, err = sc.SolveQuadraticWithAssignment(ctx, m, p, assignment)
			} else {
				quadratic, diag, err = sc.SolveQuadratic(ctx, m, p)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "quadratic: %s\n", quadratic)
			fmt.Fprintf(w, "mapper: %s consistent: %t energy: %g states: %d\n",
				m.Name(), diag.Consistent, diag.Energy, sc.Stats().States)
			if len(assignment) == 0 && !linear.Equivalent(quadratic) {
				return errDisagree
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&name, "mapper", "m", "", "mapper name; empty picks triangle for one metric, matrix otherwise")
	f.BoolVar(&linearOnly, "linear-only", false, "skip the embedding")
	f.IntVar(&maxQubits, "max-qubits", solver.DefaultMaxQubits, "largest number of free qubits to enumerate")
	f.IntSliceVar(&assignment, "assignment", nil, "server per tenant")
	return cmd
}
