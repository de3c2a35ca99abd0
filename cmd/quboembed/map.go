package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/mapping"
)

func newMapCmd(a *app) *cobra.Command {
	var name, out string
	cmd := &cobra.Command{
		Use:   "map PROBLEM",
		Short: "Embed a problem and write the qubit weights",
		Long: "Embed the YAML problem on the grid and print a summary. With --out the\n" +
			"weights are written in the text wire format, compressed with zstd or lz4\n" +
			"when the file name ends in .zst or .lz4.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := consolidation.LoadProblemFile(args[0])
			if err != nil {
				return err
			}
			m, err := a.mapperFor(name, p)
			if err != nil {
				return err
			}
			cm, err := m.Transform(p)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %s\n", m.Name(), p)
			fmt.Fprintf(w, "active qubits: %d\n", len(cm.ActiveQubits()))
			fmt.Fprintf(w, "max abs. weight: %g\n", cm.MaxAbsWeight(true, true))
			if out == "" {
				return nil
			}
			if err := mapping.WriteFile(out, fmt.Sprintf("%s %s", m.Name(), p), cm.Mapping); err != nil {
				return err
			}
			fmt.Fprintf(w, "weights: %s (%s)\n", out, mapping.CodecFor(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "mapper", "m", "", "mapper name; empty picks triangle for one metric, matrix otherwise")
	cmd.Flags().StringVarP(&out, "out", "o", "", "weight file")
	return cmd
}
