package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/logging"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		tenants, servers, metrics int
		out                       string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Draw a random problem and write it as YAML",
		Long: "Draw a random problem from the generator section of the configuration\n" +
			"and write it to --out, or to standard output.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.bind(cmd.Flags(), map[string]string{"seed": "seed"}); err != nil {
				return err
			}
			cfg, err := a.config()
			if err != nil {
				return err
			}
			g, err := consolidation.NewGenerator(cfg.Generator, cfg.Seed)
			if err != nil {
				return err
			}
			p := g.Produce(tenants, servers, metrics)
			a.log.Info("generated", logging.Problem(tenants, servers, metrics))
			if out == "" {
				return p.Save(cmd.OutOrStdout())
			}
			return p.SaveFile(out)
		},
	}
	f := cmd.Flags()
	f.IntVar(&tenants, "tenants", 3, "number of tenants")
	f.IntVar(&servers, "servers", 2, "number of servers")
	f.IntVar(&metrics, "metrics", 1, "number of metrics")
	f.Int64("seed", 1, "random seed")
	f.StringVarP(&out, "out", "o", "", "output file")
	return cmd
}
