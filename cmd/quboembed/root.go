package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/katalvlaran/quboembed/benchmark"
	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/logging"
	"github.com/katalvlaran/quboembed/mapper"
)

// envPrefix prefixes every environment override.
const envPrefix = "QUBOEMBED"

// app carries the state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: logging.Nop()}
	root := &cobra.Command{
		Use:               "quboembed",
		Short:             "Embed server consolidation problems on a Chimera annealer grid",
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return a.init() },
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.log.Sync() },
	}
	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "YAML configuration file")
	f.String("log-level", "warn", "log level (debug, info, warn, error)")
	f.Bool("log-json", false, "log JSON records instead of console lines")
	lo.Must0(a.v.BindPFlag("log.level", f.Lookup("log-level")))
	lo.Must0(a.v.BindPFlag("log.json", f.Lookup("log-json")))

	root.AddCommand(newGenerateCmd(a), newMapCmd(a), newSolveCmd(a), newBenchCmd(a))
	return root
}

// init reads the configuration file and the environment, then builds the
// logger.
func (a *app) init() error {
	setDefaults(a.v, benchmark.DefaultConfig())
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("config %s: %w", a.cfgFile, err)
		}
	}

	build := logging.NewConsole
	if a.v.GetBool("log.json") {
		build = logging.New
	}
	l, err := build(a.v.GetString("log.level"))
	if err != nil {
		return err
	}
	a.log = l
	return nil
}

// setDefaults registers every configuration key so that environment
// variables reach Unmarshal.
func setDefaults(v *viper.Viper, cfg benchmark.Config) {
	v.SetDefault("instances", cfg.Instances)
	v.SetDefault("max_tenants", cfg.MaxTenants)
	v.SetDefault("max_servers", cfg.MaxServers)
	v.SetDefault("max_metrics", cfg.MaxMetrics)
	v.SetDefault("threshold", cfg.Threshold)
	v.SetDefault("parallelism", cfg.Parallelism)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("mappers", cfg.Mappers)
	v.SetDefault("cross_validate", cfg.CrossValidate)
	v.SetDefault("generator.step", cfg.Generator.Step)
	v.SetDefault("generator.min_consumption", cfg.Generator.MinConsumption)
	v.SetDefault("generator.max_consumption", cfg.Generator.MaxConsumption)
	v.SetDefault("generator.min_capacity", cfg.Generator.MinCapacity)
	v.SetDefault("generator.max_capacity", cfg.Generator.MaxCapacity)
	v.SetDefault("generator.min_cost", cfg.Generator.MinCost)
	v.SetDefault("generator.max_cost", cfg.Generator.MaxCost)
}

// bind links configuration keys to the flags of the running command.
// Keys are bound at run time because several commands share a key.
func (a *app) bind(flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// config resolves the full configuration.
func (a *app) config() (benchmark.Config, error) {
	var cfg benchmark.Config
	if err := a.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// mapperFor returns the named mapper, or the grid mapper suited to p when
// name is empty.
func (a *app) mapperFor(name string, p *consolidation.Problem) (mapper.Mapper, error) {
	opts := []mapper.Option{mapper.WithLogger(a.log)}
	if name == "" {
		return mapper.ForProblem(p, opts...), nil
	}
	return mapper.ByName(name, opts...)
}
