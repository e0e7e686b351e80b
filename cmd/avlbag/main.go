package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/VictorLowther/avlbag/internal/workload"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("cmd", "avlbag").Logger()

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "avlbag",
		Short:        "Exercise an AVL-backed multiset with reproducible workloads",
		SilenceUsage: true,
	}
	root.AddCommand(runCommand(), configCommand())
	return root
}

func runCommand() *cobra.Command {
	var (
		configPath  string
		seed        int64
		operations  int
		metricsFile string
		logLevel    string
		progress    bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply a generated workload to a fresh bag and report on it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return errors.Wrapf(err, "bad --log-level %q", logLevel)
			}
			logger := log.Level(level)

			cfg, err := workload.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("operations") {
				cfg.Operations = operations
			}

			reg := prometheus.NewRegistry()
			runner, err := workload.NewRunner(cfg, reg, logger)
			if err != nil {
				return err
			}
			if progress {
				runner.Progress = os.Stderr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			rep, err := runner.Run(ctx)
			if err != nil {
				return err
			}
			for _, p := range cfg.Percentiles {
				if item, ok := rep.Samples[p]; ok {
					logger.Info().Int("percentile", p).Int("item", item).Msg("sample")
				}
			}
			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
					return errors.Wrapf(err, "writing metrics to %s", metricsFile)
				}
				logger.Info().Str("file", metricsFile).Msg("metrics written")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML workload file; defaults apply when absent")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for the operation generator, overrides the config")
	cmd.Flags().IntVar(&operations, "operations", 0, "number of mixed operations after the initial fill, overrides the config")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics in text format to this file when done")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "zerolog level: trace, debug, info, warn, error")
	cmd.Flags().BoolVar(&progress, "progress", false, "draw a progress bar on stderr")
	return cmd
}

func configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the default workload config as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := workload.DefaultConfig().Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func main() {
	if err := rootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		os.Exit(1)
	}
}
