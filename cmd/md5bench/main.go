// Package main provides the CLI entry point for md5bench, a harness that
// compares MD5 block-compression kernels against a library baseline over
// one shared, reproducible packet workload.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/weiihann/md5bench/harness"
	"github.com/weiihann/md5bench/kernel"
	"github.com/weiihann/md5bench/report"
	"github.com/weiihann/md5bench/workload"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "md5bench",
		Short: "MD5 block-compression kernel benchmark",
		Long: `md5bench measures interchangeable MD5 block-compression kernels
against a library MD5 baseline. Every candidate hashes the same randomly
generated packets in the same shuffled order, so timings are directly
comparable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}

			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newKernelsCmd())

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	cfg := defaultRunConfig()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Benchmark kernels against the baseline",
		Long: `Generate a packet workload and a traversal order once, then hash
every packet with the crypto/md5 baseline followed by each selected
candidate, reporting average latency and the delta against the baseline.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.configPath != "" {
				fc, err := loadConfigFile(cfg.configPath)
				if err != nil {
					return err
				}

				cfg.applyFile(fc, cmd.Flags().Changed)
			}

			return runBenchmark(cmd.Context(), logger, cfg, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.packets, "packets", cfg.packets,
		"Number of packets to generate")
	flags.IntVar(&cfg.minSize, "min-size", cfg.minSize,
		"Minimum packet size in bytes")
	flags.IntVar(&cfg.maxSize, "max-size", cfg.maxSize,
		"Maximum packet size in bytes (exclusive)")
	flags.Int64Var(&cfg.seed, "seed", cfg.seed,
		"Random seed (0 = use current time)")
	flags.StringSliceVar(&cfg.kernels, "kernels", cfg.kernels,
		"Kernels to benchmark ("+strings.Join(kernel.Names(), ",")+")")
	flags.StringSliceVar(&cfg.oracles, "oracles", cfg.oracles,
		"Extra library candidates ("+strings.Join(harness.OracleNames(), ",")+")")
	flags.BoolVar(&cfg.verify, "verify", cfg.verify,
		"Check every candidate digest against the baseline (untimed)")
	flags.StringVar(&cfg.format, "format", cfg.format,
		"Output format: console, markdown, json")
	flags.StringVar(&cfg.configPath, "config", "",
		"YAML file with run settings; explicit flags take precedence")

	return cmd
}

func newKernelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kernels",
		Short: "List available compression kernels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, k := range kernel.All() {
				fmt.Fprintf(w, "%-10s %s\n", k.Name, k.Description)
			}

			return nil
		},
	}
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	cfg runConfig,
	w io.Writer,
) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	wcfg := workload.Config{
		Count:   cfg.packets,
		MinSize: cfg.minSize,
		MaxSize: cfg.maxSize,
		Seed:    seed,
	}
	if err := wcfg.Validate(); err != nil {
		return fmt.Errorf("workload: %w", err)
	}

	candidates, cleanup, err := harness.Candidates(cfg.kernels, cfg.oracles)
	if err != nil {
		return fmt.Errorf("select candidates: %w", err)
	}
	defer cleanup()

	logger.InfoContext(ctx, "starting benchmark",
		slog.Int("packets", cfg.packets),
		slog.Int("min_size", cfg.minSize),
		slog.Int("max_size", cfg.maxSize),
		slog.Int64("seed", seed),
		slog.Any("kernels", cfg.kernels),
		slog.Any("oracles", cfg.oracles),
		slog.Bool("verify", cfg.verify),
	)

	// Step 1: Generate the packets and the shared traversal order.
	genStart := time.Now()
	gen := workload.NewGenerator(wcfg)
	packets := gen.Packets()
	order := gen.Permutation(len(packets))

	fingerprint, err := workload.Fingerprint(packets, order)
	if err != nil {
		return fmt.Errorf("fingerprint workload: %w", err)
	}

	summary := workload.Summarize(packets, seed)

	logger.InfoContext(ctx, "workload generated",
		slog.Int("packets", summary.Packets),
		slog.Uint64("bytes", summary.TotalBytes),
		slog.String("fingerprint", fingerprint),
		slog.Duration("took", time.Since(genStart)),
	)

	// Step 2: Measure every candidate, baseline first.
	session := harness.NewSession(packets, order, cfg.verify, logger)

	results, err := session.Run(ctx, candidates)
	if err != nil {
		return fmt.Errorf("run session: %w", err)
	}

	// Step 3: Report.
	out := harness.Summary{
		Host:        harness.DetectHost(),
		Workload:    summary,
		Fingerprint: fingerprint,
		Results:     results,
	}

	switch cfg.format {
	case formatJSON:
		err = report.GenerateJSON(w, out)
	case formatMarkdown:
		err = report.Generate(w, out)
	default:
		err = report.Console(w, results)
	}

	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	var mismatched []string
	for _, r := range results {
		if r.Mismatches > 0 {
			mismatched = append(mismatched, r.Candidate)
		}
	}

	if len(mismatched) > 0 {
		return fmt.Errorf("digest mismatch against baseline: %s",
			strings.Join(mismatched, ", "))
	}

	logger.InfoContext(ctx, "benchmark complete")

	return nil
}
