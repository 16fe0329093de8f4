package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"phrasegen/internal/config"
	"phrasegen/internal/generator"
	"phrasegen/internal/grammar"
	"phrasegen/internal/logging"
	"phrasegen/internal/metrics"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "phrasegen [count]",
		Short: "Generate random phrases from a grammar file",
		Long: `phrasegen reads a grammar of {...} rule blocks and prints random phrases
built by expanding the first rule. The grammar path is taken from --grammar,
the config file, or the first line of standard input.`,
		Example: `  phrasegen 5 --grammar poetic_sentence.g
  echo poetic_sentence.g | phrasegen 3
  phrasegen 100 -g assignment.g --seed 42 --workers 4 --coverage`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("grammar", "g", "", "Path to the grammar file (default: read from stdin)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	flags := rootCmd.Flags()
	flags.IntP("count", "n", 1, "Number of phrases to generate")
	flags.Int64("seed", 0, "Random seed (0 = time based)")
	flags.Int("max-depth", generator.DefaultMaxDepth, "Maximum nonterminal nesting; deeper derivations fail as runaway recursion (0 = unlimited)")
	flags.Int("workers", 1, "Number of concurrent generators")
	flags.Bool("strict", false, "Fail on rules without alternatives instead of using their name line")
	flags.Bool("tree", false, "Print the derivation tree after each phrase")
	flags.Bool("coverage", false, "Log production coverage after generation")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file")

	rootCmd.AddCommand(newRulesCmd(), newVersionCmd())
	return rootCmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	path, err := grammarPath(cmd, cfg)
	if err != nil {
		return err
	}

	table, err := grammar.NewLoader(logger).LoadFile(path)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	recorder.ObserveGrammar(table)

	genOpts := []generator.Option{
		generator.WithMaxDepth(cfg.MaxDepth),
		generator.WithStrict(cfg.Strict),
		generator.WithLogger(logger),
	}
	var coverage *generator.Coverage
	if cfg.Coverage {
		coverage = generator.NewCoverage(table)
		genOpts = append(genOpts, generator.WithCoverage(coverage))
	}

	trees, err := generator.GenerateTrees(cmd.Context(), table, cfg.Count, generator.BatchOptions{
		Workers: cfg.Workers,
		Seed:    cfg.Seed,
		Options: genOpts,
	})
	if err != nil {
		recorder.ObserveError(err)
		writeMetrics(cfg, recorder, logger)
		return err
	}
	recorder.ObserveTrees(trees)

	out := cmd.OutOrStdout()
	for _, tree := range trees {
		fmt.Fprintln(out, tree.Value)
		if cfg.Tree {
			fmt.Fprintln(out, tree.String())
		}
	}

	if coverage != nil {
		stats := coverage.Stats()
		recorder.ObserveCoverage(stats)
		logger.Info("production coverage",
			"covered", stats.Covered,
			"total", stats.Total,
			"percent", fmt.Sprintf("%.1f", stats.Percent))
		for _, key := range coverage.Uncovered() {
			logger.Debug("uncovered production", "expansion", key)
		}
	}

	writeMetrics(cfg, recorder, logger)
	return nil
}

// resolveConfig loads the config file if given and applies flag overrides
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	overrideString(flags, "grammar", &cfg.Grammar)
	overrideString(flags, "log-level", &cfg.LogLevel)
	overrideString(flags, "metrics-file", &cfg.MetricsFile)
	overrideInt(flags, "count", &cfg.Count)
	overrideInt(flags, "max-depth", &cfg.MaxDepth)
	overrideInt(flags, "workers", &cfg.Workers)
	overrideBool(flags, "strict", &cfg.Strict)
	overrideBool(flags, "tree", &cfg.Tree)
	overrideBool(flags, "coverage", &cfg.Coverage)
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}

	if len(args) > 0 {
		count, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid phrase count %q", args[0])
		}
		cfg.Count = count
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}

func overrideInt(flags *pflag.FlagSet, name string, dst *int) {
	if flags.Changed(name) {
		*dst, _ = flags.GetInt(name)
	}
}

func overrideBool(flags *pflag.FlagSet, name string, dst *bool) {
	if flags.Changed(name) {
		*dst, _ = flags.GetBool(name)
	}
}

// grammarPath returns the configured grammar path or reads one line from stdin
func grammarPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if cfg.Grammar != "" {
		return cfg.Grammar, nil
	}
	return readPath(cmd.InOrStdin())
}

func readPath(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read grammar path: %w", err)
	}
	path := strings.TrimRight(line, "\r\n")
	if path == "" {
		return "", errors.New("no grammar path given")
	}
	return path, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	// Validate has already checked the level
	level, _ := cfg.Level()
	return logging.New(cmd.ErrOrStderr(), level)
}

func writeMetrics(cfg *config.Config, recorder *metrics.Recorder, logger *slog.Logger) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Error("failed to write metrics", "path", cfg.MetricsFile, "error", err)
	}
}
