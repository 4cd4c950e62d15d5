package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tattletale/internal/config"
	"tattletale/internal/engine"
	"tattletale/internal/export"
	"tattletale/internal/report"
)

var (
	// Global flags
	ditFiles    []string
	potFiles    []string
	targetFiles []string
	outputDir   string
	configPath  string
	mmapFlag    int64
	parallel    bool
	workers     int
	topN        int
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd analyzes the given inputs and prints the terminal summary.
var rootCmd = &cobra.Command{
	Use:   "tattletale",
	Short: "tattletale - NTDS dumpfile analysis and password-audit reporting",
	Long: `tattletale ingests NTDS export dumps, correlates them against hashcat
potfiles and high-value-target lists, deduplicates account/hash pairs, and
prints aggregate password-hygiene statistics.

Provide one or more DIT export files with -d. Potfiles and target lists are
optional; missing ones are skipped with a warning. With -o, shared-hash CSV
and user:pass TXT exports are written to the given directory.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd)

		zapCfg := zap.NewProductionConfig()
		level := zapcore.WarnLevel
		if parsed, perr := zapcore.ParseLevel(cfg.Logging.Level); perr == nil {
			level = parsed
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runAnalyze,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&ditFiles, "ditfiles", "d", nil, "NTDS export file(s)")
	rootCmd.PersistentFlags().StringSliceVarP(&potFiles, "potfiles", "p", nil, "hashcat potfile(s)")
	rootCmd.PersistentFlags().StringSliceVarP(&targetFiles, "targetfiles", "t", nil, "high-value-target list file(s)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "directory for CSV/TXT exports")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "tattletale.yaml", "path to YAML config file")
	rootCmd.PersistentFlags().Int64Var(&mmapFlag, "mmap-threshold", 0, "mmap threshold in bytes; 0 disables mmap")
	rootCmd.PersistentFlags().BoolVar(&parallel, "parallel", false, "parse input files concurrently")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "parse worker pool size (0 = one per CPU)")
	rootCmd.PersistentFlags().IntVar(&topN, "top", 0, "number of reused passwords to show")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(watchCmd)
}

// applyFlagOverrides lets explicitly set flags win over config file values.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("mmap-threshold") {
		cfg.IO.MmapThresholdBytes = mmapFlag
	}
	if flags.Changed("parallel") {
		cfg.Engine.Parallel = parallel
	}
	if flags.Changed("workers") {
		cfg.Engine.Workers = workers
	}
	if flags.Changed("top") {
		cfg.Report.TopPasswords = topN
	}
	if flags.Changed("output") {
		cfg.Output = outputDir
	}
}

// effectiveThreshold maps the "0 disables mmap" convention to a threshold no
// file can reach.
func effectiveThreshold() int64 {
	if cfg.IO.MmapThresholdBytes == 0 {
		return math.MaxInt64
	}
	return cfg.IO.MmapThresholdBytes
}

// verifyInputs enforces that DIT files exist (fatal) and drops missing
// potfiles and target files with a warning (non-fatal).
func verifyInputs() (pots, tgts []string, err error) {
	if len(ditFiles) == 0 {
		return nil, nil, fmt.Errorf("no DIT files provided (-d/--ditfiles)")
	}
	for _, path := range ditFiles {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, nil, fmt.Errorf("DIT file not found: %s", path)
		}
	}
	for _, path := range potFiles {
		if _, statErr := os.Stat(path); statErr != nil {
			logger.Warn("potfile not found, continuing", zap.String("path", path))
			continue
		}
		pots = append(pots, path)
	}
	for _, path := range targetFiles {
		if _, statErr := os.Stat(path); statErr != nil {
			logger.Warn("target file not found, continuing", zap.String("path", path))
			continue
		}
		tgts = append(tgts, path)
	}
	return pots, tgts, nil
}

func load(cmd *cobra.Command, pots, tgts []string) (*engine.Engine, error) {
	eng := engine.New().WithLogger(logger)
	if cfg.Engine.Parallel {
		return eng, eng.LoadFromFilesParallel(cmd.Context(), ditFiles, pots, tgts, effectiveThreshold(), cfg.Engine.Workers)
	}
	return eng, eng.LoadFromFiles(ditFiles, pots, tgts, effectiveThreshold())
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	pots, tgts, err := verifyInputs()
	if err != nil {
		logger.Error("input validation failed", zap.Error(err))
		os.Exit(2)
	}

	eng, err := load(cmd, pots, tgts)
	if err != nil {
		logger.Error("failed to load inputs", zap.Error(err))
		os.Exit(3)
	}
	if eng.ParseStats != nil {
		logger.Info("load complete",
			zap.Int("credentials", len(eng.Credentials)),
			zap.Int("dit_malformed", eng.ParseStats.DITMalformed),
			zap.Int("pot_malformed", eng.ParseStats.PotMalformed))
	}

	fmt.Println(report.RenderSummaryWithTop(eng, cfg.Report.TopPasswords))

	if cfg.Output != "" {
		writeExports(eng)
	}
	return nil
}

func writeExports(eng *engine.Engine) {
	run, err := export.NewRun(cfg.Output)
	if err != nil {
		logger.Error("failed to prepare output directory", zap.Error(err))
		os.Exit(4)
	}
	if err := run.SaveSharedHashesCSV(eng); err != nil {
		logger.Error("failed to write shared-hash CSV", zap.Error(err))
		os.Exit(5)
	}
	if err := run.SaveUserPassTXT(eng); err != nil {
		logger.Error("failed to write user:pass TXT", zap.Error(err))
		os.Exit(6)
	}
	logger.Info("exports written",
		zap.String("run_id", run.ID),
		zap.String("csv", run.SharedHashesPath()),
		zap.String("txt", run.UserPassPath()))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
