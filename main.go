package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dryRun     bool
	analyze    bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pgporter [config.toml]",
	Short: "SQL Server, MySQL, and SQLite to PostgreSQL migration tool",
	Long: `pgporter migrates the schema and data of a SQL Server, MySQL, or
SQLite database into PostgreSQL. It extracts the source metadata,
converts types, defaults, and view definitions, creates the target
schema, copies table data in batches, and finishes with compatibility
and performance recommendations.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Version = versionString()
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to migration TOML config file")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "extract and convert without touching the target")
	rootCmd.Flags().BoolVar(&analyze, "analyze", false, "print the compatibility and performance report and exit")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log batch-level progress")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// debugf logs only when --verbose is set (or logging.verbose in the
// config file).
func debugf(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Resolve config path: positional arg takes precedence over --config flag
	cfgPath := configPath
	if len(args) > 0 {
		cfgPath = args[0]
	}
	if cfgPath == "" {
		return fmt.Errorf("config file required: pgporter <config.toml> or pgporter --config <config.toml>")
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if cfg.Logging.Verbose {
		verbose = true
	}

	ctx := context.Background()
	start := time.Now()

	source, err := newSourceConnector(cfg)
	if err != nil {
		return err
	}
	log.Printf("connecting to %s source...", source.Name())
	if err := source.Connect(ctx); err != nil {
		return fmt.Errorf("connect source: %w", err)
	}
	defer source.Close()

	if analyze {
		return runAnalysis(ctx, source)
	}

	target := newPGTarget(cfg.Target)
	if !dryRun {
		log.Printf("connecting to PostgreSQL target...")
		if err := target.Connect(ctx); err != nil {
			return fmt.Errorf("connect target: %w", err)
		}
		defer target.Close()
	}

	audit := newAuditLog(cfg.Logging.AuditPath)
	log.Printf("starting run %s (audit trail: %s)", audit.runID, cfg.Logging.AuditPath)

	m := &migration{
		source: source,
		target: target,
		cfg:    cfg,
		audit:  audit,
		dryRun: dryRun,
	}
	if err := m.run(ctx); err != nil {
		return err
	}

	log.Printf("migration completed in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

// runAnalysis extracts metadata and prints the advisory report without
// connecting to, or writing anything in, the target.
func runAnalysis(ctx context.Context, source SourceConnector) error {
	snap, err := source.ExtractMetadata(ctx)
	if err != nil {
		return fmt.Errorf("metadata extraction: %w", err)
	}
	d := source.Dialect()
	compat := analyzeCompatibility(snap, d)
	perf := analyzeSchemaPerformance(snap, d)
	renderAnalysisReport(os.Stdout, compat, perf, tuningRecommendations())
	return nil
}
