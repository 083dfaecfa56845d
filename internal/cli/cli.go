package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"locale-qa/internal/compare"
	"locale-qa/internal/config"
	"locale-qa/internal/history"
	"locale-qa/internal/parser"
	"locale-qa/internal/paths"
	"locale-qa/internal/result"
	"locale-qa/internal/worker"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:          "locale-qa",
		Short:        "Compare localizations against their reference files",
		Long:         "Diffs localized resource files (.dtd, .properties, .ini, .inc) against the reference, reports missing, obsolete and broken strings, and optionally writes merged files.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(trendCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <locale>...",
		Short: "Compare one or more locales against the reference tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refDir, _ := cmd.Flags().GetString("reference")
			l10nBase, _ := cmd.Flags().GetString("l10n")
			mergeDir, _ := cmd.Flags().GetString("merge")
			format, _ := cmd.Flags().GetString("format")
			fileStats, _ := cmd.Flags().GetBool("file-stats")
			extraChecks, _ := cmd.Flags().GetStringSlice("checks")
			return runCompare(refDir, l10nBase, mergeDir, format, fileStats, extraChecks, args)
		},
	}

	cmd.Flags().String("reference", "", "Directory holding the reference files")
	cmd.Flags().String("l10n", "", "Base directory holding one subdirectory per locale")
	cmd.Flags().String("merge", "", "Write merged files under this directory")
	cmd.Flags().String("format", "text", "Output format: text or json")
	cmd.Flags().Bool("file-stats", false, "Collect per-file statistics")
	cmd.Flags().StringSlice("checks", nil, "Extra check sets to enable (e.g. android)")
	cobra.CheckErr(cmd.MarkFlagRequired("reference"))
	cobra.CheckErr(cmd.MarkFlagRequired("l10n"))

	return cmd
}

func trendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend <locale> <category>",
		Short: "Show recent history of one summary counter for a locale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return runTrend(args[0], args[1], limit)
		},
	}
	cmd.Flags().Int("limit", 10, "Number of runs to show")
	return cmd
}

func runCompare(refDir, l10nBase, mergeDir, format string, fileStats bool, extraChecks []string, locales []string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	registry := parser.NewRegistry(cfg.SourceEncoding)

	log.Info().
		Str("reference", refDir).
		Str("l10n", l10nBase).
		Strs("locales", locales).
		Msg("Starting comparison")

	pool := worker.NewPool(cfg.WorkerCount, func(ctx context.Context, locale string) (*result.Observer, error) {
		return compareLocale(registry, refDir, l10nBase, mergeDir, locale, extraChecks, fileStats)
	})

	total := result.NewObserver(nil, fileStats)
	failed := false
	for _, task := range pool.Execute(ctx, locales) {
		if task.Err != nil {
			failed = true
			continue
		}
		total.Merge(task.Result)
	}

	out, err := total.Serialize(format)
	if err != nil {
		return err
	}
	fmt.Println(out)

	if cfg.DatabaseURL != "" {
		if err := recordRun(ctx, cfg.DatabaseURL, total.Summary); err != nil {
			log.Error().Err(err).Msg("Failed to record run history")
		}
	}

	if failed {
		return errors.New("comparison did not finish for all locales")
	}
	for _, row := range total.DashboardRows() {
		if row.Result == "failure" {
			return fmt.Errorf("locale %s failed: %d errors, %d missing", row.Locale, row.Errors, row.Missing)
		}
	}
	return nil
}

// compareLocale runs one locale end to end with a private observer, so
// workers never contend on shared state.
func compareLocale(registry *parser.Registry, refDir, l10nBase, mergeDir, locale string, extraChecks []string, fileStats bool) (*result.Observer, error) {
	observer := result.NewObserver(nil, fileStats)
	comparer := compare.New(registry, []*result.Observer{observer}, nil)

	pairing, err := paths.PairLocale(refDir, filepath.Join(l10nBase, locale), locale, registry.Extensions())
	if err != nil {
		return nil, err
	}

	for _, pair := range pairing.Pairs {
		mergePath := ""
		if mergeDir != "" {
			mergePath = filepath.Join(mergeDir, locale, filepath.FromSlash(pair.L10n.Path))
		}
		if !pair.HasL10n {
			err = comparer.Add(pair.Ref, pair.L10n)
		} else {
			err = comparer.Compare(pair.Ref, pair.L10n, mergePath, extraChecks)
		}
		if err != nil {
			if errors.Is(err, parser.ErrNoParser) {
				log.Debug().Str("file", pair.Ref.Path).Msg("No parser for file, skipping")
				continue
			}
			return nil, err
		}
	}
	for _, obsolete := range pairing.Obsolete {
		comparer.Remove(obsolete)
	}

	return observer, nil
}

func runTrend(locale, category string, limit int) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set; history is disabled")
	}
	store, pool, err := openHistory(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	points, err := store.LocaleTrend(ctx, locale, category, limit)
	if err != nil {
		return err
	}
	for _, p := range points {
		fmt.Printf("%s\t%d\n", p.RunAt.Format(time.RFC3339), p.Amount)
	}
	return nil
}

func recordRun(ctx context.Context, databaseURL string, summary map[string]map[string]int) error {
	store, pool, err := openHistory(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	runID := fmt.Sprintf("%d-%s", time.Now().Unix(), strings.Join(sortedLocales(summary), ","))
	return store.RecordRun(ctx, runID, summary)
}

func openHistory(ctx context.Context, databaseURL string) (*history.Store, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	store := history.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool, nil
}

func sortedLocales(summary map[string]map[string]int) []string {
	locales := make([]string, 0, len(summary))
	for locale := range summary {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
