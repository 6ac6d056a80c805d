package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rumor-ml/commons.systems/findash/internal/config"
	"github.com/rumor-ml/commons.systems/findash/internal/dedup"
	"github.com/rumor-ml/commons.systems/findash/internal/domain"
	"github.com/rumor-ml/commons.systems/findash/internal/output"
	"github.com/rumor-ml/commons.systems/findash/internal/rules"
	"github.com/rumor-ml/commons.systems/findash/internal/scanner"
	"github.com/rumor-ml/commons.systems/findash/internal/server"
	"github.com/rumor-ml/commons.systems/findash/internal/statement"
	"github.com/rumor-ml/commons.systems/findash/internal/store"
	"github.com/rumor-ml/commons.systems/findash/internal/ui"
)

const (
	version = "0.1.0"
)

var (
	// Global flags
	versionFlag = flag.Bool("version", false, "Show version")

	// Serve mode
	serveFlag = flag.Bool("serve", false, "Run the dashboard HTTP API")

	// Batch import flags
	inputDir   = flag.String("input", "", "Input directory containing CSV statements")
	dbPath     = flag.String("db", "", "SQLite database path (default: from env)")
	rulesFile  = flag.String("rules", "", "Category rules file (default: embedded rules)")
	outputFile = flag.String("output", "", "Export ledger snapshot to JSON file after import")
	dryRun     = flag.Bool("dry-run", false, "Parse and report without writing")
	verbose    = flag.Bool("verbose", false, "Show detailed import logs")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `findash - Personal finance dashboard and statement importer

Usage:
  findash [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr, `
Examples:
  # Import every CSV statement under a directory
  findash -input ~/statements

  # Preview an import without touching the database
  findash -input ~/statements -dry-run -verbose

  # Import and export the resulting ledger snapshot
  findash -input ~/statements -output ledger.json

  # Run the dashboard API
  findash -serve

`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("findash version %s\n", version)
		os.Exit(0)
	}

	cfg := config.Load()
	if *dbPath != "" {
		cfg.SQLiteDBPath = *dbPath
	}
	if *rulesFile != "" {
		cfg.RulesFile = *rulesFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *serveFlag {
		if err := serve(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *inputDir == "" {
		fmt.Fprintf(os.Stderr, "Error: -input flag is required (or use -serve)\n\n")
		flag.Usage()
		os.Exit(1)
	}

	if err := runImport(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// serve runs the HTTP API until interrupted.
func serve(cfg *config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard API listening", "port", cfg.Port, "db", cfg.SQLiteDBPath)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// parsedFile is the outcome of parsing one scanned statement.
type parsedFile struct {
	path    string
	records []domain.Transaction
}

// runImport scans the input directory, parses every statement, and merges
// the results into the persisted ledger.
func runImport(cfg *config.Config) error {
	ctx := context.Background()

	s := scanner.New(*inputDir)

	if !*verbose {
		ui.Header("Importing Bank Statements")
		ui.Step(1, 4, "Scanning directory")
	} else {
		fmt.Fprintf(os.Stderr, "Scanning directory: %s\n", *inputDir)
	}

	files, err := s.Scan()
	if err != nil {
		return fmt.Errorf("failed to scan directory %s: %w", *inputDir, err)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Found %d statement files\n", len(files))
		for _, f := range files {
			fmt.Fprintf(os.Stderr, "  - %s (account: %s)\n", f.Path, f.Account)
		}
	} else {
		ui.Success(fmt.Sprintf("Found %d statement files", len(files)))
	}

	if len(files) == 0 && !*dryRun {
		return fmt.Errorf("no statement files found in %s\n\nPlease check:\n  - Directory path is correct\n  - Files have the .csv extension\n  - You have read permissions on the directory and files\n\nRun with -verbose to see file discovery details", *inputDir)
	}

	if !*verbose {
		ui.Step(2, 4, "Loading category rules")
	}
	engine, err := loadEngine(cfg.RulesFile)
	if err != nil {
		return err
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d rules (fallback: %s)\n", len(engine.GetRules()), engine.Fallback())
	}

	if !*verbose {
		ui.Step(3, 4, "Parsing statements")
	}
	parsed, err := parseAll(ctx, files, engine, cfg.DefaultAccount)
	if err != nil {
		return err
	}

	var totalRows int
	for _, p := range parsed {
		totalRows += len(p.records)
	}

	if *dryRun {
		fmt.Printf("Dry run complete. Would import %d rows from %d files.\n", totalRows, len(files))
		return nil
	}

	if !*verbose {
		ui.Step(4, 4, "Merging into ledger")
	}

	st, err := store.Open(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("failed to open store %s: %w", cfg.SQLiteDBPath, err)
	}
	defer st.Close()

	ledger, err := st.LoadLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	var totalImported, totalDuplicates int
	for _, p := range parsed {
		merge := dedup.Merge(ledger.Transactions(), p.records, ledger.NextID())
		if err := ledger.Append(merge.Accepted, merge.NextID); err != nil {
			return fmt.Errorf("failed to merge %s: %w", p.path, err)
		}
		totalImported += len(merge.Accepted)
		totalDuplicates += merge.Duplicates

		if *verbose {
			fmt.Fprintf(os.Stderr, "  %s: %d imported, %d duplicates\n",
				p.path, len(merge.Accepted), merge.Duplicates)
		}
	}

	if err := st.SaveLedger(ctx, ledger); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}

	if !*verbose {
		fmt.Fprintf(os.Stderr, "\n")
		ui.Success(fmt.Sprintf("Imported %d transactions (%d duplicates skipped)", totalImported, totalDuplicates))
		ui.Info(fmt.Sprintf("Ledger now holds %d transactions", ledger.Len()))
	} else {
		fmt.Fprintf(os.Stderr, "\nImport complete:\n")
		fmt.Fprintf(os.Stderr, "  Imported: %d\n", totalImported)
		fmt.Fprintf(os.Stderr, "  Duplicates skipped: %d\n", totalDuplicates)
		fmt.Fprintf(os.Stderr, "  Ledger size: %d\n", ledger.Len())
	}

	if *outputFile != "" {
		if err := output.WriteLedgerToFile(ledger, output.WriteOptions{FilePath: *outputFile}); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if *verbose {
			fmt.Printf("\nOutput written to %s\n", *outputFile)
		} else {
			ui.Success(fmt.Sprintf("Output written to %s", *outputFile))
		}
	}

	return nil
}

// parseAll parses every scanned file concurrently. Parsing is pure per
// file, so only the merge that follows needs to be sequential. Results come
// back in scan order regardless of completion order.
func parseAll(ctx context.Context, files []scanner.ScanResult, engine *rules.Engine, defaultAccount string) ([]parsedFile, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	parsed := make([]parsedFile, len(files))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			account := file.Account
			if account == "" {
				account = defaultAccount
			}
			parser, err := statement.NewParser(engine, account)
			if err != nil {
				return fmt.Errorf("failed to build parser for %s: %w", file.Path, err)
			}

			data, err := os.ReadFile(file.Path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file.Path, err)
			}

			records, err := parser.Parse(string(data))
			if err != nil {
				return fmt.Errorf("parse failed for %s: %w", file.Path, err)
			}

			parsed[i] = parsedFile{path: file.Path, records: records}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}

// loadEngine picks the configured rules file or the embedded default set.
func loadEngine(path string) (*rules.Engine, error) {
	if path == "" {
		engine, err := rules.LoadEmbedded()
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded rules: %w", err)
		}
		return engine, nil
	}
	engine, err := rules.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules file: %w", err)
	}
	return engine, nil
}
