package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/ofx"
	"github.com/Veraticus/tally/internal/plaid"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/spf13/cobra"
)

const dateFlagLayout = "2006-01-02"

func importCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Ingest bank transactions",
	}

	plaidCmd := &cobra.Command{
		Use:   "plaid",
		Short: "Fetch accounts and transactions from Plaid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := windowFromFlags(cmd, 30)
			if err != nil {
				return err
			}
			client, err := plaid.NewClient(a.cfg.PlaidClientConfig())
			if err != nil {
				return userError(err)
			}
			return a.withEngine(cmd, func(ctx context.Context, _ *storage.SQLiteStorage, e *engine.Engine) error {
				cmd.Println(cli.FormatTitle("Importing transactions from Plaid"))
				result, err := e.SyncFeed(ctx, client, window)
				printIngest(cmd, result)
				return err
			})
		},
	}
	plaidCmd.Flags().Int("days", 30, "days of history to fetch when --start is not given")
	plaidCmd.Flags().String("start", "", "first day to fetch (YYYY-MM-DD)")
	plaidCmd.Flags().String("end", "", "last day to fetch (YYYY-MM-DD, default today)")

	ofxCmd := &cobra.Command{
		Use:   "ofx FILE...",
		Short: "Import OFX/QFX statement files",
		Long: `Import transactions from OFX or QFX files exported from your bank.
Re-importing an overlapping statement only adds transactions not seen before.

Examples:
  tally import ofx ~/Downloads/chase_jan_2024.qfx
  tally import ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}
			parser := ofx.NewParser()
			return a.withEngine(cmd, func(ctx context.Context, _ *storage.SQLiteStorage, e *engine.Engine) error {
				var total engine.IngestResult
				for _, path := range files {
					st, err := parseOFXFile(parser, path)
					if err != nil {
						slog.Error("Failed to parse OFX file", "file", path, "error", err)
						total.Errors = append(total.Errors, engine.ItemError{ID: filepath.Base(path), Err: err})
						continue
					}
					result, err := e.SyncFeed(ctx, st, service.DateRange{})
					total.Inserted += result.Inserted
					total.Skipped += result.Skipped
					total.InsertedIDs = append(total.InsertedIDs, result.InsertedIDs...)
					total.Errors = append(total.Errors, result.Errors...)
					if err != nil {
						printIngest(cmd, total)
						return err
					}
				}
				printIngest(cmd, total)
				return nil
			})
		},
	}

	cmd.AddCommand(plaidCmd, ofxCmd)
	return cmd
}

func parseOFXFile(parser *ofx.Parser, path string) (*ofx.Statement, error) {
	f, err := os.Open(path) // #nosec G304 -- user-supplied statement file
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parser.Parse(f)
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err != nil {
			slog.Warn("No files found matching pattern", "pattern", pattern)
			continue
		}
		files = append(files, pattern)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// windowFromFlags reads --start/--end, defaulting to the last days days.
func windowFromFlags(cmd *cobra.Command, days int) (service.DateRange, error) {
	if d, err := cmd.Flags().GetInt("days"); err == nil && d > 0 {
		days = d
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if s, _ := cmd.Flags().GetString("end"); s != "" {
		t, err := time.Parse(dateFlagLayout, s)
		if err != nil {
			return service.DateRange{}, fmt.Errorf("invalid --end: %w", err)
		}
		end = t
	}

	start := end.AddDate(0, 0, -days)
	if s, _ := cmd.Flags().GetString("start"); s != "" {
		t, err := time.Parse(dateFlagLayout, s)
		if err != nil {
			return service.DateRange{}, fmt.Errorf("invalid --start: %w", err)
		}
		start = t
	}

	if start.After(end) {
		return service.DateRange{}, fmt.Errorf("--start %s is after --end %s", start.Format(dateFlagLayout), end.Format(dateFlagLayout))
	}
	return service.DateRange{Start: start, End: end}, nil
}

func printIngest(cmd *cobra.Command, result engine.IngestResult) {
	content := fmt.Sprintf("New transactions: %d\nAlready known:    %d\nFailed:           %d",
		result.Inserted, result.Skipped, len(result.Errors))
	cmd.Println(cli.RenderBox("Import Summary", content))
	for _, ie := range result.Errors {
		cmd.Println(cli.FormatWarning(ie.Error()))
	}
}
