package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// LedgerSheetTitle names the sheet created in a new spreadsheet.
const LedgerSheetTitle = "Ledger"

// Writer publishes reports to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// ledgerSheet identifies the sheet the ledger is written to.
type ledgerSheet struct {
	spreadsheetID string
	title         string
	sheetID       int64
}

// rangeFor addresses a1 (e.g. "A1" or "A:Z") on the ledger sheet.
func (l ledgerSheet) rangeFor(a1 string) string {
	return fmt.Sprintf("'%s'!%s", l.title, a1)
}

// NewWriter creates a Google Sheets writer authenticated from config.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return newWriter(srv, config, logger), nil
}

func newWriter(srv *sheets.Service, config Config, logger *slog.Logger) *Writer {
	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}
}

// Write replaces the ledger sheet contents with the report.
func (w *Writer) Write(ctx context.Context, report Report) error {
	w.logger.Info("Starting ledger export",
		"expenses", len(report.Rows),
		"start", report.DateRange.Start.Format("2006-01-02"),
		"end", report.DateRange.End.Format("2006-01-02"))

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	call := func(op func() error) error {
		return common.WithRetry(ctx, func() error { return retryable(op()) }, retryOpts)
	}

	var sheet ledgerSheet
	if err := call(func() (err error) {
		sheet, err = w.ledgerSheet(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if err := call(func() error { return w.clearSheet(ctx, sheet) }); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := report.Values()
	if err := call(func() error { return w.writeData(ctx, sheet, values) }); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err := call(func() error { return w.applyFormatting(ctx, sheet, values) })
		if err != nil {
			// Formatting is cosmetic.
			w.logger.Warn("Failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("Ledger export completed",
		"spreadsheet_id", sheet.spreadsheetID,
		"rows_written", len(values))
	return nil
}

// retryable marks rate limiting and server errors from the API as retryable.
func retryable(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError) {
		return &common.RetryableError{Err: err, Retryable: true}
	}
	return err
}

// createSheetsService authenticates with a service account key when one is
// configured, otherwise with the OAuth2 refresh token.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// ledgerSheet returns the first sheet of the configured spreadsheet, or
// creates a new spreadsheet with a single ledger sheet.
func (w *Writer) ledgerSheet(ctx context.Context) (ledgerSheet, error) {
	if w.config.SpreadsheetID != "" {
		existing, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return ledgerSheet{}, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		if len(existing.Sheets) == 0 || existing.Sheets[0].Properties == nil {
			return ledgerSheet{}, fmt.Errorf("spreadsheet %s has no sheets", w.config.SpreadsheetID)
		}
		props := existing.Sheets[0].Properties
		return ledgerSheet{spreadsheetID: existing.SpreadsheetId, title: props.Title, sheetID: props.SheetId}, nil
	}

	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: LedgerSheetTitle}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return ledgerSheet{}, fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("Created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	sheet := ledgerSheet{spreadsheetID: created.SpreadsheetId, title: LedgerSheetTitle}
	if len(created.Sheets) > 0 && created.Sheets[0].Properties != nil {
		sheet.sheetID = created.Sheets[0].Properties.SheetId
	}
	return sheet, nil
}

func (w *Writer) clearSheet(ctx context.Context, sheet ledgerSheet) error {
	_, err := w.service.Spreadsheets.Values.
		Clear(sheet.spreadsheetID, sheet.rangeFor("A:Z"), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	return err
}

// writeData writes values in BatchSize row chunks.
func (w *Writer) writeData(ctx context.Context, sheet ledgerSheet, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))
		batch := values[i:end]

		_, err := w.service.Spreadsheets.Values.
			Update(sheet.spreadsheetID, sheet.rangeFor(fmt.Sprintf("A%d", i+1)), &sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("Wrote batch", "start_row", i+1, "rows", len(batch))
	}
	return nil
}

func (w *Writer) applyFormatting(ctx context.Context, sheet ledgerSheet, values [][]any) error {
	_, err := w.service.Spreadsheets.
		BatchUpdate(sheet.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: ledgerFormatting(sheet.sheetID, values),
		}).
		Context(ctx).Do()
	return err
}

// ledgerFormatting bolds the title, section headings and column headers laid
// out by Report.Values, formats the amount column as currency and sizes the
// columns to fit.
func ledgerFormatting(sheetID int64, values [][]any) []*sheets.Request {
	bold := func(row int64, size int64) *sheets.Request {
		return &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    row,
					EndRowIndex:      row + 1,
					StartColumnIndex: 0,
					EndColumnIndex:   ledgerColumns,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true, FontSize: size},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		}
	}

	requests := []*sheets.Request{bold(0, 14)}
	for i, row := range values {
		if i > 0 && isHeadingRow(row) {
			requests = append(requests, bold(int64(i), 10))
		}
	}

	requests = append(requests,
		&sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      int64(len(values)),
					StartColumnIndex: amountColumn,
					EndColumnIndex:   amountColumn + 1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: "$#,##0.00"},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		&sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   ledgerColumns,
				},
			},
		},
	)
	return requests
}

const (
	// ledgerColumns is the width of the expense detail table.
	ledgerColumns = 7
	// amountColumn holds amounts in the breakdown and detail tables.
	amountColumn = 2
)

// isHeadingRow reports whether row is a section heading ("Summary") or a
// column header row ("Category", "Count", "Amount").
func isHeadingRow(row []any) bool {
	if len(row) == 1 {
		return true
	}
	if len(row) == 0 {
		return false
	}
	first, _ := row[0].(string)
	return first == "Category" || first == "Date"
}

var _ ReportWriter = (*Writer)(nil)
