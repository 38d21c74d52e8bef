package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against db and returns everything it printed.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--db", db, "--quiet", "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, filepath.Join(t.TempDir(), "tally.db"), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tally version dev")
}

func TestMigrateStatus(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tally.db")
	out, err := run(t, db, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema version")
}

func TestRulesLifecycle(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tally.db")

	out, err := run(t, db, "rules", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No rules yet")

	out, err = run(t, db, "rules", "add", "SHELL", "Fuel/Mileage Expenses", "--priority", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Created rule 1: SHELL → Fuel/Mileage Expenses")

	_, err = run(t, db, "rules", "add", "^ADOBE", "Software", "--match", "regex", "--auto-approve")
	require.NoError(t, err)

	out, err = run(t, db, "rules", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Fuel/Mileage Expenses")
	assert.Contains(t, out, "auto-approve")
	assert.Less(t, strings.Index(out, "SHELL"), strings.Index(out, "^ADOBE"),
		"higher priority rule is listed first")

	out, err = run(t, db, "rules", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted rule 1")

	_, err = run(t, db, "rules", "delete", "1")
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
}

func TestRulesAddRejectsBadInput(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tally.db")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown match type", []string{"rules", "add", "SHELL", "Fuel", "--match", "fuzzy"}},
		{"invalid regex", []string{"rules", "add", "([", "Fuel", "--match", "regex"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, db, tt.args...)
			var userErr *common.UserError
			require.ErrorAs(t, err, &userErr)
		})
	}
}

func TestTransactionsListEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tally.db")

	out, err := run(t, db, "transactions", "list", "--status", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "No transactions found")

	_, err = run(t, db, "transactions", "list", "--status", "bogus")
	assert.Error(t, err)
}

func TestApproveUnknownTransaction(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tally.db")

	_, err := run(t, db, "approve", "missing", "Office Supplies", "--reviewer", "sam")
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
}

func TestChannelsImportMatchAndFees(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "tally.db")
	file := filepath.Join(dir, "channels.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"orders": [{
			"id": "order-1",
			"channel": "AMAZON",
			"channel_order_id": "111-222",
			"order_date": "2025-03-10T00:00:00Z",
			"total_amount": "59.98",
			"fees": [{"fee_type": "referral", "fee_description": "Referral fee", "amount": "9.00"}]
		}],
		"invoices": [
			{"id": "inv-1", "invoice_number": "1001", "invoice_date": "2025-03-08T00:00:00Z", "total": "59.98"}
		]
	}`), 0o600))

	out, err := run(t, db, "channels", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 orders (0 already known) and 1 invoices")

	out, err = run(t, db, "channels", "list", "--unmatched")
	require.NoError(t, err)
	assert.Contains(t, out, "111-222")
	assert.Contains(t, out, "1 orders (0 pending)  revenue $59.98  fees $9.00  net $50.98")

	out, err = run(t, db, "channels", "list", "--channel", "ecwid")
	require.NoError(t, err)
	assert.NotContains(t, out, "111-222")
	assert.Contains(t, out, "0 orders (0 pending)  revenue $0.00")

	out, err = run(t, db, "channels", "match", "order-1")
	require.NoError(t, err)
	assert.Contains(t, out, "linked to invoice inv-1")

	out, err = run(t, db, "channels", "fees", "order-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Processed: 1 of 1")

	out, err = run(t, db, "channels", "fees", "order-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Processed: 0 of 0")
}

func TestExportWindow(t *testing.T) {
	cmd := exportCmd(&app{})
	sheetsCmd, _, err := cmd.Find([]string{"sheets"})
	require.NoError(t, err)

	require.NoError(t, sheetsCmd.Flags().Set("year", "2024"))
	window, err := exportWindow(sheetsCmd)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), window.End)

	require.NoError(t, sheetsCmd.Flags().Set("start", "2024-06-01"))
	window, err = exportWindow(sheetsCmd)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), window.Start)

	require.NoError(t, sheetsCmd.Flags().Set("end", "2024-05-01"))
	_, err = exportWindow(sheetsCmd)
	assert.Error(t, err)
}

func TestCheckRule(t *testing.T) {
	assert.NoError(t, checkRule(&model.TransactionRule{MatchType: model.MatchContains, MerchantPattern: "(["}))
	assert.Error(t, checkRule(&model.TransactionRule{MatchType: model.MatchRegex, MerchantPattern: "(["}))
	assert.Error(t, checkRule(&model.TransactionRule{MatchType: "glob"}))
}

func TestChannelsImportIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "tally.db")
	file := filepath.Join(dir, "channels.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"orders": [{"channel": "ECWID", "channel_order_id": "42", "order_date": "2025-04-01T00:00:00Z", "total_amount": "10.00"}],
		"invoices": [{"id": "inv-9", "invoice_date": "2025-04-01T00:00:00Z", "total": "10.00"}]
	}`), 0o600))

	_, err := run(t, db, "channels", "import", file)
	require.NoError(t, err)

	out, err := run(t, db, "channels", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 orders (1 already known) and 0 invoices")
}

func TestBackupCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "tally.db")

	out, err := run(t, db, "backup", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No backups")

	out, err = run(t, db, "backup", "year-end", "--reason", "closing 2024")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "backups", "year-end.db"))

	out, err = run(t, db, "backup", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "year-end")
	assert.Contains(t, out, "closing 2024")
}
