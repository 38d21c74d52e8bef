package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/tally/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
database:
  path: /tmp/tally-test.db
engine:
  duplicate_policy: propagate
  invoice_window_days: 3
review:
  reviewer: kim
`), 0o600))

	t.Setenv("TALLY_PLAID_SECRET", "from-env")
	t.Setenv("TALLY_ENGINE_AUTO_APPROVE_REVIEWER", "rules@tally")

	v := viper.New()
	require.NoError(t, Init(v, file))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tally-test.db", cfg.Database.Path)
	assert.Equal(t, "/tmp/backups", cfg.Database.BackupDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "sandbox", cfg.Plaid.Environment)
	assert.Equal(t, "from-env", cfg.Plaid.Secret)
	assert.Equal(t, "kim", cfg.Review.Reviewer)

	opts, err := cfg.EngineOptions()
	require.NoError(t, err)
	assert.Equal(t, common.PolicyPropagate, opts.DuplicatePolicy)
	assert.Equal(t, 3, opts.InvoiceWindowDays)
	assert.Equal(t, "rules@tally", opts.AutoApproveReviewer)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	err := Init(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestEngineOptions_Invalid(t *testing.T) {
	_, err := Config{Engine: EngineConfig{DuplicatePolicy: "explode"}}.EngineOptions()
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = Config{Engine: EngineConfig{InvoiceWindowDays: -1}}.EngineOptions()
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	opts, err := Config{}.EngineOptions()
	require.NoError(t, err)
	assert.Equal(t, common.PolicyDegrade, opts.DuplicatePolicy)
	assert.Equal(t, 7, opts.InvoiceWindowDays)
}

func TestSheetsWriterConfig(t *testing.T) {
	_, err := Config{}.SheetsWriterConfig()
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	cfg, err := Config{Sheets: SheetsConfig{ServiceAccountPath: "/keys/sa.json", SpreadsheetID: "abc"}}.SheetsWriterConfig()
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.SpreadsheetID)
	assert.Equal(t, "Expense Ledger", cfg.SpreadsheetName)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("TALLY_TEST_DIR", "/srv/tally")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "db", "tally.db"), ExpandPath("~/db/tally.db"))
	assert.Equal(t, "/srv/tally/tally.db", ExpandPath("$TALLY_TEST_DIR/tally.db"))
}
