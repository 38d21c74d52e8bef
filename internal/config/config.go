package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/plaid"
	"github.com/Veraticus/tally/internal/sheets"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides, e.g.
// TALLY_DATABASE_PATH.
const EnvPrefix = "TALLY"

// Config is the typed application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Plaid    PlaidConfig    `mapstructure:"plaid"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Review   ReviewConfig   `mapstructure:"review"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path      string `mapstructure:"path"`
	BackupDir string `mapstructure:"backup_dir"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PlaidConfig holds Plaid credentials.
type PlaidConfig struct {
	ClientID    string `mapstructure:"client_id"`
	Secret      string `mapstructure:"secret"`
	Environment string `mapstructure:"environment"`
	AccessToken string `mapstructure:"access_token"`
}

// EngineConfig tunes reconciliation.
type EngineConfig struct {
	AutoApproveReviewer string `mapstructure:"auto_approve_reviewer"`
	DuplicatePolicy     string `mapstructure:"duplicate_policy"`
	InvoiceWindowDays   int    `mapstructure:"invoice_window_days"`
}

// ReviewConfig identifies the person reviewing transactions from the CLI.
type ReviewConfig struct {
	Reviewer string `mapstructure:"reviewer"`
}

// SheetsConfig holds Google Sheets export settings.
type SheetsConfig struct {
	ClientID           string `mapstructure:"client_id"`
	ClientSecret       string `mapstructure:"client_secret"`
	RefreshToken       string `mapstructure:"refresh_token"`
	ServiceAccountPath string `mapstructure:"service_account_path"`
	SpreadsheetID      string `mapstructure:"spreadsheet_id"`
	SpreadsheetName    string `mapstructure:"spreadsheet_name"`
}

// SetDefaults registers every key so that environment overrides apply even
// when the config file omits it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "$HOME/.local/share/tally/tally.db")
	v.SetDefault("database.backup_dir", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("plaid.client_id", "")
	v.SetDefault("plaid.secret", "")
	v.SetDefault("plaid.environment", "sandbox")
	v.SetDefault("plaid.access_token", "")
	v.SetDefault("engine.auto_approve_reviewer", "")
	v.SetDefault("engine.duplicate_policy", string(common.PolicyDegrade))
	v.SetDefault("engine.invoice_window_days", engine.DefaultOptions().InvoiceWindowDays)
	v.SetDefault("review.reviewer", "")
	v.SetDefault("sheets.client_id", "")
	v.SetDefault("sheets.client_secret", "")
	v.SetDefault("sheets.refresh_token", "")
	v.SetDefault("sheets.service_account_path", "")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.spreadsheet_name", sheets.DefaultConfig().SpreadsheetName)
}

// Init points v at the config file, or at config.yaml in the standard
// locations when file is empty, and reads it. A missing default file is
// not an error.
func Init(v *viper.Viper, file string) error {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(ExpandPath(file))
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".config", "tally"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Load unmarshals v into a Config and expands paths.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Database.Path = ExpandPath(c.Database.Path)
	c.Database.BackupDir = ExpandPath(c.Database.BackupDir)
	if c.Database.BackupDir == "" {
		c.Database.BackupDir = storage.DefaultBackupDir(c.Database.Path)
	}
	c.Sheets.ServiceAccountPath = ExpandPath(c.Sheets.ServiceAccountPath)
	return c, nil
}

// EngineOptions converts the engine section.
func (c Config) EngineOptions() (engine.Options, error) {
	opts := engine.DefaultOptions()

	policy, err := common.ParseFailurePolicy(c.Engine.DuplicatePolicy)
	if err != nil {
		return opts, err
	}
	opts.DuplicatePolicy = policy
	opts.AutoApproveReviewer = strings.TrimSpace(c.Engine.AutoApproveReviewer)

	if c.Engine.InvoiceWindowDays < 0 {
		return opts, fmt.Errorf("%w: engine.invoice_window_days must not be negative", common.ErrInvalidConfig)
	}
	if c.Engine.InvoiceWindowDays > 0 {
		opts.InvoiceWindowDays = c.Engine.InvoiceWindowDays
	}
	return opts, nil
}

// PlaidClientConfig converts the plaid section.
func (c Config) PlaidClientConfig() plaid.Config {
	return plaid.Config{
		ClientID:    c.Plaid.ClientID,
		Secret:      c.Plaid.Secret,
		Environment: c.Plaid.Environment,
		AccessToken: c.Plaid.AccessToken,
	}
}

// SheetsWriterConfig converts the sheets section, validating it.
func (c Config) SheetsWriterConfig() (sheets.Config, error) {
	cfg := sheets.DefaultConfig()
	cfg.ClientID = c.Sheets.ClientID
	cfg.ClientSecret = c.Sheets.ClientSecret
	cfg.RefreshToken = c.Sheets.RefreshToken
	cfg.ServiceAccountPath = c.Sheets.ServiceAccountPath
	cfg.SpreadsheetID = c.Sheets.SpreadsheetID
	if c.Sheets.SpreadsheetName != "" {
		cfg.SpreadsheetName = c.Sheets.SpreadsheetName
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
