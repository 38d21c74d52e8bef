package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries configuration shared by all commands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	quiet   bool
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "tally",
		Short: "Bank-feed reconciliation for a small business ledger",
		Long: `tally ingests bank transactions from Plaid or OFX files, suggests a category
for each one from your rules, and promotes the ones you approve into the
expense ledger exactly once.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/tally/config.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log format (console, json)")
	root.PersistentFlags().String("db", "", "database path (overrides database.path)")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "hide progress bars")

	_ = a.v.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(
		migrateCmd(a),
		backupCmd(a),
		accountsCmd(a),
		importCmd(a),
		categorizeCmd(a),
		transactionsCmd(a),
		duplicatesCmd(a),
		approveCmd(a),
		rejectCmd(a),
		syncCmd(a),
		rulesCmd(a),
		channelsCmd(a),
		exportCmd(a),
		versionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		a.v.Set("database.path", db)
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := setupLogging(cfg.Logging); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func setupLogging(cfg config.LoggingConfig) error {
	level, err := common.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	return common.SetupLogger(level, cfg.Format)
}

// openStorage opens and migrates the configured database.
func (a *app) openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(a.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := a.migrate(ctx, store); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// migrate backs up a database with an older schema before upgrading it.
func (a *app) migrate(ctx context.Context, store *storage.SQLiteStorage) error {
	current, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > 0 && current < storage.ExpectedSchemaVersion {
		if _, err := store.AutoBackup(ctx, a.cfg.Database.BackupDir, fmt.Sprintf("migrate from v%d", current)); err != nil {
			return fmt.Errorf("failed to back up before migrating: %w", err)
		}
	}
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// newEngine builds an engine over store with progress drawn on the
// command's stderr.
func (a *app) newEngine(cmd *cobra.Command, store *storage.SQLiteStorage) (*engine.Engine, error) {
	opts, err := a.cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	e := engine.New(store, opts)
	e.SetProgress(cli.NewProgress(cmd.ErrOrStderr(), a.quiet))
	return e, nil
}

// withEngine runs fn with an open store and engine, closing the store after.
func (a *app) withEngine(cmd *cobra.Command, fn func(ctx context.Context, store *storage.SQLiteStorage, e *engine.Engine) error) error {
	ctx := cmd.Context()
	store, err := a.openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	e, err := a.newEngine(cmd, store)
	if err != nil {
		return err
	}
	return fn(ctx, store, e)
}

// reviewer resolves the reviewer identity from --reviewer or review.reviewer.
func (a *app) reviewer(cmd *cobra.Command) string {
	if r, _ := cmd.Flags().GetString("reviewer"); r != "" {
		return r
	}
	return a.cfg.Review.Reviewer
}

// userError adds a hint to failures the user can fix.
func userError(err error) error {
	switch {
	case errors.Is(err, common.ErrReviewerRequired):
		return common.NewUserError("a reviewer is required: pass --reviewer or set review.reviewer", err)
	case errors.Is(err, common.ErrCategoryRequired):
		return common.NewUserError("a category is required to approve a transaction", err)
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError(err.Error(), err)
	case errors.Is(err, common.ErrMissingConfig), errors.Is(err, common.ErrInvalidConfig):
		return common.NewUserError(err.Error(), err)
	}
	return err
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("tally version " + version)
		},
	}
}

var _ engine.Progress = (*cli.Progress)(nil)
