package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MaxAutoBackups is the number of automatic backups kept per directory.
const MaxAutoBackups = 5

// Backup errors.
var (
	ErrBackupExists    = errors.New("backup already exists")
	ErrBackupCorrupted = errors.New("backup integrity check failed")
	ErrInvalidBackupID = errors.New("invalid backup ID")
)

// backupTables are counted into each backup's metadata.
var backupTables = []string{
	"bank_accounts", "bank_transactions", "expenses", "transaction_rules",
	"channel_orders", "channel_fees", "invoices",
}

// BackupInfo describes a database snapshot and its metadata sidecar.
type BackupInfo struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	ID            string         `json:"id"`
	Reason        string         `json:"reason"`
	Path          string         `json:"-"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion uint           `json:"schema_version"`
	Auto          bool           `json:"auto"`
}

// DefaultBackupDir returns the backups directory next to the database file.
func DefaultBackupDir(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), "backups")
}

// Backup writes a consistent snapshot of the database to dir/id.db with a
// dir/id.meta.json sidecar. An empty id is generated from the current time.
func (s *SQLiteStorage) Backup(ctx context.Context, dir, id, reason string) (*BackupInfo, error) {
	return s.backup(ctx, dir, id, reason, false)
}

// AutoBackup takes a generated backup and prunes automatic backups beyond
// MaxAutoBackups. Pruning failures are logged, not returned.
func (s *SQLiteStorage) AutoBackup(ctx context.Context, dir, reason string) (*BackupInfo, error) {
	info, err := s.backup(ctx, dir, "", reason, true)
	if err != nil {
		return nil, err
	}
	if err := PruneAutoBackups(dir, MaxAutoBackups); err != nil {
		slog.Warn("Failed to prune old backups", "dir", dir, "error", err)
	}
	return info, nil
}

func (s *SQLiteStorage) backup(ctx context.Context, dir, id, reason string, auto bool) (*BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		id = s.now().Format("20060102-150405.000")
		if auto {
			id = "auto-" + id
		}
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackupID, id)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(dir, id+".db")
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, id)
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.rowCounts(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}
	if err := verifyIntegrity(ctx, path); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	info := &BackupInfo{
		ID:            id,
		CreatedAt:     s.now(),
		Reason:        reason,
		Path:          path,
		FileSize:      stat.Size(),
		RowCounts:     counts,
		SchemaVersion: version,
		Auto:          auto,
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, id+".meta.json"), data, 0600); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to save backup metadata: %w", err)
	}

	slog.Info("Database backed up", "id", id, "path", path, "reason", reason)
	return info, nil
}

// rowCounts counts rows in the tables that exist at the current schema version.
func (s *SQLiteStorage) rowCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(backupTables))
	for _, table := range backupTables {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect schema: %w", err)
		}
		if exists == 0 {
			continue
		}

		var n int
		// #nosec G202 -- table names come from backupTables
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func verifyIntegrity(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRowContext(ctx, `PRAGMA integrity_check`).Scan(&result); err != nil {
		return fmt.Errorf("%w: %w", ErrBackupCorrupted, err)
	}
	if result != "ok" {
		return fmt.Errorf("%w: %s", ErrBackupCorrupted, result)
	}
	return nil
}

// ListBackups returns the backups in dir, newest first. A missing directory
// has no backups.
func ListBackups(dir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".meta.json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name)) // #nosec G304 -- names come from ReadDir
		if err != nil {
			return nil, fmt.Errorf("failed to read backup metadata: %w", err)
		}
		var info BackupInfo
		if err := json.Unmarshal(data, &info); err != nil {
			slog.Warn("Skipping unreadable backup metadata", "file", name, "error", err)
			continue
		}
		info.Path = filepath.Join(dir, info.ID+".db")
		backups = append(backups, info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// PruneAutoBackups deletes automatic backups beyond the newest keep.
func PruneAutoBackups(dir string, keep int) error {
	backups, err := ListBackups(dir)
	if err != nil {
		return err
	}

	var errs []error
	seen := 0
	for _, b := range backups {
		if !b.Auto {
			continue
		}
		seen++
		if seen <= keep {
			continue
		}
		for _, path := range []string{b.Path, filepath.Join(dir, b.ID+".meta.json")} {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
