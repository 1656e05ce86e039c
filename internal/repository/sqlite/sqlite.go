// Package sqlite implements the command journal on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"netlens/internal/domain"

	_ "modernc.org/sqlite"
)

const defaultRecentLimit = 50

// Log implements repository.CommandLog using SQLite.
type Log struct {
	db *sql.DB
}

// New opens (or creates) the journal database at dbPath and migrates the
// schema. Use ":memory:" for an ephemeral journal.
func New(dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	l := &Log{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return l, nil
}

func (l *Log) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS command_log (
		id TEXT PRIMARY KEY,
		device TEXT NOT NULL,
		command TEXT NOT NULL,
		output TEXT NOT NULL,
		status TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		executed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_command_log_device ON command_log(device);
	CREATE INDEX IF NOT EXISTS idx_command_log_executed ON command_log(executed_at);
	`

	_, err := l.db.Exec(schema)
	return err
}

// Record appends one command execution to the journal.
func (l *Log) Record(ctx context.Context, result *domain.RawCommandResult) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO command_log (id, device, command, output, status, duration_ms, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		uuid.NewString(),
		result.Device,
		result.Command,
		result.Output,
		string(result.Status),
		result.Duration.Milliseconds(),
		result.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record command: %w", err)
	}
	return nil
}

// Recent returns the newest journal entries, newest first. An empty device
// matches all devices.
func (l *Log) Recent(ctx context.Context, device string, limit int) ([]domain.RawCommandResult, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	query := `
		SELECT device, command, output, status, duration_ms, executed_at
		FROM command_log
	`
	args := []any{}
	if device != "" {
		query += " WHERE device = ?"
		args = append(args, device)
	}
	query += " ORDER BY executed_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query command log: %w", err)
	}
	defer rows.Close()

	var results []domain.RawCommandResult
	for rows.Next() {
		var (
			rec        domain.RawCommandResult
			status     string
			durationMS int64
			executedAt string
		)
		if err := rows.Scan(&rec.Device, &rec.Command, &rec.Output, &status, &durationMS, &executedAt); err != nil {
			return nil, fmt.Errorf("failed to scan command log entry: %w", err)
		}
		rec.Status = domain.CommandStatus(status)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, executedAt); err == nil {
			rec.Timestamp = ts
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating command log: %w", err)
	}
	return results, nil
}

// Close releases the underlying database handle.
func (l *Log) Close() error {
	return l.db.Close()
}
