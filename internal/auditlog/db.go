// Package auditlog persists an append-only record of every Operation
// gitline has executed, so a maintainer can answer "what did gitline do to
// my repository, and when" long after a flow has finished.
package auditlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Log wraps a SQLite database recording executed operations.
type Log struct {
	conn *sql.DB
	path string
	mu   sync.Mutex
}

// DefaultPath returns ~/.local/share/gitline/audit.db, honoring XDG_DATA_HOME.
func DefaultPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "gitline", "audit.db")
}

// Open opens (and migrates) the audit log at path, creating parent
// directories as needed.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	l := &Log{conn: conn, path: path}
	if err := l.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return l, nil
}

// OpenDefault opens the audit log at DefaultPath.
func OpenDefault() (*Log, error) {
	return Open(DefaultPath())
}

func (l *Log) migrate() error {
	_, err := l.conn.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			repo_path TEXT NOT NULL,
			flow TEXT NOT NULL,
			operation_label TEXT NOT NULL,
			git_command TEXT NOT NULL,
			outcome TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			executed_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_entries_repo_path ON entries(repo_path);
		CREATE INDEX IF NOT EXISTS idx_entries_executed_at ON entries(executed_at);
	`)
	if err != nil {
		return fmt.Errorf("migrate audit schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.Close()
}

// Path returns the path to the database file.
func (l *Log) Path() string { return l.path }

// Outcome names how an audited operation concluded.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Entry is a single recorded operation.
type Entry struct {
	ID             int64
	RepoPath       string
	Flow           string
	OperationLabel string
	GitCommand     string
	Outcome        Outcome
	Detail         string
	ExecutedAt     time.Time
}

// Record appends a new entry to the log.
func (l *Log) Record(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = time.Now()
	}
	_, err := l.conn.Exec(`
		INSERT INTO entries (repo_path, flow, operation_label, git_command, outcome, detail, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.RepoPath, e.Flow, e.OperationLabel, e.GitCommand, string(e.Outcome), e.Detail, e.ExecutedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

// RecentForRepo returns the most recent n entries for repoPath, newest first.
func (l *Log) RecentForRepo(repoPath string, n int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.conn.Query(`
		SELECT id, repo_path, flow, operation_label, git_command, outcome, detail, executed_at
		FROM entries
		WHERE repo_path = ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`, repoPath, n)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var outcome, executedAt string
		if err := rows.Scan(&e.ID, &e.RepoPath, &e.Flow, &e.OperationLabel, &e.GitCommand, &outcome, &e.Detail, &executedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Outcome = Outcome(outcome)
		if t, err := time.Parse(time.RFC3339, executedAt); err == nil {
			e.ExecutedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PurgeOlderThan deletes entries older than olderThan and returns the count removed.
func (l *Log) PurgeOlderThan(olderThan time.Duration) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC().Format(time.RFC3339)
	result, err := l.conn.Exec(`DELETE FROM entries WHERE executed_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge old audit entries: %w", err)
	}
	return result.RowsAffected()
}
