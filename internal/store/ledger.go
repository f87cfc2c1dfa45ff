package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FileName is the ledger database created inside the output directory.
const FileName = ".transcriber.db"

// Status is the outcome of one job.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Entry is one recorded job outcome.
type Entry struct {
	RunID    string
	Source   string
	VideoURL string
	Folder   string
	Status   Status
	Path     string
	Error    string
	Duration time.Duration
	At       time.Time
}

// Ledger is an append-only SQLite history of job outcomes. It is only a
// record: nothing reads it to skip work.
type Ledger struct {
	db *sql.DB
}

// NewRunID returns a fresh identifier grouping the entries of one run.
func NewRunID() string {
	return uuid.New().String()
}

// DefaultPath returns the ledger location for an output directory.
func DefaultPath(outputDir string) string {
	return filepath.Join(outputDir, FileName)
}

// Open opens (creating if needed) the ledger at path.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating ledger directory")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening ledger")
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      TEXT NOT NULL,
		source      TEXT NOT NULL,
		video_url   TEXT NOT NULL,
		folder      TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		path        TEXT NOT NULL DEFAULT '',
		error       TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at  INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating jobs table")
	}

	logrus.WithField("path", path).Debug("Ledger opened")
	return &Ledger{db: db}, nil
}

// Record appends one entry. A zero At is set to the current time.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO jobs
		(run_id, source, video_url, folder, status, path, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Source, e.VideoURL, e.Folder, string(e.Status), e.Path, e.Error,
		e.Duration.Milliseconds(), e.At.UnixNano())
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "inserting job")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := l.db.QueryContext(ctx, `SELECT
		run_id, source, video_url, folder, status, path, error, duration_ms, created_at
		FROM jobs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying jobs")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			status     string
			durationMS int64
			createdAt  int64
		)
		if err := rows.Scan(&e.RunID, &e.Source, &e.VideoURL, &e.Folder, &status, &e.Path, &e.Error, &durationMS, &createdAt); err != nil {
			return nil, errors.Wrap(err, "scanning job")
		}
		e.Status = Status(status)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.At = time.Unix(0, createdAt)
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "reading jobs")
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
