package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"collator/internal/failures"
)

// Status classifies the outcome of one job within a batch.
type Status string

const (
	// StatusOK marks a record written without failure reasons.
	StatusOK Status = "ok"
	// StatusDegraded marks a record written with its failure flag set.
	StatusDegraded Status = "degraded"
	// StatusFatal marks a job whose record was not written.
	StatusFatal Status = "fatal"
)

// ParseStatus converts a stored status string.
func ParseStatus(value string) (Status, bool) {
	switch s := Status(strings.ToLower(strings.TrimSpace(value))); s {
	case StatusOK, StatusDegraded, StatusFatal:
		return s, true
	default:
		return "", false
	}
}

// Entry is one ledger row.
type Entry struct {
	ID         int64
	BatchID    string
	Object     string
	JobID      string
	Status     Status
	Reasons    []failures.Reason
	ErrorKind  string
	Error      string
	OutputPath string
	Checksum   string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the job ran.
func (e Entry) Duration() time.Duration {
	if e.StartedAt.IsZero() || e.FinishedAt.IsZero() {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

const entryColumns = "id, batch_id, object, job_id, status, reasons, error_kind, error_message, output_path, checksum, started_at, finished_at"

// Record appends e and returns its row id.
func (l *Ledger) Record(ctx context.Context, e Entry) (int64, error) {
	if strings.TrimSpace(e.BatchID) == "" {
		return 0, errors.New("ledger entry requires a batch id")
	}
	if _, ok := ParseStatus(string(e.Status)); !ok {
		return 0, fmt.Errorf("ledger entry has invalid status %q", e.Status)
	}
	if e.FinishedAt.IsZero() {
		e.FinishedAt = time.Now()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = e.FinishedAt
	}
	res, err := l.execWithRetry(ctx,
		`INSERT INTO job_outcomes (
            batch_id, object, job_id, status, reasons, error_kind, error_message,
            output_path, checksum, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.BatchID,
		e.Object,
		e.JobID,
		string(e.Status),
		nullableString(failures.JoinReasons(e.Reasons)),
		nullableString(e.ErrorKind),
		nullableString(e.Error),
		nullableString(e.OutputPath),
		nullableString(e.Checksum),
		formatTime(e.StartedAt),
		formatTime(e.FinishedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert job outcome: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// ListBatch returns the entries of one batch ordered by job id.
func (l *Ledger) ListBatch(ctx context.Context, batchID string) ([]Entry, error) {
	return l.query(ctx,
		"SELECT "+entryColumns+" FROM job_outcomes WHERE batch_id = ? ORDER BY job_id, id",
		batchID)
}

// LatestBatch returns the id of the most recently recorded batch, or "" when
// the ledger is empty.
func (l *Ledger) LatestBatch(ctx context.Context) (string, error) {
	ctx = ensureContext(ctx)
	var batchID string
	err := l.db.QueryRowContext(ctx, "SELECT batch_id FROM job_outcomes ORDER BY id DESC LIMIT 1").Scan(&batchID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest batch: %w", err)
	}
	return batchID, nil
}

// Filter narrows History results. Zero values match everything.
type Filter struct {
	Object string
	JobID  string
	Status Status
	Limit  int
}

// History returns entries matching f, newest first.
func (l *Ledger) History(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)
	if f.Object != "" {
		clauses = append(clauses, "object = ?")
		args = append(args, f.Object)
	}
	if f.JobID != "" {
		clauses = append(clauses, "job_id = ?")
		args = append(args, f.JobID)
	}
	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(f.Status))
	}
	query := "SELECT " + entryColumns + " FROM job_outcomes"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return l.query(ctx, query, args...)
}

func (l *Ledger) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query job outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job outcome: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job outcomes: %w", err)
	}
	return entries, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		e          Entry
		status     string
		reasons    sql.NullString
		errorKind  sql.NullString
		errorMsg   sql.NullString
		outputPath sql.NullString
		checksum   sql.NullString
		startedRaw string
		finishRaw  string
	)
	if err := scanner.Scan(
		&e.ID,
		&e.BatchID,
		&e.Object,
		&e.JobID,
		&status,
		&reasons,
		&errorKind,
		&errorMsg,
		&outputPath,
		&checksum,
		&startedRaw,
		&finishRaw,
	); err != nil {
		return Entry{}, err
	}
	e.Status = Status(status)
	e.Reasons = failures.ParseReasons(reasons.String)
	e.ErrorKind = errorKind.String
	e.Error = errorMsg.String
	e.OutputPath = outputPath.String
	e.Checksum = checksum.String
	if t, err := parseTimeString(startedRaw); err == nil {
		e.StartedAt = t
	}
	if t, err := parseTimeString(finishRaw); err == nil {
		e.FinishedAt = t
	}
	return e, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
