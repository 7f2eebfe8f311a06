package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hamed0406/netwatch/internal/domain"
	"github.com/hamed0406/netwatch/internal/store"
)

var _ store.OutageStore = (*Store)(nil)

type Store struct {
	db *sql.DB
}

// New opens (and creates if needed) the database file. WAL with a single
// writer; the monitor loop is the only writer anyway.
func New(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS outage_events (
		id TEXT NOT NULL,
		kind TEXT NOT NULL,
		at INTEGER NOT NULL,
		outage_start INTEGER NOT NULL,
		duration_seconds REAL,
		unresolved INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_outage_events_kind_at ON outage_events(kind, at DESC);

	CREATE TABLE IF NOT EXISTS minor_windows (
		window_start INTEGER NOT NULL,
		window_end INTEGER NOT NULL,
		failed_seconds REAL NOT NULL,
		failed_ticks INTEGER NOT NULL,
		total_ticks INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_minor_windows_start ON minor_windows(window_start);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init sqlite schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) RecordOutage(ctx context.Context, ev *domain.OutageEvent) error {
	var dur sql.NullFloat64
	if ev.DurationSeconds != nil {
		dur = sql.NullFloat64{Float64: *ev.DurationSeconds, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outage_events (id, kind, at, outage_start, duration_seconds, unresolved)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Kind), ev.At.UnixMilli(), ev.OutageStart.UnixMilli(), dur, boolInt(ev.Unresolved),
	)
	if err != nil {
		return fmt.Errorf("insert outage event: %w", err)
	}
	return nil
}

func (s *Store) RecordWindow(ctx context.Context, w *domain.WindowSummary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO minor_windows (window_start, window_end, failed_seconds, failed_ticks, total_ticks)
		 VALUES (?, ?, ?, ?, ?)`,
		w.WindowStart.UnixMilli(), w.WindowEnd.UnixMilli(), w.FailedSeconds, w.FailedTicks, w.TotalTicks,
	)
	if err != nil {
		return fmt.Errorf("insert minor window: %w", err)
	}
	return nil
}

func (s *Store) ListOutages(ctx context.Context, limit int) ([]domain.Outage, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, outage_start, duration_seconds, unresolved
		   FROM outage_events
		  WHERE kind = ?
		  ORDER BY at DESC
		  LIMIT ?`,
		string(domain.EventEnded), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list outages: %w", err)
	}
	defer rows.Close()

	var out []domain.Outage
	for rows.Next() {
		var (
			o          domain.Outage
			at, start  int64
			dur        sql.NullFloat64
			unresolved int
		)
		if err := rows.Scan(&o.ID, &at, &start, &dur, &unresolved); err != nil {
			return nil, fmt.Errorf("scan outage: %w", err)
		}
		o.EndedAt = time.UnixMilli(at).UTC()
		o.StartedAt = time.UnixMilli(start).UTC()
		if dur.Valid {
			o.DurationSeconds = dur.Float64
		}
		o.Unresolved = unresolved != 0
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) ListWindows(ctx context.Context, since time.Time) ([]domain.WindowSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT window_start, window_end, failed_seconds, failed_ticks, total_ticks
		   FROM minor_windows
		  WHERE window_start >= ?
		  ORDER BY window_start`,
		since.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	defer rows.Close()

	var out []domain.WindowSummary
	for rows.Next() {
		var (
			w          domain.WindowSummary
			start, end int64
		)
		if err := rows.Scan(&start, &end, &w.FailedSeconds, &w.FailedTicks, &w.TotalTicks); err != nil {
			return nil, fmt.Errorf("scan window: %w", err)
		}
		w.WindowStart = time.UnixMilli(start).UTC()
		w.WindowEnd = time.UnixMilli(end).UTC()
		out = append(out, w)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
