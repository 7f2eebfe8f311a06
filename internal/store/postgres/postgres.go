package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamed0406/netwatch/internal/domain"
	"github.com/hamed0406/netwatch/internal/store"
)

var _ store.OutageStore = (*Store)(nil)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(ctxPing); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &Store{pool: p}
	if err := s.ensureSchema(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) RecordOutage(ctx context.Context, ev *domain.OutageEvent) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO outage_events (id, kind, at, outage_start, duration_seconds, unresolved)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		ev.ID, string(ev.Kind), ev.At, ev.OutageStart, ev.DurationSeconds, ev.Unresolved)
	if err != nil {
		return fmt.Errorf("insert outage event: %w", err)
	}
	return nil
}

func (s *Store) RecordWindow(ctx context.Context, w *domain.WindowSummary) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO minor_windows (window_start, window_end, failed_seconds, failed_ticks, total_ticks)
		 VALUES ($1,$2,$3,$4,$5)`,
		w.WindowStart, w.WindowEnd, w.FailedSeconds, w.FailedTicks, w.TotalTicks)
	if err != nil {
		return fmt.Errorf("insert minor window: %w", err)
	}
	return nil
}

func (s *Store) ListOutages(ctx context.Context, limit int) ([]domain.Outage, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, at, outage_start, duration_seconds, unresolved
		   FROM outage_events
		  WHERE kind = $1
		  ORDER BY at DESC
		  LIMIT $2`,
		string(domain.EventEnded), limit)
	if err != nil {
		return nil, fmt.Errorf("list outages: %w", err)
	}
	defer rows.Close()

	var out []domain.Outage
	for rows.Next() {
		var (
			o   domain.Outage
			dur *float64
		)
		if err := rows.Scan(&o.ID, &o.EndedAt, &o.StartedAt, &dur, &o.Unresolved); err != nil {
			return nil, fmt.Errorf("scan outage: %w", err)
		}
		if dur != nil {
			o.DurationSeconds = *dur
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) ListWindows(ctx context.Context, since time.Time) ([]domain.WindowSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT window_start, window_end, failed_seconds, failed_ticks, total_ticks
		   FROM minor_windows
		  WHERE window_start >= $1
		  ORDER BY window_start`,
		since)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	defer rows.Close()

	var out []domain.WindowSummary
	for rows.Next() {
		var w domain.WindowSummary
		if err := rows.Scan(&w.WindowStart, &w.WindowEnd, &w.FailedSeconds, &w.FailedTicks, &w.TotalTicks); err != nil {
			return nil, fmt.Errorf("scan window: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
