package postgres

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS outage_events (
	id               TEXT        NOT NULL,
	kind             TEXT        NOT NULL,
	at               TIMESTAMPTZ NOT NULL,
	outage_start     TIMESTAMPTZ NOT NULL,
	duration_seconds DOUBLE PRECISION,
	unresolved       BOOLEAN     NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_outage_events_kind_at ON outage_events (kind, at DESC);

CREATE TABLE IF NOT EXISTS minor_windows (
	window_start   TIMESTAMPTZ      NOT NULL,
	window_end     TIMESTAMPTZ      NOT NULL,
	failed_seconds DOUBLE PRECISION NOT NULL,
	failed_ticks   INTEGER          NOT NULL,
	total_ticks    INTEGER          NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_minor_windows_start ON minor_windows (window_start);
`

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}
