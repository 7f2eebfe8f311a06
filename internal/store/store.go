package store

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/hamed0406/netwatch/internal/domain"
)

// EventSink receives detector output. Implementations append, never reorder.
type EventSink interface {
	RecordOutage(ctx context.Context, ev *domain.OutageEvent) error
	RecordWindow(ctx context.Context, w *domain.WindowSummary) error
}

// OutageStore is an EventSink that can also be queried, for the API.
type OutageStore interface {
	EventSink
	// ListOutages returns resolved outages, newest first.
	ListOutages(ctx context.Context, limit int) ([]domain.Outage, error)
	// ListWindows returns minor-interval summaries at or after since.
	ListWindows(ctx context.Context, since time.Time) ([]domain.WindowSummary, error)
}

// Multi fans a write out to every sink. All sinks are attempted even when
// one fails; the errors come back combined.
type Multi []EventSink

func (m Multi) RecordOutage(ctx context.Context, ev *domain.OutageEvent) error {
	var err error
	for _, s := range m {
		if s == nil {
			continue
		}
		err = multierr.Append(err, s.RecordOutage(ctx, ev))
	}
	return err
}

func (m Multi) RecordWindow(ctx context.Context, w *domain.WindowSummary) error {
	var err error
	for _, s := range m {
		if s == nil {
			continue
		}
		err = multierr.Append(err, s.RecordWindow(ctx, w))
	}
	return err
}
