package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hamed0406/netwatch/internal/domain"
)

var _ EventSink = (*TextLog)(nil)

// TextLog is the durable, human-greppable record: one line per resolved
// outage and one line per interrupted minor window, synced to disk as soon
// as it is written. Outage lines need both ends, so started events are not
// written; the database sinks keep those.
//
// Formats:
//
//	<ISO8601 start> <ISO8601 end> <duration_seconds>[ unresolved]
//	<window_start> <window_end> <failed_seconds>
type TextLog struct {
	mu      sync.Mutex
	events  *os.File
	windows *os.File
}

// NewTextLog opens both files append-only, creating them if missing. Either
// path may be empty to disable that stream.
func NewTextLog(eventPath, windowPath string) (*TextLog, error) {
	t := &TextLog{}
	var err error
	if eventPath != "" {
		t.events, err = os.OpenFile(eventPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
	}
	if windowPath != "" {
		t.windows, err = os.OpenFile(windowPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			if t.events != nil {
				t.events.Close()
			}
			return nil, fmt.Errorf("open window log: %w", err)
		}
	}
	return t, nil
}

func (t *TextLog) RecordOutage(ctx context.Context, ev *domain.OutageEvent) error {
	if t.events == nil || ev.Kind != domain.EventEnded || ev.DurationSeconds == nil {
		return nil
	}
	line := fmt.Sprintf("%s %s %.3f",
		ev.OutageStart.UTC().Format(time.RFC3339),
		ev.At.UTC().Format(time.RFC3339),
		*ev.DurationSeconds,
	)
	if ev.Unresolved {
		line += " unresolved"
	}
	return t.writeLine(t.events, line)
}

func (t *TextLog) RecordWindow(ctx context.Context, w *domain.WindowSummary) error {
	if t.windows == nil {
		return nil
	}
	line := fmt.Sprintf("%s %s %.3f",
		w.WindowStart.UTC().Format(time.RFC3339),
		w.WindowEnd.UTC().Format(time.RFC3339),
		w.FailedSeconds,
	)
	return t.writeLine(t.windows, line)
}

func (t *TextLog) writeLine(f *os.File, line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("append log line: %w", err)
	}
	// the log must survive an abrupt exit
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync log: %w", err)
	}
	return nil
}

func (t *TextLog) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var first error
	for _, f := range []*os.File{t.events, t.windows} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
