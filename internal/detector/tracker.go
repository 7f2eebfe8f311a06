package detector

import (
	"time"

	"github.com/hamed0406/netwatch/internal/domain"
)

// Tracker buckets the same probe stream into fixed wall-aligned windows and
// summarizes brief interruptions for pattern analysis. It runs beside the
// outage detector, never gates it, and never triggers deep checks.
type Tracker struct {
	window   time.Duration
	interval time.Duration // fast-check cadence, for failed-duration estimates

	windowStart time.Time
	failed      int
	total       int
}

func NewTracker(window, interval time.Duration) *Tracker {
	if window <= 0 {
		window = time.Minute
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Tracker{window: window, interval: interval}
}

// Observe records one tick. When the tick falls past the current window the
// window is closed first; its summary is returned if it saw any failure.
func (t *Tracker) Observe(at time.Time, ok bool) *domain.WindowSummary {
	ws := at.Truncate(t.window)

	var closed *domain.WindowSummary
	if t.total == 0 {
		t.windowStart = ws
	} else if ws.After(t.windowStart) {
		closed = t.close()
		t.windowStart = ws
	}

	t.total++
	if !ok {
		t.failed++
	}
	return closed
}

// Flush closes the window in progress, for shutdown. Returns nil if the
// window saw no failures or no ticks at all.
func (t *Tracker) Flush(at time.Time) *domain.WindowSummary {
	if t.total == 0 {
		return nil
	}
	s := t.close()
	t.windowStart = time.Time{}
	return s
}

func (t *Tracker) close() *domain.WindowSummary {
	failed, total := t.failed, t.total
	start := t.windowStart
	t.failed, t.total = 0, 0

	if failed == 0 {
		return nil
	}
	return &domain.WindowSummary{
		WindowStart:   start,
		WindowEnd:     start.Add(t.window),
		FailedSeconds: float64(failed) * t.interval.Seconds(),
		FailedTicks:   failed,
		TotalTicks:    total,
	}
}
