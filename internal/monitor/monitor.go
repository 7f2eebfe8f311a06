package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/hamed0406/netwatch/internal/detector"
	"github.com/hamed0406/netwatch/internal/domain"
	"github.com/hamed0406/netwatch/internal/probe"
	"github.com/hamed0406/netwatch/internal/store"
)

// FastChecker is the cheap once-per-tick probe.
type FastChecker interface {
	Check(ctx context.Context) probe.CheckResult
}

// Monitor drives the tick loop: one fast check per interval, fed to the
// outage detector and the minor-interval tracker, with any resulting events
// written to the sink. Ticks never overlap; a slow tick delays the next one.
type Monitor struct {
	Logger   *zap.Logger
	Fast     FastChecker
	Detector *detector.Detector
	Tracker  *detector.Tracker
	Sink     store.EventSink
	Interval time.Duration
	Timeout  time.Duration
	Clock    clock.Clock

	mu        sync.Mutex
	lastProbe *domain.ProbeResult
}

func New(
	logger *zap.Logger,
	fast FastChecker,
	det *detector.Detector,
	tracker *detector.Tracker,
	sink store.EventSink,
	interval time.Duration,
	timeout time.Duration,
) *Monitor {
	if interval <= 0 {
		interval = time.Second
	}
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Monitor{
		Logger:   logger,
		Fast:     fast,
		Detector: det,
		Tracker:  tracker,
		Sink:     sink,
		Interval: interval,
		Timeout:  timeout,
		Clock:    clock.New(),
	}
}

// Run starts the loop. It does an immediate tick, then one per interval.
// Stops when ctx is cancelled, closing out any in-progress outage first.
func (m *Monitor) Run(ctx context.Context) {
	t := m.Clock.Ticker(m.Interval)
	defer t.Stop()

	m.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			m.Logger.Info("monitor_stopped")
			return
		case <-t.C:
			m.tick(ctx)
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, m.Timeout)
	out := m.Fast.Check(cctx)
	cancel()

	at := m.Clock.Now()

	m.mu.Lock()
	ev, deepErr := m.Detector.OnTick(ctx, at, out.Success)
	ws := m.Tracker.Observe(at, out.Success)
	m.lastProbe = &domain.ProbeResult{At: at, OK: out.Success}
	m.mu.Unlock()

	if !out.Success {
		m.Logger.Debug("fast_check_fail", zap.String("reason", out.Message))
	}
	if deepErr != nil {
		// already counted as a failed check; this is for the operator
		m.Logger.Warn("deep_check_error", zap.Error(deepErr))
	}

	if ev != nil {
		m.emit(ctx, ev)
	}
	if ws != nil {
		if err := m.Sink.RecordWindow(ctx, ws); err != nil {
			m.Logger.Warn("sink_write_error", zap.Error(err))
		}
	}
}

// emit writes the event. Sink failures are warnings: detection must keep
// running through a transient logging problem.
func (m *Monitor) emit(ctx context.Context, ev *domain.OutageEvent) {
	switch ev.Kind {
	case domain.EventStarted:
		m.Logger.Info("outage_started",
			zap.String("outage_id", ev.ID),
			zap.Time("outage_start", ev.OutageStart),
		)
	case domain.EventEnded:
		fields := []zap.Field{
			zap.String("outage_id", ev.ID),
			zap.Time("outage_start", ev.OutageStart),
		}
		if ev.DurationSeconds != nil {
			fields = append(fields, zap.Float64("duration_seconds", *ev.DurationSeconds))
		}
		if ev.Unresolved {
			fields = append(fields, zap.Bool("unresolved", true))
		}
		m.Logger.Info("outage_ended", fields...)
	}

	if err := m.Sink.RecordOutage(ctx, ev); err != nil {
		m.Logger.Warn("sink_write_error", zap.Error(err))
	}
}

// shutdown closes out detector and tracker state. Writes use a fresh
// short-lived context since the run context is already cancelled.
func (m *Monitor) shutdown() {
	at := m.Clock.Now()

	m.mu.Lock()
	ev := m.Detector.Flush(at)
	ws := m.Tracker.Flush(at)
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if ev != nil {
		m.emit(ctx, ev)
	}
	if ws != nil {
		if err := m.Sink.RecordWindow(ctx, ws); err != nil {
			m.Logger.Warn("sink_write_error", zap.Error(err))
		}
	}
}

// Status is a snapshot for the HTTP API.
type Status struct {
	Detector  detector.State      `json:"detector"`
	LastProbe *domain.ProbeResult `json:"last_probe,omitempty"`
}

func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		Detector:  m.Detector.State(),
		LastProbe: m.lastProbe,
	}
}
