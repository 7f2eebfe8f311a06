package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/hamed0406/netwatch/internal/detector"
	"github.com/hamed0406/netwatch/internal/domain"
	"github.com/hamed0406/netwatch/internal/probe"
	"github.com/hamed0406/netwatch/internal/store/memory"
)

type scriptedFast struct {
	mu      sync.Mutex
	results []bool
	i       int
}

func (f *scriptedFast) Check(ctx context.Context) probe.CheckResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok := true
	if f.i < len(f.results) {
		ok = f.results[f.i]
		f.i++
	}
	if ok {
		return probe.CheckResult{Success: true, Message: "ok"}
	}
	return probe.CheckResult{Success: false, Message: "no answer"}
}

func (f *scriptedFast) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.i
}

func alwaysDown(ctx context.Context) (bool, error) { return false, nil }

// waits (in real time) for the background loop to catch up with the mock clock
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting: %s", msg)
}

func newTestMonitor(t *testing.T, fast *scriptedFast, threshold int) (*Monitor, *memory.Store, *clock.Mock) {
	t.Helper()
	det, err := detector.New(detector.Config{Threshold: threshold, Deep: alwaysDown})
	if err != nil {
		t.Fatalf("detector.New: %v", err)
	}
	sink := memory.New()
	m := New(zap.NewNop(), fast, det, detector.NewTracker(time.Minute, time.Second), sink, time.Second, 100*time.Millisecond)

	mock := clock.NewMock()
	mock.Set(time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC))
	m.Clock = mock
	return m, sink, mock
}

func TestMonitor_OutageLifecycleThroughTheLoop(t *testing.T) {
	fast := &scriptedFast{results: []bool{true, false, false, false, true}}
	m, sink, mock := newTestMonitor(t, fast, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	// immediate tick, then one per advanced second
	eventually(t, func() bool { return fast.calls() >= 1 }, "first tick")
	for i := 0; i < 4; i++ {
		mock.Add(time.Second)
		want := i + 2
		eventually(t, func() bool { return fast.calls() >= want }, "tick advance")
	}

	eventually(t, func() bool { return len(sink.Events()) == 2 }, "started+ended events")

	events := sink.Events()
	if events[0].Kind != domain.EventStarted || events[1].Kind != domain.EventEnded {
		t.Fatalf("event order wrong: %+v", events)
	}
	base := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	if !events[0].OutageStart.Equal(base.Add(time.Second)) {
		t.Fatalf("outage start should be the first failed tick, got %v", events[0].OutageStart)
	}
	if !events[1].At.Equal(base.Add(4 * time.Second)) {
		t.Fatalf("recovery tick wrong: %v", events[1].At)
	}
	if d := events[1].DurationSeconds; d == nil || *d != 3 {
		t.Fatalf("duration should be 3s, got %v", d)
	}

	cancel()
	<-done

	if st := m.Status(); st.Detector.Mode != domain.ModeStable {
		t.Fatalf("monitor should end stable, got %+v", st)
	}
}

func TestMonitor_ShutdownFlushesUnresolvedOutage(t *testing.T) {
	fast := &scriptedFast{results: []bool{false, false, false}}
	m, sink, mock := newTestMonitor(t, fast, 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	eventually(t, func() bool { return fast.calls() >= 1 }, "first tick")
	mock.Add(time.Second)
	eventually(t, func() bool { return len(sink.Events()) >= 1 }, "outage confirmed")

	cancel()
	<-done

	events := sink.Events()
	last := events[len(events)-1]
	if last.Kind != domain.EventEnded || !last.Unresolved {
		t.Fatalf("shutdown should emit an unresolved ended event, got %+v", last)
	}

	// the tracker window containing the failures must be flushed too
	ws, err := sink.ListWindows(context.Background(), time.Time{})
	if err != nil || len(ws) != 1 {
		t.Fatalf("want one flushed window summary, got %v (%v)", ws, err)
	}
	if ws[0].FailedTicks == 0 {
		t.Fatalf("window should have recorded the failed ticks: %+v", ws[0])
	}
}

type failingSink struct{}

func (failingSink) RecordOutage(ctx context.Context, ev *domain.OutageEvent) error {
	return errors.New("disk full")
}
func (failingSink) RecordWindow(ctx context.Context, w *domain.WindowSummary) error {
	return errors.New("disk full")
}

func TestMonitor_SinkFailureDoesNotStopDetection(t *testing.T) {
	fast := &scriptedFast{results: []bool{false, false, true}}
	det, _ := detector.New(detector.Config{Threshold: 2, Deep: alwaysDown})
	m := New(zap.NewNop(), fast, det, detector.NewTracker(time.Minute, time.Second), failingSink{}, time.Second, 100*time.Millisecond)
	mock := clock.NewMock()
	mock.Set(time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC))
	m.Clock = mock

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	eventually(t, func() bool { return fast.calls() >= 1 }, "first tick")
	mock.Add(time.Second)
	eventually(t, func() bool { return fast.calls() >= 2 }, "second tick")
	mock.Add(time.Second)
	eventually(t, func() bool { return fast.calls() >= 3 }, "third tick")

	// state machine advanced to recovery despite every write failing
	eventually(t, func() bool { return m.Status().Detector.Mode == domain.ModeStable }, "recovered")

	st := m.Status()
	if st.Detector.LastEvent == nil || st.Detector.LastEvent.Kind != domain.EventEnded {
		t.Fatalf("detector should have emitted ended regardless of sink, got %+v", st.Detector.LastEvent)
	}

	cancel()
	<-done
}
