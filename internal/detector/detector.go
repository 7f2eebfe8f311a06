package detector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hamed0406/netwatch/internal/domain"
)

// DeepCheckFn is the injected detailed check. It returns true when the
// network looks reachable. An error counts as a failed check.
type DeepCheckFn func(ctx context.Context) (bool, error)

type Config struct {
	// Threshold is the number of consecutive failed checks (the triggering
	// fast failure included) required to confirm an outage.
	Threshold int
	// Deep confirms or clears a suspected outage. Only invoked while the
	// detector is not stable.
	Deep DeepCheckFn
}

// Detector turns a stream of per-tick fast-check results into started/ended
// outage events. One isolated fast failure never produces an event: the first
// failure only escalates to the deep check, and confirmation requires
// Threshold consecutive failures. Recovery is judged by the fast check.
//
// Detector is not safe for concurrent use; the tick loop is its single owner.
type Detector struct {
	cfg Config

	mode         domain.DetectorMode
	consecutive  int
	outageStart  time.Time
	outageID     string
	lastEmitted  *domain.OutageEvent
}

func New(cfg Config) (*Detector, error) {
	if cfg.Threshold < 1 {
		return nil, fmt.Errorf("confirmation threshold must be >= 1, got %d", cfg.Threshold)
	}
	if cfg.Deep == nil {
		return nil, errors.New("deep check function is required")
	}
	return &Detector{cfg: cfg, mode: domain.ModeStable}, nil
}

// State is a point-in-time snapshot of the detector for status reporting.
type State struct {
	Mode                domain.DetectorMode `json:"mode"`
	ConsecutiveFailures int                 `json:"consecutive_failures"`
	OutageStart         *time.Time          `json:"outage_start,omitempty"`
	LastEvent           *domain.OutageEvent `json:"last_event,omitempty"`
}

func (d *Detector) State() State {
	s := State{
		Mode:                d.mode,
		ConsecutiveFailures: d.consecutive,
		LastEvent:           d.lastEmitted,
	}
	if d.mode != domain.ModeStable {
		t := d.outageStart
		s.OutageStart = &t
	}
	return s
}

// OnTick advances the state machine with one fast-check result. The returned
// event is nil on most ticks. A non-nil error reports that the deep check
// errored; the tick was still processed (the error counted as a failure), so
// callers should log it and carry on.
func (d *Detector) OnTick(ctx context.Context, at time.Time, fastOK bool) (*domain.OutageEvent, error) {
	switch d.mode {
	case domain.ModeStable:
		if fastOK {
			return nil, nil
		}
		// First failure: remember the onset, then escalate immediately.
		d.mode = domain.ModeSuspect
		d.outageStart = at
		d.consecutive = 1
		return d.runDeep(ctx, at)

	case domain.ModeSuspect:
		return d.runDeep(ctx, at)

	case domain.ModeConfirmed:
		if !fastOK {
			return nil, nil // outage continues
		}
		ev := d.endOutage(at, false)
		return ev, nil
	}
	return nil, fmt.Errorf("invalid detector mode %q", d.mode)
}

// runDeep executes the deep check while suspect and applies its verdict.
func (d *Detector) runDeep(ctx context.Context, at time.Time) (*domain.OutageEvent, error) {
	up, err := d.cfg.Deep(ctx)
	if err != nil {
		up = false // fail toward detection, never drop the tick
	}

	if up {
		// False alarm: silent recovery, no event was ever owed.
		d.reset()
		return nil, err
	}

	d.consecutive++
	if d.consecutive < d.cfg.Threshold {
		return nil, err
	}

	d.mode = domain.ModeConfirmed
	d.outageID = uuid.NewString()
	ev := &domain.OutageEvent{
		ID:          d.outageID,
		Kind:        domain.EventStarted,
		At:          at,
		OutageStart: d.outageStart,
	}
	d.lastEmitted = ev
	return ev, err
}

// Flush closes out an in-progress outage at shutdown. A confirmed outage
// yields a synthetic ended event marked Unresolved; a mere suspicion is
// discarded. The detector is stable afterwards.
func (d *Detector) Flush(at time.Time) *domain.OutageEvent {
	if d.mode != domain.ModeConfirmed {
		d.reset()
		return nil
	}
	return d.endOutage(at, true)
}

func (d *Detector) endOutage(at time.Time, unresolved bool) *domain.OutageEvent {
	dur := at.Sub(d.outageStart).Seconds()
	ev := &domain.OutageEvent{
		ID:              d.outageID,
		Kind:            domain.EventEnded,
		At:              at,
		OutageStart:     d.outageStart,
		DurationSeconds: &dur,
		Unresolved:      unresolved,
	}
	d.lastEmitted = ev
	d.reset()
	return ev
}

func (d *Detector) reset() {
	d.mode = domain.ModeStable
	d.consecutive = 0
	d.outageStart = time.Time{}
	d.outageID = ""
}
