package domain

import "time"

// DetectorMode is the outage state machine's mode between ticks.
type DetectorMode string

const (
	ModeStable    DetectorMode = "stable"
	ModeSuspect   DetectorMode = "suspect"
	ModeConfirmed DetectorMode = "confirmed"
)

// EventKind marks the two ends of a confirmed outage.
type EventKind string

const (
	EventStarted EventKind = "started"
	EventEnded   EventKind = "ended"
)

// ProbeResult is a single fast-check observation. One per tick, consumed
// immediately by the detector.
type ProbeResult struct {
	At time.Time `json:"at"`
	OK bool      `json:"ok"`
}

// OutageEvent is an emitted lifecycle fact. The started and ended events of
// one outage share the same ID. DurationSeconds is set only on ended events.
// Unresolved marks a synthetic ended event written during shutdown while the
// outage was still in progress.
type OutageEvent struct {
	ID              string    `json:"id"`
	Kind            EventKind `json:"kind"`
	At              time.Time `json:"at"`
	OutageStart     time.Time `json:"outage_start"`
	DurationSeconds *float64  `json:"duration_seconds,omitempty"`
	Unresolved      bool      `json:"unresolved,omitempty"`
}

// WindowSummary is the minor-interval tracker's per-window record. Only
// windows that contained at least one failed tick are persisted.
type WindowSummary struct {
	WindowStart   time.Time `json:"window_start"`
	WindowEnd     time.Time `json:"window_end"`
	FailedSeconds float64   `json:"failed_seconds"`
	FailedTicks   int       `json:"failed_ticks"`
	TotalTicks    int       `json:"total_ticks"`
}

// Outage is a resolved outage row as stores report it back (joined from the
// started/ended event pair).
type Outage struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	Unresolved      bool      `json:"unresolved,omitempty"`
}
