package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/netwatch/internal/domain"
	"github.com/hamed0406/netwatch/internal/store"
)

var _ store.OutageStore = (*Store)(nil)

// Store keeps everything in process memory. The default when no database is
// configured; the plaintext log still provides durability in that setup.
type Store struct {
	mu      sync.RWMutex
	events  []*domain.OutageEvent
	outages []domain.Outage
	windows []domain.WindowSummary
}

func New() *Store {
	return &Store{
		events:  make([]*domain.OutageEvent, 0, 64),
		windows: make([]domain.WindowSummary, 0, 64),
	}
}

func (m *Store) RecordOutage(ctx context.Context, ev *domain.OutageEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *ev
	m.events = append(m.events, &cp)

	if ev.Kind == domain.EventEnded && ev.DurationSeconds != nil {
		m.outages = append(m.outages, domain.Outage{
			ID:              ev.ID,
			StartedAt:       ev.OutageStart,
			EndedAt:         ev.At,
			DurationSeconds: *ev.DurationSeconds,
			Unresolved:      ev.Unresolved,
		})
	}
	return nil
}

func (m *Store) RecordWindow(ctx context.Context, w *domain.WindowSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows = append(m.windows, *w)
	return nil
}

func (m *Store) ListOutages(ctx context.Context, limit int) ([]domain.Outage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.outages)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.Outage, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.outages[i])
	}
	return out, nil
}

func (m *Store) ListWindows(ctx context.Context, since time.Time) ([]domain.WindowSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.WindowSummary, 0, len(m.windows))
	for _, w := range m.windows {
		if !w.WindowStart.Before(since) {
			out = append(out, w)
		}
	}
	return out, nil
}

// Events returns everything recorded, oldest first. Test helper.
func (m *Store) Events() []*domain.OutageEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutageEvent, len(m.events))
	copy(out, m.events)
	return out
}
