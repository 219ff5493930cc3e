// Package source provides event source adapters: shims that normalize
// OS-level hook callbacks into the collector's event vocabulary.
package source

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

// eventBuffer bounds how many normalized events may sit between the OS hook
// thread and the collector. Input devices top out at a few hundred events
// per second; a stalled consumer drops instead of growing.
const eventBuffer = 1024

// Adapter normalizes raw OS hook callbacks into domain events. The hook
// integration calls the push methods from whatever thread the host event
// loop uses; the adapter is safe for that.
type Adapter struct {
	logger  *slog.Logger
	events  chan domain.Event
	stopped atomic.Bool
	dropped atomic.Int64
}

func NewAdapter(logger *slog.Logger) *Adapter {
	return &Adapter{
		logger: logger,
		events: make(chan domain.Event, eventBuffer),
	}
}

// Start returns the normalized event stream. The channel closes after Stop.
func (a *Adapter) Start(ctx context.Context) (<-chan domain.Event, error) {
	return a.events, nil
}

// Stop disables further event intake and closes the stream once callers
// can no longer race with a final flush.
func (a *Adapter) Stop() {
	if a.stopped.CompareAndSwap(false, true) {
		close(a.events)
	}
}

// Dropped returns how many events were discarded because the collector
// could not keep up.
func (a *Adapter) Dropped() int64 {
	return a.dropped.Load()
}

func (a *Adapter) push(ev domain.Event) {
	if a.stopped.Load() {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	select {
	case a.events <- ev:
	default:
		if a.dropped.Add(1) == 1 {
			a.logger.Warn("event buffer full, dropping events")
		}
	}
}

// FocusChanged reports that the foreground application changed.
func (a *Adapter) FocusChanged(bundleID, displayName string, ts time.Time) {
	a.push(domain.Event{
		Kind:      domain.EventFocusChanged,
		Timestamp: ts,
		Subject:   domain.SubjectHint{BundleID: bundleID, DisplayName: displayName},
	})
}

// KeyDown reports a key press. autoRepeat marks OS-generated key repeats.
func (a *Adapter) KeyDown(hint domain.SubjectHint, keyCode uint16, autoRepeat bool, ts time.Time) {
	a.push(domain.Event{
		Kind:       domain.EventKeyDown,
		Timestamp:  ts,
		Subject:    hint,
		KeyCode:    keyCode,
		AutoRepeat: autoRepeat,
	})
}

// PointerClick reports a click at normalized screen coordinates.
func (a *Adapter) PointerClick(hint domain.SubjectHint, x, y float64, ts time.Time) {
	a.push(domain.Event{Kind: domain.EventPointerClick, Timestamp: ts, Subject: hint, X: x, Y: y})
}

// ScrollDelta reports scroll wheel movement.
func (a *Adapter) ScrollDelta(hint domain.SubjectHint, dx, dy float64, ts time.Time) {
	a.push(domain.Event{Kind: domain.EventScrollDelta, Timestamp: ts, Subject: hint, DX: dx, DY: dy})
}

// PointerMove reports the pointer position at normalized screen coordinates.
func (a *Adapter) PointerMove(hint domain.SubjectHint, x, y float64, ts time.Time) {
	a.push(domain.Event{Kind: domain.EventPointerMove, Timestamp: ts, Subject: hint, X: x, Y: y})
}

// System reports a power or session transition.
func (a *Adapter) System(kind domain.SystemEventKind, ts time.Time) {
	a.push(domain.Event{Kind: domain.EventSystem, Timestamp: ts, System: kind})
}
