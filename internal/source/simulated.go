package source

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

// simulatedApps is the rotation of fake subjects the simulator focuses.
var simulatedApps = []domain.SubjectHint{
	{BundleID: "com.example.editor", DisplayName: "Editor"},
	{BundleID: "com.example.browser", DisplayName: "Browser"},
	{BundleID: "com.example.terminal", DisplayName: "Terminal"},
	{BundleID: "com.example.chat", DisplayName: "Chat"},
}

// Simulated is an event source that fabricates plausible desktop activity.
// It exists for development and end-to-end testing on machines without OS
// hook permissions.
type Simulated struct {
	interval time.Duration
	events   chan domain.Event
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewSimulated returns a simulator emitting a burst of events every
// interval. A non-positive interval defaults to 50ms.
func NewSimulated(interval time.Duration) *Simulated {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &Simulated{
		interval: interval,
		events:   make(chan domain.Event, eventBuffer),
		stopCh:   make(chan struct{}),
	}
}

func (s *Simulated) Start(ctx context.Context) (<-chan domain.Event, error) {
	go s.loop(ctx)
	return s.events, nil
}

func (s *Simulated) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *Simulated) loop(ctx context.Context) {
	defer close(s.events)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	current := simulatedApps[0]
	x, y := 0.5, 0.5

	s.emit(domain.Event{Kind: domain.EventFocusChanged, Timestamp: time.Now(), Subject: current})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			switch rng.Intn(10) {
			case 0:
				current = simulatedApps[rng.Intn(len(simulatedApps))]
				s.emit(domain.Event{Kind: domain.EventFocusChanged, Timestamp: now, Subject: current})
			case 1, 2:
				s.emit(domain.Event{Kind: domain.EventPointerClick, Timestamp: now, Subject: current, X: rng.Float64(), Y: rng.Float64()})
			case 3:
				s.emit(domain.Event{Kind: domain.EventScrollDelta, Timestamp: now, Subject: current, DY: float64(rng.Intn(40) - 20)})
			case 4, 5:
				x += (rng.Float64() - 0.5) / 10
				y += (rng.Float64() - 0.5) / 10
				s.emit(domain.Event{Kind: domain.EventPointerMove, Timestamp: now, Subject: current, X: x, Y: y})
			default:
				s.emit(domain.Event{Kind: domain.EventKeyDown, Timestamp: now, Subject: current, KeyCode: uint16(rng.Intn(50))})
			}
		}
	}
}

func (s *Simulated) emit(ev domain.Event) {
	select {
	case s.events <- ev:
	default:
	}
}
