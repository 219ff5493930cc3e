package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
	"github.com/emiliopalmerini/focusd/internal/ports"
)

// ClickSampleCap bounds the heatmap buffer per minute. The click counter
// itself is never capped; only position samples are dropped beyond this.
const ClickSampleCap = 10000

var errNoSubject = errors.New("no foreground subject resolved")

// liveCounters are the open counters for one subject in the current minute.
// Mouse distance is carried as a float so sub-pixel movements accumulate;
// it is rounded once at detach time.
type liveCounters struct {
	stat      domain.MinuteStat
	mouseDist float64
}

// Payload is a detached minute ready for persistence. It is handed to the
// caller outside the accumulator lock, so writing it never blocks capture.
type Payload struct {
	Minute          int64
	Stats           []domain.MinuteStat
	ClickSamples    []domain.ClickSample
	ClickOverflow   bool
	Keycodes        map[uint16]int64
	ContextSwitches int64
}

// Accumulator buffers normalized events into per-subject counters for the
// current wall-clock minute and detaches a complete minute when the clock
// advances. All mutable state sits behind a single mutex; the lock is never
// held across store I/O.
type Accumulator struct {
	subjects ports.SubjectRepository
	logger   *slog.Logger

	mu            sync.Mutex
	currentMinute int64
	counters      map[int64]*liveCounters
	clickSamples  []domain.ClickSample
	clickOverflow bool
	keycodes      map[uint16]int64
	switches      int64

	currentSubject int64
	lastInput      time.Time
	lastX, lastY   float64
	hasPointer     bool

	cache map[string]int64 // bundleID -> subject ID
}

func NewAccumulator(subjects ports.SubjectRepository, logger *slog.Logger) *Accumulator {
	return &Accumulator{
		subjects: subjects,
		logger:   logger,
		counters: make(map[int64]*liveCounters),
		keycodes: make(map[uint16]int64),
		cache:    make(map[string]int64),
	}
}

// Record absorbs one event. It returns the subject the event was attributed
// to and, when the event crossed a minute boundary, the detached payload for
// the finished minute. A resolution error means the event was dropped.
func (a *Accumulator) Record(ctx context.Context, ev domain.Event) (int64, *Payload, error) {
	subjectID, err := a.resolve(ctx, ev.Subject)
	if err != nil {
		return 0, nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	payload := a.rollLocked(domain.MinuteOf(ev.Timestamp))
	a.currentSubject = subjectID

	switch ev.Kind {
	case domain.EventFocusChanged:
		// Counted per minute and shipped as a raw context-switch record.
		a.switches++

	case domain.EventKeyDown:
		a.lastInput = ev.Timestamp
		if ev.AutoRepeat {
			// OS key repeat is not a discrete user action.
			break
		}
		c := a.countersLocked(subjectID)
		c.stat.Keystrokes++
		a.keycodes[ev.KeyCode]++

	case domain.EventPointerClick:
		a.lastInput = ev.Timestamp
		c := a.countersLocked(subjectID)
		c.stat.Clicks++
		if len(a.clickSamples) < ClickSampleCap {
			a.clickSamples = append(a.clickSamples, domain.ClickSample{X: ev.X, Y: ev.Y})
		} else {
			a.clickOverflow = true
		}

	case domain.EventScrollDelta:
		a.lastInput = ev.Timestamp
		c := a.countersLocked(subjectID)
		c.stat.ScrollDistance += int64(math.Round(math.Abs(ev.DX) + math.Abs(ev.DY)))

	case domain.EventPointerMove:
		a.lastInput = ev.Timestamp
		if a.hasPointer {
			dx := ev.X - a.lastX
			dy := ev.Y - a.lastY
			c := a.countersLocked(subjectID)
			c.mouseDist += math.Sqrt(dx*dx + dy*dy)
		}
		a.lastX, a.lastY = ev.X, ev.Y
		a.hasPointer = true

	}

	return subjectID, payload, nil
}

// ObserveSystem notes a power or session transition. Sleep and lock stop
// idle attribution until the next focus event re-establishes a subject, and
// invalidate the pointer position.
func (a *Accumulator) ObserveSystem(kind domain.SystemEventKind) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch kind {
	case domain.SystemSleep, domain.SystemLock:
		a.currentSubject = 0
		a.hasPointer = false
	}
}

// Snapshot performs the per-tick idle accounting and detaches the previous
// minute when the wall clock has crossed a boundary, so a quiet minute still
// gets flushed. Called by the flush scheduler once per second.
func (a *Accumulator) Snapshot(now time.Time) *Payload {
	a.mu.Lock()
	defer a.mu.Unlock()

	payload := a.rollLocked(domain.MinuteOf(now))

	if a.currentSubject != 0 {
		c := a.countersLocked(a.currentSubject)
		if !a.lastInput.IsZero() && now.Sub(a.lastInput) < time.Second {
			c.stat.ActiveSeconds++
		} else {
			c.stat.IdleSeconds++
		}
	}

	return payload
}

// Drain detaches whatever is currently open regardless of the minute
// boundary. Used exactly once, for the final flush on shutdown.
func (a *Accumulator) Drain() *Payload {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.detachLocked()
}

// rollLocked advances the live minute, detaching the finished one. The first
// minute assignment after start never flushes: there is nothing to detach.
// The roll is forward-only: a late-queued event carrying an already-flushed
// minute lands in the live bucket instead of stepping the clock backward.
func (a *Accumulator) rollLocked(minute int64) *Payload {
	if a.currentMinute == 0 {
		a.currentMinute = minute
		return nil
	}
	if minute <= a.currentMinute {
		return nil
	}
	payload := a.detachLocked()
	a.currentMinute = minute
	return payload
}

func (a *Accumulator) detachLocked() *Payload {
	if len(a.counters) == 0 && len(a.clickSamples) == 0 && len(a.keycodes) == 0 && a.switches == 0 {
		a.clickOverflow = false
		return nil
	}

	p := &Payload{
		Minute:          a.currentMinute,
		ClickSamples:    a.clickSamples,
		ClickOverflow:   a.clickOverflow,
		Keycodes:        a.keycodes,
		ContextSwitches: a.switches,
	}
	for id, c := range a.counters {
		st := c.stat
		st.Minute = a.currentMinute
		st.SubjectID = id
		st.MouseDistance += int64(math.Round(c.mouseDist))
		if st.HasCounters() {
			p.Stats = append(p.Stats, st)
		}
	}
	sort.Slice(p.Stats, func(i, j int) bool { return p.Stats[i].SubjectID < p.Stats[j].SubjectID })

	a.counters = make(map[int64]*liveCounters)
	a.clickSamples = nil
	a.clickOverflow = false
	a.keycodes = make(map[uint16]int64)
	a.switches = 0

	return p
}

func (a *Accumulator) countersLocked(subjectID int64) *liveCounters {
	c, ok := a.counters[subjectID]
	if !ok {
		c = &liveCounters{}
		a.counters[subjectID] = c
	}
	return c
}

// resolve maps a subject hint to a subject ID through the in-memory cache.
// A miss touches the store once per distinct app; the lock is released
// around that round trip.
func (a *Accumulator) resolve(ctx context.Context, hint domain.SubjectHint) (int64, error) {
	a.mu.Lock()
	if hint.BundleID == "" {
		id := a.currentSubject
		a.mu.Unlock()
		if id == 0 {
			return 0, errNoSubject
		}
		return id, nil
	}
	if id, ok := a.cache[hint.BundleID]; ok {
		a.mu.Unlock()
		return id, nil
	}
	a.mu.Unlock()

	subject, err := a.subjects.FindOrCreate(ctx, hint.BundleID, hint.DisplayName)
	if err != nil {
		return 0, fmt.Errorf("resolve subject %q: %w", hint.BundleID, err)
	}

	a.mu.Lock()
	a.cache[hint.BundleID] = subject.ID
	a.mu.Unlock()
	return subject.ID, nil
}
