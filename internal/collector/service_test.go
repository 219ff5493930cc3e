package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type failingSource struct{}

func (failingSource) Start(context.Context) (<-chan domain.Event, error) {
	return nil, errors.New("event tap unavailable")
}

func (failingSource) Stop() {}

type scriptedSource struct {
	events   chan domain.Event
	stopOnce sync.Once
}

func newScriptedSource(events ...domain.Event) *scriptedSource {
	s := &scriptedSource{events: make(chan domain.Event, len(events))}
	for _, ev := range events {
		s.events <- ev
	}
	return s
}

func (s *scriptedSource) Start(context.Context) (<-chan domain.Event, error) {
	return s.events, nil
}

func (s *scriptedSource) Stop() {
	s.stopOnce.Do(func() { close(s.events) })
}

type fakeSessions struct {
	mu    sync.Mutex
	saved []domain.FocusSession
}

func (f *fakeSessions) Save(_ context.Context, s *domain.FocusSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, *s)
	return nil
}

func (f *fakeSessions) ListClosedBetween(context.Context, time.Time, time.Time) ([]domain.FocusSession, error) {
	return nil, nil
}

type fakeTitler struct {
	titles map[string]string
}

func (f fakeTitler) TabTitle(bundleID string) (string, bool) {
	title, ok := f.titles[bundleID]
	return title, ok
}

func allTracking() Tracking {
	return Tracking{Window: true, Input: true, System: true}
}

func newTestService(src *scriptedSource, sessions *fakeSessions, titler fakeTitler, tracking Tracking) (*Service, *fakeMinutes, *fakeRaws) {
	minutes := &fakeMinutes{}
	raws := &fakeRaws{}
	acc := NewAccumulator(newFakeSubjects(), testLogger())
	writer := NewWriter(minutes, raws, &fakeMetrics{}, testLogger())
	sched := NewScheduler(acc, writer, testLogger())
	svc := NewService(src, acc, sched, writer, sessions, titler, tracking, testLogger())
	return svc, minutes, raws
}

func runAndStop(t *testing.T, svc *Service, src *scriptedSource) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- svc.Run(context.Background()) }()

	// Let the loop drain the scripted events before shutdown
	time.Sleep(20 * time.Millisecond)
	svc.Stop()
	if err := <-done; err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestService_StopAfterFailedStartReturns(t *testing.T) {
	acc := NewAccumulator(newFakeSubjects(), testLogger())
	writer := NewWriter(&fakeMinutes{}, &fakeRaws{}, &fakeMetrics{}, testLogger())
	sched := NewScheduler(acc, writer, testLogger())
	svc := NewService(failingSource{}, acc, sched, writer, &fakeSessions{}, fakeTitler{}, allTracking(), testLogger())

	if err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected Run to fail when the source cannot start")
	}

	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed start")
	}
}

func TestService_FlushesCountersAndSavesSessionOnStop(t *testing.T) {
	ts := testEpoch
	src := newScriptedSource(
		domain.Event{Kind: domain.EventFocusChanged, Timestamp: ts, Subject: hintA()},
		keyDown(ts.Add(time.Second), false),
		keyDown(ts.Add(2*time.Second), false),
		domain.Event{Kind: domain.EventPointerClick, Timestamp: ts.Add(3 * time.Second), Subject: hintA(), X: 0.5, Y: 0.5},
	)
	sessions := &fakeSessions{}
	svc, minutes, _ := newTestService(src, sessions, fakeTitler{}, allTracking())

	runAndStop(t, svc, src)

	var keystrokes, clicks int64
	for _, u := range minutes.upserts {
		keystrokes += u.Keystrokes
		clicks += u.Clicks
	}
	if keystrokes != 2 || clicks != 1 {
		t.Errorf("expected 2 keystrokes and 1 click flushed, got %d and %d", keystrokes, clicks)
	}

	if len(sessions.saved) != 1 {
		t.Fatalf("expected 1 session saved on stop, got %d", len(sessions.saved))
	}
	if sessions.saved[0].Keystrokes != 2 {
		t.Errorf("expected session to count 2 keystrokes, got %d", sessions.saved[0].Keystrokes)
	}
}

func TestService_DisabledChannelsAreIgnored(t *testing.T) {
	ts := testEpoch
	src := newScriptedSource(
		domain.Event{Kind: domain.EventFocusChanged, Timestamp: ts, Subject: hintA()},
		keyDown(ts.Add(time.Second), false),
	)
	sessions := &fakeSessions{}
	tracking := allTracking()
	tracking.Input = false
	svc, minutes, _ := newTestService(src, sessions, fakeTitler{}, tracking)

	runAndStop(t, svc, src)

	for _, u := range minutes.upserts {
		if u.Keystrokes != 0 {
			t.Errorf("expected no keystrokes with input tracking off, got %d", u.Keystrokes)
		}
	}
}

func TestService_SleepClosesSessionAndRecordsSystemEvent(t *testing.T) {
	ts := testEpoch
	src := newScriptedSource(
		domain.Event{Kind: domain.EventFocusChanged, Timestamp: ts, Subject: hintA()},
		keyDown(ts.Add(time.Second), false),
		domain.Event{Kind: domain.EventSystem, Timestamp: ts.Add(2 * time.Second), System: domain.SystemSleep},
	)
	sessions := &fakeSessions{}
	svc, _, raws := newTestService(src, sessions, fakeTitler{}, allTracking())

	runAndStop(t, svc, src)

	if len(sessions.saved) != 1 {
		t.Fatalf("expected sleep to close the session, got %d saved", len(sessions.saved))
	}

	var sawSystem bool
	for _, ev := range raws.appended {
		if ev.Type == domain.RawSystemEvent {
			sawSystem = true
		}
	}
	if !sawSystem {
		t.Error("expected a system raw event")
	}
}

func TestService_TabTitleEnrichment(t *testing.T) {
	ts := testEpoch
	browser := domain.SubjectHint{BundleID: "com.example.browser", DisplayName: "Browser"}
	src := newScriptedSource(
		domain.Event{Kind: domain.EventFocusChanged, Timestamp: ts, Subject: browser},
	)
	titler := fakeTitler{titles: map[string]string{"com.example.browser": "Weekly report"}}
	sessions := &fakeSessions{}
	svc, _, raws := newTestService(src, sessions, titler, allTracking())

	runAndStop(t, svc, src)

	var sawTitle bool
	for _, ev := range raws.appended {
		if ev.Type == domain.RawTabTitle {
			sawTitle = true
		}
	}
	if !sawTitle {
		t.Error("expected a tab title raw event")
	}
}

func TestService_MeetingTransitions(t *testing.T) {
	ts := testEpoch
	zoom := domain.SubjectHint{BundleID: "us.zoom.xos", DisplayName: "Zoom"}
	src := newScriptedSource(
		domain.Event{Kind: domain.EventFocusChanged, Timestamp: ts, Subject: hintA()},
		domain.Event{Kind: domain.EventFocusChanged, Timestamp: ts.Add(time.Minute), Subject: zoom},
		domain.Event{Kind: domain.EventFocusChanged, Timestamp: ts.Add(2 * time.Minute), Subject: hintA()},
	)
	sessions := &fakeSessions{}
	svc, _, raws := newTestService(src, sessions, fakeTitler{}, allTracking())

	runAndStop(t, svc, src)

	var starts, ends int
	for _, ev := range raws.appended {
		switch ev.Type {
		case domain.RawMeetingStart:
			starts++
		case domain.RawMeetingEnd:
			ends++
		}
	}
	if starts != 1 || ends != 1 {
		t.Errorf("expected one meeting start and end, got %d and %d", starts, ends)
	}
}
