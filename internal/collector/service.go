package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
	"github.com/emiliopalmerini/focusd/internal/ports"
)

// Tracking mirrors the capture toggles from configuration.
type Tracking struct {
	Window bool
	Input  bool
	System bool
}

// meetingBundles are the apps whose foreground focus marks a meeting.
var meetingBundles = map[string]bool{
	"us.zoom.xos":             true,
	"com.microsoft.teams2":    true,
	"com.cisco.webexmeetings": true,
	"com.google.meet":         true,
	"com.facetime.FaceTime":   true,
}

// Service is the collector composition: it consumes the event source,
// feeds the accumulator and the session tracker, and owns the shutdown
// choreography (source off, then one final flush, then stopped).
type Service struct {
	source   ports.EventSource
	acc      *Accumulator
	sched    *Scheduler
	writer   *Writer
	sessions *domain.SessionTracker
	repo     ports.FocusSessionRepository
	titler   ports.TabTitler
	tracking Tracking
	logger   *slog.Logger

	stopOnce sync.Once
	loopDone chan struct{}

	inMeeting bool
}

func NewService(
	source ports.EventSource,
	acc *Accumulator,
	sched *Scheduler,
	writer *Writer,
	repo ports.FocusSessionRepository,
	titler ports.TabTitler,
	tracking Tracking,
	logger *slog.Logger,
) *Service {
	return &Service{
		source:   source,
		acc:      acc,
		sched:    sched,
		writer:   writer,
		sessions: domain.NewSessionTracker(domain.DefaultGraceWindow),
		repo:     repo,
		titler:   titler,
		tracking: tracking,
		logger:   logger,
		loopDone: make(chan struct{}),
	}
}

// Run consumes the event source until it is stopped. It blocks; callers run
// it in a goroutine and shut down through Stop.
func (c *Service) Run(ctx context.Context) error {
	go c.sched.Run(ctx)

	events, err := c.source.Start(ctx)
	if err != nil {
		// Stop waits on loopDone; a loop that never started must not
		// leave it open.
		close(c.loopDone)
		return fmt.Errorf("start event source: %w", err)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	defer close(c.loopDone)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.handle(ctx, ev)
		case now := <-ticker.C:
			// A departure can outlive the grace window with no
			// further focus events; close the session anyway.
			if closed := c.sessions.Tick(now); closed != nil {
				c.saveSession(ctx, closed)
			}
		}
	}
}

// Stop disables the event source, waits for in-flight events to drain,
// closes the open focus session, and performs the final flush. The collector
// is only stopped once this returns.
func (c *Service) Stop() {
	c.stopOnce.Do(func() {
		c.source.Stop()
		<-c.loopDone

		ctx := context.Background()
		if closed := c.sessions.Stop(time.Now()); closed != nil {
			c.saveSession(ctx, closed)
		}
		c.sched.Stop()
	})
}

func (c *Service) handle(ctx context.Context, ev domain.Event) {
	if !c.enabled(ev.Kind) {
		return
	}

	if ev.Kind == domain.EventSystem {
		c.acc.ObserveSystem(ev.System)
		c.writer.AppendEvent(ctx, ev.Timestamp, domain.RawSystemEvent, map[string]string{"kind": string(ev.System)})
		if ev.System == domain.SystemSleep || ev.System == domain.SystemLock {
			if closed := c.sessions.Stop(ev.Timestamp); closed != nil {
				c.saveSession(ctx, closed)
			}
		}
		return
	}

	subjectID, payload, err := c.acc.Record(ctx, ev)
	if err != nil {
		// Never mis-attribute: an unresolvable event is dropped.
		c.logger.Debug("dropping event, subject unresolved", slog.String("kind", string(ev.Kind)), slog.Any("error", err))
		return
	}
	if payload != nil {
		c.sched.Enqueue(payload)
	}

	switch ev.Kind {
	case domain.EventFocusChanged:
		if closed := c.sessions.FocusChange(subjectID, ev.Timestamp); closed != nil {
			c.saveSession(ctx, closed)
		}
		c.trackMeeting(ctx, ev)
		if title, ok := c.titler.TabTitle(ev.Subject.BundleID); ok {
			c.writer.AppendEvent(ctx, ev.Timestamp, domain.RawTabTitle,
				map[string]string{"bundle_id": ev.Subject.BundleID, "title": title})
		}
	case domain.EventKeyDown:
		if !ev.AutoRepeat {
			c.sessions.KeyDown()
		}
	}
}

func (c *Service) enabled(kind domain.EventKind) bool {
	switch kind {
	case domain.EventFocusChanged:
		return c.tracking.Window
	case domain.EventKeyDown, domain.EventPointerClick, domain.EventScrollDelta, domain.EventPointerMove:
		return c.tracking.Input
	case domain.EventSystem:
		return c.tracking.System
	default:
		return false
	}
}

func (c *Service) saveSession(ctx context.Context, session *domain.FocusSession) {
	if err := c.repo.Save(ctx, session); err != nil {
		c.logger.Error("save focus session failed",
			slog.Int64("subject_id", session.SubjectID),
			slog.Time("start", session.Start),
			slog.Any("error", err))
	}
}

func (c *Service) trackMeeting(ctx context.Context, ev domain.Event) {
	meeting := meetingBundles[ev.Subject.BundleID]
	switch {
	case meeting && !c.inMeeting:
		c.inMeeting = true
		c.writer.AppendEvent(ctx, ev.Timestamp, domain.RawMeetingStart, map[string]string{"bundle_id": ev.Subject.BundleID})
	case !meeting && c.inMeeting:
		c.inMeeting = false
		c.writer.AppendEvent(ctx, ev.Timestamp, domain.RawMeetingEnd, nil)
	}
}
