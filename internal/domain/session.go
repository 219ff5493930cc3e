package domain

import "time"

const (
	// DeepWorkMinDuration is the minimum length for a session to qualify
	// as deep work.
	DeepWorkMinDuration = 25 * time.Minute

	// DeepWorkMaxInterruptions is the exclusive upper bound on
	// interruptions for a deep-work session.
	DeepWorkMaxInterruptions = 3

	// DefaultGraceWindow is how long focus may leave a session's subject
	// before the session is considered ended.
	DefaultGraceWindow = 2 * time.Minute
)

// FocusSession is a continuous interval of focus on one subject. Departures
// shorter than the grace window count as interruptions instead of ending
// the session.
type FocusSession struct {
	ID            int64
	SubjectID     int64
	Start         time.Time
	End           time.Time
	Keystrokes    int64
	Interruptions int
	DeepWork      bool
}

// Duration returns the session length. Zero until the session is closed.
func (s FocusSession) Duration() time.Duration {
	if s.End.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

func (s *FocusSession) close(end time.Time) {
	if end.Before(s.Start) {
		end = s.Start
	}
	s.End = end
	s.DeepWork = s.Duration() >= DeepWorkMinDuration && s.Interruptions < DeepWorkMaxInterruptions
}

// SessionTracker is the focus-session state machine. It is not safe for
// concurrent use; the collector drives it from a single goroutine.
type SessionTracker struct {
	grace time.Duration

	current *FocusSession

	// pending* track a focus departure that has not yet exceeded the
	// grace window.
	pendingSubject int64
	pendingSince   time.Time
}

// NewSessionTracker returns a tracker with the given grace window.
// A non-positive grace falls back to DefaultGraceWindow.
func NewSessionTracker(grace time.Duration) *SessionTracker {
	if grace <= 0 {
		grace = DefaultGraceWindow
	}
	return &SessionTracker{grace: grace}
}

// expire closes the current session if a pending departure has outlived the
// grace window, and promotes the departed-to subject into a new session
// starting at the departure time. Returns the closed session, if any.
func (t *SessionTracker) expire(now time.Time) *FocusSession {
	if t.current == nil || t.pendingSince.IsZero() {
		return nil
	}
	if now.Sub(t.pendingSince) < t.grace {
		return nil
	}
	closed := t.current
	closed.close(t.pendingSince)
	t.current = &FocusSession{SubjectID: t.pendingSubject, Start: t.pendingSince}
	t.pendingSubject = 0
	t.pendingSince = time.Time{}
	return closed
}

// FocusChange processes a focus transition to subjectID at ts. It returns a
// closed session when the transition ends one, nil otherwise.
func (t *SessionTracker) FocusChange(subjectID int64, ts time.Time) *FocusSession {
	closed := t.expire(ts)

	if t.current == nil {
		t.current = &FocusSession{SubjectID: subjectID, Start: ts}
		return closed
	}

	if subjectID == t.current.SubjectID {
		if !t.pendingSince.IsZero() {
			// Came back within grace: one interruption, session survives.
			t.current.Interruptions++
			t.pendingSubject = 0
			t.pendingSince = time.Time{}
		}
		return closed
	}

	if t.pendingSince.IsZero() {
		t.pendingSince = ts
	}
	// Hopping between other apps while away keeps the original departure
	// time; only the latest destination can become the next session.
	t.pendingSubject = subjectID
	return closed
}

// KeyDown attributes one keystroke to the current session. Keystrokes typed
// while focus is away from the session's subject are not counted.
func (t *SessionTracker) KeyDown() {
	if t.current != nil && t.pendingSince.IsZero() {
		t.current.Keystrokes++
	}
}

// Tick lets the tracker observe the passage of time so that a departure can
// exceed the grace window without another focus event arriving.
func (t *SessionTracker) Tick(now time.Time) *FocusSession {
	return t.expire(now)
}

// Stop closes whatever session is open, ending it at the departure time if
// focus had already left, otherwise at now.
func (t *SessionTracker) Stop(now time.Time) *FocusSession {
	if t.current == nil {
		return nil
	}
	end := now
	if !t.pendingSince.IsZero() {
		end = t.pendingSince
	}
	closed := t.current
	closed.close(end)
	t.current = nil
	t.pendingSubject = 0
	t.pendingSince = time.Time{}
	return closed
}
