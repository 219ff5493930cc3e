package domain

import "time"

// EventKind identifies a normalized input event from the OS adapter.
type EventKind string

const (
	EventFocusChanged EventKind = "focus_changed"
	EventKeyDown      EventKind = "key_down"
	EventPointerClick EventKind = "pointer_click"
	EventScrollDelta  EventKind = "scroll_delta"
	EventPointerMove  EventKind = "pointer_move"
	EventSystem       EventKind = "system"
)

// SystemEventKind identifies power and session transitions.
type SystemEventKind string

const (
	SystemSleep  SystemEventKind = "sleep"
	SystemWake   SystemEventKind = "wake"
	SystemLock   SystemEventKind = "lock"
	SystemUnlock SystemEventKind = "unlock"
)

// SubjectHint carries the adapter's notion of the current foreground app.
// A zero hint means the collector keeps attributing to the last resolved subject.
type SubjectHint struct {
	BundleID    string
	DisplayName string
}

// Event is the normalized envelope produced by the event source adapter.
// Only the fields relevant to Kind are populated.
type Event struct {
	Kind      EventKind
	Timestamp time.Time
	Subject   SubjectHint

	// KeyDown
	KeyCode    uint16
	AutoRepeat bool

	// PointerClick / PointerMove: screen coordinates normalized to [0,1]
	X, Y float64

	// ScrollDelta
	DX, DY float64

	// System
	System SystemEventKind
}

// RawEventType identifies an auxiliary raw event kind.
type RawEventType string

const (
	RawKeycodeHistogram RawEventType = "keycode_histogram"
	RawClickPositions   RawEventType = "click_positions"
	RawContextSwitches  RawEventType = "context_switches"
	RawMeetingStart     RawEventType = "meeting_start"
	RawMeetingEnd       RawEventType = "meeting_end"
	RawSystemEvent      RawEventType = "system_event"
	RawTabTitle         RawEventType = "tab_title"
)

// RawEvent is an ephemeral envelope for auxiliary signals. The core only
// writes these; presentation reads them for heatmaps and the like.
type RawEvent struct {
	ID        string
	Timestamp time.Time
	Type      RawEventType
	Payload   []byte
}

// ClickSample is one normalized click position inside a minute bucket.
type ClickSample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
