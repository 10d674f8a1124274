package session

import (
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/catalog"
)

type State int

const (
	Idle State = iota
	Requesting
	Entering
	ValidatingTracking
	Active
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requesting:
		return "requesting"
	case Entering:
		return "entering"
	case ValidatingTracking:
		return "validating_tracking"
	case Active:
		return "active"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// sessionOpen reports whether the platform may hold a live AR session.
func (s State) sessionOpen() bool {
	return s == Entering || s == ValidatingTracking || s == Active
}

// Event is something that happened, delivered by the host.
type Event interface {
	eventName() string
}

type (
	UserStarted struct{ At time.Time }

	PlatformSessionReady struct{ At time.Time }

	// PlatformSessionError is an error raised by the AR runtime at any point
	// after the session was requested.
	PlatformSessionError struct {
		At  time.Time
		Err error
	}

	FrameRendered struct{ At time.Time }

	// Tick is a periodic clock event so deadlines fire even without frames.
	Tick struct{ At time.Time }

	TrackingResolved struct {
		At time.Time
		OK bool
	}

	UserSelectedItem struct {
		At time.Time
		ID string
	}

	UserToggledMenu struct{}

	UserOpenedList struct{}

	UserClosedOverlays struct{}

	UserRetried struct{ At time.Time }

	CatalogLoaded struct {
		At     time.Time
		Result catalog.Result
	}
)

func (UserStarted) eventName() string          { return "user_started" }
func (PlatformSessionReady) eventName() string { return "platform_session_ready" }
func (PlatformSessionError) eventName() string { return "platform_session_error" }
func (FrameRendered) eventName() string        { return "frame_rendered" }
func (Tick) eventName() string                 { return "tick" }
func (TrackingResolved) eventName() string     { return "tracking_resolved" }
func (UserSelectedItem) eventName() string     { return "user_selected_item" }
func (UserToggledMenu) eventName() string      { return "user_toggled_menu" }
func (UserOpenedList) eventName() string       { return "user_opened_list" }
func (UserClosedOverlays) eventName() string   { return "user_closed_overlays" }
func (UserRetried) eventName() string          { return "user_retried" }
func (CatalogLoaded) eventName() string        { return "catalog_loaded" }

// Name is the stable log name of an event.
func Name(ev Event) string { return ev.eventName() }

// Transition is one recorded state change.
type Transition struct {
	From  State
	To    State
	Event string
	At    time.Time
	// Failure is set on transitions into Failed.
	Failure *Failure
}
