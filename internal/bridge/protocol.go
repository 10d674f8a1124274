package bridge

import (
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/scene"
)

// Client event types.
const (
	EvHello       = "hello"
	EvStart       = "start"
	EvReady       = "ready"
	EvError       = "error"
	EvFrame       = "frame"
	EvSelect      = "select"
	EvToggleMenu  = "toggle_menu"
	EvShowList    = "show_list"
	EvClose       = "close"
	EvFilter      = "filter"
	EvClearFilter = "clear_filter"
	EvRetry       = "retry"
	EvReload      = "reload"
)

// Server ops.
const (
	OpCreateCard     = "create_card"
	OpDestroyCard    = "destroy_card"
	OpAnimate        = "animate"
	OpStopAnimation  = "stop_animation"
	OpRequestSession = "request_session"
	OpEndSession     = "end_session"
	OpView           = "view"
	OpState          = "state"
	OpError          = "error"
)

// ClientEvent is one message from the page. At is the page clock in unix
// milliseconds; it is only logged, deadlines run on the server clock.
type ClientEvent struct {
	Type    string      `json:"type"`
	At      int64       `json:"at,omitempty"`
	Pose    *model.Pose `json:"pose,omitempty"`
	ID      string      `json:"id,omitempty"`
	Message string      `json:"message,omitempty"`
	Query   string      `json:"query,omitempty"`
	Secure  *bool       `json:"secure,omitempty"`
	XR      *bool       `json:"xr,omitempty"`
}

// Op is one command to the page renderer.
type Op struct {
	Op        string           `json:"op"`
	ID        string           `json:"id,omitempty"`
	Name      string           `json:"name,omitempty"`
	Card      *scene.Card      `json:"card,omitempty"`
	Animation *model.Animation `json:"animation,omitempty"`
	State     string           `json:"state,omitempty"`
	Failure   *FailureInfo     `json:"failure,omitempty"`
	View      *ViewState       `json:"view,omitempty"`
	Message   string           `json:"message,omitempty"`
}

type FailureInfo struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// ViewState mirrors the overlay coordinator so the page can draw its DOM
// surfaces.
type ViewState struct {
	Mode        string       `json:"mode"`
	Filter      string       `json:"filter"`
	Visible     []string     `json:"visible"`
	Selected    *model.Item  `json:"selected,omitempty"`
	Diagnostic  string       `json:"diagnostic,omitempty"`
	FailMessage string       `json:"fail_message,omitempty"`
	Focus       bool         `json:"focus,omitempty"`
	Tracking    *TrackingBar `json:"tracking,omitempty"`
}

type TrackingBar struct {
	Moved    int `json:"moved"`
	Required int `json:"required"`
}
