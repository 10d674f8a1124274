package session

import "fmt"

// FailureKind is the cause of a terminal session failure.
type FailureKind int

const (
	InsecureContext FailureKind = iota + 1
	CapabilityMissing
	SessionEntryTimeout
	SessionEntryRejected
	TrackingNotEstablished
	PerformanceDegraded
)

func (k FailureKind) String() string {
	switch k {
	case InsecureContext:
		return "insecure_context"
	case CapabilityMissing:
		return "capability_missing"
	case SessionEntryTimeout:
		return "session_entry_timeout"
	case SessionEntryRejected:
		return "session_entry_rejected"
	case TrackingNotEstablished:
		return "tracking_not_established"
	case PerformanceDegraded:
		return "performance_degraded"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// Retryable kinds are detected before any session is requested, so pressing
// start again is safe without a reload.
func (k FailureKind) Retryable() bool {
	return k == InsecureContext || k == CapabilityMissing
}

// Failure is the single authoritative reason a session ended.
type Failure struct {
	Kind FailureKind
	// Detail is the triggering condition, e.g. a platform error message or
	// the measured frame rate.
	Detail string
}

func (f *Failure) Error() string {
	if f.Detail == "" {
		return "session failed: " + f.Kind.String()
	}
	return "session failed: " + f.Kind.String() + ": " + f.Detail
}

// Message is the user-facing diagnostic for the fail surface.
func (f *Failure) Message() string {
	switch f.Kind {
	case InsecureContext:
		return "AR needs a secure (HTTPS) page. Open the showcase over https:// and try again."
	case CapabilityMissing:
		return "WebXR AR is not available in this browser. Open the page in Chrome on an ARCore-capable Android phone, not inside an in-app browser."
	case SessionEntryTimeout:
		return "The AR session did not open in time. Update Chrome and Google Play Services for AR, then retry."
	case SessionEntryRejected:
		if f.Detail == "" {
			return "AR could not start."
		}
		return "AR could not start: " + f.Detail
	case TrackingNotEstablished:
		return "6DoF tracking did not start. Move the phone slowly around a well-lit, textured area and retry."
	case PerformanceDegraded:
		msg := "The frame rate is too low"
		if f.Detail != "" {
			msg += " (" + f.Detail + ")"
		}
		return msg + ". Try lighter content or a stronger phone."
	default:
		return f.Error()
	}
}
