// Package watchdog holds the two runtime checks run against a live AR
// session. Both are driven by the timestamps the host passes in; neither
// starts goroutines or reads the wall clock.
package watchdog

import (
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
)

type TrackingConfig struct {
	// Threshold is the per-frame delta (sum of absolute axis deltas, applied
	// separately to position and rotation) that counts as motion.
	Threshold float64
	// RequiredSamples is how many moving frames prove real 6DoF tracking.
	// They need not be consecutive.
	RequiredSamples int
	Deadline        time.Duration
}

func DefaultTrackingConfig() TrackingConfig {
	return TrackingConfig{Threshold: 0.02, RequiredSamples: 3, Deadline: 7 * time.Second}
}

// Tracking decides once whether the device is really being tracked. Motion
// is measured against the pose captured when the watch started.
type Tracking struct {
	cfg      TrackingConfig
	baseline model.Pose
	started  time.Time

	moved    int
	resolved bool
	verdict  bool
	at       time.Time
}

func NewTracking(cfg TrackingConfig, baseline model.Pose, start time.Time) *Tracking {
	return &Tracking{cfg: cfg, baseline: baseline, started: start}
}

// Observe feeds one rendered frame. done reports that the watch has resolved,
// either now or earlier; ok is the verdict.
func (t *Tracking) Observe(pose model.Pose, at time.Time) (ok, done bool) {
	if ok, done := t.Expire(at); done {
		return ok, done
	}
	dp := pose.Position.ManhattanDelta(t.baseline.Position)
	dr := pose.Rotation.ManhattanDelta(t.baseline.Rotation)
	if dp > t.cfg.Threshold || dr > t.cfg.Threshold {
		t.moved++
	}
	if t.moved >= t.cfg.RequiredSamples {
		t.resolve(true, at)
		return true, true
	}
	return false, false
}

// Expire resolves false once the deadline has passed. Hosts call it from
// periodic ticks so a stalled render loop still produces a verdict.
func (t *Tracking) Expire(at time.Time) (ok, done bool) {
	if t.resolved {
		return t.verdict, true
	}
	if at.Sub(t.started) >= t.cfg.Deadline {
		t.resolve(false, at)
		return false, true
	}
	return false, false
}

func (t *Tracking) resolve(ok bool, at time.Time) {
	t.resolved = true
	t.verdict = ok
	t.at = at
}

// Moved is the number of qualifying frames seen so far.
func (t *Tracking) Moved() int { return t.moved }

// Result returns the verdict and when it was reached.
func (t *Tracking) Result() (ok, done bool, at time.Time) {
	return t.verdict, t.resolved, t.at
}
