package watchdog

import (
	"testing"
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

const frame = 16 * time.Millisecond

func at(n int) time.Time { return t0.Add(time.Duration(n) * frame) }

func still() model.Pose { return model.Pose{Position: model.Vec3{Y: 1.6}} }

func moved(dx float64) model.Pose {
	p := still()
	p.Position.X += dx
	return p
}

func TestTracking_ResolvesTrueOnThirdMovingFrame(t *testing.T) {
	w := NewTracking(DefaultTrackingConfig(), still(), t0)
	motion := map[int]bool{10: true, 55: true, 80: true}

	for n := 1; n <= 400; n++ {
		pose := still()
		if motion[n] {
			pose = moved(0.05)
		}
		ok, done := w.Observe(pose, at(n))
		if n < 80 {
			require.False(t, done, "frame %d", n)
			continue
		}
		require.True(t, done)
		assert.True(t, ok)
		_, _, when := w.Result()
		assert.Equal(t, at(80), when, "resolves at frame 80, not at the deadline")
		return
	}
	t.Fatal("never resolved")
}

func TestTracking_RotationCounts(t *testing.T) {
	w := NewTracking(DefaultTrackingConfig(), still(), t0)
	turned := still()
	turned.Rotation.Y = 0.1
	for n := 1; n <= 3; n++ {
		w.Observe(turned, at(n))
	}
	ok, done, _ := w.Result()
	assert.True(t, done)
	assert.True(t, ok)
}

func TestTracking_JitterBelowThresholdIgnored(t *testing.T) {
	w := NewTracking(DefaultTrackingConfig(), still(), t0)
	for n := 1; n <= 50; n++ {
		_, done := w.Observe(moved(0.005), at(n))
		require.False(t, done)
	}
	assert.Equal(t, 0, w.Moved())
}

func TestTracking_ResolvesFalseAtDeadline(t *testing.T) {
	cfg := DefaultTrackingConfig()
	w := NewTracking(cfg, still(), t0)

	_, done := w.Observe(moved(0.05), t0.Add(time.Second))
	require.False(t, done)
	_, done = w.Expire(t0.Add(cfg.Deadline - time.Millisecond))
	require.False(t, done)

	ok, done := w.Expire(t0.Add(cfg.Deadline))
	assert.True(t, done)
	assert.False(t, ok)

	// One-shot: later motion cannot flip the verdict.
	for n := 0; n < 5; n++ {
		ok, done = w.Observe(moved(1), t0.Add(cfg.Deadline+time.Second))
	}
	assert.True(t, done)
	assert.False(t, ok)
}

func TestTracking_MotionAfterDeadlineDoesNotCount(t *testing.T) {
	cfg := DefaultTrackingConfig()
	w := NewTracking(cfg, still(), t0)
	w.Observe(moved(0.05), t0.Add(time.Second))
	w.Observe(moved(0.05), t0.Add(2*time.Second))

	ok, done := w.Observe(moved(0.05), t0.Add(cfg.Deadline))
	assert.True(t, done)
	assert.False(t, ok)
	assert.Equal(t, 2, w.Moved())
}

// feed plays fps frames evenly across each one-second window, starting from
// the first post-warmup frame.
func feed(p *Performance, start time.Time, fps []int) (firedAfter int) {
	p.Frame(start)
	cursor := start
	for i, f := range fps {
		step := time.Second / time.Duration(f)
		for k := 1; k <= f; k++ {
			ts := cursor.Add(time.Duration(k) * step)
			if k == f {
				ts = cursor.Add(time.Second)
			}
			if p.Frame(ts) {
				return i + 1
			}
		}
		cursor = cursor.Add(time.Second)
	}
	return 0
}

func TestPerformance_ThreeLowSamplesFire(t *testing.T) {
	cfg := DefaultPerformanceConfig()
	p := NewPerformance(cfg, t0)
	assert.Equal(t, 3, feed(p, t0.Add(cfg.Warmup), []int{10, 10, 10}))
	assert.True(t, p.Fired())

	s, ok := p.Last()
	require.True(t, ok)
	assert.InDelta(t, 10, s.FPS, 1e-9)
	assert.True(t, s.Low)
}

func TestPerformance_HealthySampleResetsStreak(t *testing.T) {
	cfg := DefaultPerformanceConfig()
	p := NewPerformance(cfg, t0)
	assert.Equal(t, 5, feed(p, t0.Add(cfg.Warmup), []int{10, 20, 10, 10, 10}))
}

func TestPerformance_WarmupIgnored(t *testing.T) {
	cfg := DefaultPerformanceConfig()
	p := NewPerformance(cfg, t0)

	// One frame every two seconds for the whole warm-up: 0.5 fps.
	for ts := t0; ts.Before(t0.Add(cfg.Warmup)); ts = ts.Add(2 * time.Second) {
		assert.False(t, p.Frame(ts))
	}
	_, ok := p.Last()
	assert.False(t, ok, "no samples during warm-up")
	assert.False(t, p.Fired())
}

func TestPerformance_HealthyNeverFires(t *testing.T) {
	cfg := DefaultPerformanceConfig()
	p := NewPerformance(cfg, t0)
	assert.Equal(t, 0, feed(p, t0.Add(cfg.Warmup), []int{60, 30, 15, 16, 59, 60}))
	assert.Equal(t, 0, p.LowStreak())
}

func TestPerformance_FiresOnce(t *testing.T) {
	cfg := DefaultPerformanceConfig()
	p := NewPerformance(cfg, t0)
	require.Equal(t, 3, feed(p, t0.Add(cfg.Warmup), []int{5, 5, 5}))
	assert.Equal(t, 0, feed(p, t0.Add(cfg.Warmup+10*time.Second), []int{5, 5, 5, 5}))
}
