package watchdog

import "time"

type PerformanceConfig struct {
	// Warmup is ignored entirely; scene population depresses early frame rate.
	Warmup   time.Duration
	Interval time.Duration
	MinFPS   float64
	// LowSamples consecutive samples below MinFPS trigger the failure.
	LowSamples int
}

func DefaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{
		Warmup:     9 * time.Second,
		Interval:   time.Second,
		MinFPS:     15,
		LowSamples: 3,
	}
}

// Sample is one frame-rate measurement.
type Sample struct {
	At  time.Time
	FPS float64
	Low bool
}

// Performance watches render cadence for the whole active session and fires
// at most once.
type Performance struct {
	cfg   PerformanceConfig
	armed time.Time

	windowStart time.Time
	windowOpen  bool
	frames      int

	low     int
	fired   bool
	last    Sample
	samples int
}

func NewPerformance(cfg PerformanceConfig, armed time.Time) *Performance {
	return &Performance{cfg: cfg, armed: armed}
}

// Frame records one rendered frame at the given time. It returns true on the
// frame that completes the last of LowSamples consecutive low samples, and
// false forever after.
func (p *Performance) Frame(at time.Time) bool {
	if p.fired {
		return false
	}
	if at.Sub(p.armed) < p.cfg.Warmup {
		return false
	}
	if !p.windowOpen {
		p.windowOpen = true
		p.windowStart = at
		p.frames = 0
		return false
	}

	p.frames++
	elapsed := at.Sub(p.windowStart)
	if elapsed < p.cfg.Interval {
		return false
	}

	fps := float64(p.frames) * float64(time.Second) / float64(elapsed)
	p.samples++
	p.last = Sample{At: at, FPS: fps, Low: fps < p.cfg.MinFPS}
	p.windowStart = at
	p.frames = 0

	if !p.last.Low {
		p.low = 0
		return false
	}
	p.low++
	if p.low >= p.cfg.LowSamples {
		p.fired = true
		return true
	}
	return false
}

func (p *Performance) Fired() bool { return p.fired }

// Last is the most recent sample; ok is false before the first one.
func (p *Performance) Last() (s Sample, ok bool) {
	return p.last, p.samples > 0
}

// LowStreak is the current run of consecutive low samples.
func (p *Performance) LowStreak() int { return p.low }
