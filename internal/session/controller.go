// Package session runs the AR session lifecycle: entry, tracking validation,
// the active showcase, and the single terminal failure.
package session

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/layout"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/scene"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/view"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/watchdog"
)

type Config struct {
	EntryTimeout time.Duration
	// Tracking.Deadline caps the tracking validation window.
	Tracking    watchdog.TrackingConfig
	Performance watchdog.PerformanceConfig
	Layout      layout.Params
}

func DefaultConfig() Config {
	return Config{
		EntryTimeout: 5500 * time.Millisecond,
		Tracking:     watchdog.DefaultTrackingConfig(),
		Performance:  watchdog.DefaultPerformanceConfig(),
		Layout:       layout.DefaultParams(),
	}
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithConfig(cfg Config) Option {
	return func(c *Controller) { c.cfg = cfg }
}

// OnTransition registers fn to be called after every state change.
func OnTransition(fn func(Transition)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.listeners = append(c.listeners, fn)
		}
	}
}

// Controller is the session context. It is not safe for concurrent use;
// hosts deliver events from a single goroutine.
type Controller struct {
	cfg      Config
	scene    scene.Scene
	platform scene.Platform
	view     *view.Coordinator
	log      *slog.Logger

	state   State
	failure *Failure
	history []Transition

	listeners []func(Transition)

	catalog    model.Catalog
	diagnostic string

	entryDeadline time.Time
	tracking      *watchdog.Tracking
	perf          *watchdog.Performance

	placed []model.PlacedCard
	cards  []string
	pulses map[string]time.Time
}

func New(sc scene.Scene, pf scene.Platform, opts ...Option) *Controller {
	c := &Controller{
		cfg:      DefaultConfig(),
		scene:    sc,
		platform: pf,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		catalog:  model.Catalog{Items: []model.Item{}},
		pulses:   map[string]time.Time{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.view = view.New(func() bool { return c.state == Active })
	return c
}

func (c *Controller) State() State { return c.state }

// Failure is the reported failure, or nil.
func (c *Controller) Failure() *Failure { return c.failure }

func (c *Controller) View() *view.Coordinator { return c.view }

func (c *Controller) Catalog() model.Catalog { return c.catalog }

// Placed is the current ring; empty unless Active.
func (c *Controller) Placed() []model.PlacedCard { return c.placed }

func (c *Controller) History() []Transition {
	return append([]Transition(nil), c.history...)
}

func (c *Controller) Config() Config { return c.cfg }

// TrackingProgress reports moving frames seen against the required count
// while tracking is being validated.
func (c *Controller) TrackingProgress() (moved, required int) {
	if c.tracking == nil {
		return 0, c.cfg.Tracking.RequiredSamples
	}
	return c.tracking.Moved(), c.cfg.Tracking.RequiredSamples
}

// FrameRate is the latest performance sample of the active session.
func (c *Controller) FrameRate() (watchdog.Sample, bool) {
	if c.perf == nil {
		return watchdog.Sample{}, false
	}
	return c.perf.Last()
}

// Handle applies one event. Events are processed strictly in call order.
// Once Failed, only UserRetried and CatalogLoaded have any effect.
func (c *Controller) Handle(ev Event) {
	switch e := ev.(type) {
	case UserRetried:
		c.retry(e.At)
		return
	case CatalogLoaded:
		c.loadCatalog(e)
		return
	}

	if c.state == Failed {
		c.log.Debug("event ignored after failure", "event", Name(ev))
		return
	}

	switch e := ev.(type) {
	case UserStarted:
		c.start(e.At)
	case PlatformSessionReady:
		c.sessionReady(e.At)
	case PlatformSessionError:
		c.sessionError(e)
	case FrameRendered:
		c.frame(e.At)
	case Tick:
		c.tick(e.At)
	case TrackingResolved:
		c.trackingResolved(e)
	case UserSelectedItem:
		c.selectItem(e)
	case UserToggledMenu:
		c.view.ToggleMenu()
	case UserOpenedList:
		c.view.ShowList()
	case UserClosedOverlays:
		c.view.CloseOverlays()
	default:
		c.log.Warn("unknown event", "event", fmt.Sprintf("%T", ev))
	}
}

func (c *Controller) start(at time.Time) {
	if c.state != Idle {
		return
	}
	if c.failure != nil {
		if !c.failure.Kind.Retryable() {
			return
		}
		c.failure = nil
		c.view.Reset()
	}

	const ev = "user_started"
	c.setState(Requesting, ev, at, nil)
	if !c.platform.SecureContext() {
		c.fail(InsecureContext, "", ev, at)
		return
	}
	if !c.platform.XRAvailable() {
		c.fail(CapabilityMissing, "", ev, at)
		return
	}

	c.entryDeadline = at.Add(c.cfg.EntryTimeout)
	c.setState(Entering, ev, at, nil)
	if err := c.platform.RequestSession(); err != nil {
		c.fail(SessionEntryRejected, err.Error(), ev, at)
	}
}

func (c *Controller) sessionReady(at time.Time) {
	if c.state != Entering {
		c.log.Debug("session ready ignored", "state", c.state.String())
		return
	}
	// A confirmation past the deadline loses to the timeout.
	if c.checkEntry(at, "platform_session_ready") {
		return
	}
	c.entryDeadline = time.Time{}
	c.tracking = watchdog.NewTracking(c.cfg.Tracking, c.scene.CameraPose(), at)
	c.setState(ValidatingTracking, "platform_session_ready", at, nil)
}

func (c *Controller) sessionError(e PlatformSessionError) {
	if !c.state.sessionOpen() {
		return
	}
	detail := ""
	if e.Err != nil {
		detail = e.Err.Error()
	}
	c.fail(SessionEntryRejected, detail, "platform_session_error", e.At)
}

func (c *Controller) frame(at time.Time) {
	c.expirePulses(at)
	switch c.state {
	case Entering:
		c.checkEntry(at, "frame_rendered")
	case ValidatingTracking:
		if ok, done := c.tracking.Observe(c.scene.CameraPose(), at); done {
			c.trackingResolved(TrackingResolved{At: at, OK: ok})
		}
	case Active:
		if c.perf.Frame(at) {
			s, _ := c.perf.Last()
			c.fail(PerformanceDegraded, fmt.Sprintf("%.1f fps", s.FPS), "frame_rendered", at)
		}
	}
}

func (c *Controller) tick(at time.Time) {
	c.expirePulses(at)
	switch c.state {
	case Entering:
		c.checkEntry(at, "tick")
	case ValidatingTracking:
		if ok, done := c.tracking.Expire(at); done {
			c.trackingResolved(TrackingResolved{At: at, OK: ok})
		}
	}
}

// checkEntry fails the session once the entry deadline has passed and
// reports whether it did.
func (c *Controller) checkEntry(at time.Time, ev string) bool {
	if c.entryDeadline.IsZero() || at.Before(c.entryDeadline) {
		return false
	}
	c.fail(SessionEntryTimeout, "", ev, at)
	return true
}

func (c *Controller) trackingResolved(e TrackingResolved) {
	if c.state != ValidatingTracking {
		return
	}
	if ok, done := c.tracking.Expire(e.At); done && !ok {
		e.OK = false
	}
	if !e.OK {
		c.fail(TrackingNotEstablished, "", "tracking_resolved", e.At)
		return
	}
	c.setState(Active, "tracking_resolved", e.At, nil)
	c.view.CloseOverlays()
	c.render()
	c.perf = watchdog.NewPerformance(c.cfg.Performance, e.At)
}

func (c *Controller) selectItem(e UserSelectedItem) {
	it, ok := c.catalog.ItemByID(e.ID)
	if !ok {
		c.log.Debug("select ignored, unknown item", "id", e.ID)
		return
	}
	c.view.ShowDetail(it)
	if c.state != Active || !c.hasCard(e.ID) {
		return
	}
	if err := c.scene.Animate(e.ID, layout.Pulse()); err != nil {
		c.log.Warn("pulse failed", "id", e.ID, "error", err)
		return
	}
	c.pulses[e.ID] = e.At.Add(layout.PulseHold)
}

func (c *Controller) expirePulses(at time.Time) {
	for id, until := range c.pulses {
		if at.Before(until) {
			continue
		}
		delete(c.pulses, id)
		if err := c.scene.StopAnimation(id, layout.AnimPulse); err != nil {
			c.log.Debug("stop pulse", "id", id, "error", err)
		}
	}
}

func (c *Controller) loadCatalog(e CatalogLoaded) {
	c.catalog = e.Result.Catalog
	if c.catalog.Items == nil {
		c.catalog.Items = []model.Item{}
	}
	c.diagnostic = ""
	if !e.Result.OK() {
		c.diagnostic = e.Result.Diagnostic
	}
	c.view.SetCatalog(c.catalog.Items, c.diagnostic)
	c.log.Info("catalog applied", "items", len(c.catalog.Items), "ok", e.Result.OK())
	if c.state == Active {
		c.render()
	}
}

// render replaces the whole card set with a fresh ring for the catalog.
func (c *Controller) render() {
	c.clearCards()
	c.placed = layout.Ring(c.catalog.Items, c.cfg.Layout)
	for _, pc := range c.placed {
		if err := c.scene.CreateCard(scene.ComposeCard(pc)); err != nil {
			c.log.Warn("create card failed", "id", pc.Item.ID, "error", err)
			continue
		}
		c.cards = append(c.cards, pc.Item.ID)
		if err := c.scene.Animate(pc.Item.ID, layout.Float(pc.Index, c.cfg.Layout)); err != nil {
			c.log.Warn("float animation failed", "id", pc.Item.ID, "error", err)
		}
	}
	c.log.Info("ring rendered", "cards", len(c.cards), "radius", layout.Radius(len(c.placed), c.cfg.Layout))
}

func (c *Controller) clearCards() {
	for _, id := range c.cards {
		if err := c.scene.DestroyCard(id); err != nil {
			c.log.Warn("destroy card failed", "id", id, "error", err)
		}
	}
	c.cards = nil
	c.placed = nil
	clear(c.pulses)
}

func (c *Controller) hasCard(id string) bool {
	for _, have := range c.cards {
		if have == id {
			return true
		}
	}
	return false
}

// fail reports the first failure and ignores every later one. Guard failures
// fall back to Idle so start can be pressed again.
func (c *Controller) fail(kind FailureKind, detail, ev string, at time.Time) {
	if c.failure != nil {
		c.log.Debug("failure suppressed", "kind", kind.String(), "first", c.failure.Kind.String())
		return
	}
	f := &Failure{Kind: kind, Detail: detail}
	c.failure = f

	if c.state.sessionOpen() {
		if err := c.platform.EndSession(); err != nil {
			c.log.Warn("end session failed", "error", err)
		}
	}
	c.clearCards()
	c.tracking = nil
	c.perf = nil
	c.entryDeadline = time.Time{}

	c.log.Warn("session failed", "kind", kind.String(), "detail", detail)
	c.setState(Failed, ev, at, f)
	c.view.ShowFail(f.Message())
	if kind.Retryable() {
		c.setState(Idle, ev, at, nil)
	}
}

func (c *Controller) retry(at time.Time) {
	if c.failure == nil {
		return
	}
	c.Reset(at)
}

// Reset returns to a freshly started Idle state, as after a reload. The
// catalog is kept.
func (c *Controller) Reset(at time.Time) {
	if c.state.sessionOpen() {
		if err := c.platform.EndSession(); err != nil {
			c.log.Warn("end session failed", "error", err)
		}
	}
	c.clearCards()
	c.failure = nil
	c.tracking = nil
	c.perf = nil
	c.entryDeadline = time.Time{}
	c.view.Reset()
	if c.state != Idle {
		c.setState(Idle, "reset", at, nil)
	}
}

func (c *Controller) setState(to State, ev string, at time.Time, f *Failure) {
	tr := Transition{From: c.state, To: to, Event: ev, At: at, Failure: f}
	c.state = to
	c.history = append(c.history, tr)
	c.log.Info("session transition", "from", tr.From.String(), "to", tr.To.String(), "event", ev)
	for _, fn := range c.listeners {
		fn(tr)
	}
}
