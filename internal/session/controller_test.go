package session

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/catalog"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/layout"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/scene"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

const frame = 16 * time.Millisecond

func ms(n int) time.Time { return t0.Add(time.Duration(n) * time.Millisecond) }

func loaded(n int) catalog.Result {
	items := make([]model.Item, n)
	for i := range items {
		items[i] = model.Item{
			ID: fmt.Sprintf("it-%d", i), Title: fmt.Sprintf("Exhibit %d", i),
			Tag: "Tag", Icon: "✨", Color: "#00d2ff", Link: model.NoLink,
		}
	}
	return catalog.Result{Catalog: model.Catalog{Items: items}}
}

type harness struct {
	t   *testing.T
	c   *Controller
	mem *scene.Memory
	now time.Time
}

func newHarness(t *testing.T, items int) *harness {
	t.Helper()
	mem := scene.NewMemory()
	c := New(mem, mem)
	c.Handle(CatalogLoaded{At: t0, Result: loaded(items)})
	return &harness{t: t, c: c, mem: mem, now: t0}
}

func (h *harness) advance(d time.Duration) time.Time {
	h.now = h.now.Add(d)
	return h.now
}

func (h *harness) frames(n int) {
	for i := 0; i < n; i++ {
		h.c.Handle(FrameRendered{At: h.advance(frame)})
	}
}

// activate walks the controller to Active by moving the camera.
func (h *harness) activate() {
	h.t.Helper()
	h.c.Handle(UserStarted{At: h.now})
	h.c.Handle(PlatformSessionReady{At: h.advance(800 * time.Millisecond)})
	for i := 0; i < 3; i++ {
		h.mem.Move(model.Vec3{X: 0.05})
		h.frames(1)
	}
	require.Equal(h.t, Active, h.c.State())
}

func states(c *Controller) []string {
	out := []string{}
	for _, tr := range c.History() {
		out = append(out, tr.To.String())
	}
	return out
}

func TestHappyPath(t *testing.T) {
	h := newHarness(t, 5)
	h.activate()

	assert.Equal(t, []string{"requesting", "entering", "validating_tracking", "active"}, states(h.c))
	assert.Nil(t, h.c.Failure())
	assert.Equal(t, view.ModeIdle, h.c.View().Mode())

	cards := h.mem.Cards()
	require.Len(t, cards, 5)
	for i, card := range cards {
		assert.Equal(t, fmt.Sprintf("it-%d", i), card.ID)
		assert.Contains(t, h.mem.Animations(card.ID), layout.AnimFloat)
	}
	assert.Len(t, h.c.Placed(), 5)
	assert.True(t, h.mem.SessionLive())
}

func TestGuardFailuresAreRetryable(t *testing.T) {
	tests := []struct {
		name   string
		secure bool
		xr     bool
		kind   FailureKind
	}{
		{name: "insecure", secure: false, xr: true, kind: InsecureContext},
		{name: "no xr", secure: true, xr: false, kind: CapabilityMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 2)
			h.mem.SetCapabilities(tt.secure, tt.xr)

			h.c.Handle(UserStarted{At: t0})
			require.NotNil(t, h.c.Failure())
			assert.Equal(t, tt.kind, h.c.Failure().Kind)
			assert.Equal(t, Idle, h.c.State())
			assert.Equal(t, []string{"requesting", "failed", "idle"}, states(h.c))
			assert.Equal(t, view.ModeFail, h.c.View().Mode())
			assert.Equal(t, 0, h.mem.Requests(), "no session requested")

			h.mem.SetCapabilities(true, true)
			h.activate()
			assert.Nil(t, h.c.Failure())
			assert.Equal(t, view.ModeIdle, h.c.View().Mode())
		})
	}
}

func TestRequestRejectedSynchronously(t *testing.T) {
	h := newHarness(t, 2)
	h.mem.FailNextRequest(errors.New("NotAllowedError: permission denied"))

	h.c.Handle(UserStarted{At: t0})
	assert.Equal(t, Failed, h.c.State())
	f := h.c.Failure()
	require.NotNil(t, f)
	assert.Equal(t, SessionEntryRejected, f.Kind)
	assert.Contains(t, f.Message(), "permission denied")
	assert.Equal(t, f.Message(), h.c.View().FailMessage())
}

func TestEntryTimeout(t *testing.T) {
	h := newHarness(t, 2)
	h.c.Handle(UserStarted{At: t0})
	require.Equal(t, Entering, h.c.State())

	h.c.Handle(Tick{At: ms(5499)})
	assert.Equal(t, Entering, h.c.State())
	h.c.Handle(Tick{At: ms(5500)})
	assert.Equal(t, Failed, h.c.State())
	assert.Equal(t, SessionEntryTimeout, h.c.Failure().Kind)
	assert.Equal(t, 1, h.mem.Ends(), "session requested, so it is ended")

	// A late confirmation changes nothing.
	h.c.Handle(PlatformSessionReady{At: ms(6000)})
	assert.Equal(t, Failed, h.c.State())
}

func TestReadyCancelsEntryTimer(t *testing.T) {
	h := newHarness(t, 2)
	h.c.Handle(UserStarted{At: t0})
	h.c.Handle(PlatformSessionReady{At: ms(5000)})
	h.c.Handle(Tick{At: ms(6000)})
	assert.Equal(t, ValidatingTracking, h.c.State())
}

func TestLateReadyLosesToEntryTimeout(t *testing.T) {
	h := newHarness(t, 2)
	h.c.Handle(UserStarted{At: t0})
	h.c.Handle(PlatformSessionReady{At: ms(6000)})

	assert.Equal(t, Failed, h.c.State())
	require.NotNil(t, h.c.Failure())
	assert.Equal(t, SessionEntryTimeout, h.c.Failure().Kind)
	assert.Equal(t, []string{"requesting", "entering", "failed"}, states(h.c))
	assert.Equal(t, 1, h.mem.Ends())
}

func TestLateHostVerdictLosesToTrackingDeadline(t *testing.T) {
	h := newHarness(t, 3)
	h.c.Handle(UserStarted{At: t0})
	h.c.Handle(PlatformSessionReady{At: ms(500)})
	h.c.Handle(TrackingResolved{At: ms(7500), OK: true})

	assert.Equal(t, Failed, h.c.State())
	require.NotNil(t, h.c.Failure())
	assert.Equal(t, TrackingNotEstablished, h.c.Failure().Kind)
	assert.Empty(t, h.mem.Cards())
}

func TestTrackingNotEstablished(t *testing.T) {
	h := newHarness(t, 2)
	h.c.Handle(UserStarted{At: t0})
	h.c.Handle(PlatformSessionReady{At: ms(500)})

	// Only two moving frames before the deadline.
	h.mem.Move(model.Vec3{X: 0.1})
	h.c.Handle(FrameRendered{At: ms(600)})
	h.mem.Move(model.Vec3{X: 0.1})
	h.c.Handle(FrameRendered{At: ms(700)})
	moved, required := h.c.TrackingProgress()
	assert.Equal(t, 2, moved)
	assert.Equal(t, 3, required)

	h.c.Handle(Tick{At: ms(7499)})
	assert.Equal(t, ValidatingTracking, h.c.State())
	h.c.Handle(Tick{At: ms(7500)})
	assert.Equal(t, Failed, h.c.State())
	assert.Equal(t, TrackingNotEstablished, h.c.Failure().Kind)
	assert.Empty(t, h.mem.Cards())
}

func TestHostTrackingVerdict(t *testing.T) {
	h := newHarness(t, 3)
	h.c.Handle(UserStarted{At: t0})
	h.c.Handle(PlatformSessionReady{At: ms(500)})
	h.c.Handle(TrackingResolved{At: ms(900), OK: true})
	assert.Equal(t, Active, h.c.State())
	assert.Len(t, h.mem.Cards(), 3)
}

func TestPerformanceDegraded(t *testing.T) {
	h := newHarness(t, 4)
	h.activate()
	h.c.View().ShowList()

	// Healthy through warm-up, then 10 fps.
	h.frames(int(9*time.Second/frame) + 1)
	require.Equal(t, Active, h.c.State())
	for i := 0; i < 40 && h.c.State() == Active; i++ {
		h.c.Handle(FrameRendered{At: h.advance(100 * time.Millisecond)})
	}

	require.Equal(t, Failed, h.c.State())
	f := h.c.Failure()
	assert.Equal(t, PerformanceDegraded, f.Kind)
	assert.Contains(t, f.Detail, "fps")
	assert.Equal(t, view.ModeFail, h.c.View().Mode(), "fail overrides the open list")
	assert.False(t, h.mem.SessionLive(), "render loop stopped")
	assert.Empty(t, h.mem.Cards())
}

func TestFailureIsIdempotent(t *testing.T) {
	h := newHarness(t, 2)
	h.activate()

	h.c.Handle(PlatformSessionError{At: h.advance(frame), Err: errors.New("lost")})
	require.Equal(t, SessionEntryRejected, h.c.Failure().Kind)
	n := len(h.c.History())

	h.c.Handle(PlatformSessionError{At: h.advance(frame), Err: errors.New("again")})
	h.c.Handle(Tick{At: h.advance(time.Minute)})
	h.c.Handle(UserStarted{At: h.advance(frame)})
	h.c.Handle(UserToggledMenu{})

	assert.Equal(t, n, len(h.c.History()))
	assert.Equal(t, "lost", h.c.Failure().Detail)
	assert.Equal(t, 1, h.mem.Ends())
	assert.Equal(t, view.ModeFail, h.c.View().Mode())
}

func TestRetryResetsToIdle(t *testing.T) {
	h := newHarness(t, 3)
	h.c.Handle(UserStarted{At: t0})
	h.c.Handle(Tick{At: ms(6000)})
	require.Equal(t, Failed, h.c.State())

	h.c.Handle(UserRetried{At: ms(7000)})
	assert.Equal(t, Idle, h.c.State())
	assert.Nil(t, h.c.Failure())
	assert.Equal(t, view.ModeIdle, h.c.View().Mode())
	assert.Len(t, h.c.Catalog().Items, 3, "catalog survives the reset")

	h.now = ms(7000)
	h.activate()
	assert.Len(t, h.mem.Cards(), 3)
}

func TestSelectionPulse(t *testing.T) {
	h := newHarness(t, 3)
	h.activate()

	h.c.Handle(UserSelectedItem{At: h.now, ID: "it-1"})
	assert.Equal(t, view.ModeDetail, h.c.View().Mode())
	sel, ok := h.c.View().Selected()
	require.True(t, ok)
	assert.Equal(t, "it-1", sel.ID)
	assert.Contains(t, h.mem.Animations("it-1"), layout.AnimPulse)

	h.c.Handle(Tick{At: h.advance(layout.PulseHold - time.Millisecond)})
	assert.Contains(t, h.mem.Animations("it-1"), layout.AnimPulse)
	h.c.Handle(Tick{At: h.advance(time.Millisecond)})
	assert.NotContains(t, h.mem.Animations("it-1"), layout.AnimPulse)
	assert.Contains(t, h.mem.Animations("it-1"), layout.AnimFloat)

	h.c.Handle(UserSelectedItem{At: h.now, ID: "missing"})
	sel, _ = h.c.View().Selected()
	assert.Equal(t, "it-1", sel.ID)
}

func TestMenuOnlyWhileActive(t *testing.T) {
	h := newHarness(t, 2)
	h.c.Handle(UserToggledMenu{})
	h.c.Handle(UserOpenedList{})
	assert.Equal(t, view.ModeIdle, h.c.View().Mode())

	h.activate()
	h.c.Handle(UserToggledMenu{})
	assert.Equal(t, view.ModeList, h.c.View().Mode())
	h.c.Handle(UserClosedOverlays{})
	assert.Equal(t, view.ModeIdle, h.c.View().Mode())
}

func TestCatalogReloadRedrawsRing(t *testing.T) {
	h := newHarness(t, 4)
	h.activate()
	require.Len(t, h.mem.Cards(), 4)

	h.c.Handle(CatalogLoaded{At: h.now, Result: loaded(2)})
	assert.Len(t, h.mem.Cards(), 2)
	assert.Len(t, h.c.Placed(), 2)

	failed := catalog.Load(t.Context(), catalog.FileSource{Path: t.TempDir() + "/missing.json"})
	h.c.Handle(CatalogLoaded{At: h.now, Result: failed})
	assert.Empty(t, h.mem.Cards())
	assert.True(t, strings.HasPrefix(h.c.View().Diagnostic(), "Catalog unavailable"))
	assert.Equal(t, Active, h.c.State())
}

func TestEmptyCatalogStillStarts(t *testing.T) {
	h := newHarness(t, 0)
	h.activate()
	assert.Empty(t, h.mem.Cards())
	assert.Empty(t, h.c.Placed())
}

func TestFailureMessagesAreDistinct(t *testing.T) {
	seen := map[string]FailureKind{}
	for k := InsecureContext; k <= PerformanceDegraded; k++ {
		msg := (&Failure{Kind: k}).Message()
		require.NotEmpty(t, msg)
		_, dup := seen[msg]
		assert.False(t, dup, "%s shares a message", k)
		seen[msg] = k
	}
}

func TestTransitionListener(t *testing.T) {
	mem := scene.NewMemory()
	var got []Transition
	c := New(mem, mem, OnTransition(func(tr Transition) { got = append(got, tr) }))
	c.Handle(UserStarted{At: t0})
	require.Len(t, got, 2)
	assert.Equal(t, Idle, got[0].From)
	assert.Equal(t, Entering, got[1].To)
	assert.Equal(t, "user_started", got[1].Event)
}
