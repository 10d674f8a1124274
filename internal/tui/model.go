package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/catalog"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/config"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/scene"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/session"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/view"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	stepMeters  = 0.05
	turnRadians = 0.08
	fpsStep     = 5
	maxFPS      = 120
	flashFor    = 2 * time.Second
)

type Options struct {
	Config config.Config
	Loader catalog.Loader
	Logger *slog.Logger
	// PageURL is offered on the fail surface as the link to open in a
	// capable browser.
	PageURL string
}

type (
	frameMsg     time.Time
	readyMsg     struct{ seq int }
	catalogMsg   struct{ res catalog.Result }
	flashDoneMsg struct{ seq int }
	clipboardMsg struct {
		link string
		err  error
	}
)

type appModel struct {
	opts Options
	cfg  config.Config
	log  *slog.Logger
	keys keyMap
	now  func() time.Time

	mem  *scene.Memory
	ctrl *session.Controller

	filter textinput.Model
	cursor int

	width  int
	height int

	fps      int
	entrySeq int
	loading  bool

	flash    string
	flashSeq int
}

func newAppModel(opts Options) appModel {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg := opts.Config

	mem := scene.NewMemory()
	mem.SetCapabilities(cfg.Simulator.Secure, cfg.Simulator.XR)
	ctrl := session.New(mem, mem,
		session.WithConfig(cfg.Session()),
		session.WithLogger(log),
	)

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter by title, tag or description"
	ti.CharLimit = 80

	fps := cfg.Simulator.FPS
	if fps <= 0 {
		fps = 60
	}

	return appModel{
		opts:    opts,
		cfg:     cfg,
		log:     log,
		keys:    defaultKeyMap(),
		now:     time.Now,
		mem:     mem,
		ctrl:    ctrl,
		filter:  ti,
		fps:     fps,
		loading: true,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.loadCatalog(), m.nextFrame())
}

func (m appModel) loadCatalog() tea.Cmd {
	loader := m.opts.Loader
	return func() tea.Msg {
		return catalogMsg{res: loader.Load(context.Background())}
	}
}

// nextFrame schedules the next simulated render frame at the current rate.
func (m appModel) nextFrame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filter.Width = max(10, min(48, msg.Width-12))
		return m, nil

	case frameMsg:
		at := time.Time(msg)
		switch m.ctrl.State() {
		case session.Entering, session.ValidatingTracking, session.Active:
			m.ctrl.Handle(session.FrameRendered{At: at})
		default:
			m.ctrl.Handle(session.Tick{At: at})
		}
		sync := m.syncView()
		return m, tea.Batch(m.nextFrame(), sync)

	case readyMsg:
		if msg.seq == m.entrySeq && m.ctrl.State() == session.Entering {
			m.ctrl.Handle(session.PlatformSessionReady{At: m.now()})
		}
		return m, nil

	case catalogMsg:
		m.loading = false
		m.ctrl.Handle(session.CatalogLoaded{At: m.now(), Result: msg.res})
		m.cursor = 0
		cmd := m.setFlash(msg.res.Summary())
		return m, cmd

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			cmd := m.setFlash("Copy failed: " + msg.err.Error())
			return m, cmd
		}
		cmd := m.setFlash("Copied " + msg.link)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.ctrl.View()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.loadCatalog()
	}

	if m.filter.Focused() {
		switch {
		case key.Matches(msg, m.keys.Close):
			m.filter.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Start):
			m.filter.Blur()
			m.selectListed()
			cmd := m.syncView()
			return m, cmd
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			v.ClearFilter()
			cmd := m.syncView()
			return m, cmd
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		v.SetFilter(m.filter.Value())
		m.cursor = 0
		return m, cmd
	}

	switch v.Mode() {
	case view.ModeFail:
		if key.Matches(msg, m.keys.Retry) {
			m.ctrl.Handle(session.UserRetried{At: m.now()})
			m.entrySeq++
			cmd := m.syncView()
			return m, cmd
		}
		return m, nil

	case view.ModeList:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
			return m, nil
		case key.Matches(msg, m.keys.Start):
			m.selectListed()
			cmd := m.syncView()
			return m, cmd
		case key.Matches(msg, m.keys.Search):
			cmd := m.filter.Focus()
			return m, cmd
		case key.Matches(msg, m.keys.Clear):
			v.ClearFilter()
			cmd := m.syncView()
			return m, cmd
		case key.Matches(msg, m.keys.Close):
			m.ctrl.Handle(session.UserClosedOverlays{})
			return m, nil
		case key.Matches(msg, m.keys.Menu):
			m.ctrl.Handle(session.UserToggledMenu{})
			cmd := m.syncView()
			return m, cmd
		}

	case view.ModeDetail:
		switch {
		case key.Matches(msg, m.keys.Close):
			m.ctrl.Handle(session.UserClosedOverlays{})
			return m, nil
		case key.Matches(msg, m.keys.Menu):
			m.ctrl.Handle(session.UserToggledMenu{})
			cmd := m.syncView()
			return m, cmd
		case key.Matches(msg, m.keys.Copy):
			it, ok := v.Selected()
			if !ok || !it.HasLink() {
				cmd := m.setFlash("No link for this exhibit")
				return m, cmd
			}
			return m, copyLink(it.Link)
		}

	default:
		switch {
		case key.Matches(msg, m.keys.Start):
			return m.startOrSelect()
		case key.Matches(msg, m.keys.Menu), key.Matches(msg, m.keys.Search):
			m.ctrl.Handle(session.UserToggledMenu{})
			cmd := m.syncView()
			return m, cmd
		}
	}

	cmd := m.moveCamera(msg)
	return m, cmd
}

// startOrSelect starts the session from Idle, or selects the card the
// camera is aimed at while Active.
func (m appModel) startOrSelect() (tea.Model, tea.Cmd) {
	switch m.ctrl.State() {
	case session.Idle:
		m.ctrl.Handle(session.UserStarted{At: m.now()})
		if m.ctrl.State() != session.Entering {
			return m, nil
		}
		m.entrySeq++
		seq := m.entrySeq
		return m, tea.Tick(m.cfg.Simulator.EntryDelay, func(time.Time) tea.Msg { return readyMsg{seq: seq} })
	case session.Active:
		placed := m.ctrl.Placed()
		if i := aimedCard(placed, m.mem.CameraPose()); i >= 0 {
			m.ctrl.Handle(session.UserSelectedItem{At: m.now(), ID: placed[i].Item.ID})
		}
	}
	return m, nil
}

func (m *appModel) moveCamera(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Forward):
		m.mem.Move(model.Vec3{Z: -stepMeters})
	case key.Matches(msg, m.keys.Backward):
		m.mem.Move(model.Vec3{Z: stepMeters})
	case key.Matches(msg, m.keys.Left):
		m.mem.Move(model.Vec3{X: -stepMeters})
	case key.Matches(msg, m.keys.Right):
		m.mem.Move(model.Vec3{X: stepMeters})
	case key.Matches(msg, m.keys.TurnL):
		m.mem.Turn(model.Vec3{Y: turnRadians})
	case key.Matches(msg, m.keys.TurnR):
		m.mem.Turn(model.Vec3{Y: -turnRadians})
	case key.Matches(msg, m.keys.Faster):
		m.fps = min(maxFPS, m.fps+fpsStep)
	case key.Matches(msg, m.keys.Slower):
		m.fps = max(1, m.fps-fpsStep)
	}
	return nil
}

func (m *appModel) moveCursor(d int) {
	n := len(m.ctrl.View().Visible())
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = (m.cursor + d + n) % n
}

func (m *appModel) selectListed() {
	items := m.ctrl.View().Visible()
	if m.cursor < 0 || m.cursor >= len(items) {
		return
	}
	m.ctrl.Handle(session.UserSelectedItem{At: m.now(), ID: items[m.cursor].ID})
}

// syncView mirrors coordinator state into the filter widget. A pending focus
// request focuses the (already cleared) filter field.
func (m *appModel) syncView() tea.Cmd {
	v := m.ctrl.View()
	if m.filter.Value() != v.Filter() {
		m.filter.SetValue(v.Filter())
		m.cursor = 0
	}
	if !v.ListVisible() && m.filter.Focused() {
		m.filter.Blur()
	}
	if v.TakeFocusRequest() && v.ListVisible() {
		return m.filter.Focus()
	}
	return nil
}

func (m *appModel) setFlash(s string) tea.Cmd {
	m.flash = s
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashFor, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func copyLink(link string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{link: link, err: copyToClipboard(link)}
	}
}
