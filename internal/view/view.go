// Package view keeps the overlay state of the AR-first UI: at most one of the
// list, detail and fail surfaces is visible at any time.
package view

import (
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/catalog"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
)

type Mode int

const (
	ModeIdle Mode = iota
	ModeList
	ModeDetail
	ModeFail
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeList:
		return "list"
	case ModeDetail:
		return "detail"
	case ModeFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Coordinator owns the Mode. The fail mode is sticky: only Reset leaves it.
type Coordinator struct {
	active func() bool

	mode     Mode
	selected *model.Item
	failMsg  string

	filter       string
	focusPending bool

	items      []model.Item
	diagnostic string
}

// New returns an idle coordinator. active reports whether the AR session is
// running; the list surface is only reachable while it returns true.
func New(active func() bool) *Coordinator {
	if active == nil {
		active = func() bool { return false }
	}
	return &Coordinator{active: active}
}

func (c *Coordinator) Mode() Mode { return c.mode }

func (c *Coordinator) ListVisible() bool   { return c.mode == ModeList }
func (c *Coordinator) DetailVisible() bool { return c.mode == ModeDetail }
func (c *Coordinator) FailVisible() bool   { return c.mode == ModeFail }

// CloseVisible reports whether the floating close control is shown. It
// follows the detail surface.
func (c *Coordinator) CloseVisible() bool { return c.mode == ModeDetail }

func (c *Coordinator) ShowList() {
	if c.mode == ModeFail || !c.active() {
		return
	}
	c.mode = ModeList
}

// ShowDetail selects it and opens the detail surface from any mode except fail.
func (c *Coordinator) ShowDetail(it model.Item) {
	if c.mode == ModeFail {
		return
	}
	sel := it
	c.selected = &sel
	c.mode = ModeDetail
}

// ToggleMenu closes an open list, otherwise opens a fresh list with an empty
// filter and asks the host to focus the filter field.
func (c *Coordinator) ToggleMenu() {
	switch {
	case c.mode == ModeFail:
		return
	case c.mode == ModeList:
		c.mode = ModeIdle
	case c.active():
		c.filter = ""
		c.focusPending = true
		c.mode = ModeList
	}
}

func (c *Coordinator) CloseOverlays() {
	if c.mode == ModeFail {
		return
	}
	c.mode = ModeIdle
}

func (c *Coordinator) ShowFail(diagnostic string) {
	c.mode = ModeFail
	c.failMsg = diagnostic
}

func (c *Coordinator) FailMessage() string { return c.failMsg }

// Reset returns to a freshly started state. The catalog is kept.
func (c *Coordinator) Reset() {
	c.mode = ModeIdle
	c.selected = nil
	c.failMsg = ""
	c.filter = ""
	c.focusPending = false
}

func (c *Coordinator) Selected() (model.Item, bool) {
	if c.selected == nil {
		return model.Item{}, false
	}
	return *c.selected, true
}

func (c *Coordinator) Filter() string { return c.filter }

func (c *Coordinator) SetFilter(q string) { c.filter = q }

// ClearFilter empties the filter and keeps focus on the field.
func (c *Coordinator) ClearFilter() {
	c.filter = ""
	c.focusPending = true
}

// TakeFocusRequest reports and consumes a pending filter focus request.
func (c *Coordinator) TakeFocusRequest() bool {
	f := c.focusPending
	c.focusPending = false
	return f
}

// SetCatalog replaces the list contents. An empty diagnostic means the load
// succeeded.
func (c *Coordinator) SetCatalog(items []model.Item, diagnostic string) {
	c.items = items
	c.diagnostic = diagnostic
}

func (c *Coordinator) Diagnostic() string { return c.diagnostic }

// Visible is the catalog filtered by the current filter text.
func (c *Coordinator) Visible() []model.Item {
	return catalog.Filter(c.items, c.filter)
}
