package tui

import (
	"fmt"
	"strings"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/catalog"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/session"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/view"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const defaultWidth = 80

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	v := m.ctrl.View()

	var body string
	switch v.Mode() {
	case view.ModeFail:
		body = m.viewFail(w)
	case view.ModeDetail:
		body = m.viewDetail(w)
	case view.ModeList:
		body = m.viewList(w)
	default:
		body = m.viewScene(w)
	}

	parts := []string{m.viewHeader(w), body, m.viewFooter(w, v.Mode())}
	return strings.Join(parts, "\n\n")
}

func (m appModel) viewHeader(w int) string {
	st := m.ctrl.State().String()
	badge := lipgloss.NewStyle().Bold(true).Foreground(stateColor(st)).Render(st)

	bits := []string{styleTitle.Render("Revolution AR"), badge, fmt.Sprintf("%d fps", m.fps)}
	switch m.ctrl.State() {
	case session.ValidatingTracking:
		moved, need := m.ctrl.TrackingProgress()
		bits = append(bits, fmt.Sprintf("tracking %d/%d, move the camera", moved, need))
	case session.Active:
		if s, ok := m.ctrl.FrameRate(); ok {
			bits = append(bits, fmt.Sprintf("measured %.1f fps", s.FPS))
		} else {
			bits = append(bits, "warming up")
		}
	}
	if m.loading {
		bits = append(bits, styleMuted.Render("loading catalog…"))
	}
	return ansi.Truncate(strings.Join(bits, styleMuted.Render(" · ")), w, "…")
}

func (m appModel) viewScene(w int) string {
	switch m.ctrl.State() {
	case session.Idle:
		return styleSurface.Render("Press enter to start AR.")
	case session.Requesting, session.Entering:
		return styleSurface.Render("Starting AR session…")
	case session.ValidatingTracking:
		return styleSurface.Render("Checking tracking. Step or turn (wasd, q/e) so the device sees real motion.")
	}

	placed := m.ctrl.Placed()
	if len(placed) == 0 {
		msg := "No exhibits to show."
		if d := m.ctrl.View().Diagnostic(); d != "" {
			msg = d
		}
		return styleMuted.Render(ansi.Truncate(msg, w, "…"))
	}

	pose := m.mem.CameraPose()
	aimed := aimedCard(placed, pose)
	lines := []string{newRadar(placed, pose, aimed).Render()}
	if aimed >= 0 {
		it := placed[aimed].Item
		lines = append(lines, itemStyle(it.Color).Render(it.Heading())+styleMuted.Render("  "+it.Tag+" · enter to open"))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewList(w int) string {
	v := m.ctrl.View()
	inner := max(20, min(w-4, 72))

	var b strings.Builder
	b.WriteString(m.filter.View())
	b.WriteString("\n")

	summary := v.Diagnostic()
	if summary == "" {
		n := len(v.Visible())
		summary = fmt.Sprintf("%d exhibits", n)
		if n == 1 {
			summary = "1 exhibit"
		}
	}
	b.WriteString(styleMuted.Render(ansi.Truncate(summary, inner, "…")))
	b.WriteString("\n")

	items := v.Visible()
	if len(items) == 0 && v.Filter() != "" {
		b.WriteString(styleMuted.Render("Nothing matches."))
	}
	for i, it := range items {
		row := ansi.Truncate(it.Heading()+"  "+styleMuted.Render(it.Tag), inner-2, "…")
		if i == m.cursor {
			row = styleSelected.Render("› " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(row)
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return styleOverlay.Width(inner).Render(b.String())
}

func (m appModel) viewDetail(w int) string {
	it, ok := m.ctrl.View().Selected()
	if !ok {
		return ""
	}
	inner := max(20, min(w-4, 72))

	desc := renderMarkdown(it.Desc, inner)
	if desc == "" {
		desc = styleMuted.Render(catalog.DescriptionPlaceholder)
	}
	lines := []string{
		itemStyle(it.Color).Bold(true).Render(ansi.Truncate(it.Heading(), inner, "…")),
		styleMuted.Render(it.Tag),
		"",
		desc,
	}
	if it.HasLink() {
		lines = append(lines, "", styleTitle.Render(ansi.Truncate(it.Link, inner, "…")))
	}
	return styleOverlay.Width(inner).Render(strings.Join(lines, "\n"))
}

func (m appModel) viewFail(w int) string {
	inner := max(20, min(w-4, 72))
	v := m.ctrl.View()
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(colorDanger).Render("AR unavailable"),
		"",
		lipgloss.NewStyle().Width(inner).Render(v.FailMessage()),
	}
	if m.opts.PageURL != "" {
		lines = append(lines, "", styleMuted.Render("Open in a capable browser: ")+styleTitle.Render(m.opts.PageURL))
	}
	return styleFail.Width(inner).Render(strings.Join(lines, "\n"))
}

func (m appModel) viewFooter(w int, mode view.Mode) string {
	var parts []string
	for _, b := range m.keys.help(mode.String()) {
		h := b.Help()
		parts = append(parts, h.Key+" "+styleMuted.Render(h.Desc))
	}
	line := ansi.Truncate(strings.Join(parts, "  "), w, "…")
	if m.flash != "" {
		line = styleFlash.Render(ansi.Truncate(m.flash, w, "…")) + "\n" + line
	}
	return line
}
