package tui

import (
	"math"
	"strings"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
)

const (
	radarCols = 41
	radarRows = 17
	// radarSpan is the half-width of the mapped floor area in meters.
	radarSpan = 2.2

	cameraGlyph = '@'
)

var glyphs = []rune("123456789abcdefghijklmnopqrstuvwxyz")

func cardGlyph(i int) rune {
	if i >= 0 && i < len(glyphs) {
		return glyphs[i]
	}
	return '*'
}

// radarGrid is a top-down map of the floor: x to the right, forward (-z) up.
type radarGrid struct {
	cells  [][]rune
	aimed  int
	aimRow int
	aimCol int
}

func newRadar(placed []model.PlacedCard, pose model.Pose, aimed int) radarGrid {
	g := radarGrid{cells: make([][]rune, radarRows), aimed: aimed, aimRow: -1, aimCol: -1}
	for r := range g.cells {
		g.cells[r] = []rune(strings.Repeat("·", radarCols))
	}
	for _, pc := range placed {
		r, c, ok := radarCell(pc.Position)
		if !ok {
			continue
		}
		g.cells[r][c] = cardGlyph(pc.Index)
		if pc.Index == aimed {
			g.aimRow, g.aimCol = r, c
		}
	}
	if r, c, ok := radarCell(pose.Position); ok {
		g.cells[r][c] = cameraGlyph
	}
	return g
}

func radarCell(p model.Vec3) (row, col int, ok bool) {
	col = int(math.Round((p.X + radarSpan) / (2 * radarSpan) * float64(radarCols-1)))
	row = int(math.Round((p.Z + radarSpan) / (2 * radarSpan) * float64(radarRows-1)))
	if row < 0 || row >= radarRows || col < 0 || col >= radarCols {
		return 0, 0, false
	}
	return row, col, true
}

// Lines returns the unstyled rows.
func (g radarGrid) Lines() []string {
	out := make([]string, len(g.cells))
	for i, row := range g.cells {
		out[i] = string(row)
	}
	return out
}

func (g radarGrid) Render() string {
	var b strings.Builder
	for r, row := range g.cells {
		for c, ch := range row {
			switch {
			case r == g.aimRow && c == g.aimCol:
				b.WriteString(styleSelected.Render(string(ch)))
			case ch == cameraGlyph:
				b.WriteString(styleCamera.Render(string(ch)))
			case ch == '·':
				b.WriteString(styleMuted.Render(string(ch)))
			default:
				b.WriteString(styleTitle.Render(string(ch)))
			}
		}
		if r < len(g.cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// aimedCard is the index of the placed card closest to where the camera
// looks, or -1 when there are none. Yaw 0 looks along -z.
func aimedCard(placed []model.PlacedCard, pose model.Pose) int {
	if len(placed) == 0 {
		return -1
	}
	yaw := pose.Rotation.Y
	look := math.Atan2(-math.Cos(yaw), -math.Sin(yaw))

	best, bestDiff := -1, math.Inf(1)
	for _, pc := range placed {
		dir := math.Atan2(pc.Position.Z-pose.Position.Z, pc.Position.X-pose.Position.X)
		diff := math.Abs(math.Remainder(dir-look, 2*math.Pi))
		if diff < bestDiff {
			best, bestDiff = pc.Index, diff
		}
	}
	return best
}
