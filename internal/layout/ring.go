// Package layout places catalog items evenly on a horizontal ring around the
// viewer. Everything here is a pure function of its inputs.
package layout

import (
	"errors"
	"math"
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
)

// Params are the real-world (meter) dimensions of the ring.
type Params struct {
	CardWidth  float64
	CardHeight float64
	// Gap is the desired edge-to-edge spacing between adjacent cards.
	Gap float64

	// MinRadius keeps cards clear of the viewer, MaxRadius keeps text legible.
	MinRadius float64
	MaxRadius float64

	// Height is the card center height above the floor.
	Height float64
	// ForwardOffset shifts the ring center along z (negative is forward).
	ForwardOffset float64

	FloatLift    float64
	FloatPeriod  time.Duration
	FloatStagger time.Duration
}

func DefaultParams() Params {
	return Params{
		CardWidth:     1.15,
		CardHeight:    0.68,
		Gap:           0.25,
		MinRadius:     1.25,
		MaxRadius:     1.75,
		Height:        1.35,
		ForwardOffset: -0.25,
		FloatLift:     0.02,
		FloatPeriod:   1200 * time.Millisecond,
		FloatStagger:  180 * time.Millisecond,
	}
}

var (
	ErrCardSize = errors.New("layout: card width and height must be positive")
	ErrGap      = errors.New("layout: gap must not be negative")
	ErrRadius   = errors.New("layout: radius bounds must be positive and min <= max")
)

func (p Params) Validate() error {
	if p.CardWidth <= 0 || p.CardHeight <= 0 {
		return ErrCardSize
	}
	if p.Gap < 0 {
		return ErrGap
	}
	if p.MinRadius <= 0 || p.MaxRadius <= 0 || p.MinRadius > p.MaxRadius {
		return ErrRadius
	}
	return nil
}

// Radius is the ring radius for n cards: the regular n-gon circumradius
// whose chord equals card width + gap, clamped to [MinRadius, MaxRadius].
// n <= 1 has no chord and sits at MinRadius.
func Radius(n int, p Params) float64 {
	if n <= 1 {
		return p.MinRadius
	}
	chord := p.CardWidth + p.Gap
	r := chord / (2 * math.Sin(math.Pi/float64(n)))
	return clamp(r, p.MinRadius, p.MaxRadius)
}

// Scale is the uniform card scale for n cards. It drops below 1 only when the
// radius is clamped so tightly that full-size cards plus gap would intersect.
func Scale(n int, p Params) float64 {
	if n <= 1 {
		return 1
	}
	available := 2 * Radius(n, p) * math.Sin(math.Pi/float64(n))
	needed := p.CardWidth + p.Gap
	if available >= needed {
		return 1
	}
	return available / needed
}

// Ring places items in input order. Item i sits at angle i/n * 2π. A single
// item is placed straight ahead of the viewer; no items yield no placements.
func Ring(items []model.Item, p Params) []model.PlacedCard {
	n := len(items)
	if n == 0 {
		return []model.PlacedCard{}
	}

	r := Radius(n, p)
	s := Scale(n, p)
	size := model.Size{Width: p.CardWidth * s, Height: p.CardHeight * s}

	if n == 1 {
		return []model.PlacedCard{{
			Item:     items[0],
			Index:    0,
			Position: model.Vec3{X: 0, Y: p.Height, Z: p.ForwardOffset - r},
			Size:     size,
			Angle:    -math.Pi / 2,
			Radius:   r,
		}}
	}

	out := make([]model.PlacedCard, n)
	for i, it := range items {
		angle := float64(i) / float64(n) * 2 * math.Pi
		out[i] = model.PlacedCard{
			Item:  it,
			Index: i,
			Position: model.Vec3{
				X: r * math.Cos(angle),
				Y: p.Height,
				Z: r*math.Sin(angle) + p.ForwardOffset,
			},
			Size:   size,
			Angle:  angle,
			Radius: r,
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
