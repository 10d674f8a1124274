package layout

import (
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
)

const (
	AnimFloat = "float"
	AnimPulse = "pulse"

	// PulseHold is how long the pulse animation stays attached before removal.
	PulseHold = 420 * time.Millisecond
)

// Float is the gentle, never-ending vertical bob of card i, expressed as
// offsets around the card's placed position. Periods are staggered over four
// slots so neighbouring cards do not move in lockstep.
func Float(i int, p Params) model.Animation {
	return model.Animation{
		Name:      AnimFloat,
		Property:  "position",
		From:      model.Vec3{Y: p.FloatLift},
		To:        model.Vec3{Y: -p.FloatLift},
		Duration:  p.FloatPeriod + time.Duration(i%4)*p.FloatStagger,
		Easing:    "easeInOutSine",
		Alternate: true,
		Repeat:    model.RepeatForever,
	}
}

// Pulse is the brief scale bump played on a selected card.
func Pulse() model.Animation {
	return model.Animation{
		Name:      AnimPulse,
		Property:  "scale",
		From:      model.Vec3{X: 1, Y: 1, Z: 1},
		To:        model.Vec3{X: 1.06, Y: 1.06, Z: 1.06},
		Duration:  120 * time.Millisecond,
		Easing:    "easeOutQuad",
		Alternate: true,
		Repeat:    2,
	}
}
