// Package scene is the boundary to whatever renders the AR world. The session
// core only ever talks to these two interfaces.
package scene

import (
	"errors"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
)

// Scene is the 3D scene capability set. Cards always face the viewer; the
// renderer re-evaluates the look-at every frame.
type Scene interface {
	CreateCard(c Card) error
	DestroyCard(id string) error
	Animate(id string, a model.Animation) error
	StopAnimation(id, name string) error
	CameraPose() model.Pose
}

// Platform is the AR runtime. RequestSession only asks; confirmation or
// rejection arrives later as a session event.
type Platform interface {
	SecureContext() bool
	XRAvailable() bool
	RequestSession() error
	EndSession() error
}

var (
	ErrUnknownCard = errors.New("scene: unknown card")
	ErrDuplicate   = errors.New("scene: card already exists")
)
