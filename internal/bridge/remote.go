package bridge

import (
	"fmt"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/scene"
)

// remote is a Scene and Platform backed by a connected page. Every call
// becomes an Op; the camera pose and capabilities come from client events.
// It is only touched while the owning connection holds its lock.
type remote struct {
	send func(Op) error

	secure bool
	xr     bool
	pose   model.Pose
	cards  map[string]struct{}
}

func newRemote(send func(Op) error) *remote {
	return &remote{send: send, cards: map[string]struct{}{}}
}

func (r *remote) CreateCard(c scene.Card) error {
	if _, ok := r.cards[c.ID]; ok {
		return fmt.Errorf("%w: %s", scene.ErrDuplicate, c.ID)
	}
	if err := r.send(Op{Op: OpCreateCard, ID: c.ID, Card: &c}); err != nil {
		return err
	}
	r.cards[c.ID] = struct{}{}
	return nil
}

func (r *remote) DestroyCard(id string) error {
	if _, ok := r.cards[id]; !ok {
		return fmt.Errorf("%w: %s", scene.ErrUnknownCard, id)
	}
	delete(r.cards, id)
	return r.send(Op{Op: OpDestroyCard, ID: id})
}

func (r *remote) Animate(id string, a model.Animation) error {
	if _, ok := r.cards[id]; !ok {
		return fmt.Errorf("%w: %s", scene.ErrUnknownCard, id)
	}
	return r.send(Op{Op: OpAnimate, ID: id, Name: a.Name, Animation: &a})
}

func (r *remote) StopAnimation(id, name string) error {
	if _, ok := r.cards[id]; !ok {
		return fmt.Errorf("%w: %s", scene.ErrUnknownCard, id)
	}
	return r.send(Op{Op: OpStopAnimation, ID: id, Name: name})
}

func (r *remote) CameraPose() model.Pose { return r.pose }

func (r *remote) SecureContext() bool { return r.secure }

func (r *remote) XRAvailable() bool { return r.xr }

func (r *remote) RequestSession() error {
	return r.send(Op{Op: OpRequestSession})
}

func (r *remote) EndSession() error {
	return r.send(Op{Op: OpEndSession})
}

func (r *remote) hello(ev ClientEvent) {
	if ev.Secure != nil {
		r.secure = *ev.Secure
	}
	if ev.XR != nil {
		r.xr = *ev.XR
	}
}

func (r *remote) observe(p *model.Pose) {
	if p != nil {
		r.pose = *p
	}
}
