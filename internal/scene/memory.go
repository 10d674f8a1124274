package scene

import (
	"fmt"
	"sort"
	"sync"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
)

// Memory is an in-process Scene and Platform. It records every call, which
// makes it the headless renderer for tests, the simulate command and the
// terminal simulator.
type Memory struct {
	mu sync.Mutex

	secure bool
	xr     bool
	// requestErr, when set, is returned by the next RequestSession.
	requestErr error

	sessionLive bool
	requests    int
	ends        int

	pose  model.Pose
	cards map[string]Card
	anims map[string]map[string]model.Animation
	calls []string
}

func NewMemory() *Memory {
	return &Memory{
		secure: true,
		xr:     true,
		pose:   model.Pose{Position: model.Vec3{Y: 1.6}},
		cards:  map[string]Card{},
		anims:  map[string]map[string]model.Animation{},
	}
}

func (m *Memory) SetCapabilities(secure, xr bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secure, m.xr = secure, xr
}

func (m *Memory) FailNextRequest(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestErr = err
}

func (m *Memory) SetPose(p model.Pose) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pose = p
}

// Move translates the camera by d in world space.
func (m *Memory) Move(d model.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pose.Position = m.pose.Position.Add(d)
}

// Turn adds d to the camera's euler rotation.
func (m *Memory) Turn(d model.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pose.Rotation = m.pose.Rotation.Add(d)
}

func (m *Memory) SecureContext() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.secure
}

func (m *Memory) XRAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.xr
}

func (m *Memory) RequestSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
	m.record("request_session")
	if err := m.requestErr; err != nil {
		m.requestErr = nil
		return err
	}
	m.sessionLive = true
	return nil
}

func (m *Memory) EndSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ends++
	m.record("end_session")
	m.sessionLive = false
	return nil
}

func (m *Memory) CreateCard(c Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[c.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, c.ID)
	}
	m.cards[c.ID] = c
	m.record("create " + c.ID)
	return nil
}

func (m *Memory) DestroyCard(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCard, id)
	}
	delete(m.cards, id)
	delete(m.anims, id)
	m.record("destroy " + id)
	return nil
}

func (m *Memory) Animate(id string, a model.Animation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCard, id)
	}
	if m.anims[id] == nil {
		m.anims[id] = map[string]model.Animation{}
	}
	m.anims[id][a.Name] = a
	m.record("animate " + id + " " + a.Name)
	return nil
}

func (m *Memory) StopAnimation(id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.anims[id][name]; !ok {
		return nil
	}
	delete(m.anims[id], name)
	m.record("stop " + id + " " + name)
	return nil
}

func (m *Memory) CameraPose() model.Pose {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pose
}

func (m *Memory) record(call string) { m.calls = append(m.calls, call) }

// Cards returns the live cards ordered by ring index.
func (m *Memory) Cards() []Card {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Card, 0, len(m.cards))
	for _, c := range m.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (m *Memory) Animations(id string) map[string]model.Animation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]model.Animation, len(m.anims[id]))
	for k, v := range m.anims[id] {
		out[k] = v
	}
	return out
}

func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *Memory) SessionLive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionLive
}

// Requests and Ends count RequestSession and EndSession calls.
func (m *Memory) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

func (m *Memory) Ends() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ends
}
