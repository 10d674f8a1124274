package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/session"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  16 * 1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		host := strings.TrimSpace(r.Host)
		return strings.Contains(origin, "://"+host)
	},
}

// conn is one page session. The controller, the remote scene and lastView
// are guarded by mu; writes to the socket are serialized by writeMu.
type conn struct {
	srv *Server
	ws  *websocket.Conn
	log *slog.Logger

	writeMu sync.Mutex

	mu       sync.Mutex
	remote   *remote
	ctrl     *session.Controller
	lastView []byte
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := &conn{srv: s, ws: ws, log: s.log.With("remote", r.RemoteAddr)}
	c.remote = newRemote(c.write)
	c.ctrl = session.New(c.remote, c.remote,
		session.WithConfig(s.cfg.Session()),
		session.WithLogger(c.log),
		session.OnTransition(c.sendState),
	)
	c.log.Info("page connected")

	c.mu.Lock()
	c.ctrl.Handle(session.CatalogLoaded{At: s.now(), Result: s.loader.Load(ctx)})
	c.sendStateLocked()
	c.flushView(true)
	c.mu.Unlock()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- c.tickLoop(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- c.readLoop(ctx)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			c.log.Warn("page session ended", "error", err)
		}
	}
	cancel()
	// Unblock the reader.
	_ = ws.Close()
	wg.Wait()

	c.mu.Lock()
	c.ctrl.Reset(s.now())
	c.mu.Unlock()
	c.log.Info("page disconnected")
}

func (c *conn) write(op Op) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(op)
}

func (c *conn) tickLoop(ctx context.Context) error {
	t := time.NewTicker(c.srv.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			c.mu.Lock()
			c.ctrl.Handle(session.Tick{At: c.srv.now()})
			c.flushView(false)
			c.mu.Unlock()
		}
	}
}

func (c *conn) readLoop(ctx context.Context) error {
	for {
		var ev ClientEvent
		if err := c.ws.ReadJSON(&ev); err != nil {
			var syn *json.SyntaxError
			var typ *json.UnmarshalTypeError
			if errors.As(err, &syn) || errors.As(err, &typ) {
				_ = c.write(Op{Op: OpError, Message: "malformed event: " + err.Error()})
				continue
			}
			return err
		}
		c.dispatch(ctx, ev)
	}
}

// dispatch turns a page event into controller events. Every event is stamped
// with the server clock so frames and ticks share one timeline.
func (c *conn) dispatch(ctx context.Context, ev ClientEvent) {
	now := c.srv.now()
	if ev.Type != EvFrame {
		c.log.Debug("page event", "type", ev.Type, "page_at", ev.At)
	}

	if ev.Type == EvReload {
		res := c.srv.loader.Load(ctx)
		c.mu.Lock()
		c.ctrl.Handle(session.CatalogLoaded{At: now, Result: res})
		c.flushView(false)
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Type {
	case EvHello:
		c.remote.hello(ev)
		c.remote.observe(ev.Pose)
		c.sendStateLocked()
		c.flushView(true)
		return
	case EvStart:
		c.ctrl.Handle(session.UserStarted{At: now})
	case EvReady:
		c.remote.observe(ev.Pose)
		c.ctrl.Handle(session.PlatformSessionReady{At: now})
	case EvError:
		msg := ev.Message
		if msg == "" {
			msg = "session error"
		}
		c.ctrl.Handle(session.PlatformSessionError{At: now, Err: errors.New(msg)})
	case EvFrame:
		c.remote.observe(ev.Pose)
		c.ctrl.Handle(session.FrameRendered{At: now})
	case EvSelect:
		c.ctrl.Handle(session.UserSelectedItem{At: now, ID: ev.ID})
	case EvToggleMenu:
		c.ctrl.Handle(session.UserToggledMenu{})
	case EvShowList:
		c.ctrl.Handle(session.UserOpenedList{})
	case EvClose:
		c.ctrl.Handle(session.UserClosedOverlays{})
	case EvFilter:
		c.ctrl.View().SetFilter(ev.Query)
	case EvClearFilter:
		c.ctrl.View().ClearFilter()
	case EvRetry:
		c.ctrl.Handle(session.UserRetried{At: now})
	default:
		_ = c.write(Op{Op: OpError, Message: "unknown event type " + ev.Type})
		return
	}
	c.flushView(false)
}

func (c *conn) sendState(tr session.Transition) {
	op := Op{Op: OpState, State: tr.To.String()}
	if tr.Failure != nil {
		op.Failure = failureInfo(tr.Failure)
	}
	if err := c.write(op); err != nil {
		c.log.Debug("state write failed", "error", err)
	}
}

// sendStateLocked reports the current state outside of a transition.
func (c *conn) sendStateLocked() {
	op := Op{Op: OpState, State: c.ctrl.State().String()}
	if f := c.ctrl.Failure(); f != nil {
		op.Failure = failureInfo(f)
	}
	_ = c.write(op)
}

func failureInfo(f *session.Failure) *FailureInfo {
	return &FailureInfo{Kind: f.Kind.String(), Message: f.Message(), Retryable: f.Kind.Retryable()}
}

// flushView sends the overlay state when it changed since the last send.
// A pending focus request always produces a send and is left out of the
// comparison, so it is consumed only when it reaches the page.
func (c *conn) flushView(force bool) {
	vs := c.viewState()
	b, err := json.Marshal(vs)
	if err != nil {
		return
	}
	focus := c.ctrl.View().TakeFocusRequest()
	if !force && !focus && bytes.Equal(b, c.lastView) {
		return
	}
	c.lastView = b
	vs.Focus = focus
	_ = c.write(Op{Op: OpView, View: &vs})
}

func (c *conn) viewState() ViewState {
	v := c.ctrl.View()
	vs := ViewState{
		Mode:        v.Mode().String(),
		Filter:      v.Filter(),
		Visible:     []string{},
		Diagnostic:  v.Diagnostic(),
		FailMessage: v.FailMessage(),
	}
	for _, it := range v.Visible() {
		vs.Visible = append(vs.Visible, it.ID)
	}
	if it, ok := v.Selected(); ok {
		vs.Selected = &it
	}
	if c.ctrl.State() == session.ValidatingTracking {
		moved, required := c.ctrl.TrackingProgress()
		vs.Tracking = &TrackingBar{Moved: moved, Required: required}
	}
	return vs
}
