package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/catalog"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/config"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/scene"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/session"

	"github.com/spf13/cobra"
)

// script drives a headless run on virtual time.
type script struct {
	FPS          float64
	MoveAfter    time.Duration
	DegradeAfter time.Duration
	DegradedFPS  float64
	Duration     time.Duration
	Insecure     bool
	NoXR         bool
	NeverReady   bool
	Reject       bool
	EntryDelay   time.Duration
}

// walkStep is the per-frame camera drift once the visitor starts moving; it
// clears the default tracking threshold on its own.
const walkStep = 0.03

type transitionOut struct {
	AtMS    int64  `json:"at_ms"`
	From    string `json:"from"`
	To      string `json:"to"`
	Event   string `json:"event"`
	Failure string `json:"failure,omitempty"`
}

type failureOut struct {
	Kind    string `json:"kind"`
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message"`
}

type simReport struct {
	FinalState  string          `json:"final_state"`
	Failure     *failureOut     `json:"failure,omitempty"`
	Frames      int             `json:"frames"`
	ElapsedMS   int64           `json:"elapsed_ms"`
	Cards       int             `json:"cards"`
	Transitions []transitionOut `json:"transitions"`
}

func runScript(cfg config.Config, res catalog.Result, sc script, log *slog.Logger) simReport {
	mem := scene.NewMemory()
	mem.SetCapabilities(!sc.Insecure, !sc.NoXR)
	if sc.Reject {
		mem.FailNextRequest(errors.New("NotAllowedError: permission denied"))
	}
	ctrl := session.New(mem, mem, session.WithConfig(cfg.Session()), session.WithLogger(log))

	t0 := time.Unix(0, 0).UTC()
	at := t0
	ctrl.Handle(session.CatalogLoaded{At: at, Result: res})
	ctrl.Handle(session.UserStarted{At: at})

	readyAt := t0.Add(sc.EntryDelay)
	ready := false
	var activeAt time.Time
	frames := 0

	for at.Sub(t0) < sc.Duration && ctrl.State() != session.Failed && ctrl.State() != session.Idle {
		fps := sc.FPS
		if !activeAt.IsZero() && sc.DegradeAfter > 0 && at.Sub(activeAt) >= sc.DegradeAfter {
			fps = sc.DegradedFPS
		}
		at = at.Add(time.Duration(float64(time.Second) / fps))

		if !ready && !sc.NeverReady && ctrl.State() == session.Entering && !at.Before(readyAt) {
			ready = true
			ctrl.Handle(session.PlatformSessionReady{At: at})
		}

		switch ctrl.State() {
		case session.ValidatingTracking, session.Active:
			if at.Sub(readyAt) >= sc.MoveAfter {
				mem.Move(model.Vec3{X: walkStep})
			}
			ctrl.Handle(session.FrameRendered{At: at})
			frames++
		default:
			ctrl.Handle(session.Tick{At: at})
		}
		if activeAt.IsZero() && ctrl.State() == session.Active {
			activeAt = at
		}
	}

	rep := simReport{
		FinalState:  ctrl.State().String(),
		Frames:      frames,
		ElapsedMS:   at.Sub(t0).Milliseconds(),
		Cards:       len(mem.Cards()),
		Transitions: []transitionOut{},
	}
	if f := ctrl.Failure(); f != nil {
		rep.Failure = &failureOut{Kind: f.Kind.String(), Detail: f.Detail, Message: f.Message()}
	}
	for _, tr := range ctrl.History() {
		out := transitionOut{
			AtMS:  tr.At.Sub(t0).Milliseconds(),
			From:  tr.From.String(),
			To:    tr.To.String(),
			Event: tr.Event,
		}
		if tr.Failure != nil {
			out.Failure = tr.Failure.Kind.String()
		}
		rep.Transitions = append(rep.Transitions, out)
	}
	return rep
}

func newSimulateCmd(app *App) *cobra.Command {
	sc := script{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scripted headless session and print its transition log",
		Long: strings.TrimSpace(`
Run one session against the in-memory scene on virtual time. The visitor
presses start at t=0, the platform confirms after the configured entry delay,
and the camera starts walking after --move-after.

The run stops after --duration or at the first failure.
`),
		Example: strings.TrimSpace(`
showcase simulate --pretty
showcase simulate --degrade-after 5s --degraded-fps 8 --duration 30s
showcase simulate --never-ready
showcase simulate --move-after 10s
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sc.FPS <= 0 || sc.DegradedFPS <= 0 {
				return writeErr(cmd, errors.New("--fps and --degraded-fps must be positive"))
			}
			if sc.Duration <= 0 {
				return writeErr(cmd, fmt.Errorf("--duration must be positive, got %s", sc.Duration))
			}
			sc.EntryDelay = app.cfg.Simulator.EntryDelay

			loader, err := app.loader()
			if err != nil {
				return writeErr(cmd, err)
			}
			res := loader.Load(cmd.Context())
			rep := runScript(app.cfg, res, sc, app.log)
			return writeOut(cmd, app, rep)
		},
	}

	cmd.Flags().Float64Var(&sc.FPS, "fps", 60, "Frame rate before degradation")
	cmd.Flags().DurationVar(&sc.MoveAfter, "move-after", 0, "Start walking this long after the session is ready")
	cmd.Flags().DurationVar(&sc.DegradeAfter, "degrade-after", 0, "Drop to --degraded-fps this long after activation (0: never)")
	cmd.Flags().Float64Var(&sc.DegradedFPS, "degraded-fps", 8, "Frame rate after degradation")
	cmd.Flags().DurationVar(&sc.Duration, "duration", 20*time.Second, "Virtual run length")
	cmd.Flags().BoolVar(&sc.Insecure, "insecure", false, "Simulate a non-secure page")
	cmd.Flags().BoolVar(&sc.NoXR, "no-xr", false, "Simulate a browser without immersive AR")
	cmd.Flags().BoolVar(&sc.NeverReady, "never-ready", false, "The platform never confirms the session")
	cmd.Flags().BoolVar(&sc.Reject, "reject", false, "The platform rejects the session request")
	return cmd
}
