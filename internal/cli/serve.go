package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/bridge"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the browser bridge (catalog API + session websocket)",
		Long: strings.TrimSpace(`
Serve the catalog and layout APIs and run one session controller per
connected page over a websocket.

Browsers only grant AR sessions to secure pages; put a TLS proxy in front
when serving anything but localhost.
`),
		Example: strings.TrimSpace(`
showcase serve --addr 127.0.0.1:8443
showcase --catalog https://museum.example/data.json serve
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("serve: missing --addr"))
			}
			loader, err := app.loader()
			if err != nil {
				return writeErr(cmd, err)
			}

			srv := bridge.NewServer(app.cfg, loader, bridge.WithLogger(app.log))
			hs := &http.Server{
				Addr:              listenAddr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			_ = writeOut(cmd, app, map[string]any{
				"addr":      listenAddr,
				"catalog":   app.cfg.CatalogSource,
				"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
			}, "websocket: ws://"+listenAddr+"/ws")
			fmt.Fprintf(cmd.ErrOrStderr(), "Showcase bridge running at http://%s\n", listenAddr)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			errCh := make(chan error, 1)
			go func() { errCh <- hs.ListenAndServe() }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return hs.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8443", "Bind address (host:port or :port)")
	return cmd
}
