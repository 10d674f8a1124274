package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/catalog"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/config"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/format"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir  string
	Catalog    string
	PrettyJSON bool
	Format     string
	LogFile    string
	LogLevel   string

	cfg     config.Config
	log     *slog.Logger
	closeFn func() error
	// created is set when load wrote the default config.yaml.
	created bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "showcase",
		Short:        "Revolution AR showcase: session host, simulator and catalog tools",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Walk the showcase in the terminal simulator
  showcase

  # Print ring placements for the configured catalog
  showcase layout --pretty

  # Scripted headless run that degrades after ten seconds
  showcase simulate --degrade-after 10s --duration 30s

  # Host the browser bridge
  showcase serve --addr 127.0.0.1:8443
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeFn != nil {
			return app.closeFn()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", "", "Config directory (default: $REVAR_CONFIG_DIR or ~/.revolution-ar)")
	cmd.PersistentFlags().StringVar(&app.Catalog, "catalog", envOr("REVAR_CATALOG", ""), "Catalog source: file path, http(s) URL or sqlite://<path> (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("REVAR_FORMAT", "json"), "Output format ("+strings.Join(format.Names, "|")+")")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Append logs to this file (overrides config)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")

	cmd.AddCommand(newLayoutCmd(app))
	cmd.AddCommand(newCatalogCmd(app))
	cmd.AddCommand(newSimulateCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

// load resolves the config directory, writes a default config.yaml on first
// run, reads it and applies flag overrides. The logger is built last so a bad config is reported plainly.
func (app *App) load(cmd *cobra.Command) error {
	dir, err := config.Dir(app.ConfigDir)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.ConfigDir = dir

	created, err := config.EnsureDefault(dir)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.created = created

	cfg, err := config.Load(dir)
	if err != nil {
		return writeErr(cmd, err)
	}
	if v := strings.TrimSpace(app.Catalog); v != "" {
		cfg.CatalogSource = v
	}
	if v := strings.TrimSpace(app.LogFile); v != "" {
		cfg.Log.File = v
	}
	if v := strings.TrimSpace(app.LogLevel); v != "" {
		cfg.Log.Level = v
		if err := cfg.Validate(); err != nil {
			return writeErr(cmd, err)
		}
	}
	app.cfg = cfg

	log, closeFn, err := newLogger(cfg.Log, cmd.ErrOrStderr(), cmd.Root() == cmd)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log = log
	app.closeFn = closeFn
	return nil
}

func (app *App) loader() (catalog.Loader, error) {
	src, err := catalog.ParseSource(app.cfg.CatalogSource)
	if err != nil {
		return catalog.Loader{}, err
	}
	return catalog.Loader{Source: src, Logger: app.log}, nil
}

func runTUI(app *App) error {
	loader, err := app.loader()
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Config:  app.cfg,
		Loader:  loader,
		Logger:  app.log,
		PageURL: envOr("REVAR_PAGE_URL", ""),
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut prints v inside the {data, _hints} envelope.
func writeOut(cmd *cobra.Command, app *App, data any, hints ...string) error {
	env := map[string]any{"data": data}
	if len(hints) > 0 {
		env["_hints"] = hints
	}
	return format.Write(cmd.OutOrStdout(), env, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
