package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/catalog"

	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and store showcase catalogs",
	}
	cmd.AddCommand(newCatalogShowCmd(app))
	cmd.AddCommand(newCatalogImportCmd(app))
	return cmd
}

func newCatalogShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the normalized catalog and its load diagnostic",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := app.loader()
			if err != nil {
				return writeErr(cmd, err)
			}
			res := loader.Load(cmd.Context())
			data := map[string]any{
				"source":  loader.Source.String(),
				"ok":      res.OK(),
				"summary": res.Summary(),
				"meta":    res.Catalog.Meta,
				"items":   res.Catalog.Items,
			}
			if res.Diagnostic != "" {
				data["diagnostic"] = res.Diagnostic
			}
			return writeOut(cmd, app, data)
		},
	}
}

func newCatalogImportCmd(app *App) *cobra.Command {
	var db string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a JSON or YAML catalog document in a SQLite snapshot",
		Long: strings.TrimSpace(`
Read a catalog document and store it as the current snapshot of a SQLite
database. Point the catalog source at sqlite://<db> to serve from it.

The document is stored raw; normalization still happens on every load.
`),
		Example: strings.TrimSpace(`
showcase catalog import data.json --db ./catalog.db
showcase --catalog sqlite://./catalog.db catalog show
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(db) == "" {
				return writeErr(cmd, errors.New("missing --db"))
			}
			b, err := os.ReadFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			doc, err := catalog.Decode(b, catalog.FormatForName(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			snap := catalog.Snapshot{Path: db}
			if err := snap.Save(cmd.Context(), doc); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info("catalog imported", "file", args[0], "db", db, "items", len(doc.Items))
			return writeOut(cmd, app, map[string]any{
				"db":    db,
				"items": len(doc.Items),
			}, "serve it with --catalog "+snap.String())
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "SQLite database path")
	return cmd
}
