package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/layout"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"

	"github.com/spf13/cobra"
)

func newLayoutCmd(app *App) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print ring placements for the configured catalog",
		Long: strings.TrimSpace(`
Compute where every card of the catalog lands on the ring around the viewer.

With --count N the catalog is not read; N placeholder items are placed instead,
which is handy for checking how the radius grows with the item count.
`),
		Example: strings.TrimSpace(`
showcase layout --pretty
showcase layout --count 12 --format edn
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			var items []model.Item
			var diagnostic string
			if cmd.Flags().Changed("count") {
				if count < 0 {
					return writeErr(cmd, errors.New("--count must not be negative"))
				}
				items = placeholderItems(count)
			} else {
				loader, err := app.loader()
				if err != nil {
					return writeErr(cmd, err)
				}
				res := loader.Load(cmd.Context())
				items, diagnostic = res.Catalog.Items, res.Diagnostic
			}

			p := app.cfg.Layout
			data := map[string]any{
				"count":  len(items),
				"radius": layout.Radius(len(items), p),
				"scale":  layout.Scale(len(items), p),
				"cards":  layout.Ring(items, p),
			}
			if diagnostic != "" {
				data["diagnostic"] = diagnostic
			}
			return writeOut(cmd, app, data)
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Place N placeholder items instead of the catalog")
	return cmd
}

func placeholderItems(n int) []model.Item {
	items := make([]model.Item, 0, n)
	for i := range n {
		items = append(items, model.Item{
			ID:    fmt.Sprintf("item-%d", i+1),
			Title: fmt.Sprintf("Exhibit %d", i+1),
			Link:  model.NoLink,
		})
	}
	return items
}
