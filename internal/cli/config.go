package cli

import (
	"path/filepath"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage config.yaml",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			wrote, err := config.EnsureDefault(app.ConfigDir)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"path":    filepath.Join(app.ConfigDir, config.FileName),
				"created": wrote || app.created,
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, app.cfg)
		},
	})
	return cmd
}
