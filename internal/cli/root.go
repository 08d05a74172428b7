// Package cli wires the xbm command tree: each command loads the bookmark
// tree from the configured storage, edits it through treemodel.Model and
// saves it back when something changed.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/xbm/internal/storage"
	"github.com/nikbrunner/xbm/internal/tui"
)

// App holds the collaborators the commands need from the outside world.
type App struct {
	// ConfigPath is used when --config is not given. Empty means the
	// default location.
	ConfigPath string

	// IsInteractive reports whether the bare command should open the TUI.
	IsInteractive func() bool

	// RunTUI runs the browser and returns it in its final state.
	RunTUI func(tui.App) (tui.App, error)

	// Clipboard receives addresses yanked in the TUI. Defaults to the
	// system clipboard.
	Clipboard func(string) error

	config  *storage.Config
	verbose bool
}

// NewRootCmd creates the top-level "xbm" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "xbm",
		Short:         "Bookmark tree manager backed by XBEL",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = app.ConfigPath
			}
			if path == "" {
				var err error
				if path, err = storage.DefaultConfigFilePath(); err != nil {
					return err
				}
			}

			cfg, err := storage.LoadConfig(path)
			if err != nil {
				return err
			}
			app.config = cfg
			app.setupLogging(cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(cmd, app)
			}
			return runList(cmd, app, "/")
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/xbm/config.json)")
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		newListCmd(app),
		newAddCmd(app),
		newMkdirCmd(app),
		newMoveCmd(app),
		newRemoveCmd(app),
		newEditCmd(app),
		newImportCmd(app),
		newExportCmd(app),
	)

	return root
}

// setupLogging installs the default slog handler on the command's stderr.
func (app *App) setupLogging(cmd *cobra.Command) {
	level := app.config.Level()
	if app.verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
