package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/xbm/internal/tui"
)

// RunProgram runs app as a full-screen bubbletea program.
func RunProgram(app tui.App) (tui.App, error) {
	p := tea.NewProgram(app, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return app, fmt.Errorf("running TUI: %w", err)
	}
	result, ok := final.(tui.App)
	if !ok {
		return app, fmt.Errorf("running TUI: unexpected model %T", final)
	}
	return result, nil
}

// runTUI browses the tree interactively and saves it on exit when it
// changed.
func runTUI(cmd *cobra.Command, app *App) error {
	run := app.RunTUI
	if run == nil {
		run = RunProgram
	}

	return withSession(cmd, app, func(s *session) (bool, error) {
		browser := tui.NewApp(tui.AppParams{
			Model:     s.model,
			Clipboard: app.Clipboard,
			Save:      s.store.Save,
		})

		final, err := run(browser)
		if err != nil {
			return false, err
		}
		return final.Dirty(), nil
	})
}
