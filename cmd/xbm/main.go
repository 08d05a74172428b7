package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/nikbrunner/xbm/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		ConfigPath: os.Getenv("XBM_CONFIG"),
		RunTUI:     cli.RunProgram,
	}

	// The bare command opens the browser only on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
