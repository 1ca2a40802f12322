package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/stackbank/internal/session"
	"github.com/Veraticus/stackbank/internal/tui"
	"github.com/Veraticus/stackbank/internal/tui/themes"
)

func appCmd() *cobra.Command {
	var noMouse bool

	cmd := &cobra.Command{
		Use:   "app",
		Short: "Start the interactive client",
		Long: `Starts the full-screen client. Press F1 for key bindings.

The session ends after a period without keyboard or mouse input
(session.idle_timeout, 15 minutes by default).`,
		RunE: withRuntime(func(cmd *cobra.Command, rt *clientRuntime, _ []string) error {
			monitor := session.NewMonitor(rt.store, rt.notifier, rt.history,
				session.WithIdleTimeout(rt.cfg.IdleTimeout),
			)

			return tui.Run(cmd.Context(),
				tui.WithBackend(rt.client),
				tui.WithSession(rt.store, monitor, rt.history),
				tui.WithNotifier(rt.notifier),
				tui.WithTheme(themes.ByName(rt.cfg.Theme)),
				tui.WithExportDir(rt.cfg.ExportDir),
				tui.WithFeatures(true, rt.cfg.Mouse && !noMouse),
			)
		}),
	}

	cmd.Flags().BoolVar(&noMouse, "no-mouse", false, "disable mouse input")
	return cmd
}
