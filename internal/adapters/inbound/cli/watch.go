package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/layerlint/layerlint/internal/adapters/inbound/watch"
	"github.com/layerlint/layerlint/internal/adapters/outbound/tui"
	"github.com/layerlint/layerlint/internal/application"
)

func newWatchCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-lint files as they change",
		Long:  "Lint the project once, then watch it and print the diagnostics of every changed file until interrupted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath(args)
			if err != nil {
				return err
			}
			logger := newLogger(cmd)
			svc := newLintService(cmd, serviceOptions{configPath: configPath})

			report, err := svc.Lint(cmd.Context(), absPath, application.LintOptions{})
			if err != nil {
				return fmt.Errorf("lint failed: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))

			w, err := watch.New(watch.Config{
				Root:      absPath,
				Supported: frontEnds().Supports,
				Logger:    logger,
			})
			if err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}
			defer w.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s (Ctrl+C to stop)\n", absPath)
			return w.Run(cmd.Context(), func(ctx context.Context, b watch.Batch) {
				for _, f := range b.Removed {
					logger.Debug("file removed", "file", f)
				}
				if len(b.Changed) == 0 {
					return
				}
				report, err := svc.Lint(ctx, absPath, application.LintOptions{Files: b.Changed})
				if err != nil {
					logger.Warn("re-linting changed files", "error", err)
					return
				}
				var sb strings.Builder
				for _, f := range report.Files {
					if len(f.Diagnostics) > 0 || len(f.Failures) > 0 {
						tui.RenderFile(&sb, f)
					}
				}
				if sb.Len() == 0 {
					fmt.Fprintf(&sb, "  %d changed files, no issues\n", len(b.Changed))
				}
				fmt.Fprint(cmd.OutOrStdout(), sb.String())
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Configuration file")

	return cmd
}
