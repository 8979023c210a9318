package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/layerlint/layerlint/internal/adapters/outbound/baseline"
)

func newBaselineCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "baseline [path]",
		Short: "Accept every current diagnostic",
		Long:  "Lint the project and record every diagnostic in .layerlint/baseline.json. Later runs with lint --baseline only report new findings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath(args)
			if err != nil {
				return err
			}
			svc := newLintService(cmd, serviceOptions{configPath: configPath})
			b, err := svc.CreateBaseline(cmd.Context(), absPath)
			if err != nil {
				return fmt.Errorf("baseline failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline written to %s (%d diagnostics accepted)\n",
				baseline.Path(absPath), len(b.Fingerprints))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Configuration file")

	return cmd
}
