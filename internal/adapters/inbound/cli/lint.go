package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/layerlint/layerlint/internal/adapters/outbound/tui"
	"github.com/layerlint/layerlint/internal/application"
	"github.com/layerlint/layerlint/internal/domain"
)

func newLintCmd() *cobra.Command {
	var (
		jsonOutput  bool
		configPath  string
		jobs        int
		useBaseline bool
		record      bool
		metricsFile string
		maxWarnings int
		changed     bool
	)

	cmd := &cobra.Command{
		Use:   "lint [path]",
		Short: "Check a project against the layered architecture rules",
		Long: "Analyze every supported source file below path and report layer dependency, " +
			"placement, outcome type, exception and immutability violations. " +
			"Exits non-zero when errors are found or --max-warnings is exceeded.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath(args)
			if err != nil {
				return err
			}

			svc := newLintService(cmd, serviceOptions{configPath: configPath, metricsFile: metricsFile})
			report, err := svc.Lint(cmd.Context(), absPath, application.LintOptions{
				Jobs:        jobs,
				Changed:     changed,
				UseBaseline: useBaseline,
				Record:      record,
			})
			if err != nil {
				return fmt.Errorf("lint failed: %w", err)
			}

			if jsonOutput {
				if err := renderJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
			}
			return checkThresholds(report, maxWarnings)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().StringVar(&configPath, "config", "", "Configuration file (defaults to <path>/.layerlint.yaml)")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "Files analyzed in parallel (0 = number of CPUs)")
	cmd.Flags().BoolVar(&useBaseline, "baseline", false, "Suppress diagnostics accepted in .layerlint/baseline.json")
	cmd.Flags().BoolVar(&record, "record", false, "Append the run to .layerlint/history")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format to this file")
	cmd.Flags().IntVar(&maxWarnings, "max-warnings", -1, "Fail when more warnings are reported (-1 = no limit)")
	cmd.Flags().BoolVar(&changed, "changed", false, "Only lint files changed in the git worktree")

	return cmd
}

func checkThresholds(report *domain.Report, maxWarnings int) error {
	if report.HasErrors() {
		return fmt.Errorf("%d architecture errors found", report.Summary.Errors)
	}
	if maxWarnings >= 0 && report.Summary.Warnings > maxWarnings {
		return fmt.Errorf("%d warnings exceed the maximum of %d", report.Summary.Warnings, maxWarnings)
	}
	return nil
}
