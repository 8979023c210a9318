package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/layerlint/layerlint/internal/adapters/outbound/tui"
)

func newClassifyCmd() *cobra.Command {
	var (
		jsonOutput bool
		path       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "classify <file>...",
		Short: "Show the layer, role hint and exclusion status of paths",
		Long:  "Classify file paths with the project configuration. Paths are relative to the project root and need not exist.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath([]string{path})
			if err != nil {
				return err
			}
			svc := newLintService(cmd, serviceOptions{configPath: configPath})
			classes, err := svc.ClassifyPaths(absPath, args)
			if err != nil {
				return fmt.Errorf("classify failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, classes)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderClassification(classes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Project root")
	cmd.Flags().StringVar(&configPath, "config", "", "Configuration file")

	return cmd
}
