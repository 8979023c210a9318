package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/layerlint/layerlint/internal/adapters/outbound/tui"
)

func newSuggestCmd() *cobra.Command {
	var (
		jsonOutput bool
		path       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "suggest <ExceptionName> <file>",
		Short: "Check an exception name and suggest a feature-scoped one",
		Long:  "Categorize an exception class name for the layer of file and propose a feature-prefixed name when it is too generic.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath([]string{path})
			if err != nil {
				return err
			}
			svc := newLintService(cmd, serviceOptions{configPath: configPath})
			sg, err := svc.SuggestExceptionName(absPath, args[0], args[1])
			if err != nil {
				return fmt.Errorf("suggest failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, sg)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderSuggestion(sg.Name, sg.Category, sg.Reason, sg.Suggested))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Project root")
	cmd.Flags().StringVar(&configPath, "config", "", "Configuration file")

	return cmd
}
