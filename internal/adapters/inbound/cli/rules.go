package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/layerlint/layerlint/internal/adapters/outbound/tui"
	"github.com/layerlint/layerlint/internal/domain"
	"github.com/layerlint/layerlint/internal/domain/rules"
)

func newRulesCmd() *cobra.Command {
	var (
		jsonOutput bool
		path       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalogue with effective severities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath([]string{path})
			if err != nil {
				return err
			}
			svc := newLintService(cmd, serviceOptions{configPath: configPath})
			infos, err := svc.Rules(absPath)
			if err != nil {
				return fmt.Errorf("loading rules: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, infos)
			}
			effective := make(map[string]domain.Severity, len(infos))
			for _, info := range infos {
				effective[info.ID] = info.Severity
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(rules.Default(), func(id string) domain.Severity {
				return effective[id]
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Project root")
	cmd.Flags().StringVar(&configPath, "config", "", "Configuration file")

	return cmd
}
