package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/layerlint/layerlint/internal/adapters/outbound/config"
)

func newInitCmd() *cobra.Command {
	var (
		packageName string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .layerlint.yaml configuration file",
		Long:  "Create a .layerlint.yaml listing the default layer paths, vocabularies and rule severities.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath(args)
			if err != nil {
				return err
			}

			if _, err := config.Write(absPath, config.Template(packageName), force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&packageName, "package", "", "Package name used to resolve package: imports")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .layerlint.yaml")

	return cmd
}
