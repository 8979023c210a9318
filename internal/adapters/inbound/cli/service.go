package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/layerlint/layerlint/internal/adapters/outbound/baseline"
	"github.com/layerlint/layerlint/internal/adapters/outbound/config"
	"github.com/layerlint/layerlint/internal/adapters/outbound/frontend/golang"
	"github.com/layerlint/layerlint/internal/adapters/outbound/frontend/ts"
	"github.com/layerlint/layerlint/internal/adapters/outbound/frontend/unitfile"
	"github.com/layerlint/layerlint/internal/adapters/outbound/gitinfo"
	"github.com/layerlint/layerlint/internal/adapters/outbound/history"
	"github.com/layerlint/layerlint/internal/adapters/outbound/metrics"
	"github.com/layerlint/layerlint/internal/adapters/outbound/scanner"
	"github.com/layerlint/layerlint/internal/application"
)

type serviceOptions struct {
	configPath  string
	metricsFile string
}

func frontEnds() application.FrontEnds {
	return application.FrontEnds{ts.New(), golang.New(), unitfile.New()}
}

func newLintService(cmd *cobra.Command, opts serviceOptions) *application.LintService {
	var loader *config.YAMLLoader
	if opts.configPath != "" {
		loader = config.NewWithPath(opts.configPath)
	} else {
		loader = config.New()
	}

	svcOpts := []application.Option{
		application.WithBaselineStore(baseline.New()),
		application.WithHistory(history.New(), gitinfo.New()),
		application.WithLogger(newLogger(cmd)),
	}
	if opts.metricsFile != "" {
		svcOpts = append(svcOpts, application.WithMetrics(metrics.New(opts.metricsFile)))
	}
	return application.NewLintService(scanner.New(), loader, frontEnds(), svcOpts...)
}

// projectPath resolves the optional [path] argument.
func projectPath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return absPath, nil
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
