package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/layerlint/layerlint/internal/domain"
	"github.com/layerlint/layerlint/internal/domain/rules"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	layerStyles        = map[domain.Layer]lipgloss.Style{
		domain.LayerDomain:         lipgloss.NewStyle().Foreground(success),
		domain.LayerData:           lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8")), // sky
		domain.LayerPresentation:   lipgloss.NewStyle().Foreground(lipgloss.Color("#C084FC")), // violet
		domain.LayerInfrastructure: lipgloss.NewStyle().Foreground(warning),
	}
)

// RenderRules lists the rule catalogue with default and effective severities.
// severity returns the configured severity of a rule id.
func RenderRules(catalogue []rules.Rule, severity func(id string) domain.Severity) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n\n",
		sectionHeaderStyle.Render("Rules"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(catalogue))),
	)

	for _, r := range catalogue {
		effective := severity(r.ID)
		sev := severityTag(effective)
		if effective == domain.SeverityNone {
			sev = skipStyle.Render("off  ")
		}
		line := fmt.Sprintf("    %s %s %s", sev, titleStyle.Render(padRight(r.ID, 30)), dimStyle.Render(r.Summary))
		if effective != r.DefaultSeverity {
			line += "  " + faintStyle.Render("default "+string(r.DefaultSeverity))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderClassification lists path classifications, one per line.
func RenderClassification(classes []domain.PathClass) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, pc := range classes {
		layer := pc.Layer
		if layer == "" {
			layer = domain.LayerUnknown
		}
		style, ok := layerStyles[layer]
		if !ok {
			style = skipStyle
		}

		line := fmt.Sprintf("  %s %s", style.Render(padRight(string(layer), 15)), pc.Path)
		var tags []string
		if pc.Hint != "" && pc.Hint != domain.HintNone {
			tags = append(tags, "role: "+string(pc.Hint))
		}
		if pc.Exclusion.Excluded() {
			tags = append(tags, string(pc.Exclusion))
		}
		if len(tags) > 0 {
			line += "  " + faintStyle.Render(strings.Join(tags, "  "))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderSuggestion shows an exception verdict and the suggested rename.
func RenderSuggestion(name string, verdict domain.ExceptionCategory, reason, suggested string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s  %s\n", titleStyle.Render(name), dimStyle.Render(string(verdict)))
	if reason != "" {
		fmt.Fprintf(&b, "  %s\n", warnStyle.Render(reason))
	}
	if suggested != "" && suggested != name {
		fmt.Fprintf(&b, "  %s %s\n", hintStyle.Render("→ rename to"), passStyle.Render(suggested))
	} else {
		fmt.Fprintf(&b, "  %s\n", passStyle.Render("name is fine"))
	}
	return b.String()
}
