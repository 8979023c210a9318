package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/layerlint/layerlint/internal/domain"
)

type layerStats struct {
	files, errors, warnings int
}

// renderLayers writes a per-layer table of analyzed files and findings.
func renderLayers(b *strings.Builder, report *domain.Report) {
	stats := make(map[domain.Layer]*layerStats)
	for _, f := range report.Files {
		layer := f.Class.Layer
		if layer == "" {
			layer = domain.LayerUnknown
		}
		st, ok := stats[layer]
		if !ok {
			st = &layerStats{}
			stats[layer] = st
		}
		st.files++
		for _, d := range f.Diagnostics {
			switch d.Severity {
			case domain.SeverityError:
				st.errors++
			case domain.SeverityWarning:
				st.warnings++
			}
		}
	}
	if len(stats) == 0 {
		return
	}

	b.WriteString("  " + titleStyle.Render("Layers") + "\n\n")
	fmt.Fprintf(b, "  %s %s %s %s\n",
		dimStyle.Render(padRight("LAYER", 16)),
		dimStyle.Render(padRight("FILES", 7)),
		dimStyle.Render(padRight("ERR", 5)),
		dimStyle.Render("WARN"),
	)

	for _, layer := range domain.AllLayers {
		st, ok := stats[layer]
		if !ok {
			continue
		}
		name := titleStyle.Render(padRight(layer.Title(), 16))
		if !layer.Known() {
			name = skipStyle.Render(padRight(layer.Title(), 16))
		}
		fmt.Fprintf(b, "  %s %s %s %s  %s\n",
			name,
			padRight(fmt.Sprintf("%d", st.files), 7),
			countCell(st.errors, failStyle, 5),
			countCell(st.warnings, warnStyle, 4),
			healthBar(st.files, st.errors+st.warnings, 16),
		)
	}
}

func countCell(n int, style lipgloss.Style, width int) string {
	cell := padRight(fmt.Sprintf("%d", n), width)
	if n == 0 {
		return faintStyle.Render(cell)
	}
	return style.Render(cell)
}

// healthBar shows the share of files in a layer without findings, assuming
// at most one finding per file.
func healthBar(files, findings, width int) string {
	if files == 0 {
		return ""
	}
	clean := max(0, files-findings)
	filled := clean * width / files
	empty := width - filled

	color := success
	switch {
	case filled*2 < width:
		color = danger
	case filled < width:
		color = warning
	}
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}
