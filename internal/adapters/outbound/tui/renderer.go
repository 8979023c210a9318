package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/layerlint/layerlint/internal/domain"
)

// ── warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	info      = lipgloss.Color("#8B949E") // soft blue-gray
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	hintStyle     = lipgloss.NewStyle().Foreground(dim).Italic(true)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats a lint report for terminal output.
func RenderReport(report *domain.Report) string {
	var b strings.Builder

	// ── Header ──
	s := report.Summary
	title := headerStyle.Render("layerlint")
	subtitle := dimStyle.Render("Layered Architecture Check")
	status := passStyle.Bold(true).Render("clean")
	if s.Errors+s.Warnings+s.Infos > 0 {
		status = countsLine(s.Errors, s.Warnings, s.Infos)
	}
	files := dimStyle.Render(fmt.Sprintf("%d files analyzed  ·  %d excluded  ·  %d failed",
		s.FilesAnalyzed, s.FilesExcluded, s.FilesFailed))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + status + "\n" + files))
	b.WriteString("\n\n")

	// ── Diagnostics ──
	printed := 0
	for _, f := range report.Files {
		if len(f.Diagnostics) == 0 && len(f.Failures) == 0 {
			continue
		}
		if printed > 0 {
			b.WriteString("\n")
		}
		RenderFile(&b, f)
		printed++
	}
	if printed == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	renderLayers(&b, report)

	if s.Suppressed > 0 {
		b.WriteString("\n  " + hintStyle.Render(fmt.Sprintf("%d diagnostics suppressed by the baseline.", s.Suppressed)) + "\n")
	}

	b.WriteString("\n")
	return b.String()
}

// RenderFile writes the diagnostics and rule failures of one file.
func RenderFile(b *strings.Builder, f domain.FileReport) {
	layer := f.Class.Layer
	if layer == "" {
		layer = domain.LayerUnknown
	}
	fmt.Fprintf(b, "  %s %s\n", titleStyle.Render(f.Path), faintStyle.Render("["+string(layer)+"]"))

	for _, d := range f.Diagnostics {
		loc := ""
		if d.Location.Span.StartLine > 0 {
			loc = fmt.Sprintf("%d:%d", d.Location.Span.StartLine, d.Location.Span.StartCol)
		}
		fmt.Fprintf(b, "    %s %s %s  %s\n",
			severityTag(d.Severity),
			fileStyle.Render(padRight(loc, 7)),
			d.Problem,
			faintStyle.Render(d.RuleID),
		)
		if d.Correction != "" {
			fmt.Fprintf(b, "                  %s\n", hintStyle.Render("→ "+d.Correction))
		}
	}

	for _, fail := range f.Failures {
		fmt.Fprintf(b, "    %s %s %s  %s\n",
			skipStyle.Render("skip "),
			fileStyle.Render(padRight("", 7)),
			dimStyle.Render(fmt.Sprintf("rule failed on %s: %s", fail.Node, fail.Message)),
			faintStyle.Render(fail.RuleID),
		)
	}
}

func countsLine(errors, warnings, infos int) string {
	var parts []string
	if errors > 0 {
		parts = append(parts, errorTagStyle.Render(plural(errors, "error")))
	}
	if warnings > 0 {
		parts = append(parts, warnTagStyle.Render(plural(warnings, "warning")))
	}
	if infos > 0 {
		parts = append(parts, infoTagStyle.Render(fmt.Sprintf("%d info", infos)))
	}
	return strings.Join(parts, "  ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func severityTag(severity domain.Severity) string {
	switch severity {
	case domain.SeverityError:
		return errorTagStyle.Render("error")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("info ")
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats recorded runs for terminal output.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		issues := e.Errors + e.Warnings
		issueStyle := passStyle
		if e.Errors > 0 {
			issueStyle = failStyle
		} else if e.Warnings > 0 {
			issueStyle = warnStyle
		}

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(e.Timestamp.Format("2006-01-02 15:04")),
			faintStyle.Render(hash),
			dimStyle.Render(fmt.Sprintf("%4d files", e.Files)),
			issueStyle.Render(fmt.Sprintf("%d errors, %d warnings", e.Errors, e.Warnings)),
		)

		if i > 0 {
			diff := issues - (entries[i-1].Errors + entries[i-1].Warnings)
			if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			} else if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
