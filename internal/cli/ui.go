package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/taskwave/pkg/analysis"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - critical path
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleCritical for critical path tasks.
	StyleCritical = lipgloss.NewStyle().Foreground(colorRed).Bold(true)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Report Display
// =============================================================================

// printStats prints report statistics on a single line.
func printStats(w io.Writer, taskCount, waveCount int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d tasks", taskCount),
		fmt.Sprintf("%d waves", waveCount),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(w, line)
}

// printReport prints a human-readable summary of a report.
func printReport(w io.Writer, title string, r *analysis.Report, cached bool) {
	fmt.Fprintln(w, StyleTitle.Render(title))
	printStats(w, len(r.Order), len(r.Generations), cached)
	fmt.Fprintln(w)

	printKeyValue(w, "score", StyleNumber.Render(fmt.Sprintf("%d/100", r.Score)))
	printKeyValue(w, "duration", fmt.Sprintf("%s critical, %s serial",
		fmtNum(r.CriticalPath.Duration), fmtNum(r.TotalDuration)))

	critical := make([]string, len(r.CriticalPath.Tasks))
	for i, id := range r.CriticalPath.Tasks {
		critical[i] = StyleCritical.Render(id)
	}
	if len(critical) > 0 {
		printKeyValue(w, "critical", strings.Join(critical, " "+iconArrow+" "))
	}

	for i, wave := range r.Generations {
		printKeyValue(w, fmt.Sprintf("wave %d", i), strings.Join(wave, ", "))
	}

	if len(r.Conflicts) > 0 {
		fmt.Fprintln(w)
		for _, c := range r.Conflicts {
			printWarning(w, "%s and %s both need %s in wave %d",
				c.TaskA, c.TaskB, strings.Join(c.SharedResources, ", "), c.Wave)
		}
	}
	if len(r.RedundantEdges) > 0 {
		fmt.Fprintln(w)
		printInfo(w, "%d dependencies are implied by longer paths", len(r.RedundantEdges))
		for _, e := range r.RedundantEdges {
			printDetail(w, "%s %s %s", e.From, iconArrow, e.To)
		}
	}
}

// fmtNum formats a duration weight without trailing zeros.
func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
