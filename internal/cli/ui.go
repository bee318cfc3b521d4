package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/uniquepaths/pkg/estimate"
	graphio "github.com/matzehuels/uniquepaths/pkg/io"
	"github.com/matzehuels/uniquepaths/pkg/pipeline"
	"github.com/matzehuels/uniquepaths/pkg/scc"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
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

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleTableHeader = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
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
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints graph statistics on a single line.
func printStats(stats pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nodes", stats.NodeCount),
		fmt.Sprintf("%d edges", stats.EdgeCount),
		fmt.Sprintf("%d components", stats.Components),
	}
	if stats.CyclicComponents > 0 {
		parts = append(parts, fmt.Sprintf("%d cyclic (largest %d)", stats.CyclicComponents, stats.LargestComponent))
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
	fmt.Println(line + StyleDim.Render(" · ") + statusStyle.Render(status))
}

// formatResult renders a count and average length, e.g. "12 paths, avg 3.50".
// Saturated counts are prefixed with "≥".
func formatResult(r estimate.Result) string {
	noun := "paths"
	if r.Count == 1 {
		noun = "path"
	}
	count := strconv.FormatInt(r.Count, 10)
	if r.Saturated {
		count = "≥" + count
	}
	return fmt.Sprintf("%s %s, avg length %s",
		StyleNumber.Render(count), noun,
		StyleNumber.Render(strconv.FormatFloat(r.AvgLength, 'f', 2, 64)))
}

// printResult prints the outcome of a counting run.
func printResult(res *pipeline.Result, start, end int) {
	printSuccess("%s from %d to %d", formatResult(res.Estimate), start, end)
	printStats(res.Stats, res.CacheInfo.RunHit)
	printNewline()

	b := res.Breakdown
	printKeyValue("entry", formatResult(b.Entry))
	printKeyValue("condensed", formatResult(b.DAG))
	printKeyValue("exit", formatResult(b.Exit))
	if res.Exact != nil {
		printKeyValue("exact", formatResult(*res.Exact))
	}
	if n := res.CacheInfo.ComponentHits; n > 0 {
		printKeyValue("reused", fmt.Sprintf("%d of %d components from cache", n, n+res.CacheInfo.ComponentMisses))
	}
	if res.ReportID != "" {
		printKeyValue("report", res.ReportID)
	}
	if res.Estimate.Saturated {
		printNewline()
		printWarning("The path count exceeds %d; the value shown is a lower bound", estimate.MaxCount)
	}
	if res.Estimate.Count == 0 {
		printNewline()
		printWarning("No sampled walk reached node %d; try more --samples if a path should exist", end)
	}
}

// =============================================================================
// Tables
// =============================================================================

// printComponentTable lists components with their boundaries and statistics.
func printComponentTable(comps []*scc.Component[int]) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleTableBorder).
		Headers("ID", "NODES", "EDGES", "IN", "OUT", "PATHS", "AVG LENGTH").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			return styleTableCell
		})

	for _, c := range comps {
		paths, avg := "-", "-"
		if c.Computed() {
			paths = strconv.FormatInt(c.TotalPathCount(), 10)
			if c.Stats().Saturated {
				paths = "≥" + paths
			}
			avg = graphio.FormatValue(c.TotalAvgLength())
		}
		t.Row(
			strconv.Itoa(c.ID),
			strconv.Itoa(c.Size()),
			strconv.Itoa(c.Graph().EdgeCount()),
			joinInts(c.InNodes()),
			joinInts(c.OutNodes()),
			paths,
			avg,
		)
	}
	fmt.Println(t)
}

// joinInts formats a node list, truncated after a few entries.
func joinInts(keys []int) string {
	const maxShown = 4
	if len(keys) == 0 {
		return "-"
	}
	parts := make([]string, 0, min(len(keys), maxShown))
	for i, k := range keys {
		if i == maxShown {
			parts = append(parts, fmt.Sprintf("+%d", len(keys)-maxShown))
			break
		}
		parts = append(parts, strconv.Itoa(k))
	}
	return strings.Join(parts, ",")
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
