package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// uiOut receives human-facing status lines. Machine output (tables, JSON,
// SVG) goes to the command's own writer instead.
var uiOut io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // selected bubble, numbers
	colorGreen  = lipgloss.Color("35")  // success, cache hits
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // links, commands
	colorWhite  = lipgloss.Color("255") // values, neighbour bubbles
	colorGray   = lipgloss.Color("245") // labels, distant bubbles
	colorDim    = lipgloss.Color("240") // muted text
)

// Styles shared by commands and the browser.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"

	statusCached = "cached"
	statusFresh  = "fresh"
)

// =============================================================================
// Status lines
// =============================================================================

func printIcon(icon string, style lipgloss.Style, msg string) {
	fmt.Fprintln(uiOut, style.Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	printIcon(iconSuccess, styleIconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printIcon(iconError, styleIconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printIcon(iconWarning, styleIconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printIcon(iconInfo, styleIconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile points at a written output file.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats summarizes a lineup: "19 entities · by Persons · cached".
func printStats(entityCount int, metric string, cached bool) {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d entities", entityCount))}
	if metric != "" {
		parts = append(parts, StyleDim.Render("by "+metric))
	}
	if cached {
		parts = append(parts, styleCached.Render(statusCached))
	} else {
		parts = append(parts, styleComputed.Render(statusFresh))
	}
	fmt.Fprintln(uiOut, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(uiOut)
}
