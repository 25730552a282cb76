// Package output provides styled terminal output for the djinn CLI.
//
// All commands report through this package so the tool has one consistent
// voice. Styling goes through lipgloss; callers never touch styles
// directly. Everything writes to a single package-level writer so
// orchestrators (and their tests) can capture a whole run.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
	dest        io.Writer = os.Stdout
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// SetWriter redirects all output to w and returns the previous writer,
// so callers can restore it when they are done. A nil w resets to
// standard output.
func SetWriter(w io.Writer) io.Writer {
	prev := dest
	if w == nil {
		w = os.Stdout
	}
	dest = w
	return prev
}

// Success prints a success message with ✨ and green color.
// Use this for completed operations.
//
// Example:
//
//	output.Success("Created project: myshop")
func Success(msg string) {
	fmt.Fprintln(dest, successStyle.Render("✨ "+msg))
}

// Error prints an error message with ❌ and red color.
// Use this for failures that need user attention.
func Error(msg string) {
	fmt.Fprintln(dest, errorStyle.Render("❌ "+msg))
}

// Info prints an informational message in cyan.
// Use this for status updates or explanations.
func Info(msg string) {
	fmt.Fprintln(dest, infoStyle.Render("ℹ️  "+msg))
}

// Step prints an indented step message in gray.
// Use this for actionable next steps or sub-items.
//
// Example:
//
//	output.Step("cd myshop")
//	output.Step("just migrate")
func Step(msg string) {
	fmt.Fprintln(dest, stepStyle.Render("   "+msg))
}

// Verbose prints a debug message with 🔍 only if verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(dest, stepStyle.Render("🔍 "+msg))
	}
}
