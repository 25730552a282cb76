package gen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	diffHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	diffAddStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	diffDelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
	diffCtxStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Diff renders a unified-style line diff between an existing file and the
// content that would replace it. Used when a setup conflict is shown to
// the user before they decide to overwrite.
func Diff(path string, existing, newer []byte) string {
	if isBinary(existing) || isBinary(newer) {
		return "Binary files differ\n"
	}

	oldLines := splitKeepingLastEmpty(string(existing))
	newLines := splitKeepingLastEmpty(string(newer))

	var b strings.Builder
	b.WriteString(diffHeaderStyle.Render(fmt.Sprintf("--- %s (on disk)", path)) + "\n")
	b.WriteString(diffHeaderStyle.Render(fmt.Sprintf("+++ %s (generated)", path)) + "\n")

	for _, h := range diffHunks(oldLines, newLines, 3) {
		b.WriteString(diffCtxStyle.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			h.oldStart+1, h.oldCount, h.newStart+1, h.newCount)) + "\n")
		for _, line := range h.lines {
			switch line.op {
			case '+':
				b.WriteString(diffAddStyle.Render("+ "+line.text) + "\n")
			case '-':
				b.WriteString(diffDelStyle.Render("- "+line.text) + "\n")
			default:
				b.WriteString(diffCtxStyle.Render("  "+line.text) + "\n")
			}
		}
	}
	return b.String()
}

type diffLine struct {
	op   byte // '+', '-', or ' '
	text string
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []diffLine
}

// diffHunks computes an LCS-based line diff and groups changes into hunks
// with the given amount of surrounding context.
func diffHunks(oldLines, newLines []string, context int) []hunk {
	script := diffScript(oldLines, newLines)

	var hunks []hunk
	i := 0
	for i < len(script) {
		if script[i].op == ' ' {
			i++
			continue
		}

		start := i - context
		if start < 0 {
			start = 0
		}
		// Extend the hunk while changes stay within 2*context lines.
		end := i
		for j := i; j < len(script); j++ {
			if script[j].op != ' ' {
				end = j
			} else if j-end > 2*context {
				break
			}
		}
		stop := end + context + 1
		if stop > len(script) {
			stop = len(script)
		}

		h := hunk{lines: script[start:stop]}
		h.oldStart, h.newStart = offsets(script, start)
		for _, line := range h.lines {
			if line.op != '+' {
				h.oldCount++
			}
			if line.op != '-' {
				h.newCount++
			}
		}
		hunks = append(hunks, h)
		i = stop
	}
	return hunks
}

// offsets returns how many old/new lines precede script[idx].
func offsets(script []diffLine, idx int) (oldOff, newOff int) {
	for _, line := range script[:idx] {
		if line.op != '+' {
			oldOff++
		}
		if line.op != '-' {
			newOff++
		}
	}
	return oldOff, newOff
}

// diffScript produces the full edit script via a classic LCS table. The
// files djinn mutates are small config sources, so quadratic space is fine.
func diffScript(oldLines, newLines []string) []diffLine {
	n, m := len(oldLines), len(newLines)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	script := make([]diffLine, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case oldLines[i] == newLines[j]:
			script = append(script, diffLine{' ', oldLines[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			script = append(script, diffLine{'-', oldLines[i]})
			i++
		default:
			script = append(script, diffLine{'+', newLines[j]})
			j++
		}
	}
	for ; i < n; i++ {
		script = append(script, diffLine{'-', oldLines[i]})
	}
	for ; j < m; j++ {
		script = append(script, diffLine{'+', newLines[j]})
	}
	return script
}

func splitKeepingLastEmpty(s string) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func isBinary(data []byte) bool {
	limit := len(data)
	if limit > 8000 {
		limit = 8000
	}
	for _, b := range data[:limit] {
		if b == 0 {
			return true
		}
	}
	return false
}
