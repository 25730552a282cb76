package gen

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MutationKind selects how a payload is inserted relative to its anchor.
type MutationKind int

const (
	// InsertAfterAnchor places the payload on the line(s) immediately
	// following the anchor line.
	InsertAfterAnchor MutationKind = iota

	// InsertIntoListLiteral appends the payload as a new element of the
	// list literal opened on the anchor line, just before the closing
	// bracket, preserving the formatting of prior elements.
	InsertIntoListLiteral

	// ReplaceBlock replaces everything strictly between the anchor line
	// and the end-anchor line with the payload.
	ReplaceBlock
)

func (k MutationKind) String() string {
	switch k {
	case InsertAfterAnchor:
		return "insert-after-anchor"
	case InsertIntoListLiteral:
		return "insert-into-list"
	case ReplaceBlock:
		return "replace-block"
	default:
		return "unknown"
	}
}

// MutationOp is one anchored edit to an append-only file.
//
// The anchor must appear verbatim exactly once in the target file. The
// payload may span multiple lines; it is inserted as-is, one line per
// element.
type MutationOp struct {
	Path      string
	Kind      MutationKind
	Anchor    string
	EndAnchor string // ReplaceBlock only
	Payload   string
}

// ConflictError reports an anchor that is missing or ambiguous. The target
// file is left byte-for-byte unchanged.
type ConflictError struct {
	Path   string
	Anchor string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("mutation conflict in %s: anchor %q %s", e.Path, e.Anchor, e.Reason)
}

// Report summarizes one ApplyMutations run. A failed target aborts the
// remaining operations, but files mutated earlier in the run stay mutated:
// each file rewrite is its own atomic unit.
type Report struct {
	Applied int
	Skipped int
	Failed  []string // target paths that conflicted or could not be written
}

// ApplyMutations applies anchored edits to files already on disk, in
// order. Re-applying an op whose payload is already present is counted as
// skipped, not an error, so overlapping invocations are idempotent.
func ApplyMutations(ops []MutationOp) (Report, error) {
	var report Report
	for _, op := range ops {
		applied, err := applyMutation(op)
		if err != nil {
			report.Failed = append(report.Failed, op.Path)
			return report, err
		}
		if applied {
			report.Applied++
		} else {
			report.Skipped++
		}
	}
	return report, nil
}

func applyMutation(op MutationOp) (bool, error) {
	raw, err := os.ReadFile(op.Path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", op.Path, err)
	}
	mode := fileMode(op.Path)

	lines := strings.Split(string(raw), "\n")
	anchorIdx, err := findAnchor(op.Path, lines, op.Anchor)
	if err != nil {
		return false, err
	}

	var updated []string
	switch op.Kind {
	case InsertAfterAnchor:
		updated, err = insertAfter(lines, anchorIdx, op)
	case InsertIntoListLiteral:
		updated, err = insertIntoList(lines, anchorIdx, op)
	case ReplaceBlock:
		updated, err = replaceBlock(lines, anchorIdx, op)
	default:
		return false, fmt.Errorf("unknown mutation kind %d for %s", op.Kind, op.Path)
	}
	if err != nil {
		return false, err
	}
	if updated == nil {
		return false, nil // payload already present
	}

	if err := writeFileAtomic(op.Path, []byte(strings.Join(updated, "\n")), mode); err != nil {
		return false, fmt.Errorf("writing %s: %w", op.Path, err)
	}
	return true, nil
}

// findAnchor locates the single line containing the anchor.
func findAnchor(path string, lines []string, anchor string) (int, error) {
	if anchor == "" {
		return 0, &ConflictError{Path: path, Anchor: anchor, Reason: "is empty"}
	}

	idx := -1
	count := 0
	for i, line := range lines {
		if strings.Contains(line, anchor) {
			count++
			idx = i
		}
	}
	switch count {
	case 0:
		return 0, &ConflictError{Path: path, Anchor: anchor, Reason: "not found"}
	case 1:
		return idx, nil
	default:
		return 0, &ConflictError{Path: path, Anchor: anchor, Reason: fmt.Sprintf("found %d times, expected exactly once", count)}
	}
}

func payloadLines(payload string) []string {
	return strings.Split(strings.TrimRight(payload, "\n"), "\n")
}

// containsRun reports whether needle appears as a consecutive run inside
// haystack, comparing trimmed lines so indentation drift doesn't defeat
// idempotence.
func containsRun(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, want := range needle {
			if strings.TrimSpace(haystack[i+j]) != strings.TrimSpace(want) {
				continue outer
			}
		}
		return true
	}
	return false
}

func insertAfter(lines []string, anchorIdx int, op MutationOp) ([]string, error) {
	payload := payloadLines(op.Payload)
	if containsRun(lines[anchorIdx:], payload) {
		return nil, nil
	}

	updated := make([]string, 0, len(lines)+len(payload))
	updated = append(updated, lines[:anchorIdx+1]...)
	updated = append(updated, payload...)
	updated = append(updated, lines[anchorIdx+1:]...)
	return updated, nil
}

func insertIntoList(lines []string, anchorIdx int, op MutationOp) ([]string, error) {
	// The anchor line must open a list literal.
	if !strings.Contains(lines[anchorIdx], "[") {
		return nil, &ConflictError{Path: op.Path, Anchor: op.Anchor, Reason: "does not open a list literal"}
	}

	closeIdx := -1
	for i := anchorIdx + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "]" {
			closeIdx = i
			break
		}
	}
	if closeIdx == -1 {
		return nil, &ConflictError{Path: op.Path, Anchor: op.Anchor, Reason: "list literal is never closed"}
	}

	payload := payloadLines(op.Payload)
	if containsRun(lines[anchorIdx+1:closeIdx], payload) {
		return nil, nil
	}

	// Match the indentation of existing elements; default to four spaces.
	indent := "    "
	for i := closeIdx - 1; i > anchorIdx; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			indent = lines[i][:len(lines[i])-len(strings.TrimLeft(lines[i], " \t"))]
			break
		}
	}
	indented := make([]string, len(payload))
	for i, p := range payload {
		indented[i] = indent + strings.TrimSpace(p)
	}

	updated := make([]string, 0, len(lines)+len(indented))
	updated = append(updated, lines[:closeIdx]...)
	updated = append(updated, indented...)
	updated = append(updated, lines[closeIdx:]...)
	return updated, nil
}

func replaceBlock(lines []string, anchorIdx int, op MutationOp) ([]string, error) {
	if op.EndAnchor == "" {
		return nil, &ConflictError{Path: op.Path, Anchor: op.Anchor, Reason: "replace-block requires an end anchor"}
	}

	endIdx, err := findAnchor(op.Path, lines, op.EndAnchor)
	if err != nil {
		return nil, err
	}
	if endIdx <= anchorIdx {
		return nil, &ConflictError{Path: op.Path, Anchor: op.EndAnchor, Reason: "appears before the opening anchor"}
	}

	payload := payloadLines(op.Payload)
	current := lines[anchorIdx+1 : endIdx]
	if len(current) == len(payload) && containsRun(current, payload) {
		return nil, nil
	}

	updated := make([]string, 0, len(lines)-len(current)+len(payload))
	updated = append(updated, lines[:anchorIdx+1]...)
	updated = append(updated, payload...)
	updated = append(updated, lines[endIdx:]...)
	return updated, nil
}

func fileMode(path string) fs.FileMode {
	if st, err := os.Stat(path); err == nil {
		return st.Mode().Perm()
	}
	return 0644
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it over the original, so readers never observe a partial
// file. The temporary file is removed on any failure path.
func writeFileAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".djinn-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		cleanup()
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file over %s: %w", path, err)
	}
	return nil
}
